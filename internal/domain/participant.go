package domain

import "time"

type EventGroup string

const (
	GroupOrganizer EventGroup = "ORGANIZER"
	GroupPresenter EventGroup = "PRESENTER"
	GroupCommittee EventGroup = "COMMITTEE"
	GroupGuest     EventGroup = "GUEST"
)

type Participant struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	UserID        string     `json:"user_id"`
	EventGroup    EventGroup `json:"event_group"`
	IsLeader      bool       `json:"is_leader"`
	TeamID        *string    `json:"team_id,omitempty"`
	VirtualReward int        `json:"virtual_reward"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ParticipantAction string

const (
	ActionChangeRole       ParticipantAction = "changeRole"
	ActionToggleLeader     ParticipantAction = "toggleLeader"
	ActionSetVirtualReward ParticipantAction = "setVirtualReward"
	ActionRemove           ParticipantAction = "remove"
)

type DecisionReason string

const (
	ReasonOK                    DecisionReason = "ok"
	ReasonSelfAction            DecisionReason = "self-action"
	ReasonInsufficientPrivilege DecisionReason = "insufficient-privilege"
	ReasonImmutableRole         DecisionReason = "immutable-role"
)

type Decision struct {
	Allowed bool           `json:"allowed"`
	Reason  DecisionReason `json:"reason"`
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonOK}
}

func deny(reason DecisionReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decide encodes the organizer-specific exceptions on participant mutations.
// General management rights are assumed to have been checked upstream; this
// gate only rules on the cases where organizers need special handling.
// newGroup is consulted for ActionChangeRole only.
func Decide(actor, target Participant, action ParticipantAction, newGroup EventGroup) Decision {
	// Nobody removes or demotes themselves through this path.
	if (action == ActionRemove || action == ActionChangeRole) && actor.UserID == target.UserID {
		return deny(ReasonSelfAction)
	}

	// An organizer's group cannot be changed via the generic role-change path.
	if action == ActionChangeRole && target.EventGroup == GroupOrganizer {
		return deny(ReasonImmutableRole)
	}

	organizerLeader := actor.EventGroup == GroupOrganizer && actor.IsLeader

	// Acting on a fellow organizer requires the organizer leader.
	if target.EventGroup == GroupOrganizer && !organizerLeader {
		return deny(ReasonInsufficientPrivilege)
	}

	// Promoting someone into the organizer group requires the same.
	if action == ActionChangeRole && newGroup == GroupOrganizer && !organizerLeader {
		return deny(ReasonInsufficientPrivilege)
	}

	return allow()
}
