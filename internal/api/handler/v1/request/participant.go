package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateParticipantRequest struct {
	EventGroup    *string `json:"event_group,omitempty"`
	IsLeader      *bool   `json:"is_leader,omitempty"`
	VirtualReward *int    `json:"virtual_reward,omitempty"`
	TeamID        *string `json:"team_id,omitempty"`
	ClearTeam     bool    `json:"clear_team,omitempty"`
}

func (req *UpdateParticipantRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.EventGroup, validation.In("ORGANIZER", "PRESENTER", "COMMITTEE", "GUEST")),
		validation.Field(&req.VirtualReward, validation.Min(0)),
	)
}
