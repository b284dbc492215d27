package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/eventra-api/internal/domain"
	"github.com/vietanh2810/eventra-api/internal/repository"
)

var ErrParticipantNotFound = repository.ErrParticipantNotFound

// PermissionError carries the gate's reason code for a denied action.
type PermissionError struct {
	Action domain.ParticipantAction
	Reason domain.DecisionReason
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%v denied: %v", e.Action, e.Reason)
}

type ParticipantRepository interface {
	GetByID(ctx context.Context, eventID, participantID string) (domain.Participant, error)
	FindByUserID(ctx context.Context, eventID, userID string) (domain.Participant, error)
	Update(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	Delete(ctx context.Context, eventID, participantID string) error
}

type ParticipantService struct {
	repo ParticipantRepository
}

func NewParticipantService(repo ParticipantRepository) *ParticipantService {
	return &ParticipantService{
		repo: repo,
	}
}

// ParticipantUpdate carries the requested mutations; nil fields are left
// untouched. Each set field is checked against the permission gate as its
// own action.
type ParticipantUpdate struct {
	EventGroup    *domain.EventGroup
	IsLeader      *bool
	VirtualReward *int
	TeamID        *string
	ClearTeam     bool
}

func (u ParticipantUpdate) actions() []domain.ParticipantAction {
	var actions []domain.ParticipantAction
	if u.EventGroup != nil {
		actions = append(actions, domain.ActionChangeRole)
	}
	if u.IsLeader != nil {
		actions = append(actions, domain.ActionToggleLeader)
	}
	if u.VirtualReward != nil {
		actions = append(actions, domain.ActionSetVirtualReward)
	}

	return actions
}

func (s *ParticipantService) UpdateParticipant(ctx context.Context, eventID, actorUserID, participantID string, upd ParticipantUpdate) (domain.Participant, error) {
	actor, err := s.repo.FindByUserID(ctx, eventID, actorUserID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	target, err := s.repo.GetByID(ctx, eventID, participantID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	newGroup := target.EventGroup
	if upd.EventGroup != nil {
		newGroup = *upd.EventGroup
	}

	for _, action := range upd.actions() {
		if decision := domain.Decide(actor, target, action, newGroup); !decision.Allowed {
			return domain.Participant{}, &PermissionError{Action: action, Reason: decision.Reason}
		}
	}

	if upd.EventGroup != nil {
		target.EventGroup = *upd.EventGroup
	}
	if upd.IsLeader != nil {
		target.IsLeader = *upd.IsLeader
	}
	if upd.VirtualReward != nil {
		target.VirtualReward = *upd.VirtualReward
	}
	if upd.ClearTeam {
		target.TeamID = nil
	} else if upd.TeamID != nil {
		target.TeamID = upd.TeamID
	}

	updated, err := s.repo.Update(ctx, target)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ParticipantService) RemoveParticipant(ctx context.Context, eventID, actorUserID, participantID string) error {
	actor, err := s.repo.FindByUserID(ctx, eventID, actorUserID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	target, err := s.repo.GetByID(ctx, eventID, participantID)
	if err != nil {
		return fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if decision := domain.Decide(actor, target, domain.ActionRemove, target.EventGroup); !decision.Allowed {
		return &PermissionError{Action: domain.ActionRemove, Reason: decision.Reason}
	}

	if err := s.repo.Delete(ctx, eventID, participantID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
