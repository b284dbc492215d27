package repository

import (
	"context"

	"github.com/vietanh2810/eventra-api/internal/domain"
	"github.com/vietanh2810/eventra-api/internal/repository/dao"
)

var (
	ErrParticipantNotFound = dao.ErrParticipantNotFound
	ErrTeamNotFound        = dao.ErrTeamNotFound
)

type ParticipantRepository struct {
	dao *dao.ParticipantDAO
}

func NewParticipantRepository(participantDAO *dao.ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: participantDAO,
	}
}

func (r *ParticipantRepository) GetByID(ctx context.Context, eventID, participantID string) (domain.Participant, error) {
	participant, err := r.dao.GetByID(ctx, eventID, participantID)
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(participant), nil
}

func (r *ParticipantRepository) FindByUserID(ctx context.Context, eventID, userID string) (domain.Participant, error) {
	participant, err := r.dao.FindByUserID(ctx, eventID, userID)
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(participant), nil
}

func (r *ParticipantRepository) Update(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	updated, err := r.dao.Update(ctx, participantDomainToDao(participant))
	if err != nil {
		return domain.Participant{}, err
	}

	return participantDaoToDomain(updated), nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, eventID, participantID string) error {
	return r.dao.Delete(ctx, eventID, participantID)
}

func participantDomainToDao(p domain.Participant) dao.Participant {
	return dao.Participant{
		ID:            p.ID,
		EventID:       p.EventID,
		UserID:        p.UserID,
		EventGroup:    string(p.EventGroup),
		IsLeader:      p.IsLeader,
		TeamID:        p.TeamID,
		VirtualReward: p.VirtualReward,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func participantDaoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:            p.ID,
		EventID:       p.EventID,
		UserID:        p.UserID,
		EventGroup:    domain.EventGroup(p.EventGroup),
		IsLeader:      p.IsLeader,
		TeamID:        p.TeamID,
		VirtualReward: p.VirtualReward,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func teamDaoToDomain(t dao.Team) domain.Team {
	team := domain.Team{
		ID:        t.ID,
		EventID:   t.EventID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	for _, member := range t.Members {
		team.Members = append(team.Members, participantDaoToDomain(member))
	}

	return team
}
