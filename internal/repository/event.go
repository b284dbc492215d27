package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/vietanh2810/eventra-api/internal/domain"
	"github.com/vietanh2810/eventra-api/internal/repository/dao"
)

var (
	ErrEventNotFound           = dao.ErrEventNotFound
	ErrEventNameExists         = dao.ErrEventNameExists
	ErrRewardNotFound          = dao.ErrRewardNotFound
	ErrFileRequirementNotFound = dao.ErrFileRequirementNotFound
	ErrCriterionNotFound       = dao.ErrCriterionNotFound
)

type EventRepository struct {
	dao *dao.EventDAO
}

func NewEventRepository(eventDAO *dao.EventDAO) *EventRepository {
	return &EventRepository{
		dao: eventDAO,
	}
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (domain.Event, error) {
	event, err := r.dao.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(event), nil
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Create(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) UpdateFields(ctx context.Context, event domain.Event, banner domain.ImagePatch) (domain.Event, error) {
	updated, err := r.dao.UpdateFields(ctx, eventDomainToDao(event), imagePatchToDao(banner))
	if err != nil {
		return domain.Event{}, err
	}

	return eventDaoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.dao.Delete(ctx, id)
}

func (r *EventRepository) Publish(ctx context.Context, id string) error {
	return r.dao.Publish(ctx, id)
}

func (r *EventRepository) IsNameTaken(ctx context.Context, name, excludeEventID string) (bool, error) {
	return r.dao.IsNameTaken(ctx, name, excludeEventID)
}

// imagePatchToDao lowers the tri-state patch to the DAO convention:
// nil = untouched, empty = cleared, otherwise the replacement URL.
func imagePatchToDao(patch domain.ImagePatch) *string {
	switch patch.Kind {
	case domain.ImageReplace:
		url := patch.URL
		return &url
	case domain.ImageClear:
		empty := ""
		return &empty
	default:
		return nil
	}
}

func eventDomainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:                e.ID,
		Name:              e.Name,
		Status:            string(e.Status),
		StartJoinDate:     e.StartJoinDate,
		EndJoinDate:       e.EndJoinDate,
		StartView:         e.StartView,
		EndView:           e.EndView,
		IsPublic:          e.IsPublic,
		HideParticipants:  e.HideParticipants,
		HasCommittee:      e.HasCommittee,
		VirtualRewardPool: e.VirtualRewardPool,
		BannerURL:         e.BannerURL,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func eventDaoToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:                e.ID,
		Name:              e.Name,
		Status:            domain.EventStatus(e.Status),
		StartJoinDate:     e.StartJoinDate,
		EndJoinDate:       e.EndJoinDate,
		StartView:         e.StartView,
		EndView:           e.EndView,
		IsPublic:          e.IsPublic,
		HideParticipants:  e.HideParticipants,
		HasCommittee:      e.HasCommittee,
		VirtualRewardPool: e.VirtualRewardPool,
		BannerURL:         e.BannerURL,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}

	for _, p := range e.Participants {
		event.Participants = append(event.Participants, participantDaoToDomain(p))
	}
	for _, t := range e.Teams {
		event.Teams = append(event.Teams, teamDaoToDomain(t))
	}
	for _, reward := range e.Rewards {
		event.Rewards = append(event.Rewards, rewardDaoToDomain(reward))
	}
	for _, req := range e.FileRequirements {
		event.FileRequirements = append(event.FileRequirements, fileRequirementDaoToDomain(req))
	}
	for _, c := range e.Criteria {
		event.Criteria = append(event.Criteria, criterionDaoToDomain(c))
	}

	return event
}

func rewardDomainToDao(r domain.SpecialReward) dao.SpecialReward {
	return dao.SpecialReward{
		ID:          r.ID,
		EventID:     r.EventID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func rewardDaoToDomain(r dao.SpecialReward) domain.SpecialReward {
	return domain.SpecialReward{
		ID:          r.ID,
		EventID:     r.EventID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func fileRequirementDomainToDao(f domain.FileRequirement) dao.FileRequirement {
	return dao.FileRequirement{
		ID:                f.ID,
		EventID:           f.EventID,
		Name:              f.Name,
		Description:       f.Description,
		Required:          f.Required,
		AllowedExtensions: strings.Join(f.AllowedExtensions, ","),
		CreatedAt:         f.CreatedAt,
		UpdatedAt:         f.UpdatedAt,
	}
}

func fileRequirementDaoToDomain(f dao.FileRequirement) domain.FileRequirement {
	req := domain.FileRequirement{
		ID:          f.ID,
		EventID:     f.EventID,
		Name:        f.Name,
		Description: f.Description,
		Required:    f.Required,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.AllowedExtensions != "" {
		req.AllowedExtensions = strings.Split(f.AllowedExtensions, ",")
	}

	return req
}

// RewardStore adapts the reward DAO operations to the reconciler's port.
// Create strips any local placeholder id; the store-assigned one comes back
// on the created entity.
type RewardStore struct {
	dao *dao.EventDAO
}

func NewRewardStore(eventDAO *dao.EventDAO) *RewardStore {
	return &RewardStore{
		dao: eventDAO,
	}
}

func (s *RewardStore) Create(ctx context.Context, reward domain.SpecialReward) (domain.SpecialReward, error) {
	toCreate := rewardDomainToDao(reward)
	if reward.Image.Kind == domain.ImageReplace {
		toCreate.ImageURL = reward.Image.URL
	}

	created, err := s.dao.CreateReward(ctx, toCreate)
	if err != nil {
		return domain.SpecialReward{}, fmt.Errorf("s.dao.CreateReward -> %w", err)
	}

	return rewardDaoToDomain(created), nil
}

func (s *RewardStore) Update(ctx context.Context, reward domain.SpecialReward) (domain.SpecialReward, error) {
	updated, err := s.dao.UpdateReward(ctx, rewardDomainToDao(reward), imagePatchToDao(reward.Image))
	if err != nil {
		return domain.SpecialReward{}, fmt.Errorf("s.dao.UpdateReward -> %w", err)
	}

	return rewardDaoToDomain(updated), nil
}

func (s *RewardStore) Delete(ctx context.Context, id string) error {
	return s.dao.DeleteReward(ctx, id)
}

type FileRequirementStore struct {
	dao *dao.EventDAO
}

func NewFileRequirementStore(eventDAO *dao.EventDAO) *FileRequirementStore {
	return &FileRequirementStore{
		dao: eventDAO,
	}
}

func (s *FileRequirementStore) Create(ctx context.Context, req domain.FileRequirement) (domain.FileRequirement, error) {
	created, err := s.dao.CreateFileRequirement(ctx, fileRequirementDomainToDao(req))
	if err != nil {
		return domain.FileRequirement{}, fmt.Errorf("s.dao.CreateFileRequirement -> %w", err)
	}

	return fileRequirementDaoToDomain(created), nil
}

func (s *FileRequirementStore) Update(ctx context.Context, req domain.FileRequirement) (domain.FileRequirement, error) {
	updated, err := s.dao.UpdateFileRequirement(ctx, fileRequirementDomainToDao(req))
	if err != nil {
		return domain.FileRequirement{}, fmt.Errorf("s.dao.UpdateFileRequirement -> %w", err)
	}

	return fileRequirementDaoToDomain(updated), nil
}

func (s *FileRequirementStore) Delete(ctx context.Context, id string) error {
	return s.dao.DeleteFileRequirement(ctx, id)
}
