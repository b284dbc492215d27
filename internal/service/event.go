package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/eventra-api/internal/domain"
	"github.com/vietanh2810/eventra-api/internal/repository"
)

var (
	ErrEventNotFound    = repository.ErrEventNotFound
	ErrEventNameExists  = repository.ErrEventNameExists
	ErrSaveInFlight     = errors.New("a save is already in flight for this event")
	ErrAlreadyPublished = errors.New("event is already published")
)

type EventRepository interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	UpdateFields(ctx context.Context, event domain.Event, banner domain.ImagePatch) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string) error
	IsNameTaken(ctx context.Context, name, excludeEventID string) (bool, error)
}

// EventService orchestrates a draft save or publish: name uniqueness,
// per-collection reconciliation, parent field update, and the optional
// publish transition.
type EventService struct {
	repo     EventRepository
	rewards  SyncPort[domain.SpecialReward]
	fileReqs SyncPort[domain.FileRequirement]
	criteria SyncPort[domain.GradingCriterion]

	saves saveLatch
}

func NewEventService(
	repo EventRepository,
	rewards SyncPort[domain.SpecialReward],
	fileReqs SyncPort[domain.FileRequirement],
	criteria SyncPort[domain.GradingCriterion],
) *EventService {
	return &EventService{
		repo:     repo,
		rewards:  rewards,
		fileReqs: fileReqs,
		criteria: criteria,
		saves:    saveLatch{held: map[string]struct{}{}},
	}
}

// DraftSave is one editing session's state at save time: the parent's scalar
// and window fields plus the full locally edited sub-collections.
type DraftSave struct {
	Name              string
	StartJoinDate     *time.Time
	EndJoinDate       *time.Time
	StartView         *time.Time
	EndView           *time.Time
	IsPublic          bool
	HideParticipants  bool
	HasCommittee      bool
	VirtualRewardPool int
	Banner            domain.ImagePatch

	Rewards          []domain.SpecialReward
	FileRequirements []domain.FileRequirement
	Criteria         []domain.GradingCriterion
}

// SaveResult reports the converged event, the local-to-store id remaps the
// session must apply, and any per-entry failures (the save itself still
// succeeds around them).
type SaveResult struct {
	Event            domain.Event
	Rewards          SyncOutcome
	FileRequirements SyncOutcome
	Criteria         SyncOutcome
}

func (r SaveResult) SyncFailures() []SyncFailure {
	var all []SyncFailure
	all = append(all, r.Rewards.Failures...)
	all = append(all, r.FileRequirements.Failures...)
	all = append(all, r.Criteria.Failures...)

	return all
}

func (s *EventService) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.Status = domain.EventDraft

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) CheckEventName(ctx context.Context, name string) (bool, error) {
	taken, err := s.repo.IsNameTaken(ctx, name, "")
	if err != nil {
		return false, fmt.Errorf("s.repo.IsNameTaken -> %w", err)
	}

	return !taken, nil
}

// SaveDraft runs the full save flow without the publish transition or its
// window-ordering checks.
func (s *EventService) SaveDraft(ctx context.Context, eventID string, in DraftSave) (SaveResult, error) {
	return s.save(ctx, eventID, in, false)
}

// Publish runs the save flow and then transitions the event to published.
// Window-ordering constraints are enforced here and only here.
func (s *EventService) Publish(ctx context.Context, eventID string, in DraftSave) (SaveResult, error) {
	return s.save(ctx, eventID, in, true)
}

func (s *EventService) save(ctx context.Context, eventID string, in DraftSave, publish bool) (SaveResult, error) {
	if !s.saves.acquire(eventID) {
		return SaveResult{}, ErrSaveInFlight
	}
	defer s.saves.release(eventID)

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return SaveResult{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	// Name uniqueness, skipped when the name is unchanged.
	if in.Name != event.Name {
		taken, err := s.repo.IsNameTaken(ctx, in.Name, eventID)
		if err != nil {
			return SaveResult{}, fmt.Errorf("s.repo.IsNameTaken -> %w", err)
		}
		if taken {
			return SaveResult{}, ErrEventNameExists
		}
	}

	updated := applyDraft(event, in)

	if publish {
		if err := updated.ValidatePublishWindows(); err != nil {
			return SaveResult{}, err
		}
	}

	rewards := withEventID(in.Rewards, eventID, setRewardEventID)
	fileReqs := withEventID(in.FileRequirements, eventID, setFileRequirementEventID)
	criteria := withEventID(in.Criteria, eventID, setCriterionEventID)

	// Every collection is validated before any of them touches the store;
	// an invalid entry anywhere aborts the whole save with no calls made.
	for _, err := range []error{
		validateCollection("rewards", rewards),
		validateCollection("fileRequirements", fileReqs),
		validateCollection("criteria", criteria),
	} {
		if err != nil {
			return SaveResult{}, err
		}
	}

	result := SaveResult{}

	// The three collections are independent; reconcile them concurrently.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		result.Rewards, _ = Reconcile(ctx, "rewards", event.Rewards, rewards, s.rewards)
	}()
	go func() {
		defer wg.Done()
		result.FileRequirements, _ = Reconcile(ctx, "fileRequirements", event.FileRequirements, fileReqs, s.fileReqs)
	}()
	go func() {
		defer wg.Done()
		result.Criteria, _ = Reconcile(ctx, "criteria", event.Criteria, criteria, s.criteria)
	}()
	wg.Wait()

	warnCriteriaWeights(in.Criteria)

	saved, err := s.repo.UpdateFields(ctx, updated, in.Banner)
	if err != nil {
		return result, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}
	result.Event = saved

	if publish && saved.Status != domain.EventPublished {
		if err := s.repo.Publish(ctx, eventID); err != nil {
			return result, fmt.Errorf("s.repo.Publish -> %w", err)
		}
		result.Event.Status = domain.EventPublished
	}

	// Entry-level sync failures do not block the save; the caller surfaces
	// them in aggregate and re-running converges the rest.
	return result, nil
}

func applyDraft(event domain.Event, in DraftSave) domain.Event {
	event.Name = in.Name
	event.StartJoinDate = in.StartJoinDate
	event.EndJoinDate = in.EndJoinDate
	event.StartView = in.StartView
	event.EndView = in.EndView
	event.IsPublic = in.IsPublic
	event.HideParticipants = in.HideParticipants
	event.HasCommittee = in.HasCommittee
	event.VirtualRewardPool = in.VirtualRewardPool

	return event
}

func withEventID[T any](entities []T, eventID string, set func(*T, string)) []T {
	out := make([]T, len(entities))
	for i := range entities {
		out[i] = entities[i]
		set(&out[i], eventID)
	}

	return out
}

func setRewardEventID(r *domain.SpecialReward, id string) { r.EventID = id }

func setFileRequirementEventID(f *domain.FileRequirement, id string) { f.EventID = id }

func setCriterionEventID(c *domain.GradingCriterion, id string) { c.EventID = id }

func warnCriteriaWeights(criteria []domain.GradingCriterion) {
	if len(criteria) == 0 {
		return
	}

	var total float64
	for _, c := range criteria {
		total += c.WeightPercentage
	}

	if total != 100 {
		zap.L().Warn("criteria weights do not sum to 100; final scores will be renormalized",
			zap.Float64("total_weight", total),
		)
	}
}

// saveLatch serializes the save/publish flow per event. All editing state is
// session-confined, so a process-local latch is sufficient; cross-session
// conflicts are the store's last-write-wins problem.
type saveLatch struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func (l *saveLatch) acquire(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[id]; busy {
		return false
	}
	l.held[id] = struct{}{}

	return true
}

func (l *saveLatch) release(id string) {
	l.mu.Lock()
	delete(l.held, id)
	l.mu.Unlock()
}
