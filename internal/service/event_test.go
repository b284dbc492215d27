package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventra-api/internal/domain"
)

type mockEventRepo struct {
	mu           sync.Mutex
	event        domain.Event
	nameTaken    bool
	nameChecks   int
	fieldUpdates int
	published    bool

	// When set, UpdateFields announces entry and then waits for the signal.
	blockUpdate   chan struct{}
	updateEntered chan struct{}
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (domain.Event, error) {
	if id != m.event.ID {
		return domain.Event{}, ErrEventNotFound
	}

	return m.event, nil
}

func (m *mockEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = "evt-1"
	return event, nil
}

func (m *mockEventRepo) UpdateFields(_ context.Context, event domain.Event, _ domain.ImagePatch) (domain.Event, error) {
	if m.blockUpdate != nil {
		m.updateEntered <- struct{}{}
		<-m.blockUpdate
	}

	m.mu.Lock()
	m.fieldUpdates++
	m.event.Name = event.Name
	updated := m.event
	m.mu.Unlock()

	return updated, nil
}

func (m *mockEventRepo) Delete(_ context.Context, _ string) error {
	return nil
}

func (m *mockEventRepo) Publish(_ context.Context, _ string) error {
	m.mu.Lock()
	m.published = true
	m.mu.Unlock()

	return nil
}

func (m *mockEventRepo) IsNameTaken(_ context.Context, _, _ string) (bool, error) {
	m.mu.Lock()
	m.nameChecks++
	m.mu.Unlock()

	return m.nameTaken, nil
}

type fakeFileReqPort struct {
	mu    sync.Mutex
	calls int
}

func (p *fakeFileReqPort) count() {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
}

func (p *fakeFileReqPort) Create(_ context.Context, f domain.FileRequirement) (domain.FileRequirement, error) {
	p.count()
	f.ID = "srv-f1"
	return f, nil
}

func (p *fakeFileReqPort) Update(_ context.Context, f domain.FileRequirement) (domain.FileRequirement, error) {
	p.count()
	return f, nil
}

func (p *fakeFileReqPort) Delete(_ context.Context, _ string) error {
	p.count()
	return nil
}

type fakeCriterionPort struct {
	mu    sync.Mutex
	calls int
}

func (p *fakeCriterionPort) count() {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
}

func (p *fakeCriterionPort) Create(_ context.Context, c domain.GradingCriterion) (domain.GradingCriterion, error) {
	p.count()
	c.ID = "srv-c1"
	return c, nil
}

func (p *fakeCriterionPort) Update(_ context.Context, c domain.GradingCriterion) (domain.GradingCriterion, error) {
	p.count()
	return c, nil
}

func (p *fakeCriterionPort) Delete(_ context.Context, _ string) error {
	p.count()
	return nil
}

func newTestEventService(repo *mockEventRepo, rewards SyncPort[domain.SpecialReward]) *EventService {
	return NewEventService(repo, rewards, &fakeFileReqPort{}, &fakeCriterionPort{})
}

func baseEvent() domain.Event {
	return domain.Event{
		ID:     "evt-1",
		Name:   "Demo Day",
		Status: domain.EventDraft,
		Rewards: []domain.SpecialReward{
			{ID: "a", EventID: "evt-1", Name: "Best demo"},
		},
	}
}

func TestEventService_SaveDraft(t *testing.T) {
	repo := &mockEventRepo{event: baseEvent()}
	rewards := newFakeRewardPort()
	svc := newTestEventService(repo, rewards)

	in := DraftSave{
		Name: "Demo Day",
		Rewards: []domain.SpecialReward{
			{ID: "a", Name: "Best demo, renamed"},
			{ID: "local-1", Name: "Audience favorite"},
		},
	}

	result, err := svc.SaveDraft(context.Background(), "evt-1", in)
	require.NoError(t, err)

	assert.Equal(t, 0, repo.nameChecks, "unchanged name skips the availability check")
	assert.Equal(t, 1, repo.fieldUpdates)
	assert.Equal(t, []string{"a"}, result.Rewards.Updated)
	assert.Equal(t, map[string]string{"local-1": "srv-1"}, result.Rewards.Created)
	assert.False(t, repo.published, "plain save must not publish")
	assert.Empty(t, result.SyncFailures())
}

func TestEventService_SaveDraft_NameConflict(t *testing.T) {
	repo := &mockEventRepo{event: baseEvent(), nameTaken: true}
	svc := newTestEventService(repo, newFakeRewardPort())

	_, err := svc.SaveDraft(context.Background(), "evt-1", DraftSave{Name: "Taken"})

	assert.ErrorIs(t, err, ErrEventNameExists)
	assert.Equal(t, 1, repo.nameChecks)
	assert.Equal(t, 0, repo.fieldUpdates, "conflict blocks the whole save")
}

func TestEventService_SaveDraft_ValidationAborts(t *testing.T) {
	repo := &mockEventRepo{event: baseEvent()}
	svc := newTestEventService(repo, newFakeRewardPort())

	in := DraftSave{
		Name:    "Demo Day",
		Rewards: []domain.SpecialReward{{ID: "local-1", Name: ""}},
	}

	_, err := svc.SaveDraft(context.Background(), "evt-1", in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rewards", vErr.Collection)
	assert.Equal(t, 0, repo.fieldUpdates)
}

func TestEventService_SaveDraft_ValidationBlocksSiblingCollections(t *testing.T) {
	repo := &mockEventRepo{event: baseEvent()}
	rewards := newFakeRewardPort()
	fileReqs := &fakeFileReqPort{}
	criteria := &fakeCriterionPort{}
	svc := NewEventService(repo, rewards, fileReqs, criteria)

	in := DraftSave{
		Name:    "Demo Day",
		Rewards: []domain.SpecialReward{{ID: "local-1", Name: ""}},
		Criteria: []domain.GradingCriterion{
			{ID: "local-2", Name: "Clarity", MaxScore: 10, WeightPercentage: 100},
		},
		FileRequirements: []domain.FileRequirement{
			{ID: "local-3", Name: "Slides"},
		},
	}

	_, err := svc.SaveDraft(context.Background(), "evt-1", in)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rewards", vErr.Collection)

	// One invalid collection stops every collection before any store call.
	assert.Equal(t, 0, rewards.creates, "reward port must not be called")
	assert.Empty(t, rewards.updates)
	assert.Empty(t, rewards.deletes)
	assert.Equal(t, 0, criteria.calls, "criterion port must not be called")
	assert.Equal(t, 0, fileReqs.calls, "file requirement port must not be called")
	assert.Equal(t, 0, repo.fieldUpdates)
}

func TestEventService_Publish_WindowOrdering(t *testing.T) {
	now := time.Now()
	joinStart := now.Add(1 * time.Hour)
	joinEnd := now.Add(2 * time.Hour)
	viewStart := now.Add(90 * time.Minute) // overlaps the join window

	repo := &mockEventRepo{event: baseEvent()}
	svc := newTestEventService(repo, newFakeRewardPort())

	in := DraftSave{
		Name:          "Demo Day",
		StartJoinDate: &joinStart,
		EndJoinDate:   &joinEnd,
		StartView:     &viewStart,
		Rewards:       []domain.SpecialReward{{ID: "a", Name: "Best demo"}},
	}

	_, err := svc.Publish(context.Background(), "evt-1", in)
	assert.ErrorIs(t, err, domain.ErrJoinAfterView)
	assert.False(t, repo.published)

	// The same windows are acceptable on a plain draft save.
	_, err = svc.SaveDraft(context.Background(), "evt-1", in)
	assert.NoError(t, err)
}

func TestEventService_Publish(t *testing.T) {
	repo := &mockEventRepo{event: baseEvent()}
	svc := newTestEventService(repo, newFakeRewardPort())

	in := DraftSave{
		Name:    "Demo Day",
		Rewards: []domain.SpecialReward{{ID: "a", Name: "Best demo"}},
	}

	result, err := svc.Publish(context.Background(), "evt-1", in)
	require.NoError(t, err)

	assert.True(t, repo.published)
	assert.Equal(t, domain.EventPublished, result.Event.Status)
}

func TestEventService_SaveSerializedPerEvent(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	repo := &mockEventRepo{event: baseEvent(), blockUpdate: block, updateEntered: entered}
	svc := newTestEventService(repo, newFakeRewardPort())

	in := DraftSave{
		Name:    "Demo Day",
		Rewards: []domain.SpecialReward{{ID: "a", Name: "Best demo"}},
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.SaveDraft(context.Background(), "evt-1", in)
		firstDone <- err
	}()

	// Wait until the first save is inside the blocked store call, holding the
	// latch, then try a second save for the same event.
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("first save never reached the store")
	}

	_, err := svc.SaveDraft(context.Background(), "evt-1", in)
	assert.ErrorIs(t, err, ErrSaveInFlight)

	close(block)
	assert.NoError(t, <-firstDone)

	// Latch released: saving again works.
	repo.blockUpdate = nil
	_, err = svc.SaveDraft(context.Background(), "evt-1", in)
	assert.NoError(t, err)
}

func TestEventService_SyncFailuresDoNotFailSave(t *testing.T) {
	repo := &mockEventRepo{event: baseEvent()}
	rewards := newFakeRewardPort()
	rewards.failOps["update:a"] = assert.AnError
	svc := newTestEventService(repo, rewards)

	in := DraftSave{
		Name: "Demo Day",
		Rewards: []domain.SpecialReward{
			{ID: "a", Name: "changed"},
			{ID: "local-1", Name: "fresh"},
		},
	}

	result, err := svc.SaveDraft(context.Background(), "evt-1", in)
	require.NoError(t, err, "entry-level sync failures must not fail the save")

	assert.Equal(t, 1, repo.fieldUpdates)
	require.Len(t, result.SyncFailures(), 1)
	assert.Equal(t, "a", result.SyncFailures()[0].ID)
	assert.Len(t, result.Rewards.Created, 1)
}
