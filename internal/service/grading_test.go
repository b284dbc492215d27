package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventra-api/internal/domain"
)

type mockGradeRepo struct {
	criteria  []domain.GradingCriterion
	sheet     domain.GradeSheet
	failGrade map[string]error // criterion id -> error
	upserts   []string
	saved     *domain.GradeSheet
}

func (m *mockGradeRepo) GetCriteria(_ context.Context, _ string) ([]domain.GradingCriterion, error) {
	return m.criteria, nil
}

func (m *mockGradeRepo) GetSheet(_ context.Context, _, _, _ string) (domain.GradeSheet, error) {
	return m.sheet, nil
}

func (m *mockGradeRepo) SaveSheet(_ context.Context, sheet domain.GradeSheet) error {
	m.saved = &sheet
	return nil
}

func (m *mockGradeRepo) UpsertGrade(_ context.Context, grade domain.Grade) error {
	if err, ok := m.failGrade[grade.CriterionID]; ok {
		return err
	}
	m.upserts = append(m.upserts, grade.CriterionID)

	return nil
}

func twoCriteria() []domain.GradingCriterion {
	return []domain.GradingCriterion{
		{ID: "c1", Name: "Technical depth", MaxScore: 10, WeightPercentage: 60},
		{ID: "c2", Name: "Presentation", MaxScore: 5, WeightPercentage: 40},
	}
}

func TestGradingService_SubmitSheet(t *testing.T) {
	repo := &mockGradeRepo{
		criteria: twoCriteria(),
		sheet:    domain.GradeSheet{EventID: "evt-1", TeamID: "team-1", GraderID: "u1", State: domain.SheetUnsubmitted},
	}
	svc := NewGradingService(repo, &mockEventRepo{event: baseEvent()})

	result, err := svc.SubmitSheet(context.Background(), "evt-1", "team-1", "u1", map[string]float64{
		"c1": 8, // 80% of max, weight 60
		"c2": 3, // 60% of max, weight 40
	})
	require.NoError(t, err)

	assert.InDelta(t, 72.0, result.Final.Value, 0.0001)
	assert.ElementsMatch(t, []string{"c1", "c2"}, result.Submitted)
	assert.Empty(t, result.Failures)

	require.NotNil(t, repo.saved)
	assert.Equal(t, domain.SheetSubmitted, repo.saved.State)
}

func TestGradingService_SubmitSheet_IncompleteScores(t *testing.T) {
	repo := &mockGradeRepo{criteria: twoCriteria()}
	svc := NewGradingService(repo, &mockEventRepo{event: baseEvent()})

	_, err := svc.SubmitSheet(context.Background(), "evt-1", "team-1", "u1", map[string]float64{"c1": 8})

	assert.ErrorIs(t, err, domain.ErrUnscoredCriterion)
	assert.Empty(t, repo.upserts, "no grade is written until the set validates")
}

func TestGradingService_SubmitSheet_PartialFailure(t *testing.T) {
	repo := &mockGradeRepo{
		criteria:  twoCriteria(),
		sheet:     domain.GradeSheet{State: domain.SheetUnsubmitted},
		failGrade: map[string]error{"c2": errors.New("connection reset")},
	}
	svc := NewGradingService(repo, &mockEventRepo{event: baseEvent()})

	result, err := svc.SubmitSheet(context.Background(), "evt-1", "team-1", "u1", map[string]float64{
		"c1": 8,
		"c2": 3,
	})

	assert.ErrorIs(t, err, ErrPartialSubmission)
	assert.Equal(t, []string{"c1"}, result.Submitted)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "c2", result.Failures[0].ID)
	assert.Nil(t, repo.saved, "sheet must stay out of the submitted state")

	// Retrying once the store recovers completes the submission.
	repo.failGrade = nil
	result, err = svc.SubmitSheet(context.Background(), "evt-1", "team-1", "u1", map[string]float64{
		"c1": 8,
		"c2": 3,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Failures)
	require.NotNil(t, repo.saved)
	assert.Equal(t, domain.SheetSubmitted, repo.saved.State)
}

func TestGradingService_SubmitSheet_AlreadySubmitted(t *testing.T) {
	repo := &mockGradeRepo{
		criteria: twoCriteria(),
		sheet:    domain.GradeSheet{State: domain.SheetSubmitted},
	}
	svc := NewGradingService(repo, &mockEventRepo{event: baseEvent()})

	_, err := svc.SubmitSheet(context.Background(), "evt-1", "team-1", "u1", map[string]float64{
		"c1": 8,
		"c2": 3,
	})

	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Empty(t, repo.upserts)
}

func TestGradingService_BeginEdit(t *testing.T) {
	now := time.Now()
	viewStart := now.Add(-1 * time.Hour)
	viewEnd := now.Add(1 * time.Hour)

	event := baseEvent()
	event.Status = domain.EventPublished
	event.StartView = &viewStart
	event.EndView = &viewEnd

	repo := &mockGradeRepo{sheet: domain.GradeSheet{State: domain.SheetSubmitted}}
	svc := NewGradingService(repo, &mockEventRepo{event: event})

	sheet, err := svc.BeginEdit(context.Background(), "evt-1", "team-1", "u1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.SheetEditing, sheet.State)
	require.NotNil(t, repo.saved)
	assert.Equal(t, domain.SheetEditing, repo.saved.State)
}

func TestGradingService_BeginEdit_WindowClosed(t *testing.T) {
	now := time.Now()
	viewStart := now.Add(-2 * time.Hour)
	viewEnd := now.Add(-1 * time.Hour) // window already over

	event := baseEvent()
	event.Status = domain.EventPublished
	event.StartView = &viewStart
	event.EndView = &viewEnd

	repo := &mockGradeRepo{sheet: domain.GradeSheet{State: domain.SheetSubmitted}}
	svc := NewGradingService(repo, &mockEventRepo{event: event})

	_, err := svc.BeginEdit(context.Background(), "evt-1", "team-1", "u1", now)
	assert.ErrorIs(t, err, domain.ErrGradingWindowClosed)
	assert.Nil(t, repo.saved)
}

func TestGradingService_BeginEdit_Unsubmitted(t *testing.T) {
	now := time.Now()
	viewStart := now.Add(-1 * time.Hour)

	event := baseEvent()
	event.Status = domain.EventPublished
	event.StartView = &viewStart

	repo := &mockGradeRepo{sheet: domain.GradeSheet{State: domain.SheetUnsubmitted}}
	svc := NewGradingService(repo, &mockEventRepo{event: event})

	_, err := svc.BeginEdit(context.Background(), "evt-1", "team-1", "u1", now)
	assert.ErrorIs(t, err, domain.ErrNotSubmitted)
}
