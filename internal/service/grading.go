package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/eventra-api/internal/domain"
	"github.com/vietanh2810/eventra-api/internal/repository"
)

var (
	ErrPartialSubmission = errors.New("some grades were not persisted")
	ErrTeamNotFound      = repository.ErrTeamNotFound
)

type GradeRepository interface {
	GetCriteria(ctx context.Context, eventID string) ([]domain.GradingCriterion, error)
	GetSheet(ctx context.Context, eventID, teamID, graderID string) (domain.GradeSheet, error)
	SaveSheet(ctx context.Context, sheet domain.GradeSheet) error
	// UpsertGrade persists one criterion's score. One call per criterion;
	// no surrounding transaction.
	UpsertGrade(ctx context.Context, grade domain.Grade) error
}

type GradingService struct {
	repo   GradeRepository
	events EventRepository
}

func NewGradingService(repo GradeRepository, events EventRepository) *GradingService {
	return &GradingService{
		repo:   repo,
		events: events,
	}
}

// SubmitResult reports which criteria were durably graded. On a partial
// failure Submitted names the criteria that made it; the sheet stays out of
// the submitted state so re-running the submission is the recovery path.
type SubmitResult struct {
	Final     domain.FinalScore `json:"final"`
	Submitted []string          `json:"submitted"`
	Failures  []SyncFailure     `json:"failures,omitempty"`
}

// SubmitSheet validates a full score set, aggregates it, and writes one
// grade per criterion. Writes are independent and not rolled back; an
// interrupted sequence leaves some criteria graded and the rest reported in
// Failures alongside ErrPartialSubmission.
func (s *GradingService) SubmitSheet(ctx context.Context, eventID, teamID, graderID string, scores map[string]float64) (SubmitResult, error) {
	criteria, err := s.repo.GetCriteria(ctx, eventID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("s.repo.GetCriteria -> %w", err)
	}

	final, err := domain.ComputeFinalScore(criteria, scores)
	if err != nil {
		return SubmitResult{}, err
	}

	if final.WeightWarning {
		zap.L().Warn("grading criteria weights do not sum to 100",
			zap.String("event_id", eventID),
			zap.Float64("total_weight", final.TotalWeight),
		)
	}

	sheet, err := s.repo.GetSheet(ctx, eventID, teamID, graderID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("s.repo.GetSheet -> %w", err)
	}
	if err := sheet.CanSubmit(); err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{Final: final}

	for _, criterion := range criteria {
		grade := domain.Grade{
			EventID:     eventID,
			TeamID:      teamID,
			GraderID:    graderID,
			CriterionID: criterion.ID,
			Score:       scores[criterion.ID],
		}

		if err := s.repo.UpsertGrade(ctx, grade); err != nil {
			zap.L().Warn("grade write failed",
				zap.String("event_id", eventID),
				zap.String("team_id", teamID),
				zap.String("criterion_id", criterion.ID),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, SyncFailure{
				ID:  criterion.ID,
				Op:  "submitGrade",
				Err: err.Error(),
			})

			continue
		}

		result.Submitted = append(result.Submitted, criterion.ID)
	}

	if len(result.Failures) > 0 {
		return result, ErrPartialSubmission
	}

	sheet.MarkSubmitted()
	sheet.UpdatedAt = time.Now()
	if err := s.repo.SaveSheet(ctx, sheet); err != nil {
		return result, fmt.Errorf("s.repo.SaveSheet -> %w", err)
	}

	return result, nil
}

// BeginEdit reopens a submitted sheet, gated by the event's grading window.
func (s *GradingService) BeginEdit(ctx context.Context, eventID, teamID, graderID string, now time.Time) (domain.GradeSheet, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return domain.GradeSheet{}, fmt.Errorf("s.events.GetByID -> %w", err)
	}

	sheet, err := s.repo.GetSheet(ctx, eventID, teamID, graderID)
	if err != nil {
		return domain.GradeSheet{}, fmt.Errorf("s.repo.GetSheet -> %w", err)
	}

	if err := sheet.BeginEdit(event.GradingWindowOpen(now)); err != nil {
		return domain.GradeSheet{}, err
	}

	sheet.UpdatedAt = now
	if err := s.repo.SaveSheet(ctx, sheet); err != nil {
		return domain.GradeSheet{}, fmt.Errorf("s.repo.SaveSheet -> %w", err)
	}

	return sheet, nil
}
