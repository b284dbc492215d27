package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type GradingCriterion struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	MaxScore         float64   `json:"max_score"`
	WeightPercentage float64   `json:"weight_percentage"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (c GradingCriterion) Validate() error {
	c.Name = strings.TrimSpace(c.Name)

	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&c.Description, validation.Length(0, 120)),
		validation.Field(&c.MaxScore, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.WeightPercentage, validation.Min(0.0), validation.Max(100.0)),
	)
}

func (c GradingCriterion) SyncID() string {
	return c.ID
}

func (c GradingCriterion) ContentEquals(other GradingCriterion) bool {
	return c.Name == other.Name &&
		c.Description == other.Description &&
		c.MaxScore == other.MaxScore &&
		c.WeightPercentage == other.WeightPercentage
}

// Grade is one criterion's recorded score for a team.
type Grade struct {
	EventID     string    `json:"event_id"`
	TeamID      string    `json:"team_id"`
	GraderID    string    `json:"grader_id"`
	CriterionID string    `json:"criterion_id"`
	Score       float64   `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrUnscoredCriterion = errors.New("criterion has no recorded score")
	ErrUnknownCriterion  = errors.New("score recorded for unknown criterion")
	ErrScoreOutOfRange   = errors.New("score outside [0, maxScore]")
	ErrZeroTotalWeight   = errors.New("total criteria weight is zero")
	ErrNoCriteria        = errors.New("no grading criteria configured")
)

// ValidateScores checks a full score set against the criteria: every
// criterion must be scored, every score must be within range, and no score
// may reference a criterion outside the set. Partial sets are rejected.
func ValidateScores(criteria []GradingCriterion, scores map[string]float64) error {
	if len(criteria) == 0 {
		return ErrNoCriteria
	}

	known := make(map[string]GradingCriterion, len(criteria))
	for _, c := range criteria {
		known[c.ID] = c
	}

	for id := range scores {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("criterion %v: %w", id, ErrUnknownCriterion)
		}
	}

	for _, c := range criteria {
		score, ok := scores[c.ID]
		if !ok {
			return fmt.Errorf("criterion %v: %w", c.ID, ErrUnscoredCriterion)
		}
		if score < 0 || score > c.MaxScore {
			return fmt.Errorf("criterion %v: %w", c.ID, ErrScoreOutOfRange)
		}
	}

	return nil
}

// FinalScore is the normalized aggregate of a full score set.
type FinalScore struct {
	Value       float64 `json:"value"`
	TotalWeight float64 `json:"total_weight"`
	// WeightWarning is set when the declared weights do not sum to 100;
	// the value is still computed by renormalizing over the actual total.
	WeightWarning bool `json:"weight_warning"`
}

// ComputeFinalScore aggregates a validated score set:
//
//	final = Σ((score/max*100) * weight) / Σweight
//
// Each criterion contributes its percentage-of-max, scaled by its weight,
// renormalized by the total declared weight. A zero total weight is an
// error, never NaN.
func ComputeFinalScore(criteria []GradingCriterion, scores map[string]float64) (FinalScore, error) {
	if err := ValidateScores(criteria, scores); err != nil {
		return FinalScore{}, err
	}

	var weighted, totalWeight float64
	for _, c := range criteria {
		weighted += scores[c.ID] / c.MaxScore * 100 * c.WeightPercentage
		totalWeight += c.WeightPercentage
	}

	if totalWeight == 0 {
		return FinalScore{}, ErrZeroTotalWeight
	}

	return FinalScore{
		Value:         weighted / totalWeight,
		TotalWeight:   totalWeight,
		WeightWarning: totalWeight != 100,
	}, nil
}

// SheetState tracks one grader's progress on one team.
// Allowed transitions: unsubmitted -> submitted -> editing -> submitted.
type SheetState string

const (
	SheetUnsubmitted SheetState = "unsubmitted"
	SheetSubmitted   SheetState = "submitted"
	SheetEditing     SheetState = "editing"
)

var (
	ErrAlreadySubmitted    = errors.New("grades already submitted; begin an edit first")
	ErrNotSubmitted        = errors.New("nothing submitted to edit")
	ErrGradingWindowClosed = errors.New("grading window is closed")
)

type GradeSheet struct {
	EventID   string     `json:"event_id"`
	TeamID    string     `json:"team_id"`
	GraderID  string     `json:"grader_id"`
	State     SheetState `json:"state"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BeginEdit reopens a submitted sheet. Editing never returns a sheet to
// unsubmitted, and requires the grading window to be open.
func (s *GradeSheet) BeginEdit(windowOpen bool) error {
	if s.State != SheetSubmitted {
		return ErrNotSubmitted
	}
	if !windowOpen {
		return ErrGradingWindowClosed
	}

	s.State = SheetEditing

	return nil
}

// CanSubmit reports whether the sheet accepts a submission in its current state.
func (s *GradeSheet) CanSubmit() error {
	if s.State == SheetSubmitted {
		return ErrAlreadySubmitted
	}

	return nil
}

func (s *GradeSheet) MarkSubmitted() {
	s.State = SheetSubmitted
}
