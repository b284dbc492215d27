package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSheetNotFound = errors.New("grade sheet not found")

type GradingCriterion struct {
	ID               string `gorm:"primaryKey"`
	EventID          string `gorm:"index;not null"`
	Name             string `gorm:"not null"`
	Description      string
	MaxScore         float64 `gorm:"not null"`
	WeightPercentage float64 `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c *GradingCriterion) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}

// Grade holds one criterion's score for one team by one grader. The unique
// index makes the per-criterion write an upsert, which is what keeps
// re-submission after a partial failure safe.
type Grade struct {
	ID          string `gorm:"primaryKey"`
	EventID     string `gorm:"index;not null;uniqueIndex:idx_grade_per_criterion"`
	TeamID      string `gorm:"not null;uniqueIndex:idx_grade_per_criterion"`
	GraderID    string `gorm:"not null;uniqueIndex:idx_grade_per_criterion"`
	CriterionID string `gorm:"not null;uniqueIndex:idx_grade_per_criterion"`
	Score       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g *Grade) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	return nil
}

type GradeSheet struct {
	ID        string `gorm:"primaryKey"`
	EventID   string `gorm:"not null;uniqueIndex:idx_sheet_per_grader"`
	TeamID    string `gorm:"not null;uniqueIndex:idx_sheet_per_grader"`
	GraderID  string `gorm:"not null;uniqueIndex:idx_sheet_per_grader"`
	State     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *GradeSheet) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	return nil
}

type GradingDAO struct {
	db *gorm.DB
}

func NewGradingDAO(db *gorm.DB) *GradingDAO {
	return &GradingDAO{
		db: db,
	}
}

func (d *GradingDAO) GetCriteria(ctx context.Context, eventID string) ([]GradingCriterion, error) {
	var criteria []GradingCriterion
	err := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at").
		Find(&criteria).Error
	if err != nil {
		return nil, err
	}

	return criteria, nil
}

func (d *GradingDAO) CreateCriterion(ctx context.Context, criterion GradingCriterion) (GradingCriterion, error) {
	criterion.ID = ""
	if err := d.db.WithContext(ctx).Create(&criterion).Error; err != nil {
		return GradingCriterion{}, err
	}

	return criterion, nil
}

func (d *GradingDAO) UpdateCriterion(ctx context.Context, criterion GradingCriterion) (GradingCriterion, error) {
	result := d.db.WithContext(ctx).Model(&GradingCriterion{}).
		Where("id = ? AND event_id = ?", criterion.ID, criterion.EventID).
		Updates(map[string]interface{}{
			"name":              criterion.Name,
			"description":       criterion.Description,
			"max_score":         criterion.MaxScore,
			"weight_percentage": criterion.WeightPercentage,
		})
	if result.Error != nil {
		return GradingCriterion{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GradingCriterion{}, ErrCriterionNotFound
	}

	return criterion, nil
}

func (d *GradingDAO) DeleteCriterion(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&GradingCriterion{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCriterionNotFound
	}

	return nil
}

func (d *GradingDAO) GetSheet(ctx context.Context, eventID, teamID, graderID string) (GradeSheet, error) {
	var sheet GradeSheet
	err := d.db.WithContext(ctx).
		First(&sheet, "event_id = ? AND team_id = ? AND grader_id = ?", eventID, teamID, graderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GradeSheet{}, ErrSheetNotFound
		}

		return GradeSheet{}, err
	}

	return sheet, nil
}

func (d *GradingDAO) SaveSheet(ctx context.Context, sheet GradeSheet) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "team_id"}, {Name: "grader_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
		}).
		Create(&sheet).Error
}

func (d *GradingDAO) UpsertGrade(ctx context.Context, grade Grade) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "team_id"}, {Name: "grader_id"}, {Name: "criterion_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).
		Create(&grade).Error
}
