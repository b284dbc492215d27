package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/eventra-api/internal/domain"
	"github.com/vietanh2810/eventra-api/internal/repository/dao"
)

type GradingRepository struct {
	dao *dao.GradingDAO
}

func NewGradingRepository(gradingDAO *dao.GradingDAO) *GradingRepository {
	return &GradingRepository{
		dao: gradingDAO,
	}
}

func (r *GradingRepository) GetCriteria(ctx context.Context, eventID string) ([]domain.GradingCriterion, error) {
	criteria, err := r.dao.GetCriteria(ctx, eventID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.GradingCriterion, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, criterionDaoToDomain(c))
	}

	return out, nil
}

// GetSheet returns a fresh unsubmitted sheet when none has been stored yet;
// the sheet row only exists once the first submission happens.
func (r *GradingRepository) GetSheet(ctx context.Context, eventID, teamID, graderID string) (domain.GradeSheet, error) {
	sheet, err := r.dao.GetSheet(ctx, eventID, teamID, graderID)
	if err != nil {
		if errors.Is(err, dao.ErrSheetNotFound) {
			return domain.GradeSheet{
				EventID:  eventID,
				TeamID:   teamID,
				GraderID: graderID,
				State:    domain.SheetUnsubmitted,
			}, nil
		}

		return domain.GradeSheet{}, err
	}

	return domain.GradeSheet{
		EventID:   sheet.EventID,
		TeamID:    sheet.TeamID,
		GraderID:  sheet.GraderID,
		State:     domain.SheetState(sheet.State),
		UpdatedAt: sheet.UpdatedAt,
	}, nil
}

func (r *GradingRepository) SaveSheet(ctx context.Context, sheet domain.GradeSheet) error {
	return r.dao.SaveSheet(ctx, dao.GradeSheet{
		EventID:   sheet.EventID,
		TeamID:    sheet.TeamID,
		GraderID:  sheet.GraderID,
		State:     string(sheet.State),
		UpdatedAt: sheet.UpdatedAt,
	})
}

func (r *GradingRepository) UpsertGrade(ctx context.Context, grade domain.Grade) error {
	return r.dao.UpsertGrade(ctx, dao.Grade{
		EventID:     grade.EventID,
		TeamID:      grade.TeamID,
		GraderID:    grade.GraderID,
		CriterionID: grade.CriterionID,
		Score:       grade.Score,
	})
}

func criterionDomainToDao(c domain.GradingCriterion) dao.GradingCriterion {
	return dao.GradingCriterion{
		ID:               c.ID,
		EventID:          c.EventID,
		Name:             c.Name,
		Description:      c.Description,
		MaxScore:         c.MaxScore,
		WeightPercentage: c.WeightPercentage,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func criterionDaoToDomain(c dao.GradingCriterion) domain.GradingCriterion {
	return domain.GradingCriterion{
		ID:               c.ID,
		EventID:          c.EventID,
		Name:             c.Name,
		Description:      c.Description,
		MaxScore:         c.MaxScore,
		WeightPercentage: c.WeightPercentage,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// CriterionStore adapts criterion CRUD to the reconciler's port.
type CriterionStore struct {
	dao *dao.GradingDAO
}

func NewCriterionStore(gradingDAO *dao.GradingDAO) *CriterionStore {
	return &CriterionStore{
		dao: gradingDAO,
	}
}

func (s *CriterionStore) Create(ctx context.Context, criterion domain.GradingCriterion) (domain.GradingCriterion, error) {
	created, err := s.dao.CreateCriterion(ctx, criterionDomainToDao(criterion))
	if err != nil {
		return domain.GradingCriterion{}, fmt.Errorf("s.dao.CreateCriterion -> %w", err)
	}

	return criterionDaoToDomain(created), nil
}

func (s *CriterionStore) Update(ctx context.Context, criterion domain.GradingCriterion) (domain.GradingCriterion, error) {
	updated, err := s.dao.UpdateCriterion(ctx, criterionDomainToDao(criterion))
	if err != nil {
		return domain.GradingCriterion{}, fmt.Errorf("s.dao.UpdateCriterion -> %w", err)
	}

	return criterionDaoToDomain(updated), nil
}

func (s *CriterionStore) Delete(ctx context.Context, id string) error {
	return s.dao.DeleteCriterion(ctx, id)
}
