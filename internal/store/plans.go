package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glscharan9/ai-health-companion/internal/model"

	"gorm.io/gorm"
)

type PlanStore struct{ db *gorm.DB }

func NewPlanStore(db *gorm.DB) *PlanStore { return &PlanStore{db: db} }

// Save inserts plan as a new record and reloads it so the caller sees the
// stored form, including id and created_at.
func (s *PlanStore) Save(ctx context.Context, plan *model.DietPlan) (uint, error) {
	plan.ID = 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := userExists(ctx, tx, plan.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownUser
		}
		if err := tx.Omit("User").Create(plan).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrUnknownUser
			}
			return fmt.Errorf("insert plan: %w", err)
		}
		if err := tx.First(plan, plan.ID).Error; err != nil {
			return fmt.Errorf("reload plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return plan.ID, nil
}

// ListByUser returns the user's plans newest first. limit <= 0 means all.
func (s *PlanStore) ListByUser(ctx context.Context, userID uint, limit int) ([]model.DietPlan, error) {
	plans := []model.DietPlan{}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	return plans, nil
}

func (s *PlanStore) GetByID(ctx context.Context, id uint) (*model.DietPlan, error) {
	var p model.DietPlan
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("query plan: %w", err)
	}
	return &p, nil
}

func (s *PlanStore) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.DietPlan{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count plans: %w", err)
	}
	return n, nil
}
