package store

import (
	"context"
	"time"

	"github.com/glscharan9/ai-health-companion/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type ProgressRepository interface {
	Upsert(ctx context.Context, userID uint, day time.Time, weightKg float64) (*model.ProgressEntry, error)
	History(ctx context.Context, userID uint) ([]model.ProgressEntry, error)
}

type PlanRepository interface {
	Save(ctx context.Context, plan *model.DietPlan) (uint, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]model.DietPlan, error)
	GetByID(ctx context.Context, id uint) (*model.DietPlan, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

var (
	_ UserRepository     = (*UserStore)(nil)
	_ ProgressRepository = (*ProgressStore)(nil)
	_ PlanRepository     = (*PlanStore)(nil)
)
