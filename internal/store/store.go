// Package store persists users, weight progress and generated plans with gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glscharan9/ai-health-companion/internal/model"

	"gorm.io/gorm"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrUnknownUser       = errors.New("unknown user")
	ErrPlanNotFound      = errors.New("plan not found")
)

// Migrate creates or updates the users, user_progress and diet_plans tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.ProgressEntry{}, &model.DietPlan{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func userExists(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("query user: %w", err)
	}
	return n > 0, nil
}
