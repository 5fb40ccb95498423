package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glscharan9/ai-health-companion/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressStore struct{ db *gorm.DB }

func NewProgressStore(db *gorm.DB) *ProgressStore { return &ProgressStore{db: db} }

// Upsert records the weight for a user's calendar day, replacing any value
// already logged for that day in a single statement.
func (s *ProgressStore) Upsert(ctx context.Context, userID uint, day time.Time, weightKg float64) (*model.ProgressEntry, error) {
	ok, err := userExists(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownUser
	}

	entry := model.ProgressEntry{UserID: userID, LogDate: Day(day), WeightKg: weightKg}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "log_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight_kg", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return &entry, nil
}

func (s *ProgressStore) History(ctx context.Context, userID uint) ([]model.ProgressEntry, error) {
	entries := []model.ProgressEntry{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("log_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return entries, nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
