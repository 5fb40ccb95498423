package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glscharan9/ai-health-companion/internal/model"

	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	u := model.User{Username: username, PasswordHash: passwordHash}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findByUsername(tx, username); err == nil {
			return ErrDuplicateUsername
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if err := tx.Create(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateUsername
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return findByUsername(s.db.WithContext(ctx), username)
}

func (s *UserStore) Exists(ctx context.Context, id uint) (bool, error) {
	return userExists(ctx, s.db, id)
}

// findByUsername matches case-sensitively even on collations that do not.
func findByUsername(db *gorm.DB, username string) (*model.User, error) {
	var users []model.User
	if err := db.Where("username = ?", username).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}
