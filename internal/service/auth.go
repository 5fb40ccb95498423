package service

import (
	"context"
	"errors"
	"strings"

	"github.com/glscharan9/ai-health-companion/internal/logger"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsernameLen = 64
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit
)

// dummyHash keeps Verify's cost the same whether or not the user exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type AuthService struct {
	users store.UserRepository
	cost  int
}

func NewAuthService(users store.UserRepository) *AuthService {
	return &AuthService{users: users, cost: bcrypt.DefaultCost}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return nil, invalid("Username is required.")
	case len(username) > maxUsernameLen:
		return nil, invalid("Username must be at most %d characters.", maxUsernameLen)
	case len(password) < minPasswordLen:
		return nil, invalid("Password must be at least %d characters.", minPasswordLen)
	case len(password) > maxPasswordLen:
		return nil, invalid("Password must be at most %d bytes.", maxPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			logger.InfoCtx(ctx, "auth.register.duplicate", "username", username)
		} else {
			logger.ErrorCtx(ctx, "auth.register.failed", "username", username, "err", err)
		}
		return nil, err
	}
	logger.InfoCtx(ctx, "auth.register.ok", "uid", u.ID, "username", u.Username)
	return u, nil
}

// Verify does not reveal whether the username or the password was wrong.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.ErrorCtx(ctx, "auth.login.lookup_failed", "err", err)
			return nil, err
		}
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
