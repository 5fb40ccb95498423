package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glscharan9/ai-health-companion/internal/config"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/prompt"
	"github.com/glscharan9/ai-health-companion/internal/store"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minimalPlan = `{"diet":[{"day":"Monday","daily_calories":1800,"meals":[{"name":"Breakfast","dish":"Pesarattu","quantity":"2 pieces","nutrition":{"calories":300,"protein_g":10,"carbs_g":40,"fat_g":8}}]}],"exercises":[{"day":"Monday","activity":"30-minute walk"}],"shoppingList":[{"category":"Grains","items":["Rice"]}]}`

type call struct {
	system, user string
	structured   bool
}

// fakeLLM replays a fixed reply and records every call.
type fakeLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls []call
}

func (f *fakeLLM) Complete(_ context.Context, system, user string, structured bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{system, user, structured})
	return f.reply, f.err
}

type env struct {
	db       *gorm.DB
	users    *store.UserStore
	plans    *store.PlanStore
	progress *store.ProgressStore
	llm      *fakeLLM
	auth     *AuthService
	plan     *PlanService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	e := &env{
		db:       db,
		users:    store.NewUserStore(db),
		plans:    store.NewPlanStore(db),
		progress: store.NewProgressStore(db),
		llm:      &fakeLLM{reply: minimalPlan},
	}
	e.auth = NewAuthService(e.users)
	e.auth.cost = bcrypt.MinCost
	e.plan = NewPlanService(e.users, e.plans, e.llm, prompt.NewBuilder(""))
	return e
}

func (e *env) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), name, "secret123")
	require.NoError(t, err)
	return u
}

func (e *env) planCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.DietPlan{}).Count(&n).Error)
	return n
}

func validRequest() model.GeneratePlanRequest {
	return model.GeneratePlanRequest{
		Weight:            70,
		Height:            175,
		ActivityLevel:     "Moderately Active",
		DietaryPreference: "Vegetarian",
		IncludeCheatMeal:  true,
		Allergies:         []string{"Peanuts", " "},
	}
}
