package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/glscharan9/ai-health-companion/internal/logger"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/store"
)

// ProgressMirror receives every successfully logged entry. Implementations
// must not block the caller for long; failures are theirs to report.
type ProgressMirror interface {
	MirrorProgress(ctx context.Context, entry model.ProgressEntry)
}

type ProgressService struct {
	progress     store.ProgressRepository
	plans        store.PlanRepository
	historyLimit int
	mirror       ProgressMirror
	mirrors      sync.WaitGroup
	now          func() time.Time
}

func NewProgressService(progress store.ProgressRepository, plans store.PlanRepository, historyLimit int) *ProgressService {
	return &ProgressService{progress: progress, plans: plans, historyLimit: historyLimit, now: time.Now}
}

// WithMirror attaches a mirror that is fed asynchronously after each log.
func (s *ProgressService) WithMirror(m ProgressMirror) *ProgressService {
	s.mirror = m
	return s
}

// LogWeight records the weight for the given calendar day (YYYY-MM-DD, or
// today when empty). Logging the same day twice keeps the latest value.
func (s *ProgressService) LogWeight(ctx context.Context, userID uint, date string, weightKg float64) error {
	if !(weightKg > 0) || math.IsInf(weightKg, 0) {
		return ErrInvalidWeight
	}
	day := s.now()
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.Parse(model.DateLayout, date)
		if err != nil {
			return invalid("Date must be in %s format.", "YYYY-MM-DD")
		}
		day = d
	}

	entry, err := s.progress.Upsert(ctx, userID, day, weightKg)
	if err != nil {
		logger.ErrorCtx(ctx, "progress.log.failed", "uid", userID, "date", date, "err", err)
		return err
	}
	logger.InfoCtx(ctx, "progress.log.ok", "uid", userID, "date", entry.LogDate.Format(model.DateLayout), "weight_kg", weightKg)

	if s.mirror != nil {
		s.mirrors.Add(1)
		go func(e model.ProgressEntry) {
			defer s.mirrors.Done()
			s.mirror.MirrorProgress(context.WithoutCancel(ctx), e)
		}(*entry)
	}
	return nil
}

// Wait blocks until every in-flight mirror call has returned. Call it on
// shutdown after the HTTP server has stopped accepting requests.
func (s *ProgressService) Wait() {
	s.mirrors.Wait()
}

func (s *ProgressService) History(ctx context.Context, userID uint) ([]model.ProgressEntry, error) {
	return s.progress.History(ctx, userID)
}

// Dashboard returns the user's past plans, newest first and capped at the
// configured history limit, together with the full weight history.
func (s *ProgressService) Dashboard(ctx context.Context, userID uint) (model.Dashboard, error) {
	plans, err := s.plans.ListByUser(ctx, userID, s.historyLimit)
	if err != nil {
		logger.ErrorCtx(ctx, "dashboard.plans_failed", "uid", userID, "err", err)
		return model.Dashboard{}, err
	}
	history, err := s.progress.History(ctx, userID)
	if err != nil {
		logger.ErrorCtx(ctx, "dashboard.progress_failed", "uid", userID, "err", err)
		return model.Dashboard{}, err
	}
	return model.Dashboard{PastPlans: plans, ProgressHistory: history}, nil
}
