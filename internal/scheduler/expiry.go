package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/dependencies/clock"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/storage"
)

// Expirer is the workflow operation the scheduler drives
type Expirer interface {
	Expire(ctx context.Context, playerID model.PlayerID) (*model.Player, error)
}

// DefaultInterval is how often the scheduler polls for due rest periods
const DefaultInterval = 30 * time.Second

// ExpiryScheduler periodically finds rest periods that have passed and runs
// the Expire transition for each. ErrNotResting and ErrRestNotExpired are
// expected outcomes (stale index entry, early tick), not failures.
type ExpiryScheduler struct {
	storage  storage.Storage
	expirer  Expirer
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

// New creates a new ExpiryScheduler
func New(storage storage.Storage, expirer Expirer, clock clock.Clock, interval time.Duration, logger *slog.Logger) *ExpiryScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &ExpiryScheduler{
		storage:  storage,
		expirer:  expirer,
		clock:    clock,
		interval: interval,
		logger:   logger.With(slog.String("component", "expiry-scheduler")),
	}
}

// Run polls until the context is cancelled
func (s *ExpiryScheduler) Run(ctx context.Context) {
	s.logger.Info("expiry scheduler started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(ctx)
		case <-ctx.Done():
			s.logger.Info("expiry scheduler stopped")
			return
		}
	}
}

// Tick runs a single expiry sweep
func (s *ExpiryScheduler) Tick(ctx context.Context) {
	now := s.clock.Now()

	due, err := s.storage.DueRestExpiries(ctx, now)
	if err != nil {
		s.logger.Error("failed to list due rest expiries", slog.Any("error", err))
		return
	}

	for _, playerID := range due {
		_, err := s.expirer.Expire(ctx, playerID)
		switch {
		case err == nil:
			// Expire removed the index entry itself
		case errors.Is(err, model.ErrNotResting):
			// Stale index entry: the rest was resolved some other way
			if err := s.storage.RemoveRestExpiry(ctx, playerID); err != nil {
				s.logger.Error("failed to drop stale expiry entry",
					slog.String("player_id", string(playerID)),
					slog.Any("error", err))
			}
		case errors.Is(err, model.ErrRestNotExpired):
			// Ran early against a stale read; retry next tick
		case errors.Is(err, model.ErrPlayerNotFound):
			if err := s.storage.RemoveRestExpiry(ctx, playerID); err != nil {
				s.logger.Error("failed to drop orphaned expiry entry",
					slog.String("player_id", string(playerID)),
					slog.Any("error", err))
			}
		default:
			s.logger.Error("rest expiration failed",
				slog.String("player_id", string(playerID)),
				slog.Any("error", err))
		}
	}
}
