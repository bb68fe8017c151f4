package idempotency

import (
	"context"
	"time"

	"github.com/playforge/walletd/pkg/logger"
)

// Sweeper deletes expired idempotency rows in the background. Expired rows
// are already invisible to lookups and reclaimable by inserts, so the
// sweeper is purely a space optimization; correctness never depends on it.
type Sweeper struct {
	store    Store
	interval time.Duration
	batch    int
	logger   *logger.Logger
}

// NewSweeper creates a new expiry sweeper
func NewSweeper(store Store, interval time.Duration, batch int, log *logger.Logger) *Sweeper {
	if batch <= 0 {
		batch = 1000
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		batch:    batch,
		logger:   log.WithField("component", "idempotency-sweeper"),
	}
}

// Run sweeps on the configured interval until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.interval.String(), "batch", s.batch)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	// Keep deleting full batches so a backlog drains in one cycle
	for {
		deleted, err := s.store.DeleteExpired(ctx, s.batch)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.WithError(err).Warn("sweep failed")
			return
		}
		if deleted > 0 {
			s.logger.Debug("swept expired idempotency keys", "deleted", deleted)
		}
		if deleted < int64(s.batch) {
			return
		}
	}
}
