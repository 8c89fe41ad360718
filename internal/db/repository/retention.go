package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type accessLogPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionWorker periodically deletes access log records past the
// retention window.
type RetentionWorker struct {
	repo      accessLogPurger
	logger    zerolog.Logger
	interval  time.Duration
	retention time.Duration
}

func NewRetentionWorker(repo accessLogPurger, interval, retention time.Duration, logger zerolog.Logger) *RetentionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &RetentionWorker{
		repo:      repo,
		logger:    logger.With().Str("component", "access_log_retention_worker").Logger(),
		interval:  interval,
		retention: retention,
	}
}

// Run blocks until context cancellation.
func (w *RetentionWorker) Run(ctx context.Context) error {
	if w.repo == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *RetentionWorker) tick(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.retention)
	purged, err := w.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.Warn().Err(err).Msg("access log purge failed")
		return
	}
	if purged > 0 {
		w.logger.Info().
			Int64("purged", purged).
			Time("cutoff", cutoff).
			Msg("access log records purged")
	}
}
