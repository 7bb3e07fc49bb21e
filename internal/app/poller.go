package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/five82/lister/internal/pager"
)

const defaultRefreshInterval = 30 * time.Second

// Refresher reloads a list from its first page.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// StartAutoRefresh launches a goroutine that refreshes r at a fixed cadence.
// It returns immediately; the returned channel closes once the goroutine
// exits, either because ctx ended or because r was closed.
func StartAutoRefresh(ctx context.Context, r Refresher, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			err := r.Refresh(ctx)
			switch {
			case err == nil:
				logger.Debug("auto refresh applied")
			case errors.Is(err, pager.ErrSkipped):
				logger.Debug("auto refresh skipped")
			case errors.Is(err, pager.ErrClosed), ctx.Err() != nil:
				return
			default:
				logger.Warn("auto refresh failed", zap.Error(err))
			}
		}
	}()
	return done
}
