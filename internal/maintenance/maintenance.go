// Package maintenance runs periodic background tasks as Go tickers. The API
// process is long-running, so scheduled refreshes are driven from here
// instead of an external cron.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/caps-edge/internal/refresh"
)

// Refresher runs one refresh cycle. *refresh.Runner implements it.
type Refresher interface {
	Run(ctx context.Context) refresh.Result
}

// Config controls task intervals. Zero duration disables a task.
type Config struct {
	RefreshInterval time.Duration // Full refresh cycle
}

// Start launches all configured tickers. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, runner Refresher, cfg Config, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RefreshInterval <= 0 {
		logger.Info("Maintenance tickers disabled")
		return
	}
	logger.Info("Maintenance tickers started", "refresh", cfg.RefreshInterval)

	t := time.NewTicker(cfg.RefreshInterval)
	defer t.Stop()

	runLoop(ctx, t.C, "refresh", func() { scheduledRefresh(ctx, runner, logger) })
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, name string, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// scheduledRefresh runs one cycle. A cycle triggered through the API holds
// the runner, so this one waits for it to finish rather than skipping.
func scheduledRefresh(ctx context.Context, runner Refresher, logger *slog.Logger) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	result := runner.Run(ctx)
	if !result.OK() {
		logger.Warn("Scheduled refresh failed",
			"duration", time.Since(start).Round(time.Millisecond), "errors", len(result.Errors))
		return
	}
	logger.Info("Scheduled refresh finished",
		"duration", time.Since(start).Round(time.Millisecond), "players", result.EdgeRowsUpserted)
}
