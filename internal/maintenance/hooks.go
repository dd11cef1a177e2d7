package maintenance

import (
	"log/slog"

	"github.com/albapepper/caps-edge/internal/cache"
	"github.com/albapepper/caps-edge/internal/refresh"
)

// InvalidateCache returns a refresh hook that drops every cached response
// once a cycle has written new data. Aborted cycles leave the store
// untouched, so the cache is kept.
func InvalidateCache(c *cache.Cache, logger *slog.Logger) func(refresh.Result) {
	return func(r refresh.Result) {
		if r.Aborted {
			return
		}
		n := c.Invalidate()
		logger.Info("Invalidated response cache", "entries", n, "season", r.Season)
	}
}
