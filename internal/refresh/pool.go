package refresh

import (
	"context"
	"sync"

	"github.com/albapepper/caps-edge/internal/provider"
)

// edgeResult is one player's Edge fetch outcome.
type edgeResult struct {
	playerID int
	edge     *provider.EdgeStats
	err      error
}

// fetchEdge fetches Edge stats for ids with a bounded worker pool. Players
// without Edge data map to nil; failures are returned per player and never
// stop the other fetches.
func (r *Runner) fetchEdge(ctx context.Context, season string, ids []int) (map[int]*provider.EdgeStats, map[int]error) {
	workers := r.opts.EdgeWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	ch := make(chan int, len(ids))
	for _, id := range ids {
		ch <- id
	}
	close(ch)

	results := make(chan edgeResult, len(ids))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ch {
				if ctx.Err() != nil {
					results <- edgeResult{playerID: id, err: ctx.Err()}
					continue
				}
				edge, err := r.fetcher.GetEdgeStats(ctx, id, season)
				results <- edgeResult{playerID: id, edge: edge, err: err}
			}
		}()
	}

	wg.Wait()
	close(results)

	edges := make(map[int]*provider.EdgeStats, len(ids))
	errs := make(map[int]error)
	for res := range results {
		if res.err != nil {
			errs[res.playerID] = res.err
			continue
		}
		edges[res.playerID] = res.edge
	}
	return edges, errs
}
