// Package refresh runs the batch refresh cycle: fetch the roster and the
// league reference sample, score everyone against the same reference
// tables, and persist the latest snapshot.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/albapepper/caps-edge/internal/metrics"
	"github.com/albapepper/caps-edge/internal/provider"
	"github.com/albapepper/caps-edge/internal/provider/nhl"
	"github.com/albapepper/caps-edge/internal/scoring"
	"github.com/albapepper/caps-edge/internal/store"
)

// ErrRunning is returned by TryRun while another cycle is in progress.
var ErrRunning = errors.New("refresh already running")

// Fetcher is the data source a cycle pulls from. *nhl.Handler implements it.
type Fetcher interface {
	GetRoster(ctx context.Context, team, season string) ([]provider.Player, error)
	GetSkaterStats(ctx context.Context, season string, ids []int) (map[int]provider.SkaterStats, error)
	GetEdgeStats(ctx context.Context, playerID int, season string) (*provider.EdgeStats, error)
	GetLeagueSamples(ctx context.Context, season string) ([]scoring.RawPlayerSample, error)
}

// Options configure a Runner.
type Options struct {
	Team             string
	Season           string // empty: derived from the clock on every run
	LeagueSampleSize int
	EdgeWorkers      int
}

// Runner executes refresh cycles. Only one cycle runs at a time.
type Runner struct {
	fetcher Fetcher
	store   store.Store
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time

	mu    sync.Mutex
	hooks []func(Result)
}

// NewRunner creates a runner. rec may be nil.
func NewRunner(f Fetcher, st store.Store, opts Options, logger *slog.Logger, rec *metrics.Recorder) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Team == "" {
		opts.Team = "WSH"
	}
	return &Runner{
		fetcher: f,
		store:   st,
		opts:    opts,
		logger:  logger,
		metrics: rec,
		now:     time.Now,
	}
}

// OnComplete registers a hook called after every finished cycle, whatever
// its outcome. Register hooks before the first run.
func (r *Runner) OnComplete(fn func(Result)) {
	r.hooks = append(r.hooks, fn)
}

// Run executes one cycle, waiting for any cycle already in progress.
func (r *Runner) Run(ctx context.Context) Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(ctx)
}

// TryRun executes one cycle unless another is in progress, in which case it
// returns ErrRunning immediately.
func (r *Runner) TryRun(ctx context.Context) (Result, error) {
	if !r.mu.TryLock() {
		return Result{}, ErrRunning
	}
	defer r.mu.Unlock()
	return r.run(ctx), nil
}

func (r *Runner) run(ctx context.Context) Result {
	start := r.now()
	result := r.cycle(ctx)
	result.Duration = r.now().Sub(start)

	r.metrics.ObserveRefresh(result.Duration, result.OK())
	if result.OK() {
		r.logger.Info("Refresh complete", "summary", result.Summary())
	} else {
		r.logger.Error("Refresh aborted", "summary", result.Summary(), "errors", result.Errors)
	}
	for _, fn := range r.hooks {
		fn(result)
	}
	return result
}

func (r *Runner) season() string {
	if r.opts.Season != "" {
		return r.opts.Season
	}
	return nhl.CurrentSeason(r.now())
}

func (r *Runner) cycle(ctx context.Context) Result {
	season := r.season()
	result := Result{Season: season}
	r.logger.Info("Starting refresh", "team", r.opts.Team, "season", season)

	// 1. Roster. Nothing else is worth doing without it.
	roster, err := r.fetcher.GetRoster(ctx, r.opts.Team, season)
	if err == nil && len(roster) == 0 {
		err = fmt.Errorf("empty roster for %s", r.opts.Team)
	}
	if err != nil {
		result.AddErrorf("roster: %v", err)
		result.Aborted = true
		return result
	}

	ids := make([]int, 0, len(roster))
	for _, p := range roster {
		if err := r.store.UpsertPlayer(ctx, p); err != nil {
			result.AddErrorf("player %d: %v", p.ID, err)
			continue
		}
		result.PlayersUpserted++
		ids = append(ids, p.ID)
	}

	// 2. Traditional stats. A failure leaves the roster without stats.
	stats, err := r.fetcher.GetSkaterStats(ctx, season, ids)
	if err != nil {
		result.AddErrorf("skater stats: %v", err)
		stats = map[int]provider.SkaterStats{}
	}

	// 3. Edge stats for the roster.
	rosterEdge, edgeErrs := r.fetchEdge(ctx, season, ids)
	for _, id := range sortedKeys(edgeErrs) {
		r.logger.Warn("Edge stats unavailable", "player_id", id, "error", edgeErrs[id])
		result.AddErrorf("edge %d: %v", id, edgeErrs[id])
	}

	// 4-5. League reference sample with Edge data.
	league, err := r.fetcher.GetLeagueSamples(ctx, season)
	if err != nil {
		result.AddErrorf("league samples: %v", err)
	}
	result.LeagueCandidates = len(league)
	sampled := r.sampleLeague(ctx, season, league, &result)
	result.LeagueSampled = len(sampled)
	if ctx.Err() != nil {
		result.AddErrorf("cancelled: %v", ctx.Err())
		result.Aborted = true
		return result
	}

	// 6. Score the league in one pass; percentiles are only available after.
	cycle := scoring.ScoreLeague(sampled)
	result.LeagueScored = len(cycle.MotorPopulation())
	r.metrics.SetPlayersScored(result.LeagueScored)
	for _, pos := range scoring.Positions {
		r.metrics.SetPositionSample(string(pos), cycle.Averages[pos].SampleSize)
	}
	r.logger.Info("Scored league sample",
		"sampled", len(sampled), "motor_scored", result.LeagueScored,
		"positions", len(cycle.Averages))

	// 7. Reference tables, swapped wholesale.
	if err := r.store.ReplaceReferenceTables(ctx, cycle.Averages, leagueStats(sampled, cycle)); err != nil {
		result.AddErrorf("reference tables: %v", err)
	}

	// 8. Roster players against the same reference tables.
	for _, p := range roster {
		st, hasStats := stats[p.ID]
		if hasStats {
			if err := r.store.UpsertPlayerStats(ctx, st); err != nil {
				result.AddErrorf("stats %d: %v", p.ID, err)
			} else {
				result.StatsUpserted++
			}
		}

		edge := rosterEdge[p.ID]
		if edge == nil {
			continue
		}
		row := scoreRosterPlayer(cycle, p, st, edge)
		if row.MotorIndex != nil {
			result.PlayersScored++
		}
		if err := r.store.UpsertEdgeStats(ctx, row); err != nil {
			result.AddErrorf("edge stats %d: %v", p.ID, err)
			continue
		}
		result.EdgeRowsUpserted++
	}

	// 9. Timestamp.
	if err := r.store.SetLastUpdated(ctx, r.now()); err != nil {
		result.AddErrorf("last updated: %v", err)
	}
	return result
}

// sampleLeague walks the league candidates in order, fetching Edge stats
// until LeagueSampleSize players with Edge data are collected. Each round
// fetches only as many as are still needed.
func (r *Runner) sampleLeague(ctx context.Context, season string, league []scoring.RawPlayerSample, result *Result) []scoring.RawPlayerSample {
	want := r.opts.LeagueSampleSize
	if want <= 0 || want > len(league) {
		want = len(league)
	}

	sampled := make([]scoring.RawPlayerSample, 0, want)
	next := 0
	for len(sampled) < want && next < len(league) && ctx.Err() == nil {
		end := next + (want - len(sampled))
		if end > len(league) {
			end = len(league)
		}
		batch := league[next:end]
		next = end

		ids := make([]int, len(batch))
		for i, s := range batch {
			ids[i] = s.PlayerID
		}
		edges, errs := r.fetchEdge(ctx, season, ids)
		for _, id := range sortedKeys(errs) {
			r.logger.Debug("League Edge stats unavailable", "player_id", id, "error", errs[id])
		}

		for _, s := range batch {
			edge := edges[s.PlayerID]
			if edge == nil {
				continue
			}
			sampled = append(sampled, withEdge(s, edge))
		}
		r.logger.Info("League Edge sample progress", "sampled", len(sampled), "target", want, "checked", next)
	}
	return sampled
}

// withEdge fills a league sample's Edge-derived fields.
func withEdge(s scoring.RawPlayerSample, e *provider.EdgeStats) scoring.RawPlayerSample {
	if e.Bursts20Plus != nil {
		s.Bursts20Plus = *e.Bursts20Plus
	}
	if e.DistancePerGameMiles != nil {
		s.DistancePerGameMiles = *e.DistancePerGameMiles
	}
	if e.OffZoneTimePct != nil {
		s.OffZoneTimePct = *e.OffZoneTimePct
	}
	return s
}

// leagueStats pairs every sampled player with their cycle scores.
func leagueStats(sampled []scoring.RawPlayerSample, cycle *scoring.Cycle) []store.LeagueStat {
	out := make([]store.LeagueStat, len(sampled))
	for i, s := range sampled {
		ps := cycle.Players[i]
		out[i] = store.LeagueStat{
			RawPlayerSample: s,
			MotorIndex:      ps.Motor.Ptr(),
			HustleScore:     ps.Hustle.Ptr(),
		}
	}
	return out
}

// scoreRosterPlayer evaluates a roster player against the cycle and builds
// their Edge row. The shots percentile ranks the stored shots/60.
func scoreRosterPlayer(cycle *scoring.Cycle, p provider.Player, st provider.SkaterStats, edge *provider.EdgeStats) store.EdgeRow {
	ranked := cycle.Rank(cycle.Evaluate(provider.Sample(p.ID, p.Position, st, edge)))

	row := store.EdgeRow{
		PlayerID:         p.ID,
		EdgeStats:        *edge,
		MotorIndex:       ranked.Motor.Ptr(),
		MotorPercentile:  ranked.MotorPercentile,
		HustleScore:      ranked.Hustle.Ptr(),
		HustlePercentile: ranked.HustlePercentile,
	}
	if st.ShotsPer60 != nil {
		if pct, ok := cycle.ShotsPercentile(*st.ShotsPer60); ok {
			row.ShotsPercentile = &pct
		}
	}
	return row
}

func sortedKeys(m map[int]error) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
