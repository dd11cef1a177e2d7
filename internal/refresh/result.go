package refresh

import (
	"fmt"
	"time"
)

// Result tracks counts and errors from one refresh cycle.
type Result struct {
	Season           string
	PlayersUpserted  int
	StatsUpserted    int
	EdgeRowsUpserted int
	LeagueCandidates int
	LeagueSampled    int
	LeagueScored     int
	PlayersScored    int
	Errors           []string
	Duration         time.Duration

	// Aborted is set when the cycle stopped before scoring.
	Aborted bool
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// OK reports whether the cycle ran to completion. Per-player errors do not
// fail a cycle.
func (r Result) OK() bool {
	return !r.Aborted
}

// Summary returns a human-readable summary of the cycle.
func (r Result) Summary() string {
	return fmt.Sprintf(
		"season=%s players=%d stats=%d edge=%d league_sampled=%d/%d league_scored=%d roster_scored=%d errors=%d duration=%s",
		r.Season, r.PlayersUpserted, r.StatsUpserted, r.EdgeRowsUpserted,
		r.LeagueSampled, r.LeagueCandidates, r.LeagueScored, r.PlayersScored,
		len(r.Errors), r.Duration.Round(time.Millisecond),
	)
}
