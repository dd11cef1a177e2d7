// Package store persists the latest snapshot: roster players, their stats
// and Edge rows with computed scores, and the reference tables each refresh
// cycle rebuilds. Postgres and SQLite implement the same Store interface.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/caps-edge/internal/config"
	"github.com/albapepper/caps-edge/internal/provider"
	"github.com/albapepper/caps-edge/internal/scoring"
)

// ErrNotFound is returned by GetPlayer for unknown ids.
var ErrNotFound = errors.New("store: not found")

const lastUpdatedKey = "last_updated"

// Store is the persistence contract shared by the refresh runner and the API.
type Store interface {
	UpsertPlayer(ctx context.Context, p provider.Player) error
	UpsertPlayerStats(ctx context.Context, s provider.SkaterStats) error
	// UpsertEdgeStats replaces the player's Edge row; only the latest is kept.
	UpsertEdgeStats(ctx context.Context, row EdgeRow) error
	// ReplaceReferenceTables swaps position averages and league stats for a
	// new cycle's in one transaction.
	ReplaceReferenceTables(ctx context.Context, avgs scoring.PositionAverages, league []LeagueStat) error

	PositionAverages(ctx context.Context) (scoring.PositionAverages, error)
	ListPlayers(ctx context.Context) ([]PlayerRecord, error)
	GetPlayer(ctx context.Context, playerID int) (*PlayerRecord, error)
	LeagueMotorScores(ctx context.Context) ([]float64, error)
	CountPlayers(ctx context.Context) (int, error)

	SetLastUpdated(ctx context.Context, t time.Time) error
	// LastUpdated returns nil before the first completed refresh.
	LastUpdated(ctx context.Context) (*time.Time, error)

	Ping(ctx context.Context) error
	Close() error
}

// EdgeRow is a roster player's Edge stats plus the scores a cycle computed
// for them.
type EdgeRow struct {
	PlayerID int
	provider.EdgeStats
	ShotsPercentile  *int
	MotorIndex       *float64
	MotorPercentile  *int
	HustleScore      *float64
	HustlePercentile *int
}

// LeagueStat is one league reference player with their computed scores.
type LeagueStat struct {
	scoring.RawPlayerSample
	MotorIndex  *float64
	HustleScore *float64
}

// Open picks Postgres when DATABASE_URL is set and SQLite otherwise.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UsePostgres() {
		s, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		logger.Info("Store ready", "backend", "postgres")
		return s, nil
	}

	s, err := OpenSQLite(ctx, cfg.SQLitePath())
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	logger.Info("Store ready", "backend", "sqlite", "path", cfg.SQLitePath())
	return s, nil
}

// timestamp is the text form of updated_at and last_updated values.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(v string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", lastUpdatedKey, v, err)
	}
	return &t, nil
}

// Argument lists in Statements order.

func playerArgs(p provider.Player) []interface{} {
	return []interface{}{p.ID, p.Name, p.Position, p.JerseyNumber}
}

func statsArgs(s provider.SkaterStats, now time.Time) []interface{} {
	return []interface{}{
		s.PlayerID, timestamp(now), s.GamesPlayed, s.AvgTOI, s.Goals, s.Assists,
		s.Points, s.PlusMinus, s.Hits, s.PIM, s.FaceoffWinPct, s.Shots, s.ShotsPer60,
	}
}

func edgeArgs(r EdgeRow, now time.Time) []interface{} {
	e := r.EdgeStats
	return []interface{}{
		r.PlayerID, timestamp(now),
		e.TopSpeedMPH, e.TopSpeedPercentile,
		e.Bursts20Plus, e.Bursts20Percentile,
		e.Bursts22Plus, e.Bursts22Percentile,
		e.DistancePerGameMiles, e.DistancePercentile,
		e.OffZoneTimePct, e.OffZonePercentile,
		e.DefZoneTimePct, e.DefZonePercentile,
		e.NeuZoneTimePct,
		e.ZoneStartsOffPct, e.ZoneStartsPercentile,
		e.TopShotSpeedMPH, e.ShotSpeedPercentile,
		r.ShotsPercentile,
		r.MotorIndex, r.MotorPercentile,
		r.HustleScore, r.HustlePercentile,
	}
}

func positionAverageArgs(pos scoring.Position, a scoring.PositionAverage) []interface{} {
	return []interface{}{
		string(pos), a.AvgBurstsPer60, a.AvgDistancePerGame,
		a.AvgHitsPer60, a.AvgShotsPer60, a.AvgOffZonePct, a.SampleSize,
	}
}

func leagueStatArgs(l LeagueStat, now time.Time) []interface{} {
	return []interface{}{
		l.PlayerID, timestamp(now), string(l.Position), l.GamesPlayed, l.AvgTOI,
		l.Hits, l.Shots, l.Bursts20Plus, l.DistancePerGameMiles, l.OffZoneTimePct,
		l.MotorIndex, l.HustleScore,
	}
}
