package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/caps-edge/internal/config"
	"github.com/albapepper/caps-edge/internal/db"
	"github.com/albapepper/caps-edge/internal/provider"
	"github.com/albapepper/caps-edge/internal/scoring"
)

// Postgres implements Store on a pgx pool. Every query runs as one of the
// prepared statements the pool registers per connection.
type Postgres struct {
	pool *db.Pool
	now  func() time.Time
}

// OpenPostgres connects, applies the schema and prepares statements.
func OpenPostgres(ctx context.Context, cfg *config.Config) (*Postgres, error) {
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Postgres{pool: pool, now: time.Now}, nil
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.HealthCheck(ctx)
}

func (s *Postgres) UpsertPlayer(ctx context.Context, p provider.Player) error {
	if _, err := s.pool.Exec(ctx, "upsert_player", playerArgs(p)...); err != nil {
		return fmt.Errorf("upsert player %d: %w", p.ID, err)
	}
	return nil
}

func (s *Postgres) UpsertPlayerStats(ctx context.Context, st provider.SkaterStats) error {
	if _, err := s.pool.Exec(ctx, "upsert_player_stats", statsArgs(st, s.now())...); err != nil {
		return fmt.Errorf("upsert stats for %d: %w", st.PlayerID, err)
	}
	return nil
}

func (s *Postgres) UpsertEdgeStats(ctx context.Context, row EdgeRow) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "delete_player_edge_stats", row.PlayerID); err != nil {
			return fmt.Errorf("clear edge stats for %d: %w", row.PlayerID, err)
		}
		if _, err := tx.Exec(ctx, "insert_player_edge_stats", edgeArgs(row, s.now())...); err != nil {
			return fmt.Errorf("insert edge stats for %d: %w", row.PlayerID, err)
		}
		return nil
	})
}

func (s *Postgres) ReplaceReferenceTables(ctx context.Context, avgs scoring.PositionAverages, league []LeagueStat) error {
	now := s.now()
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "clear_position_averages"); err != nil {
			return fmt.Errorf("clear position averages: %w", err)
		}
		for _, pos := range scoring.Positions {
			a, ok := avgs[pos]
			if !ok {
				continue
			}
			if _, err := tx.Exec(ctx, "insert_position_average", positionAverageArgs(pos, a)...); err != nil {
				return fmt.Errorf("insert %s averages: %w", pos, err)
			}
		}

		if _, err := tx.Exec(ctx, "clear_league_stats"); err != nil {
			return fmt.Errorf("clear league stats: %w", err)
		}
		batch := &pgx.Batch{}
		for _, l := range league {
			batch.Queue("insert_league_stat", leagueStatArgs(l, now)...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert league stats: %w", err)
		}
		return nil
	})
}

func (s *Postgres) PositionAverages(ctx context.Context) (scoring.PositionAverages, error) {
	rows, err := s.pool.Query(ctx, "position_averages")
	if err != nil {
		return nil, fmt.Errorf("list position averages: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[positionAverageRow])
	if err != nil {
		return nil, fmt.Errorf("scan position averages: %w", err)
	}
	return collectAverages(list), nil
}

func (s *Postgres) ListPlayers(ctx context.Context) ([]PlayerRecord, error) {
	rows, err := s.pool.Query(ctx, "list_players")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[playerRow])
	if err != nil {
		return nil, fmt.Errorf("scan players: %w", err)
	}
	out := make([]PlayerRecord, len(list))
	for i, r := range list {
		out[i] = r.record()
	}
	return out, nil
}

func (s *Postgres) GetPlayer(ctx context.Context, playerID int) (*PlayerRecord, error) {
	rows, err := s.pool.Query(ctx, "player_by_id", playerID)
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", playerID, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[playerRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan player %d: %w", playerID, err)
	}
	rec := row.record()
	return &rec, nil
}

func (s *Postgres) LeagueMotorScores(ctx context.Context) ([]float64, error) {
	rows, err := s.pool.Query(ctx, "league_motor_scores")
	if err != nil {
		return nil, fmt.Errorf("league motor scores: %w", err)
	}
	scores, err := pgx.CollectRows(rows, pgx.RowTo[float64])
	if err != nil {
		return nil, fmt.Errorf("scan league motor scores: %w", err)
	}
	return scores, nil
}

func (s *Postgres) CountPlayers(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "count_players").Scan(&n); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

// SetLastUpdated also notifies RefreshChannel on commit, so API processes
// other than the one that ran the cycle can drop stale responses.
func (s *Postgres) SetLastUpdated(ctx context.Context, t time.Time) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "set_metadata", lastUpdatedKey, timestamp(t)); err != nil {
			return fmt.Errorf("set %s: %w", lastUpdatedKey, err)
		}
		if _, err := tx.Exec(ctx, "SELECT pg_notify($1, $2)", db.RefreshChannel, timestamp(t)); err != nil {
			return fmt.Errorf("notify %s: %w", db.RefreshChannel, err)
		}
		return nil
	})
}

func (s *Postgres) LastUpdated(ctx context.Context) (*time.Time, error) {
	var v string
	err := s.pool.QueryRow(ctx, "get_metadata", lastUpdatedKey).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", lastUpdatedKey, err)
	}
	return parseTimestamp(v)
}
