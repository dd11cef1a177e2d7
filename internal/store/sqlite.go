package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/albapepper/caps-edge/internal/db"
	"github.com/albapepper/caps-edge/internal/provider"
	"github.com/albapepper/caps-edge/internal/scoring"
)

// SQLite implements Store on a local SQLite file.
type SQLite struct {
	db  *sqlx.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) a SQLite database and applies the
// schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	for _, ddl := range db.Schema {
		if _, err := conn.ExecContext(ctx, ddl); err != nil {
			conn.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return &SQLite{db: conn, now: time.Now}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Ping(ctx context.Context) error {
	var n int
	return s.db.GetContext(ctx, &n, db.Statements["health_check"])
}

func (s *SQLite) UpsertPlayer(ctx context.Context, p provider.Player) error {
	if _, err := s.db.ExecContext(ctx, db.Statements["upsert_player"], playerArgs(p)...); err != nil {
		return fmt.Errorf("upsert player %d: %w", p.ID, err)
	}
	return nil
}

func (s *SQLite) UpsertPlayerStats(ctx context.Context, st provider.SkaterStats) error {
	if _, err := s.db.ExecContext(ctx, db.Statements["upsert_player_stats"], statsArgs(st, s.now())...); err != nil {
		return fmt.Errorf("upsert stats for %d: %w", st.PlayerID, err)
	}
	return nil
}

func (s *SQLite) UpsertEdgeStats(ctx context.Context, row EdgeRow) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin edge upsert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, db.Statements["delete_player_edge_stats"], row.PlayerID); err != nil {
		return fmt.Errorf("clear edge stats for %d: %w", row.PlayerID, err)
	}
	if _, err := tx.ExecContext(ctx, db.Statements["insert_player_edge_stats"], edgeArgs(row, s.now())...); err != nil {
		return fmt.Errorf("insert edge stats for %d: %w", row.PlayerID, err)
	}
	return tx.Commit()
}

func (s *SQLite) ReplaceReferenceTables(ctx context.Context, avgs scoring.PositionAverages, league []LeagueStat) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reference swap: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, db.Statements["clear_position_averages"]); err != nil {
		return fmt.Errorf("clear position averages: %w", err)
	}
	for _, pos := range scoring.Positions {
		a, ok := avgs[pos]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, db.Statements["insert_position_average"], positionAverageArgs(pos, a)...); err != nil {
			return fmt.Errorf("insert %s averages: %w", pos, err)
		}
	}

	if _, err := tx.ExecContext(ctx, db.Statements["clear_league_stats"]); err != nil {
		return fmt.Errorf("clear league stats: %w", err)
	}
	now := s.now()
	for _, l := range league {
		if _, err := tx.ExecContext(ctx, db.Statements["insert_league_stat"], leagueStatArgs(l, now)...); err != nil {
			return fmt.Errorf("insert league stat %d: %w", l.PlayerID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) PositionAverages(ctx context.Context) (scoring.PositionAverages, error) {
	var rows []positionAverageRow
	if err := s.db.SelectContext(ctx, &rows, db.Statements["position_averages"]); err != nil {
		return nil, fmt.Errorf("list position averages: %w", err)
	}
	return collectAverages(rows), nil
}

func (s *SQLite) ListPlayers(ctx context.Context) ([]PlayerRecord, error) {
	var rows []playerRow
	if err := s.db.SelectContext(ctx, &rows, db.Statements["list_players"]); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	out := make([]PlayerRecord, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

func (s *SQLite) GetPlayer(ctx context.Context, playerID int) (*PlayerRecord, error) {
	var row playerRow
	err := s.db.GetContext(ctx, &row, db.Statements["player_by_id"], playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", playerID, err)
	}
	rec := row.record()
	return &rec, nil
}

func (s *SQLite) LeagueMotorScores(ctx context.Context) ([]float64, error) {
	var scores []float64
	if err := s.db.SelectContext(ctx, &scores, db.Statements["league_motor_scores"]); err != nil {
		return nil, fmt.Errorf("league motor scores: %w", err)
	}
	return scores, nil
}

func (s *SQLite) CountPlayers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, db.Statements["count_players"]); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

func (s *SQLite) SetLastUpdated(ctx context.Context, t time.Time) error {
	if _, err := s.db.ExecContext(ctx, db.Statements["set_metadata"], lastUpdatedKey, timestamp(t)); err != nil {
		return fmt.Errorf("set %s: %w", lastUpdatedKey, err)
	}
	return nil
}

func (s *SQLite) LastUpdated(ctx context.Context) (*time.Time, error) {
	var v string
	err := s.db.GetContext(ctx, &v, db.Statements["get_metadata"], lastUpdatedKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", lastUpdatedKey, err)
	}
	return parseTimestamp(v)
}
