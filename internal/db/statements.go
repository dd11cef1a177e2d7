package db

// Schema is applied on open by both backends. It sticks to the SQL subset
// Postgres and SQLite share.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		player_id     INTEGER PRIMARY KEY,
		name          TEXT NOT NULL,
		position      TEXT NOT NULL,
		jersey_number INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS player_stats (
		player_id       INTEGER PRIMARY KEY REFERENCES players (player_id),
		updated_at      TEXT NOT NULL,
		games_played    INTEGER,
		avg_toi         DOUBLE PRECISION,
		goals           INTEGER,
		assists         INTEGER,
		points          INTEGER,
		plus_minus      INTEGER,
		hits            INTEGER,
		pim             INTEGER,
		faceoff_win_pct DOUBLE PRECISION,
		shots           INTEGER,
		shots_per_60    DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS player_edge_stats (
		player_id               INTEGER PRIMARY KEY REFERENCES players (player_id),
		updated_at              TEXT NOT NULL,
		top_speed_mph           DOUBLE PRECISION,
		top_speed_percentile    INTEGER,
		bursts_20_plus          INTEGER,
		bursts_20_percentile    INTEGER,
		bursts_22_plus          INTEGER,
		bursts_22_percentile    INTEGER,
		distance_per_game_miles DOUBLE PRECISION,
		distance_percentile     INTEGER,
		off_zone_time_pct       DOUBLE PRECISION,
		off_zone_percentile     INTEGER,
		def_zone_time_pct       DOUBLE PRECISION,
		def_zone_percentile     INTEGER,
		neu_zone_time_pct       DOUBLE PRECISION,
		zone_starts_off_pct     DOUBLE PRECISION,
		zone_starts_percentile  INTEGER,
		top_shot_speed_mph      DOUBLE PRECISION,
		shot_speed_percentile   INTEGER,
		shots_percentile        INTEGER,
		motor_index             DOUBLE PRECISION,
		motor_percentile        INTEGER,
		hustle_score            DOUBLE PRECISION,
		hustle_percentile       INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS position_averages (
		position              TEXT PRIMARY KEY,
		avg_bursts_per_60     DOUBLE PRECISION NOT NULL,
		avg_distance_per_game DOUBLE PRECISION NOT NULL,
		avg_hits_per_60       DOUBLE PRECISION NOT NULL,
		avg_shots_per_60      DOUBLE PRECISION NOT NULL,
		avg_off_zone_pct      DOUBLE PRECISION NOT NULL,
		sample_size           INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS league_stats (
		player_id               INTEGER PRIMARY KEY,
		updated_at              TEXT NOT NULL,
		position                TEXT,
		games_played            INTEGER,
		avg_toi                 DOUBLE PRECISION,
		hits                    INTEGER,
		shots                   INTEGER,
		bursts_20_plus          INTEGER,
		distance_per_game_miles DOUBLE PRECISION,
		off_zone_time_pct       DOUBLE PRECISION,
		motor_index             DOUBLE PRECISION,
		hustle_score            DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS metadata (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// playerColumns is the joined player view used by listings and lookups.
const playerColumns = `
	p.player_id, p.name, p.position, p.jersey_number,
	s.player_id AS stats_player_id,
	s.games_played, s.avg_toi, s.goals, s.assists, s.points,
	s.plus_minus, s.hits, s.pim, s.faceoff_win_pct,
	s.shots, s.shots_per_60,
	e.player_id AS edge_player_id,
	e.top_speed_mph, e.top_speed_percentile,
	e.bursts_20_plus, e.bursts_20_percentile,
	e.bursts_22_plus, e.bursts_22_percentile,
	e.distance_per_game_miles, e.distance_percentile,
	e.off_zone_time_pct, e.off_zone_percentile,
	e.def_zone_time_pct, e.def_zone_percentile,
	e.neu_zone_time_pct,
	e.zone_starts_off_pct, e.zone_starts_percentile,
	e.top_shot_speed_mph, e.shot_speed_percentile,
	e.shots_percentile,
	e.motor_index, e.motor_percentile,
	e.hustle_score, e.hustle_percentile
FROM players p
LEFT JOIN player_stats s ON p.player_id = s.player_id
LEFT JOIN player_edge_stats e ON p.player_id = e.player_id`

// Statements are written with ? placeholders. The Postgres pool registers
// them as prepared statements rebound to $n; SQLite runs them as-is.
var Statements = map[string]string{
	// Health
	"health_check": "SELECT 1",

	// Players
	"upsert_player": `INSERT INTO players (player_id, name, position, jersey_number)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position,
			jersey_number = excluded.jersey_number`,
	"list_players": "SELECT " + playerColumns + `
		WHERE p.position <> 'G'
		ORDER BY s.points DESC NULLS LAST, p.player_id`,
	"player_by_id": "SELECT " + playerColumns + `
		WHERE p.player_id = ?`,
	"count_players": "SELECT COUNT(*) FROM players WHERE position <> 'G'",

	// Latest stats, one row per player
	"upsert_player_stats": `INSERT INTO player_stats (
			player_id, updated_at, games_played, avg_toi, goals, assists,
			points, plus_minus, hits, pim, faceoff_win_pct, shots, shots_per_60
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			games_played = excluded.games_played,
			avg_toi = excluded.avg_toi,
			goals = excluded.goals,
			assists = excluded.assists,
			points = excluded.points,
			plus_minus = excluded.plus_minus,
			hits = excluded.hits,
			pim = excluded.pim,
			faceoff_win_pct = excluded.faceoff_win_pct,
			shots = excluded.shots,
			shots_per_60 = excluded.shots_per_60`,
	"delete_player_edge_stats": "DELETE FROM player_edge_stats WHERE player_id = ?",
	"insert_player_edge_stats": `INSERT INTO player_edge_stats (
			player_id, updated_at,
			top_speed_mph, top_speed_percentile,
			bursts_20_plus, bursts_20_percentile,
			bursts_22_plus, bursts_22_percentile,
			distance_per_game_miles, distance_percentile,
			off_zone_time_pct, off_zone_percentile,
			def_zone_time_pct, def_zone_percentile,
			neu_zone_time_pct,
			zone_starts_off_pct, zone_starts_percentile,
			top_shot_speed_mph, shot_speed_percentile,
			shots_percentile,
			motor_index, motor_percentile,
			hustle_score, hustle_percentile
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

	// Reference tables, rebuilt wholesale each cycle
	"clear_position_averages": "DELETE FROM position_averages",
	"insert_position_average": `INSERT INTO position_averages (
			position, avg_bursts_per_60, avg_distance_per_game,
			avg_hits_per_60, avg_shots_per_60, avg_off_zone_pct, sample_size
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
	"position_averages": `SELECT position, avg_bursts_per_60, avg_distance_per_game,
			avg_hits_per_60, avg_shots_per_60, avg_off_zone_pct, sample_size
		FROM position_averages ORDER BY position`,
	"clear_league_stats": "DELETE FROM league_stats",
	"insert_league_stat": `INSERT INTO league_stats (
			player_id, updated_at, position, games_played, avg_toi, hits, shots,
			bursts_20_plus, distance_per_game_miles, off_zone_time_pct,
			motor_index, hustle_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	"league_motor_scores": `SELECT motor_index FROM league_stats
		WHERE games_played >= 10 AND motor_index IS NOT NULL
		ORDER BY motor_index`,

	// Metadata
	"set_metadata": `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
	"get_metadata": "SELECT value FROM metadata WHERE key = ?",
}
