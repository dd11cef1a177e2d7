// Package provider defines canonical data types that the NHL handlers
// normalize into. These structs are the contract between the fetch layer
// and the refresh runner: providers output these, the runner scores them
// and the store writes them.
package provider

import "github.com/albapepper/caps-edge/internal/scoring"

// Player is a roster entry. Goalies never make it this far.
type Player struct {
	ID           int    `json:"player_id" db:"player_id"`
	Name         string `json:"name" db:"name"`
	Position     string `json:"position" db:"position"`
	JerseyNumber *int   `json:"jersey_number,omitempty" db:"jersey_number"`
}

// SkaterStats are a skater's traditional season stats. AvgTOI is minutes
// per game and is nil when the player has no summary row yet.
type SkaterStats struct {
	PlayerID      int      `json:"player_id"`
	Position      string   `json:"position,omitempty"`
	GamesPlayed   int      `json:"games_played"`
	AvgTOI        *float64 `json:"avg_toi"`
	Goals         int      `json:"goals"`
	Assists       int      `json:"assists"`
	Points        int      `json:"points"`
	PlusMinus     int      `json:"plus_minus"`
	Hits          int      `json:"hits"`
	PIM           int      `json:"pim"`
	FaceoffWinPct *float64 `json:"faceoff_win_pct"`
	Shots         int      `json:"shots"`
	ShotsPer60    *float64 `json:"shots_per_60"`
}

// EdgeStats are a skater's NHL Edge tracking stats. Percentiles are
// league-relative ints 0-100 as reported by the provider.
type EdgeStats struct {
	TopSpeedMPH          *float64 `json:"top_speed_mph"`
	TopSpeedPercentile   *int     `json:"top_speed_percentile"`
	Bursts20Plus         *int     `json:"bursts_20_plus"`
	Bursts20Percentile   *int     `json:"bursts_20_percentile"`
	Bursts22Plus         *int     `json:"bursts_22_plus"`
	Bursts22Percentile   *int     `json:"bursts_22_percentile"`
	DistancePerGameMiles *float64 `json:"distance_per_game_miles"`
	DistancePercentile   *int     `json:"distance_percentile"`
	OffZoneTimePct       *float64 `json:"off_zone_time_pct"`
	OffZonePercentile    *int     `json:"off_zone_percentile"`
	DefZoneTimePct       *float64 `json:"def_zone_time_pct"`
	DefZonePercentile    *int     `json:"def_zone_percentile"`
	NeuZoneTimePct       *float64 `json:"neu_zone_time_pct"`
	ZoneStartsOffPct     *float64 `json:"zone_starts_off_pct"`
	ZoneStartsPercentile *int     `json:"zone_starts_percentile"`
	TopShotSpeedMPH      *float64 `json:"top_shot_speed_mph"`
	ShotSpeedPercentile  *int     `json:"shot_speed_percentile"`
}

// Sample builds the scoring input from a player's traditional and Edge
// stats. Missing values become zero.
func Sample(playerID int, position string, stats SkaterStats, edge *EdgeStats) scoring.RawPlayerSample {
	s := scoring.RawPlayerSample{
		PlayerID:    playerID,
		GamesPlayed: stats.GamesPlayed,
		Hits:        stats.Hits,
		Shots:       stats.Shots,
	}
	if pos, ok := scoring.ParsePosition(position); ok {
		s.Position = pos
	}
	if stats.AvgTOI != nil {
		s.AvgTOI = *stats.AvgTOI
	}
	if edge != nil {
		if edge.Bursts20Plus != nil {
			s.Bursts20Plus = *edge.Bursts20Plus
		}
		if edge.DistancePerGameMiles != nil {
			s.DistancePerGameMiles = *edge.DistancePerGameMiles
		}
		if edge.OffZoneTimePct != nil {
			s.OffZoneTimePct = *edge.OffZoneTimePct
		}
	}
	return s
}
