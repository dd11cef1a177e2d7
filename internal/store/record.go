package store

import (
	"github.com/albapepper/caps-edge/internal/provider"
	"github.com/albapepper/caps-edge/internal/scoring"
)

// PlayerRecord is a roster player with their latest stats and Edge row.
// Stats and EdgeStats are nil when no row exists yet.
type PlayerRecord struct {
	provider.Player
	Stats     *StatsRecord `json:"stats"`
	EdgeStats *EdgeRecord  `json:"edge_stats"`
}

// StatsRecord is the stored traditional stat line.
type StatsRecord struct {
	GamesPlayed   *int     `json:"games_played"`
	AvgTOI        *float64 `json:"avg_toi"`
	Goals         *int     `json:"goals"`
	Assists       *int     `json:"assists"`
	Points        *int     `json:"points"`
	PlusMinus     *int     `json:"plus_minus"`
	Hits          *int     `json:"hits"`
	PIM           *int     `json:"pim"`
	FaceoffWinPct *float64 `json:"faceoff_win_pct"`
	Shots         *int     `json:"shots"`
	ShotsPer60    *float64 `json:"shots_per_60"`
}

// EdgeRecord is the stored Edge row with computed scores.
type EdgeRecord struct {
	provider.EdgeStats
	ShotsPercentile  *int          `json:"shots_percentile"`
	MotorIndex       scoring.Score `json:"motor_index"`
	MotorPercentile  *int          `json:"motor_percentile"`
	HustleScore      scoring.Score `json:"hustle_score"`
	HustlePercentile *int          `json:"hustle_percentile"`
}

// playerRow is the flat joined row both backends scan into.
type playerRow struct {
	PlayerID     int    `db:"player_id"`
	Name         string `db:"name"`
	Position     string `db:"position"`
	JerseyNumber *int   `db:"jersey_number"`

	StatsPlayerID *int     `db:"stats_player_id"`
	GamesPlayed   *int     `db:"games_played"`
	AvgTOI        *float64 `db:"avg_toi"`
	Goals         *int     `db:"goals"`
	Assists       *int     `db:"assists"`
	Points        *int     `db:"points"`
	PlusMinus     *int     `db:"plus_minus"`
	Hits          *int     `db:"hits"`
	PIM           *int     `db:"pim"`
	FaceoffWinPct *float64 `db:"faceoff_win_pct"`
	Shots         *int     `db:"shots"`
	ShotsPer60    *float64 `db:"shots_per_60"`

	EdgePlayerID         *int     `db:"edge_player_id"`
	TopSpeedMPH          *float64 `db:"top_speed_mph"`
	TopSpeedPercentile   *int     `db:"top_speed_percentile"`
	Bursts20Plus         *int     `db:"bursts_20_plus"`
	Bursts20Percentile   *int     `db:"bursts_20_percentile"`
	Bursts22Plus         *int     `db:"bursts_22_plus"`
	Bursts22Percentile   *int     `db:"bursts_22_percentile"`
	DistancePerGameMiles *float64 `db:"distance_per_game_miles"`
	DistancePercentile   *int     `db:"distance_percentile"`
	OffZoneTimePct       *float64 `db:"off_zone_time_pct"`
	OffZonePercentile    *int     `db:"off_zone_percentile"`
	DefZoneTimePct       *float64 `db:"def_zone_time_pct"`
	DefZonePercentile    *int     `db:"def_zone_percentile"`
	NeuZoneTimePct       *float64 `db:"neu_zone_time_pct"`
	ZoneStartsOffPct     *float64 `db:"zone_starts_off_pct"`
	ZoneStartsPercentile *int     `db:"zone_starts_percentile"`
	TopShotSpeedMPH      *float64 `db:"top_shot_speed_mph"`
	ShotSpeedPercentile  *int     `db:"shot_speed_percentile"`
	ShotsPercentile      *int     `db:"shots_percentile"`
	MotorIndex           *float64 `db:"motor_index"`
	MotorPercentile      *int     `db:"motor_percentile"`
	HustleScore          *float64 `db:"hustle_score"`
	HustlePercentile     *int     `db:"hustle_percentile"`
}

func (r playerRow) record() PlayerRecord {
	rec := PlayerRecord{Player: provider.Player{
		ID:           r.PlayerID,
		Name:         r.Name,
		Position:     r.Position,
		JerseyNumber: r.JerseyNumber,
	}}

	if r.StatsPlayerID != nil {
		rec.Stats = &StatsRecord{
			GamesPlayed:   r.GamesPlayed,
			AvgTOI:        r.AvgTOI,
			Goals:         r.Goals,
			Assists:       r.Assists,
			Points:        r.Points,
			PlusMinus:     r.PlusMinus,
			Hits:          r.Hits,
			PIM:           r.PIM,
			FaceoffWinPct: r.FaceoffWinPct,
			Shots:         r.Shots,
			ShotsPer60:    r.ShotsPer60,
		}
	}

	if r.EdgePlayerID != nil {
		rec.EdgeStats = &EdgeRecord{
			EdgeStats: provider.EdgeStats{
				TopSpeedMPH:          r.TopSpeedMPH,
				TopSpeedPercentile:   r.TopSpeedPercentile,
				Bursts20Plus:         r.Bursts20Plus,
				Bursts20Percentile:   r.Bursts20Percentile,
				Bursts22Plus:         r.Bursts22Plus,
				Bursts22Percentile:   r.Bursts22Percentile,
				DistancePerGameMiles: r.DistancePerGameMiles,
				DistancePercentile:   r.DistancePercentile,
				OffZoneTimePct:       r.OffZoneTimePct,
				OffZonePercentile:    r.OffZonePercentile,
				DefZoneTimePct:       r.DefZoneTimePct,
				DefZonePercentile:    r.DefZonePercentile,
				NeuZoneTimePct:       r.NeuZoneTimePct,
				ZoneStartsOffPct:     r.ZoneStartsOffPct,
				ZoneStartsPercentile: r.ZoneStartsPercentile,
				TopShotSpeedMPH:      r.TopShotSpeedMPH,
				ShotSpeedPercentile:  r.ShotSpeedPercentile,
			},
			ShotsPercentile:  r.ShotsPercentile,
			MotorIndex:       scoreOf(r.MotorIndex),
			MotorPercentile:  r.MotorPercentile,
			HustleScore:      scoreOf(r.HustleScore),
			HustlePercentile: r.HustlePercentile,
		}
	}
	return rec
}

func scoreOf(v *float64) scoring.Score {
	if v == nil {
		return scoring.InsufficientData()
	}
	return scoring.Present(*v)
}

// positionAverageRow is one stored position_averages row.
type positionAverageRow struct {
	Position string `db:"position"`
	scoring.PositionAverage
}

func collectAverages(rows []positionAverageRow) scoring.PositionAverages {
	avgs := make(scoring.PositionAverages, len(rows))
	for _, r := range rows {
		if pos, ok := scoring.ParsePosition(r.Position); ok {
			avgs[pos] = r.PositionAverage
		}
	}
	return avgs
}
