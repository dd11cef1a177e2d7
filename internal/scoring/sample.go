// Package scoring is the normalization and scoring engine: position
// averages, league maxima, the Motor Index and Hustle Score formulas, and
// percentile ranking against a league-wide reference population.
//
// Every function here is pure. Inputs are passed in full, nothing is cached
// between calls, and insufficient data is reported through Score rather
// than through errors, so a batch over a whole roster never stops early.
package scoring

import "strings"

// MinGamesPlayed is the games-played threshold for the qualified population.
// Call-ups and injury-shortened seasons below it would skew the reference
// tables.
const MinGamesPlayed = 10

// Position is a skater position code. Goalies are not scored.
type Position string

const (
	Center     Position = "C"
	LeftWing   Position = "L"
	RightWing  Position = "R"
	Defenseman Position = "D"
)

// Positions lists every scored position in display order.
var Positions = []Position{Center, LeftWing, RightWing, Defenseman}

// ParsePosition normalizes a provider position code. Anything other than
// C, L, R or D (goalies, blanks, unknown codes) returns ok=false.
func ParsePosition(code string) (Position, bool) {
	switch p := Position(strings.ToUpper(strings.TrimSpace(code))); p {
	case Center, LeftWing, RightWing, Defenseman:
		return p, true
	default:
		return "", false
	}
}

// RawPlayerSample is one skater's raw counting stats for the current
// snapshot. Missing numeric fields are zero.
type RawPlayerSample struct {
	PlayerID             int      `json:"player_id"`
	Position             Position `json:"position"`
	GamesPlayed          int      `json:"games_played"`
	AvgTOI               float64  `json:"avg_toi"` // minutes per game
	Hits                 int      `json:"hits"`
	Shots                int      `json:"shots"`
	Bursts20Plus         int      `json:"bursts_20_plus"`
	DistancePerGameMiles float64  `json:"distance_per_game_miles"`
	OffZoneTimePct       float64  `json:"off_zone_time_pct"` // 0-100
}

// Qualified reports whether the sample may contribute to position averages
// and league maxima.
func (s RawPlayerSample) Qualified() bool {
	if s.GamesPlayed < MinGamesPlayed || s.AvgTOI <= 0 {
		return false
	}
	_, ok := ParsePosition(string(s.Position))
	return ok
}

// MinutesPlayed is games played times average time on ice.
func (s RawPlayerSample) MinutesPlayed() float64 {
	return float64(s.GamesPlayed) * s.AvgTOI
}

// Rates returns the sample's per-60 and per-game rates.
func (s RawPlayerSample) Rates() Rates {
	minutes := s.MinutesPlayed()
	return Rates{
		BurstsPer60:     Per60(s.Bursts20Plus, minutes),
		DistancePerGame: s.DistancePerGameMiles,
		HitsPer60:       Per60(s.Hits, minutes),
		ShotsPer60:      Per60(s.Shots, minutes),
		OffZonePct:      s.OffZoneTimePct,
	}
}

// Rates holds the five normalized metrics the composite scores are built
// from.
type Rates struct {
	BurstsPer60     float64 `json:"bursts_per_60"`
	DistancePerGame float64 `json:"distance_per_game"`
	HitsPer60       float64 `json:"hits_per_60"`
	ShotsPer60      float64 `json:"shots_per_60"`
	OffZonePct      float64 `json:"off_zone_pct"`
}

// Per60 normalizes a counting stat to a 60-minute basis. Zero minutes
// yields zero.
func Per60(count int, minutesPlayed float64) float64 {
	if minutesPlayed <= 0 {
		return 0
	}
	return float64(count) / minutesPlayed * 60
}
