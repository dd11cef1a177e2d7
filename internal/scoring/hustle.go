package scoring

// Hustle Score component weights.
const (
	hustleBurstWeight    = 0.30
	hustleDistanceWeight = 0.25
	hustleHitsWeight     = 0.25
	hustleOffZoneWeight  = 0.20
)

// LeagueMaxima are the league-wide best rates the Hustle Score is measured
// against.
type LeagueMaxima struct {
	MaxBurstsPer60 float64 `json:"max_bursts_per_60"`
	MaxDistance    float64 `json:"max_distance"`
	MaxHitsPer60   float64 `json:"max_hits_per_60"`
}

// HustleInput is the per-player data the Hustle Score needs.
type HustleInput struct {
	GamesPlayed     int
	AvgTOI          float64
	Hits            int
	Bursts20Plus    int
	DistancePerGame float64
	OffZoneTimePct  float64
}

// HustleInputFrom adapts a raw sample.
func HustleInputFrom(s RawPlayerSample) HustleInput {
	return HustleInput{
		GamesPlayed:     s.GamesPlayed,
		AvgTOI:          s.AvgTOI,
		Hits:            s.Hits,
		Bursts20Plus:    s.Bursts20Plus,
		DistancePerGame: s.DistancePerGameMiles,
		OffZoneTimePct:  s.OffZoneTimePct,
	}
}

// HustleScore is the legacy absolute effort score. It is not
// position-relative: each rate is a fraction of the league maximum, capped
// at 1, so the result stays within [0, 100] for non-negative inputs.
//
// A maximum of zero or less is treated as 1 rather than withholding the
// score.
func HustleScore(in HustleInput, maxima LeagueMaxima) Score {
	if in.GamesPlayed <= 0 || in.AvgTOI <= 0 {
		return InsufficientData()
	}
	minutes := float64(in.GamesPlayed) * in.AvgTOI

	maxBursts := orOne(maxima.MaxBurstsPer60)
	maxDistance := orOne(maxima.MaxDistance)
	maxHits := orOne(maxima.MaxHitsPer60)

	bursts := capOne(Per60(in.Bursts20Plus, minutes)/maxBursts) * hustleBurstWeight
	distance := capOne(in.DistancePerGame/maxDistance) * hustleDistanceWeight
	hits := capOne(Per60(in.Hits, minutes)/maxHits) * hustleHitsWeight
	// Already a percentage, so not capped.
	offZone := in.OffZoneTimePct / 100 * hustleOffZoneWeight

	return Present(roundTo((bursts+distance+hits+offZone)*100, 2))
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func capOne(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
