package scoring

// Motor Index component weights. They sum to 1.
const (
	motorBurstWeight    = 0.25
	motorDistanceWeight = 0.20
	motorHitsWeight     = 0.20
	motorShotsWeight    = 0.20
	motorOffZoneWeight  = 0.15
)

// MotorInput is the per-player data the Motor Index needs.
type MotorInput struct {
	Position        Position
	GamesPlayed     int
	AvgTOI          float64
	Bursts20Plus    int
	DistancePerGame float64
	Hits            int
	Shots           int
	OffZoneTimePct  float64
}

// MotorInputFrom adapts a raw sample.
func MotorInputFrom(s RawPlayerSample) MotorInput {
	return MotorInput{
		Position:        s.Position,
		GamesPlayed:     s.GamesPlayed,
		AvgTOI:          s.AvgTOI,
		Bursts20Plus:    s.Bursts20Plus,
		DistancePerGame: s.DistancePerGameMiles,
		Hits:            s.Hits,
		Shots:           s.Shots,
		OffZoneTimePct:  s.OffZoneTimePct,
	}
}

// MotorIndex scores a player's effort relative to the average player at the
// same position. An exactly average player scores 50; being twice the
// average in every weighted dimension saturates at 100.
//
// The score is withheld when the player has fewer than MinGamesPlayed
// games, no ice time, or a position whose averages are missing or contain
// a zero.
func MotorIndex(in MotorInput, avgs PositionAverages) Score {
	if in.GamesPlayed < MinGamesPlayed || in.AvgTOI <= 0 {
		return InsufficientData()
	}
	pos, ok := ParsePosition(string(in.Position))
	if !ok {
		return InsufficientData()
	}
	avg, ok := avgs[pos]
	if !ok || !avg.usable() {
		return InsufficientData()
	}

	minutes := float64(in.GamesPlayed) * in.AvgTOI
	burstsPer60 := Per60(in.Bursts20Plus, minutes)
	hitsPer60 := Per60(in.Hits, minutes)
	shotsPer60 := Per60(in.Shots, minutes)

	raw := (burstsPer60/avg.AvgBurstsPer60-1)*motorBurstWeight +
		(in.DistancePerGame/avg.AvgDistancePerGame-1)*motorDistanceWeight +
		(hitsPer60/avg.AvgHitsPer60-1)*motorHitsWeight +
		(shotsPer60/avg.AvgShotsPer60-1)*motorShotsWeight +
		(in.OffZoneTimePct/avg.AvgOffZonePct-1)*motorOffZoneWeight

	return Present(roundTo(clamp(raw*50+50, 0, 100), 1))
}
