package scoring

// PlayerScores is one player's composite scores from a cycle.
type PlayerScores struct {
	PlayerID int   `json:"player_id"`
	Motor    Score `json:"motor_index"`
	Hustle   Score `json:"hustle_score"`
	// ShotsPer60 is meaningful only when HasShotsRate is set (the player
	// has games and ice time).
	ShotsPer60   float64 `json:"shots_per_60"`
	HasShotsRate bool    `json:"-"`
}

// Ranked is a player's scores with their percentiles. A percentile is nil
// when the score it ranks is absent or no population exists.
type Ranked struct {
	PlayerScores
	MotorPercentile  *int `json:"motor_percentile"`
	HustlePercentile *int `json:"hustle_percentile"`
	ShotsPercentile  *int `json:"shots_percentile"`
}

// Cycle is the result of one full refresh pass over a league population:
// the reference tables, every sampled player's scores, and the sorted
// populations percentiles are ranked against. It is built in one go by
// ScoreLeague and never modified afterwards, so percentiles can only be
// taken against a complete population.
type Cycle struct {
	Averages PositionAverages
	Maxima   LeagueMaxima
	Players  []PlayerScores

	motorPop  []float64
	hustlePop []float64
	shotsPop  []float64
}

// ScoreLeague runs the sequential cycle: reference tables, then every
// player's scores, then the sorted reference populations.
func ScoreLeague(samples []RawPlayerSample) *Cycle {
	c := &Cycle{
		Averages: ComputePositionAverages(samples),
		Maxima:   ComputeLeagueMaxima(samples),
		Players:  make([]PlayerScores, 0, len(samples)),
	}

	var motor, hustle, shots []float64
	for _, s := range samples {
		ps := c.Evaluate(s)
		c.Players = append(c.Players, ps)
		if v, ok := ps.Motor.Value(); ok {
			motor = append(motor, v)
		}
		if v, ok := ps.Hustle.Value(); ok {
			hustle = append(hustle, v)
		}
		if ps.HasShotsRate {
			shots = append(shots, ps.ShotsPer60)
		}
	}
	c.motorPop = SortedCopy(motor)
	c.hustlePop = SortedCopy(hustle)
	c.shotsPop = SortedCopy(shots)
	return c
}

// Evaluate scores a sample against this cycle's reference tables. The
// sample does not need to be part of the league population.
func (c *Cycle) Evaluate(s RawPlayerSample) PlayerScores {
	ps := PlayerScores{
		PlayerID: s.PlayerID,
		Motor:    MotorIndex(MotorInputFrom(s), c.Averages),
		Hustle:   HustleScore(HustleInputFrom(s), c.Maxima),
	}
	if s.GamesPlayed > 0 && s.AvgTOI > 0 {
		ps.ShotsPer60 = Per60(s.Shots, s.MinutesPlayed())
		ps.HasShotsRate = true
	}
	return ps
}

// MotorPercentile ranks a Motor Index against the cycle's Motor scores.
func (c *Cycle) MotorPercentile(score Score) (int, bool) {
	v, ok := score.Value()
	if !ok {
		return 0, false
	}
	return MotorRanker.Percentile(v, c.motorPop), true
}

// HustlePercentile ranks a Hustle Score against the cycle's Hustle scores.
func (c *Cycle) HustlePercentile(score Score) (int, bool) {
	v, ok := score.Value()
	if !ok {
		return 0, false
	}
	return HustleRanker.Percentile(v, c.hustlePop), true
}

// ShotsPercentile ranks a shots/60 rate. It is withheld entirely when no
// league player has a shots rate.
func (c *Cycle) ShotsPercentile(shotsPer60 float64) (int, bool) {
	if len(c.shotsPop) == 0 {
		return 0, false
	}
	return MotorRanker.Percentile(shotsPer60, c.shotsPop), true
}

// Rank attaches percentiles to a player's scores.
func (c *Cycle) Rank(ps PlayerScores) Ranked {
	r := Ranked{PlayerScores: ps}
	if p, ok := c.MotorPercentile(ps.Motor); ok {
		r.MotorPercentile = &p
	}
	if p, ok := c.HustlePercentile(ps.Hustle); ok {
		r.HustlePercentile = &p
	}
	if ps.HasShotsRate {
		if p, ok := c.ShotsPercentile(ps.ShotsPer60); ok {
			r.ShotsPercentile = &p
		}
	}
	return r
}

// MotorPopulation returns a copy of the sorted Motor scores.
func (c *Cycle) MotorPopulation() []float64 { return append([]float64(nil), c.motorPop...) }

// HustlePopulation returns a copy of the sorted Hustle scores.
func (c *Cycle) HustlePopulation() []float64 { return append([]float64(nil), c.hustlePop...) }
