package scoring

// PositionAverage is the unweighted mean of each rate across one
// position's qualified players.
type PositionAverage struct {
	AvgBurstsPer60     float64 `json:"avg_bursts_per_60" db:"avg_bursts_per_60"`
	AvgDistancePerGame float64 `json:"avg_distance_per_game" db:"avg_distance_per_game"`
	AvgHitsPer60       float64 `json:"avg_hits_per_60" db:"avg_hits_per_60"`
	AvgShotsPer60      float64 `json:"avg_shots_per_60" db:"avg_shots_per_60"`
	AvgOffZonePct      float64 `json:"avg_off_zone_pct" db:"avg_off_zone_pct"`
	SampleSize         int     `json:"sample_size" db:"sample_size"`
}

// usable reports whether every average is strictly positive. A zero
// average leaves the Motor Index ratios undefined.
func (a PositionAverage) usable() bool {
	return a.AvgBurstsPer60 > 0 &&
		a.AvgDistancePerGame > 0 &&
		a.AvgHitsPer60 > 0 &&
		a.AvgShotsPer60 > 0 &&
		a.AvgOffZonePct > 0
}

// PositionAverages maps a position to its averages. A position with no
// qualified players is absent, which downstream means "cannot normalize".
type PositionAverages map[Position]PositionAverage

// GroupRates partitions qualified samples by position and converts each to
// its rates. Unqualified samples are dropped, not averaged in as zero.
func GroupRates(samples []RawPlayerSample) map[Position][]Rates {
	groups := make(map[Position][]Rates)
	for _, s := range samples {
		if !s.Qualified() {
			continue
		}
		pos, _ := ParsePosition(string(s.Position))
		groups[pos] = append(groups[pos], s.Rates())
	}
	return groups
}

// ReducePositionAverages averages each group. Empty groups are skipped.
func ReducePositionAverages(groups map[Position][]Rates) PositionAverages {
	out := make(PositionAverages, len(groups))
	for pos, rates := range groups {
		n := len(rates)
		if n == 0 {
			continue
		}
		var sum Rates
		for _, r := range rates {
			sum.BurstsPer60 += r.BurstsPer60
			sum.DistancePerGame += r.DistancePerGame
			sum.HitsPer60 += r.HitsPer60
			sum.ShotsPer60 += r.ShotsPer60
			sum.OffZonePct += r.OffZonePct
		}
		fn := float64(n)
		out[pos] = PositionAverage{
			AvgBurstsPer60:     sum.BurstsPer60 / fn,
			AvgDistancePerGame: sum.DistancePerGame / fn,
			AvgHitsPer60:       sum.HitsPer60 / fn,
			AvgShotsPer60:      sum.ShotsPer60 / fn,
			AvgOffZonePct:      sum.OffZonePct / fn,
			SampleSize:         n,
		}
	}
	return out
}

// ComputePositionAverages builds the per-position reference table from the
// league sample.
func ComputePositionAverages(samples []RawPlayerSample) PositionAverages {
	return ReducePositionAverages(GroupRates(samples))
}
