package scoring

// ComputeLeagueMaxima takes the running maximum of bursts/60, distance per
// game and hits/60 over players with at least MinGamesPlayed games and some
// ice time. Position is not consulted; the Hustle Score is league-wide.
//
// A metric with no observations stays 0. HustleScore substitutes 1 for it.
func ComputeLeagueMaxima(samples []RawPlayerSample) LeagueMaxima {
	var m LeagueMaxima
	for _, s := range samples {
		if s.GamesPlayed < MinGamesPlayed || s.AvgTOI <= 0 {
			continue
		}
		minutes := s.MinutesPlayed()
		m.MaxBurstsPer60 = max(m.MaxBurstsPer60, Per60(s.Bursts20Plus, minutes))
		m.MaxDistance = max(m.MaxDistance, s.DistancePerGameMiles)
		m.MaxHitsPer60 = max(m.MaxHitsPer60, Per60(s.Hits, minutes))
	}
	return m
}
