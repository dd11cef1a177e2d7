package scoring

import (
	"math"
	"sort"
)

// Ranker computes percentile ranks. EmptyDefault is returned when the
// reference population is empty; it is a product decision per score, not
// a constant of the algorithm.
type Ranker struct {
	EmptyDefault int
}

// Empty-population policies. An unranked Motor cohort reads as average,
// an unranked Hustle cohort as bottom.
var (
	MotorRanker  = Ranker{EmptyDefault: 50}
	HustleRanker = Ranker{EmptyDefault: 0}
)

// Percentile returns round(100 * count(v < value) / len(population)).
// Equal values do not count as below, so the population minimum ranks 0
// and the maximum ranks below 100 unless it is the only value.
//
// The population must be sorted ascending.
func (r Ranker) Percentile(value float64, sortedAscending []float64) int {
	n := len(sortedAscending)
	if n == 0 {
		return r.EmptyDefault
	}
	below := sort.SearchFloat64s(sortedAscending, value)
	return int(math.Round(float64(below) / float64(n) * 100))
}

// SortedCopy returns the population sorted ascending without touching the
// caller's slice.
func SortedCopy(population []float64) []float64 {
	out := make([]float64, len(population))
	copy(out, population)
	sort.Float64s(out)
	return out
}
