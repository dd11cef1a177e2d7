package scoring

import (
	"encoding/json"
	"math"
	"strconv"
)

// Score is a composite score that is either present or withheld for lack
// of data. The zero value is InsufficientData.
type Score struct {
	value   float64
	present bool
}

// Present wraps a computed score.
func Present(v float64) Score { return Score{value: v, present: true} }

// InsufficientData is the absent score. It must never be read as zero.
func InsufficientData() Score { return Score{} }

// Value returns the score and whether it is present.
func (s Score) Value() (float64, bool) { return s.value, s.present }

// IsPresent reports whether a score was computed.
func (s Score) IsPresent() bool { return s.present }

// Ptr returns nil for InsufficientData, for storage layers that map absence
// to NULL.
func (s Score) Ptr() *float64 {
	if !s.present {
		return nil
	}
	v := s.value
	return &v
}

func (s Score) String() string {
	if !s.present {
		return "insufficient data"
	}
	return strconv.FormatFloat(s.value, 'f', -1, 64)
}

// MarshalJSON encodes absent scores as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.present {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes null as InsufficientData.
func (s *Score) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*s = InsufficientData()
		return nil
	}
	*s = Present(*v)
	return nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
