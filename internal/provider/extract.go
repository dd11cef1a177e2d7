package provider

import (
	"math"
	"strconv"
)

// ExtractValue normalizes a stat value from the NHL API response formats.
//
// The stats REST endpoints return flat numbers. The Edge endpoints wrap
// most values in objects like {"imperial": 22.9, "metric": 36.8,
// "percentile": 0.91} or {"value": 311, "percentile": 0.88}. This handles
// both, extracting the primary scalar.
//
// Returns the scalar float64 value, and ok=false if not extractable.
func ExtractValue(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
		return 0, false
	case map[string]interface{}:
		for _, key := range []string{"value", "imperial", "total", "default"} {
			if inner, exists := v[key]; exists && inner != nil {
				return ExtractValue(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// Float returns the extracted value or 0. Missing stats count as zero.
func Float(val interface{}) float64 {
	f, _ := ExtractValue(val)
	return f
}

// Int returns the extracted value rounded to an int, or 0.
func Int(val interface{}) int {
	f, _ := ExtractValue(val)
	return int(math.Round(f))
}

// FloatPtr returns nil when the value is missing.
func FloatPtr(val interface{}) *float64 {
	f, ok := ExtractValue(val)
	if !ok {
		return nil
	}
	return &f
}

// IntPtr returns nil when the value is missing.
func IntPtr(val interface{}) *int {
	f, ok := ExtractValue(val)
	if !ok {
		return nil
	}
	n := int(math.Round(f))
	return &n
}

// ToPercentile converts a 0-1 provider percentile to an int 0-100.
func ToPercentile(val interface{}) *int {
	f, ok := ExtractValue(val)
	if !ok {
		return nil
	}
	n := int(math.Round(f * 100))
	return &n
}

// Pct converts a 0-1 share to a percentage rounded to one decimal. A zero
// or missing share is reported as missing.
func Pct(val interface{}) *float64 {
	f, ok := ExtractValue(val)
	if !ok || f == 0 {
		return nil
	}
	p := math.Round(f*1000) / 10
	return &p
}

// String returns a string value, or "" when missing or not a string.
func String(val interface{}) string {
	s, _ := val.(string)
	return s
}
