package weather

import (
	"math"
	"strconv"
	"strings"
)

// ClampPercent bounds v to [0,100]. Non-finite input yields fallback.
func ClampPercent(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ParsePercent parses a percent string such as "42", " 42.5 " or "42%".
// Unparsable input yields fallback; parsed values are clamped.
func ParsePercent(s string, fallback float64) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return ClampPercent(v, fallback)
}

func toIntensity(v float64) float64 { return ClampPercent(v, 0) / 100 }
