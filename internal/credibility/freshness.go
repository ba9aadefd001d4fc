package credibility

import "time"

// daysSince returns whole days elapsed since t, never negative
func daysSince(t, now time.Time) float64 {
	days := now.Sub(t).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}

// freshnessWeight decays linearly from 1.0 at zero age to the configured
// floor at or beyond the horizon. The floor keeps stale but authoritative
// sources from vanishing entirely from the weighted average.
func freshnessWeight(days float64, horizonDays int, floor float64) float64 {
	w := 1 - days/float64(horizonDays)
	if w < floor {
		return floor
	}
	return w
}

// freshnessScore maps age to a 0-100 score, clamped to 0 at or beyond the
// horizon
func freshnessScore(days float64, horizonDays int) float64 {
	s := 100 - days/float64(horizonDays)*100
	if s < 0 {
		return 0
	}
	return s
}
