package consistency

import (
	"math"
	"strconv"
	"strings"
)

// Defect thresholds for the numerical precision scan. A decimal
// representation longer than maxNumericChars, or one carrying a long run
// of zeros or nines, is a floating-point artifact (e.g. 74.999999999).
const (
	maxNumericChars  = 10
	artifactRunChars = 5
)

// formatScore renders a score the way it appears in reports
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// hasFloatArtifact reports whether the decimal representation betrays a
// floating-point rounding error
func hasFloatArtifact(v float64) bool {
	s := formatScore(v)

	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return false
	}

	if len(s) > maxNumericChars {
		return true
	}

	frac := s[dot+1:]
	return strings.Contains(frac, strings.Repeat("0", artifactRunChars)) ||
		strings.Contains(frac, strings.Repeat("9", artifactRunChars))
}

// hasExcessPrecision reports whether the value carries more than one
// fractional digit, which implies precision the underlying data cannot
// support
func hasExcessPrecision(v float64) bool {
	s := formatScore(v)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return false
	}
	return len(s)-dot-1 > 1
}

// roundTo1 rounds to one decimal place (fix for floating-point artifacts)
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// roundToInt rounds to the nearest integer (fix for excess precision)
func roundToInt(v float64) float64 {
	return math.Round(v)
}

// cleanScore repairs precision defects before a score is embedded in
// generated prose, so rewritten sentences never re-trigger the numeric scan
func cleanScore(v float64) float64 {
	switch {
	case hasFloatArtifact(v):
		return roundTo1(v)
	case hasExcessPrecision(v):
		return roundToInt(v)
	default:
		return v
	}
}
