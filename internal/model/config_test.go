package model

import "testing"

func TestDefaultConfig_ThresholdTotality(t *testing.T) {
	cfg := DefaultConfig()

	// Every integer score in [0,100] must match exactly one band
	for score := 0; score <= 100; score++ {
		matches := 0
		for _, th := range cfg.Thresholds {
			if th.Contains(float64(score)) {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("score %d matched %d bands, want exactly 1", score, matches)
		}
	}
}

func TestConfig_FindThreshold(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		score float64
		label string
	}{
		{100, "excellent"},
		{85, "excellent"},
		{84, "good"},
		{70, "good"},
		{65, "adequate"},
		{55, "somewhat-lacking"},
		{47, "lacking"},
		{44, "severely-lacking"},
		{0, "severely-lacking"},
	}

	for _, c := range cases {
		got := cfg.FindThreshold(c.score)
		if got.Label != c.label {
			t.Errorf("FindThreshold(%v) = %q, want %q", c.score, got.Label, c.label)
		}
	}
}

func TestConfig_FindThreshold_OutOfRange(t *testing.T) {
	cfg := DefaultConfig()

	// Out-of-range scores must not panic and must fall back to a valid band
	if got := cfg.FindThreshold(-5); got.Label != "severely-lacking" {
		t.Errorf("FindThreshold(-5) = %q, want severely-lacking", got.Label)
	}
	if got := cfg.FindThreshold(120); got.Label != "excellent" {
		t.Errorf("FindThreshold(120) = %q, want excellent", got.Label)
	}

	// Non-integer scores between bands resolve via rounding
	if got := cfg.FindThreshold(69.6); got.Label != "good" {
		t.Errorf("FindThreshold(69.6) = %q, want good", got.Label)
	}
}

func TestAnalysis_CloneIsDeep(t *testing.T) {
	a := &Analysis{
		LifestyleScore: map[string]float64{"education": 80},
		DetailedAnalysis: DetailedAnalysis{
			Strengths:  []string{"教育80点で充実しています"},
			Weaknesses: []string{"医療45点で不足しています"},
		},
		Swot: &Swot{Strengths: []string{"学区が良い"}},
	}

	clone := a.Clone()
	clone.LifestyleScore["education"] = 10
	clone.DetailedAnalysis.Strengths[0] = "changed"
	clone.Swot.Strengths[0] = "changed"

	if a.LifestyleScore["education"] != 80 {
		t.Error("clone aliases the score map")
	}
	if a.DetailedAnalysis.Strengths[0] == "changed" {
		t.Error("clone aliases the strengths slice")
	}
	if a.Swot.Strengths[0] == "changed" {
		t.Error("clone aliases the SWOT slices")
	}
}

func TestContradiction_AutoAppliable(t *testing.T) {
	cases := []struct {
		typ        ContradictionType
		confidence int
		want       bool
	}{
		{ContradictionNumericalPrecision, 95, true},
		{ContradictionScoreCommentMismatch, 85, true},
		{ContradictionScoreCommentMismatch, 84, false},
		{ContradictionLogicalInconsistency, 90, false},
		{ContradictionThresholdViolation, 95, false},
	}

	for _, c := range cases {
		got := Contradiction{Type: c.typ, Confidence: c.confidence}.AutoAppliable()
		if got != c.want {
			t.Errorf("AutoAppliable(%s, %d) = %v, want %v", c.typ, c.confidence, got, c.want)
		}
	}
}
