package credibility

import (
	"testing"
	"time"

	"github.com/knakagawa/citylens/internal/model"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func withFixedClock(t *testing.T) {
	t.Helper()
	nowFunc = func() time.Time { return testNow }
	t.Cleanup(func() { nowFunc = time.Now })
}

func source(name, category string, reliability float64, ageDays int) model.DataSource {
	return model.DataSource{
		Name:        name,
		Category:    category,
		Reliability: reliability,
		LastUpdated: testNow.AddDate(0, 0, -ageDays),
	}
}

func TestAnalyzer_Analyze_EmptySources(t *testing.T) {
	withFixedClock(t)
	analyzer := NewAnalyzer(model.DefaultConfig())

	result := analyzer.Analyze(nil, "東京都新宿区")

	if result.OverallReliability != 0 || result.QualityScore != 0 || result.DataFreshness != 0 {
		t.Errorf("expected all-zero result, got %+v", result)
	}
	if result.CrossValidation {
		t.Error("expected crossValidation=false for empty sources")
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected a recommendation for empty sources")
	}
}

func TestAnalyzer_Analyze_StaleSourceFloor(t *testing.T) {
	withFixedClock(t)
	cfg := model.DefaultConfig()
	analyzer := NewAnalyzer(cfg)

	// 400 days past a 365-day horizon: freshness score 0, weight floored
	stale := []model.DataSource{source("古い統計", "government_statistics", 90, 400)}
	result := analyzer.Analyze(stale, "東京都港区")

	if result.DataFreshness != 0 {
		t.Errorf("expected freshness 0 for 400-day-old source, got %d", result.DataFreshness)
	}

	days := daysSince(stale[0].LastUpdated, testNow)
	w := freshnessWeight(days, cfg.Credibility.FreshnessHorizonDays, cfg.Credibility.MinFreshnessWeight)
	if w != cfg.Credibility.MinFreshnessWeight {
		t.Errorf("expected freshness weight floored at %v, got %v", cfg.Credibility.MinFreshnessWeight, w)
	}

	// A single source with uniform weight still averages to its own
	// reliability
	if result.OverallReliability != 90 {
		t.Errorf("expected overall reliability 90, got %d", result.OverallReliability)
	}
}

func TestFreshness_Monotonicity(t *testing.T) {
	cfg := model.DefaultConfig()

	prevScore := 101.0
	prevWeight := 1.1
	for days := 0; days <= 800; days += 25 {
		s := freshnessScore(float64(days), cfg.Credibility.FreshnessHorizonDays)
		w := freshnessWeight(float64(days), cfg.Credibility.FreshnessHorizonDays, cfg.Credibility.MinFreshnessWeight)

		if s > prevScore {
			t.Errorf("freshness score increased at %d days: %v > %v", days, s, prevScore)
		}
		if w > prevWeight {
			t.Errorf("freshness weight increased at %d days: %v > %v", days, w, prevWeight)
		}
		if days >= cfg.Credibility.FreshnessHorizonDays && s != 0 {
			t.Errorf("expected score 0 at %d days, got %v", days, s)
		}
		if w < cfg.Credibility.MinFreshnessWeight {
			t.Errorf("weight below floor at %d days: %v", days, w)
		}
		prevScore, prevWeight = s, w
	}
}

func TestAnalyzer_Analyze_CrossValidationGate(t *testing.T) {
	withFixedClock(t)
	analyzer := NewAnalyzer(model.DefaultConfig())

	cases := []struct {
		name    string
		sources []model.DataSource
		want    bool
	}{
		{
			name: "two categories but only two sources",
			sources: []model.DataSource{
				source("a", "government_statistics", 90, 30),
				source("b", "commercial_api", 80, 30),
			},
			want: false,
		},
		{
			name: "five sources but one category",
			sources: []model.DataSource{
				source("a", "open_data", 70, 30),
				source("b", "open_data", 70, 30),
				source("c", "open_data", 70, 30),
				source("d", "open_data", 70, 30),
				source("e", "open_data", 70, 30),
			},
			want: false,
		},
		{
			name: "two categories and three sources",
			sources: []model.DataSource{
				source("a", "government_statistics", 90, 30),
				source("b", "government_statistics", 85, 30),
				source("c", "commercial_api", 80, 30),
			},
			want: true,
		},
	}

	for _, c := range cases {
		result := analyzer.Analyze(c.sources, "東京都中央区")
		if result.CrossValidation != c.want {
			t.Errorf("%s: crossValidation = %v, want %v", c.name, result.CrossValidation, c.want)
		}
	}
}

func TestAnalyzer_Analyze_GeographicAdjustment(t *testing.T) {
	withFixedClock(t)
	analyzer := NewAnalyzer(model.DefaultConfig())

	sources := []model.DataSource{
		source("a", "government_statistics", 92, 30),
		source("b", "commercial_api", 85, 10),
		source("c", "open_data", 78, 60),
	}

	urban := analyzer.Analyze(sources, "東京都世田谷区")
	rural := analyzer.Analyze(sources, "山間部の集落")

	if urban.OverallReliability <= rural.OverallReliability {
		t.Errorf("urban reliability (%d) should exceed rural (%d)",
			urban.OverallReliability, rural.OverallReliability)
	}
	if urban.QualityScore <= rural.QualityScore {
		t.Errorf("urban quality (%d) should exceed rural (%d)",
			urban.QualityScore, rural.QualityScore)
	}

	foundNote := false
	for _, l := range rural.Limitations {
		if l == "都市部以外のため公的データのカバレッジが限定的です" {
			foundNote = true
		}
	}
	if !foundNote {
		t.Error("expected coverage limitation for non-urban address")
	}
	for _, l := range urban.Limitations {
		if l == "都市部以外のため公的データのカバレッジが限定的です" {
			t.Error("urban address should not carry the coverage limitation")
		}
	}
}

func TestAnalyzer_Analyze_PenaltyFloorDoesNotRaiseLowScores(t *testing.T) {
	withFixedClock(t)
	analyzer := NewAnalyzer(model.DefaultConfig())

	// A single estimated source sits below the penalty floor already;
	// the geographic adjustment must not pull it up to the floor.
	sources := []model.DataSource{
		source("fallback", "estimated", 40, 10),
	}

	urban := analyzer.Analyze(sources, "東京都中央区")
	rural := analyzer.Analyze(sources, "山間部の集落")

	if rural.OverallReliability > urban.OverallReliability {
		t.Errorf("rural reliability (%d) must not exceed urban (%d)",
			rural.OverallReliability, urban.OverallReliability)
	}
	if rural.OverallReliability != urban.OverallReliability {
		t.Errorf("sub-floor reliability should pass through unchanged: rural = %d, urban = %d",
			rural.OverallReliability, urban.OverallReliability)
	}
	if rural.QualityScore > urban.QualityScore {
		t.Errorf("rural quality (%d) must not exceed urban (%d)",
			rural.QualityScore, urban.QualityScore)
	}
}

func TestAnalyzer_Analyze_SourcesSortedByReliability(t *testing.T) {
	withFixedClock(t)
	analyzer := NewAnalyzer(model.DefaultConfig())

	sources := []model.DataSource{
		source("low", "crowd_sourced", 40, 10),
		source("high", "government_statistics", 95, 10),
		source("mid", "open_data", 70, 10),
	}

	result := analyzer.Analyze(sources, "大阪市北区")

	for i := 1; i < len(result.DataSources); i++ {
		if result.DataSources[i-1].Reliability < result.DataSources[i].Reliability {
			t.Errorf("sources not sorted descending: %v", result.DataSources)
		}
	}

	// The input slice order must be preserved
	if sources[0].Name != "low" {
		t.Error("input slice reordered by Analyze")
	}
}

func TestAnalyzer_Analyze_Recommendations(t *testing.T) {
	withFixedClock(t)
	analyzer := NewAnalyzer(model.DefaultConfig())

	// One stale, low-trust source trips every rule
	result := analyzer.Analyze([]model.DataSource{
		source("口コミ", "crowd_sourced", 45, 500),
	}, "東京都台東区")

	if len(result.Recommendations) < 4 {
		t.Errorf("expected recommendations for reliability, count, cross-validation and freshness, got %v",
			result.Recommendations)
	}
}

func TestAnalyzer_Analyze_QualityComposition(t *testing.T) {
	withFixedClock(t)
	analyzer := NewAnalyzer(model.DefaultConfig())

	// Three fresh, fully reliable sources: 30 (count) + 50 (reliability)
	// + 20 (freshness) = 100
	sources := []model.DataSource{
		source("a", "government_statistics", 100, 0),
		source("b", "government_statistics", 100, 0),
		source("c", "official_api", 100, 0),
	}

	result := analyzer.Analyze(sources, "東京都千代田区")
	if result.QualityScore != 100 {
		t.Errorf("expected quality 100, got %d", result.QualityScore)
	}
	if result.Confidence.Overall != 100 {
		t.Errorf("expected confidence 100, got %d", result.Confidence.Overall)
	}
}
