package credibility

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/knakagawa/citylens/internal/model"
)

// nowFunc is the clock used for freshness computations (injectable for tests)
var nowFunc = time.Now

// Analyzer scores the trustworthiness of the data sources behind an
// analysis. Pure and stateless apart from the injected configuration, so
// concurrent calls need no locking.
type Analyzer struct {
	cfg *model.Config
}

// NewAnalyzer creates an analyzer with the given configuration
func NewAnalyzer(cfg *model.Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze scores the given sources for reliability, freshness, coverage
// and cross-validation, adjusted by the urban/non-urban heuristic on the
// address hint
func (a *Analyzer) Analyze(sources []model.DataSource, addressHint string) *model.CredibilityResult {
	now := nowFunc().UTC()

	if len(sources) == 0 {
		return &model.CredibilityResult{
			DataSources:          []model.DataSource{},
			LastValidated:        now,
			ReliabilityBreakdown: map[string]float64{},
			CrossValidation:      false,
			Recommendations:      []string{"データソースが特定できないため、分析結果の信頼性を評価できません"},
			Limitations:          []string{"データソースなし"},
		}
	}

	cred := a.cfg.Credibility

	// Per-source reliability and freshness
	rels := make([]float64, len(sources))
	freshScores := make([]float64, len(sources))
	for i, s := range sources {
		rels[i] = s.Reliability
		freshScores[i] = freshnessScore(daysSince(s.LastUpdated, now), cred.FreshnessHorizonDays)
	}
	meanRel, _ := stats.Mean(rels)
	freshness, _ := stats.Mean(freshScores)

	// Category reliability: mean reliability scaled by the category's
	// trust weight
	breakdown := a.categoryBreakdown(sources)

	// Overall reliability: weighted by category trust and freshness, so
	// stale or low-trust sources contribute less
	var weightedSum, weightTotal float64
	for _, s := range sources {
		w := a.categoryWeight(s.Category) *
			freshnessWeight(daysSince(s.LastUpdated, now), cred.FreshnessHorizonDays, cred.MinFreshnessWeight)
		weightedSum += s.Reliability * w
		weightTotal += w
	}
	overall := weightedSum / weightTotal

	categories := make(map[string]bool)
	for _, s := range sources {
		categories[s.Category] = true
	}
	crossValidation := len(categories) >= 2 && len(sources) >= cred.RequiredSources

	// Quality: 30% source-count adequacy, 50% mean reliability, 20% freshness
	countComponent := float64(len(sources)) / float64(cred.RequiredSources) * 30
	if countComponent > 30 {
		countComponent = 30
	}
	quality := countComponent + meanRel*0.5 + freshness*0.2

	var limitations []string
	if len(sources) == 1 {
		limitations = append(limitations, "単一ソースのため相互検証ができません")
	}

	// Geographic adjustment
	if !isUrban(addressHint, a.cfg.Geo) {
		overall = applyPenalty(overall, float64(a.cfg.Geo.ReliabilityPenalty), float64(a.cfg.Geo.PenaltyFloor))
		quality = applyPenalty(quality, float64(a.cfg.Geo.QualityPenalty), float64(a.cfg.Geo.PenaltyFloor))
		limitations = append(limitations, "都市部以外のため公的データのカバレッジが限定的です")
	}

	confidence := a.buildConfidence(freshness, meanRel, len(sources))

	sorted := make([]model.DataSource, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Reliability > sorted[j].Reliability
	})

	result := &model.CredibilityResult{
		DataSources:          sorted,
		OverallReliability:   clampRound(overall),
		QualityScore:         clampRound(quality),
		SourceCount:          len(sources),
		LastValidated:        now,
		ReliabilityBreakdown: breakdown,
		DataFreshness:        clampRound(freshness),
		CrossValidation:      crossValidation,
		Confidence:           confidence,
		Limitations:          limitations,
	}
	result.Recommendations = a.buildRecommendations(result)

	return result
}

// categoryBreakdown groups sources by category and scores each group
func (a *Analyzer) categoryBreakdown(sources []model.DataSource) map[string]float64 {
	grouped := make(map[string][]float64)
	for _, s := range sources {
		grouped[s.Category] = append(grouped[s.Category], s.Reliability)
	}

	breakdown := make(map[string]float64, len(grouped))
	for cat, rels := range grouped {
		mean, _ := stats.Mean(rels)
		breakdown[cat] = math.Round(mean*a.categoryWeight(cat)*10) / 10
	}
	return breakdown
}

// categoryWeight looks up the trust weight for a source category.
// Unrecognized categories get the "estimated" weight.
func (a *Analyzer) categoryWeight(category string) float64 {
	if w, ok := a.cfg.Credibility.CategoryWeights[category]; ok {
		return w
	}
	return a.cfg.Credibility.CategoryWeights["estimated"]
}

// buildConfidence composes overall confidence from recency, coverage and
// data-quality components
func (a *Analyzer) buildConfidence(freshness, meanRel float64, count int) model.Confidence {
	coverage := float64(count) / float64(a.cfg.Credibility.RequiredSources) * 100
	if coverage > 100 {
		coverage = 100
	}

	breakdown := model.ConfidenceBreakdown{
		Recency:     clampRound(freshness),
		Coverage:    clampRound(coverage),
		DataQuality: clampRound(meanRel),
	}

	return model.Confidence{
		Overall:   clampRound(0.3*freshness + 0.3*coverage + 0.4*meanRel),
		Breakdown: breakdown,
	}
}

// buildRecommendations applies the deterministic rule list
func (a *Analyzer) buildRecommendations(r *model.CredibilityResult) []string {
	cred := a.cfg.Credibility
	recommendations := []string{}

	if r.OverallReliability < cred.MinReliability {
		recommendations = append(recommendations,
			fmt.Sprintf("総合信頼性が基準 (%d) を下回っています。信頼性の高いデータソースの追加を検討してください", cred.MinReliability))
	}
	if r.SourceCount < cred.RequiredSources {
		recommendations = append(recommendations,
			fmt.Sprintf("データソースが不足しています (%d/%d)", r.SourceCount, cred.RequiredSources))
	}
	if !r.CrossValidation {
		recommendations = append(recommendations,
			"複数カテゴリのソースによるクロスバリデーションができていません")
	}
	if r.DataFreshness < 50 {
		recommendations = append(recommendations,
			"データの更新が古いため、最新データへの更新を推奨します")
	}

	cats := make([]string, 0, len(r.ReliabilityBreakdown))
	for cat := range r.ReliabilityBreakdown {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	for _, cat := range cats {
		if score := r.ReliabilityBreakdown[cat]; score < 60 {
			recommendations = append(recommendations,
				fmt.Sprintf("%s カテゴリの信頼性が低くなっています (%.0f)", cat, score))
		}
	}

	return recommendations
}

// applyPenalty subtracts penalty from v without taking it below floor.
// Values already at or below the floor are left untouched, so the
// adjustment can only lower a score, never raise it.
func applyPenalty(v, penalty, floor float64) float64 {
	if v <= floor {
		return v
	}
	return math.Max(floor, v-penalty)
}

func clampRound(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
