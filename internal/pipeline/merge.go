package pipeline

import (
	"fmt"
	"math"

	"github.com/knakagawa/citylens/internal/consistency"
	"github.com/knakagawa/citylens/internal/model"
)

// Prediction confidence bounds per horizon: near-term outlooks inherit
// credibility with a bonus, far-term ones decay toward a floor.
const (
	oneYearBonus   = 10
	oneYearCap     = 90
	threeYearMalus = 10
	threeYearFloor = 40
	fiveYearMalus  = 30
	fiveYearFloor  = 20
)

// Strengths whose confidence-adjusted score falls below this are demoted
const strengthMinScore = 65

// Merger combines a consistency result and a credibility result into the
// final quality-annotated report
type Merger struct {
	cfg        *model.Config
	classifier consistency.Classifier
}

// NewMerger creates a merger using the default keyword classifier
func NewMerger(cfg *model.Config) *Merger {
	return &Merger{
		cfg:        cfg,
		classifier: consistency.NewKeywordClassifier(cfg),
	}
}

// Merge builds the final report. Scores are re-quantized by overall
// confidence so low-confidence figures do not imply false precision, and
// prose is regenerated from score+category with confidence qualifiers.
func (m *Merger) Merge(cons *model.ConsistentResult, cred *model.CredibilityResult) *model.FinalReport {
	confidence := cred.Confidence.Overall
	step := quantizeStep(confidence)
	qualifier := confidenceQualifier(confidence)

	scores := make(map[string]float64, len(cons.Corrected.LifestyleScore))
	for cat, v := range cons.Corrected.LifestyleScore {
		scores[cat] = quantize(v, step)
	}

	strengths, demoted := m.rebuildStrengths(cons.Corrected.DetailedAnalysis.Strengths, scores, step, qualifier)
	weaknesses := m.rebuildWeaknesses(cons.Corrected.DetailedAnalysis.Weaknesses, scores, step, qualifier)
	weaknesses = appendUnique(weaknesses, demoted)

	report := &model.FinalReport{
		LifestyleScore: scores,
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		FuturePredict:  m.buildPredictions(cons.Corrected.FuturePredict, cred.OverallReliability),
		Swot:           m.buildSwot(cons.Corrected.Swot, cred.QualityScore, qualifier),
		DataSources:    cred.DataSources,
		QualityMetrics: model.QualityMetrics{
			ConsistencyScore: cons.QualityScore,
			CredibilityScore: cred.OverallReliability,
			OverallQuality:   overallQuality(cred.OverallReliability, cons.QualityScore),
			Improvements:     cons.Improvements,
			Limitations:      cred.Limitations,
		},
	}

	return report
}

// rebuildStrengths regenerates strength prose from score+category.
// Sentences whose adjusted score dropped below the strength bar come back
// in the demoted list, phrased as weaknesses.
func (m *Merger) rebuildStrengths(sentences []string, scores map[string]float64, step float64, qualifier string) (strengths, demoted []string) {
	strengths = []string{}

	for _, s := range sentences {
		cat, score, ok := m.resolveScore(s, scores, step)
		if !ok {
			// No score to judge by: keep the sentence, annotated
			strengths = append(strengths, s+" "+qualifier)
			continue
		}

		if score < strengthMinScore {
			demoted = append(demoted,
				consistency.GenerateComment(m.cfg, cat, score, consistency.ContextWeakness)+" "+qualifier)
			continue
		}

		strengths = append(strengths,
			consistency.GenerateComment(m.cfg, cat, score, consistency.ContextStrength)+" "+qualifier)
	}

	return strengths, demoted
}

// rebuildWeaknesses regenerates weakness prose the same way; weaknesses
// are never promoted
func (m *Merger) rebuildWeaknesses(sentences []string, scores map[string]float64, step float64, qualifier string) []string {
	weaknesses := []string{}

	for _, s := range sentences {
		cat, score, ok := m.resolveScore(s, scores, step)
		if !ok {
			weaknesses = append(weaknesses, s+" "+qualifier)
			continue
		}
		weaknesses = append(weaknesses,
			consistency.GenerateComment(m.cfg, cat, score, consistency.ContextWeakness)+" "+qualifier)
	}

	return weaknesses
}

// resolveScore finds the authoritative score for a sentence: the adjusted
// category score if the sentence's category is known, otherwise the
// sentence's own embedded score, quantized the same way
func (m *Merger) resolveScore(sentence string, scores map[string]float64, step float64) (string, float64, bool) {
	cat := m.classifier.Classify(sentence).Category

	if score, ok := scores[cat]; ok {
		return cat, score, true
	}
	if score, ok := consistency.ExtractScore(sentence); ok {
		return cat, quantize(score, step), true
	}
	return cat, 0, false
}

// buildPredictions derives per-horizon confidence from overall credibility
func (m *Merger) buildPredictions(fp *model.FuturePredict, credibility int) *model.FuturePredict {
	out := &model.FuturePredict{
		OneYear:   model.Prediction{Text: "大きな変化は見込まれません"},
		ThreeYear: model.Prediction{Text: "周辺開発により変化する可能性があります"},
		FiveYear:  model.Prediction{Text: "長期的な人口動態の影響を受ける可能性があります"},
	}
	if fp != nil {
		if fp.OneYear.Text != "" {
			out.OneYear.Text = fp.OneYear.Text
		}
		if fp.ThreeYear.Text != "" {
			out.ThreeYear.Text = fp.ThreeYear.Text
		}
		if fp.FiveYear.Text != "" {
			out.FiveYear.Text = fp.FiveYear.Text
		}
	}

	out.OneYear.Confidence = capInt(credibility+oneYearBonus, oneYearCap)
	out.ThreeYear.Confidence = floorInt(credibility-threeYearMalus, threeYearFloor)
	out.FiveYear.Confidence = floorInt(credibility-fiveYearMalus, fiveYearFloor)

	return out
}

// buildSwot annotates SWOT items with the confidence qualifier and
// synthesizes extra entries at data-quality thresholds
func (m *Merger) buildSwot(swot *model.Swot, dataQuality int, qualifier string) *model.Swot {
	out := &model.Swot{
		Strengths:     annotate(swotItems(swot, func(s *model.Swot) []string { return s.Strengths }), qualifier),
		Weaknesses:    annotate(swotItems(swot, func(s *model.Swot) []string { return s.Weaknesses }), qualifier),
		Opportunities: annotate(swotItems(swot, func(s *model.Swot) []string { return s.Opportunities }), qualifier),
		Threats:       annotate(swotItems(swot, func(s *model.Swot) []string { return s.Threats }), qualifier),
	}

	if dataQuality >= 80 {
		out.Opportunities = append(out.Opportunities,
			"高品質なデータに基づく分析のため、詳細な意思決定に活用できます")
	}
	if dataQuality < 70 {
		out.Threats = append(out.Threats,
			"データ品質が限定的なため、評価が実態と乖離するリスクがあります")
	}

	return out
}

// overallQuality merges the two quality figures: credibility carries more
// weight than internal consistency
func overallQuality(credibility, consistencyScore int) int {
	return int(math.Round(float64(credibility)*0.6 + float64(consistencyScore)*0.4))
}

// quantizeStep maps overall confidence to a rounding granularity.
// Zero means no rounding.
func quantizeStep(confidence int) float64 {
	switch {
	case confidence < 50:
		return 10
	case confidence < 70:
		return 5
	default:
		return 0
	}
}

func quantize(v, step float64) float64 {
	if step == 0 {
		return v
	}
	return math.Round(v/step) * step
}

func confidenceQualifier(confidence int) string {
	switch {
	case confidence >= 80:
		return "(信頼度: 高)"
	case confidence >= 60:
		return "(信頼度: 中)"
	default:
		return "(信頼度: 低)"
	}
}

func swotItems(s *model.Swot, pick func(*model.Swot) []string) []string {
	if s == nil {
		return nil
	}
	return pick(s)
}

func annotate(items []string, qualifier string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%s %s", item, qualifier)
	}
	return out
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}

func capInt(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func floorInt(v, min int) int {
	if v < min {
		return min
	}
	return v
}
