package consistency

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/knakagawa/citylens/internal/model"
)

// Checker detects and repairs internal contradictions in a raw analysis.
// It is a pure transformation: the input is never mutated, all fixes land
// in a private deep copy.
type Checker struct {
	cfg        *model.Config
	classifier Classifier
}

// NewChecker creates a checker with the default keyword classifier
func NewChecker(cfg *model.Config) *Checker {
	return NewCheckerWithClassifier(cfg, NewKeywordClassifier(cfg))
}

// NewCheckerWithClassifier creates a checker with a custom classifier
func NewCheckerWithClassifier(cfg *model.Config, classifier Classifier) *Checker {
	return &Checker{cfg: cfg, classifier: classifier}
}

// Check runs all consistency passes against the raw analysis. It never
// fails: malformed input degrades to empty collections and a lower
// quality score rather than an error.
func (ch *Checker) Check(raw *model.Analysis) *model.ConsistentResult {
	if raw == nil {
		raw = &model.Analysis{}
	}

	original := raw.Clone()
	original.Normalize()
	corrected := raw.Clone()
	corrected.Normalize()

	var contradictions []model.Contradiction

	// 1. Numerical precision scan
	contradictions = append(contradictions, ch.checkNumericPrecision(corrected)...)

	// 2. Score/comment consistency
	contradictions = append(contradictions, ch.checkScoreComments(corrected)...)

	// 3. Logical consistency (category in both strengths and weaknesses)
	logical, dropStrengths, dropWeaknesses := ch.checkLogicalConsistency(corrected)
	contradictions = append(contradictions, logical...)

	// 4. Threshold violations
	contradictions = append(contradictions, ch.checkThresholds(corrected)...)

	// 5. Correction application: substitutions first (paths reference
	// pre-removal indices), then the logical-clash removals
	improvements := ch.applyCorrections(corrected, contradictions)
	improvements = append(improvements, applyRemovals(corrected, dropStrengths, dropWeaknesses)...)

	return &model.ConsistentResult{
		Original:          original,
		Corrected:         corrected,
		Contradictions:    contradictions,
		QualityScore:      qualityScore(contradictions),
		Improvements:      improvements,
		ValidationResults: ch.buildValidationResults(corrected, contradictions),
	}
}

// checkNumericPrecision flags floating-point artifacts and unnecessary
// precision in category scores and in scores embedded in prose
func (ch *Checker) checkNumericPrecision(a *model.Analysis) []model.Contradiction {
	var out []model.Contradiction

	for _, cat := range sortedKeys(a.LifestyleScore) {
		v := a.LifestyleScore[cat]
		switch {
		case hasFloatArtifact(v):
			fixed := roundTo1(v)
			out = append(out, model.Contradiction{
				Type:        model.ContradictionNumericalPrecision,
				Severity:    model.SeverityMedium,
				Category:    cat,
				Description: fmt.Sprintf("%sのスコア %s に浮動小数点誤差があります", CategoryLabel(cat), formatScore(v)),
				Original:    formatScore(v),
				Suggested:   formatScore(fixed),
				Confidence:  95,
				Path:        "lifestyleScore." + cat,
			})
		case hasExcessPrecision(v):
			fixed := roundToInt(v)
			out = append(out, model.Contradiction{
				Type:        model.ContradictionNumericalPrecision,
				Severity:    model.SeverityLow,
				Category:    cat,
				Description: fmt.Sprintf("%sのスコア %s は過剰な精度を持っています", CategoryLabel(cat), formatScore(v)),
				Original:    formatScore(v),
				Suggested:   formatScore(fixed),
				Confidence:  90,
				Path:        "lifestyleScore." + cat,
			})
		}
	}

	out = append(out, ch.checkProseNumbers(a.DetailedAnalysis.Strengths, "strengths")...)
	out = append(out, ch.checkProseNumbers(a.DetailedAnalysis.Weaknesses, "weaknesses")...)

	return out
}

// checkProseNumbers scans sentences for embedded scores with precision
// defects and suggests the same sentence with the score repaired
func (ch *Checker) checkProseNumbers(sentences []string, field string) []model.Contradiction {
	var out []model.Contradiction

	for i, s := range sentences {
		v, ok := ExtractScore(s)
		if !ok {
			continue
		}

		var fixed float64
		var confidence int
		var severity model.ContradictionSeverity
		switch {
		case hasFloatArtifact(v):
			fixed = roundTo1(v)
			confidence = 95
			severity = model.SeverityMedium
		case hasExcessPrecision(v):
			fixed = roundToInt(v)
			confidence = 90
			severity = model.SeverityLow
		default:
			continue
		}

		repaired := strings.Replace(s, formatScore(v)+"点", formatScore(fixed)+"点", 1)
		if repaired == s {
			// Score text did not round-trip (e.g. "80.25 点" with spacing);
			// fall back to regex replacement of the first score token
			repaired = scorePattern.ReplaceAllString(s, formatScore(fixed)+"点")
		}

		out = append(out, model.Contradiction{
			Type:        model.ContradictionNumericalPrecision,
			Severity:    severity,
			Category:    ch.classifier.Classify(s).Category,
			Description: fmt.Sprintf("記述内のスコア %s に精度の問題があります", formatScore(v)),
			Original:    s,
			Suggested:   repaired,
			Confidence:  confidence,
			Path:        fmt.Sprintf("%s[%d]", field, i),
		})
	}

	return out
}

// checkScoreComments compares the sentiment of each strength sentence
// against the sentiment mandated by its embedded score's band
func (ch *Checker) checkScoreComments(a *model.Analysis) []model.Contradiction {
	var out []model.Contradiction

	for i, s := range a.DetailedAnalysis.Strengths {
		score, ok := ExtractScore(s)
		if !ok {
			continue
		}

		band := ch.cfg.FindThreshold(score)
		if band.Sentiment == model.SentimentNeutral {
			continue
		}

		cls := ch.classifier.Classify(s)
		if cls.Sentiment == model.SentimentNeutral || cls.Sentiment == band.Sentiment {
			continue
		}

		out = append(out, model.Contradiction{
			Type:     model.ContradictionScoreCommentMismatch,
			Severity: model.SeverityHigh,
			Category: cls.Category,
			Description: fmt.Sprintf("スコア %s は「%s」評価ですが、記述の論調が一致していません",
				formatScore(score), band.Label),
			Original:   s,
			Suggested:  GenerateComment(ch.cfg, cls.Category, cleanScore(score), ContextStrength),
			Confidence: 85,
			Path:       fmt.Sprintf("strengths[%d]", i),
		})
	}

	return out
}

// checkLogicalConsistency finds categories praised in strengths and
// criticized in weaknesses at the same time, and decides which side to
// keep. The conservative default keeps the weakness when neither sentence
// carries a score.
func (ch *Checker) checkLogicalConsistency(a *model.Analysis) (out []model.Contradiction, dropStrengths, dropWeaknesses map[int]bool) {
	dropStrengths = make(map[int]bool)
	dropWeaknesses = make(map[int]bool)

	for i, s := range a.DetailedAnalysis.Strengths {
		catS := ch.classifier.Classify(s).Category
		if catS == CategoryOther {
			continue
		}

		for j, w := range a.DetailedAnalysis.Weaknesses {
			if ch.classifier.Classify(w).Category != catS {
				continue
			}

			sScore, sOk := ExtractScore(s)
			_, wOk := ExtractScore(w)
			keepStrength := (sOk && !wOk) || (sOk && sScore >= 60)

			dropped := w
			droppedPath := fmt.Sprintf("weaknesses[%d]", j)
			if keepStrength {
				dropWeaknesses[j] = true
			} else {
				dropStrengths[i] = true
				dropped = s
				droppedPath = fmt.Sprintf("strengths[%d]", i)
			}

			out = append(out, model.Contradiction{
				Type:     model.ContradictionLogicalInconsistency,
				Severity: model.SeverityCritical,
				Category: catS,
				Description: fmt.Sprintf("%sが強みと弱みの両方に挙げられています",
					CategoryLabel(catS)),
				Original:   dropped,
				Suggested:  "",
				Confidence: 90,
				Path:       droppedPath,
			})
		}
	}

	return out, dropStrengths, dropWeaknesses
}

// checkThresholds compares every category score's mandated sentiment
// against all prose mentioning that category
func (ch *Checker) checkThresholds(a *model.Analysis) []model.Contradiction {
	var out []model.Contradiction

	for _, cat := range sortedKeys(a.LifestyleScore) {
		score := a.LifestyleScore[cat]
		band := ch.cfg.FindThreshold(score)
		if band.Sentiment == model.SentimentNeutral {
			continue
		}

		check := func(sentences []string, field string) {
			for i, s := range sentences {
				cls := ch.classifier.Classify(s)
				if cls.Category != cat {
					continue
				}
				if cls.Sentiment == model.SentimentNeutral || cls.Sentiment == band.Sentiment {
					continue
				}
				out = append(out, model.Contradiction{
					Type:     model.ContradictionThresholdViolation,
					Severity: model.SeverityHigh,
					Category: cat,
					Description: fmt.Sprintf("%sのスコア %s (%s) と記述の論調が矛盾しています",
						CategoryLabel(cat), formatScore(score), band.Label),
					Original:   s,
					Suggested:  GenerateComment(ch.cfg, cat, cleanScore(score), contextFor(field)),
					Confidence: 80,
					Path:       fmt.Sprintf("%s[%d]", field, i),
				})
			}
		}

		check(a.DetailedAnalysis.Strengths, "strengths")
		check(a.DetailedAnalysis.Weaknesses, "weaknesses")
	}

	return out
}

func contextFor(field string) TemplateContext {
	if field == "weaknesses" {
		return ContextWeakness
	}
	return ContextStrength
}

// applyCorrections substitutes suggested values for originals inside the
// corrected copy. Only auto-appliable contradictions qualify; everything
// else is reported but left untouched.
func (ch *Checker) applyCorrections(a *model.Analysis, contradictions []model.Contradiction) []string {
	var improvements []string

	for _, c := range contradictions {
		if !c.AutoAppliable() {
			continue
		}

		switch {
		case strings.HasPrefix(c.Path, "lifestyleScore."):
			cat := strings.TrimPrefix(c.Path, "lifestyleScore.")
			v, err := strconv.ParseFloat(c.Suggested, 64)
			if err != nil {
				continue
			}
			a.LifestyleScore[cat] = v
			improvements = append(improvements,
				fmt.Sprintf("%sのスコアを %s から %s に修正しました", CategoryLabel(cat), c.Original, c.Suggested))

		default:
			field, idx, ok := parseProsePath(c.Path)
			if !ok {
				continue
			}
			sentences := proseField(a, field)
			if idx < 0 || idx >= len(sentences) {
				continue
			}
			sentences[idx] = c.Suggested
			improvements = append(improvements,
				fmt.Sprintf("記述を修正しました: %s", c.Suggested))
		}
	}

	return improvements
}

// applyRemovals drops the losing side of each logical clash and reports
// what was removed
func applyRemovals(a *model.Analysis, dropStrengths, dropWeaknesses map[int]bool) []string {
	var improvements []string

	if len(dropStrengths) > 0 {
		kept := a.DetailedAnalysis.Strengths[:0]
		for i, s := range a.DetailedAnalysis.Strengths {
			if dropStrengths[i] {
				improvements = append(improvements, fmt.Sprintf("矛盾する強みを削除しました: %s", s))
				continue
			}
			kept = append(kept, s)
		}
		a.DetailedAnalysis.Strengths = kept
	}

	if len(dropWeaknesses) > 0 {
		kept := a.DetailedAnalysis.Weaknesses[:0]
		for i, w := range a.DetailedAnalysis.Weaknesses {
			if dropWeaknesses[i] {
				improvements = append(improvements, fmt.Sprintf("矛盾する弱みを削除しました: %s", w))
				continue
			}
			kept = append(kept, w)
		}
		a.DetailedAnalysis.Weaknesses = kept
	}

	return improvements
}

// qualityScore derives the 0-100 quality score from severity weights
func qualityScore(contradictions []model.Contradiction) int {
	score := 100
	for _, c := range contradictions {
		score -= c.Severity.Weight()
	}
	if score < 0 {
		score = 0
	}
	return score
}

// buildValidationResults summarizes findings per semantic category
func (ch *Checker) buildValidationResults(a *model.Analysis, contradictions []model.Contradiction) []model.ValidationResult {
	results := make([]model.ValidationResult, 0, len(model.SemanticCategories))

	for _, cat := range model.SemanticCategories {
		score := a.LifestyleScore[cat]

		issues := []string{}
		for _, c := range contradictions {
			if c.Category == cat {
				issues = append(issues, c.Description)
			}
		}

		recommendations := []string{}
		if len(issues) > 0 {
			recommendations = append(recommendations, "検出された矛盾の修正内容を確認してください")
		}
		if score > 0 && score < 60 {
			recommendations = append(recommendations,
				fmt.Sprintf("%sのスコアが低いため、根拠データの再確認を推奨します", CategoryLabel(cat)))
		}

		results = append(results, model.ValidationResult{
			Category:        cat,
			Passed:          len(issues) == 0,
			Score:           score,
			Issues:          issues,
			Recommendations: recommendations,
		})
	}

	return results
}

func parseProsePath(path string) (field string, idx int, ok bool) {
	open := strings.IndexByte(path, '[')
	if open < 0 || !strings.HasSuffix(path, "]") {
		return "", 0, false
	}
	field = path[:open]
	if field != "strengths" && field != "weaknesses" {
		return "", 0, false
	}
	n, err := strconv.Atoi(path[open+1 : len(path)-1])
	if err != nil {
		return "", 0, false
	}
	return field, n, true
}

func proseField(a *model.Analysis, field string) []string {
	if field == "weaknesses" {
		return a.DetailedAnalysis.Weaknesses
	}
	return a.DetailedAnalysis.Strengths
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
