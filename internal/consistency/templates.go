package consistency

import (
	"fmt"

	"github.com/knakagawa/citylens/internal/model"
)

// TemplateContext selects the phrasing variant for a generated sentence
type TemplateContext int

const (
	ContextStrength TemplateContext = iota
	ContextWeakness
)

// categoryLabels maps semantic categories to their display names
var categoryLabels = map[string]string{
	"transport":   "交通",
	"shopping":    "買い物",
	"medical":     "医療",
	"education":   "教育",
	"environment": "環境",
	"safety":      "治安",
	CategoryOther: "総合",
}

// bandPhrases maps band labels to the core assessment phrase. Each phrase
// deliberately contains a keyword of the matching sentiment so regenerated
// sentences classify consistently with their own score band.
var bandPhrases = map[string]string{
	"excellent":        "非常に優れています",
	"good":             "良好な水準です",
	"adequate":         "標準的な水準です",
	"somewhat-lacking": "やや物足りない水準です",
	"lacking":          "不足しています",
	"severely-lacking": "大きな課題があります",
}

// CategoryLabel returns the display name for a semantic category
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}

// GenerateComment produces a sentence describing a category score, phrased
// to agree with the score's band. Used both for contradiction fixes and for
// regenerating prose during report merge.
func GenerateComment(cfg *model.Config, category string, score float64, context TemplateContext) string {
	band := cfg.FindThreshold(score)

	phrase, ok := bandPhrases[band.Label]
	if !ok {
		phrase = bandPhrases["adequate"]
	}

	sentence := fmt.Sprintf("%sは%s点で%s", CategoryLabel(category), formatScore(score), phrase)

	if context == ContextWeakness && band.Sentiment == model.SentimentNegative {
		sentence += "、改善が望まれます"
	}

	return sentence
}
