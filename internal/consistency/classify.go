package consistency

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/knakagawa/citylens/internal/model"
)

// CategoryOther is assigned when no category keyword matches. Sentences in
// this bucket participate in no threshold check; that is accepted behavior,
// not an error.
const CategoryOther = "other"

// Classification is the result of classifying one sentence
type Classification struct {
	Sentiment model.Sentiment
	Category  string
}

// Classifier classifies prose sentences. The keyword implementation below
// is a deliberate simplification of an upstream NLP step; a model-backed
// classifier can be plugged in without touching the pipeline.
type Classifier interface {
	Classify(text string) Classification
}

// KeywordClassifier classifies sentences by keyword lookup
type KeywordClassifier struct {
	cfg *model.Config
}

// NewKeywordClassifier creates a classifier backed by the configured
// keyword tables
func NewKeywordClassifier(cfg *model.Config) *KeywordClassifier {
	return &KeywordClassifier{cfg: cfg}
}

// Classify determines sentiment by keyword majority vote (tie -> neutral)
// and category by first keyword match (none -> "other")
func (k *KeywordClassifier) Classify(text string) Classification {
	return Classification{
		Sentiment: k.sentiment(text),
		Category:  k.category(text),
	}
}

func (k *KeywordClassifier) sentiment(text string) model.Sentiment {
	positive := 0
	for _, w := range k.cfg.Keywords.Positive {
		if strings.Contains(text, w) {
			positive++
		}
	}

	negative := 0
	for _, w := range k.cfg.Keywords.Negative {
		if strings.Contains(text, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return model.SentimentPositive
	case negative > positive:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

func (k *KeywordClassifier) category(text string) string {
	// Iterate in fixed category order so classification is deterministic
	// even when a sentence mentions several categories
	for _, cat := range model.SemanticCategories {
		for _, w := range k.cfg.Keywords.Categories[cat] {
			if strings.Contains(text, w) {
				return cat
			}
		}
	}
	return CategoryOther
}

// scorePattern matches an embedded score: a number immediately followed by
// the points unit (e.g. "80点", "74.5点")
var scorePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*点`)

// ExtractScore pulls the first embedded score out of a sentence.
// Returns false if the sentence carries no score.
func ExtractScore(text string) (float64, bool) {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
