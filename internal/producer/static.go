package producer

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/knakagawa/citylens/internal/model"
)

// StaticProducer is the built-in deterministic scorer. It derives category
// scores from a hash of the address, so the same address always yields the
// same analysis. Used for offline operation and as the test producer.
type StaticProducer struct{}

// NewStaticProducer creates the deterministic producer
func NewStaticProducer() *StaticProducer {
	return &StaticProducer{}
}

// Name returns the producer name
func (p *StaticProducer) Name() string {
	return "static"
}

// Produce generates a deterministic analysis for the address
func (p *StaticProducer) Produce(ctx context.Context, req Request) (*model.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(model.SemanticCategories))
	for _, cat := range model.SemanticCategories {
		scores[cat] = scoreFor(req.Address, cat)
	}

	analysis := &model.Analysis{
		Address:        req.Address,
		LifestyleScore: scores,
		Capabilities: model.Capabilities{
			UsedGovernmentStats: true,
			UsedPlacesAPI:       true,
			UsedTransitData:     true,
		},
	}

	for _, cat := range model.SemanticCategories {
		score := scores[cat]
		switch {
		case score >= 70:
			analysis.DetailedAnalysis.Strengths = append(analysis.DetailedAnalysis.Strengths,
				fmt.Sprintf("%sは%.0f点で充実しています", categoryLabel(cat), score))
		case score < 60:
			analysis.DetailedAnalysis.Weaknesses = append(analysis.DetailedAnalysis.Weaknesses,
				fmt.Sprintf("%sは%.0f点で不足しています", categoryLabel(cat), score))
		}
	}

	analysis.FuturePredict = &model.FuturePredict{
		OneYear:   model.Prediction{Text: "現在の生活利便性は1年程度では大きく変化しない見込みです"},
		ThreeYear: model.Prediction{Text: "再開発や出店動向により中期的な変化の可能性があります"},
		FiveYear:  model.Prediction{Text: "人口動態の変化が長期的な生活環境に影響する可能性があります"},
	}

	analysis.Normalize()
	return analysis, nil
}

// scoreFor maps (address, category) to a stable score in [40, 95]
func scoreFor(address, category string) float64 {
	h := fnv.New32a()
	h.Write([]byte(address))
	h.Write([]byte{0})
	h.Write([]byte(category))
	return float64(40 + h.Sum32()%56)
}

var producerCategoryLabels = map[string]string{
	"transport":   "交通",
	"shopping":    "買い物",
	"medical":     "医療",
	"education":   "教育",
	"environment": "環境",
	"safety":      "治安",
}

func categoryLabel(cat string) string {
	if l, ok := producerCategoryLabels[cat]; ok {
		return l
	}
	return cat
}
