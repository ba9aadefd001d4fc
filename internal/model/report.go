package model

import "time"

// FinalReport is the quality-annotated report produced by merging the
// consistency and credibility results. It is the pipeline's only output
// and is intended for direct JSON serialization.
type FinalReport struct {
	ID          string       `json:"id"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	GeneratedAt time.Time    `json:"generatedAt"`

	// LifestyleScore carries the corrected, confidence-adjusted scores.
	// Low-confidence figures are quantized so they do not imply false
	// precision.
	LifestyleScore map[string]float64 `json:"lifestyleScore"`

	Strengths     []string       `json:"strengths"`
	Weaknesses    []string       `json:"weaknesses"`
	FuturePredict *FuturePredict `json:"futurePredict,omitempty"`
	Swot          *Swot          `json:"swot,omitempty"`

	QualityMetrics QualityMetrics `json:"qualityMetrics"`
	DataSources    []DataSource   `json:"dataSources"`
}

// QualityMetrics aggregates both analyses into report-level quality figures
type QualityMetrics struct {
	ConsistencyScore int      `json:"consistencyScore"` // 0-100, from the checker
	CredibilityScore int      `json:"credibilityScore"` // 0-100, from the analyzer
	OverallQuality   int      `json:"overallQuality"`   // 0-100, weighted merge of the two
	Improvements     []string `json:"improvements"`
	Limitations      []string `json:"limitations"`
}
