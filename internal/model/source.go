package model

import "time"

// DataSource describes one declared or inferred data source behind the
// raw analysis
type DataSource struct {
	Name        string    `json:"name"`
	Reliability float64   `json:"reliability"` // 0-100
	Category    string    `json:"category"`    // e.g. government_statistics, commercial_api
	LastUpdated time.Time `json:"lastUpdated"`
	URL         string    `json:"url,omitempty"`
	Methodology string    `json:"methodology,omitempty"`
	SampleSize  int       `json:"sampleSize,omitempty"`
	Coverage    string    `json:"coverage,omitempty"`
}

// ConfidenceBreakdown decomposes overall confidence into its inputs
type ConfidenceBreakdown struct {
	Recency     int `json:"recency"`     // 0-100, driven by source freshness
	Coverage    int `json:"coverage"`    // 0-100, driven by source count
	DataQuality int `json:"dataQuality"` // 0-100, driven by mean reliability
}

// Confidence is the confidence estimate attached to a credibility result
type Confidence struct {
	Overall   int                 `json:"overall"` // 0-100
	Breakdown ConfidenceBreakdown `json:"breakdown"`
}

// CredibilityResult is the complete output of the credibility analyzer
type CredibilityResult struct {
	DataSources          []DataSource       `json:"dataSources"` // Sorted by reliability, descending
	OverallReliability   int                `json:"overallReliability"`
	QualityScore         int                `json:"qualityScore"`
	SourceCount          int                `json:"sourceCount"`
	LastValidated        time.Time          `json:"lastValidated"`
	ReliabilityBreakdown map[string]float64 `json:"reliabilityBreakdown"` // Category -> weighted score
	DataFreshness        int                `json:"dataFreshness"`        // 0-100
	CrossValidation      bool               `json:"crossValidation"`
	Confidence           Confidence         `json:"confidence"`
	Recommendations      []string           `json:"recommendations"`
	Limitations          []string           `json:"limitations"`
}
