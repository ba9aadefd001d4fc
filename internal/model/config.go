package model

import (
	"math"
	"time"
)

// Sentiment is the qualitative tone mandated by a score band or detected
// in prose
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ScoreThreshold maps a closed score interval to a qualitative label and
// the prose sentiment that interval mandates
type ScoreThreshold struct {
	Min       int       `yaml:"min" json:"min"`
	Max       int       `yaml:"max" json:"max"`
	Label     string    `yaml:"label" json:"label"`
	Sentiment Sentiment `yaml:"sentiment" json:"sentiment"`
	Keywords  []string  `yaml:"keywords" json:"keywords"`
}

// Contains reports whether the score falls inside this band
func (t ScoreThreshold) Contains(score float64) bool {
	return score >= float64(t.Min) && score <= float64(t.Max)
}

// KeywordConfig holds the keyword tables driving sentiment and category
// classification. These stand in for an upstream NLP step and can be
// replaced wholesale by swapping the classifier implementation.
type KeywordConfig struct {
	Positive   []string            `yaml:"positive"`
	Negative   []string            `yaml:"negative"`
	Categories map[string][]string `yaml:"categories"`
}

// CredibilityConfig holds the reliability and freshness model constants
type CredibilityConfig struct {
	CategoryWeights      map[string]float64 `yaml:"category_weights"`
	FreshnessHorizonDays int                `yaml:"freshness_horizon_days"`
	MinFreshnessWeight   float64            `yaml:"min_freshness_weight"`
	MinReliability       int                `yaml:"min_reliability"`
	RequiredSources      int                `yaml:"required_sources"`
}

// GeoConfig holds the urban/non-urban heuristic. Addresses that do not
// mention a major city are assumed to have sparser official data coverage.
type GeoConfig struct {
	MajorCities        []string `yaml:"major_cities"`
	ReliabilityPenalty int      `yaml:"reliability_penalty"`
	QualityPenalty     int      `yaml:"quality_penalty"`
	PenaltyFloor       int      `yaml:"penalty_floor"`
}

// ProducerConfig selects and configures the upstream analysis producer
type ProducerConfig struct {
	// Kind: "static", "http", "openai"
	Kind      string `yaml:"kind"`
	Endpoint  string `yaml:"endpoint,omitempty"` // http producer
	APIKey    string `yaml:"api_key,omitempty"`  // openai producer
	Model     string `yaml:"model,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// HTTPConfig configures the HTTP client used by the http producer
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty"`
	NoProxy           string        `yaml:"no_proxy,omitempty"`
	InsecureTLS       bool          `yaml:"insecure_tls"`
}

// CacheConfig configures report caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir,omitempty"` // Enables the disk layer when set
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	ReportWorkers int `yaml:"report_workers"`
}

// Config is the process-wide configuration. It is built once at startup
// and never mutated afterwards; every component receives it by injection,
// which keeps concurrent pipeline runs lock-free.
type Config struct {
	Thresholds  []ScoreThreshold  `yaml:"thresholds"`
	Keywords    KeywordConfig     `yaml:"keywords"`
	Credibility CredibilityConfig `yaml:"credibility"`
	Geo         GeoConfig         `yaml:"geo"`
	Producer    ProducerConfig    `yaml:"producer"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Output      OutputConfig      `yaml:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// FindThreshold returns the band containing the score. The default band
// table is total over [0,100], so the fallback paths exist only to avoid
// a crash on out-of-range input: the score is rounded and clamped, and if
// even that fails the lowest band is returned.
func (c *Config) FindThreshold(score float64) ScoreThreshold {
	for _, t := range c.Thresholds {
		if t.Contains(score) {
			return t
		}
	}

	clamped := math.Round(score)
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}
	for _, t := range c.Thresholds {
		if t.Contains(clamped) {
			return t
		}
	}

	// No band matched even after clamping; fall back to the lowest band
	lowest := c.Thresholds[0]
	for _, t := range c.Thresholds[1:] {
		if t.Min < lowest.Min {
			lowest = t
		}
	}
	return lowest
}

// SemanticCategories are the categories the checker validates individually
var SemanticCategories = []string{"transport", "shopping", "medical", "education", "environment", "safety"}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Thresholds: []ScoreThreshold{
			{Min: 85, Max: 100, Label: "excellent", Sentiment: SentimentPositive, Keywords: []string{"非常に優れ", "優秀", "最高水準", "充実"}},
			{Min: 70, Max: 84, Label: "good", Sentiment: SentimentPositive, Keywords: []string{"良好", "便利", "安心"}},
			{Min: 60, Max: 69, Label: "adequate", Sentiment: SentimentNeutral, Keywords: []string{"標準的", "平均的", "普通"}},
			{Min: 50, Max: 59, Label: "somewhat-lacking", Sentiment: SentimentNegative, Keywords: []string{"やや不足", "物足りない"}},
			{Min: 45, Max: 49, Label: "lacking", Sentiment: SentimentNegative, Keywords: []string{"不足", "不便"}},
			{Min: 0, Max: 44, Label: "severely-lacking", Sentiment: SentimentNegative, Keywords: []string{"大幅に不足", "深刻な課題"}},
		},
		Keywords: KeywordConfig{
			Positive: []string{
				"優秀", "優れ", "充実", "良好", "便利", "安心", "快適", "豊富",
				"恵まれ", "魅力", "高い水準", "整っ",
			},
			Negative: []string{
				"問題", "課題", "不足", "不便", "不安", "懸念", "乏しい",
				"劣っ", "少ない", "限られ", "物足りない",
			},
			Categories: map[string][]string{
				"transport":   {"交通", "駅", "バス", "電車", "鉄道", "アクセス", "路線"},
				"shopping":    {"買い物", "商業", "スーパー", "商店", "ショッピング", "店舗"},
				"medical":     {"医療", "病院", "クリニック", "診療", "救急"},
				"education":   {"教育", "学校", "学区", "保育", "大学", "塾"},
				"environment": {"環境", "公園", "緑", "自然", "騒音", "空気"},
				"safety":      {"治安", "犯罪", "安全", "防犯", "事故"},
			},
		},
		Credibility: CredibilityConfig{
			CategoryWeights: map[string]float64{
				"government_statistics": 1.0,
				"official_api":          0.9,
				"commercial_api":        0.75,
				"open_data":             0.7,
				"estimated":             0.5,
				"crowd_sourced":         0.4,
			},
			FreshnessHorizonDays: 365,
			MinFreshnessWeight:   0.3,
			MinReliability:       70,
			RequiredSources:      3,
		},
		Geo: GeoConfig{
			MajorCities: []string{
				"東京", "大阪", "名古屋", "横浜", "川崎", "京都", "神戸",
				"福岡", "札幌", "仙台", "広島", "さいたま", "千葉", "北九州",
			},
			ReliabilityPenalty: 10,
			QualityPenalty:     5,
			PenaltyFloor:       50,
		},
		Producer: ProducerConfig{
			Kind:      "static",
			Timeout:   30,
			MaxTokens: 2000,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "Citylens/0.1 (+https://github.com/knakagawa/citylens)",
			MaxBodyBytes:      2_000_000,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Concurrency: ConcurrencyConfig{
			ReportWorkers: 4,
		},
	}
}
