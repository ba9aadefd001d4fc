package pipeline

import (
	"time"

	"github.com/knakagawa/citylens/internal/model"
)

// InferSources maps the producer's capability flags to data-source
// records with fixed reliabilities. The producer only declares WHICH data
// it consulted; typical update cadence and trust level per source are
// modeled here.
func InferSources(a *model.Analysis, now time.Time) []model.DataSource {
	var sources []model.DataSource

	if a.Capabilities.UsedGovernmentStats {
		sources = append(sources, model.DataSource{
			Name:        "国勢調査・政府統計",
			Reliability: 95,
			Category:    "government_statistics",
			LastUpdated: now.AddDate(0, -3, 0),
			Methodology: "全数調査",
			Coverage:    "全国",
		})
	}
	if a.Capabilities.UsedPlacesAPI {
		sources = append(sources, model.DataSource{
			Name:        "地図・施設検索API",
			Reliability: 85,
			Category:    "commercial_api",
			LastUpdated: now.AddDate(0, 0, -7),
			Coverage:    "全国",
		})
	}
	if a.Capabilities.UsedTransitData {
		sources = append(sources, model.DataSource{
			Name:        "公共交通オープンデータ",
			Reliability: 80,
			Category:    "open_data",
			LastUpdated: now.AddDate(0, -1, 0),
			Coverage:    "主要路線",
		})
	}
	if a.Capabilities.UsedCrimeData {
		sources = append(sources, model.DataSource{
			Name:        "警察犯罪統計",
			Reliability: 90,
			Category:    "government_statistics",
			LastUpdated: now.AddDate(0, -6, 0),
			Methodology: "認知件数集計",
		})
	}
	if a.Capabilities.UsedSchoolData {
		sources = append(sources, model.DataSource{
			Name:        "学校基本調査",
			Reliability: 88,
			Category:    "government_statistics",
			LastUpdated: now.AddDate(0, -8, 0),
			Methodology: "悉皆調査",
		})
	}

	// No declared capabilities: the analysis must have come from a
	// generic estimation model
	if len(sources) == 0 {
		sources = append(sources, model.DataSource{
			Name:        "推定モデル",
			Reliability: 40,
			Category:    "estimated",
			LastUpdated: now,
		})
	}

	return sources
}
