package pipeline

import (
	"testing"
	"time"

	"github.com/knakagawa/citylens/internal/model"
)

func TestInferSources_CapabilityFlags(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	a := &model.Analysis{
		Capabilities: model.Capabilities{
			UsedGovernmentStats: true,
			UsedTransitData:     true,
		},
	}

	sources := InferSources(a, now)
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Category != "government_statistics" {
		t.Errorf("sources[0].Category = %q, want government_statistics", sources[0].Category)
	}
	if sources[0].Reliability != 95 {
		t.Errorf("sources[0].Reliability = %v, want 95", sources[0].Reliability)
	}
	if sources[1].Category != "open_data" {
		t.Errorf("sources[1].Category = %q, want open_data", sources[1].Category)
	}
	if !sources[0].LastUpdated.Before(now) {
		t.Error("government stats LastUpdated should lag the current time")
	}
}

func TestInferSources_AllFlags(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	a := &model.Analysis{
		Capabilities: model.Capabilities{
			UsedGovernmentStats: true,
			UsedPlacesAPI:       true,
			UsedTransitData:     true,
			UsedCrimeData:       true,
			UsedSchoolData:      true,
		},
	}

	sources := InferSources(a, now)
	if len(sources) != 5 {
		t.Fatalf("got %d sources, want 5", len(sources))
	}
	for _, src := range sources {
		if src.Name == "" || src.Category == "" {
			t.Errorf("source %+v missing name or category", src)
		}
		if src.Reliability < 80 {
			t.Errorf("source %s reliability %v, declared capabilities should all be >= 80", src.Name, src.Reliability)
		}
	}
}

func TestInferSources_NoCapabilities(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	sources := InferSources(&model.Analysis{}, now)
	if len(sources) != 1 {
		t.Fatalf("got %d sources, want the single estimation fallback", len(sources))
	}
	if sources[0].Category != "estimated" {
		t.Errorf("fallback category = %q, want estimated", sources[0].Category)
	}
	if sources[0].Reliability != 40 {
		t.Errorf("fallback reliability = %v, want 40", sources[0].Reliability)
	}
}
