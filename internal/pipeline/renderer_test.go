package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/knakagawa/citylens/internal/model"
)

func sampleReport() *model.FinalReport {
	return &model.FinalReport{
		ID:          "r-1",
		Address:     "東京都世田谷区",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		LifestyleScore: map[string]float64{
			"transport": 85,
			"shopping":  72.5,
		},
		Strengths:  []string{"交通は85点で非常に優れています (信頼度: 高)"},
		Weaknesses: []string{},
		FuturePredict: &model.FuturePredict{
			OneYear: model.Prediction{Text: "大きな変化は見込まれません", Confidence: 90},
		},
		QualityMetrics: model.QualityMetrics{
			ConsistencyScore: 95,
			CredibilityScore: 88,
			OverallQuality:   91,
		},
		DataSources: []model.DataSource{
			{Name: "国勢調査・政府統計", Reliability: 95, LastUpdated: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	r := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "report.json")

	if err := r.RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded model.FinalReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Address != "東京都世田谷区" {
		t.Errorf("decoded address = %q", decoded.Address)
	}
	if decoded.QualityMetrics.OverallQuality != 91 {
		t.Errorf("decoded overall quality = %d", decoded.QualityMetrics.OverallQuality)
	}
}

func TestRenderer_RenderMarkdown(t *testing.T) {
	r := NewRenderer(true)
	path := filepath.Join(t.TempDir(), "report.md")

	if err := r.RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	md := string(data)

	for _, want := range []string{
		"# 居住環境レポート: 東京都世田谷区",
		"| 交通 | 85点 |",
		"| 買い物 | 72.5点 |",
		"交通は85点で非常に優れています",
		"総合品質: 91/100",
		"国勢調査・政府統計",
		"Report ID: `r-1`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Transport must come before shopping: canonical category order
	if strings.Index(md, "| 交通 |") > strings.Index(md, "| 買い物 |") {
		t.Error("categories not in canonical order")
	}
}

func TestRenderer_NoFooter(t *testing.T) {
	r := NewRenderer(false)
	path := filepath.Join(t.TempDir(), "report.md")

	if err := r.RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Report ID") {
		t.Error("footer rendered with includeFooter=false")
	}
}
