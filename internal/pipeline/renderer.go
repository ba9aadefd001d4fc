package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knakagawa/citylens/internal/consistency"
	"github.com/knakagawa/citylens/internal/model"
)

// Renderer writes finished reports to JSON and Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.FinalReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown document
func (r *Renderer) RenderMarkdown(report *model.FinalReport, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# 居住環境レポート: %s\n\n", report.Address)
	fmt.Fprintf(&b, "生成日時: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	// Scores table, fixed category order
	b.WriteString("## ライフスタイルスコア\n\n")
	b.WriteString("| カテゴリ | スコア |\n")
	b.WriteString("|---------|-------|\n")
	for _, cat := range sortedCategories(report.LifestyleScore) {
		fmt.Fprintf(&b, "| %s | %s |\n", consistency.CategoryLabel(cat), formatMarkdownScore(report.LifestyleScore[cat]))
	}
	b.WriteString("\n")

	writeList(&b, "## 強み", report.Strengths, "特筆すべき強みはありません。")
	writeList(&b, "## 弱み", report.Weaknesses, "特筆すべき弱みはありません。")

	if report.FuturePredict != nil {
		b.WriteString("## 将来予測\n\n")
		writePrediction(&b, "1年後", report.FuturePredict.OneYear)
		writePrediction(&b, "3年後", report.FuturePredict.ThreeYear)
		writePrediction(&b, "5年後", report.FuturePredict.FiveYear)
		b.WriteString("\n")
	}

	if report.Swot != nil {
		b.WriteString("## SWOT分析\n\n")
		writeList(&b, "### Strengths", report.Swot.Strengths, "なし")
		writeList(&b, "### Weaknesses", report.Swot.Weaknesses, "なし")
		writeList(&b, "### Opportunities", report.Swot.Opportunities, "なし")
		writeList(&b, "### Threats", report.Swot.Threats, "なし")
	}

	b.WriteString("## 品質指標\n\n")
	fmt.Fprintf(&b, "- 一貫性スコア: %d/100\n", report.QualityMetrics.ConsistencyScore)
	fmt.Fprintf(&b, "- 信頼性スコア: %d/100\n", report.QualityMetrics.CredibilityScore)
	fmt.Fprintf(&b, "- 総合品質: %d/100\n\n", report.QualityMetrics.OverallQuality)

	if len(report.QualityMetrics.Limitations) > 0 {
		writeList(&b, "### 制約事項", report.QualityMetrics.Limitations, "")
	}
	if len(report.QualityMetrics.Improvements) > 0 {
		writeList(&b, "### 適用された修正", report.QualityMetrics.Improvements, "")
	}

	if len(report.DataSources) > 0 {
		b.WriteString("## データソース\n\n")
		b.WriteString("| ソース | 信頼度 | 最終更新 |\n")
		b.WriteString("|-------|-------|---------|\n")
		for _, src := range report.DataSources {
			fmt.Fprintf(&b, "| %s | %.0f | %s |\n", src.Name, src.Reliability, src.LastUpdated.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nReport ID: `%s`\n", report.ID)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a one-screen summary to stdout
func (r *Renderer) RenderSummary(report *model.FinalReport) {
	fmt.Printf("\n=== %s ===\n", report.Address)
	for _, cat := range sortedCategories(report.LifestyleScore) {
		fmt.Printf("  %-12s %s\n", consistency.CategoryLabel(cat), formatMarkdownScore(report.LifestyleScore[cat]))
	}
	fmt.Printf("\n  一貫性 %d / 信頼性 %d / 総合品質 %d\n",
		report.QualityMetrics.ConsistencyScore,
		report.QualityMetrics.CredibilityScore,
		report.QualityMetrics.OverallQuality)
	if len(report.QualityMetrics.Limitations) > 0 {
		fmt.Printf("  制約: %d件\n", len(report.QualityMetrics.Limitations))
	}
	fmt.Println()
}

// sortedCategories returns the score categories in the canonical semantic
// order, with unknown categories sorted alphabetically at the end.
func sortedCategories(scores map[string]float64) []string {
	rank := make(map[string]int, len(model.SemanticCategories))
	for i, cat := range model.SemanticCategories {
		rank[cat] = i
	}

	out := make([]string, 0, len(scores))
	for cat := range scores {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iOK := rank[out[i]]
		rj, jOK := rank[out[j]]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func formatMarkdownScore(v float64) string {
	if v == float64(int(v)) {
		return fmt.Sprintf("%d点", int(v))
	}
	return fmt.Sprintf("%.1f点", v)
}

func writeList(b *strings.Builder, heading string, items []string, empty string) {
	b.WriteString(heading + "\n\n")
	if len(items) == 0 {
		if empty != "" {
			b.WriteString(empty + "\n")
		}
		b.WriteString("\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func writePrediction(b *strings.Builder, label string, p model.Prediction) {
	fmt.Fprintf(b, "- **%s**: %s (信頼度 %d%%)\n", label, p.Text, p.Confidence)
}
