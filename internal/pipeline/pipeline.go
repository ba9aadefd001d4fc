package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/knakagawa/citylens/internal/cache"
	"github.com/knakagawa/citylens/internal/consistency"
	"github.com/knakagawa/citylens/internal/credibility"
	"github.com/knakagawa/citylens/internal/model"
	"github.com/knakagawa/citylens/internal/producer"
)

// Pipeline orchestrates the complete report generation process
type Pipeline struct {
	producer producer.Producer
	checker  *consistency.Checker
	analyzer *credibility.Analyzer
	merger   *Merger
	renderer *Renderer
	cache    cache.Cache
	config   *model.Config
}

// nowFunc is swapped out in tests for a fixed clock.
var nowFunc = time.Now

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	prod, err := producer.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}

	p := &Pipeline{
		producer: prod,
		checker:  consistency.NewChecker(cfg),
		analyzer: credibility.NewAnalyzer(cfg),
		merger:   NewMerger(cfg),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			p.cache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			p.cache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 2*cfg.Cache.MemoryTTL)
		}
	}

	return p, nil
}

// Run generates a complete, quality-checked report for a single address
func (p *Pipeline) Run(ctx context.Context, address string, coords *model.Coordinates) (*model.FinalReport, error) {
	// 1. Serve from cache when a fresh report exists
	key := cache.ReportKey(address)
	if report, ok := p.cachedReport(key); ok {
		return report, nil
	}

	// 2. Produce the raw analysis
	raw, err := p.producer.Produce(ctx, producer.Request{Address: address, Coordinates: coords})
	if err != nil {
		return nil, fmt.Errorf("produce analysis: %w", err)
	}

	// 3. Consistency pass: detect and auto-correct contradictions
	cons := p.checker.Check(raw)

	// 4. Credibility pass over the sources backing the analysis
	sources := InferSources(cons.Corrected, nowFunc())
	cred := p.analyzer.Analyze(sources, address)

	// 5. Merge both passes into the final report
	report := p.merger.Merge(cons, cred)
	report.ID = uuid.NewString()
	report.Address = address
	report.Coordinates = coords
	report.GeneratedAt = nowFunc().UTC()

	// 6. Cache the finished report
	p.storeReport(key, report)

	return report, nil
}

// cachedReport loads and decodes a cached report, if any.
func (p *Pipeline) cachedReport(key string) (*model.FinalReport, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var report model.FinalReport
	if err := json.Unmarshal(data, &report); err != nil {
		// A corrupt entry is dropped and regenerated
		_ = p.cache.Delete(key)
		return nil, false
	}
	return &report, true
}

// storeReport encodes and caches a finished report. Cache failures never
// fail the run.
func (p *Pipeline) storeReport(key string, report *model.FinalReport) {
	if p.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	// TTL 0 lets each cache layer apply its own configured default, so a
	// layered cache keeps the disk entry alive past the memory TTL.
	_ = p.cache.Set(key, data, 0)
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.FinalReport, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Print summary to stdout
	p.renderer.RenderSummary(report)

	return nil
}
