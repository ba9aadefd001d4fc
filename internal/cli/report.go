package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/knakagawa/citylens/internal/model"
	"github.com/knakagawa/citylens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON      string
	outMD        string
	timeout      time.Duration
	userAgent    string
	maxBytes     int64
	noCache      bool
	noFooter     bool
	insecureTLS  bool
	lat          float64
	lng          float64
	producerKind string
	endpoint     string
	openaiModel  string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <address>",
	Short: "Generate a quality-checked lifestyle report for one address",
	Long: `Report analyzes a single address:
- Produce the raw lifestyle analysis (static model, HTTP service, or OpenAI)
- Detect and auto-correct contradictions in the analysis
- Score the credibility of the data sources behind it
- Quantize low-confidence figures and regenerate prose to match
- Generate transparent JSON and Markdown reports

Example:
  citylens report "東京都世田谷区三軒茶屋"
  citylens report "大阪市北区梅田" --json report.json --md report.md
  citylens report "横浜市西区" --lat 35.4660 --lng 139.6226
  citylens report "札幌市中央区" --producer openai --model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	// Output flags
	reportCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	reportCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Location flags
	reportCmd.Flags().Float64Var(&lat, "lat", 0, "latitude (optional)")
	reportCmd.Flags().Float64Var(&lng, "lng", 0, "longitude (optional)")

	// Producer flags
	reportCmd.Flags().StringVar(&producerKind, "producer", "", "analysis producer (static, http, openai; default: static)")
	reportCmd.Flags().StringVar(&endpoint, "endpoint", "", "analysis service endpoint (http producer)")
	reportCmd.Flags().StringVar(&openaiModel, "model", "gpt-4o-mini", "model name (openai producer)")

	// HTTP flags
	reportCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall report timeout")
	reportCmd.Flags().StringVar(&userAgent, "ua", "Citylens/0.1 (+https://github.com/knakagawa/citylens)", "HTTP User-Agent")
	reportCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	reportCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh analysis)")
	reportCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	reportCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
}

func runReport(cmd *cobra.Command, args []string) error {
	address := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Reporting: %s\n", address)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from flags
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	// Create pipeline
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	// Optional coordinates
	var coords *model.Coordinates
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
		coords = &model.Coordinates{Lat: lat, Lng: lng}
	}

	// Generate report
	report, err := p.Run(ctx, address, coords)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Checked consistency: %d/100\n", report.QualityMetrics.ConsistencyScore)
		fmt.Fprintf(os.Stderr, "✓ Scored %d data sources: %d/100\n", len(report.DataSources), report.QualityMetrics.CredibilityScore)
		fmt.Fprintf(os.Stderr, "✓ Overall quality: %d/100\n", report.QualityMetrics.OverallQuality)
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig applies CLI flags on top of the defaults
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if producerKind != "" {
		cfg.Producer.Kind = producerKind
	}

	switch cfg.Producer.Kind {
	case "http":
		if endpoint == "" {
			return nil, fmt.Errorf("--endpoint is required with the http producer")
		}
		cfg.Producer.Endpoint = endpoint
	case "openai":
		cfg.Producer.Model = openaiModel
		cfg.Producer.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Producer.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			cfg.Producer.BaseURL = baseURL
		}
	}

	return cfg, nil
}
