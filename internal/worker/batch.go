package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knakagawa/citylens/internal/model"
)

// Reporter generates a final report for one address
type Reporter interface {
	Run(ctx context.Context, address string, coords *model.Coordinates) (*model.FinalReport, error)
}

// ReportJob is a single-address report job
type ReportJob struct {
	Address  string
	Reporter Reporter
}

// Execute runs the report job
func (j *ReportJob) Execute(ctx context.Context) Result {
	report, err := j.Reporter.Run(ctx, j.Address, nil)
	return &ReportResult{
		Address: j.Address,
		Report:  report,
		Error:   err,
	}
}

// ReportResult is the outcome of one report job
type ReportResult struct {
	Address string
	Report  *model.FinalReport
	Error   error
}

// GetError returns the error from the report result
func (r *ReportResult) GetError() error {
	return r.Error
}

// BatchProcessor reports on multiple addresses concurrently
type BatchProcessor struct {
	reporter    Reporter
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(reporter Reporter, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		reporter:    reporter,
		concurrency: concurrency,
	}
}

// ProcessAddresses reports on the given addresses concurrently
func (b *BatchProcessor) ProcessAddresses(ctx context.Context, addresses []string) []*ReportResult {
	if len(addresses) == 0 {
		return []*ReportResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, address := range addresses {
		pool.Submit(&ReportJob{
			Address:  address,
			Reporter: b.reporter,
		})
	}

	results := pool.Wait()

	reportResults := make([]*ReportResult, len(results))
	for i, result := range results {
		reportResults[i] = result.(*ReportResult)
	}

	return reportResults
}

// ProcessFile reads addresses from a file and reports on them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ReportResult, error) {
	addresses, err := ReadAddressesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read addresses: %w", err)
	}

	return b.ProcessAddresses(ctx, addresses), nil
}

// ReadAddressesFromFile reads addresses from a file (one per line)
func ReadAddressesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var addresses []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate addresses
		if !seen[line] {
			seen[line] = true
			addresses = append(addresses, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return addresses, nil
}
