package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knakagawa/citylens/internal/model"
)

// MockReporter implements the Reporter interface
type MockReporter struct {
	ShouldError bool
}

func (m *MockReporter) Run(ctx context.Context, address string, coords *model.Coordinates) (*model.FinalReport, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("report error")
	}
	return &model.FinalReport{Address: address}, nil
}

func TestBatchProcessor_ProcessAddresses(t *testing.T) {
	reporter := &MockReporter{}
	processor := NewBatchProcessor(reporter, 2)

	addresses := []string{"東京都新宿区", "大阪市北区", "福岡市博多区"}
	ctx := context.Background()

	results := processor.ProcessAddresses(ctx, addresses)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Report == nil {
				t.Error("expected report for successful run")
			}
		} else {
			t.Errorf("unexpected error for %s: %v", res.Address, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessAddresses_Errors(t *testing.T) {
	reporter := &MockReporter{ShouldError: true}
	processor := NewBatchProcessor(reporter, 2)

	results := processor.ProcessAddresses(context.Background(), []string{"a", "b"})

	for _, res := range results {
		if res.Error == nil {
			t.Error("expected error result")
		}
		if res.Report != nil {
			t.Error("expected nil report on error")
		}
	}
}

func TestBatchProcessor_ProcessAddresses_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockReporter{}, 2)

	results := processor.ProcessAddresses(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestReadAddressesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.txt")
	content := "東京都新宿区\n\n# comment\n大阪市北区\n東京都新宿区\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	addresses, err := ReadAddressesFromFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	// Blank lines and comments skipped, duplicates removed
	if len(addresses) != 2 {
		t.Errorf("expected 2 addresses, got %v", addresses)
	}
}

func TestReadAddressesFromFile_Missing(t *testing.T) {
	if _, err := ReadAddressesFromFile("/nonexistent/addresses.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}
