// Package producer supplies raw lifestyle analyses to the pipeline. The
// producer is the pipeline's only I/O boundary: everything downstream is a
// pure transformation. Implementations may be a remote analysis service,
// an LLM, or the built-in deterministic scorer; the pipeline treats them
// all as an opaque source of possibly-inconsistent analysis objects.
package producer

import (
	"context"

	"github.com/knakagawa/citylens/internal/model"
)

// Request identifies the location to analyze
type Request struct {
	Address     string
	Coordinates *model.Coordinates
}

// Producer generates a raw lifestyle analysis for an address
type Producer interface {
	// Name returns the producer name
	Name() string

	// Produce returns the raw analysis. Errors here abort the whole
	// pipeline run; retry policy is the producer's own concern.
	Produce(ctx context.Context, req Request) (*model.Analysis, error)
}
