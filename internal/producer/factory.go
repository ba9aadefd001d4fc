package producer

import (
	"fmt"

	"github.com/knakagawa/citylens/internal/model"
)

// New creates the producer selected by the configuration
func New(cfg *model.Config) (Producer, error) {
	switch cfg.Producer.Kind {
	case "", "static":
		return NewStaticProducer(), nil

	case "http":
		if cfg.Producer.Endpoint == "" {
			return nil, fmt.Errorf("http producer requires an endpoint")
		}
		return NewHTTPProducer(cfg.Producer.Endpoint, cfg.HTTP), nil

	case "openai":
		return NewOpenAIProducer(cfg.Producer)

	default:
		return nil, fmt.Errorf("unknown producer kind: %q", cfg.Producer.Kind)
	}
}
