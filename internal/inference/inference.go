// Package inference talks to the hosted text-generation model behind the relay.
package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/pseudocoder/relay/internal/config"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/pseudocoder/relay/internal/inference")

// ErrUnexpectedShape is returned when the model answers with a payload that
// does not carry a generated text where one is expected.
var ErrUnexpectedShape = errors.New("unexpected inference response shape")

// Generator turns a prompt into generated text with exactly one upstream call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// UpstreamStatusError is returned for non-2xx answers from the inference endpoint.
type UpstreamStatusError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("inference endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// New builds the Generator selected by cfg.Provider.
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderHosted:
		return NewHostedClient(cfg.InferenceBaseURL, cfg.ModelName, cfg.APIKey, cfg.UpstreamTimeout), nil
	case config.ProviderGemini:
		g, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.ModelName, cfg.UpstreamTimeout)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Provider)
	}
}
