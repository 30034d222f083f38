package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
)

// GeminiClient generates text through the Gemini API. It satisfies Generator
// with the same single-call contract as HostedClient.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient creates a Gemini backed generator. The underlying client is
// shared by all requests and must be released with Close.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: cl, model: strings.TrimSpace(model), timeout: timeout}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }

// Generate sends prompt as a single text part and returns the first text part
// of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "GeminiClient.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("inference.model", g.model),
		attribute.Int("inference.prompt_length", len(prompt)),
	)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.GenerativeModel(g.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference failed")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text, ok := firstText(resp)
	if !ok {
		span.SetStatus(codes.Error, "no text candidate")
		return "", fmt.Errorf("%w: no text part in first candidate", ErrUnexpectedShape)
	}
	return text, nil
}

// Close releases the underlying Gemini client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			return string(t), true
		}
	}
	return "", false
}
