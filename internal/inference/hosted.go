package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// maxResponseBytes bounds how much of an upstream answer is read.
	maxResponseBytes = 8 << 20
	// maxErrorBodyBytes bounds the upstream body kept on status errors.
	maxErrorBodyBytes = 512
)

// hostedRequest is the body accepted by the hosted inference API
type hostedRequest struct {
	Inputs string `json:"inputs"`
}

// HostedClient calls a hosted inference API of the form
// POST {baseURL}/models/{model} with bearer-token authentication.
type HostedClient struct {
	baseURL string
	model   string
	apiKey  string
	httpc   *http.Client
}

// NewHostedClient creates a client whose every call is bounded by timeout.
func NewHostedClient(baseURL, model, apiKey string, timeout time.Duration) *HostedClient {
	return &HostedClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *HostedClient) Name() string { return "hosted" }

// Endpoint returns the model URL calls are posted to.
func (c *HostedClient) Endpoint() string {
	return c.baseURL + "/models/" + c.model
}

// Generate posts prompt to the model and returns the first generated text.
func (c *HostedClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "HostedClient.Generate", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("inference.model", c.model),
		attribute.Int("inference.prompt_length", len(prompt)),
	)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference failed")
		return "", err
	}
	return text, nil
}

func (c *HostedClient) generate(ctx context.Context, prompt string) (string, error) {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(hostedRequest{Inputs: prompt}); err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), &body)
	if err != nil {
		return "", fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if len(payload) > maxErrorBodyBytes {
			payload = payload[:maxErrorBodyBytes]
		}
		return "", &UpstreamStatusError{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	return FirstGeneratedText(payload)
}
