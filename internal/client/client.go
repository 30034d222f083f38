// Package client speaks the relay contract: one JSON request per user action
// and a display string for every outcome.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultBaseURL is the fixed local address of the relay
const DefaultBaseURL = "http://localhost:5000"

var (
	// ErrEmptyInput is returned before any request is made when the text is blank
	ErrEmptyInput = errors.New("input is empty")
	// ErrUnreachable wraps every transport failure talking to the relay
	ErrUnreachable = errors.New("relay unreachable")
)

// ServerError is a non-2xx answer from the relay. Message is the relay's fixed
// error text.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.StatusCode, e.Message)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a relay client. A zero Timeout leaves requests unbounded, like
// the browser UI.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate asks the relay to convert pseudocode into language.
func (c *Client) Generate(ctx context.Context, pseudocode, language string) (Result, error) {
	if strings.TrimSpace(pseudocode) == "" {
		return Result{}, ErrEmptyInput
	}
	return c.post(ctx, "/generate", map[string]string{
		"pseudocode": pseudocode,
		"language":   language,
	}, "code")
}

// Solve asks the relay to answer a free-text problem statement.
func (c *Client) Solve(ctx context.Context, problem string) (Result, error) {
	if strings.TrimSpace(problem) == "" {
		return Result{}, ErrEmptyInput
	}
	return c.post(ctx, "/solve", map[string]string{
		"problemStatement": problem,
	}, "solution")
}

func (c *Client) post(ctx context.Context, path string, body any, field string) (Result, error) {
	reqBytes, err := json.Marshal(body)
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to marshal relay request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBytes))
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to init relay request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Result{}, errors.Wrapf(ErrUnreachable, "%s: %v", path, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, errors.Wrapf(ErrUnreachable, "%s: reading response: %v", path, err)
	}

	var fields map[string]json.RawMessage
	decodeErr := json.Unmarshal(respBytes, &fields)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg string
		if decodeErr == nil {
			_ = json.Unmarshal(fields["error"], &msg)
		}
		return Result{}, &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return Result{Kind: KindUnrecognized}, nil
	}
	return Unwrap(fields[field]), nil
}
