// Package journal keeps an opt-in audit trail of relay exchanges. Records carry
// sizes, outcome and latency, never the prompt or the generated text. The relay
// never reads the journal back, so it has no effect on responses.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome of one relay exchange
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeUpstreamError Outcome = "upstream_error"
)

// Exchange describes one handled relay request.
type Exchange struct {
	ID           uuid.UUID `json:"id"`
	RequestID    string    `json:"request_id"`
	Intent       string    `json:"intent"`
	Target       string    `json:"target,omitempty"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	PromptLength int       `json:"prompt_length"`
	ResultLength int       `json:"result_length"`
	Outcome      Outcome   `json:"outcome"`
	LatencyMs    int64     `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sink stores exchanges somewhere outside the process.
type Sink interface {
	Name() string
	Record(ctx context.Context, ex Exchange) error
	Ping(ctx context.Context) error
}

// Journal fans exchanges out to its sinks in the background.
type Journal struct {
	sinks   []Sink
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// New creates a journal. With no sinks Record is a no-op.
func New(logger *zap.Logger, sinks ...Sink) *Journal {
	return &Journal{
		sinks:   sinks,
		logger:  logger,
		timeout: 5 * time.Second,
	}
}

// Enabled reports whether at least one sink is configured
func (j *Journal) Enabled() bool {
	return j != nil && len(j.sinks) > 0
}

// Record hands ex to every sink without blocking the caller. Sink failures are
// logged and otherwise ignored.
func (j *Journal) Record(ex Exchange) {
	if !j.Enabled() {
		return
	}
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	for _, sink := range j.sinks {
		j.wg.Add(1)
		go func(s Sink) {
			defer j.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
			defer cancel()
			if err := s.Record(ctx, ex); err != nil {
				j.logger.Warn("journal sink failed",
					zap.String("sink", s.Name()),
					zap.String("exchange_id", ex.ID.String()),
					zap.Error(err),
				)
			}
		}(sink)
	}
}

// Wait blocks until every in-flight Record has finished.
func (j *Journal) Wait() {
	if j != nil {
		j.wg.Wait()
	}
}

// Check pings every sink and returns a status per sink name.
func (j *Journal) Check(ctx context.Context) (map[string]string, bool) {
	status := make(map[string]string)
	healthy := true
	if j == nil {
		return status, healthy
	}
	for _, s := range j.sinks {
		if err := s.Ping(ctx); err != nil {
			status[s.Name()] = "unhealthy: " + err.Error()
			healthy = false
			continue
		}
		status[s.Name()] = "healthy"
	}
	return status, healthy
}
