package journal

import (
	"context"
	"fmt"

	"github.com/pseudocoder/relay/internal/database"
)

// PostgresSink inserts exchanges into the exchanges table
type PostgresSink struct {
	db *database.Postgres
}

func NewPostgresSink(db *database.Postgres) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) Record(ctx context.Context, ex Exchange) error {
	query := `
		INSERT INTO exchanges (id, request_id, intent, target, provider, model,
		                       prompt_length, result_length, outcome, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.Pool().Exec(ctx, query,
		ex.ID, ex.RequestID, ex.Intent, ex.Target, ex.Provider, ex.Model,
		ex.PromptLength, ex.ResultLength, string(ex.Outcome), ex.LatencyMs, ex.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	return nil
}

func (s *PostgresSink) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
