package journal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream exchanges are appended to
const DefaultStream = "relay:exchanges"

// DefaultStreamMaxLen caps the stream at roughly this many entries
const DefaultStreamMaxLen = 10000

// RedisSink appends exchanges to a capped Redis stream
type RedisSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisSink(client *redis.Client, stream string, maxLen int64) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Record(ctx context.Context, ex Exchange) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"id":            ex.ID.String(),
			"request_id":    ex.RequestID,
			"intent":        ex.Intent,
			"target":        ex.Target,
			"provider":      ex.Provider,
			"model":         ex.Model,
			"prompt_length": strconv.Itoa(ex.PromptLength),
			"result_length": strconv.Itoa(ex.ResultLength),
			"outcome":       string(ex.Outcome),
			"latency_ms":    strconv.FormatInt(ex.LatencyMs, 10),
			"created_at":    ex.CreatedAt.Format(time.RFC3339Nano),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
