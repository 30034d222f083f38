package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Bus is a NATS connection used to broadcast relay events
type Bus struct {
	conn *nats.Conn
}

// Connect dials NATS at url. Reconnect attempts are bounded so a lost server
// never blocks the relay.
func Connect(url string, logger *zap.Logger) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.Name("pseudocoder-relay"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Bus{conn: nc}, nil
}

// Publish sends raw data on subject
func (b *Bus) Publish(subject string, data []byte) error {
	if b == nil || b.conn == nil || b.conn.IsClosed() {
		return nats.ErrConnectionClosed
	}
	return b.conn.Publish(subject, data)
}

// PublishJSON marshals v and sends it on subject
func (b *Bus) PublishJSON(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return b.Publish(subject, data)
}

// Ping round-trips to the server
func (b *Bus) Ping(timeout time.Duration) error {
	if b == nil || b.conn == nil {
		return nats.ErrConnectionClosed
	}
	return b.conn.FlushTimeout(timeout)
}

// Close drains pending messages and closes the connection
func (b *Bus) Close() {
	if b != nil && b.conn != nil {
		_ = b.conn.Drain()
	}
}
