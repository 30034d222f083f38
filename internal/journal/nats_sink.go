package journal

import (
	"context"
	"time"

	"github.com/pseudocoder/relay/internal/eventbus"
)

// SubjectPrefix prefixes the subjects exchanges are published on, one per intent
const SubjectPrefix = "relay.exchange."

// Publisher is the part of eventbus.Bus the NATS sink needs
type Publisher interface {
	PublishJSON(subject string, v any) error
	Ping(timeout time.Duration) error
}

var _ Publisher = (*eventbus.Bus)(nil)

// NATSSink broadcasts exchanges on relay.exchange.<intent>
type NATSSink struct {
	bus Publisher
}

func NewNATSSink(bus Publisher) *NATSSink {
	return &NATSSink{bus: bus}
}

func (s *NATSSink) Name() string { return "nats" }

func (s *NATSSink) Record(_ context.Context, ex Exchange) error {
	return s.bus.PublishJSON(SubjectPrefix+ex.Intent, ex)
}

func (s *NATSSink) Ping(ctx context.Context) error {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	return s.bus.Ping(timeout)
}
