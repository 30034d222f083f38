package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memorySink struct {
	mu        sync.Mutex
	name      string
	exchanges []Exchange
	err       error
}

func (s *memorySink) Name() string { return s.name }

func (s *memorySink) Record(_ context.Context, ex Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, ex)
	return s.err
}

func (s *memorySink) Ping(context.Context) error { return s.err }

func (s *memorySink) recorded() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Exchange(nil), s.exchanges...)
}

func TestJournalFansOut(t *testing.T) {
	first := &memorySink{name: "first"}
	second := &memorySink{name: "second", err: errors.New("disk full")}
	j := New(zap.NewNop(), first, second)

	j.Record(Exchange{RequestID: "req-1", Intent: "generate", Outcome: OutcomeOK})
	j.Wait()

	for _, s := range []*memorySink{first, second} {
		got := s.recorded()
		if len(got) != 1 {
			t.Fatalf("Expected 1 exchange in %s, got %d", s.name, len(got))
		}
		if got[0].RequestID != "req-1" {
			t.Errorf("Expected request id req-1, got %q", got[0].RequestID)
		}
		if got[0].ID == uuid.Nil {
			t.Error("Expected exchange id to be assigned")
		}
		if got[0].CreatedAt.IsZero() {
			t.Error("Expected creation time to be assigned")
		}
	}
}

func TestJournalWithoutSinks(t *testing.T) {
	j := New(zap.NewNop())
	if j.Enabled() {
		t.Error("Expected journal without sinks to be disabled")
	}
	j.Record(Exchange{Intent: "solve"})
	j.Wait()

	var nilJournal *Journal
	nilJournal.Record(Exchange{})
	nilJournal.Wait()
}

func TestJournalCheck(t *testing.T) {
	j := New(zap.NewNop(), &memorySink{name: "ok"}, &memorySink{name: "down", err: errors.New("refused")})

	status, healthy := j.Check(context.Background())
	if healthy {
		t.Error("Expected journal to be unhealthy")
	}
	if status["ok"] != "healthy" {
		t.Errorf("Expected ok sink healthy, got %q", status["ok"])
	}
	if status["down"] != "unhealthy: refused" {
		t.Errorf("Expected down sink unhealthy, got %q", status["down"])
	}
}

type fakePublisher struct {
	subject string
	payload any
	pingErr error
}

func (p *fakePublisher) PublishJSON(subject string, v any) error {
	p.subject = subject
	p.payload = v
	return nil
}

func (p *fakePublisher) Ping(time.Duration) error { return p.pingErr }

func TestNATSSinkPublishesPerIntent(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewNATSSink(pub)

	ex := Exchange{ID: uuid.New(), Intent: "solve", Outcome: OutcomeUpstreamError}
	if err := sink.Record(context.Background(), ex); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if pub.subject != "relay.exchange.solve" {
		t.Errorf("Expected subject relay.exchange.solve, got %q", pub.subject)
	}
	got, ok := pub.payload.(Exchange)
	if !ok || got.ID != ex.ID {
		t.Errorf("Expected exchange payload, got %#v", pub.payload)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sink.Ping(ctx); err != nil {
		t.Errorf("Expected ping to succeed, got %v", err)
	}
}
