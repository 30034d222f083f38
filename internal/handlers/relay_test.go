package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pseudocoder/relay/internal/inference"
	"github.com/pseudocoder/relay/internal/journal"
	"github.com/pseudocoder/relay/internal/metrics"
	"github.com/pseudocoder/relay/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	text    string
	err     error
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func (g *fakeGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

type recordingSink struct {
	mu        sync.Mutex
	exchanges []journal.Exchange
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Record(_ context.Context, ex journal.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, ex)
	return nil
}

func (s *recordingSink) Ping(context.Context) error { return nil }

type relayFixture struct {
	router  *gin.Engine
	metrics *metrics.Metrics
	journal *journal.Journal
	sink    *recordingSink
}

func newRelayFixture(gen inference.Generator) *relayFixture {
	m := metrics.New(prometheus.NewRegistry())
	sink := &recordingSink{}
	j := journal.New(zap.NewNop(), sink)
	h := NewRelayHandler(gen, "test-model", zap.NewNop(), m, j)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.POST("/generate", h.Generate)
	router.POST("/solve", h.Solve)
	return &relayFixture{router: router, metrics: m, journal: j, sink: sink}
}

func (f *relayFixture) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGenerateSuccess(t *testing.T) {
	gen := &fakeGenerator{text: "print('hello')"}
	f := newRelayFixture(gen)

	w := f.post("/generate", `{"pseudocode":"print hello","language":"python"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":"print('hello')"}`, w.Body.String())
	require.Len(t, gen.calls(), 1)
	assert.Equal(t, "Convert the following pseudocode to python:\nprint hello", gen.calls()[0])
}

func TestGeneratePassesTextVerbatim(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	f := newRelayFixture(gen)

	w := f.post("/generate", `{"pseudocode":"  loop i\n\t  print i  ","language":"c++ 17"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, gen.calls(), 1)
	assert.Equal(t, "Convert the following pseudocode to c++ 17:\n  loop i\n\t  print i  ", gen.calls()[0])
}

func TestGenerateDefaultsLanguage(t *testing.T) {
	gen := &fakeGenerator{text: "console.log('hi')"}
	f := newRelayFixture(gen)

	w := f.post("/generate", `{"pseudocode":"say hi"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, gen.calls(), 1)
	assert.Equal(t, "Convert the following pseudocode to javascript:\nsay hi", gen.calls()[0])
}

func TestGenerateRejectsMissingPseudocode(t *testing.T) {
	bodies := map[string]string{
		"empty":           `{"pseudocode":"","language":"python"}`,
		"whitespace only": `{"pseudocode":"  \n\t ","language":"python"}`,
		"missing field":   `{"language":"python"}`,
		"malformed json":  `{"pseudocode":`,
		"no body":         ``,
		"wrong type":      `{"pseudocode":42}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{text: "unused"}
			f := newRelayFixture(gen)

			w := f.post("/generate", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Pseudocode input is required."}`, w.Body.String())
			assert.Empty(t, gen.calls(), "no upstream call expected")
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("generate", metrics.OutcomeInvalid)))
		})
	}
}

func TestGenerateUpstreamFailureHidesCause(t *testing.T) {
	gen := &fakeGenerator{err: &inference.UpstreamStatusError{StatusCode: 401, Body: "Invalid token hf_secret"}}
	f := newRelayFixture(gen)

	w := f.post("/generate", `{"pseudocode":"print hello","language":"python"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to generate code."}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "hf_secret")
	assert.Len(t, gen.calls(), 1)
}

func TestSolveSuccess(t *testing.T) {
	gen := &fakeGenerator{text: "def add(a, b): return a + b"}
	f := newRelayFixture(gen)

	w := f.post("/solve", `{"problemStatement":"sum two numbers"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"solution":"def add(a, b): return a + b"}`, w.Body.String())
	require.Len(t, gen.calls(), 1)
	assert.Equal(t, "Solve the following problem: sum two numbers", gen.calls()[0])
}

func TestSolveRejectsMissingProblem(t *testing.T) {
	for _, body := range []string{`{"problemStatement":""}`, `{"problemStatement":"   "}`, `{}`, `not json`} {
		gen := &fakeGenerator{}
		f := newRelayFixture(gen)

		w := f.post("/solve", body)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Problem statement is required."}`, w.Body.String())
		assert.Empty(t, gen.calls())
	}
}

func TestSolveUpstreamFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("dial tcp: connection refused")}
	f := newRelayFixture(gen)

	w := f.post("/solve", `{"problemStatement":"sum two numbers"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch response."}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("solve", metrics.OutcomeUpstreamError)))
}

func TestRelayRecordsExchange(t *testing.T) {
	gen := &fakeGenerator{text: "print('hello')"}
	f := newRelayFixture(gen)

	req := httptest.NewRequest(http.MethodPost, "/generate", bytes.NewBufferString(`{"pseudocode":"print hello","language":"python"}`))
	req.Header.Set(middleware.RequestIDHeader, "req-7")
	f.router.ServeHTTP(httptest.NewRecorder(), req)
	f.journal.Wait()

	require.Len(t, f.sink.exchanges, 1)
	ex := f.sink.exchanges[0]
	assert.Equal(t, "req-7", ex.RequestID)
	assert.Equal(t, "generate", ex.Intent)
	assert.Equal(t, "python", ex.Target)
	assert.Equal(t, "fake", ex.Provider)
	assert.Equal(t, "test-model", ex.Model)
	assert.Equal(t, len("Convert the following pseudocode to python:\nprint hello"), ex.PromptLength)
	assert.Equal(t, len("print('hello')"), ex.ResultLength)
	assert.Equal(t, journal.OutcomeOK, ex.Outcome)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Requests.WithLabelValues("generate", metrics.OutcomeOK)))
}

func TestRelayAgainstHostedEndpoint(t *testing.T) {
	var upstreamCalls int
	var mu sync.Mutex
	status := http.StatusOK
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		upstreamCalls++
		code := status
		mu.Unlock()
		w.WriteHeader(code)
		if code == http.StatusOK {
			_, _ = w.Write([]byte(`[{"generated_text":"X"}]`))
			return
		}
		_, _ = w.Write([]byte(`{"error":"rate limit reached for hf_secret"}`))
	}))
	defer upstream.Close()

	f := newRelayFixture(inference.NewHostedClient(upstream.URL, "m", "k", time.Second))

	w := f.post("/generate", `{"pseudocode":"anything","language":"go"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":"X"}`, w.Body.String())

	mu.Lock()
	status = http.StatusTooManyRequests
	mu.Unlock()

	w = f.post("/solve", `{"problemStatement":"anything"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch response."}`, w.Body.String())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, upstreamCalls)
}
