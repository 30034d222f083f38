// Package metrics holds the Prometheus collectors of the relay.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes
const (
	OutcomeOK            = "ok"
	OutcomeInvalid       = "invalid"
	OutcomeUpstreamError = "upstream_error"
)

// Metrics groups the relay collectors
type Metrics struct {
	Requests        *prometheus.CounterVec
	UpstreamLatency *prometheus.HistogramVec
}

// New registers the relay collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "requests_total",
			Help:      "Relay requests by intent and outcome.",
		}, []string{"intent", "outcome"}),
		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "relay",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of calls to the inference endpoint.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}, []string{"provider", "outcome"}),
	}
}

// ObserveRequest counts one handled request
func (m *Metrics) ObserveRequest(intent, outcome string) {
	m.Requests.WithLabelValues(intent, outcome).Inc()
}

// ObserveUpstream records the latency of one inference call
func (m *Metrics) ObserveUpstream(provider, outcome string, latency time.Duration) {
	m.UpstreamLatency.WithLabelValues(provider, outcome).Observe(latency.Seconds())
}

// Handler exposes the collectors gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
