// Package metrics exposes Prometheus instrumentation for the HTTP gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for tool invocations.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// Metrics holds the gateway's collectors behind a private registry, so tests
// can create isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
}

// New creates a Metrics set under the given namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool invocations by service, tool and outcome.",
		}, []string{"service", "tool", "outcome"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool invocation latency by service and tool.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "tool"}),
	}
}

// ObserveToolCall records one tool invocation.
func (m *Metrics) ObserveToolCall(service, toolName, outcome string, elapsed time.Duration) {
	m.toolCalls.WithLabelValues(service, toolName, outcome).Inc()
	m.toolDuration.WithLabelValues(service, toolName).Observe(elapsed.Seconds())
}

// Handler serves the scrape endpoint for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
