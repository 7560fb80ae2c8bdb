// ABOUTME: Prometheus counters and histograms for JSON-RPC requests and tool calls.
// ABOUTME: Each Metrics owns its registry so several servers can coexist in one process.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prefix is prepended to every metric name.
const Prefix = "cassini_mcp_"

// Tool call outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics records dispatcher activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
}

// New creates Metrics registered on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: Prefix + "requests_total",
			Help: "Number of JSON-RPC requests grouped by method and response code (0 for success)",
		}, []string{"method", "code"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: Prefix + "tool_calls_total",
			Help: "Number of tools/call invocations grouped by tool and outcome",
		}, []string{"tool", "outcome"}),
		toolDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    Prefix + "tool_call_duration_seconds",
			Help:    "Time spent executing tools",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"tool"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: Prefix + "cache_lookups_total",
			Help: "Observation cache lookups grouped by result (hit or miss)",
		}, []string{"result"}),
	}
}

// RecordRequest counts one dispatched request. Unknown methods are folded
// into a single label value to keep cardinality bounded.
func (m *Metrics) RecordRequest(method string, known bool, code int) {
	if m == nil {
		return
	}
	if !known {
		method = "unknown"
	}
	m.requests.With(prometheus.Labels{"method": method, "code": strconv.Itoa(code)}).Inc()
}

// RecordToolCall counts one tool invocation and observes its duration.
func (m *Metrics) RecordToolCall(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.With(prometheus.Labels{"tool": tool, "outcome": outcome}).Inc()
	if outcome != OutcomeNotFound {
		m.toolDuration.With(prometheus.Labels{"tool": tool}).Observe(elapsed.Seconds())
	}
}

// RecordCacheLookup counts one cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.With(prometheus.Labels{"result": result}).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
