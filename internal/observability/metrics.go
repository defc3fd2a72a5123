package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/arena-streams/internal/platform/resilience"
)

// Upstream request outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeStatusError = "status_error"
	OutcomeTransport   = "transport_error"
	OutcomeDecodeError = "decode_error"
	OutcomeRejected    = "circuit_open"
)

// Metrics holds the service collectors. A nil *Metrics records nothing, so
// components can be built without instrumentation in tests.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	circuitState     *prometheus.GaugeVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewMetrics registers the service collectors plus the Go runtime and
// process collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_upstream_requests_total",
			Help: "Requests sent to the schedule provider by resource and outcome.",
		}, []string{"resource", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arena_upstream_request_duration_seconds",
			Help:    "Schedule provider request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
		circuitState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arena_upstream_circuit_state",
			Help: "Circuit breaker state per dependency: 0 closed, 1 half-open, 2 open.",
		}, []string{"dependency"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_http_requests_total",
			Help: "HTTP requests handled by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arena_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.upstreamRequests,
		m.upstreamDuration,
		m.circuitState,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) ObserveUpstream(resource, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(resource, outcome).Inc()
	if outcome != OutcomeRejected {
		m.upstreamDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
	}
}

// CircuitListener returns a breaker listener that mirrors transitions into
// the circuit state gauge.
func (m *Metrics) CircuitListener() resilience.StateListener {
	return func(name string, _, to resilience.CircuitState) {
		m.SetCircuitState(name, to)
	}
}

func (m *Metrics) SetCircuitState(dependency string, state resilience.CircuitState) {
	if m == nil {
		return
	}
	value := 0.0
	switch state {
	case resilience.CircuitStateHalfOpen:
		value = 1
	case resilience.CircuitStateOpen:
		value = 2
	}
	m.circuitState.WithLabelValues(dependency).Set(value)
}

// ObserveHTTP records a served request. route must be the matched mux
// pattern, never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
