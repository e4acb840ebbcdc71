package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	ticketUpdates   *prometheus.CounterVec
	idCollisions    prometheus.Counter
}

// NewMetrics registers collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Error responses by route, method and error code.",
		}, []string{"path", "method", "code"}),
		ticketUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_updates_total",
			Help: "Ticket update attempts by outcome.",
		}, []string{"result"}),
		idCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticket_id_collisions_total",
			Help: "Ticket id candidates rejected because they were already taken.",
		}),
	}
	reg.MustRegister(
		m.requests, m.requestDuration, m.errors, m.ticketUpdates, m.idCollisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordTicketUpdate counts an update outcome (applied, noop, conflict, failed).
func (m *Metrics) RecordTicketUpdate(result string) {
	if m == nil {
		return
	}
	m.ticketUpdates.WithLabelValues(result).Inc()
}

// RecordIDCollision counts a rejected ticket id candidate.
func (m *Metrics) RecordIDCollision() {
	if m == nil {
		return
	}
	m.idCollisions.Inc()
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
