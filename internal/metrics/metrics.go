// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "licensing_console"

// Metrics groups the console's collectors. Each instance owns its registry
// so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec

	purchasesTotal *prometheus.CounterVec
	claimsTotal    *prometheus.CounterVec
	activeLocks    *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight console HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of console HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Console HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		backendRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests made to the licensing backend.",
		}, []string{"method", "path", "status"}),
		backendRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Licensing backend round trip latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		purchasesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "License purchase attempts by the stage they ended at.",
		}, []string{"stage"}),
		claimsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Revenue claim attempts by outcome.",
		}, []string{"outcome"}),
		activeLocks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "processing_locks",
			Help:      "Purchases and claims currently holding their per-item lock.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.backendRequestsTotal,
		m.backendRequestDuration,
		m.purchasesTotal,
		m.claimsTotal,
		m.activeLocks,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument records console request counts and latencies. Routes are
// labelled by their pattern, not the raw path, to bound cardinality.
func (m *Metrics) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.httpInFlight.Inc()
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpInFlight.Dec()
	}
}

// ObserveBackend matches the backend client's observe hook.
func (m *Metrics) ObserveBackend(method, path string, status int, elapsed time.Duration) {
	m.backendRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.backendRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// PurchaseEnded counts a purchase attempt that finished at stage.
func (m *Metrics) PurchaseEnded(stage string) {
	m.purchasesTotal.WithLabelValues(stage).Inc()
}

// ClaimEnded counts a claim attempt by outcome.
func (m *Metrics) ClaimEnded(outcome string) {
	m.claimsTotal.WithLabelValues(outcome).Inc()
}

// LockHeld tracks a per-item lock; call the returned func on release.
func (m *Metrics) LockHeld(kind string) func() {
	g := m.activeLocks.WithLabelValues(kind)
	g.Inc()
	return g.Dec
}
