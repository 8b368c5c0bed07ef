package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "browsefilms"

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	tmdbRequests      *prometheus.CounterVec
	tmdbDuration      *prometheus.HistogramVec
	wishlistMutations *prometheus.CounterVec
	activeSessions    prometheus.Gauge
	httpRequests      *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tmdbRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tmdb_requests_total",
			Help:      "Outbound TMDB requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		tmdbDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tmdb_request_duration_seconds",
			Help:      "Outbound TMDB request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		wishlistMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wishlist_mutations_total",
			Help:      "Wishlist mutations by operation.",
		}, []string{"op"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently holding a wishlist.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		m.tmdbRequests,
		m.tmdbDuration,
		m.wishlistMutations,
		m.activeSessions,
		m.httpRequests,
		collectors.NewGoCollector(),
	)

	return m
}

// ObserveTMDB records one outbound request
func (m *Metrics) ObserveTMDB(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.tmdbRequests.WithLabelValues(endpoint, outcome).Inc()
	m.tmdbDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// WishlistMutation counts a wishlist operation
func (m *Metrics) WishlistMutation(op string) {
	if m == nil {
		return
	}
	m.wishlistMutations.WithLabelValues(op).Inc()
}

// SetActiveSessions updates the session gauge
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// HTTPRequest counts an inbound request
func (m *Metrics) HTTPRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
