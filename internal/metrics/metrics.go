package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered with the default registry through promauto,
// which is what promhttp.Handler() exposes on /metrics.

var (
	// ==================== HTTP METRICS ====================

	// HTTPRequestDuration tracks the duration of HTTP requests
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsTotal counts total HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsInFlight tracks currently processing requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// ==================== AUTH METRICS ====================

	// AuthFailuresTotal counts requests rejected by the bearer token check
	AuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of requests rejected as unauthorized",
		},
	)

	// ==================== BUSINESS METRICS ====================

	// RoutesCreatedTotal counts routes created
	RoutesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "routes_created_total",
			Help: "Total number of routes created",
		},
	)

	// RoutesDeletedTotal counts routes deleted
	RoutesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "routes_deleted_total",
			Help: "Total number of routes deleted",
		},
	)

	// RedirectsTotal counts successful redirects
	RedirectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Total number of successful redirects",
		},
	)

	// RedirectMissesTotal counts lookups for keys that are not in the table
	RedirectMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirect_misses_total",
			Help: "Total number of redirect lookups for unknown keys",
		},
	)

	// RoutesGauge tracks the size of the route table
	RoutesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "routes",
			Help: "Number of routes in the route table",
		},
	)

	// ==================== STORAGE METRICS ====================

	// PersistDuration tracks how long a full rewrite of the route file takes
	PersistDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "route_file_persist_duration_seconds",
			Help:    "Duration of route file rewrites in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	// PersistErrorsTotal counts failed rewrites of the route file
	PersistErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "route_file_persist_errors_total",
			Help: "Total number of failed route file rewrites",
		},
	)
)

// RecordAuthFailure increments the unauthorized request counter
func RecordAuthFailure() {
	AuthFailuresTotal.Inc()
}

// RecordRouteCreated increments route creation counter
func RecordRouteCreated() {
	RoutesCreatedTotal.Inc()
}

// RecordRouteDeleted increments route deletion counter
func RecordRouteDeleted() {
	RoutesDeletedTotal.Inc()
}

// RecordRedirect increments redirect counter
func RecordRedirect() {
	RedirectsTotal.Inc()
}

// RecordRedirectMiss increments the unknown key counter
func RecordRedirectMiss() {
	RedirectMissesTotal.Inc()
}

// SetRouteCount sets the route table size
func SetRouteCount(n int) {
	RoutesGauge.Set(float64(n))
}

// RecordPersistError increments the failed rewrite counter
func RecordPersistError() {
	PersistErrorsTotal.Inc()
}
