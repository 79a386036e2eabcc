package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LoginCounter counts login attempts.
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_login_total",
			Help: "Total number of login attempts",
		},
	)

	// RegistrationCounter counts tenant registrations.
	RegistrationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_tenant_registrations_total",
			Help: "Total number of tenant registrations",
		},
	)

	// AuthErrorCounter counts authentication failures by type.
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // missing_token, invalid_token, invalid_credentials, ...
	)

	// HTTPRequestCounter counts HTTP requests by route, method, and status.
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

func init() {
	prometheus.MustRegister(
		LoginCounter,
		RegistrationCounter,
		AuthErrorCounter,
		HTTPRequestCounter,
		HTTPRequestDuration,
	)
}

// RecordAuthError increments the auth error counter for the given type.
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}
