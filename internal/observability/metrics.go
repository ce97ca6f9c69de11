package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aichat_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	httpRateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_http_rate_limited_total",
			Help: "Total number of requests rejected by the per-client rate limiter.",
		},
		[]string{"route"},
	)

	authFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aichat_auth_failures_total",
			Help: "Requests rejected by token authentication, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDurationSeconds, httpRateLimitedTotal, authFailuresTotal)
}

func IncrementAuthFailure(reason string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
}

func IncrementRateLimited(route string) {
	httpRateLimitedTotal.WithLabelValues(route).Inc()
}
