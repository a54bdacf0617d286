// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmorate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)

	// RateLimitHits counts requests rejected by the rate limiter.
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmorate_rate_limit_hits_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	// LikeOperations counts like graph mutations by action and outcome.
	LikeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_like_operations_total",
			Help: "Like graph mutations",
		},
		[]string{"action", "outcome"},
	)

	// FriendshipOperations counts friendship graph mutations by action.
	FriendshipOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_friendship_operations_total",
			Help: "Friendship graph mutations",
		},
		[]string{"action"},
	)

	// ReferenceCacheLookups counts rating/genre cache lookups by cache and result.
	ReferenceCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmorate_reference_cache_lookups_total",
			Help: "Reference data cache lookups",
		},
		[]string{"cache", "result"},
	)

	// CircuitBreakerState reports breaker state: 0=closed, 1=half-open, 2=open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filmorate_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
