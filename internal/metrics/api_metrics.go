package metrics

import "github.com/prometheus/client_golang/prometheus"

// API client counter vectors
var (
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of GraphQL requests by operation and outcome",
	}, []string{"operation", "outcome"})

	APICacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_cache_lookups_total",
		Help:      "Total number of query cache lookups by operation and result",
	}, []string{"operation", "result"})

	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_circuit_breaker_trips_total",
		Help:      "Total number of API circuit breaker trips",
	})
)

// API client histogram vectors
var (
	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of GraphQL requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

// RecordAPIRequest records a completed GraphQL request.
func RecordAPIRequest(operation, outcome string, durationSeconds float64) {
	APIRequestsTotal.WithLabelValues(operation, outcome).Inc()
	APIRequestDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordCacheLookup records a query cache hit or miss.
func RecordCacheLookup(operation string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	APICacheLookupsTotal.WithLabelValues(operation, result).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
