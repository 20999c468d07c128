// Package metrics provides the Prometheus registry for the paddock client.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "p10"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BetMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bet_mutations_total",
		Help:      "Total number of bet mutations by action and outcome",
	}, []string{"action", "outcome"})
	SessionTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions by target state",
	}, []string{"state"})
	CountdownTicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "countdown_ticks_total",
		Help:      "Total number of countdown recomputations",
	})
)

// Gauge metrics
var (
	CountdownSecondsRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "countdown_seconds_remaining",
		Help:      "Seconds remaining until the watched race starts",
	})
	NextRaceStartTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "next_race_start_timestamp_seconds",
		Help:      "Unix start time of the next Grand Prix",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BetMutationsTotal)
		registry.MustRegister(SessionTransitionsTotal)
		registry.MustRegister(CountdownTicksTotal)

		registry.MustRegister(CountdownSecondsRemaining)
		registry.MustRegister(NextRaceStartTimestamp)

		// API client metrics
		registry.MustRegister(APIRequestsTotal)
		registry.MustRegister(APIRequestDuration)
		registry.MustRegister(APICacheLookupsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Watch mode metrics
		registry.MustRegister(WatchPollsTotal)
		registry.MustRegister(WatchPollDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBetMutation records a create, update or delete of a bet.
func RecordBetMutation(action, outcome string) {
	BetMutationsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordSessionTransition records a session state change.
func RecordSessionTransition(state string) {
	SessionTransitionsTotal.WithLabelValues(state).Inc()
}

// UpdateNextRaceStart sets the start time gauge of the next race.
func UpdateNextRaceStart(unixSeconds float64) {
	NextRaceStartTimestamp.Set(unixSeconds)
}
