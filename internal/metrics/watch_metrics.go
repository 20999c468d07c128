package metrics

import "github.com/prometheus/client_golang/prometheus"

// Watch mode metrics
var (
	WatchPollsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watch_polls_total",
		Help:      "Total number of watch polling jobs by job and status",
	}, []string{"job", "status"})

	WatchPollDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "watch_poll_duration_seconds",
		Help:      "Duration of watch polling jobs in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"job"})
)

// RecordWatchPoll records a finished polling job.
func RecordWatchPoll(job, status string, durationSeconds float64) {
	WatchPollsTotal.WithLabelValues(job, status).Inc()
	WatchPollDuration.WithLabelValues(job).Observe(durationSeconds)
}
