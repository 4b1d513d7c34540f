package pipeline

import "github.com/prometheus/client_golang/prometheus"

var (
	completionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "infilld",
			Subsystem: "pipeline",
			Name:      "completions_total",
			Help:      "Completion requests by terminal outcome",
		},
		[]string{"outcome"},
	)

	debounceSupersededTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "infilld",
			Subsystem: "pipeline",
			Name:      "debounce_superseded_total",
			Help:      "Triggers coalesced away by a newer trigger during debounce",
		},
	)

	breakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "infilld",
			Subsystem: "breaker",
			Name:      "state",
			Help:      "Circuit breaker state (0=closed, 1=half_open, 2=open)",
		},
	)

	backendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "infilld",
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Duration of outbound infill calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(completionsTotal, debounceSupersededTotal, breakerState, backendDuration)
}
