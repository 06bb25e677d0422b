package soak

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "mstd"
	subsystem = "soak"
)

var (
	// Rounds counts rounds by result: passed, failed or aborted.
	Rounds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rounds_total",
			Help:      "Total number of soak rounds by result.",
		},
		[]string{"result"},
	)

	// CheckFailures counts failed checks by name.
	CheckFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "check_failures_total",
			Help:      "Total number of failed soak checks.",
		},
		[]string{"check"},
	)

	// RoundDuration observes how long completed rounds take.
	RoundDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "round_duration_seconds",
			Help:      "Duration of completed soak rounds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	// Destroyed counts objects destroyed by soak checks.
	Destroyed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "objects_destroyed_total",
			Help:      "Total number of counted objects destroyed by soak checks.",
		},
	)

	// LastRound is the unix time the last completed round finished.
	LastRound = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_round_timestamp_seconds",
			Help:      "Unix time of the last completed soak round.",
		},
	)
)

// RegisterMetrics registers the soak metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Rounds)
	reg.MustRegister(CheckFailures)
	reg.MustRegister(RoundDuration)
	reg.MustRegister(Destroyed)
	reg.MustRegister(LastRound)
}
