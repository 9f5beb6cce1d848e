package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	passesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stepsync",
		Subsystem: "reconcile",
		Name:      "passes_total",
		Help:      "Reconciliation passes by outcome.",
	}, []string{"outcome"})
	passDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stepsync",
		Subsystem: "reconcile",
		Name:      "pass_duration_seconds",
		Help:      "Wall-clock duration of reconciliation passes.",
		Buckets:   prometheus.DefBuckets,
	})
	stepsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stepsync",
		Subsystem: "reconcile",
		Name:      "steps_submitted_total",
		Help:      "Total steps submitted to the backend.",
	})
)

func init() {
	prometheus.MustRegister(passesTotal, passDuration, stepsSubmitted)
}

func recordPass(outcome Outcome, elapsed time.Duration) {
	passesTotal.WithLabelValues(string(outcome)).Inc()
	passDuration.Observe(elapsed.Seconds())
}

func recordSteps(steps int) {
	if steps > 0 {
		stepsSubmitted.Add(float64(steps))
	}
}
