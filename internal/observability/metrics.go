package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	passCompletedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stepsync",
		Subsystem: "reconcile",
		Name:      "last_pass_timestamp_seconds",
		Help:      "Unix timestamp of the most recent completed reconciliation pass.",
	})
	recordSubmittedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stepsync",
		Subsystem: "reconcile",
		Name:      "last_record_date_seconds",
		Help:      "Unix timestamp of the date on the most recently submitted record.",
	})
)

func init() {
	prometheus.MustRegister(passCompletedGauge, recordSubmittedGauge)
}

// RecordPassCompleted updates the pass watermark gauge.
func RecordPassCompleted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	passCompletedGauge.Set(float64(ts.Unix()))
}

// RecordSubmission updates the submitted-record watermark gauge.
func RecordSubmission(date time.Time) {
	if date.IsZero() {
		return
	}
	recordSubmittedGauge.Set(float64(date.Unix()))
}
