// Package pedometer abstracts the concrete sources of on-device step data.
// Exactly one provider is active per sync cycle, selected by the source the
// user authorized; there is no multi-source aggregation.
package pedometer

import (
	"context"
	"errors"
	"time"
)

// SourceKind names a step-data source as the backend knows it.
type SourceKind string

const (
	SourceHealthKit SourceKind = "HealthKit"
	SourceFitbit    SourceKind = "Fitbit"
)

// ParseSourceKind maps a stored value to a known source kind. The second
// return is false for unknown or empty values.
func ParseSourceKind(value string) (SourceKind, bool) {
	switch SourceKind(value) {
	case SourceHealthKit:
		return SourceHealthKit, true
	case SourceFitbit:
		return SourceFitbit, true
	default:
		return "", false
	}
}

// Interval is a half-open time range [Start, End) steps are counted over.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval's length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// ErrNotAuthorized indicates the provider has no authorization to read
// step data.
var ErrNotAuthorized = errors.New("pedometer source not authorized")

// ErrNoData indicates the provider holds no samples for the interval.
var ErrNoData = errors.New("no step data for interval")

// Provider answers how many steps were taken in an interval. Failures are
// reported as errors the caller logs and treats as "skip this cycle".
type Provider interface {
	StepCount(ctx context.Context, interval Interval) (int, error)
}
