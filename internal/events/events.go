// Package events publishes audit events for downstream consumers whenever
// the agent submits a reconciled record.
package events

import "time"

// EventTypeRecordSubmitted is the header value stamped on submission events.
const EventTypeRecordSubmitted = "record.submitted"

// RecordSubmitted is the message emitted after a step record is accepted by
// the backend.
type RecordSubmitted struct {
	FBID          string    `json:"fbid"`
	ParticipantID int       `json:"participant_id"`
	Date          time.Time `json:"date"`
	Distance      int       `json:"distance"`
	SourceID      int       `json:"source_id"`
	IntervalStart time.Time `json:"interval_start"`
}
