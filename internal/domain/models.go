// Package domain defines the walking-challenge data model shared by the
// reconciliation engine and the backend client.
package domain

import "time"

// Participant is a challenge participant as returned by the backend.
// The agent only reads participants; it never mutates the record collection.
type Participant struct {
	ID           int
	FBID         string
	Records      []Record
	CurrentEvent *Event
}

// Record is a single step-count submission attributed to a participant.
// ID is nil for records that have not been created on the backend yet.
type Record struct {
	ID       *int
	Date     time.Time
	Distance int
	FBID     string
	Source   *Source
}

// Source identifies the authoritative origin of step data ("HealthKit",
// "Fitbit"). Immutable reference data owned by the backend.
type Source struct {
	ID   int
	Name string
}

// Event is a challenge a participant is enrolled in.
type Event struct {
	ID             int
	ChallengePhase ChallengePhase
}

// ChallengePhase bounds the active window of a challenge. Its start date is
// the fallback anchor when a participant has no records yet.
type ChallengePhase struct {
	Start time.Time
	End   time.Time
}

// ParticipantFromJSON decodes a participant from a loose JSON object.
// Returns nil unless id and fbid are present and well typed. Records that
// fail to decode are skipped rather than failing the participant.
func ParticipantFromJSON(value any) *Participant {
	obj := asObject(value)
	if obj == nil {
		return nil
	}
	id, ok := asInt(obj["id"])
	if !ok {
		return nil
	}
	fbid, ok := asString(obj["fbid"])
	if !ok {
		return nil
	}

	p := &Participant{ID: id, FBID: fbid}
	for _, raw := range asArray(obj["records"]) {
		if record := RecordFromJSON(raw); record != nil {
			p.Records = append(p.Records, *record)
		}
	}
	p.CurrentEvent = EventFromJSON(obj["current_event"])
	return p
}

// RecordFromJSON decodes a record from a loose JSON object. Returns nil
// unless date, distance, and participant_id are present and well typed.
// A date string that fails to parse falls back to the current instant; the
// backend has always emitted records that way for rows created without an
// explicit timestamp, so absence of a parseable date means "created now",
// not a corrupt row.
func RecordFromJSON(value any) *Record {
	obj := asObject(value)
	if obj == nil {
		return nil
	}
	rawDate, ok := asString(obj["date"])
	if !ok {
		return nil
	}
	distance, ok := asInt(obj["distance"])
	if !ok {
		return nil
	}
	fbid, ok := asString(obj["participant_id"])
	if !ok {
		return nil
	}

	record := &Record{Distance: distance, FBID: fbid}
	if id, ok := asInt(obj["id"]); ok {
		record.ID = &id
	}
	if date, err := ParseTime(rawDate); err == nil {
		record.Date = date
	} else {
		record.Date = time.Now().UTC().Truncate(time.Second)
	}
	if source, ok := obj["source"]; ok {
		record.Source = SourceFromJSON(source)
	}
	return record
}

// SourceFromJSON decodes a source from a loose JSON object. Returns nil
// unless id and name are present and well typed.
func SourceFromJSON(value any) *Source {
	obj := asObject(value)
	if obj == nil {
		return nil
	}
	id, ok := asInt(obj["id"])
	if !ok {
		return nil
	}
	name, ok := asString(obj["name"])
	if !ok {
		return nil
	}
	return &Source{ID: id, Name: name}
}

// EventFromJSON decodes an event from a loose JSON object. Returns nil
// unless id and a fully parseable challenge_phase are present.
func EventFromJSON(value any) *Event {
	obj := asObject(value)
	if obj == nil {
		return nil
	}
	id, ok := asInt(obj["id"])
	if !ok {
		return nil
	}
	phase := asObject(obj["challenge_phase"])
	if phase == nil {
		return nil
	}
	rawStart, ok := asString(phase["start"])
	if !ok {
		return nil
	}
	rawEnd, ok := asString(phase["end"])
	if !ok {
		return nil
	}
	start, err := ParseTime(rawStart)
	if err != nil {
		return nil
	}
	end, err := ParseTime(rawEnd)
	if err != nil {
		return nil
	}
	return &Event{ID: id, ChallengePhase: ChallengePhase{Start: start, End: end}}
}

func asObject(value any) map[string]any {
	obj, _ := value.(map[string]any)
	return obj
}

func asArray(value any) []any {
	arr, _ := value.([]any)
	return arr
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

// asInt accepts both native ints and the float64 values encoding/json
// produces for JSON numbers. Non-integral floats are rejected.
func asInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
