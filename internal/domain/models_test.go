package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var value any
	require.NoError(t, json.Unmarshal([]byte(raw), &value))
	return value
}

func TestRecordFromJSONRequiredFields(t *testing.T) {
	record := RecordFromJSON(decode(t, `{
		"id": 7,
		"date": "2024-01-20T00:00:00Z",
		"distance": 4200,
		"participant_id": "fb-123",
		"source": {"id": 2, "name": "HealthKit"}
	}`))
	require.NotNil(t, record)
	require.NotNil(t, record.ID)
	require.Equal(t, 7, *record.ID)
	require.Equal(t, 4200, record.Distance)
	require.Equal(t, "fb-123", record.FBID)
	require.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), record.Date)
	require.NotNil(t, record.Source)
	require.Equal(t, "HealthKit", record.Source.Name)
}

func TestRecordFromJSONMissingDistance(t *testing.T) {
	record := RecordFromJSON(decode(t, `{
		"date": "2024-01-20T00:00:00Z",
		"participant_id": "fb-123"
	}`))
	require.Nil(t, record)
}

func TestRecordFromJSONZeroDistanceIsValid(t *testing.T) {
	record := RecordFromJSON(decode(t, `{
		"date": "2024-01-20T00:00:00Z",
		"distance": 0,
		"participant_id": "fb-123"
	}`))
	require.NotNil(t, record)
	require.Equal(t, 0, record.Distance)
}

func TestRecordFromJSONOptionalFieldsAbsorbed(t *testing.T) {
	record := RecordFromJSON(decode(t, `{
		"date": "2024-01-20T00:00:00Z",
		"distance": 10,
		"participant_id": "fb-123",
		"source": {"name": "missing id"}
	}`))
	require.NotNil(t, record)
	require.Nil(t, record.ID)
	require.Nil(t, record.Source)
}

func TestRecordFromJSONMalformedDateFallsBackToNow(t *testing.T) {
	before := time.Now().UTC().Add(-2 * time.Second)
	record := RecordFromJSON(decode(t, `{
		"date": "not-a-date",
		"distance": 10,
		"participant_id": "fb-123"
	}`))
	after := time.Now().UTC().Add(2 * time.Second)

	require.NotNil(t, record)
	require.True(t, record.Date.After(before) && record.Date.Before(after),
		"fallback date %v outside [%v, %v]", record.Date, before, after)
}

func TestRecordFromJSONNonObject(t *testing.T) {
	require.Nil(t, RecordFromJSON(nil))
	require.Nil(t, RecordFromJSON("record"))
}

func TestParticipantFromJSONSkipsBadRecords(t *testing.T) {
	participant := ParticipantFromJSON(decode(t, `{
		"id": 1,
		"fbid": "fb-123",
		"records": [
			{"date": "2024-01-14T00:00:00Z", "distance": 100, "participant_id": "fb-123"},
			{"distance": 5},
			{"date": "2024-01-15T00:00:00Z", "distance": 200, "participant_id": "fb-123"}
		]
	}`))
	require.NotNil(t, participant)
	require.Len(t, participant.Records, 2)
	require.Nil(t, participant.CurrentEvent)
}

func TestParticipantFromJSONCurrentEvent(t *testing.T) {
	participant := ParticipantFromJSON(decode(t, `{
		"id": 1,
		"fbid": "fb-123",
		"current_event": {
			"id": 9,
			"challenge_phase": {"start": "2024-01-14T00:00:00Z", "end": "2024-02-14T00:00:00Z"}
		}
	}`))
	require.NotNil(t, participant)
	require.NotNil(t, participant.CurrentEvent)
	require.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), participant.CurrentEvent.ChallengePhase.Start)
}

func TestParticipantFromJSONMissingIdentity(t *testing.T) {
	require.Nil(t, ParticipantFromJSON(decode(t, `{"fbid": "fb-123"}`)))
	require.Nil(t, ParticipantFromJSON(decode(t, `{"id": 1}`)))
}

func TestEventFromJSONRejectsUnparseablePhase(t *testing.T) {
	require.Nil(t, EventFromJSON(decode(t, `{
		"id": 9,
		"challenge_phase": {"start": "soon", "end": "2024-02-14T00:00:00Z"}
	}`)))
	require.Nil(t, EventFromJSON(decode(t, `{"id": 9}`)))
}

func TestTimeRoundTrip(t *testing.T) {
	instant := time.Date(2024, 1, 20, 13, 37, 42, 999999999, time.UTC)
	parsed, err := ParseTime(FormatTime(instant))
	require.NoError(t, err)
	require.Equal(t, instant.Truncate(time.Second), parsed)
}
