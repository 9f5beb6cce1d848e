package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.HealthCheck(context.Background()))
	require.Equal(t, "/", path)
}

func TestHealthCheckNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.HealthCheck(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Error(t, transportErr.Cause)
}

func TestMalformedBaseURLFailsWithoutNetwork(t *testing.T) {
	client := NewClient("not a url")
	err := client.HealthCheck(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Nil(t, transportErr.Cause)
}

func TestGetParticipant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/participants/fb-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 42,
			"fbid": "fb-123",
			"records": [{"date": "2024-01-14T00:00:00Z", "distance": 100, "participant_id": "fb-123"}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	participant, err := client.GetParticipant(context.Background(), "fb-123")
	require.NoError(t, err)
	require.NotNil(t, participant)
	require.Equal(t, 42, participant.ID)
	require.Len(t, participant.Records, 1)
}

func TestGetParticipantUndecodableBodyIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	participant, err := client.GetParticipant(context.Background(), "fb-123")
	require.NoError(t, err)
	require.Nil(t, participant)
}

func TestGetSourceByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sources", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Fitbit"},
			{"id": 2, "name": "HealthKit"},
			{"malformed": true}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	source, err := client.GetSourceByName(context.Background(), "HealthKit")
	require.NoError(t, err)
	require.NotNil(t, source)
	require.Equal(t, 2, source.ID)

	source, err = client.GetSourceByName(context.Background(), "Garmin")
	require.NoError(t, err)
	require.Nil(t, source)
}

func TestCreateRecord(t *testing.T) {
	var (
		body   map[string]any
		keys   []string
		method string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		require.Equal(t, "/records", r.URL.Path)
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	input := CreateRecordInput{
		ParticipantID: 42,
		Date:          time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Distance:      4200,
		SourceID:      2,
	}
	require.NoError(t, client.CreateRecord(context.Background(), input))
	require.NoError(t, client.CreateRecord(context.Background(), input))

	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "2024-01-20T00:00:00Z", body["date"])
	require.Equal(t, float64(4200), body["distance"])
	require.Equal(t, float64(42), body["participant_id"])
	require.Equal(t, float64(2), body["source_id"])

	require.Len(t, keys, 2)
	require.NotEmpty(t, keys[0])
	require.NotEqual(t, keys[0], keys[1], "each submission gets a fresh idempotency key")
}

func TestJoinAndLeaveTeam(t *testing.T) {
	var bodies []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/participants/fb-123", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.JoinTeam(context.Background(), "fb-123", 5))
	require.NoError(t, client.LeaveTeam(context.Background(), "fb-123"))

	require.Len(t, bodies, 2)
	require.Equal(t, float64(5), bodies[0]["team_id"])
	val, ok := bodies[1]["team_id"]
	require.True(t, ok)
	require.Nil(t, val)
}

func TestUndecodableBodyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetSources(context.Background())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL)
	err := client.HealthCheck(context.Background())
	require.Error(t, err)
	require.True(t, errors.As(err, new(*TransportError)))
}
