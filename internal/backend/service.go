package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"example.com/stepsync/internal/domain"
)

// HealthCheck probes backend connectivity with a GET against the root path.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodGet, EndpointHealthcheck, nil, nil, nil)
	return err
}

// CreateParticipant registers a participant by Facebook id.
func (c *Client) CreateParticipant(ctx context.Context, fbid string) error {
	_, err := c.request(ctx, http.MethodPost, EndpointParticipants, nil, map[string]any{"fbid": fbid}, nil)
	return err
}

// GetParticipant fetches a participant by Facebook id. Returns (nil, nil)
// when the response does not decode to a participant; callers treat that the
// same as "not found".
func (c *Client) GetParticipant(ctx context.Context, fbid string) (*domain.Participant, error) {
	result, err := c.request(ctx, http.MethodGet, ParticipantEndpoint(fbid), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return domain.ParticipantFromJSON(result.Body), nil
}

// DeleteParticipant removes a participant.
func (c *Client) DeleteParticipant(ctx context.Context, fbid string) error {
	_, err := c.request(ctx, http.MethodDelete, ParticipantEndpoint(fbid), nil, nil, nil)
	return err
}

// CreateTeam creates a team led by the given participant.
func (c *Client) CreateTeam(ctx context.Context, name, leadFBID string) error {
	_, err := c.request(ctx, http.MethodPost, EndpointTeams, nil, map[string]any{"name": name, "creator_id": leadFBID}, nil)
	return err
}

// DeleteTeam removes a team.
func (c *Client) DeleteTeam(ctx context.Context, teamID int) error {
	_, err := c.request(ctx, http.MethodDelete, TeamEndpoint(teamID), nil, nil, nil)
	return err
}

// JoinTeam assigns the participant to a team.
func (c *Client) JoinTeam(ctx context.Context, fbid string, teamID int) error {
	_, err := c.request(ctx, http.MethodPatch, ParticipantEndpoint(fbid), nil, map[string]any{"team_id": teamID}, nil)
	return err
}

// LeaveTeam clears the participant's team assignment.
func (c *Client) LeaveTeam(ctx context.Context, fbid string) error {
	_, err := c.request(ctx, http.MethodPatch, ParticipantEndpoint(fbid), nil, map[string]any{"team_id": nil}, nil)
	return err
}

// GetEvent fetches an event by id. Returns (nil, nil) when the response does
// not decode to an event.
func (c *Client) GetEvent(ctx context.Context, eventID int) (*domain.Event, error) {
	result, err := c.request(ctx, http.MethodGet, EventEndpoint(eventID), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return domain.EventFromJSON(result.Body), nil
}

// GetRecord fetches a record by id. Returns (nil, nil) when the response
// does not decode to a record.
func (c *Client) GetRecord(ctx context.Context, recordID int) (*domain.Record, error) {
	result, err := c.request(ctx, http.MethodGet, RecordEndpoint(recordID), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return domain.RecordFromJSON(result.Body), nil
}

// CreateRecordInput is the payload for CreateRecord.
type CreateRecordInput struct {
	ParticipantID int
	Date          time.Time
	Distance      int
	SourceID      int
}

// CreateRecord submits a new step record. Each call carries a fresh
// Idempotency-Key header so the backend can collapse duplicate submissions
// from overlapping sync cycles.
func (c *Client) CreateRecord(ctx context.Context, input CreateRecordInput) error {
	header := http.Header{}
	header.Set("Idempotency-Key", uuid.NewString())

	_, err := c.request(ctx, http.MethodPost, EndpointRecords, nil, map[string]any{
		"date":           domain.FormatTime(input.Date),
		"distance":       input.Distance,
		"participant_id": input.ParticipantID,
		"source_id":      input.SourceID,
	}, header)
	return err
}

// GetSource fetches a source by id. Returns (nil, nil) when the response
// does not decode to a source.
func (c *Client) GetSource(ctx context.Context, sourceID int) (*domain.Source, error) {
	result, err := c.request(ctx, http.MethodGet, SourceEndpoint(sourceID), nil, nil, nil)
	if err != nil {
		return nil, err
	}
	return domain.SourceFromJSON(result.Body), nil
}

// GetSources lists all step-data sources known to the backend. Entries that
// fail to decode are skipped.
func (c *Client) GetSources(ctx context.Context) ([]domain.Source, error) {
	result, err := c.request(ctx, http.MethodGet, EndpointSources, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	raw, _ := result.Body.([]any)
	sources := make([]domain.Source, 0, len(raw))
	for _, item := range raw {
		if source := domain.SourceFromJSON(item); source != nil {
			sources = append(sources, *source)
		}
	}
	return sources, nil
}

// GetSourceByName resolves a source by its name. The backend has no filter
// parameter, so the full list is fetched and matched client-side. Returns
// (nil, nil) when no source carries the name.
func (c *Client) GetSourceByName(ctx context.Context, name string) (*domain.Source, error) {
	sources, err := c.GetSources(ctx)
	if err != nil {
		return nil, err
	}
	for _, source := range sources {
		if source.Name == name {
			return &source, nil
		}
	}
	return nil, nil
}

// JoinEvent commits the participant to an event with a step pledge.
func (c *Client) JoinEvent(ctx context.Context, fbid string, eventID, steps int) error {
	_, err := c.request(ctx, http.MethodPost, EndpointCommitments, nil, map[string]any{
		"fbid":       fbid,
		"event_id":   eventID,
		"commitment": steps,
	}, nil)
	return err
}

// SetCommitment updates an existing commitment's step pledge.
func (c *Client) SetCommitment(ctx context.Context, commitmentID, steps int) error {
	_, err := c.request(ctx, http.MethodPatch, CommitmentEndpoint(commitmentID), nil, map[string]any{"commitment": steps}, nil)
	return err
}
