package backend

import (
	"net/url"
	"strconv"
)

// Endpoint is a path relative to the configured backend base URL.
type Endpoint string

const (
	EndpointHealthcheck  Endpoint = "/"
	EndpointParticipants Endpoint = "/participants"
	EndpointTeams        Endpoint = "/teams"
	EndpointEvents       Endpoint = "/events"
	EndpointRecords      Endpoint = "/records"
	EndpointSources      Endpoint = "/sources"
	EndpointCommitments  Endpoint = "/commitments"
)

// ParticipantEndpoint addresses a single participant by Facebook id.
func ParticipantEndpoint(fbid string) Endpoint {
	return Endpoint("/participants/" + url.PathEscape(fbid))
}

// TeamEndpoint addresses a single team.
func TeamEndpoint(teamID int) Endpoint {
	return Endpoint("/teams/" + strconv.Itoa(teamID))
}

// EventEndpoint addresses a single event.
func EventEndpoint(eventID int) Endpoint {
	return Endpoint("/events/" + strconv.Itoa(eventID))
}

// RecordEndpoint addresses a single record.
func RecordEndpoint(recordID int) Endpoint {
	return Endpoint("/records/" + strconv.Itoa(recordID))
}

// SourceEndpoint addresses a single source.
func SourceEndpoint(sourceID int) Endpoint {
	return Endpoint("/sources/" + strconv.Itoa(sourceID))
}

// CommitmentEndpoint addresses a single commitment.
func CommitmentEndpoint(commitmentID int) Endpoint {
	return Endpoint("/commitments/" + strconv.Itoa(commitmentID))
}
