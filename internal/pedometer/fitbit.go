package pedometer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// FitbitProvider reads daily step totals from the Fitbit web API. It backs
// the "Fitbit" source kind and requires a user access token; without one it
// reports ErrNotAuthorized and the sync cycle moves on.
type FitbitProvider struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewFitbitProvider builds a provider against the given API base URL.
func NewFitbitProvider(baseURL, token string) *FitbitProvider {
	return &FitbitProvider{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type fitbitStepsResponse struct {
	ActivitiesSteps []struct {
		DateTime string `json:"dateTime"`
		Value    string `json:"value"`
	} `json:"activities-steps"`
}

// StepCount sums the daily totals for every day the interval touches.
// Fitbit only exposes day granularity, so a partial first or last day is
// counted whole; the backend's idempotency handling absorbs the overlap.
func (p *FitbitProvider) StepCount(ctx context.Context, interval Interval) (int, error) {
	if p.token == "" {
		return 0, ErrNotAuthorized
	}

	start := interval.Start.UTC().Format("2006-01-02")
	end := interval.End.UTC().Format("2006-01-02")
	url := fmt.Sprintf("%s/1/user/-/activities/steps/date/%s/%s.json", p.baseURL, start, end)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build fitbit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("query fitbit: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return 0, ErrNotAuthorized
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("fitbit status %d", resp.StatusCode)
	}

	var decoded fitbitStepsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode fitbit response: %w", err)
	}
	if len(decoded.ActivitiesSteps) == 0 {
		return 0, ErrNoData
	}

	total := 0
	for _, day := range decoded.ActivitiesSteps {
		steps, err := strconv.Atoi(day.Value)
		if err != nil {
			return 0, fmt.Errorf("parse fitbit value %q: %w", day.Value, err)
		}
		total += steps
	}
	return total, nil
}
