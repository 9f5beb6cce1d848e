// Package reconcile implements the step-record reconciliation pass: decide
// which local source may supply step data, work out the interval the backend
// is missing, query the provider, and submit one record covering the gap.
package reconcile

import (
	"context"
	"log"
	"sync"
	"time"

	"example.com/stepsync/internal/backend"
	"example.com/stepsync/internal/domain"
	"example.com/stepsync/internal/events"
	"example.com/stepsync/internal/observability"
	"example.com/stepsync/internal/pedometer"
	"example.com/stepsync/internal/userstate"
)

// Outcome classifies how a reconciliation pass ended. Only the *_failed
// outcomes are logged as failures; the rest are expected "nothing to do"
// exits.
type Outcome string

const (
	OutcomeSubmitted          Outcome = "submitted"
	OutcomeNoSource           Outcome = "no_source"
	OutcomeNoSession          Outcome = "no_session"
	OutcomeNoProvider         Outcome = "no_provider"
	OutcomeInFlight           Outcome = "in_flight"
	OutcomeUnknownSource      Outcome = "unknown_source"
	OutcomeNoParticipant      Outcome = "no_participant"
	OutcomeNoAnchor           Outcome = "no_anchor"
	OutcomeUpToDate           Outcome = "up_to_date"
	OutcomeStateFailed        Outcome = "state_failed"
	OutcomeSourceLookupFailed Outcome = "source_lookup_failed"
	OutcomeParticipantFailed  Outcome = "participant_failed"
	OutcomeProviderFailed     Outcome = "provider_failed"
	OutcomeSubmitFailed       Outcome = "submit_failed"
)

// Backend is the subset of the backend client the engine calls.
type Backend interface {
	GetSourceByName(ctx context.Context, name string) (*domain.Source, error)
	GetParticipant(ctx context.Context, fbid string) (*domain.Participant, error)
	CreateRecord(ctx context.Context, input backend.CreateRecordInput) error
}

// StateLoader reads the persisted user state at the start of each pass.
type StateLoader interface {
	Load() (userstate.State, error)
}

// Publisher emits audit events after a successful submission.
type Publisher interface {
	RecordSubmitted(ctx context.Context, event events.RecordSubmitted)
}

// Option configures optional behaviour for the Engine.
type Option func(*Engine)

// WithLogger overrides the logger used to report pass failures.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPublisher attaches an audit event publisher.
func WithPublisher(publisher Publisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

// WithNow overrides the clock, pinning "now" for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine runs reconciliation passes. A pass is strictly sequential; every
// step that fails terminates the pass without a user-visible error, since
// the next cycle retries from scratch.
type Engine struct {
	backend   Backend
	state     StateLoader
	providers map[pedometer.SourceKind]pedometer.Provider
	publisher Publisher
	logger    *log.Logger
	now       func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewEngine constructs an Engine over the given collaborators.
func NewEngine(b Backend, state StateLoader, providers map[pedometer.SourceKind]pedometer.Provider, opts ...Option) *Engine {
	e := &Engine{
		backend:   b,
		state:     state,
		providers: providers,
		logger:    log.New(log.Writer(), "[reconcile] ", log.LstdFlags),
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		inflight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one reconciliation pass and reports how it ended.
func (e *Engine) Run(ctx context.Context) Outcome {
	started := e.now()
	outcome := e.run(ctx)
	recordPass(outcome, e.now().Sub(started))
	observability.RecordPassCompleted(e.now())
	return outcome
}

func (e *Engine) run(ctx context.Context) Outcome {
	state, err := e.state.Load()
	if err != nil {
		e.logger.Printf("unable to load user state: %v", err)
		return OutcomeStateFailed
	}
	if state.PedometerSource == "" {
		return OutcomeNoSource
	}
	if state.FBID == "" {
		return OutcomeNoSession
	}
	provider, ok := e.providers[state.PedometerSource]
	if !ok {
		return OutcomeNoProvider
	}

	// One pass per participant at a time; overlapping triggers would submit
	// duplicate records for overlapping intervals.
	if !e.acquire(state.FBID) {
		return OutcomeInFlight
	}
	defer e.release(state.FBID)

	source, err := e.backend.GetSourceByName(ctx, string(state.PedometerSource))
	if err != nil {
		e.logger.Printf("source lookup failed: %v", err)
		return OutcomeSourceLookupFailed
	}
	if source == nil {
		return OutcomeUnknownSource
	}

	participant, err := e.backend.GetParticipant(ctx, state.FBID)
	if err != nil {
		e.logger.Printf("participant fetch failed: %v", err)
		return OutcomeParticipantFailed
	}
	if participant == nil {
		return OutcomeNoParticipant
	}

	anchor, ok := anchorDate(participant)
	if !ok {
		return OutcomeNoAnchor
	}
	now := e.now()
	if !anchor.Before(now) {
		return OutcomeUpToDate
	}
	interval := pedometer.Interval{Start: anchor, End: now}

	steps, err := provider.StepCount(ctx, interval)
	if err != nil {
		e.logger.Printf("unable to query pedometer: %v", err)
		return OutcomeProviderFailed
	}

	input := backend.CreateRecordInput{
		ParticipantID: participant.ID,
		Date:          interval.End,
		Distance:      steps,
		SourceID:      source.ID,
	}
	if err := e.backend.CreateRecord(ctx, input); err != nil {
		e.logger.Printf("record submission failed: %v", err)
		return OutcomeSubmitFailed
	}

	observability.RecordSubmission(interval.End)
	recordSteps(steps)
	if e.publisher != nil {
		e.publisher.RecordSubmitted(ctx, events.RecordSubmitted{
			FBID:          state.FBID,
			ParticipantID: participant.ID,
			Date:          interval.End,
			Distance:      steps,
			SourceID:      source.ID,
			IntervalStart: interval.Start,
		})
	}
	return OutcomeSubmitted
}

// anchorDate picks the date the missing interval starts from: the
// latest-dated record, or the active challenge's start when the participant
// has no records yet. Records with equal dates resolve to the later list
// entry, matching the backend's ordering.
func anchorDate(p *domain.Participant) (time.Time, bool) {
	var anchor time.Time
	found := false
	for _, record := range p.Records {
		if !found || !record.Date.Before(anchor) {
			anchor = record.Date
			found = true
		}
	}
	if found {
		return anchor, true
	}
	if p.CurrentEvent != nil {
		return p.CurrentEvent.ChallengePhase.Start, true
	}
	return time.Time{}, false
}

func (e *Engine) acquire(fbid string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[fbid]; busy {
		return false
	}
	e.inflight[fbid] = struct{}{}
	return true
}

func (e *Engine) release(fbid string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, fbid)
}
