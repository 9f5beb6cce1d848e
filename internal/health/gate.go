// Package health gates reconciliation behind a backend connectivity probe.
package health

import (
	"context"
	"log"
	"sync"

	"example.com/stepsync/internal/reconcile"
)

// Backend is the subset of the backend client the gate calls.
type Backend interface {
	HealthCheck(ctx context.Context) error
}

// Notifier is the host-application collaborator that handles the one
// user-visible failure path: forcing the logged-out state and presenting a
// blocking, dismissable error.
type Notifier interface {
	ForceLogout(reason string)
}

// Engine runs a reconciliation pass once the probe succeeds.
type Engine interface {
	Run(ctx context.Context) reconcile.Outcome
}

// Option configures optional behaviour for the Gate.
type Option func(*Gate)

// WithLogger overrides the logger used for probe diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// Gate probes backend connectivity before anything else runs.
type Gate struct {
	backend  Backend
	engine   Engine
	notifier Notifier
	logger   *log.Logger
	wg       sync.WaitGroup
}

// NewGate constructs a Gate.
func NewGate(b Backend, engine Engine, notifier Notifier, opts ...Option) *Gate {
	g := &Gate{
		backend:  b,
		engine:   engine,
		notifier: notifier,
		logger:   log.New(log.Writer(), "[health] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run probes the backend. On failure it signals the notifier exactly once
// and the reconciliation pass never starts. On success the pass runs on a
// background goroutine; Run does not wait for it to finish.
func (g *Gate) Run(ctx context.Context) {
	if err := g.backend.HealthCheck(ctx); err != nil {
		g.logger.Printf("health check failed: %v", err)
		g.notifier.ForceLogout("unable to connect to the service")
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.engine.Run(ctx)
	}()
}

// Wait blocks until any in-flight pass launched by Run has finished. Used
// during shutdown; Run itself never waits.
func (g *Gate) Wait() {
	g.wg.Wait()
}
