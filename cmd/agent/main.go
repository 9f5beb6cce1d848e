package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"example.com/stepsync/internal/backend"
	"example.com/stepsync/internal/config"
	"example.com/stepsync/internal/events"
	"example.com/stepsync/internal/health"
	"example.com/stepsync/internal/pedometer"
	"example.com/stepsync/internal/reconcile"
	httptransport "example.com/stepsync/internal/transport/http"
	"example.com/stepsync/internal/userstate"
)

// logoutNotifier stands in for the host application's UI layer: it receives
// the single user-visible failure signal from the health gate.
type logoutNotifier struct {
	logger *log.Logger
}

func (n *logoutNotifier) ForceLogout(reason string) {
	n.logger.Printf("forcing logged-out state: %s", reason)
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := backend.NewClient(cfg.BackendBaseURL,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))

	state := userstate.NewStore(cfg.StatePath, userstate.JWTConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	})

	providers := make(map[pedometer.SourceKind]pedometer.Provider)
	motion, err := pedometer.OpenMotionStore(cfg.MotionDBPath)
	if err != nil {
		// Run without motion history rather than dying: the user may only
		// have Fitbit authorized, and the gate still has to probe.
		log.Printf("motion store unavailable: %v", err)
	} else {
		defer motion.Close()
		providers[pedometer.SourceHealthKit] = motion
	}
	providers[pedometer.SourceFitbit] = pedometer.NewFitbitProvider(cfg.FitbitBaseURL, cfg.FitbitToken)

	engineOpts := []reconcile.Option{}
	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.EventsTopic)
		defer publisher.Close()
		engineOpts = append(engineOpts, reconcile.WithPublisher(publisher))
	}

	engine := reconcile.NewEngine(client, state, providers, engineOpts...)
	notifier := &logoutNotifier{logger: log.New(log.Writer(), "[ui] ", log.LstdFlags)}
	gate := health.NewGate(client, engine, notifier)

	server := httptransport.NewMetricsServer(httptransport.ServerConfig{
		Address:      cfg.MetricsAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	go func() {
		log.Printf("stepsync agent metrics on %s", cfg.MetricsAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	syncNow := make(chan os.Signal, 1)
	signal.Notify(syncNow, syscall.SIGHUP)

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	gate.Run(ctx)

	for {
		select {
		case <-ticker.C:
			gate.Run(ctx)
		case <-syncNow:
			log.Printf("sync requested")
			gate.Run(ctx)
		case <-shutdownCh:
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer shutdownCancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("graceful shutdown failed: %v", err)
			}
			gate.Wait()
			return
		}
	}
}
