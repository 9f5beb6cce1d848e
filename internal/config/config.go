// Package config centralises configuration parsing for the sync agent.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures runtime configuration values for the sync agent.
type Config struct {
	BackendBaseURL string
	HTTPTimeout    time.Duration
	MetricsAddress string
	SyncInterval   time.Duration // Interval between reconciliation passes.
	StatePath      string        // Persisted user state (session, authorized source).
	MotionDBPath   string        // On-device motion-history sample database.
	FitbitBaseURL  string
	FitbitToken    string
	KafkaBrokers   []string // Empty disables audit event publishing.
	EventsTopic    string
	JWTSecret      string
	JWTIssuer      string
}

// Load reads environment variables into Config, applying sensible defaults
// for local dev.
func Load() Config {
	cfg := Config{
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
		HTTPTimeout:    getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MetricsAddress: getEnv("METRICS_ADDRESS", ":9102"),
		SyncInterval:   getDurationEnv("SYNC_INTERVAL", 15*time.Minute),
		StatePath:      getEnv("STATE_PATH", "/var/lib/stepsync/state.json"),
		MotionDBPath:   getEnv("MOTION_DB_PATH", "/var/lib/stepsync/motion.db"),
		FitbitBaseURL:  getEnv("FITBIT_BASE_URL", "https://api.fitbit.com"),
		FitbitToken:    getEnv("FITBIT_TOKEN", ""),
		EventsTopic:    getEnv("EVENTS_TOPIC", "record_sync_events"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:      getEnv("JWT_ISSUER", "stepsync.identity"),
	}

	cfg.KafkaBrokers = splitAndTrim(getEnv("KAFKA_BROKERS", ""))
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
