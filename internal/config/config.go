// Package config loads the application configuration from the environment.
//
// TWELVE-FACTOR CONFIG:
// Everything that varies between deployments — port, database path, signing
// secret — comes in through environment variables. A local .env file (loaded
// by godotenv in main) makes development convenient without changing how
// production works: real deployments just set real env vars.
package config

import (
	"errors"
	"os"
)

// Config holds everything the server needs from its environment.
//
// Using a struct (instead of scattered os.Getenv calls) means the rest of
// the codebase is ignorant of WHERE configuration comes from — tests build a
// Config literal, production builds one from the environment, and nothing
// downstream can tell the difference.
type Config struct {
	Port      string // HTTP listen port
	Env       string // "development" or "production"
	DBPath    string // SQLite database file, or ":memory:"
	JWTSecret string // HMAC signing secret — the one shared secret of the system
}

// Load reads configuration from environment variables, applying development
// defaults for everything except the signing secret in production.
//
// WHY IS JWT_SECRET SPECIAL?
// Every token ever issued is only as strong as this secret. A development
// default keeps `go run ./cmd/server` working out of the box, but shipping
// that default to production would mean anyone who read this source could
// mint valid sessions — so production refuses to start without a real one.
func Load() (Config, error) {
	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		DBPath:    getEnv("DB_PATH", "data/app.db"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		return Config{}, errors.New("config: JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// getEnv returns the environment variable's value, or fallback if unset or
// empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
