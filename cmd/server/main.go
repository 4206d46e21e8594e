// Package main is the entry point for the API server.
//
// The main package stays minimal — its job is to:
// 1. Load configuration (a local .env in development, real env vars anywhere else)
// 2. Create shared dependencies (the logger)
// 3. Hand everything to internal/server and block until shutdown
//
// All actual logic lives in imported packages. This separation keeps the app
// testable — nothing in internal/ depends on being launched from here.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakib/webstack/internal/config"
	"github.com/sakib/webstack/internal/server"
)

func main() {
	// === 1. LOAD .env (DEVELOPMENT CONVENIENCE) ===
	// godotenv copies KEY=VALUE lines from ./.env into the process
	// environment — but never overrides variables that are already set, so
	// production deployments that configure through real env vars are
	// unaffected. A missing .env is the normal case outside development.
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	// === 2. SET UP LOGGING ===
	// A single structured logger, injected everywhere. Text output for
	// humans; switch the handler to slog.NewJSONHandler when logs go to a
	// collector instead of a terminal.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 3. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. ENSURE THE DATA DIRECTORY EXISTS ===
	// SQLite creates the database file on demand, but not its parent
	// directory. MkdirAll is a no-op when the directory is already there
	// (and ":memory:" has no directory at all).
	if cfg.DBPath != ":memory:" {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				logger.Error("failed to create database directory",
					slog.String("dir", dir),
					slog.String("error", err.Error()),
				)
				os.Exit(1)
			}
		}
	}

	// === 5. CREATE AND START THE SERVER ===
	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		DBPath:    cfg.DBPath,
		JWTSecret: cfg.JWTSecret,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
