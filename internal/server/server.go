// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. It decides which URL patterns map to which handlers, what
// middleware runs where, and how the server starts and stops gracefully.
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config and builds the logger; New() assembles the rest:
//
//	sqlite.DB → AuthService (with TokenService + PasswordService) → handlers
//
// This is the "composition root" pattern — all dependencies are wired in one
// place rather than scattered across the codebase.
//
// ONE PROCESS, TWO COLLABORATORS:
// This server is the API half of the stack. The server-rendered frontend is
// a separate process that forwards /api/* here through its own proxy — this
// package neither renders pages nor configures CORS; that's the proxy's job.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakib/webstack/internal/auth"
	"github.com/sakib/webstack/internal/handler"
	"github.com/sakib/webstack/internal/middleware"
	sqliteRepo "github.com/sakib/webstack/internal/repository/sqlite"
	"github.com/sakib/webstack/internal/service"
)

// Config holds server configuration. A struct (instead of parameters) makes
// it easy to add options without touching every call site.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
}

// Server owns the router and the resources that must be released on
// shutdown — today that's the database connection.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency chain assembled:
//
//  1. Open the database (sqlite.New — runs migrations)
//  2. Build the auth primitives (TokenService, PasswordService)
//  3. Build the service layer on the repository interface
//  4. Build handlers on the service, wire them to routes
//
// Each layer only receives what it needs: the service gets the repository
// interface (not the concrete *sqlite.DB), handlers get the service (never
// the database).
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // clean up the DB if wiring fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET  /api/health       → liveness probe
//	POST /api/auth/signup  → create account, issue 7-day token (201)
//	POST /api/auth/login   → verify credentials, issue 24h/30d token (200)
//	GET  /api/auth/me      → session check; always 200, user or null
//	POST /api/auth/logout  → stateless acknowledgement
//	GET  /api/admin/users  → debug user listing (requires a valid token)
//
// MIDDLEWARE ORDER MATTERS:
// RequestID must run before our Logger (the log line includes the ID);
// Recoverer turns handler panics into 500s instead of dead connections.
func (s *Server) setupRoutes() error {
	// === Global middleware — runs on EVERY request, in order ===
	s.router.Use(chimiddleware.RequestID) // adds X-Request-ID
	s.router.Use(chimiddleware.RealIP)    // extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // recovers from panics, returns 500
	s.router.Use(middleware.Logger(s.logger))

	// === Auth primitives ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === Dependency chain ===
	// s.db (sqlite.DB) implements repository.UserRepository; the service
	// receives the interface, the handlers receive the service. The handler
	// never touches the database; the service never touches HTTP.
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	adminHandler := handler.NewAdminHandler(authService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HandleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)

			// OptionalAuth, not RequireAuth: /me answers {"user":null} with
			// 200 for anonymous callers — never 401.
			r.With(auth.OptionalAuth(tokens)).Get("/me", authHandler.HandleMe)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/users", adminHandler.HandleListUsers)
		})
	})

	return nil
}

// Start runs the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new connections on SIGINT/SIGTERM
//  2. Give in-flight requests 30 seconds to finish
//  3. Close the database (flushes the WAL, releases the file lock)
//
// The deferred db.Close ensures step 3 happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
