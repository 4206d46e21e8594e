// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// The service layer is where the credential flow actually lives: it knows
// that signup must check for an existing email before hashing, that login
// must not reveal WHICH credential was wrong, and which token lifetime each
// path gets. It knows nothing about HTTP status codes or JSON — it returns
// domain errors (apperror) and plain structs, and the handler translates.
//
// DEPENDENCY INJECTION:
// AuthService takes repository.UserRepository (an interface), NOT a concrete
// *sqlite.DB. Tests inject an in-memory fake; server.go injects SQLite.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakib/webstack/internal/apperror"
	"github.com/sakib/webstack/internal/auth"
	"github.com/sakib/webstack/internal/model"
	"github.com/sakib/webstack/internal/repository"
)

// Token lifetimes per entry path.
//
// Signup gets a generous week so a fresh account isn't logged out the next
// morning; a plain login lasts a day; "remember me" stretches to a month.
// These are absolute expiries baked into the token — nothing server-side
// tracks or extends them.
const (
	SignupTokenTTL   = 7 * 24 * time.Hour
	LoginTokenTTL    = 24 * time.Hour
	RememberTokenTTL = 30 * 24 * time.Hour
)

// AuthService handles the authentication business logic.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → the credential store
//   - tokens    *auth.TokenService        → sign/verify JWTs
//   - passwords *auth.PasswordService     → hash/verify passwords
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is returned by Signup: the created user plus the issued token,
// bundled so the handler can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// LoginResult extends AuthResult with the token lifetime in seconds, which
// the login response exposes as expiresIn so clients can schedule renewal.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresIn int64 // seconds until the token expires
}

// Signup registers a new account and issues its first token.
//
// FLOW:
//  1. Validate presence — empty email or password is invalid_input
//  2. Check whether the email is taken (friendly 409 before the expensive
//     hash)
//  3. Hash the password, insert the record, read back the generated id
//  4. Issue a 7-day token
//
// The existence check and the insert are NOT atomic. That's fine: the
// repository maps a UNIQUE-constraint violation to the same EmailTaken
// error, so the race between two concurrent signups for one email resolves
// to exactly one account and one 409 — never a duplicate row.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking email %s: %w", email, err)
	}
	if taken {
		return nil, apperror.EmailTaken(email)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Create may itself report EmailTaken (a lost race against a
		// concurrent signup) — pass the conflict through untouched so the
		// handler still answers 409.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user %s: %w", email, err)
	}

	s.logger.Info("user signed up",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Issue(user.ID, user.Email, SignupTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing signup token for user %d: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a fresh token.
//
// NO USER ENUMERATION:
// An unknown email and a wrong password return the IDENTICAL
// InvalidCredentials error. If unknown emails answered faster or with a
// different code, an attacker could harvest the list of registered accounts
// by probing logins.
//
// remember=true stretches the token lifetime from 24 hours to 30 days.
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, error) {
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	// Verify fails closed: wrong password, corrupt stored hash, malformed
	// record — all the same false, all the same 401.
	if !s.passwords.Verify(user.PasswordHash, password) {
		return nil, apperror.InvalidCredentials()
	}

	ttl := LoginTokenTTL
	if remember {
		ttl = RememberTokenTTL
	}

	token, err := s.tokens.Issue(user.ID, user.Email, ttl)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing login token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.Bool("remember", remember),
	)

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}

// Authenticate resolves a raw token string to the identity it encodes.
//
// Returns nil for ANY failure — missing, malformed, expired, tampered.
// Deliberately not an error return: an absent session is a normal state,
// and modelling it as (identity-or-nil) means callers physically cannot
// confuse "unauthenticated" with "crashed".
func (s *AuthService) Authenticate(tokenStr string) *auth.Identity {
	if tokenStr == "" {
		return nil
	}
	identity, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return nil
	}
	return identity
}

// ListUsers returns registered users for the admin listing, newest first,
// optionally filtered to one exact email. limit <= 0 falls back to the
// repository default.
func (s *AuthService) ListUsers(ctx context.Context, email string, limit int) ([]model.User, error) {
	users, err := s.users.List(ctx, repository.ListOptions{Email: email, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("service/auth: listing users: %w", err)
	}
	return users, nil
}
