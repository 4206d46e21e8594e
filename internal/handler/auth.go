package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakib/webstack/internal/auth"
	"github.com/sakib/webstack/internal/service"
)

// AuthHandler exposes the credential flow over HTTP.
//
// HANDLER RESPONSIBILITIES:
//   - HandleSignup → create an account, answer 201 with the first token
//   - HandleLogin  → verify credentials, answer 200 with a fresh token
//   - HandleMe     → report who the bearer token belongs to (or null)
//   - HandleLogout → acknowledge; there is no server-side session to kill
//
// The handler only parses JSON and translates errors. Every business rule —
// uniqueness, credential checks, token lifetimes — lives in the service.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Dependencies are injected; the
// handler has no knowledge of how they're constructed.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// signupRequest is the expected body for POST /api/auth/signup.
// Declaring the request shape as a struct gives us type enforcement for
// free: a JSON number where a string belongs fails the decode, which the
// handler reports as invalid_input.
type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the expected body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"` // absent → false → 24h token
}

// authUser is the caller-visible slice of a user record.
type authUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/auth/signup
// BODY: {"email": "...", "password": "..."}
//
// RESPONSES:
//
//	201 {"id": 1, "email": "...", "token": "<jwt>"}   (7-day token)
//	400 invalid_input        missing/empty/mistyped fields or bad JSON
//	409 email_taken          the email already has an account
//	500 internal_error       store or crypto failure (generic message only)
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: "request body must be JSON with email and password",
		})
		return
	}

	result, err := h.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Token string `json:"token"`
	}{
		ID:    result.User.ID,
		Email: result.User.Email,
		Token: result.Token,
	})
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /api/auth/login
// BODY: {"email": "...", "password": "...", "remember": true}
//
// RESPONSES:
//
//	200 {"id": 1, "email": "...", "token": "<jwt>", "expiresIn": 86400}
//	400 invalid_input
//	401 invalid_credentials  — same code for unknown email AND wrong
//	    password, so the endpoint can't be used to enumerate accounts
//	500 internal_error
//
// expiresIn is seconds: 2592000 (30 days) with remember, 86400 without.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: "request body must be JSON with email and password",
		})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	}{
		ID:        result.User.ID,
		Email:     result.User.Email,
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
	})
}

// meResponse wraps the user (or explicit null) for /api/auth/me.
// The pointer matters: a nil *authUser marshals to "user":null, which is the
// contract for an anonymous session.
type meResponse struct {
	User *authUser `json:"user"`
}

// HandleMe reports the current session.
//
// HTTP: GET /api/auth/me
// AUTH: bearer token, optional
//
// ALWAYS 200:
// Missing header, malformed token, bad signature, expired token — every one
// of them answers {"user": null} with 200. "Not logged in" is a normal state
// the frontend asks about on every page load; it is not an error, and
// turning it into a 401 would make every anonymous visit look like a fault.
//
// The OptionalAuth middleware has already validated the token (if any) and
// parked the identity in the request context; no database lookup happens
// here — the token alone is the session.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, meResponse{User: nil})
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		User: &authUser{ID: identity.UserID, Email: identity.Email},
	})
}

// HandleLogout acknowledges a logout.
//
// HTTP: POST /api/auth/logout
//
// There is no server-side session to invalidate — tokens are stateless and
// stay technically valid until they expire. The actual logout effect is the
// client discarding its stored token; the server's only job is to say ok,
// unconditionally, token or no token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
