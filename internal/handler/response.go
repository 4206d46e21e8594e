package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//
//	{"error": "email_taken", "message": "an account with email ... exists"}
//
// The "error" field is the stable machine-readable code the frontend
// switches on; the "message" is for humans and may change freely.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakib/webstack/internal/apperror"
)

// ErrorResponse is the standard error body returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`             // machine-readable code, e.g. "invalid_input"
	Message string `json:"message,omitempty"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code must be set BEFORE writing the body — the first
// w.Write (which Encode does internally) flushes them, and changes after
// that are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already out the door — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status and body.
//
// ERROR MAPPING:
// The service layer returns apperror values; this is the single place they
// become HTTP:
//
//	ErrValidation   → 400 invalid_input
//	ErrUnauthorized → 401 invalid_credentials
//	ErrNotFound     → 404 not_found
//	ErrConflict     → 409 email_taken
//	anything else   → 500 internal_error (generic message — raw errors can
//	                  carry SQL fragments or file paths; those stay in logs)
//
// errors.Is/As walk the whole wrapped chain, so a service error like
// fmt.Errorf("service/auth: ...: %w", apperror.EmailTaken(email)) still
// resolves to 409.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, ErrorResponse{
			Error:   appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}
