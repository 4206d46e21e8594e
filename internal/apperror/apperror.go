// Package apperror defines the application's domain error taxonomy.
//
// WHY A DEDICATED ERROR PACKAGE?
// The service layer needs to tell handlers WHAT went wrong (bad input,
// duplicate email, wrong password) without knowing anything about HTTP.
// Sentinel errors + errors.Is give us exactly that: the service returns
// a domain error, the handler maps it to a status code and a stable
// machine-readable error code that the frontend can switch on.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors — the failure categories of the API.
// Handlers use errors.Is against these to pick a status code.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError wraps a sentinel with the stable API error code and a
// human-readable message.
//
// The Code field is what clients see in the JSON body ("invalid_input",
// "email_taken", ...). It never changes once published — the Message may.
type AppError struct {
	Err     error  // one of the sentinels above
	Code    string // stable machine-readable code, e.g. "email_taken"
	Message string // human-readable description
	Field   string // optional: the input field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is walk through AppError to the sentinel inside.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports a missing or malformed input field.
// HTTP handlers map this to 400 with code "invalid_input".
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "invalid_input",
		Message: message,
		Field:   field,
	}
}

// EmailTaken reports a signup attempt for an already-registered email.
// HTTP handlers map this to 409 with code "email_taken".
func EmailTaken(email string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Code:    "email_taken",
		Message: fmt.Sprintf("an account with email %s already exists", email),
	}
}

// InvalidCredentials reports a failed login.
//
// DELIBERATELY VAGUE:
// "unknown email" and "wrong password" both produce this exact error, so a
// caller probing the login endpoint cannot enumerate registered emails by
// comparing responses. HTTP handlers map this to 401 with code
// "invalid_credentials".
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    "invalid_credentials",
		Message: "invalid email or password",
	}
}

// NotFound reports a missing record. This mostly surfaces internally — the
// login flow converts it to InvalidCredentials before a client ever sees it.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    "not_found",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}
