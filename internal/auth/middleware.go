package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows the string
// can read or shadow your value. A package-private key type means only this
// package can read or write identities in the context.
type contextKey string

const identityKey contextKey = "identity"

// bearerPrefix is the only token scheme the API recognizes in the
// Authorization header.
const bearerPrefix = "Bearer "

// ExtractBearer pulls the bearer token out of a request's Authorization
// header.
//
// Returns ("", false) when there is no usable token: header absent, wrong
// scheme (e.g. "Basic ..."), or an empty value after the prefix. "No token"
// and "invalid token" are different states internally, but callers collapse
// both into the same unauthenticated outcome — which is why this helper
// doesn't return an error, just a bool.
func ExtractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It extracts the bearer token, validates it, and stores the Identity in the
// request context. If the token is missing or invalid, it responds
// 401 Unauthorized and stops the chain.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler wrapping it. Chi applies middlewares in a chain:
// req → M1 → M2 → Handler → M2 → M1 → resp.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := authenticate(r, tokens)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error":"unauthorized","message":"valid authentication required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth annotates the request context with the caller's Identity when
// a valid token is present, but NEVER blocks the request.
//
// This is what /api/auth/me sits behind: an anonymous session is a normal,
// expected state there, not a fault — the handler answers {"user":null} with
// 200 rather than an error status.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := authenticate(r, tokens); ok {
				ctx := context.WithValue(r.Context(), identityKey, identity)
				r = r.WithContext(ctx)
			}
			// Always continue — no 401 even without a token.
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the authenticated caller from the request
// context.
//
// Returns (nil, false) for anonymous requests. This two-value form is the
// whole session model: there is no third state, no error, nothing to catch.
//
// Usage in handlers:
//
//	identity, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // anonymous
//	}
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// authenticate is the shared helper behind RequireAuth and OptionalAuth:
// extract the bearer token, validate it, collapse every failure to false.
func authenticate(r *http.Request, tokens *TokenService) (*Identity, bool) {
	tokenStr, ok := ExtractBearer(r)
	if !ok {
		return nil, false
	}
	identity, err := tokens.Validate(tokenStr)
	if err != nil {
		return nil, false
	}
	return identity, true
}
