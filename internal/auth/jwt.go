// Package auth provides JWT token generation and validation for the API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client POSTs credentials to /api/auth/signup or /api/auth/login
// 2. Server verifies them and issues a signed JWT in the response body
// 3. Client stores the token and sends it back on every request as
//    "Authorization: Bearer <token>"
// 4. The server validates the signature and expiry on each request —
//    no session table, no server-side state
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — everything the server needs to know
// (who the user is, when the token expires) travels inside the token itself,
// protected by an HMAC signature. Verifying a request is a pure computation:
// no database lookup, no shared session store.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims → {"sub":"42","email":"a@b.c","iat":...,"exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// The flip side of statelessness: a token cannot be revoked before it
// expires. If that's ever needed, the jti claim below is the hook — keep a
// denylist of revoked token IDs and check it during Validate.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// Identity is the result of a successful token validation: who the bearer is.
// It carries exactly what the token's claims carry — no database round trip.
type Identity struct {
	UserID int64
	Email  string
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret used both to sign and to verify. One process-wide
// secret, injected at construction (not read from a global) so tests can use
// their own secrets and deployments can rotate by restarting.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. jwt.RegisteredClaims supplies the standard
// fields (sub, iat, exp, jti); we add the email so /api/auth/me can answer
// without touching the database.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue creates and signs a JWT for the given user.
//
// Claims:
//   - sub: the user ID, stringified (RFC 7519 defines sub as a string)
//   - email: the user's email at issue time
//   - iat / exp: issued-at and absolute expiry, exp = now + ttl
//   - jti: a fresh xid, so individual tokens are identifiable if a
//     revocation denylist is ever introduced
//
// The ttl is caller-supplied: the service layer decides whether this is a
// 7-day signup token, a 24-hour login token, or a 30-day "remember me" one.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and the only
// algorithm this service will ever accept back in Validate.
func (s *TokenService) Issue(userID int64, email string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the Identity it
// encodes.
//
// VALIDATION CHECKS:
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired, and an expiry is actually present
//   - Algorithm is HS256 (jwt.WithValidMethods prevents algorithm
//     confusion attacks, where an attacker swaps in "none" or an
//     asymmetric algorithm)
//   - sub parses back to a numeric user ID
//
// UNIFORM FAILURE:
// Every failure mode — bad signature, garbage input, expired, wrong
// algorithm, missing subject — comes back as a plain error. Callers never
// need to distinguish WHY a token is bad; an invalid token and a missing
// token both mean "unauthenticated".
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("auth: token subject is not a user ID: %w", err)
	}

	return &Identity{UserID: userID, Email: c.Email}, nil
}
