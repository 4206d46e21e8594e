// Package auth — password hashing utilities.
//
// STORED HASH FORMAT:
// Every password is stored as "<salt-hex>$<digest-hex>":
//
//	a3f1...e9$4bc0...77
//	^ 16 random bytes   ^ SHA-256 over salt‖password
//
// The "$" delimiter is not a valid hex character, so splitting the stored
// form back into its two halves is always unambiguous.
//
// WHY A RANDOM SALT PER USER?
// Without a salt, two users with the same password would share a hash, and
// an attacker with a precomputed digest table could crack every record at
// once. Mixing 16 random bytes into each hash makes every stored form
// unique, even for identical passwords.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// saltSize is the number of random bytes mixed into each password hash.
// 16 bytes (128 bits) is far more entropy than any dictionary can cover.
const saltSize = 16

// hashDelimiter separates the salt from the digest in the stored form.
// Chosen because '$' can never appear inside a hex string.
const hashDelimiter = "$"

// PasswordService hashes and verifies passwords.
//
// It's a struct (not free functions) so it can be injected into the service
// layer as a dependency, the same way TokenService is — handlers and
// services never touch crypto primitives directly.
type PasswordService struct{}

// NewPasswordService creates a PasswordService.
func NewPasswordService() *PasswordService {
	return &PasswordService{}
}

// Hash hashes the given plaintext password.
//
// Steps:
//  1. Draw saltSize bytes from crypto/rand (NEVER math/rand for secrets —
//     math/rand is deterministic and predictable)
//  2. Digest SHA-256(salt ‖ password)
//  3. Encode as "<salt-hex>$<digest-hex>"
//
// Two calls with the same password produce different outputs, because the
// salt is drawn fresh each time.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generating salt: %w", err)
	}

	digest := digestPassword(salt, plaintext)

	return hex.EncodeToString(salt) + hashDelimiter + hex.EncodeToString(digest), nil
}

// Verify reports whether plaintext matches the stored form.
//
// FAIL CLOSED, NEVER THROW:
// A malformed or corrupt stored form (missing delimiter, bad hex, empty
// half) simply returns false. Callers treat every false the same way —
// "not these credentials" — so a corrupt row can never crash a login.
//
// The digest comparison uses subtle.ConstantTimeCompare so the comparison
// time doesn't depend on how many leading bytes match.
func (p *PasswordService) Verify(stored, plaintext string) bool {
	saltHex, digestHex, ok := strings.Cut(stored, hashDelimiter)
	if !ok || saltHex == "" || digestHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}

	got := digestPassword(salt, plaintext)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// digestPassword computes SHA-256 over salt‖password.
func digestPassword(salt []byte, plaintext string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(plaintext))
	return h.Sum(nil)
}
