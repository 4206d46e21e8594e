// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account — the sole persisted entity.
//
// WHY ID int64?
// The ID is assigned by the database on insert (INTEGER PRIMARY KEY
// AUTOINCREMENT). SQLite rowids are 64-bit, so int64 matches exactly what
// LastInsertId returns.
//
// WHY json:"-" ON PasswordHash?
// The stored hash must never leave the server. Tagging it "-" means even a
// careless `writeJSON(w, http.StatusOK, user)` cannot leak it. The stored
// form is "<salt-hex>$<digest-hex>" — opaque to everything outside
// internal/auth.
//
// Email is stored exactly as the user typed it — no lowercasing or other
// normalization. Uniqueness is byte-for-byte, enforced by the UNIQUE
// constraint on the email column.
type User struct {
	ID           int64     `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
