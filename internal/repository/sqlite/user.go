package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sakib/webstack/internal/apperror"
	"github.com/sakib/webstack/internal/model"
	"github.com/sakib/webstack/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// defaultListLimit caps List when the caller doesn't specify a limit.
const defaultListLimit = 50

// Create inserts a new user and populates ID, CreatedAt, and UpdatedAt on
// the passed struct.
//
// RACE SAFETY:
// The caller (the signup flow) checks ExistsByEmail first, but two
// concurrent signups for the same email can both pass that check before
// either inserts. The UNIQUE constraint on email is what actually decides —
// the losing insert fails, and we translate that failure into the same
// apperror.EmailTaken the pre-check would have produced. Callers can't tell
// the difference, which is the point.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		user.Email,
		user.PasswordHash,
		now,
		now,
	)
	if err != nil {
		// modernc.org/sqlite reports constraint violations as plain errors
		// containing the SQLite message text. "UNIQUE constraint failed" can
		// only come from the email column — it's the table's only UNIQUE
		// constraint besides the rowid primary key.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.EmailTaken(user.Email)
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	// Read back the store-assigned id — the SQLite rowid of the new row.
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a user by email (exact, case-sensitive match — emails
// are stored as typed, never normalized).
// Returns apperror.ErrNotFound if no user exists with that email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`,
		email, email,
	)
}

// GetByID retrieves a user by their store-assigned id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return db.getUser(ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE id = ?`,
		strconv.FormatInt(id, 10), id,
	)
}

// getUser runs a single-row user query. label only feeds the NotFound error.
func (db *DB) getUser(ctx context.Context, query, label string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", label)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", label, err)
	}

	return &u, nil
}

// ExistsByEmail reports whether a user with the given email is registered.
//
// Signup calls this BEFORE hashing the password: hashing is the expensive
// part of the flow, and there's no point paying for it when the request is
// doomed to a 409 anyway.
func (db *DB) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = ?`, email,
	).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking email %s: %w", email, err)
	}
	return true, nil
}

// List returns users newest-first, optionally filtered to an exact email.
// Backs the admin listing endpoint; password hashes come along in the model
// but never serialize (json:"-").
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, email, password_hash, created_at, updated_at
	          FROM users`
	args := []any{}
	if opts.Email != "" {
		query += ` WHERE email = ?`
		args = append(args, opts.Email)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	// rows MUST be closed, or the connection leaks back into the pool held.
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}

	return users, nil
}
