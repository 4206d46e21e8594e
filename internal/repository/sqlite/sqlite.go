// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. For a
// starter whose entire persistent state is one users table, that's exactly
// the right amount of infrastructure. (It also matches the hosted flavours
// of SQLite most starters deploy onto.)
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C
// compiler installed and cross-compilation becomes painful. modernc.org/sqlite
// is a pure Go translation of the SQLite C code — no C compiler needed,
// works everywhere Go works.
//
// DATABASE/SQL OVERVIEW:
// Go's standard library provides "database/sql" — a generic interface that
// works with any database through registered drivers. Key types:
//   - sql.DB   — a connection pool (NOT a single connection!)
//   - sql.Row  — a single result row
//   - sql.Rows — multiple result rows (must be closed!)
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// The underscore import is a "side-effect only" import: the sqlite
	// package's init() registers itself with database/sql as a driver named
	// "sqlite". After this import, sql.Open("sqlite", ...) knows how to talk
	// to SQLite. This is Go's plugin pattern — drivers register themselves
	// at init time.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces.
//
// WHY WRAP sql.DB IN A STRUCT?
// 1. We can attach the repository methods to it (Create, GetByEmail, ...)
// 2. It implements repository.UserRepository without the service layer ever
//    importing this package
// 3. We control the lifecycle: New creates it, Close destroys it
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/app.db"  → file-based database (persistent)
//   - ":memory:"     → in-memory database (great for tests, lost on close)
//
// sql.Open does NOT actually open a connection — it just creates a pool
// manager. We call Ping to force an immediate connection so a bad path or
// permissions problem surfaces here, not on the first login request.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL (Write-Ahead Logging) mode:
	// Default SQLite locks the whole database during writes. WAL allows
	// concurrent reads WHILE a write is happening — important for a web
	// server where a signup insert shouldn't block parallel logins.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (backwards compatibility).
	// There are no cross-table references yet, but turning enforcement on
	// now means the first table that adds one gets integrity for free.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
//
// ALWAYS DEFER CLOSE:
// Wherever you call New(), make sure Close runs on shutdown — it flushes the
// WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema.
//
// The UNIQUE constraint on email is load-bearing: it is the single source of
// truth for "one account per email". The service layer does a friendly
// existence check before inserting, but under concurrent signups for the
// same email both requests can pass that check — only the constraint decides
// who wins. user.go translates the constraint violation into the same
// conflict error the pre-check produces.
//
// CREATE TABLE IF NOT EXISTS is idempotent, so running migrate on every
// start is safe. A real migration tool earns its keep once there's a second
// schema version; one table doesn't need it yet.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}
