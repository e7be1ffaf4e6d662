// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside your Go binary as a single file.
// No separate database server to install, configure, or manage. Perfect for:
// - A personal diet tracker that runs as a single process
// - Development and testing (use ":memory:" for an in-memory DB)
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code — no C compiler needed, works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// BLANK IMPORT:
	// Side-effect only import — the sqlite package's init() registers itself
	// with database/sql as a driver named "sqlite". After this import,
	// sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements all three repository
// interfaces (users, meals, summary cache) against one SQLite file.
type DB struct {
	conn *sql.DB
}

// New creates a SQLite connection pool and runs migrations.
//
// dbPath examples:
//   - "data/diet.db"  → file-based database (persistent)
//   - ":memory:"      → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// issue surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We need them ON so that
	// deleting a user cascades to their meals and summary row.
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

// Close closes the database connection pool. Always defer this wherever
// New() is called — it flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe
// to run on every startup without a migration tracking table.
func (db *DB) migrate() error {
	// users: email is UNIQUE (one account per address), session_id is
	// UNIQUE (one token identifies exactly one user for its lifetime).
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			session_id TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_session_id ON users(session_id);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// meals: updated_at stays NULL until the first update. ON DELETE CASCADE
	// removes a user's meals with the account.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS meals (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			in_diet     TEXT NOT NULL CHECK (in_diet IN ('yes', 'no')),
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_meals_user_id ON meals(user_id);
		CREATE INDEX IF NOT EXISTS idx_meals_created_at ON meals(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating meals table: %w", err)
	}

	// summary: a per-user cache of the computed figures. The read path
	// always recomputes from meals; this table only exists so the latest
	// result can be inspected without replaying the scan.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS summary (
			user_id                 TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			total_meals             INTEGER NOT NULL DEFAULT 0,
			total_meals_in_diet     INTEGER NOT NULL DEFAULT 0,
			total_meals_out_of_diet INTEGER NOT NULL DEFAULT 0,
			streak                  INTEGER NOT NULL DEFAULT 0,
			refreshed_at            DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating summary table: %w", err)
	}

	return nil
}
