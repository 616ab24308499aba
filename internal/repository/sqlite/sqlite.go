// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// We use modernc.org/sqlite (a pure Go translation of SQLite) rather than
// the CGo driver, so the binary cross-compiles without a C toolchain. The
// whole store is one file on disk; tests use throwaway temp files.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and carries the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// The pragmas ride in the DSN, not a one-off Exec: database/sql pools
// connections and a pragma issued on one connection does not apply to the
// others. foreign_keys in particular is OFF by default on every new
// connection, and the portfolios.user_id cascade depends on it holding
// everywhere. WAL lets reads proceed while a write is in flight.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this
// idempotent across restarts.
//
// The UNIQUE constraints on username, email, and subdomain are load-bearing:
// the application-level duplicate pre-checks are racy (check-then-act), so
// these indexes are the authoritative guard against concurrent duplicates.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS portfolios (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			manifest   TEXT NOT NULL,
			theme      TEXT NOT NULL DEFAULT 'minimal',
			subdomain  TEXT NOT NULL UNIQUE,
			is_public  INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_portfolios_is_public ON portfolios(is_public);
	`)
	if err != nil {
		return fmt.Errorf("creating portfolios table: %w", err)
	}

	return nil
}

// uniqueViolation maps a SQLite UNIQUE constraint failure to the violated
// column, or "" if err is not a uniqueness error. The driver reports these
// as "UNIQUE constraint failed: <table>.<column>".
func uniqueViolation(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "UNIQUE constraint failed: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, " ("); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest) // e.g. "users.username"
}
