// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. A
// personal saved-places service is exactly its sweet spot: single-server,
// modest write volume, lots of small reads. Use ":memory:" for tests.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mhasan/pinpoint/internal/apperror"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init(). After this, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// One *DB implements all of the repository interfaces; each consumer only
// sees the interface it asked for.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't actually connect; Ping forces the first connection so
	// a bad path or permissions problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — matters for
	// a web server where imports write while searches read.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The place→collection and
	// membership relations rely on them, so turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	// Writers that collide wait up to 5s instead of failing with SQLITE_BUSY.
	// Concurrent imports from different users are a normal workload.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New().
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe to
// run on every startup; for this project's scale that beats a migrations tool.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			google_id     TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_google_id
			ON users(google_id) WHERE google_id != '';

		CREATE TABLE IF NOT EXISTS collections (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			color      TEXT NOT NULL DEFAULT '#3B82F6',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_collections_user_id ON collections(user_id);

		-- UNIQUE(user_id, name) is what makes find-or-create race-free:
		-- concurrent inserts of the same name collide here and the loser
		-- reads the winner's row. The comparison uses SQLite's default
		-- BINARY collation, so "Coffee" and "coffee" are two different tags.
		CREATE TABLE IF NOT EXISTS tags (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			color      TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_tags_user_id ON tags(user_id);

		-- collection_id is nullable: NULL means unfiled. ON DELETE SET NULL
		-- backs up the explicit unassign-then-delete in DeleteCollection.
		CREATE TABLE IF NOT EXISTS places (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name            TEXT NOT NULL,
			address         TEXT NOT NULL DEFAULT '',
			latitude        REAL NOT NULL DEFAULT 0,
			longitude       REAL NOT NULL DEFAULT 0,
			google_place_id TEXT NOT NULL DEFAULT '',
			url             TEXT NOT NULL DEFAULT '',
			notes           TEXT NOT NULL DEFAULT '',
			rating          REAL NOT NULL DEFAULT 0,
			collection_id   TEXT REFERENCES collections(id) ON DELETE SET NULL,
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_places_user_id ON places(user_id);
		CREATE INDEX IF NOT EXISTS idx_places_name ON places(name);
		CREATE INDEX IF NOT EXISTS idx_places_collection_id ON places(collection_id);

		CREATE TABLE IF NOT EXISTS place_tags (
			place_id TEXT NOT NULL REFERENCES places(id) ON DELETE CASCADE,
			tag_id   TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (place_id, tag_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// storageErr wraps a low-level database error with operation context,
// translating "the store itself is gone" conditions (cancelled context,
// timed-out call, closed pool) into apperror.ErrUnavailable so callers can
// tell a dead store apart from one failed statement.
func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("sqlite: %s: %w", op, apperror.Unavailable(err))
	}
	return fmt.Errorf("sqlite: %s: %w", op, err)
}
