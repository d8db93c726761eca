// Package storagetest provides an in-memory SQLite-backed Storage for
// tests, so the real query set can be exercised without a PostgreSQL
// instance.
package storagetest

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/storage"
)

// schema mirrors the production schema in SQLite dialect.
const schema = `
CREATE TABLE technicians (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	name    TEXT NOT NULL UNIQUE,
	address TEXT NOT NULL,
	active  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE prices (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	model       TEXT NOT NULL UNIQUE,
	unit_price  TEXT NOT NULL,
	cable_adder TEXT NOT NULL DEFAULT '0'
);

CREATE TABLE user_prefs (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	phone TEXT NOT NULL UNIQUE,
	tz    TEXT NOT NULL
);

CREATE TABLE jobs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at     TIMESTAMP NOT NULL,
	customer_phone TEXT NOT NULL,
	model          TEXT,
	qty            INTEGER NOT NULL DEFAULT 1,
	include_cable  BOOLEAN NOT NULL DEFAULT FALSE,
	notes          TEXT,
	photo_url      TEXT,
	status         TEXT NOT NULL DEFAULT 'draft',
	intake_step    INTEGER NOT NULL DEFAULT 0,
	assigned_to_id INTEGER REFERENCES technicians (id)
);
`

// New opens a fresh in-memory database with the test schema and wraps it
// in a Storage. The database is closed when the test finishes.
func New(t *testing.T) *storage.Storage {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return storage.New(db, logger)
}
