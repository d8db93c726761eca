package storage

import (
	"context"
	"fmt"
)

// schema is the PostgreSQL schema, applied idempotently on startup.
const schema = `
CREATE TABLE IF NOT EXISTS technicians (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	address     TEXT NOT NULL,
	active      BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS prices (
	id          BIGSERIAL PRIMARY KEY,
	model       TEXT NOT NULL UNIQUE,
	unit_price  NUMERIC(12,2) NOT NULL,
	cable_adder NUMERIC(12,2) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS user_prefs (
	id    BIGSERIAL PRIMARY KEY,
	phone TEXT NOT NULL UNIQUE,
	tz    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS jobs (
	id             BIGSERIAL PRIMARY KEY,
	created_at     TIMESTAMPTZ NOT NULL,
	customer_phone TEXT NOT NULL,
	model          TEXT,
	qty            INTEGER NOT NULL DEFAULT 1,
	include_cable  BOOLEAN NOT NULL DEFAULT FALSE,
	notes          TEXT,
	photo_url      TEXT,
	status         TEXT NOT NULL DEFAULT 'draft',
	intake_step    INTEGER NOT NULL DEFAULT 0,
	assigned_to_id BIGINT REFERENCES technicians (id)
);

CREATE INDEX IF NOT EXISTS idx_jobs_customer_intake
	ON jobs (customer_phone, status, intake_step);
`

// EnsureSchema creates the tables if they do not exist yet.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
