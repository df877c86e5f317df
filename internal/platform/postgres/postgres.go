// Package postgres owns database connection lifecycle and schema setup.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// schema is applied idempotently at startup. A migration tool would replace
// this if the schema ever needs versioned changes.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    timezone   TEXT NOT NULL DEFAULT 'UTC',
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS profiles_name_ci_idx ON profiles (LOWER(name));

CREATE TABLE IF NOT EXISTS events (
    id         UUID PRIMARY KEY,
    timezone   TEXT NOT NULL,
    start_at   TIMESTAMPTZ NOT NULL,
    end_at     TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    CONSTRAINT events_range_chk CHECK (end_at > start_at)
);
CREATE INDEX IF NOT EXISTS events_start_at_idx ON events (start_at);

CREATE TABLE IF NOT EXISTS event_profiles (
    event_id   UUID NOT NULL REFERENCES events (id),
    profile_id UUID NOT NULL REFERENCES profiles (id),
    PRIMARY KEY (event_id, profile_id)
);
CREATE INDEX IF NOT EXISTS event_profiles_profile_idx ON event_profiles (profile_id);

CREATE TABLE IF NOT EXISTS event_logs (
    id         UUID PRIMARY KEY,
    event_id   UUID NOT NULL REFERENCES events (id),
    message    TEXT NOT NULL,
    field      TEXT,
    old_value  TEXT,
    new_value  TEXT,
    seq        BIGSERIAL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS event_logs_event_idx ON event_logs (event_id, seq DESC);
`

// EnsureSchema creates the tables when absent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
