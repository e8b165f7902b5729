package database

import (
	"context"
	"fmt"
)

// Schema is the full DDL for the hunt database. Statements are idempotent so
// Migrate can run on every deploy.
const Schema = `
CREATE TABLE IF NOT EXISTS locations (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	block      TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS teams (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	current_index INT NOT NULL DEFAULT 0,
	started_at    TIMESTAMPTZ,
	finished_at   TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS team_routes (
	team_id     TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
	position    INT NOT NULL,
	location_id TEXT NOT NULL REFERENCES locations(id),
	PRIMARY KEY (team_id, position)
);

CREATE TABLE IF NOT EXISTS tasks (
	id           BIGSERIAL PRIMARY KEY,
	location_id  TEXT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	instructions TEXT NOT NULL DEFAULT '',
	proof        TEXT NOT NULL DEFAULT '',
	pin          TEXT NOT NULL,
	UNIQUE (location_id, name)
);

CREATE INDEX IF NOT EXISTS idx_tasks_location_pin ON tasks (location_id, pin);

CREATE TABLE IF NOT EXISTS progress (
	id          BIGSERIAL PRIMARY KEY,
	team_id     TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
	position    INT NOT NULL,
	location_id TEXT NOT NULL REFERENCES locations(id),
	pin_suffix  TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_progress_team ON progress (team_id, position);

CREATE TABLE IF NOT EXISTS admins (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate applies the schema to the connected database.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
