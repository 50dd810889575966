package repository

import (
	"context"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		chat_id      INTEGER PRIMARY KEY,
		username     TEXT,
		first_name   TEXT,
		registered   BOOLEAN NOT NULL DEFAULT FALSE,
		total_points INTEGER NOT NULL DEFAULT 0,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS matti (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		name   TEXT NOT NULL UNIQUE,
		points INTEGER NOT NULL CHECK (points > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS sightings (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		user_chat_id   INTEGER NOT NULL REFERENCES users(chat_id) ON DELETE CASCADE,
		matto_id       INTEGER NOT NULL REFERENCES matti(id) ON DELETE CASCADE,
		matto_name     TEXT NOT NULL,
		points_awarded INTEGER NOT NULL,
		file_id        TEXT NOT NULL,
		created_at     DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_user ON sightings(user_chat_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_matto ON sightings(matto_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		chat_id      BIGINT PRIMARY KEY,
		username     TEXT,
		first_name   TEXT,
		registered   BOOLEAN NOT NULL DEFAULT FALSE,
		total_points INTEGER NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS matti (
		id     BIGSERIAL PRIMARY KEY,
		name   TEXT NOT NULL UNIQUE,
		points INTEGER NOT NULL CHECK (points > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS sightings (
		id             BIGSERIAL PRIMARY KEY,
		user_chat_id   BIGINT NOT NULL REFERENCES users(chat_id) ON DELETE CASCADE,
		matto_id       BIGINT NOT NULL REFERENCES matti(id) ON DELETE CASCADE,
		matto_name     TEXT NOT NULL,
		points_awarded INTEGER NOT NULL,
		file_id        TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_user ON sightings(user_chat_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_matto ON sightings(matto_id)`,
}

func (r *Repository) migrate(ctx context.Context) error {
	statements := postgresSchema
	if r.dialect == DriverSQLite {
		statements = sqliteSchema
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), err)
		}
	}

	return nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
