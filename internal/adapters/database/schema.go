package database

import (
	"context"

	"github.com/zatekoja/facilityreservation/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL,
	role          TEXT NOT NULL,
	status        TEXT NOT NULL,
	organization  TEXT,
	phone         TEXT,
	documents     TEXT[] NOT NULL DEFAULT '{}',
	password_hash TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_users_email ON users (email);

CREATE TABLE IF NOT EXISTS facilities (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	type          TEXT NOT NULL,
	manager_id    TEXT NOT NULL,
	capacity      INTEGER NOT NULL DEFAULT 0,
	price         NUMERIC(12,2) NOT NULL DEFAULT 0,
	description   TEXT NOT NULL DEFAULT '',
	blocked_dates TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_facilities_manager ON facilities (manager_id);

CREATE TABLE IF NOT EXISTS reservations (
	id          TEXT PRIMARY KEY,
	facility_id TEXT NOT NULL REFERENCES facilities (id),
	user_id     TEXT NOT NULL REFERENCES users (id),
	dates       TEXT[] NOT NULL,
	status      TEXT NOT NULL,
	total_fee   NUMERIC(12,2) NOT NULL DEFAULT 0,
	reason      TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_reservations_facility ON reservations (facility_id);
CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations (user_id);
CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations (status);
`

// Migrate creates the reservation tables if they do not exist
func Migrate(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schema); err != nil {
		return apperrors.NewInternalError("failed to apply schema", err)
	}
	return nil
}
