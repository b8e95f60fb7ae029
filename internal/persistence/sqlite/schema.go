package sqlite

import (
	"context"
	"fmt"
)

// schema is the bootstrap DDL. Statements are idempotent so Migrate can run
// on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE COLLATE NOCASE,
	display_name TEXT NOT NULL,
	is_admin INTEGER NOT NULL DEFAULT 0,
	password_hash TEXT NOT NULL,
	disabled INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token TEXT NOT NULL UNIQUE,
	expires_at TEXT NOT NULL,
	created_at TEXT NOT NULL,
	revoked_at TEXT
);

CREATE TABLE IF NOT EXISTS bookings (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	start_min INTEGER NOT NULL CHECK (start_min >= 0),
	end_min INTEGER NOT NULL CHECK (end_min > start_min),
	studio TEXT NOT NULL,
	subject TEXT NOT NULL,
	proposal TEXT NOT NULL,
	professor TEXT NOT NULL,
	technicians TEXT NOT NULL DEFAULT '[]',
	type TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	owner_email TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bookings_date_studio ON bookings (date, studio);

CREATE TABLE IF NOT EXISTS blackouts (
	id TEXT PRIMARY KEY,
	studio TEXT NOT NULL,
	date TEXT NOT NULL,
	start_min INTEGER NOT NULL CHECK (start_min >= 0),
	end_min INTEGER NOT NULL CHECK (end_min > start_min),
	reason TEXT NOT NULL DEFAULT '',
	created_by TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_blackouts_studio ON blackouts (studio, date);

CREATE TABLE IF NOT EXISTS duration_rules (
	id TEXT PRIMARY KEY,
	subject TEXT NOT NULL,
	proposal TEXT NOT NULL,
	duration TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (subject, proposal)
);

CREATE TABLE IF NOT EXISTS technician_shifts (
	id TEXT PRIMARY KEY,
	technician TEXT NOT NULL,
	studio TEXT NOT NULL,
	weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
	start_min INTEGER NOT NULL CHECK (start_min >= 0),
	end_min INTEGER NOT NULL CHECK (end_min > start_min),
	active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shifts_studio_weekday ON technician_shifts (studio, weekday);

CREATE TABLE IF NOT EXISTS permissions (
	user_id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	can_edit INTEGER NOT NULL DEFAULT 0,
	can_cancel INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	booking_id TEXT NOT NULL,
	action TEXT NOT NULL,
	actor_id TEXT NOT NULL,
	actor_email TEXT NOT NULL,
	before_json TEXT,
	after_json TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_booking ON audit_log (booking_id);

CREATE TABLE IF NOT EXISTS fixed_slots (
	id TEXT PRIMARY KEY,
	subject TEXT NOT NULL,
	proposal TEXT NOT NULL,
	professor TEXT NOT NULL,
	studio TEXT NOT NULL,
	technicians TEXT NOT NULL DEFAULT '[]',
	weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
	start_min INTEGER NOT NULL CHECK (start_min >= 0),
	end_min INTEGER NOT NULL CHECK (end_min > start_min),
	type TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// Migrate applies the bootstrap schema.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
