package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations. Versions are
// sequential starting from 1.
//
// profiles.user_id carries the UNIQUE constraint that serializes concurrent
// profile creation for one user. notifications and user_activities reference
// it so removing a profile row sweeps the dependent rows even when the
// application-level cascade is bypassed.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	id            UUID PRIMARY KEY,
	user_id       UUID NOT NULL UNIQUE,
	phone         TEXT NOT NULL DEFAULT '',
	address       TEXT NOT NULL DEFAULT '',
	city          TEXT NOT NULL DEFAULT '',
	country       TEXT NOT NULL DEFAULT '',
	postal_code   TEXT NOT NULL DEFAULT '',
	about_me      TEXT NOT NULL DEFAULT '',
	picture_url   TEXT NOT NULL DEFAULT '',
	twitter_url   TEXT NOT NULL DEFAULT '',
	facebook_url  TEXT NOT NULL DEFAULT '',
	instagram_url TEXT NOT NULL DEFAULT '',
	linkedin_url  TEXT NOT NULL DEFAULT '',
	date_of_birth TIMESTAMPTZ,
	gender        TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'info',
	icon       TEXT NOT NULL DEFAULT '',
	url        TEXT NOT NULL DEFAULT '',
	is_read    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS user_activities (
	id            UUID PRIMARY KEY,
	user_id       UUID NOT NULL REFERENCES profiles(user_id) ON DELETE CASCADE,
	activity_type TEXT NOT NULL,
	details       JSONB,
	ip_address    TEXT,
	user_agent    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_created
	ON notifications(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
	ON notifications(user_id) WHERE is_read = FALSE;
CREATE INDEX IF NOT EXISTS idx_user_activities_user_created
	ON user_activities(user_id, created_at DESC);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

// Migrate applies any outstanding schema migrations in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	currentVersion := 0

	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'schema_version')`,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if exists {
		err = db.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&currentVersion)
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}
