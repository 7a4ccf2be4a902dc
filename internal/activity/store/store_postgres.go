package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"pulseboard/internal/activity/models"
	"pulseboard/internal/platform/postgres"
	id "pulseboard/pkg/domain"
)

// Postgres persists activity records in the user_activities table. The table
// sees INSERT and SELECT only, plus the cascade DELETE; there is no UPDATE
// statement anywhere in this package.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Append(ctx context.Context, a *models.Activity) error {
	var details []byte
	if a.Details != nil {
		var err error
		details, err = json.Marshal(a.Details)
		if err != nil {
			return fmt.Errorf("marshal activity details: %w", err)
		}
	}

	query := `
		INSERT INTO user_activities (id, user_id, activity_type, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(a.ID), uuid.UUID(a.UserID), a.ActivityType,
		nullBytes(details), nullString(a.IPAddress), a.UserAgent, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", postgres.MapError(err))
	}
	return nil
}

func (s *Postgres) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Activity, error) {
	query := `
		SELECT id, user_id, activity_type, details, ip_address, user_agent, created_at
		FROM user_activities
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", postgres.MapError(err))
	}
	defer rows.Close()

	var out []*models.Activity
	for rows.Next() {
		var (
			a          models.Activity
			activityID uuid.UUID
			uid        uuid.UUID
			details    []byte
			ipAddress  sql.NullString
		)
		if err := rows.Scan(&activityID, &uid, &a.ActivityType, &details,
			&ipAddress, &a.UserAgent, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ID = id.ActivityID(activityID)
		a.UserID = id.UserID(uid)
		a.IPAddress = ipAddress.String
		if len(details) > 0 {
			if err := json.Unmarshal(details, &a.Details); err != nil {
				return nil, fmt.Errorf("unmarshal activity details: %w", err)
			}
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// PurgeForUser removes every record owned by the user. Exists only for the
// user-deletion cascade; it is not reachable from any HTTP route.
func (s *Postgres) PurgeForUser(ctx context.Context, userID id.UserID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_activities WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("purge user activity: %w", postgres.MapError(err))
	}
	return nil
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
