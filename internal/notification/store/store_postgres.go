package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pulseboard/internal/notification/models"
	"pulseboard/internal/platform/postgres"
	id "pulseboard/pkg/domain"
	"pulseboard/pkg/platform/sentinel"
)

// Postgres persists notifications. Order is enforced by the query, not by the
// caller: listings are always created_at DESC with id as a tiebreaker so
// same-timestamp rows keep a stable order.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, icon, url, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(n.ID), uuid.UUID(n.UserID), n.Title, n.Message,
		string(n.Type), n.Icon, n.URL, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", postgres.MapError(err))
	}
	return nil
}

func (s *Postgres) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, icon, url, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", postgres.MapError(err))
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Postgres) FindByID(ctx context.Context, notificationID id.NotificationID) (*models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, icon, url, is_read, created_at
		FROM notifications WHERE id = $1
	`
	n, err := scanNotification(s.db.QueryRowContext(ctx, query, uuid.UUID(notificationID)))
	if err != nil {
		return nil, fmt.Errorf("find notification: %w", postgres.MapError(err))
	}
	return n, nil
}

// MarkRead sets is_read. The UPDATE touches only the flag; nothing else on
// the row is reachable from any code path.
func (s *Postgres) MarkRead(ctx context.Context, notificationID id.NotificationID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1`, uuid.UUID(notificationID))
	if err != nil {
		return fmt.Errorf("mark notification read: %w", postgres.MapError(err))
	}
	return requireRow(res)
}

func (s *Postgres) MarkAllRead(ctx context.Context, userID id.UserID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", postgres.MapError(err))
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, notificationID id.NotificationID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = $1`, uuid.UUID(notificationID))
	if err != nil {
		return fmt.Errorf("delete notification: %w", postgres.MapError(err))
	}
	return requireRow(res)
}

func (s *Postgres) DeleteByUser(ctx context.Context, userID id.UserID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete user notifications: %w", postgres.MapError(err))
	}
	return nil
}

func (s *Postgres) CountUnread(ctx context.Context, userID id.UserID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		uuid.UUID(userID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", postgres.MapError(err))
	}
	return count, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n              models.Notification
		notificationID uuid.UUID
		userID         uuid.UUID
		typ            string
	)
	err := row.Scan(&notificationID, &userID, &n.Title, &n.Message, &typ,
		&n.Icon, &n.URL, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.ID = id.NotificationID(notificationID)
	n.UserID = id.UserID(userID)
	n.Type = models.Type(typ)
	return &n, nil
}
