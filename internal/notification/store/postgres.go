package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"electoral/internal/notification/models"
	"electoral/internal/platform/postgres"
	id "electoral/pkg/domain"
	"electoral/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert stores one notification. A second insert for the same event_id is a
// no-op that returns the existing row's id with created=false.
func (s *PostgresStore) Insert(ctx context.Context, note *models.Notification) (id.NotificationID, bool, error) {
	var noteID id.NotificationID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, event_id, title, message, category, is_read, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, FALSE, $6)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING id
	`, note.UserID, note.EventID, note.Title, note.Message, string(note.Category), note.CreatedAt).Scan(&noteID)
	switch {
	case err == nil:
		return noteID, true, nil
	case errors.Is(err, sql.ErrNoRows):
		err = s.db.QueryRowContext(ctx,
			`SELECT id FROM notifications WHERE event_id = $1`, note.EventID).Scan(&noteID)
		if err != nil {
			return 0, false, fmt.Errorf("find notification by event: %w", err)
		}
		return noteID, false, nil
	case postgres.IsForeignKeyViolation(err):
		return 0, false, fmt.Errorf("insert notification: %w", sentinel.ErrMissingReference)
	default:
		return 0, false, fmt.Errorf("insert notification: %w", err)
	}
}

func (s *PostgresStore) ListForUser(ctx context.Context, userID id.UserID, limit int, unreadOnly bool) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, COALESCE(event_id, ''), title, message, category, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT is_read)
		ORDER BY id DESC
		LIMIT $3
	`, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var category string
		if err := rows.Scan(&n.ID, &n.UserID, &n.EventID, &n.Title, &n.Message, &category, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Category = models.Category(category)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountUnread(ctx context.Context, userID id.UserID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead returns sentinel.ErrNotFound when the notification does not
// belong to userID.
func (s *PostgresStore) MarkRead(ctx context.Context, userID id.UserID, noteID id.NotificationID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, noteID, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) MarkAllRead(ctx context.Context, userID id.UserID) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(n), nil
}
