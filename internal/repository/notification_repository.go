package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/cavy-ledger/internal/models"
)

// NotificationRepository persists generated alerts.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates the repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, kind, title, message, priority, read, created_at, expires_at, related_record_id, related_record_kind`

// Create inserts a notification and fills its id and creation time.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	const query = `INSERT INTO notifications (kind, title, message, priority, read, created_at, expires_at, related_record_id, related_record_kind)
VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		n.Kind, n.Title, n.Message, n.Priority, n.CreatedAt, n.ExpiresAt, n.RelatedRecordID, n.RelatedRecordKind,
	).Scan(&n.ID); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListUnread returns up to limit unread notifications, most urgent first then newest.
func (r *NotificationRepository) ListUnread(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + notificationColumns + ` FROM notifications
WHERE read = FALSE
ORDER BY CASE priority WHEN 'urgent' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 ELSE 4 END, created_at DESC
LIMIT $1`
	var rows []models.Notification
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return rows, nil
}

// MarkRead flags one notification as read. Unknown ids return sql.ErrNoRows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkAllRead flags every notification as read and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE read = FALSE`)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// HasUnreadForRecord reports whether an unread notification of kind already
// points at the given source record.
func (r *NotificationRepository) HasUnreadForRecord(ctx context.Context, kind models.NotificationKind, relatedKind string, relatedID int64) (bool, error) {
	const query = `SELECT id FROM notifications
WHERE kind = $1 AND related_record_kind = $2 AND related_record_id = $3 AND read = FALSE LIMIT 1`
	var id int64
	err := r.db.GetContext(ctx, &id, query, kind, relatedKind, relatedID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	return true, nil
}

// HasUnreadWithTitle reports whether an unread notification of kind carries title.
func (r *NotificationRepository) HasUnreadWithTitle(ctx context.Context, kind models.NotificationKind, title string) (bool, error) {
	const query = `SELECT id FROM notifications WHERE kind = $1 AND title = $2 AND read = FALSE LIMIT 1`
	var id int64
	err := r.db.GetContext(ctx, &id, query, kind, title)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check notification title: %w", err)
	}
	return true, nil
}
