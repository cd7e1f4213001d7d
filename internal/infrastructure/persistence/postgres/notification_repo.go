package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/arise-hub/hunter-hub/internal/domain/notification"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

const notificationColumns = `
	id, account_id, key, type, priority, status,
	title, message, duration_ms, action,
	sent_at, delivered_at, retry_count, max_retries, last_error,
	created_at, updated_at
`

// Save inserts or updates a notification.
func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	var actionJSON []byte
	if n.Action != nil {
		var err error
		actionJSON, err = json.Marshal(n.Action)
		if err != nil {
			return fmt.Errorf("failed to marshal action: %w", err)
		}
	}

	query := `
		INSERT INTO notifications (
			id, account_id, key, type, priority, status,
			title, message, duration_ms, action,
			sent_at, delivered_at, retry_count, max_retries, last_error,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17
		)
		ON CONFLICT (id) DO UPDATE SET
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			sent_at = EXCLUDED.sent_at,
			delivered_at = EXCLUDED.delivered_at,
			retry_count = EXCLUDED.retry_count,
			last_error = EXCLUDED.last_error,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		string(n.ID),
		string(n.AccountID),
		string(n.Key),
		string(n.Type),
		int(n.Priority),
		string(n.Status),
		n.Title,
		n.Message,
		n.Duration.Milliseconds(),
		actionJSON,
		n.SentAt,
		n.DeliveredAt,
		n.RetryCount,
		n.MaxRetries,
		n.LastError,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// GetByID returns a notification by its identifier.
func (r *NotificationRepository) GetByID(ctx context.Context, id notification.NotificationID) (*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, string(id))
	n, err := scanNotification(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("notification %s: %w", id, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// GetByAccount returns the account's notifications, newest first.
func (r *NotificationRepository) GetByAccount(ctx context.Context, accountID shared.AccountID, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	return r.queryNotifications(ctx, query, string(accountID), limit)
}

// GetPersistent returns delivered notifications with zero duration. They stay
// on screen until the hunter completes the attached action.
func (r *NotificationRepository) GetPersistent(ctx context.Context, accountID shared.AccountID) ([]*notification.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE account_id = $1 AND duration_ms = 0 AND status = $2
		ORDER BY created_at DESC
	`

	return r.queryNotifications(ctx, query, string(accountID), string(notification.StatusDelivered))
}

// GetFailedForRetry returns failed notifications with retry budget left,
// oldest first so the backlog drains in order.
func (r *NotificationRepository) GetFailedForRetry(ctx context.Context, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE status = $1 AND retry_count < max_retries
		ORDER BY updated_at ASC
		LIMIT $2
	`

	return r.queryNotifications(ctx, query, string(notification.StatusFailed), limit)
}

// DeleteOlderThan removes notifications created before the given time.
// Persistent notifications are kept until their action is resolved.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.conn.Exec(ctx,
		`DELETE FROM notifications WHERE created_at < $1 AND duration_ms > 0`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}
	return result.RowsAffected(), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func (r *NotificationRepository) queryNotifications(ctx context.Context, query string, args ...any) ([]*notification.Notification, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n          notification.Notification
		id         string
		accountID  string
		key        string
		typ        string
		priority   int
		status     string
		durationMS int64
		actionJSON []byte
	)

	err := row.Scan(
		&id, &accountID, &key, &typ, &priority, &status,
		&n.Title, &n.Message, &durationMS, &actionJSON,
		&n.SentAt, &n.DeliveredAt, &n.RetryCount, &n.MaxRetries, &n.LastError,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.ID = notification.NotificationID(id)
	n.AccountID = shared.AccountID(accountID)
	n.Key = notification.Key(key)
	n.Type = notification.Type(typ)
	n.Priority = notification.Priority(priority)
	n.Status = notification.Status(status)
	n.Duration = time.Duration(durationMS) * time.Millisecond

	if len(actionJSON) > 0 {
		var action notification.Action
		if err := json.Unmarshal(actionJSON, &action); err != nil {
			return nil, fmt.Errorf("failed to unmarshal action: %w", err)
		}
		n.Action = &action
	}

	return &n, nil
}
