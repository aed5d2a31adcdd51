package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"passvault/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewNotificationRepository(pool *pgxpool.Pool, log *slog.Logger) *NotificationRepository {
	return &NotificationRepository{
		pool: pool,
		log:  log.With("component", "notification_repository"),
	}
}

const notificationColumns = `
	id, user_id, type, title, message, priority, is_read, credential_id,
	device_info, location_info, created_at, read_at, expires_at`

func (r *NotificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	const query = `
		INSERT INTO notifications (
			id, user_id, type, title, message, priority, is_read,
			credential_id, device_info, location_info, created_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	n.ID = uuid.NewString()

	device, location, err := marshalContext(n.DeviceInfo, n.LocationInfo)
	if err != nil {
		return notification.Notification{}, err
	}

	_, err = r.pool.Exec(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Priority, n.IsRead,
		n.CredentialID, device, location, n.CreatedAt, n.ExpiresAt,
	)
	if err != nil {
		r.log.Error("failed to create notification", "user_id", n.UserID, "error", err)
		return notification.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	return n, nil
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, userID string, page, pageSize int) ([]notification.Notification, error) {
	const query = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		r.log.Error("failed to list notifications", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	return r.scanNotifications(rows)
}

func (r *NotificationRepository) ListUnread(ctx context.Context, userID string) ([]notification.Notification, error) {
	const query = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to list unread notifications", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	defer rows.Close()

	return r.scanNotifications(rows)
}

// MarkRead only transitions unread rows so read_at keeps the instant of
// the first read. Zero rows affected is success.
func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	const query = `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND NOT is_read`

	if _, err := r.pool.Exec(ctx, query, notificationID, userID); err != nil {
		r.log.Error("failed to mark notification read", "notification_id", notificationID, "error", err)
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	const query = `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND NOT is_read`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		r.log.Error("failed to mark all notifications read", "user_id", userID, "error", err)
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) Stats(ctx context.Context, userID string, from, to time.Time) (map[string]int, error) {
	const query = `
		SELECT type, COUNT(*)
		FROM notifications
		WHERE user_id = $1 AND created_at BETWEEN $2 AND $3
		GROUP BY type`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		r.log.Error("failed to load notification stats", "user_id", userID, "error", err)
		return nil, fmt.Errorf("notification stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("scan notification stat: %w", err)
		}
		stats[typ] = count
	}
	return stats, rows.Err()
}

func (r *NotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM notifications WHERE expires_at <= $1`

	result, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		r.log.Error("failed to delete expired notifications", "error", err)
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *NotificationRepository) CreateAlert(ctx context.Context, a notification.SecurityAlert) (notification.SecurityAlert, error) {
	const query = `
		INSERT INTO security_alerts (
			id, user_id, alert_type, severity, title, description,
			credential_id, device_info, resolved, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	a.ID = uuid.NewString()

	device, _, err := marshalContext(a.DeviceInfo, nil)
	if err != nil {
		return notification.SecurityAlert{}, err
	}

	_, err = r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.AlertType, a.Severity, a.Title, a.Description,
		a.CredentialID, device, a.Resolved, a.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to create security alert", "user_id", a.UserID, "error", err)
		return notification.SecurityAlert{}, fmt.Errorf("create security alert: %w", err)
	}

	return a, nil
}

func (r *NotificationRepository) ListAlerts(ctx context.Context, userID string, severity notification.Severity) ([]notification.SecurityAlert, error) {
	query := `
		SELECT id, user_id, alert_type, severity, title, description,
		       credential_id, device_info, resolved, resolved_at, resolved_by,
		       created_at
		FROM security_alerts
		WHERE user_id = $1`

	args := []interface{}{userID}
	if severity != "" {
		query += ` AND severity = $2`
		args = append(args, severity)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list security alerts", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list security alerts: %w", err)
	}
	defer rows.Close()

	var alerts []notification.SecurityAlert
	for rows.Next() {
		var a notification.SecurityAlert
		var device []byte
		var resolvedAt *time.Time
		var resolvedBy *string

		err := rows.Scan(
			&a.ID, &a.UserID, &a.AlertType, &a.Severity, &a.Title,
			&a.Description, &a.CredentialID, &device, &a.Resolved,
			&resolvedAt, &resolvedBy, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan security alert: %w", err)
		}

		if a.DeviceInfo, _, err = unmarshalContext(device, nil); err != nil {
			return nil, err
		}
		a.ResolvedAt = resolvedAt
		if resolvedBy != nil {
			a.ResolvedBy = *resolvedBy
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *NotificationRepository) ResolveAlert(ctx context.Context, alertID, resolvedBy string) error {
	const query = `
		UPDATE security_alerts
		SET resolved = TRUE, resolved_at = NOW(), resolved_by = $1
		WHERE id = $2 AND user_id = $1`

	result, err := r.pool.Exec(ctx, query, resolvedBy, alertID)
	if err != nil {
		r.log.Error("failed to resolve alert", "alert_id", alertID, "error", err)
		return fmt.Errorf("resolve alert: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notification.ErrAlertNotFound
	}
	return nil
}

func (r *NotificationRepository) scanNotifications(rows pgx.Rows) ([]notification.Notification, error) {
	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		var device, location []byte
		var credentialID *string
		var readAt *time.Time

		err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Priority,
			&n.IsRead, &credentialID, &device, &location,
			&n.CreatedAt, &readAt, &n.ExpiresAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return notifications, nil
			}
			return nil, fmt.Errorf("scan notification: %w", err)
		}

		if n.DeviceInfo, n.LocationInfo, err = unmarshalContext(device, location); err != nil {
			return nil, err
		}
		if credentialID != nil {
			n.CredentialID = *credentialID
		}
		n.ReadAt = readAt
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
