package notification

import (
	"context"
	"time"
)

type Repository interface {
	CreateNotification(ctx context.Context, n Notification) (Notification, error)
	ListNotifications(ctx context.Context, userID string, page, pageSize int) ([]Notification, error)
	ListUnread(ctx context.Context, userID string) ([]Notification, error)
	// MarkRead sets the read flag and readAt. Zero rows affected is not an
	// error: re-marking is a no-op.
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
	// Stats returns per-type notification counts within [from, to].
	Stats(ctx context.Context, userID string, from, to time.Time) (map[string]int, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	CreateAlert(ctx context.Context, a SecurityAlert) (SecurityAlert, error)
	// ListAlerts filters by severity when it is non-empty.
	ListAlerts(ctx context.Context, userID string, severity Severity) ([]SecurityAlert, error)
	ResolveAlert(ctx context.Context, alertID, resolvedBy string) error
}
