package audit

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, e Entry) (Entry, error)
	// RecentByUser returns the user's entries accessed at or after since,
	// newest first.
	RecentByUser(ctx context.Context, userID string, since time.Time) ([]Entry, error)
	HistoryByCredential(ctx context.Context, credentialID string, page, pageSize int) ([]Entry, error)
	HistoryByUser(ctx context.Context, userID string, page, pageSize int) ([]Entry, error)
	Suspicious(ctx context.Context, userID string, page, pageSize int) ([]Entry, error)
}
