package credential

import (
	"context"
	"time"

	"passvault/internal/tenant"
)

// Repository persists credentials in whichever physical store the caller
// resolved for the owner. Every method takes the store explicitly; the
// repository never picks one itself.
type Repository interface {
	Create(ctx context.Context, store *tenant.Store, c Credential) (Credential, error)
	GetByID(ctx context.Context, store *tenant.Store, id string) (Credential, error)
	// Search returns the page of credentials visible to userID (owned or
	// shared with them) matching the normalized query, newest first, plus
	// the unpaginated match count.
	Search(ctx context.Context, store *tenant.Store, userID string, q Query) (Page, error)
	Replace(ctx context.Context, store *tenant.Store, c Credential) error
	Delete(ctx context.Context, store *tenant.Store, id string) error
	// AddShareGrant appends the grant only when the grantee is not already
	// present; it reports whether the document changed.
	AddShareGrant(ctx context.Context, store *tenant.Store, credentialID string, grant ShareGrant) (bool, error)
	RemoveShareGrant(ctx context.Context, store *tenant.Store, credentialID, granteeUserID string) (bool, error)
	SetCompromised(ctx context.Context, store *tenant.Store, credentialID string, compromised bool) error
	// ListReminderDue returns credentials in the store whose rotation
	// reminder has elapsed at the given instant.
	ListReminderDue(ctx context.Context, store *tenant.Store, now time.Time) ([]Credential, error)
	// ListBatch pages through every credential in the store, oldest first,
	// for background scans.
	ListBatch(ctx context.Context, store *tenant.Store, limit, offset int) ([]Credential, error)
}
