package user

import "context"

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateStoragePreference(ctx context.Context, id string, pref StoragePreference) error
	UpdateLastLogin(ctx context.Context, id string) error
	AddTrustedDevice(ctx context.Context, id string, device TrustedDevice) error
	AddKnownLocation(ctx context.Context, id string, city string) error
	Delete(ctx context.Context, id string) error
}
