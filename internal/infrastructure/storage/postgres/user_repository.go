package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"passvault/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

const uniqueViolation = "23505"

// UserRepository always operates on the default store. Identity records
// never follow a user's storage preference.
type UserRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewUserRepository(pool *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{
		pool: pool,
		log:  log.With("component", "user_repository"),
	}
}

const userColumns = `
	id, email, password_hash, encryption_key_ref, storage_type,
	storage_connection_string, first_name, last_name, profile_picture, role,
	is_verified, is_deleted, trusted_devices, known_locations,
	created_at, updated_at, last_login`

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	const query = `
		INSERT INTO users (
			id, email, password_hash, encryption_key_ref, storage_type,
			storage_connection_string, first_name, last_name, profile_picture,
			role, is_verified, is_deleted, trusted_devices, known_locations
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	u.ID = uuid.NewString()

	devices, err := json.Marshal(u.TrustedDevices)
	if err != nil {
		return user.User{}, fmt.Errorf("marshal trusted devices: %w", err)
	}
	locations, err := json.Marshal(u.KnownLocations)
	if err != nil {
		return user.User{}, fmt.Errorf("marshal known locations: %w", err)
	}

	err = r.pool.QueryRow(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.EncryptionKeyRef, u.StoragePreference.Type,
		u.StoragePreference.ConnectionString, u.FirstName, u.LastName, u.ProfilePicture,
		u.Role, u.IsVerified, u.IsDeleted, devices, locations,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailTaken
		}
		r.log.Error("failed to create user", "email", u.Email, "error", err)
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		r.log.Error("failed to update password", "user_id", id, "error", err)
		return fmt.Errorf("update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateStoragePreference(ctx context.Context, id string, pref user.StoragePreference) error {
	const query = `
		UPDATE users
		SET storage_type = $1, storage_connection_string = $2, updated_at = NOW()
		WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, pref.Type, pref.ConnectionString, id)
	if err != nil {
		r.log.Error("failed to update storage preference", "user_id", id, "error", err)
		return fmt.Errorf("update storage preference: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	const query = `UPDATE users SET last_login = NOW() WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// AddTrustedDevice appends the device only when its id is not already
// registered; re-registering is a no-op.
func (r *UserRepository) AddTrustedDevice(ctx context.Context, id string, device user.TrustedDevice) error {
	const query = `
		UPDATE users
		SET trusted_devices = trusted_devices || $1::jsonb, updated_at = NOW()
		WHERE id = $2
		  AND NOT EXISTS (
			SELECT 1 FROM jsonb_array_elements(trusted_devices) AS d
			WHERE d->>'device_id' = $3
		  )`

	payload, err := json.Marshal([]user.TrustedDevice{device})
	if err != nil {
		return fmt.Errorf("marshal trusted device: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, payload, id, device.DeviceID); err != nil {
		r.log.Error("failed to add trusted device", "user_id", id, "error", err)
		return fmt.Errorf("add trusted device: %w", err)
	}
	return nil
}

func (r *UserRepository) AddKnownLocation(ctx context.Context, id string, city string) error {
	const query = `
		UPDATE users
		SET known_locations = known_locations || $1::jsonb, updated_at = NOW()
		WHERE id = $2
		  AND NOT known_locations @> $1::jsonb`

	payload, err := json.Marshal([]string{city})
	if err != nil {
		return fmt.Errorf("marshal known location: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, payload, id); err != nil {
		r.log.Error("failed to add known location", "user_id", id, "error", err)
		return fmt.Errorf("add known location: %w", err)
	}
	return nil
}

// Delete soft-deletes the account. The row stays so owner keys referenced
// by shared grants remain resolvable.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE users SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("failed to delete user", "user_id", id, "error", err)
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var devices, locations []byte

	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.EncryptionKeyRef,
		&u.StoragePreference.Type, &u.StoragePreference.ConnectionString,
		&u.FirstName, &u.LastName, &u.ProfilePicture, &u.Role,
		&u.IsVerified, &u.IsDeleted, &devices, &locations,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("scan user: %w", err)
	}

	if err := json.Unmarshal(devices, &u.TrustedDevices); err != nil {
		return user.User{}, fmt.Errorf("unmarshal trusted devices: %w", err)
	}
	if err := json.Unmarshal(locations, &u.KnownLocations); err != nil {
		return user.User{}, fmt.Errorf("unmarshal known locations: %w", err)
	}

	return u, nil
}
