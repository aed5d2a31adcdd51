package user

import (
	"context"
	"errors"
	"fmt"

	"passvault/internal/crypto"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// StoreProber validates a storage preference by performing a lightweight
// connectivity probe. Implemented by the tenant router.
type StoreProber interface {
	Probe(ctx context.Context, pref StoragePreference) error
}

type Servicer interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	UpdateStoragePreference(ctx context.Context, id string, pref StoragePreference) error
	RegisterTrustedDevice(ctx context.Context, id string, device TrustedDevice) error
	RegisterKnownLocation(ctx context.Context, id, city string) error
}

type Service struct {
	repo      Repository
	validator Validator
	prober    StoreProber
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, prober StoreProber, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		prober:    prober,
		log:       log.With("component", "user_service"),
	}
}

// Register creates the identity record and mints the user's encryption key.
// The key is generated exactly once; every secret the user ever stores is
// sealed under it.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (User, error) {
	if err := s.validator.ValidateRegister(email, password); err != nil {
		s.log.Debug("registration validation failed", "email", email, "error", err)
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	keyRef, err := crypto.GenerateKey()
	if err != nil {
		return User{}, fmt.Errorf("generate encryption key: %w", err)
	}

	created, err := s.repo.Create(ctx, User{
		Email:             email,
		PasswordHash:      string(hash),
		EncryptionKeyRef:  keyRef,
		StoragePreference: StoragePreference{Type: StorageShared},
		FirstName:         firstName,
		LastName:          lastName,
		Role:              RoleUser,
	})
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", "user_id", created.ID)
	return created, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidAuth
	}
	if u.IsDeleted {
		return User{}, ErrInvalidAuth
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidAuth
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		s.log.Warn("failed to record last login", "user_id", u.ID, "error", err)
	}

	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// ChangePassword verifies the current password before re-hashing. The
// encryption key is independent of the login password and stays unchanged.
func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidAuth
	}

	if err := s.validator.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info("password changed", "user_id", id)
	return nil
}

// UpdateStoragePreference persists a new routing preference. A preference
// pointing at a user-supplied store must pass a connectivity probe first;
// a failed probe surfaces as ErrInvalidStoreConfig and nothing is saved.
func (s *Service) UpdateStoragePreference(ctx context.Context, id string, pref StoragePreference) error {
	switch pref.Type {
	case StorageShared:
		pref.ConnectionString = ""
	case StorageOwn:
		if pref.ConnectionString == "" {
			return fmt.Errorf("%w: connection string is required", ErrInvalidStoreConfig)
		}
		if err := s.prober.Probe(ctx, pref); err != nil {
			s.log.Warn("storage preference probe failed", "user_id", id, "error", err)
			return fmt.Errorf("%w: %v", ErrInvalidStoreConfig, err)
		}
	default:
		return fmt.Errorf("%w: unknown storage type %q", ErrInvalidInput, pref.Type)
	}

	if err := s.repo.UpdateStoragePreference(ctx, id, pref); err != nil {
		return fmt.Errorf("update storage preference: %w", err)
	}

	s.log.Info("storage preference updated", "user_id", id, "type", pref.Type)
	return nil
}

func (s *Service) RegisterTrustedDevice(ctx context.Context, id string, device TrustedDevice) error {
	if device.DeviceID == "" {
		return fmt.Errorf("%w: device id is required", ErrInvalidInput)
	}
	return s.repo.AddTrustedDevice(ctx, id, device)
}

func (s *Service) RegisterKnownLocation(ctx context.Context, id, city string) error {
	if city == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	return s.repo.AddKnownLocation(ctx, id, city)
}
