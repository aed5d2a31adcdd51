package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"passvault/internal/crypto"
	"passvault/internal/domain/access"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/user"
	"passvault/internal/tenant"

	"golang.org/x/exp/slog"
)

// Recorder appends access audit entries. Satisfied by the audit service.
type Recorder interface {
	RecordAccess(ctx context.Context, rec audit.AccessRecord) (audit.Entry, error)
	HistoryByCredential(ctx context.Context, credentialID string, page, pageSize int) ([]audit.Entry, error)
}

// Notifier receives credential lifecycle events. Satisfied by the
// notification service.
type Notifier interface {
	NotifyCredentialCreated(ctx context.Context, userID, title string, device *access.DeviceInfo) error
	NotifyCredentialUpdated(ctx context.Context, userID, title string, device *access.DeviceInfo) error
	NotifyCredentialDeleted(ctx context.Context, userID, title string, device *access.DeviceInfo) error
	NotifyCredentialShared(ctx context.Context, granteeUserID, ownerName, title string) error
	NotifyCredentialUnshared(ctx context.Context, granteeUserID, title string) error
}

type Servicer interface {
	Create(ctx context.Context, ownerID string, in CreateInput, actx AccessContext) (Credential, error)
	Search(ctx context.Context, userID string, q Query) (Page, error)
	Get(ctx context.Context, userID, credentialID string, actx AccessContext) (Credential, error)
	Reveal(ctx context.Context, userID, credentialID string, actx AccessContext) (string, error)
	Update(ctx context.Context, userID, credentialID string, in UpdateInput, actx AccessContext) (Credential, error)
	Delete(ctx context.Context, userID, credentialID string, actx AccessContext) error
	Invite(ctx context.Context, ownerID, credentialID, granteeEmail string, actx AccessContext) error
	Revoke(ctx context.Context, ownerID, credentialID, granteeUserID string, actx AccessContext) error
	AccessHistory(ctx context.Context, userID, credentialID string, page, pageSize int) ([]audit.Entry, error)
}

// AccessContext carries the device and location reported by the client for
// audit and notification purposes.
type AccessContext struct {
	Device   *access.DeviceInfo
	Location *access.LocationInfo
}

type CreateInput struct {
	Title                string
	SiteURL              string
	EmailID              string
	Secret               string
	UserName             string
	PhoneNumber          string
	Category             string
	Strength             string
	ReminderIntervalDays int
}

// UpdateInput replaces credential fields. An empty Secret leaves the stored
// secret untouched.
type UpdateInput struct {
	Title                string
	SiteURL              string
	EmailID              string
	Secret               string
	UserName             string
	PhoneNumber          string
	Category             string
	Strength             string
	ReminderIntervalDays int
}

type Service struct {
	repo     Repository
	users    user.Repository
	router   *tenant.Router
	guard    Guard
	recorder Recorder
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, users user.Repository, router *tenant.Router, recorder Recorder, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		router:   router,
		guard:    NewGuard(),
		recorder: recorder,
		notifier: notifier,
		log:      log.With("component", "credential_service"),
		now:      time.Now,
	}
}

// Create seals the secret under the owner's key and stores the credential
// in the owner's resolved store.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput, actx AccessContext) (Credential, error) {
	if err := validateInput(in.Title, in.SiteURL, in.EmailID, in.Secret, true); err != nil {
		return Credential{}, err
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return Credential{}, fmt.Errorf("load owner: %w", err)
	}

	box, err := crypto.New(owner.EncryptionKeyRef)
	if err != nil {
		return Credential{}, fmt.Errorf("open owner keybox: %w", err)
	}

	sealed, err := box.Encrypt(in.Secret)
	if err != nil {
		return Credential{}, fmt.Errorf("seal secret: %w", err)
	}

	store, err := s.router.Resolve(ctx, owner.StoragePreference)
	if err != nil {
		return Credential{}, err
	}

	now := s.now()
	created, err := s.repo.Create(ctx, store, Credential{
		OwnerUserID:          ownerID,
		Title:                in.Title,
		SiteURL:              in.SiteURL,
		EmailID:              in.EmailID,
		Secret:               sealed,
		UserName:             in.UserName,
		PhoneNumber:          in.PhoneNumber,
		Category:             in.Category,
		Strength:             in.Strength,
		ReminderIntervalDays: in.ReminderIntervalDays,
		CreatedAt:            now,
		UpdatedAt:            now,
		LastSecretChangeAt:   now,
	})
	if err != nil {
		return Credential{}, fmt.Errorf("store credential: %w", err)
	}

	if err := s.notifier.NotifyCredentialCreated(ctx, ownerID, created.Title, actx.Device); err != nil {
		s.log.Error("create notification failed", "user_id", ownerID, "error", err)
	}

	return created, nil
}

// Search lists credentials visible to the user in their resolved store.
func (s *Service) Search(ctx context.Context, userID string, q Query) (Page, error) {
	if err := q.Validate(); err != nil {
		return Page{}, err
	}
	q = q.Normalize()

	store, err := s.storeFor(ctx, userID)
	if err != nil {
		return Page{}, err
	}

	return s.repo.Search(ctx, store, userID, q)
}

// Get returns credential metadata without the secret and records a view.
func (s *Service) Get(ctx context.Context, userID, credentialID string, actx AccessContext) (Credential, error) {
	c, _, err := s.authorized(ctx, OpRead, userID, credentialID)
	if err != nil {
		return Credential{}, err
	}

	s.record(ctx, userID, c, access.TypeView, actx)

	c.Secret = ""
	return *c, nil
}

// Reveal decrypts the secret under the owner's key and records the
// decryption in the audit trail.
func (s *Service) Reveal(ctx context.Context, userID, credentialID string, actx AccessContext) (string, error) {
	c, _, err := s.authorized(ctx, OpRead, userID, credentialID)
	if err != nil {
		return "", err
	}

	box, err := s.ownerKeybox(ctx, c.OwnerUserID)
	if err != nil {
		return "", err
	}

	secret, err := box.Decrypt(c.Secret)
	if err != nil {
		return "", fmt.Errorf("open secret: %w", err)
	}

	s.record(ctx, userID, c, access.TypeDecrypt, actx)

	return secret, nil
}

// Update replaces credential fields. A changed secret is re-sealed under
// the owner's key, the previous ciphertext is pushed to history and the
// compromised flag is cleared.
func (s *Service) Update(ctx context.Context, userID, credentialID string, in UpdateInput, actx AccessContext) (Credential, error) {
	if err := validateInput(in.Title, in.SiteURL, in.EmailID, in.Secret, false); err != nil {
		return Credential{}, err
	}

	c, store, err := s.authorized(ctx, OpEdit, userID, credentialID)
	if err != nil {
		return Credential{}, err
	}

	now := s.now()
	c.Title = in.Title
	c.SiteURL = in.SiteURL
	c.EmailID = in.EmailID
	c.UserName = in.UserName
	c.PhoneNumber = in.PhoneNumber
	c.Category = in.Category
	c.Strength = in.Strength
	c.ReminderIntervalDays = in.ReminderIntervalDays
	c.UpdatedAt = now

	if in.Secret != "" {
		box, err := s.ownerKeybox(ctx, c.OwnerUserID)
		if err != nil {
			return Credential{}, err
		}

		sealed, err := box.Encrypt(in.Secret)
		if err != nil {
			return Credential{}, fmt.Errorf("seal secret: %w", err)
		}

		c.History = append(c.History, SecretHistoryEntry{
			OldSecret: c.Secret,
			ChangedAt: now,
			Reason:    "updated",
		})
		c.Secret = sealed
		c.LastSecretChangeAt = now
		c.IsCompromised = false
	}

	if err := s.repo.Replace(ctx, store, *c); err != nil {
		return Credential{}, fmt.Errorf("store credential: %w", err)
	}

	s.record(ctx, userID, c, access.TypeEdit, actx)

	if err := s.notifier.NotifyCredentialUpdated(ctx, c.OwnerUserID, c.Title, actx.Device); err != nil {
		s.log.Error("update notification failed", "user_id", c.OwnerUserID, "error", err)
	}

	c.Secret = ""
	return *c, nil
}

// Delete removes a credential. Only the owner may delete; shared editors
// are denied.
func (s *Service) Delete(ctx context.Context, userID, credentialID string, actx AccessContext) error {
	c, store, err := s.authorized(ctx, OpDelete, userID, credentialID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, store, credentialID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}

	s.record(ctx, userID, c, access.TypeDelete, actx)

	if err := s.notifier.NotifyCredentialDeleted(ctx, c.OwnerUserID, c.Title, actx.Device); err != nil {
		s.log.Error("delete notification failed", "user_id", c.OwnerUserID, "error", err)
	}

	return nil
}

// Invite grants shared access to the user behind granteeEmail. Re-inviting
// an existing grantee refreshes nothing and succeeds; inviting yourself is
// rejected.
func (s *Service) Invite(ctx context.Context, ownerID, credentialID, granteeEmail string, actx AccessContext) error {
	c, store, err := s.authorized(ctx, OpShare, ownerID, credentialID)
	if err != nil {
		return err
	}

	grantee, err := s.users.GetByEmail(ctx, granteeEmail)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fmt.Errorf("%w: no user with that email", ErrValidation)
		}
		return fmt.Errorf("load grantee: %w", err)
	}

	if grantee.ID == ownerID {
		return fmt.Errorf("%w: cannot share a credential with yourself", ErrValidation)
	}

	changed, err := s.repo.AddShareGrant(ctx, store, credentialID, ShareGrant{
		GranteeUserID: grantee.ID,
		DisplayName:   grantee.DisplayName(),
		ProfileRef:    grantee.ProfilePicture,
	})
	if err != nil {
		return fmt.Errorf("add share grant: %w", err)
	}
	if !changed {
		return nil
	}

	s.record(ctx, ownerID, c, access.TypeShare, actx)

	owner, err := s.users.GetByID(ctx, ownerID)
	ownerName := ownerID
	if err == nil {
		ownerName = owner.DisplayName()
	}
	if err := s.notifier.NotifyCredentialShared(ctx, grantee.ID, ownerName, c.Title); err != nil {
		s.log.Error("share notification failed", "grantee_id", grantee.ID, "error", err)
	}

	return nil
}

// Revoke removes a grant. Revoking a grantee who holds no grant is a no-op.
func (s *Service) Revoke(ctx context.Context, ownerID, credentialID, granteeUserID string, actx AccessContext) error {
	c, store, err := s.authorized(ctx, OpRevoke, ownerID, credentialID)
	if err != nil {
		return err
	}

	changed, err := s.repo.RemoveShareGrant(ctx, store, credentialID, granteeUserID)
	if err != nil {
		return fmt.Errorf("remove share grant: %w", err)
	}
	if !changed {
		return nil
	}

	if err := s.notifier.NotifyCredentialUnshared(ctx, granteeUserID, c.Title); err != nil {
		s.log.Error("unshare notification failed", "grantee_id", granteeUserID, "error", err)
	}

	return nil
}

// AccessHistory lists the audit trail of a credential the user may read.
func (s *Service) AccessHistory(ctx context.Context, userID, credentialID string, page, pageSize int) ([]audit.Entry, error) {
	if _, _, err := s.authorized(ctx, OpRead, userID, credentialID); err != nil {
		return nil, err
	}
	return s.recorder.HistoryByCredential(ctx, credentialID, page, pageSize)
}

// authorized loads the credential and checks the operation. A missing
// credential is reported as ErrAccessDenied so callers cannot distinguish
// "absent" from "not yours".
func (s *Service) authorized(ctx context.Context, op Operation, userID, credentialID string) (*Credential, *tenant.Store, error) {
	store, err := s.storeFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	c, err := s.repo.GetByID(ctx, store, credentialID)
	if errors.Is(err, ErrNotFound) && !store.Shared() {
		// Shared grants live in the owner's store; a grantee who routed
		// their own data elsewhere still reads shared items from the
		// default store.
		store = s.router.Default()
		c, err = s.repo.GetByID(ctx, store, credentialID)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrAccessDenied
		}
		return nil, nil, fmt.Errorf("load credential: %w", err)
	}

	if err := s.guard.Authorize(op, &c, userID); err != nil {
		return nil, nil, err
	}
	return &c, store, nil
}

func (s *Service) storeFor(ctx context.Context, userID string) (*tenant.Store, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return s.router.Resolve(ctx, u.StoragePreference)
}

func (s *Service) ownerKeybox(ctx context.Context, ownerID string) (*crypto.Keybox, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	box, err := crypto.New(owner.EncryptionKeyRef)
	if err != nil {
		return nil, fmt.Errorf("open owner keybox: %w", err)
	}
	return box, nil
}

// record appends an audit entry for the access. Audit failures are logged,
// not surfaced: the user's operation already succeeded.
func (s *Service) record(ctx context.Context, userID string, c *Credential, typ access.Type, actx AccessContext) {
	_, err := s.recorder.RecordAccess(ctx, audit.AccessRecord{
		UserID:          userID,
		CredentialID:    c.ID,
		CredentialTitle: c.Title,
		AccessType:      typ,
		DeviceInfo:      actx.Device,
		LocationInfo:    actx.Location,
	})
	if err != nil {
		s.log.Error("audit record failed", "user_id", userID, "credential_id", c.ID, "error", err)
	}
}

func validateInput(title, siteURL, emailID, secret string, secretRequired bool) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLen)
	}
	if len(siteURL) > maxSiteURLLen {
		return fmt.Errorf("%w: site_url exceeds %d characters", ErrValidation, maxSiteURLLen)
	}
	if len(emailID) > maxEmailLen {
		return fmt.Errorf("%w: email_id exceeds %d characters", ErrValidation, maxEmailLen)
	}
	if secretRequired && secret == "" {
		return fmt.Errorf("%w: secret is required", ErrValidation)
	}
	return nil
}
