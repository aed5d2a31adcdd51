package audit

import (
	"context"
	"fmt"
	"time"

	"passvault/internal/domain/access"
	"passvault/internal/domain/user"

	"golang.org/x/exp/slog"
)

// Notifier receives the downstream events of a recorded access. It is
// satisfied by the notification service.
type Notifier interface {
	NotifyCredentialAccessed(ctx context.Context, userID, credentialID, title string, accessType access.Type, device *access.DeviceInfo, location *access.LocationInfo) error
	NotifySuspiciousActivity(ctx context.Context, userID, activity string, device *access.DeviceInfo, location *access.LocationInfo) error
}

type Servicer interface {
	RecordAccess(ctx context.Context, rec AccessRecord) (Entry, error)
	HistoryByCredential(ctx context.Context, credentialID string, page, pageSize int) ([]Entry, error)
	HistoryByUser(ctx context.Context, userID string, page, pageSize int) ([]Entry, error)
	Suspicious(ctx context.Context, userID string, page, pageSize int) ([]Entry, error)
}

// AccessRecord is the input to RecordAccess.
type AccessRecord struct {
	UserID          string
	CredentialID    string
	CredentialTitle string
	AccessType      access.Type
	DeviceInfo      *access.DeviceInfo
	LocationInfo    *access.LocationInfo
}

type Service struct {
	repo     Repository
	users    user.Repository
	notifier Notifier
	rules    []Rule
	policy   Policy
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, users user.Repository, notifier Notifier, policy Policy, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		rules:    defaultRules(policy),
		policy:   policy,
		log:      log.With("component", "audit_service"),
		now:      time.Now,
	}
}

// RecordAccess classifies the access, runs the suspicion rules against the
// user's recent history and appends the entry. Notification failures are
// logged and never surfaced: the audit record is the source of truth.
func (s *Service) RecordAccess(ctx context.Context, rec AccessRecord) (Entry, error) {
	now := s.now()

	e := Entry{
		UserID:          rec.UserID,
		CredentialID:    rec.CredentialID,
		CredentialTitle: rec.CredentialTitle,
		AccessType:      rec.AccessType,
		AccessedAt:      now,
		DeviceInfo:      rec.DeviceInfo,
		LocationInfo:    rec.LocationInfo,
	}

	s.classify(ctx, &e)

	recent, err := s.repo.RecentByUser(ctx, rec.UserID, now.Add(-s.policy.RapidAccessWindow))
	if err != nil {
		return Entry{}, fmt.Errorf("load recent accesses: %w", err)
	}

	for _, rule := range s.rules {
		if matched, reason := rule.Evaluate(e, recent, now); matched {
			e.IsSuspicious = true
			e.SuspiciousReason = reason
		}
	}

	inserted, err := s.repo.Insert(ctx, e)
	if err != nil {
		return Entry{}, fmt.Errorf("insert audit entry: %w", err)
	}

	if err := s.notifier.NotifyCredentialAccessed(ctx, rec.UserID, rec.CredentialID, rec.CredentialTitle, rec.AccessType, rec.DeviceInfo, rec.LocationInfo); err != nil {
		s.log.Error("access notification failed", "user_id", rec.UserID, "credential_id", rec.CredentialID, "error", err)
	}

	if inserted.IsSuspicious {
		if err := s.notifier.NotifySuspiciousActivity(ctx, rec.UserID, inserted.SuspiciousReason, rec.DeviceInfo, rec.LocationInfo); err != nil {
			s.log.Error("suspicious activity notification failed", "user_id", rec.UserID, "error", err)
		}
	}

	return inserted, nil
}

// classify marks the entry as coming from a trusted device or known
// location. A failed user lookup leaves both flags false.
func (s *Service) classify(ctx context.Context, e *Entry) {
	u, err := s.users.GetByID(ctx, e.UserID)
	if err != nil {
		s.log.Warn("user lookup failed during access classification", "user_id", e.UserID, "error", err)
		return
	}

	if e.DeviceInfo != nil && e.DeviceInfo.DeviceID != "" {
		for _, d := range u.TrustedDevices {
			if d.DeviceID == e.DeviceInfo.DeviceID {
				e.IsFromTrustedDevice = true
				break
			}
		}
	}

	if e.LocationInfo != nil && e.LocationInfo.City != "" {
		for _, city := range u.KnownLocations {
			if city == e.LocationInfo.City {
				e.IsFromKnownLocation = true
				break
			}
		}
	}
}

func (s *Service) HistoryByCredential(ctx context.Context, credentialID string, page, pageSize int) ([]Entry, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.repo.HistoryByCredential(ctx, credentialID, page, pageSize)
}

func (s *Service) HistoryByUser(ctx context.Context, userID string, page, pageSize int) ([]Entry, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.repo.HistoryByUser(ctx, userID, page, pageSize)
}

func (s *Service) Suspicious(ctx context.Context, userID string, page, pageSize int) ([]Entry, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.repo.Suspicious(ctx, userID, page, pageSize)
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
