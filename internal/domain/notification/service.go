package notification

import (
	"context"
	"fmt"
	"time"

	"passvault/internal/domain/access"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	Notify(ctx context.Context, userID string, typ Type, title, message string, priority Priority, credentialID string, device *access.DeviceInfo, location *access.LocationInfo) (Notification, error)
	RaiseAlert(ctx context.Context, userID string, alertType AlertType, severity Severity, title, description, credentialID string, device *access.DeviceInfo) (SecurityAlert, error)

	NotifyCredentialCreated(ctx context.Context, userID, title string, device *access.DeviceInfo) error
	NotifyCredentialAccessed(ctx context.Context, userID, credentialID, title string, accessType access.Type, device *access.DeviceInfo, location *access.LocationInfo) error
	NotifyCredentialUpdated(ctx context.Context, userID, title string, device *access.DeviceInfo) error
	NotifyCredentialDeleted(ctx context.Context, userID, title string, device *access.DeviceInfo) error
	NotifyCredentialShared(ctx context.Context, granteeUserID, ownerName, title string) error
	NotifyCredentialUnshared(ctx context.Context, granteeUserID, title string) error
	NotifyLogin(ctx context.Context, userID string, device *access.DeviceInfo, location *access.LocationInfo) error
	NotifyPasswordChangeReminder(ctx context.Context, userID, title string, daysOverdue int) error
	NotifyPasswordCompromised(ctx context.Context, userID, credentialID, title, breachSource string) error
	NotifySuspiciousActivity(ctx context.Context, userID, activity string, device *access.DeviceInfo, location *access.LocationInfo) error

	List(ctx context.Context, userID string, page, pageSize int) ([]Notification, error)
	ListUnread(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
	Stats(ctx context.Context, userID string, from, to time.Time) (map[string]int, error)
	CleanupExpired(ctx context.Context) (int64, error)

	Alerts(ctx context.Context, userID string, severity Severity) ([]SecurityAlert, error)
	ResolveAlert(ctx context.Context, alertID, resolvedBy string) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "notification_service"),
	}
}

// Notify persists a generic notification with a 30-day expiry.
func (s *Service) Notify(ctx context.Context, userID string, typ Type, title, message string, priority Priority, credentialID string, device *access.DeviceInfo, location *access.LocationInfo) (Notification, error) {
	now := time.Now()
	n, err := s.repo.CreateNotification(ctx, Notification{
		UserID:       userID,
		Type:         typ,
		Title:        title,
		Message:      message,
		Priority:     priority,
		CredentialID: credentialID,
		DeviceInfo:   device,
		LocationInfo: location,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ExpiryTTL),
	})
	if err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// RaiseAlert persists a security alert and mirrors it as a notification
// with the mapped priority.
func (s *Service) RaiseAlert(ctx context.Context, userID string, alertType AlertType, severity Severity, title, description, credentialID string, device *access.DeviceInfo) (SecurityAlert, error) {
	alert, err := s.repo.CreateAlert(ctx, SecurityAlert{
		UserID:       userID,
		AlertType:    alertType,
		Severity:     severity,
		Title:        title,
		Description:  description,
		CredentialID: credentialID,
		DeviceInfo:   device,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return SecurityAlert{}, fmt.Errorf("create security alert: %w", err)
	}

	if _, err := s.Notify(ctx, userID, TypeSuspiciousActivity, title, description, PriorityFor(severity), credentialID, device, nil); err != nil {
		s.log.Error("failed to mirror alert as notification", "user_id", userID, "alert_type", alertType, "error", err)
	}

	return alert, nil
}

func (s *Service) NotifyCredentialCreated(ctx context.Context, userID, title string, device *access.DeviceInfo) error {
	_, err := s.Notify(ctx, userID, TypeCredentialCreated,
		"New Credential Created",
		fmt.Sprintf("You created a new credential: %s", title),
		PriorityLow, "", device, nil)
	return err
}

func (s *Service) NotifyCredentialAccessed(ctx context.Context, userID, credentialID, title string, accessType access.Type, device *access.DeviceInfo, location *access.LocationInfo) error {
	deviceText := "Unknown device"
	if device != nil && device.DeviceName != "" {
		deviceText = device.DeviceName
	}
	locationText := "Unknown location"
	if location != nil && location.City != "" {
		locationText = location.City
	}

	_, err := s.Notify(ctx, userID, TypeCredentialAccessed,
		"Credential Accessed",
		fmt.Sprintf("Your credential '%s' was %s from %s in %s", title, accessType.ActionText(), deviceText, locationText),
		PriorityMedium, credentialID, device, location)
	return err
}

func (s *Service) NotifyCredentialUpdated(ctx context.Context, userID, title string, device *access.DeviceInfo) error {
	_, err := s.Notify(ctx, userID, TypeCredentialUpdated,
		"Credential Updated",
		fmt.Sprintf("Your credential '%s' was updated", title),
		PriorityLow, "", device, nil)
	return err
}

func (s *Service) NotifyCredentialDeleted(ctx context.Context, userID, title string, device *access.DeviceInfo) error {
	_, err := s.Notify(ctx, userID, TypeCredentialDeleted,
		"Credential Deleted",
		fmt.Sprintf("Your credential '%s' was deleted", title),
		PriorityMedium, "", device, nil)
	return err
}

func (s *Service) NotifyCredentialShared(ctx context.Context, granteeUserID, ownerName, title string) error {
	_, err := s.Notify(ctx, granteeUserID, TypeCredentialShared,
		"Credential Shared With You",
		fmt.Sprintf("%s shared the credential '%s' with you", ownerName, title),
		PriorityMedium, "", nil, nil)
	return err
}

func (s *Service) NotifyCredentialUnshared(ctx context.Context, granteeUserID, title string) error {
	_, err := s.Notify(ctx, granteeUserID, TypeCredentialUnshared,
		"Credential Access Revoked",
		fmt.Sprintf("Your access to the credential '%s' was revoked", title),
		PriorityMedium, "", nil, nil)
	return err
}

func (s *Service) NotifyLogin(ctx context.Context, userID string, device *access.DeviceInfo, location *access.LocationInfo) error {
	deviceText := "Unknown device"
	if device != nil && device.DeviceName != "" {
		deviceText = device.DeviceName
	}
	locationText := "Unknown location"
	if location != nil && location.City != "" {
		locationText = location.City
	}

	_, err := s.Notify(ctx, userID, TypeUserLogin,
		"New Login",
		fmt.Sprintf("You logged in from %s in %s", deviceText, locationText),
		PriorityLow, "", device, location)
	return err
}

func (s *Service) NotifyPasswordChangeReminder(ctx context.Context, userID, title string, daysOverdue int) error {
	priority := PriorityMedium
	if daysOverdue > 30 {
		priority = PriorityHigh
	}

	message := fmt.Sprintf("Time to change password for '%s'", title)
	if daysOverdue > 0 {
		message = fmt.Sprintf("Password for '%s' is %d days overdue for change", title, daysOverdue)
	}

	_, err := s.Notify(ctx, userID, TypePasswordChangeReminder,
		"Password Change Reminder", message, priority, "", nil, nil)
	return err
}

// NotifyPasswordCompromised sends the critical notification and raises a
// Critical security alert alongside it.
func (s *Service) NotifyPasswordCompromised(ctx context.Context, userID, credentialID, title, breachSource string) error {
	message := fmt.Sprintf("Password for '%s' has been found in a data breach", title)
	if breachSource != "" {
		message = fmt.Sprintf("Password for '%s' was found in the %s data breach", title, breachSource)
	}

	if _, err := s.Notify(ctx, userID, TypePasswordCompromised,
		"Password Compromised", message, PriorityCritical, credentialID, nil, nil); err != nil {
		return err
	}

	_, err := s.RaiseAlert(ctx, userID, AlertPasswordCompromised, SeverityCritical,
		"Password Found in Data Breach", message, credentialID, nil)
	return err
}

func (s *Service) NotifySuspiciousActivity(ctx context.Context, userID, activity string, device *access.DeviceInfo, location *access.LocationInfo) error {
	_, err := s.Notify(ctx, userID, TypeSuspiciousActivity,
		"Suspicious Activity Detected", activity,
		PriorityHigh, "", device, location)
	return err
}

func (s *Service) List(ctx context.Context, userID string, page, pageSize int) ([]Notification, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return s.repo.ListNotifications(ctx, userID, page, pageSize)
}

func (s *Service) ListUnread(ctx context.Context, userID string) ([]Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

// MarkRead is idempotent: marking an already-read notification succeeds
// and leaves readAt untouched.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID string) error {
	return s.repo.MarkRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *Service) Stats(ctx context.Context, userID string, from, to time.Time) (map[string]int, error) {
	return s.repo.Stats(ctx, userID, from, to)
}

// CleanupExpired removes notifications past their expiry. Called by the
// background monitor, not by the store.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	if deleted > 0 {
		s.log.Info("expired notifications removed", "count", deleted)
	}
	return deleted, nil
}

func (s *Service) Alerts(ctx context.Context, userID string, severity Severity) ([]SecurityAlert, error) {
	return s.repo.ListAlerts(ctx, userID, severity)
}

func (s *Service) ResolveAlert(ctx context.Context, alertID, resolvedBy string) error {
	return s.repo.ResolveAlert(ctx, alertID, resolvedBy)
}

// Pagination limits for notification history.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
