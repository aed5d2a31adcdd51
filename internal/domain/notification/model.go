package notification

import (
	"time"

	"passvault/internal/domain/access"
)

// Type classifies a user-facing notification.
type Type string

const (
	TypeCredentialCreated      Type = "CredentialCreated"
	TypeCredentialAccessed     Type = "CredentialAccessed"
	TypeCredentialUpdated      Type = "CredentialUpdated"
	TypeCredentialDeleted      Type = "CredentialDeleted"
	TypeCredentialShared       Type = "CredentialShared"
	TypeCredentialUnshared     Type = "CredentialUnshared"
	TypeUserLogin              Type = "UserLogin"
	TypePasswordChangeReminder Type = "PasswordChangeReminder"
	TypePasswordCompromised    Type = "PasswordCompromised"
	TypeSuspiciousActivity     Type = "SuspiciousActivity"
)

// Priority orders notifications for the user.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// AlertType classifies a security alert.
type AlertType string

const (
	AlertPasswordCompromised AlertType = "PasswordCompromised"
	AlertDataBreach          AlertType = "DataBreach"
	AlertSuspiciousLogin     AlertType = "SuspiciousLogin"
	AlertUnauthorizedAccess  AlertType = "UnauthorizedAccess"
	AlertExpiredPassword     AlertType = "ExpiredPassword"
	AlertNewDeviceAccess     AlertType = "NewDeviceAccess"
)

// Severity grades a security alert.
type Severity string

const (
	SeverityInfo      Severity = "Info"
	SeverityWarning   Severity = "Warning"
	SeverityCritical  Severity = "Critical"
	SeverityEmergency Severity = "Emergency"
)

// PriorityFor maps alert severity to notification priority.
func PriorityFor(severity Severity) Priority {
	switch severity {
	case SeverityCritical, SeverityEmergency:
		return PriorityCritical
	case SeverityWarning:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// ExpiryTTL is how long a notification lives before the sweep removes it.
const ExpiryTTL = 30 * 24 * time.Hour

// Notification is a user-facing message. It auto-expires; expiry is
// enforced by the periodic sweep, not by the store.
type Notification struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	Type         Type                 `json:"type"`
	Title        string               `json:"title"`
	Message      string               `json:"message"`
	Priority     Priority             `json:"priority"`
	IsRead       bool                 `json:"is_read"`
	CredentialID string               `json:"credential_id,omitempty"`
	DeviceInfo   *access.DeviceInfo   `json:"device_info,omitempty"`
	LocationInfo *access.LocationInfo `json:"location_info,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	ReadAt       *time.Time           `json:"read_at,omitempty"`
	ExpiresAt    time.Time            `json:"expires_at"`
}

// SecurityAlert is created by the alert engine and mutated only by an
// explicit resolve; it is never deleted programmatically.
type SecurityAlert struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	AlertType    AlertType          `json:"alert_type"`
	Severity     Severity           `json:"severity"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	CredentialID string             `json:"credential_id,omitempty"`
	DeviceInfo   *access.DeviceInfo `json:"device_info,omitempty"`
	Resolved     bool               `json:"resolved"`
	ResolvedAt   *time.Time         `json:"resolved_at,omitempty"`
	ResolvedBy   string             `json:"resolved_by,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
