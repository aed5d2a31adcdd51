package audit

import (
	"time"

	"passvault/internal/domain/access"
)

// Entry is an append-only record of one credential access. Entries are
// never updated or deleted after insertion.
type Entry struct {
	ID                  string               `json:"id"`
	UserID              string               `json:"user_id"`
	CredentialID        string               `json:"credential_id"`
	CredentialTitle     string               `json:"credential_title"`
	AccessType          access.Type          `json:"access_type"`
	AccessedAt          time.Time            `json:"accessed_at"`
	DeviceInfo          *access.DeviceInfo   `json:"device_info,omitempty"`
	LocationInfo        *access.LocationInfo `json:"location_info,omitempty"`
	IsSuspicious        bool                 `json:"is_suspicious"`
	SuspiciousReason    string               `json:"suspicious_reason,omitempty"`
	IsFromTrustedDevice bool                 `json:"is_from_trusted_device"`
	IsFromKnownLocation bool                 `json:"is_from_known_location"`
}
