package credential

import "time"

// Credential is one vault document. Secret always holds ciphertext sealed
// under the owner's key, never the accessor's, even for shared reads.
type Credential struct {
	ID                   string               `json:"id"`
	OwnerUserID          string               `json:"owner_user_id"`
	Title                string               `json:"title"`
	SiteURL              string               `json:"site_url"`
	EmailID              string               `json:"email_id"`
	Secret               string               `json:"-"`
	UserName             string               `json:"user_name,omitempty"`
	PhoneNumber          string               `json:"phone_number,omitempty"`
	Category             string               `json:"category,omitempty"`
	Strength             string               `json:"strength,omitempty"`
	IsCompromised        bool                 `json:"is_compromised"`
	ReminderIntervalDays int                  `json:"reminder_interval_days"`
	SharedWith           []ShareGrant         `json:"shared_with,omitempty"`
	History              []SecretHistoryEntry `json:"-"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
	LastSecretChangeAt   time.Time            `json:"last_secret_change_at"`
}

// ShareGrant is a point-in-time snapshot of the grantee taken when the
// grant is made. It is not kept in sync with the grantee's profile; the
// owner refreshes it by re-granting.
type ShareGrant struct {
	GranteeUserID string `json:"grantee_user_id"`
	DisplayName   string `json:"display_name,omitempty"`
	ProfileRef    string `json:"profile_ref,omitempty"`
}

// SecretHistoryEntry keeps the previous ciphertext when the secret changes.
type SecretHistoryEntry struct {
	OldSecret string    `json:"old_secret"`
	ChangedAt time.Time `json:"changed_at"`
	Reason    string    `json:"reason,omitempty"`
}

func (c *Credential) IsOwner(userID string) bool {
	return c.OwnerUserID == userID
}

func (c *Credential) IsSharedWith(userID string) bool {
	for _, g := range c.SharedWith {
		if g.GranteeUserID == userID {
			return true
		}
	}
	return false
}

// ReminderDue reports whether the secret is overdue for rotation at the
// given instant.
func (c *Credential) ReminderDue(now time.Time) bool {
	if c.ReminderIntervalDays <= 0 {
		return false
	}
	last := c.LastSecretChangeAt
	if last.IsZero() {
		last = c.CreatedAt
	}
	return now.Sub(last) > time.Duration(c.ReminderIntervalDays)*24*time.Hour
}

// Page is one page of query results plus the unpaginated match count.
type Page struct {
	Credentials []Credential `json:"credentials"`
	TotalCount  int          `json:"total_count"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
}
