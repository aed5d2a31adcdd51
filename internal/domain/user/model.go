package user

import "time"

// Storage preference types. Shared is the default multi-tenant store; Own
// routes the user's credentials to a store they supply themselves.
const (
	StorageShared = "SHARED"
	StorageOwn    = "OWN"
)

const RoleUser = "User"

// StoragePreference selects which physical store holds a user's credentials.
type StoragePreference struct {
	Type             string `json:"type"`
	ConnectionString string `json:"connection_string,omitempty"`
}

// OwnStore reports whether the preference points at a user-supplied store.
func (p StoragePreference) OwnStore() bool {
	return p.Type == StorageOwn && p.ConnectionString != ""
}

// User is the identity record. EncryptionKeyRef is minted once at
// registration and never leaves the server in plaintext responses.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	EncryptionKeyRef  string
	StoragePreference StoragePreference
	FirstName         string
	LastName          string
	ProfilePicture    string
	Role              string
	IsVerified        bool
	IsDeleted         bool
	TrustedDevices    []TrustedDevice
	KnownLocations    []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastLogin         time.Time
}

// DisplayName is the denormalized name copied into share grants.
func (u User) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// TrustedDevice is a device the user has explicitly registered. Accesses
// from any other device are treated as untrusted.
type TrustedDevice struct {
	DeviceID     string    `json:"device_id"`
	DeviceName   string    `json:"device_name,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}
