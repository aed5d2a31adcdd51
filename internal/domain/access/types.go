// Package access holds the vocabulary shared by the audit and alerting
// pipelines: what kind of access happened and from what device/location.
package access

// Type classifies an access to a credential.
type Type string

const (
	TypeView    Type = "View"
	TypeCopy    Type = "Copy"
	TypeEdit    Type = "Edit"
	TypeDelete  Type = "Delete"
	TypeShare   Type = "Share"
	TypeDecrypt Type = "Decrypt"
	TypeExport  Type = "Export"
)

func (t Type) String() string {
	return string(t)
}

// ActionText returns the past-tense verb used in notification messages.
func (t Type) ActionText() string {
	switch t {
	case TypeView:
		return "viewed"
	case TypeCopy:
		return "copied"
	case TypeEdit:
		return "edited"
	case TypeDelete:
		return "deleted"
	case TypeShare:
		return "shared"
	case TypeDecrypt:
		return "decrypted"
	case TypeExport:
		return "exported"
	default:
		return "accessed"
	}
}

// DeviceInfo describes the device a request originated from, as reported by
// the caller. All fields are optional.
type DeviceInfo struct {
	DeviceID        string `json:"device_id,omitempty"`
	DeviceName      string `json:"device_name,omitempty"`
	DeviceType      string `json:"device_type,omitempty"`
	OperatingSystem string `json:"operating_system,omitempty"`
	Browser         string `json:"browser,omitempty"`
	AppVersion      string `json:"app_version,omitempty"`
	UserAgent       string `json:"user_agent,omitempty"`
}

// LocationInfo describes where a request originated from. All fields are
// optional; no geolocation lookup happens server-side.
type LocationInfo struct {
	IPAddress string  `json:"ip_address,omitempty"`
	Country   string  `json:"country,omitempty"`
	City      string  `json:"city,omitempty"`
	Region    string  `json:"region,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
}
