package user

import "passvault/internal/domain/access"

type registerInput struct {
	Body registerRequest
}

type registerRequest struct {
	Email     string `json:"email" format:"email" doc:"Email address, doubles as the login" maxLength:"100"`
	Password  string `json:"password" doc:"Password" minLength:"8" maxLength:"72"`
	FirstName string `json:"first_name,omitempty" doc:"First name"`
	LastName  string `json:"last_name,omitempty" doc:"Last name"`
}

type registerOutput struct {
	Body RegisterResponse
}

type RegisterResponse struct {
	ID     string `json:"user_id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type loginInput struct {
	Body loginRequest
}

type loginRequest struct {
	Email    string               `json:"email" format:"email" doc:"Email address"`
	Password string               `json:"password" doc:"Password"`
	Device   *access.DeviceInfo   `json:"device,omitempty" doc:"Device the login originates from"`
	Location *access.LocationInfo `json:"location,omitempty" doc:"Location the login originates from"`
}

type loginOutput struct {
	Body LoginResponse
}

type LoginResponse struct {
	Token  string `json:"token,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type changePasswordInput struct {
	Body changePasswordRequest
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" doc:"Current password"`
	NewPassword string `json:"new_password" doc:"New password" minLength:"8" maxLength:"72"`
}

type statusOutput struct {
	Body StatusResponse
}

type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type storagePreferenceInput struct {
	Body storagePreferenceRequest
}

type storagePreferenceRequest struct {
	Type             string `json:"type" enum:"SHARED,OWN" doc:"Storage preference type"`
	ConnectionString string `json:"connection_string,omitempty" doc:"Connection string for an own store"`
}

type trustedDeviceInput struct {
	Body trustedDeviceRequest
}

type trustedDeviceRequest struct {
	DeviceID   string `json:"device_id" minLength:"1" doc:"Stable device identifier"`
	DeviceName string `json:"device_name,omitempty" doc:"Human-readable device name"`
}

type knownLocationInput struct {
	Body knownLocationRequest
}

type knownLocationRequest struct {
	City string `json:"city" minLength:"1" doc:"City to treat as known"`
}

type profileOutput struct {
	Body ProfileResponse
}

type ProfileResponse struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	FirstName        string   `json:"first_name,omitempty"`
	LastName         string   `json:"last_name,omitempty"`
	ProfilePicture   string   `json:"profile_picture,omitempty"`
	StorageType      string   `json:"storage_type"`
	IsVerified       bool     `json:"is_verified"`
	TrustedDeviceIDs []string `json:"trusted_device_ids,omitempty"`
	KnownLocations   []string `json:"known_locations,omitempty"`
}
