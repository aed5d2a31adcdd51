package credential

import (
	"passvault/internal/domain/access"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
)

type accessContext struct {
	Device   *access.DeviceInfo   `json:"device,omitempty" doc:"Device the request originates from"`
	Location *access.LocationInfo `json:"location,omitempty" doc:"Location the request originates from"`
}

type credentialFields struct {
	Title                string `json:"title" minLength:"1" maxLength:"200" doc:"Display title"`
	SiteURL              string `json:"site_url,omitempty" maxLength:"500" doc:"Site the credential belongs to"`
	EmailID              string `json:"email_id,omitempty" maxLength:"100" doc:"Account email"`
	UserName             string `json:"user_name,omitempty" doc:"Account username"`
	PhoneNumber          string `json:"phone_number,omitempty" doc:"Account phone number"`
	Category             string `json:"category,omitempty" doc:"Free-form category"`
	Strength             string `json:"strength,omitempty" doc:"Client-computed password strength"`
	ReminderIntervalDays int    `json:"reminder_interval_days,omitempty" minimum:"0" doc:"Rotation reminder interval, 0 disables"`
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	credentialFields
	Secret string `json:"secret" minLength:"1" doc:"Plaintext secret, sealed server-side"`
	accessContext
}

type createOutput struct {
	Body credential.Credential
}

type listInput struct {
	ID       string `query:"id" doc:"Exact credential id filter"`
	Title    string `query:"title" doc:"Title prefix filter"`
	SiteURL  string `query:"site_url" doc:"Site URL prefix filter"`
	EmailID  string `query:"email_id" doc:"Email prefix filter"`
	Page     int    `query:"page" minimum:"0" doc:"Page number, 1-based"`
	PageSize int    `query:"page_size" minimum:"0" maximum:"100" doc:"Page size, defaults to 30"`
}

type listOutput struct {
	Body credential.Page
}

type getInput struct {
	ID string `path:"id" doc:"Credential id"`
}

type getOutput struct {
	Body credential.Credential
}

type revealInput struct {
	ID   string `path:"id" doc:"Credential id"`
	Body accessContext
}

type revealOutput struct {
	Body RevealResponse
}

type RevealResponse struct {
	Secret string `json:"secret"`
}

type updateInput struct {
	ID   string `path:"id" doc:"Credential id"`
	Body updateRequest
}

type updateRequest struct {
	credentialFields
	Secret string `json:"secret,omitempty" doc:"New plaintext secret; empty leaves the stored secret unchanged"`
	accessContext
}

type updateOutput struct {
	Body credential.Credential
}

type deleteInput struct {
	ID string `path:"id" doc:"Credential id"`
}

type statusOutput struct {
	Body StatusResponse
}

type StatusResponse struct {
	Status string `json:"status"`
}

type inviteInput struct {
	ID   string `path:"id" doc:"Credential id"`
	Body inviteRequest
}

type inviteRequest struct {
	Email string `json:"email" format:"email" doc:"Email of the user to share with"`
}

type revokeInput struct {
	ID            string `path:"id" doc:"Credential id"`
	GranteeUserID string `path:"granteeUserId" doc:"User whose grant is removed"`
}

type historyInput struct {
	ID       string `path:"id" doc:"Credential id"`
	Page     int    `query:"page" minimum:"0" doc:"Page number, 1-based"`
	PageSize int    `query:"page_size" minimum:"0" maximum:"100" doc:"Page size"`
}

type historyOutput struct {
	Body HistoryResponse
}

type HistoryResponse struct {
	Entries []audit.Entry `json:"entries"`
}
