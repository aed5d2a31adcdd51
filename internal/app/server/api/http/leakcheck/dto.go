package leakcheck

import "passvault/internal/domain/leakcheck"

type passwordCheckInput struct {
	Body passwordCheckRequest
}

type passwordCheckRequest struct {
	Password string `json:"password" minLength:"1" doc:"Password to check; only a 5-character hash prefix leaves the server"`
}

type passwordCheckOutput struct {
	Body PasswordCheckResponse
}

type PasswordCheckResponse struct {
	Leaked bool `json:"leaked"`
	Count  int  `json:"count,omitempty" doc:"How many times the password appeared in breaches"`
}

type breachedSitesInput struct {
	Email string `query:"email" format:"email" doc:"Account email to look up"`
}

type breachedSitesOutput struct {
	Body BreachedSitesResponse
}

type BreachedSitesResponse struct {
	Breaches []leakcheck.Breach `json:"breaches"`
}
