package user

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-register",
		Method:      http.MethodPost,
		Path:        "/user/register",
		Summary:     "Register a new user",
		Tags:        []string{"user"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-login",
		Method:      http.MethodPost,
		Path:        "/user/login",
		Summary:     "Authenticate and obtain a bearer token",
		Tags:        []string{"user"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) profileOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-profile",
		Method:      http.MethodGet,
		Path:        "/api/user/profile",
		Summary:     "Current user's profile",
		Tags:        []string{"user"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authMW,
	}
}

func (h *Handler) changePasswordOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-change-password",
		Method:      http.MethodPost,
		Path:        "/api/user/password",
		Summary:     "Change the login password",
		Description: "Verifies the current password before replacing it. The encryption key is not affected.",
		Tags:        []string{"user"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authMW,
	}
}

func (h *Handler) storagePreferenceOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-storage-preference",
		Method:      http.MethodPut,
		Path:        "/api/user/storage-preference",
		Summary:     "Update the credential storage preference",
		Description: "An OWN preference must pass a connectivity probe before it is saved.",
		Tags:        []string{"user"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authMW,
	}
}

func (h *Handler) trustedDeviceOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-trusted-device",
		Method:      http.MethodPost,
		Path:        "/api/user/trusted-devices",
		Summary:     "Register a trusted device",
		Tags:        []string{"user"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authMW,
	}
}

func (h *Handler) knownLocationOp() huma.Operation {
	return huma.Operation{
		OperationID: "user-known-location",
		Method:      http.MethodPost,
		Path:        "/api/user/known-locations",
		Summary:     "Register a known location",
		Tags:        []string{"user"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.authMW,
	}
}
