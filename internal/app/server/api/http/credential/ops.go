package credential

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-create",
		Method:      http.MethodPost,
		Path:        "/api/credentials",
		Summary:     "Create a credential",
		Description: "The secret is sealed under the owner's encryption key before it is stored.",
		Tags:        []string{"credentials"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-list",
		Method:      http.MethodGet,
		Path:        "/api/credentials",
		Summary:     "List credentials",
		Description: "Returns owned and shared credentials, filtered and paginated. Secrets are never included.",
		Tags:        []string{"credentials"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-get",
		Method:      http.MethodGet,
		Path:        "/api/credentials/{id}",
		Summary:     "Get credential metadata",
		Tags:        []string{"credentials"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) revealOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-reveal",
		Method:      http.MethodPost,
		Path:        "/api/credentials/{id}/reveal",
		Summary:     "Reveal the secret",
		Description: "Decrypts the secret under the owner's key. The decryption is recorded in the audit trail.",
		Tags:        []string{"credentials"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-update",
		Method:      http.MethodPut,
		Path:        "/api/credentials/{id}",
		Summary:     "Update a credential",
		Tags:        []string{"credentials"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-delete",
		Method:      http.MethodDelete,
		Path:        "/api/credentials/{id}",
		Summary:     "Delete a credential",
		Description: "Owner only; shared access does not include deletion.",
		Tags:        []string{"credentials"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) inviteOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-invite",
		Method:      http.MethodPost,
		Path:        "/api/credentials/{id}/share",
		Summary:     "Share a credential",
		Description: "Grants read and edit access to another user by email. Owner only.",
		Tags:        []string{"credentials", "sharing"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) revokeOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-revoke",
		Method:      http.MethodDelete,
		Path:        "/api/credentials/{id}/share/{granteeUserId}",
		Summary:     "Revoke shared access",
		Tags:        []string{"credentials", "sharing"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) historyOp() huma.Operation {
	return huma.Operation{
		OperationID: "credentials-access-history",
		Method:      http.MethodGet,
		Path:        "/api/credentials/{id}/access-history",
		Summary:     "Credential access history",
		Tags:        []string{"credentials", "audit"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
