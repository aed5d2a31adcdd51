package leakcheck

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) passwordCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "leakcheck-password",
		Method:      http.MethodPost,
		Path:        "/api/leak-check/password",
		Summary:     "Check a password against known breaches",
		Description: "Uses k-anonymity: only the first five characters of the password's SHA-1 hash are sent upstream.",
		Tags:        []string{"leak-check"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) breachedSitesOp() huma.Operation {
	return huma.Operation{
		OperationID: "leakcheck-breached-sites",
		Method:      http.MethodGet,
		Path:        "/api/leak-check/breached-sites",
		Summary:     "List breaches an email appears in",
		Tags:        []string{"leak-check"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
