package audit

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) historyOp() huma.Operation {
	return huma.Operation{
		OperationID: "audit-history",
		Method:      http.MethodGet,
		Path:        "/api/audit/history",
		Summary:     "Current user's access history",
		Tags:        []string{"audit"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) suspiciousOp() huma.Operation {
	return huma.Operation{
		OperationID: "audit-suspicious",
		Method:      http.MethodGet,
		Path:        "/api/audit/suspicious",
		Summary:     "Current user's suspicious accesses",
		Tags:        []string{"audit"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
