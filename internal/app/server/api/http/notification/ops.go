package notification

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-list",
		Method:      http.MethodGet,
		Path:        "/api/notifications",
		Summary:     "List notifications",
		Tags:        []string{"notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) unreadOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-unread",
		Method:      http.MethodGet,
		Path:        "/api/notifications/unread",
		Summary:     "List unread notifications",
		Tags:        []string{"notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) countOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-unread-count",
		Method:      http.MethodGet,
		Path:        "/api/notifications/unread/count",
		Summary:     "Count unread notifications",
		Tags:        []string{"notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) markReadOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-mark-read",
		Method:      http.MethodPost,
		Path:        "/api/notifications/{id}/read",
		Summary:     "Mark a notification read",
		Description: "Idempotent: re-marking an already-read notification succeeds.",
		Tags:        []string{"notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) markAllReadOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-mark-all-read",
		Method:      http.MethodPost,
		Path:        "/api/notifications/read-all",
		Summary:     "Mark all notifications read",
		Tags:        []string{"notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) statsOp() huma.Operation {
	return huma.Operation{
		OperationID: "notifications-stats",
		Method:      http.MethodGet,
		Path:        "/api/notifications/stats",
		Summary:     "Per-type notification counts",
		Description: "Defaults to the last month when the window is not given.",
		Tags:        []string{"notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) alertsOp() huma.Operation {
	return huma.Operation{
		OperationID: "alerts-list",
		Method:      http.MethodGet,
		Path:        "/api/alerts",
		Summary:     "List security alerts",
		Tags:        []string{"alerts"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) resolveAlertOp() huma.Operation {
	return huma.Operation{
		OperationID: "alerts-resolve",
		Method:      http.MethodPost,
		Path:        "/api/alerts/{id}/resolve",
		Summary:     "Resolve a security alert",
		Tags:        []string{"alerts"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
