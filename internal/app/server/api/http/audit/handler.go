package audit

import (
	"context"

	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/domain/audit"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    audit.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service audit.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.historyOp(), h.history)
	huma.Register(api, h.suspiciousOp(), h.suspicious)
}

func (h *Handler) history(ctx context.Context, input *historyInput) (*historyOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	entries, err := h.service.HistoryByUser(ctx, userID, input.Page, input.PageSize)
	if err != nil {
		h.log.Error("failed to load access history", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to load access history")
	}
	return &historyOutput{Body: HistoryResponse{Entries: entries}}, nil
}

func (h *Handler) suspicious(ctx context.Context, input *historyInput) (*historyOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	entries, err := h.service.Suspicious(ctx, userID, input.Page, input.PageSize)
	if err != nil {
		h.log.Error("failed to load suspicious accesses", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to load suspicious accesses")
	}
	return &historyOutput{Body: HistoryResponse{Entries: entries}}, nil
}
