package notification

import (
	"context"
	"errors"
	"time"

	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/domain/notification"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    notification.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service notification.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.unreadOp(), h.unread)
	huma.Register(api, h.countOp(), h.count)
	huma.Register(api, h.markReadOp(), h.markRead)
	huma.Register(api, h.markAllReadOp(), h.markAllRead)
	huma.Register(api, h.statsOp(), h.stats)
	huma.Register(api, h.alertsOp(), h.alerts)
	huma.Register(api, h.resolveAlertOp(), h.resolveAlert)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	notifications, err := h.service.List(ctx, userID, input.Page, input.PageSize)
	if err != nil {
		h.log.Error("failed to list notifications", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to list notifications")
	}
	return &listOutput{Body: ListResponse{Notifications: notifications}}, nil
}

func (h *Handler) unread(ctx context.Context, _ *struct{}) (*unreadOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	notifications, err := h.service.ListUnread(ctx, userID)
	if err != nil {
		h.log.Error("failed to list unread notifications", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to list notifications")
	}
	return &unreadOutput{Body: ListResponse{Notifications: notifications}}, nil
}

func (h *Handler) count(ctx context.Context, _ *struct{}) (*countOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	count, err := h.service.UnreadCount(ctx, userID)
	if err != nil {
		h.log.Error("failed to count unread notifications", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to count notifications")
	}
	return &countOutput{Body: CountResponse{Count: count}}, nil
}

func (h *Handler) markRead(ctx context.Context, input *markReadInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.MarkRead(ctx, input.ID, userID); err != nil {
		h.log.Error("failed to mark notification read", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to mark notification")
	}
	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) markAllRead(ctx context.Context, _ *struct{}) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.MarkAllRead(ctx, userID); err != nil {
		h.log.Error("failed to mark all notifications read", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to mark notifications")
	}
	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) stats(ctx context.Context, input *statsInput) (*statsOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	from, to := input.From, input.To
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}

	counts, err := h.service.Stats(ctx, userID, from, to)
	if err != nil {
		h.log.Error("failed to load notification stats", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to load stats")
	}
	return &statsOutput{Body: StatsResponse{Counts: counts}}, nil
}

func (h *Handler) alerts(ctx context.Context, input *alertsInput) (*alertsOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	alerts, err := h.service.Alerts(ctx, userID, notification.Severity(input.Severity))
	if err != nil {
		h.log.Error("failed to list alerts", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to list alerts")
	}
	return &alertsOutput{Body: AlertsResponse{Alerts: alerts}}, nil
}

func (h *Handler) resolveAlert(ctx context.Context, input *resolveAlertInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.ResolveAlert(ctx, input.ID, userID); err != nil {
		if errors.Is(err, notification.ErrAlertNotFound) {
			return nil, huma.Error404NotFound("Alert not found")
		}
		h.log.Error("failed to resolve alert", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Failed to resolve alert")
	}
	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}
