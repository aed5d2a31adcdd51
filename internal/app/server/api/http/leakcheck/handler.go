package leakcheck

import (
	"context"
	"errors"

	"passvault/internal/domain/leakcheck"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    leakcheck.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service leakcheck.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.passwordCheckOp(), h.passwordCheck)
	huma.Register(api, h.breachedSitesOp(), h.breachedSites)
}

func (h *Handler) passwordCheck(ctx context.Context, input *passwordCheckInput) (*passwordCheckOutput, error) {
	leaked, count, err := h.service.IsPasswordLeaked(ctx, input.Body.Password)
	if err != nil {
		if errors.Is(err, leakcheck.ErrUnavailable) {
			return nil, huma.Error503ServiceUnavailable("Breach data source unavailable")
		}
		h.log.Error("password leak check failed", "error", err)
		return nil, huma.Error500InternalServerError("Leak check failed")
	}

	return &passwordCheckOutput{
		Body: PasswordCheckResponse{Leaked: leaked, Count: count},
	}, nil
}

func (h *Handler) breachedSites(ctx context.Context, input *breachedSitesInput) (*breachedSitesOutput, error) {
	breaches, err := h.service.GetBreachedSites(ctx, input.Email)
	if err != nil {
		if errors.Is(err, leakcheck.ErrUnavailable) {
			return nil, huma.Error503ServiceUnavailable("Breach data source unavailable")
		}
		h.log.Error("breached sites lookup failed", "error", err)
		return nil, huma.Error500InternalServerError("Breach lookup failed")
	}

	return &breachedSitesOutput{
		Body: BreachedSitesResponse{Breaches: breaches},
	}, nil
}
