package credential

import (
	"context"
	"errors"

	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/domain/credential"
	"passvault/internal/tenant"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    credential.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service credential.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.revealOp(), h.reveal)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.inviteOp(), h.invite)
	huma.Register(api, h.revokeOp(), h.revoke)
	huma.Register(api, h.historyOp(), h.history)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	created, err := h.service.Create(ctx, userID, credential.CreateInput{
		Title:                input.Body.Title,
		SiteURL:              input.Body.SiteURL,
		EmailID:              input.Body.EmailID,
		Secret:               input.Body.Secret,
		UserName:             input.Body.UserName,
		PhoneNumber:          input.Body.PhoneNumber,
		Category:             input.Body.Category,
		Strength:             input.Body.Strength,
		ReminderIntervalDays: input.Body.ReminderIntervalDays,
	}, accessCtx(input.Body.accessContext))
	if err != nil {
		return nil, h.mapError(err, userID)
	}

	created.Secret = ""
	return &createOutput{Body: created}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	page, err := h.service.Search(ctx, userID, credential.Query{
		ID:       input.ID,
		Title:    input.Title,
		SiteURL:  input.SiteURL,
		EmailID:  input.EmailID,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, h.mapError(err, userID)
	}

	for i := range page.Credentials {
		page.Credentials[i].Secret = ""
	}
	return &listOutput{Body: page}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	c, err := h.service.Get(ctx, userID, input.ID, credential.AccessContext{})
	if err != nil {
		return nil, h.mapError(err, userID)
	}
	return &getOutput{Body: c}, nil
}

func (h *Handler) reveal(ctx context.Context, input *revealInput) (*revealOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	secret, err := h.service.Reveal(ctx, userID, input.ID, accessCtx(input.Body))
	if err != nil {
		return nil, h.mapError(err, userID)
	}
	return &revealOutput{Body: RevealResponse{Secret: secret}}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*updateOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	updated, err := h.service.Update(ctx, userID, input.ID, credential.UpdateInput{
		Title:                input.Body.Title,
		SiteURL:              input.Body.SiteURL,
		EmailID:              input.Body.EmailID,
		Secret:               input.Body.Secret,
		UserName:             input.Body.UserName,
		PhoneNumber:          input.Body.PhoneNumber,
		Category:             input.Body.Category,
		Strength:             input.Body.Strength,
		ReminderIntervalDays: input.Body.ReminderIntervalDays,
	}, accessCtx(input.Body.accessContext))
	if err != nil {
		return nil, h.mapError(err, userID)
	}
	return &updateOutput{Body: updated}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Delete(ctx, userID, input.ID, credential.AccessContext{}); err != nil {
		return nil, h.mapError(err, userID)
	}
	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) invite(ctx context.Context, input *inviteInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Invite(ctx, userID, input.ID, input.Body.Email, credential.AccessContext{}); err != nil {
		return nil, h.mapError(err, userID)
	}
	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) revoke(ctx context.Context, input *revokeInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.Revoke(ctx, userID, input.ID, input.GranteeUserID, credential.AccessContext{}); err != nil {
		return nil, h.mapError(err, userID)
	}
	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) history(ctx context.Context, input *historyInput) (*historyOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	entries, err := h.service.AccessHistory(ctx, userID, input.ID, input.Page, input.PageSize)
	if err != nil {
		return nil, h.mapError(err, userID)
	}
	return &historyOutput{Body: HistoryResponse{Entries: entries}}, nil
}

// mapError translates domain failures to responses without leaking what
// exists. Denied and missing credentials are indistinguishable.
func (h *Handler) mapError(err error, userID string) error {
	switch {
	case errors.Is(err, credential.ErrAccessDenied):
		return huma.Error403Forbidden("Access denied")
	case errors.Is(err, credential.ErrValidation):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, tenant.ErrStoreUnavailable):
		return huma.Error503ServiceUnavailable("Storage unavailable")
	default:
		h.log.Error("credential operation failed", "user_id", userID, "error", err)
		return huma.Error500InternalServerError("Operation failed")
	}
}

func accessCtx(a accessContext) credential.AccessContext {
	return credential.AccessContext{
		Device:   a.Device,
		Location: a.Location,
	}
}
