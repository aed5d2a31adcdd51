package user

import (
	"context"
	"errors"

	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/domain/access"
	"passvault/internal/domain/session"
	"passvault/internal/domain/user"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Notifier is told about successful logins. Satisfied by the notification
// service.
type Notifier interface {
	NotifyLogin(ctx context.Context, userID string, device *access.DeviceInfo, location *access.LocationInfo) error
}

type Handler struct {
	service    user.Servicer
	session    session.Servicer
	notifier   Notifier
	log        *slog.Logger
	middleware huma.Middlewares
	authMW     huma.Middlewares
}

func NewHandler(service user.Servicer, session session.Servicer, notifier Notifier, log *slog.Logger, public, protected huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		notifier:   notifier,
		log:        log,
		middleware: public,
		authMW:     protected,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.profileOp(), h.profile)
	huma.Register(api, h.changePasswordOp(), h.changePassword)
	huma.Register(api, h.storagePreferenceOp(), h.storagePreference)
	huma.Register(api, h.trustedDeviceOp(), h.trustedDevice)
	huma.Register(api, h.knownLocationOp(), h.knownLocation)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	u, err := h.service.Register(ctx, input.Body.Email, input.Body.Password, input.Body.FirstName, input.Body.LastName)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, huma.Error409Conflict("Email already registered")
		}
		if errors.Is(err, user.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("registration failed", "error", err)
		return nil, huma.Error500InternalServerError("Registration failed")
	}

	return &registerOutput{
		Body: RegisterResponse{ID: u.ID, Status: "Ok"},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}

	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("session creation failed", "user_id", u.ID, "error", err)
		return nil, huma.Error500InternalServerError("Login failed")
	}

	if err := h.notifier.NotifyLogin(ctx, u.ID, input.Body.Device, input.Body.Location); err != nil {
		h.log.Error("login notification failed", "user_id", u.ID, "error", err)
	}

	return &loginOutput{
		Body: LoginResponse{Token: token, Status: "Ok"},
	}, nil
}

func (h *Handler) profile(ctx context.Context, _ *struct{}) (*profileOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	u, err := h.service.GetByID(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load profile")
	}

	deviceIDs := make([]string, 0, len(u.TrustedDevices))
	for _, d := range u.TrustedDevices {
		deviceIDs = append(deviceIDs, d.DeviceID)
	}

	return &profileOutput{
		Body: ProfileResponse{
			ID:               u.ID,
			Email:            u.Email,
			FirstName:        u.FirstName,
			LastName:         u.LastName,
			ProfilePicture:   u.ProfilePicture,
			StorageType:      u.StoragePreference.Type,
			IsVerified:       u.IsVerified,
			TrustedDeviceIDs: deviceIDs,
			KnownLocations:   u.KnownLocations,
		},
	}, nil
}

func (h *Handler) changePassword(ctx context.Context, input *changePasswordInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.ChangePassword(ctx, userID, input.Body.OldPassword, input.Body.NewPassword)
	if err != nil {
		if errors.Is(err, user.ErrInvalidAuth) {
			return nil, huma.Error401Unauthorized("Invalid credentials")
		}
		if errors.Is(err, user.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("password change failed", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Password change failed")
	}

	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) storagePreference(ctx context.Context, input *storagePreferenceInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.UpdateStoragePreference(ctx, userID, user.StoragePreference{
		Type:             input.Body.Type,
		ConnectionString: input.Body.ConnectionString,
	})
	if err != nil {
		if errors.Is(err, user.ErrInvalidStoreConfig) {
			return nil, huma.Error422UnprocessableEntity("Storage configuration failed the connectivity probe")
		}
		if errors.Is(err, user.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("storage preference update failed", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Storage preference update failed")
	}

	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) trustedDevice(ctx context.Context, input *trustedDeviceInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	err := h.service.RegisterTrustedDevice(ctx, userID, user.TrustedDevice{
		DeviceID:   input.Body.DeviceID,
		DeviceName: input.Body.DeviceName,
	})
	if err != nil {
		if errors.Is(err, user.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("trusted device registration failed", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Device registration failed")
	}

	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}

func (h *Handler) knownLocation(ctx context.Context, input *knownLocationInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.service.RegisterKnownLocation(ctx, userID, input.Body.City); err != nil {
		if errors.Is(err, user.ErrInvalidInput) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("known location registration failed", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("Location registration failed")
	}

	return &statusOutput{Body: StatusResponse{Status: "Ok"}}, nil
}
