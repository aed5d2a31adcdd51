package credential

import (
	"context"
	"errors"
	"testing"

	"passvault/internal/app/server/api/http/middleware/auth"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
	"passvault/internal/tenant"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, ownerID string, in credential.CreateInput, actx credential.AccessContext) (credential.Credential, error) {
	args := m.Called(ctx, ownerID, in, actx)
	return args.Get(0).(credential.Credential), args.Error(1)
}

func (m *MockService) Search(ctx context.Context, userID string, q credential.Query) (credential.Page, error) {
	args := m.Called(ctx, userID, q)
	return args.Get(0).(credential.Page), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, userID, credentialID string, actx credential.AccessContext) (credential.Credential, error) {
	args := m.Called(ctx, userID, credentialID, actx)
	return args.Get(0).(credential.Credential), args.Error(1)
}

func (m *MockService) Reveal(ctx context.Context, userID, credentialID string, actx credential.AccessContext) (string, error) {
	args := m.Called(ctx, userID, credentialID, actx)
	return args.String(0), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, userID, credentialID string, in credential.UpdateInput, actx credential.AccessContext) (credential.Credential, error) {
	args := m.Called(ctx, userID, credentialID, in, actx)
	return args.Get(0).(credential.Credential), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, userID, credentialID string, actx credential.AccessContext) error {
	args := m.Called(ctx, userID, credentialID, actx)
	return args.Error(0)
}

func (m *MockService) Invite(ctx context.Context, ownerID, credentialID, granteeEmail string, actx credential.AccessContext) error {
	args := m.Called(ctx, ownerID, credentialID, granteeEmail, actx)
	return args.Error(0)
}

func (m *MockService) Revoke(ctx context.Context, ownerID, credentialID, granteeUserID string, actx credential.AccessContext) error {
	args := m.Called(ctx, ownerID, credentialID, granteeUserID, actx)
	return args.Error(0)
}

func (m *MockService) AccessHistory(ctx context.Context, userID, credentialID string, page, pageSize int) ([]audit.Entry, error) {
	args := m.Called(ctx, userID, credentialID, page, pageSize)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func authedContext(userID string) context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, userID)
}

func TestHandler_Create(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, slog.Default(), nil)

	mockService.On("Create", mock.Anything, "user-1", credential.CreateInput{
		Title:  "GitHub",
		Secret: "hunter2",
	}, credential.AccessContext{}).Return(credential.Credential{ID: "cred-1", Title: "GitHub", Secret: "sealed"}, nil)

	out, err := handler.create(authedContext("user-1"), &createInput{
		Body: createRequest{
			credentialFields: credentialFields{Title: "GitHub"},
			Secret:           "hunter2",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cred-1", out.Body.ID)
	assert.Empty(t, out.Body.Secret, "responses never carry ciphertext")
}

func TestHandler_Create_Unauthenticated(t *testing.T) {
	handler := NewHandler(new(MockService), slog.Default(), nil)

	_, err := handler.create(context.Background(), &createInput{})

	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 401, statusErr.GetStatus())
}

func TestHandler_List_StripsSecrets(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, slog.Default(), nil)

	mockService.On("Search", mock.Anything, "user-1", credential.Query{Title: "git"}).
		Return(credential.Page{
			Credentials: []credential.Credential{{ID: "cred-1", Secret: "sealed"}},
			TotalCount:  1,
		}, nil)

	out, err := handler.list(authedContext("user-1"), &listInput{Title: "git"})
	require.NoError(t, err)
	require.Len(t, out.Body.Credentials, 1)
	assert.Empty(t, out.Body.Credentials[0].Secret)
}

func TestHandler_Reveal(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, slog.Default(), nil)

	mockService.On("Reveal", mock.Anything, "user-1", "cred-1", credential.AccessContext{}).
		Return("hunter2", nil)

	out, err := handler.reveal(authedContext("user-1"), &revealInput{ID: "cred-1"})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", out.Body.Secret)
}

func TestHandler_MapError(t *testing.T) {
	handler := NewHandler(new(MockService), slog.Default(), nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "access denied", err: credential.ErrAccessDenied, wantStatus: 403},
		{name: "validation", err: credential.ErrValidation, wantStatus: 422},
		{name: "store unavailable", err: tenant.ErrStoreUnavailable, wantStatus: 503},
		{name: "unknown", err: errors.New("boom"), wantStatus: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := handler.mapError(tt.err, "user-1")

			var statusErr huma.StatusError
			require.ErrorAs(t, mapped, &statusErr)
			assert.Equal(t, tt.wantStatus, statusErr.GetStatus())
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService, slog.Default(), nil)

	mockService.On("Delete", mock.Anything, "user-1", "cred-1", credential.AccessContext{}).Return(nil)

	out, err := handler.delete(authedContext("user-1"), &deleteInput{ID: "cred-1"})
	require.NoError(t, err)
	assert.Equal(t, "Ok", out.Body.Status)
}
