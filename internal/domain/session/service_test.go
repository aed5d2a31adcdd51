package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) Validate(ctx context.Context, tokenHash string) (string, error) {
	args := m.Called(ctx, tokenHash)
	return args.String(0), args.Error(1)
}

func TestService_CreateAndValidate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	var storedHash string
	mockRepo.On("Create", mock.Anything, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			storedHash = args.String(2)
		}).Return(nil)

	token, err := service.Create(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotContains(t, storedHash, token, "raw token must never be stored")

	// The hash submitted during validation must match the stored one.
	mockRepo.On("Validate", mock.Anything, storedHash).Return("user-1", nil)

	userID, err := service.Validate(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	mockRepo.AssertExpectations(t)
}

func TestService_Create_TokensUnique(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(nil)

	first, err := service.Create(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := service.Create(context.Background(), "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestService_Validate_Invalid(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Validate", mock.Anything, mock.AnythingOfType("string")).
		Return("", ErrInvalidSession)

	_, err := service.Validate(context.Background(), "forged-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestService_Create_ExpiryWindow(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	var expiresAt time.Time
	mockRepo.On("Create", mock.Anything, "user-1", mock.Anything, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			expiresAt = args.Get(3).(time.Time)
		}).Return(nil)

	before := time.Now()
	_, err := service.Create(context.Background(), "user-1")
	require.NoError(t, err)

	assert.WithinDuration(t, before.Add(TokenTTL), expiresAt, 5*time.Second)
}
