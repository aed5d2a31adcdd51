package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u User) (User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockRepository) UpdateStoragePreference(ctx context.Context, id string, pref StoragePreference) error {
	args := m.Called(ctx, id, pref)
	return args.Error(0)
}

func (m *MockRepository) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) AddTrustedDevice(ctx context.Context, id string, device TrustedDevice) error {
	args := m.Called(ctx, id, device)
	return args.Error(0)
}

func (m *MockRepository) AddKnownLocation(ctx context.Context, id string, city string) error {
	args := m.Called(ctx, id, city)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProber struct {
	mock.Mock
}

func (m *MockProber) Probe(ctx context.Context, pref StoragePreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

func newTestService(repo *MockRepository, prober *MockProber) *Service {
	return NewService(repo, NewPasswordValidator(), prober, slog.Default())
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockProber))

	email := "alice@example.com"
	password := "Password123"

	mockRepo.On("GetByEmail", mock.Anything, email).Return(User{}, ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u User) bool {
		return u.Email == email &&
			u.PasswordHash != "" && u.PasswordHash != password &&
			u.EncryptionKeyRef != "" &&
			u.StoragePreference.Type == StorageShared &&
			u.Role == RoleUser
	})).Return(User{ID: "user-1", Email: email}, nil)

	created, err := service.Register(context.Background(), email, password, "Alice", "Smith")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", created.ID)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_EmailTaken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockProber))

	mockRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(User{ID: "existing"}, nil)

	_, err := service.Register(context.Background(), "alice@example.com", "Password123", "", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "Password123"},
		{name: "invalid email", email: "not-an-email", password: "Password123"},
		{name: "short password", email: "a@b.com", password: "Pw1"},
		{name: "no digit", email: "a@b.com", password: "Passwordonly"},
		{name: "no uppercase", email: "a@b.com", password: "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(new(MockRepository), new(MockProber))

			_, err := service.Register(context.Background(), tt.email, tt.password, "", "")
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_Authenticate_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockProber))

	password := "Password123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	u := User{ID: "user-1", Email: "alice@example.com", PasswordHash: string(hash)}
	mockRepo.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)
	mockRepo.On("UpdateLastLogin", mock.Anything, u.ID).Return(nil)

	got, err := service.Authenticate(context.Background(), u.Email, password)
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockProber))

	hash, err := bcrypt.GenerateFromPassword([]byte("Correct123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockRepo.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(User{ID: "user-1", PasswordHash: string(hash)}, nil)

	_, err = service.Authenticate(context.Background(), "alice@example.com", "Wrong123")
	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestService_Authenticate_DeletedUser(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockProber))

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockRepo.On("GetByEmail", mock.Anything, "gone@example.com").
		Return(User{ID: "user-1", PasswordHash: string(hash), IsDeleted: true}, nil)

	_, err = service.Authenticate(context.Background(), "gone@example.com", "Password123")
	assert.ErrorIs(t, err, ErrInvalidAuth)
}

func TestService_ChangePassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockProber))

	oldHash, err := bcrypt.GenerateFromPassword([]byte("OldPassword1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	keyRef := "key-ref"
	mockRepo.On("GetByID", mock.Anything, "user-1").
		Return(User{ID: "user-1", PasswordHash: string(oldHash), EncryptionKeyRef: keyRef}, nil)
	mockRepo.On("UpdatePassword", mock.Anything, "user-1", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("NewPassword1")) == nil
	})).Return(nil)

	err = service.ChangePassword(context.Background(), "user-1", "OldPassword1", "NewPassword1")
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestService_ChangePassword_WrongOld(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo, new(MockProber))

	oldHash, err := bcrypt.GenerateFromPassword([]byte("OldPassword1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockRepo.On("GetByID", mock.Anything, "user-1").
		Return(User{ID: "user-1", PasswordHash: string(oldHash)}, nil)

	err = service.ChangePassword(context.Background(), "user-1", "Wrong1234", "NewPassword1")
	assert.ErrorIs(t, err, ErrInvalidAuth)
	mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStoragePreference_SharedClearsConnectionString(t *testing.T) {
	mockRepo := new(MockRepository)
	prober := new(MockProber)
	service := newTestService(mockRepo, prober)

	mockRepo.On("UpdateStoragePreference", mock.Anything, "user-1",
		StoragePreference{Type: StorageShared, ConnectionString: ""}).Return(nil)

	err := service.UpdateStoragePreference(context.Background(), "user-1", StoragePreference{
		Type:             StorageShared,
		ConnectionString: "postgres://leftover",
	})
	assert.NoError(t, err)

	prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestService_UpdateStoragePreference_OwnRequiresProbe(t *testing.T) {
	mockRepo := new(MockRepository)
	prober := new(MockProber)
	service := newTestService(mockRepo, prober)

	pref := StoragePreference{Type: StorageOwn, ConnectionString: "postgres://tenant:5432/db"}
	prober.On("Probe", mock.Anything, pref).Return(nil)
	mockRepo.On("UpdateStoragePreference", mock.Anything, "user-1", pref).Return(nil)

	err := service.UpdateStoragePreference(context.Background(), "user-1", pref)
	assert.NoError(t, err)

	prober.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestService_UpdateStoragePreference_ProbeFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	prober := new(MockProber)
	service := newTestService(mockRepo, prober)

	pref := StoragePreference{Type: StorageOwn, ConnectionString: "postgres://unreachable"}
	prober.On("Probe", mock.Anything, pref).Return(errors.New("connection refused"))

	err := service.UpdateStoragePreference(context.Background(), "user-1", pref)
	assert.ErrorIs(t, err, ErrInvalidStoreConfig)

	mockRepo.AssertNotCalled(t, "UpdateStoragePreference", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateStoragePreference_OwnWithoutConnectionString(t *testing.T) {
	service := newTestService(new(MockRepository), new(MockProber))

	err := service.UpdateStoragePreference(context.Background(), "user-1",
		StoragePreference{Type: StorageOwn})
	assert.ErrorIs(t, err, ErrInvalidStoreConfig)
}

func TestService_UpdateStoragePreference_UnknownType(t *testing.T) {
	service := newTestService(new(MockRepository), new(MockProber))

	err := service.UpdateStoragePreference(context.Background(), "user-1",
		StoragePreference{Type: "HYBRID"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "full name", user: User{FirstName: "Alice", LastName: "Smith", Email: "a@b.com"}, want: "Alice Smith"},
		{name: "first only", user: User{FirstName: "Alice", Email: "a@b.com"}, want: "Alice"},
		{name: "email fallback", user: User{Email: "a@b.com"}, want: "a@b.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}
