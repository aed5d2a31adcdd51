package monitor

import (
	"context"
	"testing"
	"time"

	"passvault/internal/crypto"
	"passvault/internal/domain/access"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/leakcheck"
	"passvault/internal/domain/notification"
	"passvault/internal/domain/user"
	"passvault/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Create(ctx context.Context, store *tenant.Store, c credential.Credential) (credential.Credential, error) {
	args := m.Called(ctx, store, c)
	return args.Get(0).(credential.Credential), args.Error(1)
}

func (m *MockCredentialRepository) GetByID(ctx context.Context, store *tenant.Store, id string) (credential.Credential, error) {
	args := m.Called(ctx, store, id)
	return args.Get(0).(credential.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Search(ctx context.Context, store *tenant.Store, userID string, q credential.Query) (credential.Page, error) {
	args := m.Called(ctx, store, userID, q)
	return args.Get(0).(credential.Page), args.Error(1)
}

func (m *MockCredentialRepository) Replace(ctx context.Context, store *tenant.Store, c credential.Credential) error {
	args := m.Called(ctx, store, c)
	return args.Error(0)
}

func (m *MockCredentialRepository) Delete(ctx context.Context, store *tenant.Store, id string) error {
	args := m.Called(ctx, store, id)
	return args.Error(0)
}

func (m *MockCredentialRepository) AddShareGrant(ctx context.Context, store *tenant.Store, credentialID string, grant credential.ShareGrant) (bool, error) {
	args := m.Called(ctx, store, credentialID, grant)
	return args.Bool(0), args.Error(1)
}

func (m *MockCredentialRepository) RemoveShareGrant(ctx context.Context, store *tenant.Store, credentialID, granteeUserID string) (bool, error) {
	args := m.Called(ctx, store, credentialID, granteeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCredentialRepository) SetCompromised(ctx context.Context, store *tenant.Store, credentialID string, compromised bool) error {
	args := m.Called(ctx, store, credentialID, compromised)
	return args.Error(0)
}

func (m *MockCredentialRepository) ListReminderDue(ctx context.Context, store *tenant.Store, now time.Time) ([]credential.Credential, error) {
	args := m.Called(ctx, store, now)
	return args.Get(0).([]credential.Credential), args.Error(1)
}

func (m *MockCredentialRepository) ListBatch(ctx context.Context, store *tenant.Store, limit, offset int) ([]credential.Credential, error) {
	args := m.Called(ctx, store, limit, offset)
	return args.Get(0).([]credential.Credential), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
	user.Repository
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) IsPasswordLeaked(ctx context.Context, password string) (bool, int, error) {
	args := m.Called(ctx, password)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockChecker) GetBreachedSites(ctx context.Context, email string) ([]leakcheck.Breach, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]leakcheck.Breach), args.Error(1)
}

// MockNotifications overrides only the methods the monitor touches.
type MockNotifications struct {
	mock.Mock
	notification.Servicer
}

func (m *MockNotifications) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotifications) NotifyPasswordChangeReminder(ctx context.Context, userID, title string, daysOverdue int) error {
	args := m.Called(ctx, userID, title, daysOverdue)
	return args.Error(0)
}

func (m *MockNotifications) NotifyPasswordCompromised(ctx context.Context, userID, credentialID, title, breachSource string) error {
	args := m.Called(ctx, userID, credentialID, title, breachSource)
	return args.Error(0)
}

func (m *MockNotifications) NotifySuspiciousActivity(ctx context.Context, userID, activity string, device *access.DeviceInfo, location *access.LocationInfo) error {
	args := m.Called(ctx, userID, activity, device, location)
	return args.Error(0)
}

type monitorFixture struct {
	monitor       *Monitor
	credentials   *MockCredentialRepository
	users         *MockUserRepository
	checker       *MockChecker
	notifications *MockNotifications
	keyRef        string
}

func newMonitorFixture(t *testing.T) *monitorFixture {
	t.Helper()

	keyRef, err := crypto.GenerateKey()
	require.NoError(t, err)

	credentials := new(MockCredentialRepository)
	users := new(MockUserRepository)
	checker := new(MockChecker)
	notifications := new(MockNotifications)
	router := tenant.NewRouter(nil, "passvault", time.Second, nil, slog.Default())

	return &monitorFixture{
		monitor:       New(credentials, users, router, checker, notifications, time.Minute, slog.Default()),
		credentials:   credentials,
		users:         users,
		checker:       checker,
		notifications: notifications,
		keyRef:        keyRef,
	}
}

func (f *monitorFixture) seal(t *testing.T, plaintext string) string {
	t.Helper()
	box, err := crypto.New(f.keyRef)
	require.NoError(t, err)
	sealed, err := box.Encrypt(plaintext)
	require.NoError(t, err)
	return sealed
}

func TestMonitor_DaysOverdue(t *testing.T) {
	f := newMonitorFixture(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		credential credential.Credential
		want       int
	}{
		{
			name: "ten days past a thirty day interval",
			credential: credential.Credential{
				ReminderIntervalDays: 30,
				LastSecretChangeAt:   now.Add(-40 * 24 * time.Hour),
			},
			want: 10,
		},
		{
			name: "falls back to creation time",
			credential: credential.Credential{
				ReminderIntervalDays: 30,
				CreatedAt:            now.Add(-31 * 24 * time.Hour),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.monitor.daysOverdue(tt.credential, now))
		})
	}
}

func TestMonitor_SendReminders(t *testing.T) {
	f := newMonitorFixture(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f.monitor.now = func() time.Time { return now }

	due := credential.Credential{
		ID:                   "cred-1",
		OwnerUserID:          "owner",
		Title:                "GitHub",
		ReminderIntervalDays: 30,
		LastSecretChangeAt:   now.Add(-45 * 24 * time.Hour),
	}

	f.credentials.On("ListReminderDue", mock.Anything, mock.Anything, now).
		Return([]credential.Credential{due}, nil)
	f.notifications.On("NotifyPasswordChangeReminder", mock.Anything, "owner", "GitHub", 15).Return(nil)

	f.monitor.sendReminders(context.Background())

	f.notifications.AssertExpectations(t)
}

func TestMonitor_ScanForLeaks_FlagsCompromised(t *testing.T) {
	f := newMonitorFixture(t)

	leaked := credential.Credential{
		ID:          "cred-1",
		OwnerUserID: "owner",
		Title:       "GitHub",
		Secret:      f.seal(t, "hunter2"),
	}
	clean := credential.Credential{
		ID:          "cred-2",
		OwnerUserID: "owner",
		Secret:      f.seal(t, "correct horse battery staple"),
	}
	alreadyFlagged := credential.Credential{
		ID:            "cred-3",
		OwnerUserID:   "owner",
		IsCompromised: true,
	}

	f.credentials.On("ListBatch", mock.Anything, mock.Anything, scanBatchSize, 0).
		Return([]credential.Credential{leaked, clean, alreadyFlagged}, nil)
	f.credentials.On("ListBatch", mock.Anything, mock.Anything, scanBatchSize, scanBatchSize).
		Return([]credential.Credential{}, nil)
	f.users.On("GetByID", mock.Anything, "owner").
		Return(user.User{ID: "owner", EncryptionKeyRef: f.keyRef}, nil)
	f.checker.On("IsPasswordLeaked", mock.Anything, "hunter2").Return(true, 42, nil)
	f.checker.On("IsPasswordLeaked", mock.Anything, "correct horse battery staple").Return(false, 0, nil)
	f.credentials.On("SetCompromised", mock.Anything, mock.Anything, "cred-1", true).Return(nil)
	f.notifications.On("NotifyPasswordCompromised", mock.Anything, "owner", "cred-1", "GitHub", "").Return(nil)

	f.monitor.scanForLeaks(context.Background())

	f.credentials.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
	f.checker.AssertNotCalled(t, "IsPasswordLeaked", mock.Anything, mock.MatchedBy(func(s string) bool {
		return s != "hunter2" && s != "correct horse battery staple"
	}))
}

// A breach source outage aborts the pass instead of leaving credentials
// silently unflagged.
func TestMonitor_ScanForLeaks_AbortsOnOutage(t *testing.T) {
	f := newMonitorFixture(t)

	first := credential.Credential{ID: "cred-1", OwnerUserID: "owner", Secret: f.seal(t, "one")}
	second := credential.Credential{ID: "cred-2", OwnerUserID: "owner", Secret: f.seal(t, "two")}

	f.credentials.On("ListBatch", mock.Anything, mock.Anything, scanBatchSize, 0).
		Return([]credential.Credential{first, second}, nil)
	f.users.On("GetByID", mock.Anything, "owner").
		Return(user.User{ID: "owner", EncryptionKeyRef: f.keyRef}, nil)
	f.checker.On("IsPasswordLeaked", mock.Anything, "one").Return(false, 0, leakcheck.ErrUnavailable)

	f.monitor.scanForLeaks(context.Background())

	f.checker.AssertNotCalled(t, "IsPasswordLeaked", mock.Anything, "two")
	f.credentials.AssertNotCalled(t, "SetCompromised", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
