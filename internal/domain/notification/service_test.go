package notification

import (
	"context"
	"testing"
	"time"

	"passvault/internal/domain/access"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateNotification(ctx context.Context, n Notification) (Notification, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(Notification), args.Error(1)
}

func (m *MockRepository) ListNotifications(ctx context.Context, userID string, page, pageSize int) ([]Notification, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockRepository) ListUnread(ctx context.Context, userID string) ([]Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Stats(ctx context.Context, userID string, from, to time.Time) (map[string]int, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CreateAlert(ctx context.Context, a SecurityAlert) (SecurityAlert, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(SecurityAlert), args.Error(1)
}

func (m *MockRepository) ListAlerts(ctx context.Context, userID string, severity Severity) ([]SecurityAlert, error) {
	args := m.Called(ctx, userID, severity)
	return args.Get(0).([]SecurityAlert), args.Error(1)
}

func (m *MockRepository) ResolveAlert(ctx context.Context, alertID, resolvedBy string) error {
	args := m.Called(ctx, alertID, resolvedBy)
	return args.Error(0)
}

func TestService_Notify_SetsExpiry(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	var stored Notification
	mockRepo.On("CreateNotification", mock.Anything, mock.AnythingOfType("notification.Notification")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(Notification)
		}).Return(Notification{ID: "n-1"}, nil)

	_, err := service.Notify(context.Background(), "user-1", TypeUserLogin,
		"New Login", "You logged in", PriorityLow, "", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, stored.CreatedAt.Add(ExpiryTTL), stored.ExpiresAt)
	assert.Equal(t, "user-1", stored.UserID)
}

func TestService_RaiseAlert_MirrorsNotification(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("CreateAlert", mock.Anything, mock.MatchedBy(func(a SecurityAlert) bool {
		return a.UserID == "user-1" && a.AlertType == AlertSuspiciousLogin && a.Severity == SeverityWarning
	})).Return(SecurityAlert{ID: "alert-1"}, nil)
	mockRepo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n Notification) bool {
		return n.Type == TypeSuspiciousActivity && n.Priority == PriorityHigh && n.Title == "Odd Login"
	})).Return(Notification{}, nil)

	alert, err := service.RaiseAlert(context.Background(), "user-1",
		AlertSuspiciousLogin, SeverityWarning, "Odd Login", "Login from new country", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "alert-1", alert.ID)

	mockRepo.AssertExpectations(t)
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, PriorityCritical, PriorityFor(SeverityCritical))
	assert.Equal(t, PriorityCritical, PriorityFor(SeverityEmergency))
	assert.Equal(t, PriorityHigh, PriorityFor(SeverityWarning))
	assert.Equal(t, PriorityMedium, PriorityFor(SeverityInfo))
}

func TestService_NotifyCredentialAccessed_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		device   *access.DeviceInfo
		location *access.LocationInfo
		want     string
	}{
		{
			name:     "full context",
			device:   &access.DeviceInfo{DeviceName: "MacBook"},
			location: &access.LocationInfo{City: "Berlin"},
			want:     "Your credential 'GitHub' was viewed from MacBook in Berlin",
		},
		{
			name: "no context",
			want: "Your credential 'GitHub' was viewed from Unknown device in Unknown location",
		},
		{
			name:     "nameless device",
			device:   &access.DeviceInfo{DeviceID: "dev-1"},
			location: &access.LocationInfo{City: "Berlin"},
			want:     "Your credential 'GitHub' was viewed from Unknown device in Berlin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := NewService(mockRepo, slog.Default())

			mockRepo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n Notification) bool {
				return n.Message == tt.want && n.Priority == PriorityMedium
			})).Return(Notification{}, nil)

			err := service.NotifyCredentialAccessed(context.Background(), "user-1", "cred-1", "GitHub",
				access.TypeView, tt.device, tt.location)
			assert.NoError(t, err)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_NotifyPasswordChangeReminder(t *testing.T) {
	tests := []struct {
		name         string
		daysOverdue  int
		wantPriority Priority
		wantMessage  string
	}{
		{
			name:         "due today",
			daysOverdue:  0,
			wantPriority: PriorityMedium,
			wantMessage:  "Time to change password for 'GitHub'",
		},
		{
			name:         "slightly overdue",
			daysOverdue:  7,
			wantPriority: PriorityMedium,
			wantMessage:  "Password for 'GitHub' is 7 days overdue for change",
		},
		{
			name:         "long overdue",
			daysOverdue:  45,
			wantPriority: PriorityHigh,
			wantMessage:  "Password for 'GitHub' is 45 days overdue for change",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := NewService(mockRepo, slog.Default())

			mockRepo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n Notification) bool {
				return n.Message == tt.wantMessage && n.Priority == tt.wantPriority
			})).Return(Notification{}, nil)

			err := service.NotifyPasswordChangeReminder(context.Background(), "user-1", "GitHub", tt.daysOverdue)
			assert.NoError(t, err)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_NotifyPasswordCompromised_RaisesCriticalAlert(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n Notification) bool {
		return n.Type == TypePasswordCompromised && n.Priority == PriorityCritical
	})).Return(Notification{}, nil).Once()
	mockRepo.On("CreateAlert", mock.Anything, mock.MatchedBy(func(a SecurityAlert) bool {
		return a.AlertType == AlertPasswordCompromised &&
			a.Severity == SeverityCritical &&
			a.Title == "Password Found in Data Breach"
	})).Return(SecurityAlert{}, nil)
	// The alert mirrors itself as a second notification.
	mockRepo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n Notification) bool {
		return n.Type == TypeSuspiciousActivity && n.Priority == PriorityCritical
	})).Return(Notification{}, nil).Once()

	err := service.NotifyPasswordCompromised(context.Background(), "user-1", "cred-1", "GitHub", "ExampleCorp")
	require.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestService_List_ClampsPagination(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("ListNotifications", mock.Anything, "user-1", 1, DefaultPageSize).
		Return([]Notification{}, nil)

	_, err := service.List(context.Background(), "user-1", 0, 1000)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestService_CleanupExpired(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(int64(3), nil)

	deleted, err := service.CleanupExpired(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
