package preference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"github.com/sumeet-singh-parmar/aws-commander/services"
	"go.uber.org/zap"
)

// MockPreferenceRepository is a mock implementation of PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) GetPreference(ctx context.Context, userID string, notificationType models.NotificationType) (*models.NotificationPreference, error) {
	args := m.Called(ctx, userID, notificationType)
	if pref := args.Get(0); pref != nil {
		return pref.(*models.NotificationPreference), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPreferenceRepository) ListPreferences(ctx context.Context, userID string) ([]*models.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if prefs := args.Get(0); prefs != nil {
		return prefs.([]*models.NotificationPreference), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPreferenceRepository) SavePreference(ctx context.Context, pref *models.NotificationPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

func (m *MockPreferenceRepository) GetLegacy(ctx context.Context, userID string) (*models.LegacyPreference, error) {
	args := m.Called(ctx, userID)
	if legacy := args.Get(0); legacy != nil {
		return legacy.(*models.LegacyPreference), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPreferenceRepository) SaveLegacy(ctx context.Context, pref *models.LegacyPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

func (m *MockPreferenceRepository) WithTx(tx repositories.Transaction) repositories.PreferenceRepository {
	m.Called(tx)
	return m
}

func TestPreferenceService_SavePreference(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("parses the channel at the storage boundary", func(t *testing.T) {
		mockRepo := new(MockPreferenceRepository)
		mockRepo.On("SavePreference", ctx, mock.MatchedBy(func(p *models.NotificationPreference) bool {
			return p.Channel.Kind == models.ChannelStructured && p.Channel.Identifier() == "C0123ABCD"
		})).Return(nil)
		service := NewService(mockRepo, logger)

		saved, err := service.SavePreference(ctx, "U123", models.NotifyComputeLifecycle,
			`{"unique_name":"C0123ABCD","name":"#general"}`, true)

		require.NoError(t, err)
		assert.Equal(t, "C0123ABCD", saved.Channel.Identifier())
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		service := NewService(new(MockPreferenceRepository), logger)

		_, err := service.SavePreference(ctx, "U123", "bogus-type", "ops-alerts", true)

		assert.True(t, services.IsValidationError(err))
	})

	t.Run("malformed channel saves as empty", func(t *testing.T) {
		mockRepo := new(MockPreferenceRepository)
		mockRepo.On("SavePreference", ctx, mock.MatchedBy(func(p *models.NotificationPreference) bool {
			return p.Channel.Kind == models.ChannelEmpty
		})).Return(nil)
		service := NewService(mockRepo, logger)

		saved, err := service.SavePreference(ctx, "U123", models.NotifyMessaging, "{not-json", true)

		require.NoError(t, err)
		assert.True(t, saved.Channel.IsEmpty())
	})
}

func TestPreferenceService_GetLegacy(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("absent record is not found", func(t *testing.T) {
		mockRepo := new(MockPreferenceRepository)
		mockRepo.On("GetLegacy", ctx, "U123").Return(nil, nil)
		service := NewService(mockRepo, logger)

		_, err := service.GetLegacy(ctx, "U123")

		assert.True(t, services.IsNotFoundError(err))
	})

	t.Run("repository failure is internal", func(t *testing.T) {
		mockRepo := new(MockPreferenceRepository)
		mockRepo.On("GetLegacy", ctx, "U123").Return(nil, errors.New("connection refused"))
		service := NewService(mockRepo, logger)

		_, err := service.GetLegacy(ctx, "U123")

		assert.True(t, services.IsInternalError(err))
	})
}

func TestPreferenceService_SaveLegacy(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	mockRepo := new(MockPreferenceRepository)
	mockRepo.On("SaveLegacy", ctx, mock.MatchedBy(func(p *models.LegacyPreference) bool {
		return p.UserID == "U123" && p.RealtimeEnabled && !p.DailyDigestEnabled && p.WeeklyDigestEnabled
	})).Return(nil)
	service := NewService(mockRepo, logger)

	saved, err := service.SaveLegacy(ctx, "U123", "#general", true, false, true)

	require.NoError(t, err)
	assert.Equal(t, "#general", saved.Channel.Identifier())
	mockRepo.AssertExpectations(t)
}
