package preference

import (
	"context"
	"time"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"github.com/sumeet-singh-parmar/aws-commander/services"
	"go.uber.org/zap"
)

// Service manages the notification settings surface: dynamic per-type rows
// and the legacy global record. The resolution path never writes; every row
// here comes from an explicit settings save.
type Service struct {
	prefRepo repositories.PreferenceRepository
	logger   *zap.Logger
}

// NewService creates a new preference Service instance
func NewService(prefRepo repositories.PreferenceRepository, logger *zap.Logger) *Service {
	return &Service{
		prefRepo: prefRepo,
		logger:   logger,
	}
}

// SavePreference creates or replaces the dynamic row for a (user, type) pair
func (s *Service) SavePreference(ctx context.Context, userID string, notificationType models.NotificationType, channel string, enabled bool) (*models.NotificationPreference, error) {
	if !models.IsValidNotificationType(notificationType) {
		return nil, services.ErrUnknownNotificationType
	}

	pref := &models.NotificationPreference{
		UserID:           userID,
		NotificationType: notificationType,
		Channel:          models.ParseChannel(channel),
		Enabled:          enabled,
		UpdatedAt:        time.Now(),
	}
	if err := s.prefRepo.SavePreference(ctx, pref); err != nil {
		return nil, services.WrapInternal("failed to save notification preference", err)
	}

	s.logger.Info("notification preference saved",
		zap.String("user_id", userID),
		zap.String("notification_type", string(notificationType)),
		zap.Bool("enabled", enabled))
	return pref, nil
}

// ListPreferences returns all dynamic rows for a user
func (s *Service) ListPreferences(ctx context.Context, userID string) ([]*models.NotificationPreference, error) {
	prefs, err := s.prefRepo.ListPreferences(ctx, userID)
	if err != nil {
		return nil, services.WrapInternal("failed to list notification preferences", err)
	}
	return prefs, nil
}

// GetLegacy returns the user's legacy global record
func (s *Service) GetLegacy(ctx context.Context, userID string) (*models.LegacyPreference, error) {
	legacy, err := s.prefRepo.GetLegacy(ctx, userID)
	if err != nil {
		return nil, services.WrapInternal("failed to load legacy preference", err)
	}
	if legacy == nil {
		return nil, services.ErrLegacyPreferenceNotFound
	}
	return legacy, nil
}

// SaveLegacy creates or replaces the user's legacy global record
func (s *Service) SaveLegacy(ctx context.Context, userID, channel string, realtime, daily, weekly bool) (*models.LegacyPreference, error) {
	legacy := &models.LegacyPreference{
		UserID:              userID,
		Channel:             models.ParseChannel(channel),
		RealtimeEnabled:     realtime,
		DailyDigestEnabled:  daily,
		WeeklyDigestEnabled: weekly,
		UpdatedAt:           time.Now(),
	}
	if err := s.prefRepo.SaveLegacy(ctx, legacy); err != nil {
		return nil, services.WrapInternal("failed to save legacy preference", err)
	}

	s.logger.Info("legacy preference saved", zap.String("user_id", userID))
	return legacy, nil
}
