package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/repositories"
	"go.uber.org/zap"
)

// PreferenceRepository implements the repositories.PreferenceRepository interface
type PreferenceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *DB, logger *zap.Logger) repositories.PreferenceRepository {
	return &PreferenceRepository{
		db:     db,
		logger: logger,
	}
}

// GetPreference retrieves the dynamic row for a (user, type) pair.
// Returns (nil, nil) when no row exists.
func (r *PreferenceRepository) GetPreference(ctx context.Context, userID string, notificationType models.NotificationType) (*models.NotificationPreference, error) {
	query := `
		SELECT user_id, notification_type, channel, enabled, updated_at
		FROM notification_preferences
		WHERE user_id = $1 AND notification_type = $2
	`

	executor := GetExecutor(ctx, r.db)
	row := executor.QueryRowContext(ctx, query, userID, notificationType)

	pref, err := scanPreference(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification preference: %w", err)
	}

	return pref, nil
}

// ListPreferences retrieves all dynamic rows for a user
func (r *PreferenceRepository) ListPreferences(ctx context.Context, userID string) ([]*models.NotificationPreference, error) {
	query := `
		SELECT user_id, notification_type, channel, enabled, updated_at
		FROM notification_preferences
		WHERE user_id = $1
		ORDER BY notification_type
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*models.NotificationPreference
	for rows.Next() {
		pref, err := scanPreference(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification preference: %w", err)
		}
		prefs = append(prefs, pref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification preference rows: %w", err)
	}

	return prefs, nil
}

// SavePreference creates or replaces the dynamic row for its (user, type) pair
func (r *PreferenceRepository) SavePreference(ctx context.Context, pref *models.NotificationPreference) error {
	query := `
		INSERT INTO notification_preferences (user_id, notification_type, channel, enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, notification_type)
		DO UPDATE SET
			channel = EXCLUDED.channel,
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		pref.UserID,
		pref.NotificationType,
		pref.Channel.StoredValue(),
		encodeEnabled(pref.Enabled),
		pref.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save notification preference: %w", err)
	}

	r.logger.Debug("notification preference saved",
		zap.String("user_id", pref.UserID),
		zap.String("notification_type", string(pref.NotificationType)),
		zap.Bool("enabled", pref.Enabled))
	return nil
}

// GetLegacy retrieves the legacy global record for a user.
// Returns (nil, nil) when no record exists.
func (r *PreferenceRepository) GetLegacy(ctx context.Context, userID string) (*models.LegacyPreference, error) {
	query := `
		SELECT user_id, channel, realtime_enabled, daily_digest_enabled, weekly_digest_enabled, updated_at
		FROM legacy_preferences
		WHERE user_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	pref := &models.LegacyPreference{}
	var channel string

	err := executor.QueryRowContext(ctx, query, userID).Scan(
		&pref.UserID,
		&channel,
		&pref.RealtimeEnabled,
		&pref.DailyDigestEnabled,
		&pref.WeeklyDigestEnabled,
		&pref.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get legacy preference: %w", err)
	}

	pref.Channel = models.ParseChannel(channel)
	return pref, nil
}

// SaveLegacy creates or replaces the legacy global record
func (r *PreferenceRepository) SaveLegacy(ctx context.Context, pref *models.LegacyPreference) error {
	query := `
		INSERT INTO legacy_preferences (user_id, channel, realtime_enabled, daily_digest_enabled, weekly_digest_enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET
			channel = EXCLUDED.channel,
			realtime_enabled = EXCLUDED.realtime_enabled,
			daily_digest_enabled = EXCLUDED.daily_digest_enabled,
			weekly_digest_enabled = EXCLUDED.weekly_digest_enabled,
			updated_at = EXCLUDED.updated_at
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		pref.UserID,
		pref.Channel.StoredValue(),
		pref.RealtimeEnabled,
		pref.DailyDigestEnabled,
		pref.WeeklyDigestEnabled,
		pref.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save legacy preference: %w", err)
	}

	r.logger.Debug("legacy preference saved", zap.String("user_id", pref.UserID))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *PreferenceRepository) WithTx(tx repositories.Transaction) repositories.PreferenceRepository {
	return &PreferenceRepository{
		db:     r.db,
		logger: r.logger,
	}
}

// scanPreference scans one notification_preferences row, decoding the
// channel column into its tagged value and the legacy 'TRUE'/'FALSE' text
// into a bool at the storage boundary.
func scanPreference(scan func(dest ...interface{}) error) (*models.NotificationPreference, error) {
	pref := &models.NotificationPreference{}
	var channel, enabled string

	err := scan(
		&pref.UserID,
		&pref.NotificationType,
		&channel,
		&enabled,
		&pref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	pref.Channel = models.ParseChannel(channel)
	pref.Enabled = decodeEnabled(enabled)
	return pref, nil
}

// encodeEnabled writes the legacy text representation of the enabled flag
func encodeEnabled(enabled bool) string {
	if enabled {
		return "TRUE"
	}
	return "FALSE"
}

// decodeEnabled reads the legacy text representation. Anything other than
// a case-insensitive TRUE counts as disabled.
func decodeEnabled(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "TRUE")
}
