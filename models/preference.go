package models

import (
	"time"
)

// NotificationType identifies a class of completion notifications
type NotificationType string

const (
	NotifyComputeLifecycle  NotificationType = "compute-lifecycle"
	NotifyStorageLifecycle  NotificationType = "storage-lifecycle"
	NotifyAlarmLifecycle    NotificationType = "alarm-lifecycle"
	NotifyMessaging         NotificationType = "messaging"
	NotifyFunctionLifecycle NotificationType = "function-lifecycle"
	NotifyDatabaseLifecycle NotificationType = "database-lifecycle"
	NotifyCostDigest        NotificationType = "cost-digest"
	NotifySummaryDigest     NotificationType = "summary-digest"
)

// NotificationTypes lists every known notification type.
var NotificationTypes = []NotificationType{
	NotifyComputeLifecycle,
	NotifyStorageLifecycle,
	NotifyAlarmLifecycle,
	NotifyMessaging,
	NotifyFunctionLifecycle,
	NotifyDatabaseLifecycle,
	NotifyCostDigest,
	NotifySummaryDigest,
}

// IsValidNotificationType reports whether t is a known notification type.
func IsValidNotificationType(t NotificationType) bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsScheduled reports whether the type is one of the two scheduled digests.
// Every other type is a real-time category.
func (t NotificationType) IsScheduled() bool {
	return t == NotifyCostDigest || t == NotifySummaryDigest
}

// NotificationPreference is a per-(user, type) routing override set
// explicitly from the settings surface. When a row exists it fully decides
// routing for its type; it never merges with the legacy record.
type NotificationPreference struct {
	UserID           string           `json:"user_id" db:"user_id"`
	NotificationType NotificationType `json:"notification_type" db:"notification_type"`
	Channel          Channel          `json:"channel" db:"channel"`
	Enabled          bool             `json:"enabled" db:"enabled"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the NotificationPreference model
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// LegacyPreference is the original single global record per user: one
// channel plus per-category flags. Consulted only when no dynamic row
// exists for the (user, type) pair being resolved.
type LegacyPreference struct {
	UserID              string    `json:"user_id" db:"user_id"`
	Channel             Channel   `json:"channel" db:"channel"`
	RealtimeEnabled     bool      `json:"realtime_enabled" db:"realtime_enabled"`
	DailyDigestEnabled  bool      `json:"daily_digest_enabled" db:"daily_digest_enabled"`
	WeeklyDigestEnabled bool      `json:"weekly_digest_enabled" db:"weekly_digest_enabled"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the LegacyPreference model
func (LegacyPreference) TableName() string {
	return "legacy_preferences"
}

// FlagFor returns the legacy enablement flag covering a notification type.
// Types with no legacy flag concept report false.
func (p *LegacyPreference) FlagFor(t NotificationType) bool {
	switch t {
	case NotifyCostDigest:
		return p.DailyDigestEnabled
	case NotifySummaryDigest:
		return p.WeeklyDigestEnabled
	default:
		if IsValidNotificationType(t) {
			return p.RealtimeEnabled
		}
		return false
	}
}
