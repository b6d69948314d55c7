package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sumeet-singh-parmar/aws-commander/app"
	"github.com/sumeet-singh-parmar/aws-commander/middleware"
	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/utils"
	"go.uber.org/zap"
)

// SavePreferenceRequest is the request body for PUT /api/v1/preferences/{type}.
// Channel accepts a plain channel name or a structured channel object
// serialized as JSON text.
type SavePreferenceRequest struct {
	Channel string `json:"channel" validate:"max=512"`
	Enabled bool   `json:"enabled"`
}

// PreferenceResponse is one per-type routing preference as returned to callers
type PreferenceResponse struct {
	NotificationType models.NotificationType `json:"notification_type"`
	Channel          string                  `json:"channel"`
	Enabled          bool                    `json:"enabled"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// SaveLegacyPreferenceRequest is the request body for PUT /api/v1/preferences/legacy
type SaveLegacyPreferenceRequest struct {
	Channel             string `json:"channel" validate:"max=512"`
	RealtimeEnabled     bool   `json:"realtime_enabled"`
	DailyDigestEnabled  bool   `json:"daily_digest_enabled"`
	WeeklyDigestEnabled bool   `json:"weekly_digest_enabled"`
}

// LegacyPreferenceResponse mirrors the coarse flag row kept for callers that
// have never saved per-type preferences
type LegacyPreferenceResponse struct {
	Channel             string    `json:"channel"`
	RealtimeEnabled     bool      `json:"realtime_enabled"`
	DailyDigestEnabled  bool      `json:"daily_digest_enabled"`
	WeeklyDigestEnabled bool      `json:"weekly_digest_enabled"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toPreferenceResponse(p *models.NotificationPreference) PreferenceResponse {
	return PreferenceResponse{
		NotificationType: p.NotificationType,
		Channel:          p.Channel.Identifier(),
		Enabled:          p.Enabled,
		UpdatedAt:        p.UpdatedAt,
	}
}

// SavePreferenceHandler upserts the routing preference for one notification type
func SavePreferenceHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		notificationType := models.NotificationType(chi.URLParam(r, "type"))

		var req SavePreferenceRequest
		if err := decodeJSON(r, &req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid request body", nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		saved, err := deps.PreferenceService.SavePreference(r.Context(), userID, notificationType, req.Channel, req.Enabled)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("notification preference saved",
			zap.String("user_id", userID),
			zap.String("notification_type", string(notificationType)),
			zap.Bool("enabled", saved.Enabled))

		_ = utils.WriteOK(w, toPreferenceResponse(saved))
	}
}

// ListPreferencesHandler returns every per-type preference the caller has saved
func ListPreferencesHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		prefs, err := deps.PreferenceService.ListPreferences(r.Context(), userID)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		out := make([]PreferenceResponse, 0, len(prefs))
		for _, p := range prefs {
			out = append(out, toPreferenceResponse(p))
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"preferences": out,
		})
	}
}

// SaveLegacyPreferenceHandler upserts the caller's coarse flag row
func SaveLegacyPreferenceHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		var req SaveLegacyPreferenceRequest
		if err := decodeJSON(r, &req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid request body", nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		saved, err := deps.PreferenceService.SaveLegacy(r.Context(), userID, req.Channel,
			req.RealtimeEnabled, req.DailyDigestEnabled, req.WeeklyDigestEnabled)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("legacy preference saved", zap.String("user_id", userID))

		_ = utils.WriteOK(w, LegacyPreferenceResponse{
			Channel:             saved.Channel.Identifier(),
			RealtimeEnabled:     saved.RealtimeEnabled,
			DailyDigestEnabled:  saved.DailyDigestEnabled,
			WeeklyDigestEnabled: saved.WeeklyDigestEnabled,
			UpdatedAt:           saved.UpdatedAt,
		})
	}
}

// GetLegacyPreferenceHandler returns the caller's coarse flag row
func GetLegacyPreferenceHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		legacy, err := deps.PreferenceService.GetLegacy(r.Context(), userID)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, LegacyPreferenceResponse{
			Channel:             legacy.Channel.Identifier(),
			RealtimeEnabled:     legacy.RealtimeEnabled,
			DailyDigestEnabled:  legacy.DailyDigestEnabled,
			WeeklyDigestEnabled: legacy.WeeklyDigestEnabled,
			UpdatedAt:           legacy.UpdatedAt,
		})
	}
}
