package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sumeet-singh-parmar/aws-commander/app"
	"github.com/sumeet-singh-parmar/aws-commander/middleware"
	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/utils"
	"go.uber.org/zap"
)

// ListConsentsHandler returns grant status for every metered category
func ListConsentsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		statuses, err := deps.ConsentService.List(r.Context(), userID)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, map[string]interface{}{
			"consents": statuses,
		})
	}
}

// GrantConsentHandler records a standing grant for one metered category
func GrantConsentHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		categoryID := models.CategoryID(chi.URLParam(r, "category"))
		if err := deps.ConsentService.Grant(r.Context(), userID, categoryID); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("consent granted",
			zap.String("user_id", userID),
			zap.String("category_id", string(categoryID)))

		_ = utils.WriteOK(w, map[string]interface{}{
			"category_id": categoryID,
			"granted":     true,
		})
	}
}

// RevokeConsentHandler withdraws the standing grant for one category
func RevokeConsentHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		categoryID := models.CategoryID(chi.URLParam(r, "category"))
		if err := deps.ConsentService.Revoke(r.Context(), userID, categoryID); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("consent revoked",
			zap.String("user_id", userID),
			zap.String("category_id", string(categoryID)))

		utils.WriteNoContent(w)
	}
}

// RevokeAllConsentsHandler withdraws every standing grant the caller holds
func RevokeAllConsentsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		if err := deps.ConsentService.RevokeAll(r.Context(), userID); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("all consents revoked", zap.String("user_id", userID))
		utils.WriteNoContent(w)
	}
}
