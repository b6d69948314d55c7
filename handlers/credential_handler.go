package handlers

import (
	"net/http"
	"time"

	"github.com/sumeet-singh-parmar/aws-commander/app"
	"github.com/sumeet-singh-parmar/aws-commander/middleware"
	"github.com/sumeet-singh-parmar/aws-commander/services/credential"
	"github.com/sumeet-singh-parmar/aws-commander/utils"
	"go.uber.org/zap"
)

// SaveCredentialRequest is the request body for PUT /api/v1/credentials.
// A save replaces the caller's stored credential set wholesale.
type SaveCredentialRequest struct {
	AccessKeyID     string `json:"access_key_id" validate:"required,max=128"`
	SecretAccessKey string `json:"secret_access_key" validate:"required,max=256"`
	SessionToken    string `json:"session_token" validate:"max=4096"`
	Region          string `json:"region" validate:"max=32"`
}

// CredentialResponse never carries the secret material back to the caller
type CredentialResponse struct {
	AccessKeyID     string    `json:"access_key_id"`
	HasSessionToken bool      `json:"has_session_token"`
	Region          string    `json:"region,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SaveCredentialHandler stores a fresh credential set for the caller
func SaveCredentialHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		var req SaveCredentialRequest
		if err := decodeJSON(r, &req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid request body", nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		saved, err := deps.CredentialService.Save(r.Context(), credential.SaveRequest{
			UserID:          userID,
			AccessKeyID:     req.AccessKeyID,
			SecretAccessKey: req.SecretAccessKey,
			SessionToken:    req.SessionToken,
			Region:          req.Region,
		})
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("credentials saved",
			zap.String("user_id", userID),
			zap.String("access_key_id", saved.MaskedAccessKeyID()))

		_ = utils.WriteOK(w, CredentialResponse{
			AccessKeyID:     saved.MaskedAccessKeyID(),
			HasSessionToken: saved.SessionToken != "",
			Region:          saved.Region,
			UpdatedAt:       saved.UpdatedAt,
		})
	}
}

// GetCredentialHandler returns the caller's stored credential metadata with
// the key id masked. Absence maps to the unconfigured credential failure.
func GetCredentialHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		creds, err := deps.CredentialService.Resolve(r.Context(), userID)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		_ = utils.WriteOK(w, CredentialResponse{
			AccessKeyID:     creds.MaskedAccessKeyID(),
			HasSessionToken: creds.SessionToken != "",
			Region:          creds.Region,
			UpdatedAt:       creds.UpdatedAt,
		})
	}
}

// DeleteCredentialHandler removes the caller's stored credential set
func DeleteCredentialHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		if err := deps.CredentialService.Delete(r.Context(), userID); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		deps.Logger.Info("credentials deleted", zap.String("user_id", userID))
		utils.WriteNoContent(w)
	}
}
