package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sumeet-singh-parmar/aws-commander/app"
	"github.com/sumeet-singh-parmar/aws-commander/middleware"
	"github.com/sumeet-singh-parmar/aws-commander/models"
	"github.com/sumeet-singh-parmar/aws-commander/services/action"
	"github.com/sumeet-singh-parmar/aws-commander/utils"
	"go.uber.org/zap"
)

// ExecuteActionRequest is the request body for POST /api/v1/actions/execute
type ExecuteActionRequest struct {
	Action     string          `json:"action" validate:"required,max=100"`
	CategoryID string          `json:"category_id" validate:"max=100"`
	NotifyType string          `json:"notify_type" validate:"max=100"`
	Params     json.RawMessage `json:"params"`
	Consent    bool            `json:"consent"`
}

// BlockedResponse is the action-gating envelope returned when a metered
// action lacks consent. The caller re-submits with consent=true to retry.
type BlockedResponse struct {
	Allowed         bool   `json:"allowed"`
	CategoryID      string `json:"category_id"`
	CategoryLabel   string `json:"category_label"`
	CostDescription string `json:"cost_description"`
}

// ExecuteActionHandler runs one management action through the gate pipeline
func ExecuteActionHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserIDFromContext(r.Context())
		if userID == "" {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}

		var req ExecuteActionRequest
		if err := decodeJSON(r, &req); err != nil {
			_ = utils.WriteBadRequest(w, "invalid request body", nil)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			HandleValidationError(w, err, deps.Logger)
			return
		}

		requestID := middleware.GetRequestIDFromContext(r.Context())
		if requestID == "" {
			requestID = uuid.New().String()
		}

		notifyType := models.NotificationType(req.NotifyType)
		if req.NotifyType != "" && !models.IsValidNotificationType(notifyType) {
			_ = utils.WriteBadRequest(w, "unknown notify_type", map[string]interface{}{
				"notify_type": req.NotifyType,
			})
			return
		}

		result, err := deps.ActionService.Execute(r.Context(), action.Request{
			UserID:          userID,
			Action:          req.Action,
			CategoryID:      models.CategoryID(req.CategoryID),
			NotifyType:      notifyType,
			Params:          req.Params,
			ExplicitConsent: req.Consent,
			RequestID:       requestID,
		})
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}

		if result.Blocked != nil {
			deps.Logger.Debug("action blocked pending consent",
				zap.String("user_id", userID),
				zap.String("category_id", string(result.Blocked.CategoryID)))
			respondJSON(w, http.StatusPaymentRequired, BlockedResponse{
				Allowed:         false,
				CategoryID:      string(result.Blocked.CategoryID),
				CategoryLabel:   result.Blocked.CategoryLabel,
				CostDescription: result.Blocked.CostDescription,
			})
			return
		}

		_ = utils.WriteOK(w, result.Output)
	}
}
