package handlers

import (
	"net/http"

	"github.com/sumeet-singh-parmar/aws-commander/services"
	"github.com/sumeet-singh-parmar/aws-commander/utils"
	"go.uber.org/zap"
)

// CredentialErrorResponse is the uniform failure envelope consumed by every
// action wrapper when credential resolution or the cloud call fails:
// UNCONFIGURED, INVALID, EXPIRED or FORBIDDEN.
type CredentialErrorResponse struct {
	ErrorKind string                 `json:"error_kind"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	details := services.GetErrorDetails(err)

	switch {
	case services.IsCredentialError(err):
		// All four credential failure kinds share one envelope so callers
		// can render a remediation prompt from error_kind alone.
		status := http.StatusForbidden
		if services.IsUnconfiguredError(err) {
			status = http.StatusPreconditionFailed
		}
		if writeErr := utils.WriteJSON(w, status, CredentialErrorResponse{
			ErrorKind: services.ErrorKind(err),
			Message:   err.Error(),
			Details:   details,
		}); writeErr != nil {
			logger.Error("failed to write credential error response", zap.Error(writeErr))
		}

	case services.IsConsentRequiredError(err):
		if writeErr := utils.WriteJSON(w, http.StatusPaymentRequired, utils.ErrorResponse{
			Error:   "consent_required",
			Message: err.Error(),
			Details: details,
		}); writeErr != nil {
			logger.Error("failed to write consent error response", zap.Error(writeErr))
		}

	case services.IsNotFoundError(err):
		if writeErr := utils.WriteNotFound(w, err.Error()); writeErr != nil {
			logger.Error("failed to write not found response", zap.Error(writeErr))
		}

	case services.IsValidationError(err):
		if writeErr := utils.WriteBadRequest(w, err.Error(), details); writeErr != nil {
			logger.Error("failed to write bad request response", zap.Error(writeErr))
		}

	case services.IsExternalError(err):
		// External provider errors are mapped to 502 Bad Gateway
		if writeErr := utils.WriteJSON(w, http.StatusBadGateway, utils.ErrorResponse{
			Error:   "bad_gateway",
			Message: err.Error(),
			Details: details,
		}); writeErr != nil {
			logger.Error("failed to write bad gateway response", zap.Error(writeErr))
		}

	case services.IsInternalError(err):
		// Log internal errors but return generic message
		logger.Error("internal server error", zap.Error(err))
		if writeErr := utils.WriteInternalServerError(w, "An internal error occurred"); writeErr != nil {
			logger.Error("failed to write internal error response", zap.Error(writeErr))
		}

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		if writeErr := utils.WriteInternalServerError(w, "An unexpected error occurred"); writeErr != nil {
			logger.Error("failed to write internal error response", zap.Error(writeErr))
		}
	}
}
