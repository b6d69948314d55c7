package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumeet-singh-parmar/aws-commander/services"
	"github.com/sumeet-singh-parmar/aws-commander/utils"
	"go.uber.org/zap"
)

func TestHandleServiceError_CredentialErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{
			name:       "unconfigured maps to 412",
			err:        services.ErrCredentialsUnconfigured,
			wantStatus: http.StatusPreconditionFailed,
			wantKind:   "UNCONFIGURED",
		},
		{
			name:       "invalid maps to 403",
			err:        services.ErrCredentialsInvalid,
			wantStatus: http.StatusForbidden,
			wantKind:   "INVALID",
		},
		{
			name:       "expired maps to 403",
			err:        services.ErrCredentialsExpired,
			wantStatus: http.StatusForbidden,
			wantKind:   "EXPIRED",
		},
		{
			name:       "forbidden maps to 403",
			err:        services.ErrCredentialsForbidden,
			wantStatus: http.StatusForbidden,
			wantKind:   "FORBIDDEN",
		},
		{
			name:       "wrapped expired keeps its kind",
			err:        fmt.Errorf("calling ec2: %w", services.ErrCredentialsExpired),
			wantStatus: http.StatusForbidden,
			wantKind:   "EXPIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(w, tt.err, zap.NewNop())

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp CredentialErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, resp.ErrorKind)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHandleServiceError_ConsentRequired(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, services.ErrConsentRequired, zap.NewNop())

	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "consent_required", resp.Error)
}

func TestHandleServiceError_NotFound(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, services.ErrLegacyPreferenceNotFound, zap.NewNop())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleServiceError_Validation(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, services.ErrUnknownNotificationType, zap.NewNop())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleServiceError_External(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, services.WrapExternal("describing instances", errors.New("throttled")), zap.NewNop())

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bad_gateway", resp.Error)
}

func TestHandleServiceError_InternalHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, services.WrapInternal("saving credentials", errors.New("pq: connection reset")), zap.NewNop())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestHandleServiceError_UnknownErrorDefaultsToInternal(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, errors.New("something odd"), zap.NewNop())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleServiceError_NilIsNoOp(t *testing.T) {
	w := httptest.NewRecorder()
	HandleServiceError(w, nil, zap.NewNop())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
