package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sumeet-singh-parmar/aws-commander/models"
)

func TestListConsentsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.store.grants[grantKey("U123", models.CategoryCostQuery)] = models.NewConsentGrant("U123", models.CategoryCostQuery)

	req := authedRequest(http.MethodGet, "/api/v1/consents", "U123", nil)
	w := httptest.NewRecorder()

	ListConsentsHandler(env.deps)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Consents []struct {
				Category struct {
					ID string `json:"id"`
				} `json:"category"`
				Granted bool `json:"granted"`
			} `json:"consents"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Consents, 3)

	byID := make(map[string]bool)
	for _, c := range resp.Data.Consents {
		byID[c.Category.ID] = c.Granted
	}
	assert.True(t, byID["cost-query"])
	assert.False(t, byID["ai-assist"])
	assert.False(t, byID["function-invoke"])
}

func TestGrantConsentHandler(t *testing.T) {
	env := newTestEnv(t)

	req := authedRequest(http.MethodPost, "/api/v1/consents/cost-query", "U123", nil)
	req = withURLParam(req, "category", "cost-query")
	w := httptest.NewRecorder()

	GrantConsentHandler(env.deps)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	grant := env.store.grants[grantKey("U123", models.CategoryCostQuery)]
	require.NotNil(t, grant)
	assert.True(t, grant.Granted)
}

func TestGrantConsentHandler_UnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	req := authedRequest(http.MethodPost, "/api/v1/consents/resource-list", "U123", nil)
	req = withURLParam(req, "category", "resource-list")
	w := httptest.NewRecorder()

	GrantConsentHandler(env.deps)(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.store.grants)
}

func TestRevokeConsentHandler(t *testing.T) {
	env := newTestEnv(t)
	env.store.grants[grantKey("U123", models.CategoryCostQuery)] = models.NewConsentGrant("U123", models.CategoryCostQuery)

	req := authedRequest(http.MethodDelete, "/api/v1/consents/cost-query", "U123", nil)
	req = withURLParam(req, "category", "cost-query")
	w := httptest.NewRecorder()

	RevokeConsentHandler(env.deps)(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, env.store.grants[grantKey("U123", models.CategoryCostQuery)].Granted)
}

func TestRevokeAllConsentsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.store.grants[grantKey("U123", models.CategoryCostQuery)] = models.NewConsentGrant("U123", models.CategoryCostQuery)
	env.store.grants[grantKey("U123", models.CategoryAIAssist)] = models.NewConsentGrant("U123", models.CategoryAIAssist)

	req := authedRequest(http.MethodDelete, "/api/v1/consents", "U123", nil)
	w := httptest.NewRecorder()

	RevokeAllConsentsHandler(env.deps)(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	for _, g := range env.store.grants {
		assert.False(t, g.Granted)
	}
}

func TestConsentHandlers_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	handlers := map[string]http.HandlerFunc{
		"list":       ListConsentsHandler(env.deps),
		"grant":      GrantConsentHandler(env.deps),
		"revoke":     RevokeConsentHandler(env.deps),
		"revoke all": RevokeAllConsentsHandler(env.deps),
	}

	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/consents", nil)
			w := httptest.NewRecorder()
			h(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
