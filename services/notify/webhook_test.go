package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebhookNotifier_Post(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second, zap.NewNop())
	err := n.Post(context.Background(), "ops-alerts", Notification{
		UserID:    "U123",
		Type:      "compute-lifecycle",
		Message:   "instance i-abc123 stopped",
		RequestID: "req-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "ops-alerts", got.Channel)
	assert.Equal(t, "instance i-abc123 stopped", got.Text)
	assert.Equal(t, "compute-lifecycle", got.Type)
	assert.Equal(t, "U123", got.UserID)
}

func TestWebhookNotifier_Post_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "channel_not_found", http.StatusNotFound)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second, zap.NewNop())
	err := n.Post(context.Background(), "ops-alerts", Notification{Message: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestWebhookNotifier_Post_MissingURL(t *testing.T) {
	n := NewWebhookNotifier("", time.Second, zap.NewNop())
	err := n.Post(context.Background(), "ops-alerts", Notification{Message: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestWebhookNotifier_Post_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewWebhookNotifier(srv.URL, time.Second, zap.NewNop())
	err := n.Post(ctx, "ops-alerts", Notification{Message: "hi"})

	require.Error(t, err)
}
