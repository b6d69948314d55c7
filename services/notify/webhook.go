package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// WebhookNotifier posts notifications to a chat-platform incoming webhook.
// The webhook payload names the destination channel; the platform handles
// the actual routing.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier creates a new WebhookNotifier instance
func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// webhookPayload is the wire shape posted to the webhook
type webhookPayload struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Type    string `json:"type"`
	UserID  string `json:"user_id"`
}

// Post delivers one notification to one channel
func (w *WebhookNotifier) Post(ctx context.Context, channel string, n Notification) error {
	if w.url == "" {
		return fmt.Errorf("notifier webhook URL not configured")
	}

	body, err := json.Marshal(webhookPayload{
		Channel: channel,
		Text:    n.Message,
		Type:    string(n.Type),
		UserID:  n.UserID,
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
