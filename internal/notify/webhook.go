// Package notify sends fire-and-forget messages to a chat platform webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Webhook posts plain-text messages to a configured URL. A single bounded
// POST, no retry; callers log failures and move on, a notification must
// never fail the request that triggered it.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a webhook URL is configured.
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

func (w *Webhook) Send(ctx context.Context, text string) error {
	if !w.Enabled() {
		return nil
	}

	body, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return fmt.Errorf("notify: marshal failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: request build failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
