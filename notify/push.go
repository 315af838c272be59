// Package notify delivers user-facing notifications. Rows are written to the
// notifications table inside the transaction that caused them; this package
// only ever reads that outbox and talks to the push provider. Delivery is
// best-effort and never feeds back into the ledger.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// PushMessage is the provider payload for one push.
type PushMessage struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	TargetType string `json:"targetType"` // "user", "base" or "all"
	TargetID   string `json:"targetId,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

// PushClient posts notifications to the external push provider.
type PushClient struct {
	url    string
	key    string
	client *http.Client
}

// NewPushClient reads the provider endpoint from PUSH_PROVIDER_URL. An empty
// URL disables delivery: Send reports ErrDisabled and outbox rows are marked
// skipped.
func NewPushClient() *PushClient {
	return &PushClient{
		url:    strings.TrimSpace(os.Getenv("PUSH_PROVIDER_URL")),
		key:    strings.TrimSpace(os.Getenv("PUSH_PROVIDER_KEY")),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewPushClientWith builds a client against an explicit endpoint.
func NewPushClientWith(url, key string, hc *http.Client) *PushClient {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &PushClient{url: url, key: key, client: hc}
}

var ErrDisabled = fmt.Errorf("push delivery disabled: PUSH_PROVIDER_URL not set")

// Enabled reports whether a provider endpoint is configured.
func (c *PushClient) Enabled() bool {
	return c.url != ""
}

// Send posts one message to the provider and fails on any non-2xx response.
func (c *PushClient) Send(ctx context.Context, msg PushMessage) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push provider returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
