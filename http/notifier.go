package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/prospector"
)

// Ensure Notifier implements prospector.Notifier at compile time.
var _ prospector.Notifier = (*Notifier)(nil)

// Notifier delivers run results to a webhook URL as a JSON POST.
type Notifier struct {
	client     *http.Client
	webhookURL string
}

// NewNotifier creates a Notifier posting to webhookURL. If client is nil,
// http.DefaultClient is used.
func NewNotifier(client *http.Client, webhookURL string) *Notifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &Notifier{client: client, webhookURL: webhookURL}
}

// Notify posts the result to the webhook. A non-2xx response is an error;
// callers treat notification failures as non-fatal.
func (n *Notifier) Notify(ctx context.Context, result *prospector.RunResult) error {
	if n.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
