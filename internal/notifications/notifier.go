// Package notifications delivers emitted alerts to configured webhook
// endpoints (Slack or generic JSON). Deliveries are fire-and-forget in a
// goroutine so they never block the ingest path; the alert register remains
// the source of truth regardless of delivery outcome.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/paywatch/paywatch-backend/internal/config"
	"github.com/paywatch/paywatch-backend/internal/models"
	"github.com/paywatch/paywatch-backend/internal/pkg/redact"
)

// Notifier posts alert payloads to all enabled channels.
type Notifier struct {
	channels []config.Channel
	client   *http.Client
	logger   *slog.Logger
}

// NewNotifier creates a Notifier for the given channels.
func NewNotifier(channels []config.Channel, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		channels: channels,
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
	}
}

// Notify dispatches the alert to all enabled channels. Asynchronous; returns
// immediately.
func (n *Notifier) Notify(alert models.Alert) {
	if len(n.channels) == 0 {
		return
	}
	go n.deliver(alert)
}

// deliver is the internal synchronous delivery routine, called from a goroutine.
func (n *Notifier) deliver(alert models.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, ch := range n.channels {
		if !ch.Enabled {
			continue
		}
		if err := n.send(ctx, ch, alert); err != nil {
			n.logger.Warn("notifications: delivery failed",
				"channel", ch.Name,
				"channel_type", ch.Type,
				"url", redact.URL(ch.URL),
				"alert_id", alert.ID,
				"err", err,
			)
		}
	}
}

// send posts the alert to a single channel, adapting the payload format for
// Slack vs generic webhooks.
func (n *Notifier) send(ctx context.Context, ch config.Channel, alert models.Alert) error {
	var payload interface{}

	switch ch.Type {
	case "slack":
		// Slack expects {"text": "..."} with optional markdown.
		text := fmt.Sprintf("*[paywatch/%s]* `%s` at %.2f%% (score %.1f)",
			alert.Severity, alert.AlertType, alert.MetricValue, alert.AnomalyScore)
		if alert.Message != "" {
			text += "\n> " + alert.Message
		}
		payload = map[string]string{"text": text}
	default:
		payload = alert
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ch.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	return nil
}
