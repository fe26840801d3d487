// Package notify posts record lifecycle events to an external webhook so
// downstream systems (lab dashboards, audit trails) can follow the register.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/farmovs/decanting/internal/config"
	"github.com/farmovs/decanting/internal/domain/models"
)

// Publisher delivers a single lifecycle event. Delivery is best effort; the
// triggering operation never fails because of the webhook.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// APIClient is a resty-backed Publisher.
type APIClient struct {
	httpClient *resty.Client
	webhookURL string
}

// NewClient builds a webhook client from the notification configuration.
func NewClient(cfg config.NotifyConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	if cfg.Token != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token))
	}

	return &APIClient{
		httpClient: restyClient,
		webhookURL: cfg.WebhookURL,
	}
}

// Publish POSTs the event as JSON to the configured webhook.
func (c *APIClient) Publish(ctx context.Context, event models.Event) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		Post(c.webhookURL)
	if err != nil {
		return fmt.Errorf("post event %s: %w", event.Type, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook rejected event %s: status=%d body=%s", event.Type, resp.StatusCode(), resp.String())
	}

	return nil
}
