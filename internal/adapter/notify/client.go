package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/merchkit/orderflow/internal/domain/model"
)

// Client pushes order lifecycle notifications to the customer-facing
// notification service.
type Client interface {
	Push(ctx context.Context, customerID int64, event model.Event) error
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type pushRequest struct {
	CustomerID int64          `json:"customer_id"`
	OrderID    string         `json:"order_id"`
	Kind       string         `json:"kind"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// NewHTTPClient creates the notification client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notify url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Push delivers a single notification.
func (c *HTTPClient) Push(ctx context.Context, customerID int64, event model.Event) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/notifications")

	body, err := json.Marshal(pushRequest{
		CustomerID: customerID,
		OrderID:    event.OrderID,
		Kind:       string(event.Kind),
		Payload:    event.Payload,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("notify request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(data)))
		return fmt.Errorf("notify error: %s", resp.Status)
	}
	return nil
}

// NoopClient is used when no notification service is configured.
type NoopClient struct{}

func (NoopClient) Push(ctx context.Context, customerID int64, event model.Event) error { return nil }
