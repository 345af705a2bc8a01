package stock

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Client releases stock reservations held by cancelled orders.
type Client interface {
	Release(ctx context.Context, orderID string) error
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates the stock client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse stock url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("stock url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Release frees the reservation for the given order. The call is idempotent
// on the stock side; repeated releases for the same order are accepted.
func (c *HTTPClient) Release(ctx context.Context, orderID string) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/reservations/", orderID, "/release")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		// 404 means the reservation is already gone.
		return nil
	default:
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("stock release failed", slog.Int("status", resp.StatusCode), slog.String("body", string(data)))
		return fmt.Errorf("stock error: %s", resp.Status)
	}
}

// NoopClient is used when no stock service is configured.
type NoopClient struct{}

func (NoopClient) Release(ctx context.Context, orderID string) error { return nil }
