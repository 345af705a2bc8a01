package gateway

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
	"github.com/merchkit/orderflow/internal/usecase"
)

const (
	chargeAttempts = 3
	retryBackoff   = 200 * time.Millisecond
)

// HTTPClient talks to the external payment gateway. Transient failures are
// retried a bounded number of times; a definitive decline is not an error,
// it comes back as an unsuccessful ChargeResult.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

var _ usecase.PaymentGateway = (*HTTPClient)(nil)

type chargeRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
}

type chargeResponse struct {
	Succeeded bool   `json:"succeeded"`
	Reference string `json:"reference"`
}

// NewHTTPClient creates the gateway client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Charge submits a charge request for the given amount in minor units.
func (c *HTTPClient) Charge(ctx context.Context, amount model.Money, method string) (*model.ChargeResult, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/charges")

	body, err := json.Marshal(chargeRequest{Amount: int64(amount), Method: method})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < chargeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		result, retryable, err := c.doCharge(ctx, endpoint.String(), body)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
		c.logger.Warn("gateway charge attempt failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
	}
	return nil, fmt.Errorf("gateway unavailable: %w", lastErr)
}

func (c *HTTPClient) doCharge(ctx context.Context, endpoint string, body []byte) (*model.ChargeResult, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, err
		}
		var parsed chargeResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, false, err
		}
		return &model.ChargeResult{Succeeded: parsed.Succeeded, Reference: parsed.Reference}, false, nil
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		// Definitive decline.
		return &model.ChargeResult{Succeeded: false}, false, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, true, fmt.Errorf("gateway error: %s", resp.Status)
	default:
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway request rejected", slog.Int("status", resp.StatusCode), slog.String("body", string(data)))
		return nil, false, fmt.Errorf("gateway rejected charge: %s", resp.Status)
	}
}
