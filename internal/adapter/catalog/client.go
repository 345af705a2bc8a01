package catalog

import (
	"context"
	"encoding/json"
	"errors"
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

// ErrUnavailable indicates the catalog is not configured or unreachable.
var ErrUnavailable = errors.New("catalog unavailable")

// HTTPClient resolves product data from the catalog service.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

var _ usecase.Catalog = (*HTTPClient)(nil)

type productResponse struct {
	ID          string `json:"id"`
	Price       int64  `json:"price"`
	Purchasable bool   `json:"purchasable"`
}

// NewHTTPClient creates the catalog client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("catalog url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Product fetches a single product. A product unknown to the catalog is
// (nil, nil), not an error.
func (c *HTTPClient) Product(ctx context.Context, productID string) (*model.ProductInfo, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/products/", productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var parsed productResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, err
		}
		return &model.ProductInfo{ID: parsed.ID, Price: model.Money(parsed.Price), Purchasable: parsed.Purchasable}, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error("catalog request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(data)))
		return nil, fmt.Errorf("catalog error: %s", resp.Status)
	}
}

// UnavailableClient is used when no catalog address is configured; every
// lookup fails and cart duplication skips the item.
type UnavailableClient struct{}

func (UnavailableClient) Product(ctx context.Context, productID string) (*model.ProductInfo, error) {
	return nil, ErrUnavailable
}
