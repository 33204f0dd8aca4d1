package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"salesbot-service/internal/models"
	"salesbot-service/internal/util"
)

// Client talks to the external live price/stock API. One lookup per
// SKU; all caching happens in Cache, not here.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new pricing API client
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type productResponse struct {
	Product *struct {
		Title         string  `json:"title"`
		Price         float64 `json:"price"`
		StockQuantity int     `json:"stock_quantity"`
		CanonicalURL  string  `json:"canonical_url"`
	} `json:"product"`
}

// GetProductByHandle fetches live price and stock for a SKU.
// Any failure (network, non-2xx, product missing from the response)
// returns an error so the caller can fall back to local data.
func (c *Client) GetProductByHandle(ctx context.Context, sku string) (*models.PriceData, error) {
	start := time.Now()
	defer func() {
		util.PriceLookupLatency.Observe(time.Since(start).Seconds())
	}()

	endpoint := fmt.Sprintf("%s/products/%s.json", c.baseURL, url.PathEscape(sku))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build price request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price lookup failed for %s: %w", sku, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("price lookup for %s returned status %d", sku, resp.StatusCode)
	}

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode price response for %s: %w", sku, err)
	}

	if body.Product == nil {
		return nil, fmt.Errorf("product %s missing from price response", sku)
	}

	return &models.PriceData{
		SKU:           sku,
		Title:         body.Product.Title,
		Price:         body.Product.Price,
		StockQuantity: body.Product.StockQuantity,
		CanonicalURL:  body.Product.CanonicalURL,
	}, nil
}
