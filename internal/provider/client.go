// Package provider implements the client for the upstream
// real-time product-search API.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/brandsnobs/deals-backend/internal/config"
	"github.com/brandsnobs/deals-backend/internal/models"
)

// maxResponseBytes bounds how much of a provider response is read.
// A single page of 20 products fits comfortably.
const maxResponseBytes = 4 << 20

type Searcher interface {
	FetchRaw(ctx context.Context, brand string) []models.RawProduct
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiHost    string
	pageLimit  int
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.ProviderTimeout,
		},
		baseURL:   "https://" + cfg.RapidAPIHost,
		apiKey:    cfg.RapidAPIKey,
		apiHost:   cfg.RapidAPIHost,
		pageLimit: cfg.PageLimit,
	}
}

// FetchRaw queries the provider for a single brand and fails soft:
// any transport, HTTP or decode error is logged and an empty list is
// returned, so one brand's failure never aborts a batch. There are no
// retries; the next scheduled run is the retry.
func (c *Client) FetchRaw(ctx context.Context, brand string) []models.RawProduct {
	products, err := c.search(ctx, brand)
	if err != nil {
		slog.Warn("Provider search failed", "brand", brand, "error", err)
		return nil
	}
	return products
}

func (c *Client) search(ctx context.Context, query string) ([]models.RawProduct, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("country", "us")
	params.Set("language", "en")
	params.Set("limit", fmt.Sprintf("%d", c.pageLimit))
	params.Set("sort_by", "BEST_MATCH")
	params.Set("product_condition", "ANY")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	products, err := decodeProducts(body)
	if err != nil {
		return nil, err
	}

	slog.Debug("Provider search completed", "query", query, "products", len(products), "elapsed", time.Since(start))
	return products, nil
}

// decodeProducts unwraps the provider's response envelope. The
// location of the product array has drifted across provider versions,
// so known shapes are probed in priority order: a top-level array,
// .data, .data.products, .products, .results.
func decodeProducts(body []byte) ([]models.RawProduct, error) {
	var direct []models.RawProduct
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var envelope struct {
		Data     json.RawMessage     `json:"data"`
		Products []models.RawProduct `json:"products"`
		Results  []models.RawProduct `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if len(envelope.Data) > 0 {
		var dataArray []models.RawProduct
		if err := json.Unmarshal(envelope.Data, &dataArray); err == nil {
			return dataArray, nil
		}
		var dataObject struct {
			Products []models.RawProduct `json:"products"`
		}
		if err := json.Unmarshal(envelope.Data, &dataObject); err == nil && dataObject.Products != nil {
			return dataObject.Products, nil
		}
	}
	if envelope.Products != nil {
		return envelope.Products, nil
	}
	if envelope.Results != nil {
		return envelope.Results, nil
	}

	return nil, fmt.Errorf("no product array found in search response")
}
