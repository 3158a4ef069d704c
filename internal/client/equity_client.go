// Package client talks to the equity backend over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/vire-dashboard/internal/common"
	"github.com/bobmcallan/vire-dashboard/internal/models"
)

const maxResponseBytes = 1 << 20

// EquityClient fetches market data from the backend's /eq endpoints.
type EquityClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// Option configures an EquityClient.
type Option func(*EquityClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *EquityClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *EquityClient) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) Option {
	return func(c *EquityClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewEquityClient creates a client for the backend at baseURL.
func NewEquityClient(baseURL string, opts ...Option) *EquityClient {
	c := &EquityClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCompanyOverview fetches GET /eq/getCompanyOverview?symbol=...
func (c *EquityClient) GetCompanyOverview(ctx context.Context, symbol string) (*models.CompanyOverview, error) {
	var out models.CompanyOverview
	if err := c.getJSON(ctx, "/eq/getCompanyOverview", url.Values{"symbol": {symbol}}, &out); err != nil {
		return nil, fmt.Errorf("company overview %s: %w", symbol, err)
	}
	return &out, nil
}

// GetTopGainersAndLosers fetches GET /eq/getTopGainersAndLosers.
func (c *EquityClient) GetTopGainersAndLosers(ctx context.Context) (*models.GainersLosers, error) {
	var out models.GainersLosers
	if err := c.getJSON(ctx, "/eq/getTopGainersAndLosers", nil, &out); err != nil {
		return nil, fmt.Errorf("top gainers and losers: %w", err)
	}
	return &out, nil
}

// GetMarketSentiment fetches GET /eq/getMarketSentiment?ticker=...
func (c *EquityClient) GetMarketSentiment(ctx context.Context, ticker string) (*models.Sentiment, error) {
	var out models.Sentiment
	if err := c.getJSON(ctx, "/eq/getMarketSentiment", url.Values{"ticker": {ticker}}, &out); err != nil {
		return nil, fmt.Errorf("market sentiment %s: %w", ticker, err)
	}
	return &out, nil
}

// SearchStocksByName fetches GET /eq/searchStocksByName?symbol=...
//
// Backend failures are absorbed: the sample result list is returned instead.
// An error means the request could not be made at all, either because it
// cannot be built or because ctx is already done.
func (c *EquityClient) SearchStocksByName(ctx context.Context, query string) ([]models.StockMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, "/eq/searchStocksByName", url.Values{"symbol": {query}})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var out []models.StockMatch
	if err := c.do(req, &out); err != nil {
		c.logger.Warn().Str("query", query).Str("error", err.Error()).Msg("stock search failed, using sample results")
		return models.SampleStockMatches(), nil
	}
	if out == nil {
		out = []models.StockMatch{}
	}
	return out, nil
}

// Ping checks that the backend answers on path with a 2xx status.
func (c *EquityClient) Ping(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}
	return nil
}

func (c *EquityClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, path, query)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *EquityClient) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *EquityClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
