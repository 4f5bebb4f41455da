package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"herald/internal/domain/news"
	"herald/pkg/errors"
)

const (
	spotBaseURL        = "https://api.binance.com"
	defaultHTTPTimeout = 10 * time.Second
)

// Config configures the Binance market data client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches public spot market data from Binance. Only unauthenticated
// endpoints are used; no API key is required.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Binance market data client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = spotBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// ClosingPrices returns up to limit closing prices for the symbol at the
// given kline interval, oldest first.
func (c *Client) ClosingPrices(ctx context.Context, symbol string, interval string, limit int) ([]news.ClosePrice, error) {
	if limit <= 0 {
		limit = 100
	}

	params := url.Values{
		"symbol":   []string{symbol},
		"interval": []string{interval},
		"limit":    []string{strconv.Itoa(limit)},
	}

	endpoint := c.baseURL + "/api/v3/klines?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create klines request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch klines")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "klines returned status %d: %s", resp.StatusCode, string(body))
	}

	// Kline rows are positional arrays: open time, open, high, low, close, ...
	var raw [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode klines response")
	}

	closes := make([]news.ClosePrice, 0, len(raw))
	for _, row := range raw {
		if len(row) < 5 {
			continue
		}
		openTime, ok := row[0].(float64)
		if !ok {
			continue
		}
		closePrice, err := decimal.NewFromString(fmt.Sprint(row[4]))
		if err != nil {
			continue
		}
		closes = append(closes, news.ClosePrice{
			Time:  time.UnixMilli(int64(openTime)),
			Close: closePrice.InexactFloat64(),
		})
	}

	return closes, nil
}
