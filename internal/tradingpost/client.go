// Package tradingpost provides a client for the trading-post trade history
// API. Results are paged per item name; the client throttles requests to a
// configured rate so bulk fetches stay under the API's limits.
package tradingpost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

// Client fetches trade history from the trading-post API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	minInterval time.Duration
	lastRequest time.Time
}

// NewClient creates a trading-post client. requestsPerSecond bounds the
// request rate across all calls on this client; values <= 0 disable
// throttling.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64) *Client {
	var minInterval time.Duration
	if requestsPerSecond > 0 {
		minInterval = time.Duration(float64(time.Second) / requestsPerSecond)
	}
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		minInterval: minInterval,
	}
}

// throttle waits until the configured minimum interval since the previous
// request has elapsed, or the context is cancelled.
func (c *Client) throttle(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}
	wait := c.minInterval - time.Since(c.lastRequest)
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// FetchItemTrades retrieves the trade history for one item name, walking
// pages until the API returns an empty page, maxPages is reached, or a whole
// page falls before oldest. Trades older than oldest are dropped; trades with
// an unparsable (zero) timestamp are kept and treated as recent, matching the
// API's occasional malformed rows. Pass a zero oldest to keep everything.
func (c *Client) FetchItemTrades(ctx context.Context, itemName string, maxPages int, oldest time.Time) ([]models.Trade, error) {
	var all []models.Trade

	for page := 1; page <= maxPages; page++ {
		if err := c.throttle(ctx); err != nil {
			return all, err
		}

		trades, err := c.fetchPage(ctx, itemName, page)
		if err != nil {
			return all, fmt.Errorf("failed to fetch page %d for %q: %w", page, itemName, err)
		}
		if len(trades) == 0 {
			break
		}

		pageHasRecent := false
		for _, t := range trades {
			if oldest.IsZero() || t.Time.IsZero() || !t.Time.Before(oldest) {
				all = append(all, t)
				pageHasRecent = true
			}
		}
		if !pageHasRecent {
			// Pages are newest-first; a page entirely past the horizon
			// means everything further is older still.
			break
		}
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, itemName string, page int) ([]models.Trade, error) {
	params := url.Values{}
	params.Set("search_text", itemName)
	params.Set("page", fmt.Sprintf("%d", page))
	fullURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var trades []models.Trade
	if err := json.NewDecoder(resp.Body).Decode(&trades); err != nil {
		return nil, fmt.Errorf("failed to decode trades: %w", err)
	}
	return trades, nil
}
