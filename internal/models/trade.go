// Package models defines the core domain entities for the bloodchanting-arbitrage
// application. These models represent trading-post trades and shop catalog entries.
// All models include built-in validation to ensure data integrity throughout the
// application.
//
// Terminology (matching the game's own naming):
//   - Trade: a single completed trading-post sale of an item.
//   - Shop entry: an item sold in one of the two currency shops for a fixed cost.
//     The same item id may appear in both shops as two distinct entries.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TradeTimeLayout is the timestamp format used by the trading-post API,
// e.g. "2026-01-07 13:45:12.123456". Go's time.Parse accepts the fractional
// seconds even though the layout omits them.
const TradeTimeLayout = "2006-01-02 15:04:05"

// tradeTimeWriteLayout is used when re-serializing trades to the cache file.
const tradeTimeWriteLayout = "2006-01-02 15:04:05.000000"

// Trade represents a single completed trading-post sale. Trades are immutable
// once ingested; all analysis derives views from them without mutation.
type Trade struct {
	ItemID   int       `json:"item_id"`
	ItemName string    `json:"item_name"`
	Time     time.Time `json:"time"`
	Price    float64   `json:"price"`
	Amount   int       `json:"amount"`
}

// tradeWire mirrors Trade with the timestamp as the raw API string.
type tradeWire struct {
	ItemID   int     `json:"item_id"`
	ItemName string  `json:"item_name"`
	Time     string  `json:"time"`
	Price    float64 `json:"price"`
	Amount   int     `json:"amount"`
}

// UnmarshalJSON decodes a trade from the trading-post wire format. An
// unparsable timestamp leaves Time as the zero value rather than failing the
// whole record; the fetcher and analyzers treat such trades as present but
// undated, matching how the upstream API occasionally serves malformed rows.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var w tradeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to decode trade: %w", err)
	}

	t.ItemID = w.ItemID
	t.ItemName = w.ItemName
	t.Price = w.Price
	t.Amount = w.Amount

	if parsed, err := time.Parse(TradeTimeLayout, w.Time); err == nil {
		t.Time = parsed
	} else if parsed, err := time.Parse(time.RFC3339, w.Time); err == nil {
		t.Time = parsed
	} else {
		t.Time = time.Time{}
	}
	return nil
}

// MarshalJSON encodes a trade back into the trading-post wire format.
func (t Trade) MarshalJSON() ([]byte, error) {
	var ts string
	if !t.Time.IsZero() {
		ts = t.Time.Format(tradeTimeWriteLayout)
	}
	return json.Marshal(tradeWire{
		ItemID:   t.ItemID,
		ItemName: t.ItemName,
		Time:     ts,
		Price:    t.Price,
		Amount:   t.Amount,
	})
}

// Validate checks that all trade fields are valid.
func (t *Trade) Validate() error {
	if t.ItemID <= 0 {
		return errors.New("trade item ID must be positive")
	}
	if t.ItemName == "" {
		return errors.New("trade item name must not be empty")
	}
	if t.Price < 0 {
		return errors.New("trade price must not be negative")
	}
	if t.Amount <= 0 {
		return errors.New("trade amount must be positive")
	}
	return nil
}

// CacheMetadata describes the provenance of a trade cache file.
type CacheMetadata struct {
	LastUpdated     string `json:"last_updated"`
	TotalTrades     int    `json:"total_trades"`
	ItemsProcessed  int    `json:"items_processed"`
	ItemsWithTrades int    `json:"items_with_trades"`
	Source          string `json:"source"`
	APIURL          string `json:"api_url"`
}

// TradeCache is the persisted collection of fetched trades plus metadata
// about the fetch run that produced it.
type TradeCache struct {
	Metadata CacheMetadata `json:"metadata"`
	Trades   []Trade       `json:"trades"`
}

// ByItem groups the cached trades by item identifier.
func (c *TradeCache) ByItem() map[int][]Trade {
	grouped := make(map[int][]Trade)
	for _, t := range c.Trades {
		grouped[t.ItemID] = append(grouped[t.ItemID], t)
	}
	return grouped
}
