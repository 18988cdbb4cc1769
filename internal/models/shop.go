package models

import (
	"errors"
	"fmt"
)

// Currency identifies which shop an entry is sold in. The numeric values
// match the game's currency identifiers.
type Currency int

const (
	// CurrencyTokens is the Blood Synthesis Tokens shop (currency id 0).
	CurrencyTokens Currency = 0
	// CurrencyShards is the Blood Shards shop (currency id 1).
	CurrencyShards Currency = 1
)

// String returns the display name of the currency.
func (c Currency) String() string {
	switch c {
	case CurrencyTokens:
		return "Blood Synthesis Tokens"
	case CurrencyShards:
		return "Blood Shards"
	default:
		return fmt.Sprintf("Currency(%d)", int(c))
	}
}

// Currencies lists the two shop currencies in report order (Shards first,
// matching the catalog build order).
func Currencies() []Currency {
	return []Currency{CurrencyShards, CurrencyTokens}
}

// CatalogItem is the wire format of a single shop catalog row.
type CatalogItem struct {
	ItemID   int     `json:"item_id"`
	ItemName string  `json:"item_name"`
	Value    float64 `json:"value"`
}

// ShopCatalog is the wire format of a shop catalog file.
type ShopCatalog struct {
	Items []CatalogItem `json:"items"`
}

// ShopEntry is an item sold in one shop for a fixed cost. Items present in
// both shops yield two distinct entries; each is analyzed independently
// because ROI depends on the entry's own cost.
type ShopEntry struct {
	ItemID   int      `json:"item_id"`
	ItemName string   `json:"item_name"`
	Cost     float64  `json:"shop_cost"`
	Currency Currency `json:"currency_id"`
}

// Validate checks that all shop entry fields are valid.
func (e *ShopEntry) Validate() error {
	if e.ItemID <= 0 {
		return errors.New("shop entry item ID must be positive")
	}
	if e.ItemName == "" {
		return errors.New("shop entry item name must not be empty")
	}
	if e.Cost <= 0 {
		return errors.New("shop entry cost must be positive")
	}
	if e.Currency != CurrencyTokens && e.Currency != CurrencyShards {
		return errors.New("shop entry currency must be tokens or shards")
	}
	return nil
}

// BuildShopEntries flattens the two catalogs into the combined shop entry
// list, shard shop first. Duplicate item ids across the catalogs are kept as
// separate entries.
func BuildShopEntries(shardShop, tokenShop ShopCatalog) []ShopEntry {
	entries := make([]ShopEntry, 0, len(shardShop.Items)+len(tokenShop.Items))
	for _, it := range shardShop.Items {
		entries = append(entries, ShopEntry{
			ItemID:   it.ItemID,
			ItemName: it.ItemName,
			Cost:     it.Value,
			Currency: CurrencyShards,
		})
	}
	for _, it := range tokenShop.Items {
		entries = append(entries, ShopEntry{
			ItemID:   it.ItemID,
			ItemName: it.ItemName,
			Cost:     it.Value,
			Currency: CurrencyTokens,
		})
	}
	return entries
}
