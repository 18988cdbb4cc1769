// Package storage persists the trade cache and loads the shop catalogs. The
// trade cache has two interchangeable backends selected by configuration: a
// JSON file (the exchange format with the fetch pipeline) and an embedded
// SQLite database for larger histories.
//
// JSON writes are atomic: data is written to a temporary file in the target
// directory and renamed into place, so a crash mid-write never corrupts an
// existing cache.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

// Backend driver names accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// TradeStore loads and saves the trade cache.
type TradeStore interface {
	Load() (*models.TradeCache, error)
	Save(cache *models.TradeCache) error
	Close() error
}

// Open returns the trade store for the configured driver.
func Open(driver, path string) (TradeStore, error) {
	switch driver {
	case DriverJSON:
		return NewJSONStore(path), nil
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// JSONStore persists the trade cache as a single JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore creates a JSON-file trade store at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load reads the trade cache. A missing or unreadable cache is a fatal input
// error for the analysis pipeline and is reported to the caller.
func (s *JSONStore) Load() (*models.TradeCache, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trade cache %s: %w", s.path, err)
	}

	var cache models.TradeCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to parse trade cache %s: %w", s.path, err)
	}
	return &cache, nil
}

// Save writes the trade cache atomically, creating parent directories as
// needed.
func (s *JSONStore) Save(cache *models.TradeCache) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode trade cache: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "trade-cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace trade cache %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op for the JSON backend.
func (s *JSONStore) Close() error { return nil }

// LoadShopCatalog reads one currency's shop catalog file.
func LoadShopCatalog(path string) (models.ShopCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ShopCatalog{}, fmt.Errorf("failed to read shop catalog %s: %w", path, err)
	}

	var catalog models.ShopCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return models.ShopCatalog{}, fmt.Errorf("failed to parse shop catalog %s: %w", path, err)
	}
	if len(catalog.Items) == 0 {
		return models.ShopCatalog{}, fmt.Errorf("shop catalog %s contains no items", path)
	}
	return catalog, nil
}
