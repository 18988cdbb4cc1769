package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trades (
	item_id   INTEGER NOT NULL,
	item_name TEXT    NOT NULL,
	time      TEXT    NOT NULL,
	price     REAL    NOT NULL,
	amount    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_item_id ON trades (item_id);
CREATE TABLE IF NOT EXISTS cache_metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// sqliteTimeLayout stores timestamps in a lexically sortable form.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000"

// SQLiteStore persists the trade cache in an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the SQLite trade store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save replaces the stored trades and metadata with the given cache in a
// single transaction.
func (s *SQLiteStore) Save(cache *models.TradeCache) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM trades`); err != nil {
		return fmt.Errorf("failed to clear trades: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO trades (item_id, item_name, time, price, amount) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range cache.Trades {
		var ts string
		if !t.Time.IsZero() {
			ts = t.Time.Format(sqliteTimeLayout)
		}
		if _, err := stmt.Exec(t.ItemID, t.ItemName, ts, t.Price, t.Amount); err != nil {
			return fmt.Errorf("failed to insert trade for item %d: %w", t.ItemID, err)
		}
	}

	meta := map[string]string{
		"last_updated":      cache.Metadata.LastUpdated,
		"total_trades":      fmt.Sprintf("%d", cache.Metadata.TotalTrades),
		"items_processed":   fmt.Sprintf("%d", cache.Metadata.ItemsProcessed),
		"items_with_trades": fmt.Sprintf("%d", cache.Metadata.ItemsWithTrades),
		"source":            cache.Metadata.Source,
		"api_url":           cache.Metadata.APIURL,
	}
	for key, value := range meta {
		if _, err := tx.Exec(
			`INSERT INTO cache_metadata (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			return fmt.Errorf("failed to store metadata %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade cache: %w", err)
	}
	return nil
}

// Load reads back all stored trades plus metadata.
func (s *SQLiteStore) Load() (*models.TradeCache, error) {
	rows, err := s.db.Query(`SELECT item_id, item_name, time, price, amount FROM trades ORDER BY time`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	cache := &models.TradeCache{}
	for rows.Next() {
		var t models.Trade
		var ts string
		if err := rows.Scan(&t.ItemID, &t.ItemName, &ts, &t.Price, &t.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		if ts != "" {
			parsed, err := time.Parse(sqliteTimeLayout, ts)
			if err != nil {
				return nil, fmt.Errorf("failed to parse stored trade time %q: %w", ts, err)
			}
			t.Time = parsed
		}
		cache.Trades = append(cache.Trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	metaRows, err := s.db.Query(`SELECT key, value FROM cache_metadata`)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer metaRows.Close()

	for metaRows.Next() {
		var key, value string
		if err := metaRows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		switch key {
		case "last_updated":
			cache.Metadata.LastUpdated = value
		case "total_trades":
			fmt.Sscanf(value, "%d", &cache.Metadata.TotalTrades)
		case "items_processed":
			fmt.Sscanf(value, "%d", &cache.Metadata.ItemsProcessed)
		case "items_with_trades":
			fmt.Sscanf(value, "%d", &cache.Metadata.ItemsWithTrades)
		case "source":
			cache.Metadata.Source = value
		case "api_url":
			cache.Metadata.APIURL = value
		}
	}
	if err := metaRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata: %w", err)
	}

	return cache, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
