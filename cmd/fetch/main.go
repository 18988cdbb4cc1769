// Command fetch refreshes the trade cache: it collects the item names from
// both shop catalogs (plus any configured extras), pulls each item's trade
// history from the trading-post API at the configured request rate, and
// saves the combined result through the configured storage backend.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/config"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/logger"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/storage"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/tradingpost"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("info", "text")
		logger.Fatal("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Init("info", "text")
		logger.Fatal("Invalid configuration: %v", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	names, err := shopItemNames(cfg)
	if err != nil {
		logger.Fatal("Failed to collect shop item names: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("Shutdown signal received, stopping fetch")
		cancel()
	}()

	client := tradingpost.NewClient(
		cfg.TradingPost.APIBaseURL,
		cfg.TradingPost.Timeout,
		cfg.TradingPost.RequestsPerSecond,
	)

	oldest := time.Now().AddDate(0, 0, -cfg.TradingPost.HistoryDays)
	logger.Info("Fetching %d items at %.1f req/sec (history horizon %s)",
		len(names), cfg.TradingPost.RequestsPerSecond, oldest.Format("2006-01-02"))

	var allTrades []models.Trade
	itemsWithTrades := 0
	for i, name := range names {
		trades, err := client.FetchItemTrades(ctx, name, cfg.TradingPost.MaxPagesPerItem, oldest)
		if err != nil {
			if ctx.Err() != nil {
				logger.Warn("Fetch cancelled after %d/%d items", i, len(names))
				break
			}
			logger.Error("Failed to fetch %q: %v", name, err)
			continue
		}
		logger.Debug("[%d/%d] %s: %d trades", i+1, len(names), name, len(trades))
		allTrades = append(allTrades, trades...)
		if len(trades) > 0 {
			itemsWithTrades++
		}
	}

	cache := &models.TradeCache{
		Metadata: models.CacheMetadata{
			LastUpdated:     time.Now().Format(time.RFC3339),
			TotalTrades:     len(allTrades),
			ItemsProcessed:  len(names),
			ItemsWithTrades: itemsWithTrades,
			Source:          "cmd/fetch",
			APIURL:          cfg.TradingPost.APIBaseURL,
		},
		Trades: allTrades,
	}

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.TradeCachePath)
	if err != nil {
		logger.Fatal("Failed to open trade store: %v", err)
	}
	defer store.Close()

	if err := store.Save(cache); err != nil {
		logger.Fatal("Failed to save trade cache: %v", err)
	}

	logger.Info("Fetch complete: %d trades across %d items (%d with trades) saved to %s",
		len(allTrades), len(names), itemsWithTrades, cfg.Storage.TradeCachePath)
}

// shopItemNames returns the deduplicated, sorted item names from both shop
// catalogs plus any configured extra items.
func shopItemNames(cfg *config.Config) ([]string, error) {
	shardShop, err := storage.LoadShopCatalog(cfg.Storage.ShardShopPath)
	if err != nil {
		return nil, err
	}
	tokenShop, err := storage.LoadShopCatalog(cfg.Storage.TokenShopPath)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, it := range shardShop.Items {
		seen[it.ItemName] = true
	}
	for _, it := range tokenShop.Items {
		seen[it.ItemName] = true
	}
	for _, name := range cfg.TradingPost.ExtraItems {
		seen[name] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
