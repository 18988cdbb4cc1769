// Command arbitrage runs the full shop-versus-market analysis: it loads the
// trade cache and both shop catalogs, computes per-entry aggregate ROI and
// per-window recommendations, derives the classifier views, and writes the
// recommendations JSON and detailed CSV. With Telegram enabled it also sends
// a digest of the results.
package main

import (
	"flag"
	"time"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/analysis"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/config"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/export"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/logger"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/notify"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/stats"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/storage"
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

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.TradeCachePath)
	if err != nil {
		logger.Fatal("Failed to open trade store: %v", err)
	}
	defer store.Close()

	cache, err := store.Load()
	if err != nil {
		logger.Fatal("Failed to load trade cache: %v", err)
	}

	shardShop, err := storage.LoadShopCatalog(cfg.Storage.ShardShopPath)
	if err != nil {
		logger.Fatal("Failed to load shard shop catalog: %v", err)
	}
	tokenShop, err := storage.LoadShopCatalog(cfg.Storage.TokenShopPath)
	if err != nil {
		logger.Fatal("Failed to load token shop catalog: %v", err)
	}
	entries := models.BuildShopEntries(shardShop, tokenShop)

	referenceNow, _ := cfg.Analysis.ReferenceTime()
	updateCutoff, _ := cfg.Analysis.UpdateCutoffTime()

	logger.Info("Loaded %d trades and %d shop entries (shards: %d, tokens: %d)",
		len(cache.Trades), len(entries), len(shardShop.Items), len(tokenShop.Items))

	agg := analysis.NewAggregator(analysis.Config{
		Now:           referenceNow,
		AnalysisDays:  cfg.Analysis.AnalysisDays,
		UpdateCutoff:  updateCutoff,
		UpdateKeyword: cfg.Analysis.UpdateKeyword,
		TopN:          cfg.Analysis.TopN,
		Params: stats.Params{
			Alpha:          cfg.Analysis.Alpha,
			OutlierIQRMult: cfg.Analysis.OutlierIQRMult,
			ZoneIQROffset:  cfg.Analysis.ZoneIQROffset,
			AvoidIQROffset: cfg.Analysis.AvoidIQROffset,
		},
	}, cache.Trades, entries)

	logger.Info("Analyzing %d trades within the last %d days", agg.RecentTradeCount(), cfg.Analysis.AnalysisDays)

	items := agg.Aggregate()

	dead := analysis.DeadItems(items)
	recs := analysis.Recommend(items)
	impacts := agg.UpdateImpacts()
	suspect := analysis.ExtremeOutliers(items)

	tops := make(map[models.Currency][]analysis.Performer)
	for _, currency := range models.Currencies() {
		tops[currency] = analysis.TopPerformers(items, currency, cfg.Analysis.TopN)
	}

	dist := analysis.Distribute(items)
	logger.Info("ROI distribution: %d active / %d dead, quartiles %.1f%% / %.1f%% / %.1f%%",
		dist.ActiveItems, dist.DeadItems, dist.ROIQ1, dist.ROIMedian, dist.ROIQ3)
	logger.Info("ROI bands: >100%%: %d, 50-100%%: %d, 10-50%%: %d, 0-10%%: %d, -25-0%%: %d, <-25%%: %d",
		dist.HighProfit, dist.GoodProfit, dist.ModestProfit, dist.BreakEven, dist.SmallLoss, dist.LargeLoss)

	for _, summary := range analysis.Summarize(items) {
		logger.Info("%s: %d entries (%d active, %d dead), median ROI %.2f%%",
			summary.Currency, summary.TotalEntries, summary.ActiveEntries,
			summary.DeadEntries, summary.ROIMedian)
	}
	logger.Info("Flagged %d never-worth entries, %d update-impacted items, %d extreme outliers",
		len(dead), len(impacts), len(suspect))
	if len(suspect) > 0 {
		for _, s := range suspect {
			logger.Warn("Suspect pricing for %s (%s): median %.0f, ROI %.0f%%",
				s.ItemName, s.Currency, s.MedianPrice, s.ROIMedian)
		}
	}

	report := export.BuildReport(agg, items, cfg.Analysis.AnalysisDays, time.Now())
	if err := export.WriteJSON(cfg.Export.ReportJSONPath, report); err != nil {
		logger.Fatal("Failed to write recommendations JSON: %v", err)
	}
	logger.Info("Recommendations JSON written to %s", cfg.Export.ReportJSONPath)

	if err := export.WriteDetailedCSV(cfg.Export.DetailedCSVPath, items); err != nil {
		logger.Fatal("Failed to write detailed CSV: %v", err)
	}
	logger.Info("Detailed CSV written to %s", cfg.Export.DetailedCSVPath)

	if cfg.Telegram.Enabled {
		client, err := notify.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, 3, time.Second)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		if err := client.SendDigest(recs, tops); err != nil {
			logger.Error("Failed to send Telegram digest: %v", err)
		} else {
			logger.Info("Telegram digest sent")
		}
	}

	logger.Info("Analysis complete: %d entries, %d safe bets, %d high risk, %d trending, %d avoid",
		len(items), len(recs.SafeBets), len(recs.HighRisk), len(recs.Undervalued), len(recs.Avoid))
}
