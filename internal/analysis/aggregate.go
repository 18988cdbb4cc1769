package analysis

import (
	"sort"
	"time"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/stats"
)

// Config fixes the reference dates and tunables of an analysis run. The
// reference "now" and the update cutoff are injected here rather than read
// from the clock so tests and replays can pin arbitrary times.
type Config struct {
	Now           time.Time    // reference "now" for window and recency math
	AnalysisDays  int          // whole-period aggregation lookback
	UpdateCutoff  time.Time    // game-update date for impact comparison
	UpdateKeyword string       // item-name substring selecting impact candidates
	TopN          int          // top performers per currency
	Params        stats.Params // statistical core tunables
}

// Aggregator computes whole-period statistics for every shop entry and
// per-window analyses per entry. Trades and entries are loaded once up front;
// the analysis pass itself does no I/O and keeps no mutable state.
type Aggregator struct {
	cfg     Config
	entries []models.ShopEntry

	allByItem    map[int][]models.Trade // every known trade, for window analysis
	recentByItem map[int][]models.Trade // trades within the analysis period
	recentCount  int
}

// NewAggregator indexes the trade set for the given shop entries. Trades
// older than cfg.AnalysisDays before cfg.Now are excluded from whole-period
// aggregation but still feed the all-time window.
func NewAggregator(cfg Config, trades []models.Trade, entries []models.ShopEntry) *Aggregator {
	horizon := cfg.Now.AddDate(0, 0, -cfg.AnalysisDays)

	a := &Aggregator{
		cfg:          cfg,
		entries:      entries,
		allByItem:    make(map[int][]models.Trade),
		recentByItem: make(map[int][]models.Trade),
	}
	for _, t := range trades {
		a.allByItem[t.ItemID] = append(a.allByItem[t.ItemID], t)
		if !t.Time.Before(horizon) {
			a.recentByItem[t.ItemID] = append(a.recentByItem[t.ItemID], t)
			a.recentCount++
		}
	}
	return a
}

// Entries returns the shop entries under analysis, in catalog order.
func (a *Aggregator) Entries() []models.ShopEntry { return a.entries }

// RecentTradeCount reports how many trades fall within the analysis period.
func (a *Aggregator) RecentTradeCount() int { return a.recentCount }

// Aggregate computes the whole-period aggregate record for every shop entry,
// in catalog order. Entries whose item id has no trades in the analysis
// period get the dead-item sentinel.
func (a *Aggregator) Aggregate() []ItemStats {
	results := make([]ItemStats, 0, len(a.entries))
	for _, entry := range a.entries {
		results = append(results, a.aggregateEntry(entry))
	}
	return results
}

// AnalyzeWindows runs the per-window analyzer for one shop entry across the
// default windows, keyed by window name. Window selection draws on the full
// trade history, not just the aggregation period.
func (a *Aggregator) AnalyzeWindows(entry models.ShopEntry) map[string]WindowResult {
	itemTrades := a.allByItem[entry.ItemID]
	results := make(map[string]WindowResult, len(DefaultWindows()))
	for _, w := range DefaultWindows() {
		results[w.Name] = AnalyzeWindow(itemTrades, entry.Cost, w, a.cfg.Now, a.cfg.Params)
	}
	return results
}

func (a *Aggregator) aggregateEntry(entry models.ShopEntry) ItemStats {
	group, ok := a.recentByItem[entry.ItemID]
	if !ok || len(group) == 0 {
		return deadItemStats(entry)
	}

	clean := stats.FilterOutliers(group, a.cfg.Params.OutlierIQRMult)
	if len(clean) == 0 {
		clean = group
	}
	prices := stats.Prices(clean)

	avg := stats.Mean(prices)
	median := stats.Median(prices)
	std := stats.StdDev(prices)
	minPrice := stats.Min(prices)
	maxPrice := stats.Max(prices)

	cv := 0.0
	if avg > 0 {
		cv = std / avg * 100
	}

	byTime := make([]models.Trade, len(clean))
	copy(byTime, clean)
	sort.SliceStable(byTime, func(i, j int) bool { return byTime[i].Time.Before(byTime[j].Time) })

	overall, q1q2, q2q3, q3q4 := quarterTrend(byTime, avg)

	daysActive := stats.ActiveDays(byTime)
	liquidity := float64(len(group)) / float64(daysActive)

	profitable := 0
	totalVolume := 0
	var lossPrices []float64
	for _, t := range clean {
		totalVolume += t.Amount
		if t.Price > entry.Cost {
			profitable++
		}
		if t.Price < entry.Cost {
			lossPrices = append(lossPrices, t.Price)
		}
	}
	breakEven := float64(profitable) / float64(len(clean)) * 100

	avgLoss := 0.0
	if len(lossPrices) > 0 {
		avgLoss = roiPct(stats.Mean(lossPrices), entry.Cost)
	}

	return ItemStats{
		ItemID:          entry.ItemID,
		ItemName:        entry.ItemName,
		Currency:        entry.Currency,
		ShopCost:        entry.Cost,
		AvgPrice:        avg,
		MedianPrice:     median,
		StdPrice:        std,
		MinPrice:        minPrice,
		MaxPrice:        maxPrice,
		P25Price:        stats.Quantile(prices, 0.25),
		P75Price:        stats.Quantile(prices, 0.75),
		ROIAvg:          roiPct(avg, entry.Cost),
		ROIMedian:       roiPct(median, entry.Cost),
		ROIMin:          roiPct(minPrice, entry.Cost),
		ROIMax:          roiPct(maxPrice, entry.Cost),
		VolatilityCV:    cv,
		TrendOverall:    overall,
		TrendQ1Q2:       q1q2,
		TrendQ2Q3:       q2q3,
		TrendQ3Q4:       q3q4,
		TradeCount:      len(group),
		OutliersRemoved: len(group) - len(clean),
		TotalVolume:     totalVolume,
		LiquidityScore:  liquidity,
		DaysActive:      daysActive,
		BreakEvenProb:   breakEven,
		AvgLossPct:      avgLoss,
		HasTrades:       true,
	}
}

// quarterTrend splits the time-sorted sample into four contiguous chunks and
// reports the percentage change between consecutive chunk means plus the
// first-to-last change. Samples with fewer than four trades fall back to a
// two-half split: the overall trend becomes the half-to-half change and the
// per-quarter trends are 0. This small-sample fallback intentionally keeps
// the historical semantics even though it differs from the quarter split.
func quarterTrend(byTime []models.Trade, avgPrice float64) (overall, q1q2, q2q3, q3q4 float64) {
	n := len(byTime)
	meanOf := func(ts []models.Trade) float64 { return stats.Mean(stats.Prices(ts)) }

	if n >= 4 {
		quarter := n / 4
		m1 := meanOf(byTime[:quarter])
		m2 := meanOf(byTime[quarter : 2*quarter])
		m3 := meanOf(byTime[2*quarter : 3*quarter])
		m4 := meanOf(byTime[3*quarter:])
		return pctChange(m1, m4), pctChange(m1, m2), pctChange(m2, m3), pctChange(m3, m4)
	}

	half := n / 2
	first, second := avgPrice, avgPrice
	if half > 0 {
		first = meanOf(byTime[:half])
		second = meanOf(byTime[half:])
	}
	return pctChange(first, second), 0, 0, 0
}

// deadItemStats is the sentinel aggregate for a shop entry with no trades in
// the analysis period: a guaranteed 100% loss with zero market activity.
func deadItemStats(entry models.ShopEntry) ItemStats {
	return ItemStats{
		ItemID:     entry.ItemID,
		ItemName:   entry.ItemName,
		Currency:   entry.Currency,
		ShopCost:   entry.Cost,
		ROIAvg:     -100,
		ROIMedian:  -100,
		ROIMin:     -100,
		ROIMax:     -100,
		AvgLossPct: -100,
		HasTrades:  false,
	}
}
