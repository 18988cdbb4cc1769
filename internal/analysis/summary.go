package analysis

import (
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/stats"
)

// MarketSummary condenses the state of one currency's shop: how many entries
// trade at all, how ROI is spread across them, and overall market health.
type MarketSummary struct {
	Currency models.Currency `json:"currency_id"`

	TotalEntries  int `json:"total_entries"`
	ActiveEntries int `json:"active_entries"`
	DeadEntries   int `json:"dead_entries"`

	ROIQ1     float64 `json:"roi_q1"`
	ROIMedian float64 `json:"roi_median"`
	ROIQ3     float64 `json:"roi_q3"`
	BestROI   float64 `json:"best_roi"`
	WorstROI  float64 `json:"worst_roi"`

	ProfitableEntries   int `json:"profitable_entries"`   // median ROI > 0
	BreakEvenEntries    int `json:"break_even_entries"`   // median ROI in [-5, 5]
	UnprofitableEntries int `json:"unprofitable_entries"` // median ROI < -5

	MedianVolatility float64 `json:"median_volatility"`
	MedianLiquidity  float64 `json:"median_liquidity"`
	TotalVolume      int     `json:"total_volume"`
	TotalTrades      int     `json:"total_trades"`
}

// Summarize builds a MarketSummary per currency from the aggregate records,
// in report order (Shards first).
func Summarize(items []ItemStats) []MarketSummary {
	summaries := make([]MarketSummary, 0, 2)
	for _, currency := range models.Currencies() {
		summaries = append(summaries, summarizeCurrency(items, currency))
	}
	return summaries
}

func summarizeCurrency(items []ItemStats, currency models.Currency) MarketSummary {
	s := MarketSummary{Currency: currency}

	var rois, cvs, liquidities []float64
	for _, it := range items {
		if it.Currency != currency {
			continue
		}
		s.TotalEntries++
		if !it.HasTrades {
			s.DeadEntries++
			continue
		}
		s.ActiveEntries++
		rois = append(rois, it.ROIMedian)
		cvs = append(cvs, it.VolatilityCV)
		liquidities = append(liquidities, it.LiquidityScore)
		s.TotalVolume += it.TotalVolume
		s.TotalTrades += it.TradeCount

		switch {
		case it.ROIMedian > 0:
			s.ProfitableEntries++
		case it.ROIMedian < -5:
			s.UnprofitableEntries++
		}
		if it.ROIMedian >= -5 && it.ROIMedian <= 5 {
			s.BreakEvenEntries++
		}
	}

	s.ROIQ1 = stats.Quantile(rois, 0.25)
	s.ROIMedian = stats.Median(rois)
	s.ROIQ3 = stats.Quantile(rois, 0.75)
	s.BestROI = stats.Max(rois)
	s.WorstROI = stats.Min(rois)
	s.MedianVolatility = stats.Median(cvs)
	s.MedianLiquidity = stats.Median(liquidities)
	return s
}
