package analysis

import (
	"fmt"
	"time"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/stats"
)

// AnalyzeWindow analyzes one shop entry over one time window. itemTrades
// must contain every known trade for the item (any order); the window cutoff
// is applied here relative to now. A window with no trades yields the NO DATA
// sentinel result.
func AnalyzeWindow(itemTrades []models.Trade, shopCost float64, w Window, now time.Time, p stats.Params) WindowResult {
	var selected []models.Trade
	if w.All {
		selected = itemTrades
	} else {
		cutoff := now.Add(-w.Duration)
		for _, t := range itemTrades {
			if !t.Time.Before(cutoff) {
				selected = append(selected, t)
			}
		}
	}

	if len(selected) == 0 {
		return WindowResult{
			HasData:        false,
			ROI:            -100,
			Recommendation: NoDataRecommendation,
		}
	}

	clean := stats.FilterOutliers(selected, p.OutlierIQRMult)
	if len(clean) == 0 {
		clean = selected
	}

	prices := stats.Prices(clean)
	median := stats.Median(prices)
	weighted := stats.WeightedMedian(clean, p.Alpha)
	roi := roiPct(weighted, shopCost)
	zones := stats.PurchaseZones(clean, p)
	confidence := stats.Confidence(clean, p.OutlierIQRMult)

	return WindowResult{
		HasData:        true,
		TradeCount:     len(selected),
		MedianPrice:    median,
		WeightedMedian: weighted,
		ROI:            roi,
		Recommendation: recommend(roi, weighted, zones),
		Confidence:     confidence,
		Zones:          zones,
		Q1:             stats.Quantile(prices, 0.25),
		Q3:             stats.Quantile(prices, 0.75),
		MinPrice:       stats.Min(prices),
		MaxPrice:       stats.Max(prices),
	}
}

// recommend derives the purchase recommendation by ordered rule evaluation;
// the first matching rule wins.
func recommend(roi, weightedMedian float64, zones stats.Zones) string {
	switch {
	case roi < -15:
		return fmt.Sprintf("AVOID - Loss %.1f%%", roi)
	case roi < 0:
		return "MARGINAL - Break even difficult"
	case weightedMedian <= zones.Excellent:
		return fmt.Sprintf("BUY NOW - Excellent price (< %.0f)", zones.Excellent)
	case weightedMedian <= zones.Good:
		return fmt.Sprintf("BUY if < %.0f", zones.Good)
	case weightedMedian <= zones.Fair:
		return fmt.Sprintf("FAIR if < %.0f", zones.Fair)
	default:
		return fmt.Sprintf("WAIT - Overpriced (fair < %.0f)", zones.Fair)
	}
}
