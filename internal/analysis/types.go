// Package analysis implements the per-window item analyzer, the whole-period
// ROI aggregator, and the classifier suite built on top of the aggregate
// records (dead items, top performers, ROI distribution, recommendation
// buckets, game-update impact).
//
// All analyses are pure functions over immutable inputs: given the same
// trades, shop entry, window, and reference time they always produce the same
// result. Degenerate inputs resolve to explicit sentinel records, never to
// errors or NaN, so report writers can consume results without special cases.
package analysis

import (
	"time"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/stats"
)

// Window names a lookback period relative to the reference time. All is true
// for the unbounded all-time window.
type Window struct {
	Name     string
	Duration time.Duration
	All      bool
}

// DefaultWindows returns the standard analysis windows in display order.
func DefaultWindows() []Window {
	return []Window{
		{Name: "1h", Duration: time.Hour},
		{Name: "24h", Duration: 24 * time.Hour},
		{Name: "7d", Duration: 7 * 24 * time.Hour},
		{Name: "30d", Duration: 30 * 24 * time.Hour},
		{Name: "all", All: true},
	}
}

// WindowNames returns the names of the default windows.
func WindowNames() []string {
	windows := DefaultWindows()
	names := make([]string, len(windows))
	for i, w := range windows {
		names[i] = w.Name
	}
	return names
}

// NoDataRecommendation is the sentinel label for a window with no trades.
const NoDataRecommendation = "NO DATA"

// WindowResult is the analysis of one shop entry over one time window. When
// HasData is false every numeric field holds its defined sentinel (0 prices,
// -100 ROI) so the record can flow to consumers unchanged.
type WindowResult struct {
	HasData        bool        `json:"has_data"`
	TradeCount     int         `json:"trades"`
	MedianPrice    float64     `json:"median_price"`
	WeightedMedian float64     `json:"weighted_median"`
	ROI            float64     `json:"roi"`
	Recommendation string      `json:"recommendation"`
	Confidence     float64     `json:"confidence"`
	Zones          stats.Zones `json:"zones"`
	Q1             float64     `json:"q1"`
	Q3             float64     `json:"q3"`
	MinPrice       float64     `json:"min_price"`
	MaxPrice       float64     `json:"max_price"`
}

// ItemStats is the whole-period aggregate record for one shop entry. A shop
// entry with no matching trades gets the dead-item sentinel: HasTrades false,
// every ROI variant -100, zero volume, AvgLossPct -100.
type ItemStats struct {
	ItemID   int             `json:"item_id"`
	ItemName string          `json:"item_name"`
	Currency models.Currency `json:"currency_id"`
	ShopCost float64         `json:"shop_cost"`

	AvgPrice    float64 `json:"avg_price"`
	MedianPrice float64 `json:"median_price"`
	StdPrice    float64 `json:"std_price"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	P25Price    float64 `json:"p25_price"`
	P75Price    float64 `json:"p75_price"`

	ROIAvg    float64 `json:"roi_avg"`
	ROIMedian float64 `json:"roi_median"`
	ROIMin    float64 `json:"roi_min"`
	ROIMax    float64 `json:"roi_max"`

	VolatilityCV float64 `json:"volatility_cv"`
	TrendOverall float64 `json:"price_trend_overall"`
	TrendQ1Q2    float64 `json:"price_trend_q1_q2"`
	TrendQ2Q3    float64 `json:"price_trend_q2_q3"`
	TrendQ3Q4    float64 `json:"price_trend_q3_q4"`

	TradeCount      int     `json:"trade_count"`
	OutliersRemoved int     `json:"outliers_removed"`
	TotalVolume     int     `json:"total_volume"`
	LiquidityScore  float64 `json:"liquidity_score"`
	DaysActive      int     `json:"days_active"`
	BreakEvenProb   float64 `json:"break_even_probability"`
	AvgLossPct      float64 `json:"avg_loss_pct"`
	HasTrades       bool    `json:"has_trades"`
}

// PerformanceScore combines median ROI, reliability, liquidity, trend, and a
// volatility penalty into the single score used to rank entries:
//
//	0.35*roiMedian + 0.25*breakEven + 5*liquidity + 0.1*trend - 0.05*cv
func (s ItemStats) PerformanceScore() float64 {
	return s.ROIMedian*0.35 +
		s.BreakEvenProb*0.25 +
		s.LiquidityScore*5 +
		s.TrendOverall*0.1 -
		s.VolatilityCV*0.05
}

// roiPct returns (price-cost)/cost*100, or -100 when cost is not positive so
// a zero-cost entry can never divide by zero.
func roiPct(price, cost float64) float64 {
	if cost <= 0 {
		return -100
	}
	return (price - cost) / cost * 100
}

// pctChange returns (to-from)/from*100, or 0 when from is not positive.
func pctChange(from, to float64) float64 {
	if from <= 0 {
		return 0
	}
	return (to - from) / from * 100
}
