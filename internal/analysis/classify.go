package analysis

import (
	"math"
	"sort"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/stats"
)

// Dead-item category labels, worst first.
const (
	CategoryDead         = "DEAD"
	CategoryExtremelyBad = "EXTREMELY BAD"
	CategoryVeryBad      = "VERY BAD"
)

// DeadItem is a shop entry flagged as never worth buying, with a severity
// score for ranking and a category label for reporting.
type DeadItem struct {
	ItemStats
	SeverityScore float64 `json:"severity_score"`
	Category      string  `json:"category"`
}

// DeadItems flags entries that are never worth buying: no trades at all, or
// enough trades to prove the market price never approaches the shop cost, or
// a consistently deep loss with near-zero break-even probability. The result
// is sorted by severity, worst first.
func DeadItems(items []ItemStats) []DeadItem {
	var flagged []DeadItem
	for _, s := range items {
		neverWorth := !s.HasTrades ||
			(s.TradeCount >= 3 && s.MaxPrice < s.ShopCost*0.75) ||
			(s.TradeCount >= 5 && s.ROIMedian < -25 && s.BreakEvenProb < 10)
		if !neverWorth {
			continue
		}

		severity := math.Abs(s.ROIMedian)*0.4 +
			(100-s.BreakEvenProb)*0.3 +
			math.Abs(s.TrendOverall)*0.2 +
			s.ShopCost*0.1

		category := CategoryDead
		if s.HasTrades {
			category = CategoryExtremelyBad
			if s.BreakEvenProb > 5 {
				category = CategoryVeryBad
			}
		}

		flagged = append(flagged, DeadItem{ItemStats: s, SeverityScore: severity, Category: category})
	}

	sort.SliceStable(flagged, func(i, j int) bool {
		return flagged[i].SeverityScore > flagged[j].SeverityScore
	})
	return flagged
}

// Performer pairs an aggregate record with its performance score.
type Performer struct {
	ItemStats
	Score float64 `json:"performance_score"`
}

// TopPerformers ranks the active entries of one currency by performance
// score and returns the best topN.
func TopPerformers(items []ItemStats, currency models.Currency, topN int) []Performer {
	var active []Performer
	for _, s := range items {
		if s.Currency == currency && s.HasTrades {
			active = append(active, Performer{ItemStats: s, Score: s.PerformanceScore()})
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Score > active[j].Score })
	if len(active) > topN {
		active = active[:topN]
	}
	return active
}

// Distribution summarizes how median ROI is spread across a set of shop
// entries: active/dead split, ROI quartiles over the active entries, and
// counts across six fixed ROI bands.
type Distribution struct {
	TotalItems  int `json:"total_items"`
	ActiveItems int `json:"active_items"`
	DeadItems   int `json:"dead_items"`

	ROIQ1     float64 `json:"roi_q1"`
	ROIMedian float64 `json:"roi_median"`
	ROIQ3     float64 `json:"roi_q3"`

	HighProfit   int `json:"high_profit"`   // > 100% ROI
	GoodProfit   int `json:"good_profit"`   // 50-100% ROI
	ModestProfit int `json:"modest_profit"` // 10-50% ROI
	BreakEven    int `json:"break_even"`    // 0-10% ROI
	SmallLoss    int `json:"small_loss"`    // -25-0% ROI
	LargeLoss    int `json:"large_loss"`    // < -25% ROI
}

// Distribute computes the ROI distribution over the given entries. Dead
// entries count toward the totals but not the quartiles or bands.
func Distribute(items []ItemStats) Distribution {
	d := Distribution{TotalItems: len(items)}

	var activeROIs []float64
	for _, s := range items {
		if !s.HasTrades {
			d.DeadItems++
			continue
		}
		d.ActiveItems++
		roi := s.ROIMedian
		activeROIs = append(activeROIs, roi)

		switch {
		case roi > 100:
			d.HighProfit++
		case roi >= 50:
			d.GoodProfit++
		case roi >= 10:
			d.ModestProfit++
		case roi >= 0:
			d.BreakEven++
		case roi >= -25:
			d.SmallLoss++
		default:
			d.LargeLoss++
		}
	}

	d.ROIQ1 = stats.Quantile(activeROIs, 0.25)
	d.ROIMedian = stats.Quantile(activeROIs, 0.50)
	d.ROIQ3 = stats.Quantile(activeROIs, 0.75)
	return d
}

// Recommendations buckets the active entries into actionable groups, all
// derived from the same aggregate records.
type Recommendations struct {
	SafeBets    []Performer `json:"safe_bets"`
	HighRisk    []Performer `json:"high_risk_high_reward"`
	Undervalued []Performer `json:"undervalued_trending"`
	Avoid       []Performer `json:"avoid"`
}

// Recommend derives the four investment buckets: safe bets (high ROI with
// proven reliability and low volatility), high risk/high reward (extreme ROI
// on thinner evidence), undervalued trending (profitable and climbing), and
// avoid (consistent losers). Bucket-specific sort keys match what each bucket
// optimizes for.
func Recommend(items []ItemStats) Recommendations {
	var active []Performer
	for _, s := range items {
		if s.HasTrades {
			active = append(active, Performer{ItemStats: s, Score: s.PerformanceScore()})
		}
	}

	var safe, highRisk, undervalued, avoid []Performer
	for _, p := range active {
		if p.ROIMedian > 100 && p.BreakEvenProb > 75 && p.TradeCount > 20 && p.VolatilityCV < 40 {
			safe = append(safe, p)
		}
		if p.ROIMedian > 500 && p.TradeCount > 5 {
			highRisk = append(highRisk, p)
		}
		if p.ROIMedian > 0 && p.TrendOverall > 10 && p.TradeCount > 10 {
			undervalued = append(undervalued, p)
		}
		if p.ROIMedian < -15 || p.BreakEvenProb < 25 {
			avoid = append(avoid, p)
		}
	}

	sort.SliceStable(safe, func(i, j int) bool { return safe[i].Score > safe[j].Score })
	sort.SliceStable(highRisk, func(i, j int) bool { return highRisk[i].ROIMedian > highRisk[j].ROIMedian })
	sort.SliceStable(undervalued, func(i, j int) bool { return undervalued[i].TrendOverall > undervalued[j].TrendOverall })
	sort.SliceStable(avoid, func(i, j int) bool { return avoid[i].ROIMedian < avoid[j].ROIMedian })

	return Recommendations{
		SafeBets:    capList(safe, 10),
		HighRisk:    capList(highRisk, 10),
		Undervalued: capList(undervalued, 10),
		Avoid:       avoid,
	}
}

func capList(list []Performer, n int) []Performer {
	if len(list) > n {
		return list[:n]
	}
	return list
}

// Extreme-value flags for data that looks like an error or market
// manipulation rather than a genuine price.
const (
	extremeMedianPrice = 10_000_000
	extremeMedianROI   = 100_000
)

// ExtremeOutliers flags active entries with implausibly high median prices
// or ROI, sorted by median price descending.
func ExtremeOutliers(items []ItemStats) []ItemStats {
	var suspect []ItemStats
	for _, s := range items {
		if s.HasTrades && (s.MedianPrice > extremeMedianPrice || s.ROIMedian > extremeMedianROI) {
			suspect = append(suspect, s)
		}
	}
	sort.SliceStable(suspect, func(i, j int) bool {
		return suspect[i].MedianPrice > suspect[j].MedianPrice
	})
	return suspect
}
