// Package export writes the analysis results to their external sinks: the
// recommendations JSON consumed by the frontend and the detailed CSV used for
// offline inspection.
package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/analysis"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

// topPerformerDigestSize bounds the per-currency digest list in the report.
const topPerformerDigestSize = 20

// Report is the frontend-facing recommendations document.
type Report struct {
	Metadata      ReportMetadata            `json:"metadata"`
	Currencies    map[string]CurrencyBlock  `json:"currencies"`
	TopPerformers map[string][]TopPerformer `json:"top_performers"`
}

// ReportMetadata identifies one analysis run.
type ReportMetadata struct {
	ReportID           string    `json:"report_id"`
	GeneratedAt        time.Time `json:"generated_at"`
	AnalysisPeriodDays int       `json:"analysis_period_days"`
	TotalItems         int       `json:"total_items"`
	ActiveItems        int       `json:"active_items"`
	TimeWindows        []string  `json:"time_windows"`
}

// CurrencyBlock groups one currency's items, best performers first.
type CurrencyBlock struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Items []ItemReport `json:"items"`
}

// ItemReport is one shop entry's full analysis: overall statistics plus every
// time-window result.
type ItemReport struct {
	ItemID           int                              `json:"item_id"`
	Name             string                           `json:"name"`
	ShopCost         float64                          `json:"shop_cost"`
	HasTrades        bool                             `json:"has_trades"`
	PerformanceScore float64                          `json:"performance_score"`
	OverallStats     OverallStats                     `json:"overall_stats"`
	TimeWindows      map[string]analysis.WindowResult `json:"time_windows"`
}

// OverallStats is the condensed whole-period view of one entry.
type OverallStats struct {
	ROIMedian   float64 `json:"roi_median"`
	Volatility  float64 `json:"volatility"`
	Liquidity   float64 `json:"liquidity"`
	Trend       float64 `json:"trend"`
	Reliability float64 `json:"reliability"`
	TotalTrades int     `json:"total_trades"`
}

// TopPerformer is the digest row for the per-currency best performers.
type TopPerformer struct {
	ItemID           int     `json:"item_id"`
	Name             string  `json:"name"`
	ShopCost         float64 `json:"shop_cost"`
	ROI              float64 `json:"roi"`
	Confidence7d     float64 `json:"confidence_7d"`
	Recommendation7d string  `json:"recommendation_7d"`
}

// BuildReport assembles the recommendations report from the aggregate
// records. items must be in the aggregator's catalog order. Window analyses
// are computed per entry; numeric fields are rounded for presentation.
func BuildReport(agg *analysis.Aggregator, items []analysis.ItemStats, analysisDays int, generatedAt time.Time) *Report {
	entries := agg.Entries()

	report := &Report{
		Metadata: ReportMetadata{
			ReportID:           uuid.New().String(),
			GeneratedAt:        generatedAt,
			AnalysisPeriodDays: analysisDays,
			TotalItems:         len(items),
			TimeWindows:        analysis.WindowNames(),
		},
		Currencies:    make(map[string]CurrencyBlock),
		TopPerformers: make(map[string][]TopPerformer),
	}

	for _, currency := range models.Currencies() {
		report.Currencies[currency.String()] = CurrencyBlock{
			ID:   int(currency),
			Name: currency.String(),
		}
	}

	for i, entry := range entries {
		s := items[i]
		if s.HasTrades {
			report.Metadata.ActiveItems++
		}

		windows := agg.AnalyzeWindows(entry)
		rounded := make(map[string]analysis.WindowResult, len(windows))
		for name, w := range windows {
			rounded[name] = roundWindow(w)
		}

		score := 0.0
		if s.HasTrades {
			score = s.PerformanceScore()
		}

		item := ItemReport{
			ItemID:           s.ItemID,
			Name:             s.ItemName,
			ShopCost:         s.ShopCost,
			HasTrades:        s.HasTrades,
			PerformanceScore: round2(score),
			OverallStats: OverallStats{
				ROIMedian:   round2(s.ROIMedian),
				Volatility:  round2(s.VolatilityCV),
				Liquidity:   round2(s.LiquidityScore),
				Trend:       round2(s.TrendOverall),
				Reliability: round2(s.BreakEvenProb),
				TotalTrades: s.TradeCount,
			},
			TimeWindows: rounded,
		}

		block := report.Currencies[entry.Currency.String()]
		block.Items = append(block.Items, item)
		report.Currencies[entry.Currency.String()] = block
	}

	for name, block := range report.Currencies {
		sort.SliceStable(block.Items, func(i, j int) bool {
			return block.Items[i].PerformanceScore > block.Items[j].PerformanceScore
		})
		report.Currencies[name] = block

		var digest []TopPerformer
		for _, item := range block.Items {
			if len(digest) == topPerformerDigestSize {
				break
			}
			if !item.HasTrades {
				continue
			}
			sevenDay := item.TimeWindows["7d"]
			digest = append(digest, TopPerformer{
				ItemID:           item.ItemID,
				Name:             item.Name,
				ShopCost:         item.ShopCost,
				ROI:              item.OverallStats.ROIMedian,
				Confidence7d:     sevenDay.Confidence,
				Recommendation7d: sevenDay.Recommendation,
			})
		}
		report.TopPerformers[name] = digest
	}

	return report
}

// WriteJSON writes the report to path, creating parent directories as needed.
func WriteJSON(path string, report *Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func roundWindow(w analysis.WindowResult) analysis.WindowResult {
	w.MedianPrice = round2(w.MedianPrice)
	w.WeightedMedian = round2(w.WeightedMedian)
	w.ROI = round2(w.ROI)
	w.Confidence = round1(w.Confidence)
	w.Zones.Excellent = round2(w.Zones.Excellent)
	w.Zones.Good = round2(w.Zones.Good)
	w.Zones.Fair = round2(w.Zones.Fair)
	w.Zones.Overpriced = round2(w.Zones.Overpriced)
	w.Zones.Avoid = round2(w.Zones.Avoid)
	w.Q1 = round2(w.Q1)
	w.Q3 = round2(w.Q3)
	w.MinPrice = round2(w.MinPrice)
	w.MaxPrice = round2(w.MaxPrice)
	return w
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
