package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/analysis"
)

// detailedHeader lists the CSV columns in output order.
var detailedHeader = []string{
	"item_id", "item_name", "currency", "shop_cost",
	"avg_price", "median_price", "std_price", "min_price", "max_price",
	"p25_price", "p75_price",
	"roi_avg", "roi_median", "roi_min", "roi_max",
	"volatility_cv",
	"price_trend_overall", "price_trend_q1_q2", "price_trend_q2_q3", "price_trend_q3_q4",
	"trade_count", "outliers_removed", "total_volume",
	"liquidity_score", "days_active",
	"break_even_probability", "avg_loss_pct",
	"has_trades", "performance_score",
}

// WriteDetailedCSV exports every aggregate record with its performance score,
// sorted by currency then score descending.
func WriteDetailedCSV(path string, items []analysis.ItemStats) error {
	rows := make([]analysis.ItemStats, len(items))
	copy(rows, items)
	sort.SliceStable(rows, func(i, j int) bool {
		ci, cj := rows[i].Currency.String(), rows[j].Currency.String()
		if ci != cj {
			return ci < cj
		}
		return rows[i].PerformanceScore() > rows[j].PerformanceScore()
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(detailedHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, s := range rows {
		record := []string{
			strconv.Itoa(s.ItemID),
			s.ItemName,
			s.Currency.String(),
			formatFloat(s.ShopCost),
			formatFloat(s.AvgPrice),
			formatFloat(s.MedianPrice),
			formatFloat(s.StdPrice),
			formatFloat(s.MinPrice),
			formatFloat(s.MaxPrice),
			formatFloat(s.P25Price),
			formatFloat(s.P75Price),
			formatFloat(s.ROIAvg),
			formatFloat(s.ROIMedian),
			formatFloat(s.ROIMin),
			formatFloat(s.ROIMax),
			formatFloat(s.VolatilityCV),
			formatFloat(s.TrendOverall),
			formatFloat(s.TrendQ1Q2),
			formatFloat(s.TrendQ2Q3),
			formatFloat(s.TrendQ3Q4),
			strconv.Itoa(s.TradeCount),
			strconv.Itoa(s.OutliersRemoved),
			strconv.Itoa(s.TotalVolume),
			formatFloat(s.LiquidityScore),
			strconv.Itoa(s.DaysActive),
			formatFloat(s.BreakEvenProb),
			formatFloat(s.AvgLossPct),
			strconv.FormatBool(s.HasTrades),
			formatFloat(s.PerformanceScore()),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for item %d: %w", s.ItemID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
