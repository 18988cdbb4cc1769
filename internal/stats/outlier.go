package stats

import "github.com/Kalfaka/bloodchanting-arbitrage/internal/models"

// FilterOutliers removes trades whose price falls outside
// [Q1 - mult*IQR, Q3 + mult*IQR], preserving the original order of the
// remaining trades. An empty sample is returned unchanged. The result can be
// empty when every price is outside the range; callers fall back to the
// unfiltered sample in that case.
func FilterOutliers(trades []models.Trade, mult float64) []models.Trade {
	if len(trades) == 0 {
		return trades
	}

	prices := Prices(trades)
	q1 := Quantile(prices, 0.25)
	q3 := Quantile(prices, 0.75)
	iqr := q3 - q1
	lower := q1 - mult*iqr
	upper := q3 + mult*iqr

	filtered := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Price >= lower && t.Price <= upper {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// filterWithFallback applies FilterOutliers but returns the original sample
// when filtering would leave nothing to work with.
func filterWithFallback(trades []models.Trade, mult float64) []models.Trade {
	clean := FilterOutliers(trades, mult)
	if len(clean) == 0 {
		return trades
	}
	return clean
}
