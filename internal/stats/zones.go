package stats

import "github.com/Kalfaka/bloodchanting-arbitrage/internal/models"

// Zones holds the five purchase-zone price thresholds for an item. They are
// non-decreasing under normal quartile behavior; when every price is equal
// (IQR = 0) all five collapse to that single price, which is correct.
type Zones struct {
	Excellent  float64 `json:"excellent"`  // at or below Q1
	Good       float64 `json:"good"`       // below median - offset*IQR
	Fair       float64 `json:"fair"`       // below median + offset*IQR
	Overpriced float64 `json:"overpriced"` // above Q3
	Avoid      float64 `json:"avoid"`      // above Q3 + avoid offset*IQR
}

// PurchaseZones derives the zone thresholds from a trade sample. The sample
// is outlier-filtered first (falling back to the unfiltered sample when the
// filter removes everything); an empty sample yields all-zero thresholds.
func PurchaseZones(trades []models.Trade, p Params) Zones {
	if len(trades) == 0 {
		return Zones{}
	}

	clean := filterWithFallback(trades, p.OutlierIQRMult)
	prices := Prices(clean)
	q1 := Quantile(prices, 0.25)
	q2 := Quantile(prices, 0.50)
	q3 := Quantile(prices, 0.75)
	iqr := q3 - q1

	return Zones{
		Excellent:  q1,
		Good:       q2 - p.ZoneIQROffset*iqr,
		Fair:       q2 + p.ZoneIQROffset*iqr,
		Overpriced: q3,
		Avoid:      q3 + p.AvoidIQROffset*iqr,
	}
}
