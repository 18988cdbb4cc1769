package stats

import (
	"math"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

// Confidence scores how trustworthy a buy recommendation is, on a 0-100
// scale, from three additive factors:
//
//	sample size (max 40):  40 * (1 - e^(-count/50))
//	volatility  (max 30):  30 * e^(-cv/50), cv = stdev/mean * 100 (100 if mean <= 0)
//	liquidity   (max 30):  30 * (1 - e^(-tradesPerDay/2))
//
// Trades per day uses the whole days spanned by the sample's min/max
// timestamps, floored at 1 day. The sample is outlier-filtered first with
// fallback to the unfiltered sample. An empty sample scores 0.
func Confidence(trades []models.Trade, outlierIQRMult float64) float64 {
	if len(trades) == 0 {
		return 0
	}

	clean := filterWithFallback(trades, outlierIQRMult)
	prices := Prices(clean)

	sampleScore := 40 * (1 - math.Exp(-float64(len(clean))/50))

	mean := Mean(prices)
	cv := 100.0
	if mean > 0 {
		cv = StdDev(prices) / mean * 100
	}
	volatilityScore := 30 * math.Exp(-cv/50)

	days := ActiveDays(clean)
	tradesPerDay := float64(len(clean)) / float64(days)
	liquidityScore := 30 * (1 - math.Exp(-tradesPerDay/2))

	total := sampleScore + volatilityScore + liquidityScore
	return math.Min(100, math.Max(0, total))
}

// ActiveDays returns the number of whole days spanned by the sample's
// earliest and latest timestamps, with a floor of 1.
func ActiveDays(trades []models.Trade) int {
	if len(trades) == 0 {
		return 1
	}
	earliest, latest := trades[0].Time, trades[0].Time
	for _, t := range trades[1:] {
		if t.Time.Before(earliest) {
			earliest = t.Time
		}
		if t.Time.After(latest) {
			latest = t.Time
		}
	}
	days := int(latest.Sub(earliest).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
