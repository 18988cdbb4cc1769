package stats

import (
	"math"
	"sort"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

// WeightedMedian computes the exponentially recency-weighted median price of
// a trade sample. The most recent trade gets weight 1 and each older trade
// decays by (1-alpha); weights are normalized and the weighted median is the
// price at which cumulative weight first reaches 0.5.
//
// Compared to a plain median this biases toward recent trades, which matters
// because the market can shift sharply after a game balance update.
// An empty sample yields 0.
func WeightedMedian(trades []models.Trade, alpha float64) float64 {
	if len(trades) == 0 {
		return 0
	}

	byTime := make([]models.Trade, len(trades))
	copy(byTime, trades)
	sort.SliceStable(byTime, func(i, j int) bool {
		return byTime[i].Time.Before(byTime[j].Time)
	})

	n := len(byTime)
	type weighted struct {
		price  float64
		weight float64
	}
	pairs := make([]weighted, n)
	var total float64
	for i, t := range byTime {
		w := math.Pow(1-alpha, float64(n-1-i))
		pairs[i] = weighted{price: t.Price, weight: w}
		total += w
	}
	for i := range pairs {
		pairs[i].weight /= total
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].price < pairs[j].price
	})

	var cumulative float64
	for _, p := range pairs {
		cumulative += p.weight
		if cumulative >= 0.5 {
			return p.price
		}
	}
	// Floating point accumulation can leave the total a hair under 0.5.
	return pairs[len(pairs)-1].price
}
