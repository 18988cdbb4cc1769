package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

func activeStats(id int, name string, roi float64) ItemStats {
	return ItemStats{
		ItemID:         id,
		ItemName:       name,
		Currency:       models.CurrencyShards,
		ShopCost:       100,
		MedianPrice:    100 + roi,
		ROIMedian:      roi,
		TradeCount:     30,
		BreakEvenProb:  80,
		LiquidityScore: 2,
		HasTrades:      true,
	}
}

func TestDeadItemsCriteria(t *testing.T) {
	noTrades := ItemStats{ItemID: 1, ItemName: "Blood idol", ShopCost: 500,
		ROIMedian: -100, AvgLossPct: -100, HasTrades: false}

	// Three trades, market max far below shop cost.
	priceFloor := ItemStats{ItemID: 2, ItemName: "Blood vial", ShopCost: 1000,
		MaxPrice: 400, TradeCount: 3, ROIMedian: -60, BreakEvenProb: 0, HasTrades: true}

	// Deep consistent loss with near-zero break-even but some break-even
	// probability above 5, landing in the softer category.
	deepLoss := ItemStats{ItemID: 3, ItemName: "Blood rune", ShopCost: 200,
		MaxPrice: 500, TradeCount: 8, ROIMedian: -40, BreakEvenProb: 8, HasTrades: true}

	healthy := activeStats(4, "Bloodchanting stone", 50)

	dead := DeadItems([]ItemStats{noTrades, priceFloor, deepLoss, healthy})

	assert.Len(t, dead, 3)
	byID := make(map[int]DeadItem)
	for _, d := range dead {
		byID[d.ItemID] = d
	}
	assert.Equal(t, CategoryDead, byID[1].Category)
	assert.Equal(t, CategoryExtremelyBad, byID[2].Category)
	assert.Equal(t, CategoryVeryBad, byID[3].Category)
	assert.NotContains(t, byID, 4)
}

func TestDeadItemsSeverityOrder(t *testing.T) {
	a := ItemStats{ItemID: 1, ItemName: "a", ShopCost: 100, ROIMedian: -100, AvgLossPct: -100}
	b := ItemStats{ItemID: 2, ItemName: "b", ShopCost: 9000, ROIMedian: -100, AvgLossPct: -100}

	dead := DeadItems([]ItemStats{a, b})
	assert.Len(t, dead, 2)
	// Same loss profile, so the pricier entry scores worse.
	assert.Equal(t, 2, dead[0].ItemID)
	assert.Greater(t, dead[0].SeverityScore, dead[1].SeverityScore)
}

func TestDeadItemSeverityFormula(t *testing.T) {
	s := ItemStats{ItemID: 1, ItemName: "Blood idol", ShopCost: 500,
		ROIMedian: -100, TrendOverall: 0, BreakEvenProb: 0}
	dead := DeadItems([]ItemStats{s})

	// 0.4*100 + 0.3*100 + 0.2*0 + 0.1*500 = 120.
	assert.Len(t, dead, 1)
	assert.InDelta(t, 120, dead[0].SeverityScore, 1e-9)
}

func TestDeadItemsFromAggregation(t *testing.T) {
	// Full pipeline: every market sale sits far below the shop cost.
	entry := models.ShopEntry{ItemID: 6, ItemName: "Blood trinket", Cost: 100, Currency: models.CurrencyShards}
	sample := trades(6, "Blood trinket", 30, 30, 30, 30, 30)

	agg := NewAggregator(testConfig(), sample, []models.ShopEntry{entry})
	dead := DeadItems(agg.Aggregate())

	assert.Len(t, dead, 1)
	assert.Equal(t, 6, dead[0].ItemID)
	assert.Equal(t, CategoryExtremelyBad, dead[0].Category)
	assert.InDelta(t, -70, dead[0].ROIMedian, 1e-9)
	assert.Zero(t, dead[0].BreakEvenProb)
}

func TestTopPerformers(t *testing.T) {
	items := []ItemStats{
		activeStats(1, "Blood vial", 10),
		activeStats(2, "Blood rune", 300),
		activeStats(3, "Bloodchanting stone", 80),
		{ItemID: 4, ItemName: "Blood idol", Currency: models.CurrencyShards, HasTrades: false, ROIMedian: -100},
		func() ItemStats {
			s := activeStats(5, "Blood sigil", 999)
			s.Currency = models.CurrencyTokens
			return s
		}(),
	}

	top := TopPerformers(items, models.CurrencyShards, 2)
	assert.Len(t, top, 2)
	assert.Equal(t, 2, top[0].ItemID)
	assert.Equal(t, 3, top[1].ItemID)
	for _, p := range top {
		assert.Equal(t, p.PerformanceScore(), p.Score)
	}
}

func TestDistributeBands(t *testing.T) {
	items := []ItemStats{
		activeStats(1, "a", 150),  // high profit
		activeStats(2, "b", 100),  // boundary: not > 100, good profit
		activeStats(3, "c", 50),   // good profit
		activeStats(4, "d", 10),   // modest profit
		activeStats(5, "e", 0),    // break even
		activeStats(6, "f", -10),  // small loss
		activeStats(7, "g", -25),  // boundary: small loss
		activeStats(8, "h", -60),  // large loss
		{ItemID: 9, ItemName: "i", HasTrades: false, ROIMedian: -100},
	}

	d := Distribute(items)
	assert.Equal(t, 9, d.TotalItems)
	assert.Equal(t, 8, d.ActiveItems)
	assert.Equal(t, 1, d.DeadItems)
	assert.Equal(t, 1, d.HighProfit)
	assert.Equal(t, 2, d.GoodProfit)
	assert.Equal(t, 1, d.ModestProfit)
	assert.Equal(t, 1, d.BreakEven)
	assert.Equal(t, 2, d.SmallLoss)
	assert.Equal(t, 1, d.LargeLoss)
	assert.InDelta(t, 5, d.ROIMedian, 1e-9, "median of the eight active ROIs")
}

func TestRecommendBuckets(t *testing.T) {
	safe := activeStats(1, "Bloodchanting stone", 150)
	safe.BreakEvenProb = 90
	safe.TradeCount = 40
	safe.VolatilityCV = 20

	risky := activeStats(2, "Blood sigil", 800)
	risky.TradeCount = 8
	risky.BreakEvenProb = 60
	risky.VolatilityCV = 120

	trending := activeStats(3, "Blood rune", 30)
	trending.TrendOverall = 25
	trending.TradeCount = 15

	loser := activeStats(4, "Blood vial", -40)
	loser.BreakEvenProb = 5

	recs := Recommend([]ItemStats{safe, risky, trending, loser})

	assert.Len(t, recs.SafeBets, 1)
	assert.Equal(t, 1, recs.SafeBets[0].ItemID)
	assert.Len(t, recs.HighRisk, 1)
	assert.Equal(t, 2, recs.HighRisk[0].ItemID)
	assert.Len(t, recs.Undervalued, 1)
	assert.Equal(t, 3, recs.Undervalued[0].ItemID)
	assert.Len(t, recs.Avoid, 1)
	assert.Equal(t, 4, recs.Avoid[0].ItemID)
}

func TestRecommendBucketsOverlap(t *testing.T) {
	// An entry can land in more than one bucket when it meets both criteria.
	both := activeStats(1, "Blood sigil", 900)
	both.BreakEvenProb = 90
	both.TradeCount = 40
	both.VolatilityCV = 10
	both.TrendOverall = 50

	recs := Recommend([]ItemStats{both})
	assert.Len(t, recs.SafeBets, 1)
	assert.Len(t, recs.HighRisk, 1)
	assert.Len(t, recs.Undervalued, 1)
	assert.Empty(t, recs.Avoid)
}

func TestRecommendAvoidSortAscending(t *testing.T) {
	worst := activeStats(1, "a", -90)
	worst.BreakEvenProb = 2
	mild := activeStats(2, "b", -20)
	mild.BreakEvenProb = 10

	recs := Recommend([]ItemStats{mild, worst})
	assert.Len(t, recs.Avoid, 2)
	assert.Equal(t, 1, recs.Avoid[0].ItemID, "deepest loss first")
}

func TestExtremeOutliers(t *testing.T) {
	plausible := activeStats(1, "Blood vial", 50)

	hugePrice := activeStats(2, "Blood throne", 10)
	hugePrice.MedianPrice = 25_000_000

	hugeROI := activeStats(3, "Blood speck", 250_000)

	deadHuge := ItemStats{ItemID: 4, ItemName: "x", MedianPrice: 99_000_000, HasTrades: false}

	suspect := ExtremeOutliers([]ItemStats{plausible, hugeROI, hugePrice, deadHuge})
	assert.Len(t, suspect, 2)
	assert.Equal(t, 2, suspect[0].ItemID, "sorted by median price descending")
	assert.Equal(t, 3, suspect[1].ItemID)
}
