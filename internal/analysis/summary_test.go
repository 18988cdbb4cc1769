package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

func TestSummarizeOrderAndCounts(t *testing.T) {
	shardWin := activeStats(1, "Bloodchanting stone", 60)
	shardWin.TotalVolume = 100
	shardFlat := activeStats(2, "Blood vial", 3)
	shardLoss := activeStats(3, "Blood rune", -30)
	shardDead := ItemStats{ItemID: 4, ItemName: "Blood idol",
		Currency: models.CurrencyShards, ROIMedian: -100, HasTrades: false}

	tokenWin := activeStats(5, "Blood sigil", 20)
	tokenWin.Currency = models.CurrencyTokens

	summaries := Summarize([]ItemStats{shardWin, shardFlat, shardLoss, shardDead, tokenWin})

	assert.Len(t, summaries, 2)
	assert.Equal(t, models.CurrencyShards, summaries[0].Currency, "Shards lead the report")
	assert.Equal(t, models.CurrencyTokens, summaries[1].Currency)

	shards := summaries[0]
	assert.Equal(t, 4, shards.TotalEntries)
	assert.Equal(t, 3, shards.ActiveEntries)
	assert.Equal(t, 1, shards.DeadEntries)
	assert.Equal(t, 2, shards.ProfitableEntries, "ROI 60 and 3")
	assert.Equal(t, 1, shards.UnprofitableEntries)
	assert.Equal(t, 1, shards.BreakEvenEntries, "ROI 3 counts as break even too")
	assert.InDelta(t, 3, shards.ROIMedian, 1e-9)
	assert.InDelta(t, 60, shards.BestROI, 1e-9)
	assert.InDelta(t, -30, shards.WorstROI, 1e-9)
	assert.Equal(t, 100, shards.TotalVolume)
	assert.Equal(t, 90, shards.TotalTrades, "three active entries at 30 trades each")

	tokens := summaries[1]
	assert.Equal(t, 1, tokens.TotalEntries)
	assert.InDelta(t, 20, tokens.ROIMedian, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	summaries := Summarize(nil)
	assert.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.Zero(t, s.TotalEntries)
		assert.Zero(t, s.ROIMedian)
		assert.Zero(t, s.TotalTrades)
	}
}
