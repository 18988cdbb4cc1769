package analysis

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
	"github.com/Kalfaka/bloodchanting-arbitrage/internal/stats"
)

// Profitability transition labels for the update-impact comparison.
const (
	NowProfitable      = "NOW PROFITABLE"
	NoLongerProfitable = "NO LONGER PROFITABLE"
	StillProfitable    = "STILL PROFITABLE"
	StillUnprofitable  = "STILL UNPROFITABLE"
)

// Impact significance labels by absolute price change.
const (
	SignificanceHigh   = "HIGH"   // |change| > 20%
	SignificanceMedium = "MEDIUM" // |change| > 10%
	SignificanceLow    = "LOW"
)

// UpdateImpact compares one item's market before and after the game update.
type UpdateImpact struct {
	ItemID   int    `json:"item_id"`
	ItemName string `json:"item_name"`

	HasShopEntry bool            `json:"has_shop_entry"`
	ShopCost     float64         `json:"shop_cost"`
	Currency     models.Currency `json:"currency_id"`

	PreAvgPrice     float64 `json:"pre_update_avg_price"`
	PostAvgPrice    float64 `json:"post_update_avg_price"`
	PriceChangePct  float64 `json:"price_change_pct"`
	PreTrades       int     `json:"pre_update_trades"`
	PostTrades      int     `json:"post_update_trades"`
	VolumeChangePct float64 `json:"volume_change_pct"`
	Profitability   string  `json:"profitability_status"`
	Significance    string  `json:"significance"`
}

// UpdateImpacts measures how the game update shifted prices and volume for
// items whose name contains the configured keyword. Only items with trades on
// both sides of the cutoff are compared: price change from outlier-filtered
// means, volume change from unfiltered per-day amounts. Results are sorted by
// price change, biggest gainers first.
func (a *Aggregator) UpdateImpacts() []UpdateImpact {
	keyword := strings.ToLower(a.cfg.UpdateKeyword)
	if keyword == "" {
		return nil
	}

	type key struct {
		id   int
		name string
	}
	groups := make(map[key][]models.Trade)
	for id, trades := range a.recentByItem {
		for _, t := range trades {
			if strings.Contains(strings.ToLower(t.ItemName), keyword) {
				k := key{id: id, name: t.ItemName}
				groups[k] = append(groups[k], t)
			}
		}
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].id != keys[j].id {
			return keys[i].id < keys[j].id
		}
		return keys[i].name < keys[j].name
	})

	var results []UpdateImpact
	for _, k := range keys {
		if impact, ok := a.compareAroundUpdate(k.id, k.name, groups[k]); ok {
			results = append(results, impact)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].PriceChangePct > results[j].PriceChangePct
	})
	return results
}

func (a *Aggregator) compareAroundUpdate(itemID int, itemName string, trades []models.Trade) (UpdateImpact, bool) {
	cutoff := a.cfg.UpdateCutoff

	var pre, post []models.Trade
	for _, t := range trades {
		if t.Time.Before(cutoff) {
			pre = append(pre, t)
		} else {
			post = append(post, t)
		}
	}
	if len(pre) == 0 || len(post) == 0 {
		return UpdateImpact{}, false
	}

	preClean := stats.FilterOutliers(pre, a.cfg.Params.OutlierIQRMult)
	if len(preClean) == 0 {
		preClean = pre
	}
	postClean := stats.FilterOutliers(post, a.cfg.Params.OutlierIQRMult)
	if len(postClean) == 0 {
		postClean = post
	}

	preAvg := stats.Mean(stats.Prices(preClean))
	postAvg := stats.Mean(stats.Prices(postClean))
	priceChange := pctChange(preAvg, postAvg)

	preDays := wholeDaysFloor(cutoff.Sub(earliestTime(pre)))
	postDays := wholeDaysFloor(latestTime(post).Sub(cutoff))
	preVolume := float64(sumAmounts(pre)) / float64(preDays)
	postVolume := float64(sumAmounts(post)) / float64(postDays)
	volumeChange := pctChange(preVolume, postVolume)

	impact := UpdateImpact{
		ItemID:          itemID,
		ItemName:        itemName,
		PreAvgPrice:     preAvg,
		PostAvgPrice:    postAvg,
		PriceChangePct:  priceChange,
		PreTrades:       len(pre),
		PostTrades:      len(post),
		VolumeChangePct: volumeChange,
		Profitability:   "N/A",
		Significance:    significance(priceChange),
	}

	// The first catalog entry for the item (shard shop first) decides the
	// cost used for the profitability transition, mirroring the report view.
	for _, entry := range a.entries {
		if entry.ItemID == itemID {
			impact.HasShopEntry = true
			impact.ShopCost = entry.Cost
			impact.Currency = entry.Currency
			impact.Profitability = profitabilityTransition(preAvg, postAvg, entry.Cost)
			break
		}
	}

	return impact, true
}

func profitabilityTransition(preAvg, postAvg, cost float64) string {
	wasProfitable := preAvg > cost
	isProfitable := postAvg > cost
	switch {
	case !wasProfitable && isProfitable:
		return NowProfitable
	case wasProfitable && !isProfitable:
		return NoLongerProfitable
	case isProfitable:
		return StillProfitable
	default:
		return StillUnprofitable
	}
}

func significance(priceChangePct float64) string {
	switch {
	case math.Abs(priceChangePct) > 20:
		return SignificanceHigh
	case math.Abs(priceChangePct) > 10:
		return SignificanceMedium
	default:
		return SignificanceLow
	}
}

func wholeDaysFloor(d time.Duration) int {
	days := int(d.Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func earliestTime(trades []models.Trade) time.Time {
	earliest := trades[0].Time
	for _, t := range trades[1:] {
		if t.Time.Before(earliest) {
			earliest = t.Time
		}
	}
	return earliest
}

func latestTime(trades []models.Trade) time.Time {
	latest := trades[0].Time
	for _, t := range trades[1:] {
		if t.Time.After(latest) {
			latest = t.Time
		}
	}
	return latest
}

func sumAmounts(trades []models.Trade) int {
	var total int
	for _, t := range trades {
		total += t.Amount
	}
	return total
}
