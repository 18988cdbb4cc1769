package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseZonesOrdering(t *testing.T) {
	trades := sample(900, 950, 1000, 1050, 1100)
	z := PurchaseZones(trades, DefaultParams())

	// Q1=950, Q2=1000, Q3=1050, IQR=100.
	assert.InDelta(t, 950, z.Excellent, 1e-9)
	assert.InDelta(t, 975, z.Good, 1e-9)
	assert.InDelta(t, 1025, z.Fair, 1e-9)
	assert.InDelta(t, 1050, z.Overpriced, 1e-9)
	assert.InDelta(t, 1100, z.Avoid, 1e-9)

	assert.LessOrEqual(t, z.Excellent, z.Good)
	assert.LessOrEqual(t, z.Good, z.Fair)
	assert.LessOrEqual(t, z.Fair, z.Overpriced)
	assert.LessOrEqual(t, z.Overpriced, z.Avoid)
}

func TestPurchaseZonesAllEqualCollapse(t *testing.T) {
	trades := sample(500, 500, 500, 500)
	z := PurchaseZones(trades, DefaultParams())

	assert.Equal(t, Zones{Excellent: 500, Good: 500, Fair: 500, Overpriced: 500, Avoid: 500}, z)
}

func TestPurchaseZonesEmpty(t *testing.T) {
	assert.Equal(t, Zones{}, PurchaseZones(nil, DefaultParams()))
}

func TestPurchaseZonesFiltersOutliers(t *testing.T) {
	// The single huge price must not inflate the thresholds.
	trades := sample(10, 10, 10, 10, 1000)
	z := PurchaseZones(trades, DefaultParams())
	assert.Equal(t, Zones{Excellent: 10, Good: 10, Fair: 10, Overpriced: 10, Avoid: 10}, z)
}
