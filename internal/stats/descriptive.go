// Package stats implements the price statistics used to judge shop items
// against trading-post prices: quantile-based outlier filtering, a
// recency-weighted median, purchase-zone thresholds, and a composite
// confidence score.
//
// Every function resolves degenerate input (empty samples, single elements,
// non-positive means) to a defined value instead of returning an error, so
// downstream consumers never have to special-case missing data.
package stats

import (
	"math"
	"sort"

	"github.com/Kalfaka/bloodchanting-arbitrage/internal/models"
)

// Params holds the tunable constants of the statistical core. The IQR
// multiplier and zone offsets have no derivation beyond observed fit on real
// economy data, so they stay configurable rather than hardcoded.
type Params struct {
	Alpha          float64 // EWMA decay factor, 0 < alpha < 1
	OutlierIQRMult float64 // outlier bounds = [Q1 - m*IQR, Q3 + m*IQR]
	ZoneIQROffset  float64 // good/fair offsets around the median
	AvoidIQROffset float64 // avoid threshold offset above Q3
}

// DefaultParams returns the production parameter set.
func DefaultParams() Params {
	return Params{
		Alpha:          0.3,
		OutlierIQRMult: 3.0,
		ZoneIQROffset:  0.25,
		AvoidIQROffset: 0.5,
	}
}

// Prices extracts the price column from a trade sample.
func Prices(trades []models.Trade) []float64 {
	prices := make([]float64, len(trades))
	for i, t := range trades {
		prices[i] = t.Price
	}
	return prices
}

// Quantile returns the q-th quantile (0 <= q <= 1) of values using linear
// interpolation between closest ranks. Returns 0 for an empty slice.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	frac := pos - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// Median returns the 50th percentile of values, 0 if empty.
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Mean returns the arithmetic mean of values, 0 if empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation (Bessel correction, divide by
// n-1) of values. Defined as 0 for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}

// Min returns the smallest value, 0 if empty.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, 0 if empty.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
