package pricing

import "math"

// roundUp10 rounds a price up to the nearest 10 CZK. Quotes never round in
// the customer's favor past a crown boundary.
func roundUp10(v float64) float64 {
	return math.Ceil(v/10) * 10
}

// round2 rounds an hour figure to two decimals for display stability.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// band10 returns the ±10% display range around a computed total, rounded to
// whole CZK. Zero totals stay zero on both ends.
func band10(total float64) (lo, hi float64) {
	if total <= 0 {
		return 0, 0
	}
	return math.Round(total * 0.9), math.Round(total * 1.1)
}
