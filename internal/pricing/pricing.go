// Package pricing implements the price and duration calculators for every
// service the company offers: household cleaning, office cleaning, window
// cleaning, and upholstery cleaning, plus the hourly work-time model used
// for crew planning. It is intentionally small and dependency-free, but
// engineered with production-grade ergonomics:
//
//   - No logging and no I/O (callers decide how/what to log)
//   - Pure functions: safe to call concurrently or repeatedly
//   - Immutable rule tables, fixed at compile time
//   - Fail-open enum handling: unknown soiling/frequency/type values coerce
//     to the baseline tier instead of erroring, because upstream booking
//     forms are not a fully controlled data source
//
// Each calculator returns an Estimate whose invariants always hold:
// HoursMin <= HoursMax and PriceMin <= PriceMax, with PriceMin >= 0.
package pricing

// Estimate is the result of a price calculation: an hour range, a price
// range in CZK, and the frequency discount that was applied.
type Estimate struct {
	HoursMin        float64 `json:"hours_min"`
	HoursMax        float64 `json:"hours_max"`
	PriceMin        float64 `json:"price_min"`
	PriceMax        float64 `json:"price_max"`
	DiscountPercent float64 `json:"discount_percent"`
}

// Soiling is the three-tier dirtiness level used by the household, window,
// and upholstery calculators.
type Soiling string

const (
	SoilingLow    Soiling = "low"
	SoilingMedium Soiling = "medium"
	SoilingHigh   Soiling = "high"
)

// coerceSoiling maps unknown values to the SoilingLow baseline.
func coerceSoiling(s Soiling) Soiling {
	switch s {
	case SoilingLow, SoilingMedium, SoilingHigh:
		return s
	}
	return SoilingLow
}

// soilIndex returns the 0-based tier used to index 3-column rate tables.
func soilIndex(s Soiling) int {
	switch coerceSoiling(s) {
	case SoilingMedium:
		return 1
	case SoilingHigh:
		return 2
	}
	return 0
}

// Frequency is the recurring-service schedule for household cleaning.
type Frequency string

const (
	FrequencyOneTime  Frequency = "one_time"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyWeekly   Frequency = "weekly"
)

// coerceFrequency maps unknown values to the one-time baseline (no discount).
func coerceFrequency(f Frequency) Frequency {
	switch f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyBiweekly, FrequencyWeekly:
		return f
	}
	return FrequencyOneTime
}
