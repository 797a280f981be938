package pricing

import "math"

// Household cleaning rule table.
//
// The hour band is modeled with two area throughput rates: a fast crew
// clears 30 m²/h (lower bound) and a slow crew 20 m²/h (upper bound).
// Bathrooms, kitchens, and setup/teardown add fixed min/max allowances.
const (
	householdHourlyRate = 400.0 // CZK per hour

	householdFastRate = 30.0 // m² per hour, best case
	householdSlowRate = 20.0 // m² per hour, worst case

	householdBathroomMin = 0.5
	householdBathroomMax = 1.0
	householdKitchenMin  = 0.75
	householdKitchenMax  = 1.25
	householdSetupMin    = 0.25
	householdSetupMax    = 0.5

	// A visit never quotes under two hours, whatever the inputs.
	householdMinHours = 2.0
)

var householdSoilingFactor = map[Soiling]float64{
	SoilingLow:    1.0,
	SoilingMedium: 1.2,
	SoilingHigh:   1.4,
}

var householdFrequencyFactor = map[Frequency]float64{
	FrequencyOneTime:  1.0,
	FrequencyMonthly:  0.9,
	FrequencyBiweekly: 0.85,
	FrequencyWeekly:   0.8,
}

// HouseholdInput describes one household cleaning job. Zero room counts are
// valid (no time added). Unknown Soiling/Frequency values fall back to the
// low-soiling / one-time baseline.
type HouseholdInput struct {
	AreaM2    float64   `json:"area_m2"`
	Bathrooms int       `json:"bathrooms"`
	Kitchens  int       `json:"kitchens"`
	Soiling   Soiling   `json:"soiling"`
	Frequency Frequency `json:"frequency"`
}

// EstimateHousehold computes the quote for a household cleaning job.
//
// Baseline hours come from the two throughput rates plus per-room and setup
// allowances; the soiling multiplier scales both bounds, with the lower
// bound floored at two hours. Prices are hours times the flat hourly rate,
// discounted by frequency, and rounded up to 10 CZK.
func EstimateHousehold(in HouseholdInput) Estimate {
	soil := householdSoilingFactor[coerceSoiling(in.Soiling)]
	freq := householdFrequencyFactor[coerceFrequency(in.Frequency)]

	hoursMin := in.AreaM2/householdFastRate +
		float64(in.Bathrooms)*householdBathroomMin +
		float64(in.Kitchens)*householdKitchenMin +
		householdSetupMin
	hoursMax := in.AreaM2/householdSlowRate +
		float64(in.Bathrooms)*householdBathroomMax +
		float64(in.Kitchens)*householdKitchenMax +
		householdSetupMax

	hoursMin = math.Max(householdMinHours, hoursMin*soil)
	// The floor can push the lower bound past the upper one on tiny jobs;
	// keep the band well-formed by lifting the upper bound with it.
	hoursMax = math.Max(hoursMin, hoursMax*soil)

	priceMin := roundUp10(hoursMin * householdHourlyRate * freq)
	priceMax := roundUp10(hoursMax * householdHourlyRate * freq)

	return Estimate{
		HoursMin:        round2(hoursMin),
		HoursMax:        round2(hoursMax),
		PriceMin:        priceMin,
		PriceMax:        priceMax,
		DiscountPercent: (1 - freq) * 100,
	}
}
