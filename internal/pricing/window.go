package pricing

// ObjectType scales the per-window rate by the kind of building.
type ObjectType string

const (
	ObjectFlat   ObjectType = "flat"
	ObjectHouse  ObjectType = "house"
	ObjectOffice ObjectType = "office"
	ObjectShop   ObjectType = "shop"
)

func coerceObjectType(o ObjectType) ObjectType {
	switch o {
	case ObjectFlat, ObjectHouse, ObjectOffice, ObjectShop:
		return o
	}
	return ObjectFlat
}

// Window cleaning rule tables. Pricing is per window (both sides of a 1 m²
// pane), not per hour, so the calculator never produces an hour estimate.
const (
	windowRate         = 276.0  // CZK per window
	windowMinimumOrder = 1500.0 // enforced floor on the computed price
)

var windowSoilingFactor = map[Soiling]float64{
	SoilingLow:    1.0,
	SoilingMedium: 1.2,
	SoilingHigh:   1.4,
}

var windowObjectFactor = map[ObjectType]float64{
	ObjectFlat:   1.0,
	ObjectHouse:  1.1,
	ObjectOffice: 1.05,
	ObjectShop:   1.15,
}

// WindowInput describes one window cleaning job.
type WindowInput struct {
	WindowCount int        `json:"window_count"`
	Soiling     Soiling    `json:"soiling"`
	ObjectType  ObjectType `json:"object_type"`
}

// EstimateWindows computes the quote for a window cleaning job.
//
// Price = count × rate × soiling × object type, floored at the minimum
// order value. The displayed range is ±10% of that price, rounded to whole
// CZK — a deliberately different rounding rule from the hourly services,
// which round up to 10.
func EstimateWindows(in WindowInput) Estimate {
	price := float64(in.WindowCount) * windowRate
	price *= windowSoilingFactor[coerceSoiling(in.Soiling)]
	price *= windowObjectFactor[coerceObjectType(in.ObjectType)]

	if price < windowMinimumOrder {
		price = windowMinimumOrder
	}

	priceMin, priceMax := band10(price)
	return Estimate{
		HoursMin:        0,
		HoursMax:        0,
		PriceMin:        priceMin,
		PriceMax:        priceMax,
		DiscountPercent: 0,
	}
}
