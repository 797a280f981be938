package pricing

// OfficeSoiling is the four-tier dirtiness level used only by the office
// calculator, which adds an "extreme" tier on top of the shared three.
type OfficeSoiling string

const (
	OfficeSoilingLow     OfficeSoiling = "low"
	OfficeSoilingMedium  OfficeSoiling = "medium"
	OfficeSoilingHigh    OfficeSoiling = "high"
	OfficeSoilingExtreme OfficeSoiling = "extreme"
)

func coerceOfficeSoiling(s OfficeSoiling) OfficeSoiling {
	switch s {
	case OfficeSoilingLow, OfficeSoilingMedium, OfficeSoilingHigh, OfficeSoilingExtreme:
		return s
	}
	return OfficeSoilingLow
}

// OfficeFrequency is the commercial schedule; daily service earns the
// deepest discount.
type OfficeFrequency string

const (
	OfficeFrequencyOneTime OfficeFrequency = "one_time"
	OfficeFrequencyMonthly OfficeFrequency = "monthly"
	OfficeFrequencyWeekly  OfficeFrequency = "weekly"
	OfficeFrequencyDaily   OfficeFrequency = "daily"
)

func coerceOfficeFrequency(f OfficeFrequency) OfficeFrequency {
	switch f {
	case OfficeFrequencyOneTime, OfficeFrequencyMonthly, OfficeFrequencyWeekly, OfficeFrequencyDaily:
		return f
	}
	return OfficeFrequencyOneTime
}

// SpaceType selects the area throughput rate for commercial premises.
type SpaceType string

const (
	SpaceOffice     SpaceType = "office"
	SpaceShop       SpaceType = "shop"
	SpaceWarehouse  SpaceType = "warehouse"
	SpaceProduction SpaceType = "production"
)

func coerceSpaceType(s SpaceType) SpaceType {
	switch s {
	case SpaceOffice, SpaceShop, SpaceWarehouse, SpaceProduction:
		return s
	}
	return SpaceOffice
}

// CleaningTime is the shift during which the crew works; night shifts carry
// a price surcharge.
type CleaningTime string

const (
	CleaningDay   CleaningTime = "day"
	CleaningNight CleaningTime = "night"
)

// Office cleaning rule tables.
const (
	officeHourlyRate     = 600.0 // CZK per hour
	officeRoomAllowance  = 0.5   // hours per WC or kitchenette
	officeExtraAllowance = 0.5   // hours per booked extra service
	officeNightSurcharge = 1.1   // +10% on price, applied before discount

	// Commercial jobs are quoted in a narrow band around a single computed
	// baseline, unlike the household two-rate spread. The skew is a
	// business rule: office quotes are tighter and top out just above the
	// baseline.
	officeHoursMinFactor = 0.85
	officeHoursMaxFactor = 1.02
)

var officeSpeedBySpace = map[SpaceType]float64{ // m² per hour
	SpaceOffice:     60,
	SpaceShop:       50,
	SpaceWarehouse:  70,
	SpaceProduction: 40,
}

var officeSoilingFactor = map[OfficeSoiling]float64{
	OfficeSoilingLow:     1.0,
	OfficeSoilingMedium:  1.2,
	OfficeSoilingHigh:    1.4,
	OfficeSoilingExtreme: 1.6,
}

var officeFrequencyFactor = map[OfficeFrequency]float64{
	OfficeFrequencyOneTime: 1.0,
	OfficeFrequencyMonthly: 0.9,
	OfficeFrequencyWeekly:  0.8,
	OfficeFrequencyDaily:   0.7,
}

// OfficeInput describes one commercial cleaning job. Extras lists booked
// add-on services; each adds a fixed time allowance.
type OfficeInput struct {
	AreaM2       float64         `json:"area_m2"`
	WCs          int             `json:"wcs"`
	Kitchenettes int             `json:"kitchenettes"`
	Space        SpaceType       `json:"space_type"`
	Soiling      OfficeSoiling   `json:"soiling"`
	Frequency    OfficeFrequency `json:"frequency"`
	Time         CleaningTime    `json:"cleaning_time"`
	Extras       []string        `json:"extras"`
}

// EstimateOffice computes the quote for a commercial cleaning job.
//
// The baseline hour figure uses a space-type throughput rate plus fixed
// allowances, scaled by the four-tier soiling factor. The hour band is
// basic×0.85 to basic×1.02. The night surcharge applies to price only,
// before the frequency discount. Prices round up to 10 CZK.
func EstimateOffice(in OfficeInput) Estimate {
	speed := officeSpeedBySpace[coerceSpaceType(in.Space)]
	soil := officeSoilingFactor[coerceOfficeSoiling(in.Soiling)]
	freq := officeFrequencyFactor[coerceOfficeFrequency(in.Frequency)]

	basic := in.AreaM2/speed +
		float64(in.WCs)*officeRoomAllowance +
		float64(in.Kitchenettes)*officeRoomAllowance +
		float64(len(in.Extras))*officeExtraAllowance
	basic *= soil

	hoursMin := basic * officeHoursMinFactor
	hoursMax := basic * officeHoursMaxFactor

	priceMin := hoursMin * officeHourlyRate
	priceMax := hoursMax * officeHourlyRate
	if in.Time == CleaningNight {
		priceMin *= officeNightSurcharge
		priceMax *= officeNightSurcharge
	}
	priceMin = roundUp10(priceMin * freq)
	priceMax = roundUp10(priceMax * freq)

	return Estimate{
		HoursMin:        round2(hoursMin),
		HoursMax:        round2(hoursMax),
		PriceMin:        priceMin,
		PriceMax:        priceMax,
		DiscountPercent: (1 - freq) * 100,
	}
}
