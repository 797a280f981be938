package pricing

import (
	"math"
	"testing"
)

func TestEstimateOffice_BaselineBand(t *testing.T) {
	// 60 m² office, nothing else: basic = 1.0 h.
	got := EstimateOffice(OfficeInput{
		AreaM2:    60,
		Space:     SpaceOffice,
		Soiling:   OfficeSoilingLow,
		Frequency: OfficeFrequencyOneTime,
		Time:      CleaningDay,
	})
	if got.HoursMin != 0.85 || got.HoursMax != 1.02 {
		t.Fatalf("hours = %v..%v; want 0.85..1.02", got.HoursMin, got.HoursMax)
	}
	if got.PriceMin != 510 || got.PriceMax != 620 {
		t.Fatalf("price = %v..%v; want 510..620", got.PriceMin, got.PriceMax)
	}
}

func TestEstimateOffice_NightSurcharge(t *testing.T) {
	day := EstimateOffice(OfficeInput{AreaM2: 60, Space: SpaceOffice, Time: CleaningDay})
	night := EstimateOffice(OfficeInput{AreaM2: 60, Space: SpaceOffice, Time: CleaningNight})

	// +10% on price: 510×1.1 = 561 → 570, 612×1.1 = 673.2 → 680.
	if night.PriceMin != 570 || night.PriceMax != 680 {
		t.Fatalf("night price = %v..%v; want 570..680", night.PriceMin, night.PriceMax)
	}
	// Hours are unaffected by the shift.
	if night.HoursMin != day.HoursMin || night.HoursMax != day.HoursMax {
		t.Fatalf("night shift changed hours: %v..%v vs %v..%v",
			night.HoursMin, night.HoursMax, day.HoursMin, day.HoursMax)
	}
}

func TestEstimateOffice_SpaceTypeRates(t *testing.T) {
	// Same area, different throughput: production (40 m²/h) needs more time
	// than warehouse (70 m²/h).
	warehouse := EstimateOffice(OfficeInput{AreaM2: 140, Space: SpaceWarehouse})
	production := EstimateOffice(OfficeInput{AreaM2: 140, Space: SpaceProduction})
	if production.HoursMax <= warehouse.HoursMax {
		t.Fatalf("production %v h should exceed warehouse %v h",
			production.HoursMax, warehouse.HoursMax)
	}
}

func TestEstimateOffice_DailyDiscountAndExtras(t *testing.T) {
	got := EstimateOffice(OfficeInput{
		AreaM2:    100,
		WCs:       2,
		Space:     SpaceShop,
		Soiling:   OfficeSoilingExtreme,
		Frequency: OfficeFrequencyDaily,
		Extras:    []string{"fridge", "windows"},
	})
	if math.Abs(got.DiscountPercent-30) > 1e-9 {
		t.Fatalf("daily discount = %v; want 30", got.DiscountPercent)
	}

	// Each extra adds half an hour before the soiling multiplier.
	noExtras := EstimateOffice(OfficeInput{
		AreaM2:    100,
		WCs:       2,
		Space:     SpaceShop,
		Soiling:   OfficeSoilingExtreme,
		Frequency: OfficeFrequencyDaily,
	})
	wantDelta := 1.0 * 1.6 * officeHoursMaxFactor // 2 extras × 0.5 h × extreme
	if math.Abs((got.HoursMax-noExtras.HoursMax)-round2(wantDelta)) > 0.02 {
		t.Fatalf("extras delta = %v; want ≈%v", got.HoursMax-noExtras.HoursMax, wantDelta)
	}
}

func TestEstimateOffice_Invariants(t *testing.T) {
	inputs := []OfficeInput{
		{},
		{AreaM2: 400, WCs: 6, Kitchenettes: 2, Space: SpaceProduction, Soiling: OfficeSoilingExtreme, Frequency: OfficeFrequencyDaily, Time: CleaningNight, Extras: []string{"a", "b", "c"}},
		{AreaM2: 55, Space: SpaceType("hangar"), Soiling: OfficeSoiling("??"), Frequency: OfficeFrequency("??")},
	}
	for i, in := range inputs {
		got := EstimateOffice(in)
		if got.HoursMin > got.HoursMax || got.PriceMin > got.PriceMax || got.PriceMin < 0 {
			t.Errorf("case %d: bad ranges %+v", i, got)
		}
		if math.Mod(got.PriceMin, 10) != 0 || math.Mod(got.PriceMax, 10) != 0 {
			t.Errorf("case %d: prices %v..%v not multiples of 10", i, got.PriceMin, got.PriceMax)
		}
	}
}
