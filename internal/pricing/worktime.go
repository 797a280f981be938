package pricing

import (
	"fmt"
	"math"
)

// Work-time model constants. Crew throughput is expressed as CZK of quoted
// work per hour; upholstery crews bill much faster per hour of presence.
const (
	workRateDefault    = 500.0  // CZK of quoted price per crew hour
	workRateUpholstery = 1500.0 // upholstery jobs
)

// TimeEstimate is the crew scheduling estimate derived from a quoted price.
type TimeEstimate struct {
	Rate           float64 `json:"rate"`
	TotalHours     float64 `json:"total_hours"`
	HoursPerPerson float64 `json:"hours_per_person"`
	MinHours       float64 `json:"min_hours"`
	MaxHours       float64 `json:"max_hours"`
	FormattedRange string  `json:"formatted_range"`
}

// EstimateWorkTime converts a quoted price into a per-person hour range for
// crew planning. The service type selects the throughput rate ("upholstery"
// jobs use the higher one). Crew sizes below one count as one. A
// non-positive price yields ok=false and a zero estimate.
func EstimateWorkTime(serviceType string, price float64, crewSize int) (TimeEstimate, bool) {
	if price <= 0 {
		return TimeEstimate{}, false
	}

	rate := workRateDefault
	if serviceType == "upholstery_cleaning" {
		rate = workRateUpholstery
	}

	totalHours := price / rate
	cleaners := math.Max(float64(crewSize), 1)
	perPerson := totalHours / cleaners

	est := TimeEstimate{
		Rate:           rate,
		TotalHours:     totalHours,
		HoursPerPerson: perPerson,
		MinHours:       perPerson * 0.85,
		MaxHours:       perPerson * 1.15,
	}
	est.FormattedRange = fmt.Sprintf("%s - %s",
		formatHours(est.MinHours), formatHours(est.MaxHours))
	return est, true
}

// formatHours renders an hour figure as "H h M min", dropping zero parts.
func formatHours(h float64) string {
	hrs := int(math.Floor(h))
	mins := int(math.Round((h - float64(hrs)) * 60))
	if mins == 60 {
		hrs++
		mins = 0
	}
	switch {
	case hrs == 0:
		return fmt.Sprintf("%d min", mins)
	case mins == 0:
		return fmt.Sprintf("%d h", hrs)
	}
	return fmt.Sprintf("%d h %d min", hrs, mins)
}
