package pricing

// CarpetType selects the per-m² rate row for carpet cleaning.
type CarpetType string

const (
	CarpetRug         CarpetType = "rug"
	CarpetFittedShort CarpetType = "fitted_short"
	CarpetFittedLong  CarpetType = "fitted_long"
)

// SofaSize selects the flat sofa rate row.
type SofaSize string

const (
	Sofa1Seat  SofaSize = "1_seat"
	Sofa2Seat  SofaSize = "2_seat"
	Sofa3Seat  SofaSize = "3_seat"
	Sofa4Seat  SofaSize = "4_seat"
	Sofa5Seat  SofaSize = "5_seat"
	Sofa6Seat  SofaSize = "6_seat"
	SofaCorner SofaSize = "corner"
)

// MattressWidth is the mattress width in centimetres.
type MattressWidth string

const (
	Mattress90  MattressWidth = "90"
	Mattress140 MattressWidth = "140"
	Mattress160 MattressWidth = "160"
	Mattress180 MattressWidth = "180"
	Mattress200 MattressWidth = "200"
)

// MattressSides says whether one or both sides are cleaned.
type MattressSides string

const (
	MattressOneSide   MattressSides = "one_side"
	MattressBothSides MattressSides = "both_sides"
)

// Upholstery rule tables. Every rate row is indexed by the shared three-tier
// soiling level (low, medium, high).
const upholsteryMinimumOrder = 1500.0

var carpetRatePerM2 = map[CarpetType][3]float64{
	CarpetRug:         {200, 230, 260},
	CarpetFittedShort: {84, 108, 132},
	CarpetFittedLong:  {108, 132, 156},
}

var sofaRate = map[SofaSize][3]float64{
	Sofa1Seat:  {770, 990, 1210},
	Sofa2Seat:  {990, 1210, 1430},
	Sofa3Seat:  {1210, 1430, 1650},
	Sofa4Seat:  {1430, 1650, 1870},
	Sofa5Seat:  {1650, 1870, 2090},
	Sofa6Seat:  {1870, 2090, 2310},
	SofaCorner: {2090, 2530, 2970},
}

type mattressKey struct {
	Width MattressWidth
	Sides MattressSides
}

var mattressRate = map[mattressKey][3]float64{
	{Mattress90, MattressOneSide}:    {800, 960, 1120},
	{Mattress90, MattressBothSides}:  {1400, 1600, 1800},
	{Mattress140, MattressOneSide}:   {1100, 1300, 1500},
	{Mattress140, MattressBothSides}: {1900, 2100, 2300},
	{Mattress160, MattressOneSide}:   {1200, 1400, 1600},
	{Mattress160, MattressBothSides}: {2000, 2200, 2400},
	{Mattress180, MattressOneSide}:   {1300, 1500, 1700},
	{Mattress180, MattressBothSides}: {2200, 2400, 2600},
	{Mattress200, MattressOneSide}:   {1400, 1600, 1800},
	{Mattress200, MattressBothSides}: {2400, 2600, 2800},
}

var armchairRate = [3]float64{400, 550, 700}
var chairRate = [3]float64{195, 260, 325}

func coerceCarpetType(t CarpetType) CarpetType {
	if _, ok := carpetRatePerM2[t]; ok {
		return t
	}
	return CarpetRug
}

func coerceSofaSize(s SofaSize) SofaSize {
	if _, ok := sofaRate[s]; ok {
		return s
	}
	return Sofa2Seat
}

func coerceMattress(w MattressWidth, s MattressSides) mattressKey {
	k := mattressKey{Width: w, Sides: s}
	if _, ok := mattressRate[k]; ok {
		return k
	}
	return mattressKey{Width: Mattress90, Sides: MattressOneSide}
}

// UpholsteryInput describes up to five independent line items. Each item is
// gated by its boolean; unselected items contribute nothing, whatever their
// sub-attributes say.
type UpholsteryInput struct {
	Carpets       bool       `json:"carpets"`
	CarpetType    CarpetType `json:"carpet_type"`
	CarpetAreaM2  float64    `json:"carpet_area_m2"`
	CarpetSoiling Soiling    `json:"carpet_soiling"`

	Sofa        bool     `json:"sofa"`
	SofaSize    SofaSize `json:"sofa_size"`
	SofaSoiling Soiling  `json:"sofa_soiling"`

	Mattress        bool          `json:"mattress"`
	MattressWidth   MattressWidth `json:"mattress_width"`
	MattressSides   MattressSides `json:"mattress_sides"`
	MattressSoiling Soiling       `json:"mattress_soiling"`

	Armchairs       bool    `json:"armchairs"`
	ArmchairCount   int     `json:"armchair_count"`
	ArmchairSoiling Soiling `json:"armchair_soiling"`

	Chairs       bool    `json:"chairs"`
	ChairCount   int     `json:"chair_count"`
	ChairSoiling Soiling `json:"chair_soiling"`
}

// UpholsteryEstimate extends Estimate with the itemized breakdown. The five
// category subtotals always sum exactly to RawTotal.
type UpholsteryEstimate struct {
	Estimate

	RawTotal     float64 `json:"raw_total"`
	BelowMinimum bool    `json:"below_minimum"`
	MinimumOrder float64 `json:"minimum_order"`

	CarpetPrice   float64 `json:"carpet_price"`
	SofaPrice     float64 `json:"sofa_price"`
	MattressPrice float64 `json:"mattress_price"`
	ArmchairPrice float64 `json:"armchair_price"`
	ChairPrice    float64 `json:"chair_price"`
}

// EstimateUpholstery computes the quote for an upholstery cleaning job.
//
// BelowMinimum is advisory: it flags totals under the minimum order so the
// caller can warn the customer, but the displayed ±10% range is always
// derived from the computed RawTotal, never clamped to the minimum.
func EstimateUpholstery(in UpholsteryInput) UpholsteryEstimate {
	var out UpholsteryEstimate
	out.MinimumOrder = upholsteryMinimumOrder

	if in.Carpets {
		rates := carpetRatePerM2[coerceCarpetType(in.CarpetType)]
		out.CarpetPrice = in.CarpetAreaM2 * rates[soilIndex(in.CarpetSoiling)]
	}
	if in.Sofa {
		rates := sofaRate[coerceSofaSize(in.SofaSize)]
		out.SofaPrice = rates[soilIndex(in.SofaSoiling)]
	}
	if in.Mattress {
		rates := mattressRate[coerceMattress(in.MattressWidth, in.MattressSides)]
		out.MattressPrice = rates[soilIndex(in.MattressSoiling)]
	}
	if in.Armchairs {
		out.ArmchairPrice = float64(in.ArmchairCount) * armchairRate[soilIndex(in.ArmchairSoiling)]
	}
	if in.Chairs {
		out.ChairPrice = float64(in.ChairCount) * chairRate[soilIndex(in.ChairSoiling)]
	}

	out.RawTotal = out.CarpetPrice + out.SofaPrice + out.MattressPrice +
		out.ArmchairPrice + out.ChairPrice
	out.BelowMinimum = out.RawTotal > 0 && out.RawTotal < upholsteryMinimumOrder
	out.PriceMin, out.PriceMax = band10(out.RawTotal)

	return out
}
