package travel

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FlightSegment is one directed flight leg. Immutable once constructed from
// search results.
type FlightSegment struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_number"`
}

// FlightOption is a full round trip: ordered outbound and inbound segments,
// tagged with the redemption program and the issuer whose points fund it.
type FlightOption struct {
	OutboundSegments    []FlightSegment `json:"outbound_segments"`
	InboundSegments     []FlightSegment `json:"inbound_segments"`
	TotalMilesRequired  int             `json:"total_miles_required"`
	ProgramToBook       Program         `json:"program_to_book"`
	SourceIssuer        Issuer          `json:"source_issuer"`
	TransferPartnerUsed string          `json:"transfer_partner_used"`
	CashTaxesUSD        decimal.Decimal `json:"cash_taxes_usd"`
	OfferID             string          `json:"offer_id"`
}

// WithIssuer returns a copy re-tagged with a different funding issuer. The
// original stays addressable by index in the search working set.
func (f FlightOption) WithIssuer(issuer Issuer) FlightOption {
	f.SourceIssuer = issuer
	return f
}

// Nonstop reports whether both directions are single-segment.
func (f FlightOption) Nonstop() bool {
	return len(f.OutboundSegments) == 1 && len(f.InboundSegments) == 1
}

// HotelOption is a hotel stay redeemable through a loyalty program.
type HotelOption struct {
	HotelName           string          `json:"hotel_name"`
	HotelChain          string          `json:"hotel_chain"`
	StarRating          float64         `json:"star_rating"`
	CheckIn             string          `json:"check_in"`
	CheckOut            string          `json:"check_out"`
	TotalPointsRequired int             `json:"total_points_required"`
	ProgramToBook       Program         `json:"program_to_book"`
	SourceIssuer        Issuer          `json:"source_issuer"`
	HotelID             string          `json:"hotel_id"`
}

// WithIssuer returns a copy re-tagged with a different funding issuer.
func (h HotelOption) WithIssuer(issuer Issuer) HotelOption {
	h.SourceIssuer = issuer
	return h
}

// PointsCostBreakdown is one points-denominated line of a composed plan.
type PointsCostBreakdown struct {
	Issuer     Issuer          `json:"issuer"`
	Program    Program         `json:"program"`
	PointsUsed int             `json:"points_used"`
	CPP        decimal.Decimal `json:"cpp"` // base valuation, cents per point
}

// CashValueUSD is cpp * points / 100 rounded to cents.
func (b PointsCostBreakdown) CashValueUSD() decimal.Decimal {
	return b.CPP.Mul(decimal.NewFromInt(int64(b.PointsUsed))).Div(hundred).Round(2)
}

// EffectiveCPP is the realized cents-per-point after rounding cash value,
// zero when no points are spent.
func (b PointsCostBreakdown) EffectiveCPP() decimal.Decimal {
	if b.PointsUsed == 0 {
		return decimal.Zero
	}
	return b.CashValueUSD().Mul(hundred).Div(decimal.NewFromInt(int64(b.PointsUsed))).Round(3)
}

// TripPlan is one flight + one hotel + the points breakdown funding them.
// Plans are immutable value objects: fine-tuning swaps components via
// WithFlight/WithHotel copies, never in place.
type TripPlan struct {
	ID              string                `json:"id"`
	Flight          FlightOption          `json:"flight"`
	Hotel           HotelOption           `json:"hotel"`
	PointsBreakdown []PointsCostBreakdown `json:"points_breakdown"`
	TotalCashUSD    decimal.Decimal       `json:"total_cash_usd"`
	SummaryLabel    string                `json:"summary_label"`
}

// TotalPoints sums points across all breakdown lines.
func (p TripPlan) TotalPoints() int {
	total := 0
	for _, b := range p.PointsBreakdown {
		total += b.PointsUsed
	}
	return total
}

// BlendedCPP is the value-weighted average cpp across all breakdown lines,
// zero when no points are spent.
func (p TripPlan) BlendedCPP() decimal.Decimal {
	totalPoints := p.TotalPoints()
	if totalPoints == 0 {
		return decimal.Zero
	}
	totalValue := decimal.Zero
	for _, b := range p.PointsBreakdown {
		totalValue = totalValue.Add(b.CashValueUSD())
	}
	return totalValue.Mul(hundred).Div(decimal.NewFromInt(int64(totalPoints))).Round(3)
}

// WithFlight returns a copy of the plan with the flight replaced.
func (p TripPlan) WithFlight(f FlightOption) TripPlan {
	p.Flight = f
	return p
}

// WithHotel returns a copy of the plan with the hotel replaced.
func (p TripPlan) WithHotel(h HotelOption) TripPlan {
	p.Hotel = h
	return p
}
