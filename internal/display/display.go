// Package display builds the markdown documents the CLI shows the user:
// the plan comparison table, flight and hotel cards, points breakdowns,
// and the final booking guide. Rendering to the terminal is the caller's
// concern; everything here returns plain markdown.
package display

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

// PlansTable renders the side-by-side comparison of assembled trip plans.
// Plan numbers are 1-based to match what the user types to select one.
func PlansTable(plans []travel.TripPlan) string {
	var b strings.Builder
	b.WriteString("## Trip Plan Options\n\n")
	b.WriteString("| # | Summary | Flight | Hotel | Points | Cash Taxes | CPP |\n")
	b.WriteString("|---|---------|--------|-------|-------:|-----------:|----:|\n")
	for i, plan := range plans {
		flight := fmt.Sprintf("%s · %s · %s pts",
			routeOf(plan.Flight), plan.Flight.ProgramToBook, formatPoints(plan.Flight.TotalMilesRequired))
		hotel := fmt.Sprintf("%s %s · %s pts",
			plan.Hotel.HotelName, stars(plan.Hotel.StarRating), formatPoints(plan.Hotel.TotalPointsRequired))
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | $%s | %s¢ |\n",
			i+1,
			plan.SummaryLabel,
			flight,
			hotel,
			formatPoints(plan.TotalPoints()),
			plan.TotalCashUSD.StringFixed(2),
			plan.BlendedCPP().StringFixed(3),
		)
	}
	return b.String()
}

// FlightCard renders one round trip segment by segment.
func FlightCard(f travel.FlightOption) string {
	var b strings.Builder
	b.WriteString("### Flight Details\n\n")
	for _, seg := range f.OutboundSegments {
		b.WriteString(segmentLine(seg))
	}
	b.WriteString("\n_Return_\n\n")
	for _, seg := range f.InboundSegments {
		b.WriteString(segmentLine(seg))
	}
	fmt.Fprintf(&b, "\nProgram: **%s** · Miles: **%s** · Taxes: **$%s**\n",
		f.ProgramToBook, formatPoints(f.TotalMilesRequired), f.CashTaxesUSD.StringFixed(2))
	return b.String()
}

// HotelCard renders one hotel stay.
func HotelCard(h travel.HotelOption) string {
	var b strings.Builder
	b.WriteString("### Hotel Details\n\n")
	fmt.Fprintf(&b, "**%s** %s\n\n", h.HotelName, stars(h.StarRating))
	fmt.Fprintf(&b, "- Chain: %s\n", h.HotelChain)
	fmt.Fprintf(&b, "- Dates: %s → %s\n", h.CheckIn, h.CheckOut)
	fmt.Fprintf(&b, "- Program: %s · Points: %s\n", h.ProgramToBook, formatPoints(h.TotalPointsRequired))
	return b.String()
}

// PointsBreakdown renders the per-issuer funding lines of a plan.
func PointsBreakdown(plan travel.TripPlan) string {
	var b strings.Builder
	b.WriteString("### Points Breakdown\n\n")
	b.WriteString("| Issuer | Program | Points | CPP | Value |\n")
	b.WriteString("|--------|---------|-------:|----:|------:|\n")
	totalValue := decimal.Zero
	for _, line := range plan.PointsBreakdown {
		fmt.Fprintf(&b, "| %s | %s | %s | %s¢ | $%s |\n",
			strings.ToUpper(string(line.Issuer)),
			line.Program,
			formatPoints(line.PointsUsed),
			line.CPP.StringFixed(2),
			line.CashValueUSD().StringFixed(2),
		)
		totalValue = totalValue.Add(line.CashValueUSD())
	}
	fmt.Fprintf(&b, "| **TOTAL** | | **%s** | **%s¢** | **$%s** |\n",
		formatPoints(plan.TotalPoints()), plan.BlendedCPP().StringFixed(3), totalValue.StringFixed(2))
	return b.String()
}

// AlternativeFlights renders the fine-tuning swap list for flights. Indices
// are 0-based because they address the registry's working set directly.
func AlternativeFlights(flights []travel.FlightOption) string {
	var b strings.Builder
	b.WriteString("## Alternative Flights\n\n")
	b.WriteString("| # | Route | Departure | Program | Miles | Taxes |\n")
	b.WriteString("|---|-------|-----------|---------|------:|------:|\n")
	for i, f := range flights {
		departure := ""
		if len(f.OutboundSegments) > 0 {
			departure = timeOf(f.OutboundSegments[0].DepartureTime)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | $%s |\n",
			i, routeOf(f), departure, f.ProgramToBook,
			formatPoints(f.TotalMilesRequired), f.CashTaxesUSD.StringFixed(2))
	}
	return b.String()
}

// AlternativeHotels renders the fine-tuning swap list for hotels.
func AlternativeHotels(hotels []travel.HotelOption) string {
	var b strings.Builder
	b.WriteString("## Alternative Hotels\n\n")
	b.WriteString("| # | Hotel | Stars | Program | Points |\n")
	b.WriteString("|---|-------|-------|---------|-------:|\n")
	for i, h := range hotels {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			i, h.HotelName, stars(h.StarRating), h.ProgramToBook,
			formatPoints(h.TotalPointsRequired))
	}
	return b.String()
}

// Portfolio renders the confirmed balances table shown after points input.
func Portfolio(balances []travel.PointsBalance) string {
	var b strings.Builder
	b.WriteString("## Your Points Portfolio\n\n")
	b.WriteString("| Issuer | Program | Balance |\n")
	b.WriteString("|--------|---------|--------:|\n")
	for _, bal := range balances {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			strings.ToUpper(string(bal.Issuer)), bal.Program, formatPoints(bal.Balance))
	}
	return b.String()
}

// PreferencesSummary renders the gathered preferences for the confirm step.
func PreferencesSummary(p travel.TravelPreferences) string {
	destination := p.DestinationDisplayName
	if destination == "" {
		destination = p.DestinationQuery
	}
	nonstop := "no preference"
	if p.NonstopPreferred {
		nonstop = "nonstop only"
	}
	var b strings.Builder
	b.WriteString("## Trip Preferences\n\n")
	fmt.Fprintf(&b, "- Destination: **%s** (%s)\n", destination, p.ResolvedDestination)
	fmt.Fprintf(&b, "- Dates: %s → %s\n", p.DepartureDate, p.ReturnDate)
	fmt.Fprintf(&b, "- Origin: %s · Travelers: %d\n", p.OriginAirport, p.NumTravelers)
	fmt.Fprintf(&b, "- Flights: %s departure, %s\n", p.FlightTimePreference, nonstop)
	fmt.Fprintf(&b, "- Hotel tier: %s · Strategy: %s\n", p.AccommodationTier, p.PointsStrategy)
	if p.DateFlexibilityDays > 0 {
		fmt.Fprintf(&b, "- Date flexibility: ±%d days\n", p.DateFlexibilityDays)
	}
	return b.String()
}

func segmentLine(seg travel.FlightSegment) string {
	return fmt.Sprintf("- %s → %s  %s → %s  [%s %s]\n",
		seg.Origin, seg.Destination,
		timeOf(seg.DepartureTime), timeOf(seg.ArrivalTime),
		seg.Airline, seg.FlightNumber)
}

func routeOf(f travel.FlightOption) string {
	if len(f.OutboundSegments) == 0 {
		return "—"
	}
	first := f.OutboundSegments[0]
	last := f.OutboundSegments[len(f.OutboundSegments)-1]
	return first.Origin + "→" + last.Destination
}

// timeOf extracts HH:MM from an ISO timestamp, tolerating short values.
func timeOf(ts string) string {
	if len(ts) >= 16 {
		return ts[11:16]
	}
	return ts
}

// dateOf extracts YYYY-MM-DD from an ISO timestamp.
func dateOf(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

func stars(rating float64) string {
	n := int(rating)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n)
}

// formatPoints inserts thousands separators.
func formatPoints(n int) string {
	s := fmt.Sprintf("%d", n)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if negative {
		out = "-" + out
	}
	return out
}
