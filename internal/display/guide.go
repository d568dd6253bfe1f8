package display

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

// Issuer transfer portals, keyed by transferable currency.
var transferURLs = map[travel.Program]string{
	travel.ProgramChaseUR:         "https://creditcards.chase.com/ultimate-rewards/",
	travel.ProgramAmexMR:          "https://www.americanexpress.com/en-us/rewards/membership-rewards/partners/transfer/",
	travel.ProgramCitiTY:          "https://www.citi.com/credit-cards/citi-thankyou-rewards/",
	travel.ProgramCapitalOneMiles: "https://capital-one-travel.com/rewards",
	travel.ProgramBiltRewards:     "https://www.biltrewards.com/points/transfer",
}

// Award search/redemption pages per loyalty program.
var awardBookingURLs = map[travel.Program]string{
	travel.ProgramUnitedMileagePlus:  "https://www.united.com/en/us/book-flight/united-awards",
	travel.ProgramAmericanAAdvantage: "https://www.aa.com/aadvantage-program/miles/redeem/award-travel",
	travel.ProgramDeltaSkyMiles:      "https://www.delta.com/us/en/skymiles/redeeming-miles/book-award-travel",
	travel.ProgramSouthwestRR:        "https://www.southwest.com/rapidrewards/",
	travel.ProgramAlaskaMileagePlan:  "https://www.alaskaair.com/content/mileage-plan/use-miles/award-travel",
	travel.ProgramBritishAvios:       "https://www.britishairways.com/en-us/executive-club/spending-avios/redeeming-avios",
	travel.ProgramFlyingBlue:         "https://wwws.airfrance.us/information/fidelite/blue-business",
	travel.ProgramAeroplan:           "https://www.aircanada.com/us/en/aco/home/aeroplan/redeem-miles.html",
	travel.ProgramKrisFlyer:          "https://www.singaporeair.com/en_UK/us/ppsclub-krisflyer/krisflyer/award/",
	travel.ProgramSkywards:           "https://www.emirates.com/us/english/skywards/use-your-miles/award-flights/",
	travel.ProgramMilesAndSmiles:     "https://www.turkishairlines.com/en-us/miles-smiles/",
	travel.ProgramVirginFlyingClub:   "https://www.virgin-atlantic.com/us/en/flying-club/spend-miles.html",
	travel.ProgramWorldOfHyatt:       "https://world.hyatt.com/content/gp/en/rewards/free-nights.html",
	travel.ProgramMarriottBonvoy:     "https://www.marriott.com/bonvoy/rewards/points/redeem.mi",
	travel.ProgramHiltonHonors:       "https://www.hilton.com/en/hilton-honors/redeem/",
}

// BookingGuide renders the step-by-step guide for a finalized plan:
// transfer points first, book the flight, then the hotel.
func BookingGuide(plan travel.TripPlan) string {
	flight := plan.Flight
	hotel := plan.Hotel

	destination := "Unknown"
	departureDate, returnDate := "—", "—"
	if len(flight.OutboundSegments) > 0 {
		destination = flight.OutboundSegments[len(flight.OutboundSegments)-1].Destination
		departureDate = dateOf(flight.OutboundSegments[0].DepartureTime)
	}
	if len(flight.InboundSegments) > 0 {
		returnDate = dateOf(flight.InboundSegments[0].DepartureTime)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Booking Guide: %s\n\n", plan.SummaryLabel)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- **Destination**: %s\n", destination)
	fmt.Fprintf(&b, "- **Travel Dates**: %s → %s\n", departureDate, returnDate)
	fmt.Fprintf(&b, "- **Hotel**: %s (%s → %s)\n", hotel.HotelName, hotel.CheckIn, hotel.CheckOut)
	fmt.Fprintf(&b, "- **Blended CPP**: %s¢\n\n---\n\n", plan.BlendedCPP().StringFixed(3))

	b.WriteString("## Step 1: Transfer Points\n\n")
	for _, line := range plan.PointsBreakdown {
		url, ok := transferURLs[line.Issuer.Program()]
		if !ok {
			url = "https://your-card-issuer.com"
		}
		fmt.Fprintf(&b, "### %s → %s\n", strings.ToUpper(string(line.Issuer)), line.Program)
		fmt.Fprintf(&b, "- **Points to transfer**: %s\n", formatPoints(line.PointsUsed))
		fmt.Fprintf(&b, "- **Transfer URL**: %s\n", url)
		fmt.Fprintf(&b, "- **Estimated CPP**: %s¢  (cash value ≈ $%s)\n\n",
			line.CPP.StringFixed(2), line.CashValueUSD().StringFixed(2))
		b.WriteString("> ⚠️ Transfer points BEFORE booking the award — transfers are often instant but\n")
		b.WriteString("> some programs (Singapore KrisFlyer) can take 24–48 hours. Do NOT book until\n")
		b.WriteString("> points land in the loyalty account.\n\n")
	}

	b.WriteString("---\n\n## Step 2: Book the Award Flight\n\n")
	fmt.Fprintf(&b, "**Program**: %s\n", flight.ProgramToBook)
	fmt.Fprintf(&b, "**Miles required**: %s\n", formatPoints(flight.TotalMilesRequired))
	fmt.Fprintf(&b, "**Cash taxes/fees**: $%s\n\n", flight.CashTaxesUSD.StringFixed(2))
	b.WriteString("### Outbound Segments\n")
	for _, seg := range flight.OutboundSegments {
		b.WriteString(segmentLine(seg))
	}
	b.WriteString("\n### Return Segments\n")
	for _, seg := range flight.InboundSegments {
		b.WriteString(segmentLine(seg))
	}

	awardURL, ok := awardBookingURLs[flight.ProgramToBook]
	if !ok {
		awardURL = "https://your-airline.com/award"
	}
	fmt.Fprintf(&b, "\n**Award booking URL**: %s\n\n", awardURL)
	b.WriteString("> 💡 Search by exact flight numbers if possible. Call the airline's award desk\n")
	b.WriteString("> if the website shows no availability — phone agents often see additional seats.\n\n")

	b.WriteString("---\n\n## Step 3: Book the Hotel\n\n")
	fmt.Fprintf(&b, "**Hotel**: %s\n", hotel.HotelName)
	fmt.Fprintf(&b, "**Program**: %s\n", hotel.ProgramToBook)
	fmt.Fprintf(&b, "**Points**: %s\n", formatPoints(hotel.TotalPointsRequired))
	fmt.Fprintf(&b, "**Dates**: %s → %s\n\n", hotel.CheckIn, hotel.CheckOut)

	hotelURL, ok := awardBookingURLs[hotel.ProgramToBook]
	if !ok {
		hotelURL = "https://your-hotel-program.com"
	}
	fmt.Fprintf(&b, "**Redemption URL**: %s\n\n", hotelURL)
	b.WriteString("> 💡 Book the hotel AFTER confirming your flights — award hotel bookings are\n")
	b.WriteString("> generally more flexible (free cancellation up to 24h before check-in for most programs).\n\n")

	b.WriteString("---\n\n## Order of Operations Summary\n\n")
	b.WriteString("1. Initiate point transfers from issuer portals (Step 1).\n")
	b.WriteString("2. Wait for points to land in loyalty accounts (check email confirmations).\n")
	b.WriteString("3. Search and book award flights first (Step 2) — availability is limited.\n")
	b.WriteString("4. Book hotel award nights (Step 3).\n")
	b.WriteString("5. Pay cash taxes/fees on the flight with your best travel card.\n\n")
	fmt.Fprintf(&b, "---\n\n> Generated by Travel Points Planner | %s\n", plan.SummaryLabel)

	return b.String()
}

// SaveBookingGuide writes the guide to disk, creating parent directories.
func SaveBookingGuide(md, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return errors.Wrapf(err, "write booking guide %s", path)
	}
	return nil
}
