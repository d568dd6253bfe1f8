package display

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

func samplePlan() travel.TripPlan {
	return travel.TripPlan{
		ID:           "plan-1",
		SummaryLabel: "Nonstop + Hyatt",
		Flight: travel.FlightOption{
			OutboundSegments: []travel.FlightSegment{{
				Origin: "JFK", Destination: "HNL",
				DepartureTime: "2026-10-01T08:15:00", ArrivalTime: "2026-10-01T14:05:00",
				Airline: "UA", FlightNumber: "UA101",
			}},
			InboundSegments: []travel.FlightSegment{{
				Origin: "HNL", Destination: "JFK",
				DepartureTime: "2026-10-08T21:30:00", ArrivalTime: "2026-10-09T10:15:00",
				Airline: "UA", FlightNumber: "UA102",
			}},
			TotalMilesRequired: 30000,
			ProgramToBook:      travel.ProgramUnitedMileagePlus,
			SourceIssuer:       travel.IssuerChase,
			CashTaxesUSD:       decimal.RequireFromString("11.20"),
		},
		Hotel: travel.HotelOption{
			HotelName: "Grand Hyatt", HotelChain: "Hyatt", StarRating: 4.5,
			CheckIn: "2026-10-01", CheckOut: "2026-10-08",
			TotalPointsRequired: 20000,
			ProgramToBook:       travel.ProgramWorldOfHyatt,
			SourceIssuer:        travel.IssuerChase,
		},
		PointsBreakdown: []travel.PointsCostBreakdown{
			{Issuer: travel.IssuerChase, Program: travel.ProgramUnitedMileagePlus, PointsUsed: 30000, CPP: decimal.RequireFromString("1.35")},
			{Issuer: travel.IssuerChase, Program: travel.ProgramWorldOfHyatt, PointsUsed: 20000, CPP: decimal.RequireFromString("2.30")},
		},
		TotalCashUSD: decimal.RequireFromString("11.20"),
	}
}

func TestPlansTable(t *testing.T) {
	md := PlansTable([]travel.TripPlan{samplePlan()})

	assert.Contains(t, md, "| 1 | Nonstop + Hyatt |")
	assert.Contains(t, md, "JFK→HNL")
	assert.Contains(t, md, "30,000 pts")
	assert.Contains(t, md, "Grand Hyatt ★★★★")
	assert.Contains(t, md, "| 50,000 |")
	assert.Contains(t, md, "$11.20")
}

func TestFlightCardSegments(t *testing.T) {
	md := FlightCard(samplePlan().Flight)

	assert.Contains(t, md, "JFK → HNL  08:15 → 14:05  [UA UA101]")
	assert.Contains(t, md, "_Return_")
	assert.Contains(t, md, "HNL → JFK  21:30 → 10:15  [UA UA102]")
	assert.Contains(t, md, "Miles: **30,000**")
}

func TestHotelCard(t *testing.T) {
	md := HotelCard(samplePlan().Hotel)

	assert.Contains(t, md, "**Grand Hyatt** ★★★★")
	assert.Contains(t, md, "Chain: Hyatt")
	assert.Contains(t, md, "Points: 20,000")
}

func TestPointsBreakdownTotals(t *testing.T) {
	md := PointsBreakdown(samplePlan())

	assert.Contains(t, md, "| CHASE | united_mileageplus | 30,000 | 1.35¢ | $405.00 |")
	assert.Contains(t, md, "| CHASE | world_of_hyatt | 20,000 | 2.30¢ | $460.00 |")
	assert.Contains(t, md, "**$865.00**")
	assert.Contains(t, md, "**50,000**")
}

func TestAlternativeTablesUseZeroBasedIndices(t *testing.T) {
	plan := samplePlan()

	flights := AlternativeFlights([]travel.FlightOption{plan.Flight})
	assert.Contains(t, flights, "| 0 | JFK→HNL | 08:15 |")

	hotels := AlternativeHotels([]travel.HotelOption{plan.Hotel})
	assert.Contains(t, hotels, "| 0 | Grand Hyatt |")
}

func TestPreferencesSummaryFallsBackToQuery(t *testing.T) {
	prefs := travel.DefaultPreferences()
	prefs.DestinationQuery = "hawaii"
	prefs.ResolvedDestination = "HNL"
	prefs.DepartureDate = "2026-10-01"
	prefs.ReturnDate = "2026-10-08"
	prefs.OriginAirport = "JFK"
	prefs.NonstopPreferred = true

	md := PreferencesSummary(prefs)
	assert.Contains(t, md, "**hawaii** (HNL)")
	assert.Contains(t, md, "nonstop only")
	assert.NotContains(t, md, "Date flexibility")
}

func TestBookingGuideStructure(t *testing.T) {
	md := BookingGuide(samplePlan())

	require.True(t, strings.HasPrefix(md, "# Booking Guide: Nonstop + Hyatt"))
	assert.Contains(t, md, "- **Destination**: HNL")
	assert.Contains(t, md, "- **Travel Dates**: 2026-10-01 → 2026-10-08")
	assert.Contains(t, md, "## Step 1: Transfer Points")
	assert.Contains(t, md, "### CHASE → united_mileageplus")
	assert.Contains(t, md, "https://creditcards.chase.com/ultimate-rewards/")
	assert.Contains(t, md, "## Step 2: Book the Award Flight")
	assert.Contains(t, md, "https://www.united.com/en/us/book-flight/united-awards")
	assert.Contains(t, md, "## Step 3: Book the Hotel")
	assert.Contains(t, md, "https://world.hyatt.com/content/gp/en/rewards/free-nights.html")
	assert.Contains(t, md, "## Order of Operations Summary")
}

func TestBookingGuideUnknownProgramFallbackURLs(t *testing.T) {
	plan := samplePlan()
	plan.Flight.ProgramToBook = travel.ProgramRoyalOrchidPlus
	plan.Hotel.ProgramToBook = travel.ProgramWyndhamRewards

	md := BookingGuide(plan)
	assert.Contains(t, md, "https://your-airline.com/award")
	assert.Contains(t, md, "https://your-hotel-program.com")
}

func TestFormatPoints(t *testing.T) {
	assert.Equal(t, "0", formatPoints(0))
	assert.Equal(t, "999", formatPoints(999))
	assert.Equal(t, "1,000", formatPoints(1000))
	assert.Equal(t, "1,250,000", formatPoints(1250000))
}
