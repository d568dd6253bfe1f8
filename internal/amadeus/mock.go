package amadeus

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

// MockClient returns stable, reproducible candidates without touching the
// network. It backs --mock mode and the test suite.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

var mockTaxes = decimal.RequireFromString("11.20")

type mockAirline struct {
	program travel.Program
	issuer  travel.Issuer
	code    string
	miles   int
}

var mockAirlines = []mockAirline{
	{travel.ProgramUnitedMileagePlus, travel.IssuerChase, "UA", 30000},
	{travel.ProgramAmericanAAdvantage, travel.IssuerBilt, "AA", 25000},
	{travel.ProgramFlyingBlue, travel.IssuerAmex, "AF", 27500},
}

func (m *MockClient) SearchFlights(_ context.Context, q FlightQuery) ([]travel.FlightOption, error) {
	flights := make([]travel.FlightOption, 0, len(mockAirlines)+1)
	for _, a := range mockAirlines {
		flights = append(flights, travel.FlightOption{
			OutboundSegments: []travel.FlightSegment{{
				Origin:        q.Origin,
				Destination:   q.Destination,
				DepartureTime: q.DepartureDate + "T08:00:00",
				ArrivalTime:   q.DepartureDate + "T14:00:00",
				Airline:       a.code,
				FlightNumber:  a.code + "101",
			}},
			InboundSegments: []travel.FlightSegment{{
				Origin:        q.Destination,
				Destination:   q.Origin,
				DepartureTime: q.ReturnDate + "T15:00:00",
				ArrivalTime:   q.ReturnDate + "T21:00:00",
				Airline:       a.code,
				FlightNumber:  a.code + "102",
			}},
			TotalMilesRequired:  a.miles,
			ProgramToBook:       a.program,
			SourceIssuer:        a.issuer,
			TransferPartnerUsed: string(a.program),
			CashTaxesUSD:        mockTaxes,
			OfferID:             fmt.Sprintf("mock-%s-%s", a.code, q.DepartureDate),
		})
	}
	flights = append(flights, m.connectingFlight(q))
	if q.Nonstop {
		flights = nonstopOnly(flights)
	}
	return flights, nil
}

// connectingFlight routes through DEN in both directions.
func (m *MockClient) connectingFlight(q FlightQuery) travel.FlightOption {
	return travel.FlightOption{
		OutboundSegments: []travel.FlightSegment{
			{
				Origin:        q.Origin,
				Destination:   "DEN",
				DepartureTime: q.DepartureDate + "T06:30:00",
				ArrivalTime:   q.DepartureDate + "T09:00:00",
				Airline:       "DL",
				FlightNumber:  "DL201",
			},
			{
				Origin:        "DEN",
				Destination:   q.Destination,
				DepartureTime: q.DepartureDate + "T10:15:00",
				ArrivalTime:   q.DepartureDate + "T16:00:00",
				Airline:       "DL",
				FlightNumber:  "DL202",
			},
		},
		InboundSegments: []travel.FlightSegment{
			{
				Origin:        q.Destination,
				Destination:   "DEN",
				DepartureTime: q.ReturnDate + "T12:00:00",
				ArrivalTime:   q.ReturnDate + "T17:30:00",
				Airline:       "DL",
				FlightNumber:  "DL203",
			},
			{
				Origin:        "DEN",
				Destination:   q.Origin,
				DepartureTime: q.ReturnDate + "T18:45:00",
				ArrivalTime:   q.ReturnDate + "T21:30:00",
				Airline:       "DL",
				FlightNumber:  "DL204",
			},
		},
		TotalMilesRequired:  22000,
		ProgramToBook:       travel.ProgramDeltaSkyMiles,
		SourceIssuer:        travel.IssuerAmex,
		TransferPartnerUsed: string(travel.ProgramDeltaSkyMiles),
		CashTaxesUSD:        mockTaxes,
		OfferID:             fmt.Sprintf("mock-DL-%s", q.DepartureDate),
	}
}

type mockHotel struct {
	name    string
	chain   string
	program travel.Program
	issuer  travel.Issuer
	stars   float64
	points  int
}

var mockCityHotels = []mockHotel{
	{"Grand Hyatt", "Park Hyatt", travel.ProgramWorldOfHyatt, travel.IssuerChase, 4.5, 20000},
	{"Hilton Garden Inn", "Hilton", travel.ProgramHiltonHonors, travel.IssuerAmex, 3.5, 40000},
	{"Marriott Waikiki", "Marriott", travel.ProgramMarriottBonvoy, travel.IssuerAmex, 4.0, 35000},
}

// mockGeoArea names a well-known coordinate neighborhood and the limited
// points inventory there. Deliberately thin so tier mismatches occur and the
// web-search fallback gets exercised.
type mockGeoArea struct {
	label    string
	lat, lon float64
	hotels   []mockHotel
}

var mockGeoAreas = []mockGeoArea{
	{
		label: "Sedona, AZ",
		lat:   34.87, lon: -111.76,
		hotels: []mockHotel{
			{"Courtyard Sedona", "Marriott", travel.ProgramMarriottBonvoy, travel.IssuerAmex, 3.0, 30000},
			{"Hampton Inn Sedona", "Hilton", travel.ProgramHiltonHonors, travel.IssuerAmex, 2.5, 35000},
		},
	},
	{
		label: "Napa Valley, CA",
		lat:   38.30, lon: -122.29,
		hotels: []mockHotel{
			{"Hyatt House Napa", "Hyatt", travel.ProgramWorldOfHyatt, travel.IssuerChase, 3.0, 17000},
		},
	},
}

func (m *MockClient) SearchHotels(_ context.Context, q HotelQuery) ([]travel.HotelOption, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	hotels := mockCityHotels
	if q.Geo != nil {
		hotels = nil
		for _, area := range mockGeoAreas {
			if math.Abs(area.lat-q.Geo.Latitude) < 0.5 && math.Abs(area.lon-q.Geo.Longitude) < 0.5 {
				hotels = area.hotels
				break
			}
		}
	}
	out := make([]travel.HotelOption, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, travel.HotelOption{
			HotelName:           h.name,
			HotelChain:          h.chain,
			StarRating:          h.stars,
			CheckIn:             q.CheckIn,
			CheckOut:            q.CheckOut,
			TotalPointsRequired: h.points,
			ProgramToBook:       h.program,
			SourceIssuer:        h.issuer,
			HotelID:             "mock-" + strings.ReplaceAll(strings.ToLower(h.name), " ", "-"),
		})
	}
	return out, nil
}

type mockWebTier map[string][]WebHotel

var mockWebHotels = map[string]mockWebTier{
	"sedona": {
		"luxury": {
			{Name: "Enchantment Resort", NightlyRateUSD: 650, StarRating: 5.0, URL: "https://enchantmentresort.com"},
			{Name: "L'Auberge de Sedona", NightlyRateUSD: 550, StarRating: 5.0, URL: "https://lauberge.com"},
			{Name: "Ambiente, A Landscape Hotel", NightlyRateUSD: 900, StarRating: 5.0, URL: "https://ambientesedona.com"},
		},
		"upscale": {
			{Name: "Hilton Sedona Resort at Bell Rock", NightlyRateUSD: 300, StarRating: 4.0, URL: "https://hilton.com"},
			{Name: "The Wilde Resort & Spa", NightlyRateUSD: 350, StarRating: 4.5, URL: "https://thewildesedona.com"},
		},
	},
	"napa": {
		"luxury": {
			{Name: "Meadowood Napa Valley", NightlyRateUSD: 800, StarRating: 5.0, URL: "https://meadowood.com"},
			{Name: "Calistoga Ranch", NightlyRateUSD: 700, StarRating: 5.0, URL: "https://calistogaranch.com"},
		},
	},
}

const webSearchCaveat = "These are cash-booking options found via web search, not points-bookable."

func (m *MockClient) WebSearchHotels(_ context.Context, destination, checkIn, checkOut, tier string) (WebSearchResult, error) {
	destLower := strings.ToLower(destination)
	for key, tiers := range mockWebHotels {
		if !strings.Contains(destLower, key) {
			continue
		}
		results, ok := tiers[tier]
		if !ok {
			results = tiers["luxury"]
		}
		stamped := make([]WebHotel, len(results))
		for i, r := range results {
			r.CheckIn = checkIn
			r.CheckOut = checkOut
			stamped[i] = r
		}
		return WebSearchResult{Source: "web_search", Results: stamped, Note: webSearchCaveat}, nil
	}

	rates := map[string]int{"budget": 80, "midrange": 150, "upscale": 300, "luxury": 500}
	stars := map[string]float64{"budget": 2.0, "midrange": 3.0, "upscale": 4.0, "luxury": 5.0}
	rate, ok := rates[tier]
	if !ok {
		rate = 200
	}
	star, ok := stars[tier]
	if !ok {
		star = 3.0
	}
	return WebSearchResult{
		Source: "web_search",
		Results: []WebHotel{{
			Name:           fmt.Sprintf("Top %s Hotel in %s", titleCase(tier), destination),
			NightlyRateUSD: rate,
			StarRating:     star,
			CheckIn:        checkIn,
			CheckOut:       checkOut,
		}},
		Note: fmt.Sprintf("Generic %s suggestion for %s. Search Google Hotels or Booking.com for specific options.", tier, destination),
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
