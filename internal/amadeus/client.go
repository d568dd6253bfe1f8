// Package amadeus adapts the Amadeus self-service APIs to the planner's
// search needs. A deterministic offline client backs --mock mode and tests.
package amadeus

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

// FlightQuery describes one round-trip award search.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Travelers     int
	Nonstop       bool
	MaxResults    int
}

const defaultMaxResults = 5

func (q FlightQuery) maxResults() int {
	if q.MaxResults > 0 {
		return q.MaxResults
	}
	return defaultMaxResults
}

// GeoPoint is a latitude/longitude pair for destinations without a usable
// city code.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// HotelQuery describes a hotel search, located either by IATA city code or
// by coordinates. Exactly one of CityCode and Geo must be set.
type HotelQuery struct {
	CityCode   string
	Geo        *GeoPoint
	CheckIn    string
	CheckOut   string
	Travelers  int
	MaxResults int
}

func (q HotelQuery) maxResults() int {
	if q.MaxResults > 0 {
		return q.MaxResults
	}
	return defaultMaxResults
}

// ErrNoLocation is returned when a hotel query carries neither a city code
// nor coordinates.
var ErrNoLocation = errors.New("hotel search needs a city code or latitude+longitude")

// Validate checks the location constraint.
func (q HotelQuery) Validate() error {
	if q.CityCode == "" && q.Geo == nil {
		return ErrNoLocation
	}
	return nil
}

// WebHotel is one cash-booking suggestion from a web search.
type WebHotel struct {
	Name           string  `json:"name"`
	NightlyRateUSD int     `json:"nightly_rate_usd"`
	StarRating     float64 `json:"star_rating"`
	CheckIn        string  `json:"check_in"`
	CheckOut       string  `json:"check_out"`
	URL            string  `json:"url"`
}

// WebSearchResult carries cash-booking suggestions plus a note the agent is
// expected to relay. These options are never points-bookable.
type WebSearchResult struct {
	Source  string     `json:"source"`
	Results []WebHotel `json:"results"`
	Note    string     `json:"note"`
}

// Client is the search provider boundary.
type Client interface {
	SearchFlights(ctx context.Context, q FlightQuery) ([]travel.FlightOption, error)
	SearchHotels(ctx context.Context, q HotelQuery) ([]travel.HotelOption, error)
	WebSearchHotels(ctx context.Context, destination, checkIn, checkOut, tier string) (WebSearchResult, error)
}

// nonstopOnly keeps flights with a single leg in each direction.
func nonstopOnly(flights []travel.FlightOption) []travel.FlightOption {
	out := flights[:0:0]
	for _, f := range flights {
		if f.Nonstop() {
			out = append(out, f)
		}
	}
	return out
}
