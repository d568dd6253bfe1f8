package travel

import "github.com/pkg/errors"

// PointsStrategy controls whether the planner may mix cash bookings into a
// points-funded trip.
type PointsStrategy string

const (
	StrategyPointsOnly PointsStrategy = "POINTS_ONLY"
	StrategyMixedOK    PointsStrategy = "MIXED_OK"
)

// ParsePointsStrategy converts a string to a PointsStrategy.
func ParsePointsStrategy(s string) (PointsStrategy, error) {
	switch PointsStrategy(s) {
	case StrategyPointsOnly, StrategyMixedOK:
		return PointsStrategy(s), nil
	}
	return "", errors.Errorf("unknown points strategy: %q", s)
}

// FlightTimePreference is the preferred departure window for the outbound leg.
type FlightTimePreference string

const (
	TimeMorning   FlightTimePreference = "morning"   // 06:00-12:00
	TimeAfternoon FlightTimePreference = "afternoon" // 12:00-18:00
	TimeEvening   FlightTimePreference = "evening"   // 18:00-24:00
	TimeAny       FlightTimePreference = "any"
)

// ParseFlightTimePreference converts a string to a FlightTimePreference.
func ParseFlightTimePreference(s string) (FlightTimePreference, error) {
	switch FlightTimePreference(s) {
	case TimeMorning, TimeAfternoon, TimeEvening, TimeAny:
		return FlightTimePreference(s), nil
	}
	return "", errors.Errorf("unknown flight time preference: %q", s)
}

// AccommodationTier buckets hotels by star rating.
type AccommodationTier string

const (
	TierBudget   AccommodationTier = "budget"   // 1-2 star
	TierMidrange AccommodationTier = "midrange" // 3 star
	TierUpscale  AccommodationTier = "upscale"  // 4 star
	TierLuxury   AccommodationTier = "luxury"   // 5 star
)

// ParseAccommodationTier converts a string to an AccommodationTier.
func ParseAccommodationTier(s string) (AccommodationTier, error) {
	switch AccommodationTier(s) {
	case TierBudget, TierMidrange, TierUpscale, TierLuxury:
		return AccommodationTier(s), nil
	}
	return "", errors.Errorf("unknown accommodation tier: %q", s)
}

// StarRange returns the inclusive star-rating band for the tier.
func (t AccommodationTier) StarRange() (lo, hi float64) {
	switch t {
	case TierBudget:
		return 1, 2.5
	case TierMidrange:
		return 2.5, 3.5
	case TierUpscale:
		return 3.5, 4.5
	case TierLuxury:
		return 4.5, 6
	}
	return 1, 6
}

// TravelPreferences is the negotiated set of trip parameters gathered during
// the conversation. A session starts with DefaultPreferences and overwrites
// the whole value when the agent signals preferences are complete.
type TravelPreferences struct {
	DestinationQuery       string               // free-text, as the user said it
	ResolvedDestination    string               // IATA city/airport code
	DestinationDisplayName string               // e.g. "Sedona, AZ"
	PointsStrategy         PointsStrategy
	DepartureDate          string               // ISO date YYYY-MM-DD
	ReturnDate             string               // ISO date YYYY-MM-DD
	DateFlexibilityDays    int                  // 0-14
	NumTravelers           int
	FlightTimePreference   FlightTimePreference
	AccommodationTier      AccommodationTier
	NonstopPreferred       bool
	OriginAirport          string               // IATA airport code
}

// DefaultPreferences returns the session-start preference set.
func DefaultPreferences() TravelPreferences {
	return TravelPreferences{
		PointsStrategy:       StrategyMixedOK,
		NumTravelers:         1,
		FlightTimePreference: TimeAny,
		AccommodationTier:    TierMidrange,
	}
}

// IsFullySpecified reports whether enough has been gathered to search:
// resolved destination, both dates, origin, and at least one traveler.
func (p TravelPreferences) IsFullySpecified() bool {
	return p.ResolvedDestination != "" &&
		p.DepartureDate != "" &&
		p.ReturnDate != "" &&
		p.OriginAirport != "" &&
		p.NumTravelers >= 1
}
