package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFullySpecifiedByDefault(t *testing.T) {
	assert.False(t, DefaultPreferences().IsFullySpecified())
}

func TestFullySpecified(t *testing.T) {
	p := DefaultPreferences()
	p.DestinationQuery = "Hawaii"
	p.ResolvedDestination = "HNL"
	p.OriginAirport = "JFK"
	p.DepartureDate = "2026-04-15"
	p.ReturnDate = "2026-04-22"
	p.NumTravelers = 2
	assert.True(t, p.IsFullySpecified())
}

func TestMissingReturnDate(t *testing.T) {
	p := DefaultPreferences()
	p.ResolvedDestination = "HNL"
	p.OriginAirport = "JFK"
	p.DepartureDate = "2026-04-15"
	assert.False(t, p.IsFullySpecified())
}

func TestTierStarRange(t *testing.T) {
	lo, hi := TierLuxury.StarRange()
	assert.Equal(t, 4.5, lo)
	assert.Equal(t, 6.0, hi)

	lo, hi = TierBudget.StarRange()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 2.5, hi)
}

func TestParseEnums(t *testing.T) {
	_, err := ParsePointsStrategy("POINTS_ONLY")
	assert.NoError(t, err)
	_, err = ParsePointsStrategy("points_only")
	assert.Error(t, err)

	_, err = ParseFlightTimePreference("evening")
	assert.NoError(t, err)
	_, err = ParseFlightTimePreference("red-eye")
	assert.Error(t, err)

	_, err = ParseAccommodationTier("upscale")
	assert.NoError(t, err)
	_, err = ParseAccommodationTier("hostel")
	assert.Error(t, err)
}
