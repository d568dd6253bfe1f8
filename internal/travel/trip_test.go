package travel

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(origin, dest string) FlightSegment {
	return FlightSegment{
		Origin:        origin,
		Destination:   dest,
		DepartureTime: "2026-04-15T08:00:00",
		ArrivalTime:   "2026-04-15T14:00:00",
		Airline:       "UA",
		FlightNumber:  "UA101",
	}
}

func samplePlan() TripPlan {
	flight := FlightOption{
		OutboundSegments:   []FlightSegment{segment("JFK", "HNL")},
		InboundSegments:    []FlightSegment{segment("HNL", "JFK")},
		TotalMilesRequired: 30_000,
		ProgramToBook:      ProgramUnitedMileagePlus,
		SourceIssuer:       IssuerChase,
	}
	hotel := HotelOption{
		HotelName:           "Grand Hyatt",
		CheckIn:             "2026-04-15",
		CheckOut:            "2026-04-22",
		TotalPointsRequired: 20_000,
		ProgramToBook:       ProgramWorldOfHyatt,
		SourceIssuer:        IssuerChase,
	}
	return TripPlan{
		Flight: flight,
		Hotel:  hotel,
		PointsBreakdown: []PointsCostBreakdown{
			{Issuer: IssuerChase, Program: ProgramUnitedMileagePlus, PointsUsed: 30_000, CPP: decimal.RequireFromString("1.35")},
			{Issuer: IssuerChase, Program: ProgramWorldOfHyatt, PointsUsed: 20_000, CPP: decimal.RequireFromString("2.30")},
		},
	}
}

func TestCashValueUSD(t *testing.T) {
	b := PointsCostBreakdown{
		Issuer:     IssuerChase,
		Program:    ProgramUnitedMileagePlus,
		PointsUsed: 30_000,
		CPP:        decimal.RequireFromString("1.35"),
	}
	// 30000 * 1.35 / 100 = 405.00
	assert.True(t, b.CashValueUSD().Equal(decimal.RequireFromString("405.00")),
		"got %s", b.CashValueUSD())
}

func TestEffectiveCPP(t *testing.T) {
	b := PointsCostBreakdown{
		Issuer:     IssuerChase,
		Program:    ProgramChaseUR,
		PointsUsed: 10_000,
		CPP:        decimal.RequireFromString("2.05"),
	}
	assert.True(t, b.EffectiveCPP().Equal(decimal.RequireFromString("2.050")),
		"got %s", b.EffectiveCPP())
}

func TestEffectiveCPPZeroPoints(t *testing.T) {
	b := PointsCostBreakdown{
		Issuer:     IssuerChase,
		Program:    ProgramWorldOfHyatt,
		PointsUsed: 0,
		CPP:        decimal.RequireFromString("2.30"),
	}
	assert.True(t, b.EffectiveCPP().IsZero())
}

func TestBlendedCPP(t *testing.T) {
	plan := samplePlan()
	// Value = 30000*1.35/100 + 20000*2.30/100 = 405 + 460 = 865.
	// Points = 50000. Blended = 865/50000*100 = 1.730.
	assert.True(t, plan.BlendedCPP().Equal(decimal.RequireFromString("1.730")),
		"got %s", plan.BlendedCPP())
}

func TestBlendedCPPZeroPoints(t *testing.T) {
	plan := samplePlan()
	plan.PointsBreakdown = nil
	assert.True(t, plan.BlendedCPP().IsZero())
}

func TestBlendedCPPIdempotent(t *testing.T) {
	plan := samplePlan()
	first := plan.BlendedCPP()
	second := plan.BlendedCPP()
	assert.True(t, first.Equal(second))
}

func TestWithIssuerDoesNotMutate(t *testing.T) {
	original := samplePlan().Flight
	retagged := original.WithIssuer(IssuerBilt)
	assert.Equal(t, IssuerChase, original.SourceIssuer)
	assert.Equal(t, IssuerBilt, retagged.SourceIssuer)
}

func TestWithFlightCopies(t *testing.T) {
	plan := samplePlan()
	alt := plan.Flight
	alt.TotalMilesRequired = 25_000
	replaced := plan.WithFlight(alt)
	require.Equal(t, 30_000, plan.Flight.TotalMilesRequired)
	assert.Equal(t, 25_000, replaced.Flight.TotalMilesRequired)
}

func TestNonstop(t *testing.T) {
	f := samplePlan().Flight
	assert.True(t, f.Nonstop())
	f.OutboundSegments = append(f.OutboundSegments, segment("ORD", "HNL"))
	assert.False(t, f.Nonstop())
}
