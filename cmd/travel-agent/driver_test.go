package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

func TestFineTunePromptChoices(t *testing.T) {
	plan := travel.TripPlan{
		Flight: travel.FlightOption{
			OutboundSegments: []travel.FlightSegment{{
				Origin: "JFK", Destination: "HNL", DepartureTime: "2026-10-01T08:15:00",
			}},
			InboundSegments: []travel.FlightSegment{{
				Origin: "HNL", Destination: "JFK", DepartureTime: "2026-10-08T21:30:00",
			}},
		},
		Hotel: travel.HotelOption{CheckIn: "2026-10-01", CheckOut: "2026-10-08"},
	}

	assert.Equal(t,
		"Find alternative flights for JFK→HNL on 2026-10-01, return 2026-10-08. Show me different airlines and departure times.",
		fineTunePrompt("1", plan))
	assert.Contains(t, fineTunePrompt("2", plan), "2026-10-01→2026-10-08")
	assert.Contains(t, fineTunePrompt("3", plan), "business class")
	assert.Contains(t, fineTunePrompt("4", plan), "±3 days")
	assert.Equal(t, "Show me alternative options.", fineTunePrompt("7", plan))
}

func TestClampPlanIndex(t *testing.T) {
	assert.Equal(t, 0, clampPlanIndex("1", 3))
	assert.Equal(t, 2, clampPlanIndex("3", 3))
	assert.Equal(t, 0, clampPlanIndex("4", 3))   // out of range
	assert.Equal(t, 0, clampPlanIndex("abc", 3)) // not a number
}

func TestLineReaderDefaults(t *testing.T) {
	r := newLineReader(strings.NewReader("\nhello\n"))

	value, ok := r.ask("> ", "fallback")
	assert.True(t, ok)
	assert.Equal(t, "fallback", value)

	value, ok = r.ask("> ", "fallback")
	assert.True(t, ok)
	assert.Equal(t, "hello", value)

	_, ok = r.ask("> ", "fallback")
	assert.False(t, ok, "closed stream should report not-ok")
}

func TestAskCountRejectsGarbageThenAccepts(t *testing.T) {
	r := newLineReader(strings.NewReader("abc\n-5\n75,000\n"))

	value, ok := r.askCount("points: ")
	assert.True(t, ok)
	assert.Equal(t, 75000, value)
}
