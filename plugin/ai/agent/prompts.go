package agent

import (
	"fmt"
	"strings"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

const maxInterpolatedLen = 100

// sanitizePromptText strips control characters and truncates user-supplied
// text before it is interpolated into instruction text. Keeps adversarial
// input from injecting instructions or blowing up the prompt.
func sanitizePromptText(s string) string {
	var b strings.Builder
	count := 0
	for _, r := range s {
		if count == maxInterpolatedLen {
			break
		}
		if r < 0x20 || r == 0x7f {
			r = ' '
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}

// BuildSystemPrompt renders the instruction text for one model call. Pure
// function of session state; recomputed every round because phase and
// preferences can change mid-turn.
func BuildSystemPrompt(session *Session) string {
	return fmt.Sprintf(`You are an expert travel points advisor helping a user plan an award trip.

## User's Points Portfolio
%s

## Your Role
%s

## Core Principles
- Always calculate actual points requirements before recommending transfers.
- Bilt Rewards is the ONLY issuer with a 1:1 transfer to American Airlines AAdvantage — highlight this advantage when AA is relevant.
- When computing transfer math: source_points_needed = ceil(destination_points * ratio_from / ratio_to).
- Present CPP (cents per point) comparisons to help the user understand relative value.
- Be conversational and concise. Do not ask multiple questions at once.
- When you have enough information to search, call mark_preferences_complete immediately.
- IMPORTANT: When calling mark_preferences_complete, do NOT include questions or suggestions in the same response. Just confirm what you're doing. The user will have a chance to refine after reviewing the preferences summary.

## Tool Usage Policy
- resolve_destination: Call when destination is ambiguous or described in plain language.
- search_flights: Call with exact IATA codes and dates.
- search_hotels: Call after you have a resolved city code.
- lookup_transfer_options: Call before calculate_trip_cost to verify coverage.
- calculate_trip_cost: Call to finalize each trip plan — aim for 3-5 distinct plans.
- web_search_hotels: Fallback when search_hotels results don't match the user's accommodation tier. Returns cash-booking options.
- get_alternative_flights / get_alternative_hotels: Only during FINE_TUNING phase.
- mark_preferences_complete: Call as soon as you have: destination, origin, dates, travelers, strategy, flight pref, accommodation pref, nonstop pref.
`, formatBalances(session), phaseInstructions(session))
}

func formatBalances(session *Session) string {
	if len(session.Balances) == 0 {
		return "  (not yet entered)"
	}
	lines := make([]string, 0, len(session.Balances))
	for _, b := range session.Balances {
		lines = append(lines, fmt.Sprintf("  - %s: %s %s",
			strings.ToUpper(string(b.Issuer)), formatPoints(b.Balance), b.Program))
	}
	return strings.Join(lines, "\n")
}

// formatPoints renders 1234567 as "1,234,567".
func formatPoints(n int) string {
	s := fmt.Sprint(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func phaseInstructions(session *Session) string {
	switch session.Phase {
	case PhasePreferenceGathering:
		return gatheringInstructions(session)
	case PhaseSearching:
		return searchingInstructions(session)
	case PhaseFineTuning:
		return "The user wants to fine-tune their selected plan. " +
			"Use get_alternative_flights or get_alternative_hotels as requested. " +
			"Present alternatives clearly. Do not call calculate_trip_cost unless the user confirms a swap."
	default:
		return "Assist the user with their travel planning."
	}
}

func gatheringInstructions(session *Session) string {
	if session.ProfileLoaded {
		p := session.Preferences
		return fmt.Sprintf(
			"The user has a saved profile with these defaults:\n"+
				"  - Origin airport: %s\n"+
				"  - Travelers: %d\n"+
				"  - Flight time: %s\n"+
				"  - Accommodation: %s\n"+
				"  - Points strategy: %s\n"+
				"  - Nonstop preferred: %t\n\n"+
				"Do NOT re-ask about these. Focus on destination, dates, and flexibility. "+
				"The user can override any default by mentioning it. "+
				"When you have destination and dates, call mark_preferences_complete "+
				"including ALL fields (use the defaults above for anything the user didn't override).",
			p.OriginAirport, p.NumTravelers, p.FlightTimePreference,
			p.AccommodationTier, p.PointsStrategy, p.NonstopPreferred)
	}
	return "Gather travel preferences through friendly conversation. You need: " +
		"destination, origin airport, departure/return dates, date flexibility (0-14 days), " +
		"number of travelers, flight time preference (morning/afternoon/evening/any), " +
		"accommodation tier (budget/midrange/upscale/luxury), nonstop preference " +
		"(direct flights preferred or connections OK), and points strategy " +
		"(POINTS_ONLY or MIXED_OK). Ask one or two things at a time. " +
		"When you have everything, call mark_preferences_complete."
}

func searchingInstructions(session *Session) string {
	prefs := session.Preferences
	displayDest := sanitizePromptText(fallback(prefs.DestinationDisplayName, prefs.DestinationQuery))
	iataDest := fallback(prefs.ResolvedDestination, "unresolved")

	var strategyGuidance string
	if prefs.PointsStrategy == travel.StrategyPointsOnly {
		strategyGuidance = "Prefer high-CPP options and diverse issuer usage."
	} else {
		strategyGuidance = fmt.Sprintf(
			"Location match is more important than points optimization. "+
				"The user wants to stay in or near %s. "+
				"If the destination does not have its own IATA city code, search hotels using "+
				"latitude and longitude coordinates instead of the nearest major city's code. "+
				"For example, for Sedona use latitude=34.87, longitude=-111.76 rather than "+
				"city_code='PHX'. This ensures hotel results are actually near the destination.",
			displayDest)
	}

	nonstopGuidance := ""
	if prefs.NonstopPreferred {
		nonstopGuidance = "The user prefers nonstop flights. Search with nonstop=true first. " +
			"If no results, retry with nonstop=false and note that only connecting flights are available. "
	}

	hotelFallbackGuidance := fmt.Sprintf(
		"If hotel results from search_hotels do not match the user's accommodation tier (%s), "+
			"call web_search_hotels as a fallback. Label web results as cash-booking options. ",
		prefs.AccommodationTier)

	return fmt.Sprintf(
		"Search autonomously for the best award trip options. "+
			"Destination: %s (IATA: %s). Origin: %s. "+
			"Dates: %s → %s (±%d days flexibility). Travelers: %d. Strategy: %s. "+
			"Chain tools: resolve_destination (if needed) → search_flights → search_hotels "+
			"→ lookup_transfer_options → calculate_trip_cost. "+
			"Build 3-5 trip plans with different flight/hotel/issuer combinations. "+
			"%s %s%s",
		displayDest, iataDest, prefs.OriginAirport,
		prefs.DepartureDate, prefs.ReturnDate, prefs.DateFlexibilityDays,
		prefs.NumTravelers, prefs.PointsStrategy,
		strategyGuidance, nonstopGuidance, hotelFallbackGuidance)
}
