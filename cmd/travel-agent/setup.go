package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ynakazat11/travel-agent/internal/profile"
	"github.com/ynakazat11/travel-agent/internal/travel"
)

// runProfileSetup is the --setup-profile wizard. It pre-fills from an
// existing profile so re-running only changes what the user types.
func (a *app) runProfileSetup() error {
	existing, err := profile.Load(a.cfg.ProfilePath, a.logger)
	if err != nil {
		return err
	}
	if existing == nil {
		existing = &profile.Profile{}
	}

	fmt.Println("Profile setup — press Enter to keep the value in brackets.")
	fmt.Println()

	prefs := &existing.Preferences
	origin, ok := a.input.ask(fmt.Sprintf("Home airport (IATA) [%s]: ", prefs.OriginAirport), prefs.OriginAirport)
	if !ok {
		return io.EOF
	}
	prefs.OriginAirport = strings.ToUpper(strings.TrimSpace(origin))

	if travelers, ok := a.input.askCount(fmt.Sprintf("Usual number of travelers [%d]: ", maxInt(prefs.NumTravelers, 1))); ok && travelers > 0 {
		prefs.NumTravelers = travelers
	} else if prefs.NumTravelers < 1 {
		prefs.NumTravelers = 1
	}

	prefs.FlightTimePreference = a.askEnum("Flight time (morning/afternoon/evening/any)",
		prefs.FlightTimePreference, string(travel.TimeAny), func(s string) bool {
			_, err := travel.ParseFlightTimePreference(s)
			return err == nil
		})
	prefs.AccommodationTier = a.askEnum("Hotel tier (budget/midrange/upscale/luxury)",
		prefs.AccommodationTier, string(travel.TierMidrange), func(s string) bool {
			_, err := travel.ParseAccommodationTier(s)
			return err == nil
		})
	prefs.PointsStrategy = a.askEnum("Points strategy (POINTS_ONLY/MIXED_OK)",
		prefs.PointsStrategy, string(travel.StrategyMixedOK), func(s string) bool {
			_, err := travel.ParsePointsStrategy(s)
			return err == nil
		})

	nonstop, ok := a.input.ask("Prefer nonstop flights? [y/N] ", "n")
	if !ok {
		return io.EOF
	}
	prefs.NonstopPreferred = strings.HasPrefix(strings.ToLower(nonstop), "y")

	fmt.Println("\nPoints balances (enter 0 for currencies you don't hold):")
	points := &existing.Points
	fields := []struct {
		label string
		value *int
	}{
		{issuerLabels[travel.IssuerChase], &points.Chase},
		{issuerLabels[travel.IssuerAmex], &points.Amex},
		{issuerLabels[travel.IssuerCiti], &points.Citi},
		{issuerLabels[travel.IssuerCapitalOne], &points.CapitalOne},
		{issuerLabels[travel.IssuerBilt], &points.Bilt},
	}
	for _, f := range fields {
		raw, ok := a.input.ask(fmt.Sprintf("  %s [%d]: ", f.label, *f.value), strconv.Itoa(*f.value))
		if !ok {
			return io.EOF
		}
		cleaned := strings.NewReplacer(",", "", " ", "").Replace(raw)
		value, err := strconv.Atoi(cleaned)
		if err != nil || value < 0 {
			fmt.Println("  Keeping previous value.")
			continue
		}
		*f.value = value
	}

	if err := profile.Save(existing, a.cfg.ProfilePath); err != nil {
		return err
	}
	fmt.Printf("\nProfile saved to %s\n", a.cfg.ProfilePath)
	return nil
}

func (a *app) askEnum(label, current, fallback string, valid func(string) bool) string {
	if current == "" {
		current = fallback
	}
	for {
		raw, ok := a.input.ask(fmt.Sprintf("%s [%s]: ", label, current), current)
		if !ok {
			return current
		}
		if valid(raw) {
			return raw
		}
		fmt.Println("  Not a valid choice.")
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
