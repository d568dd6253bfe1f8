package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"

	"github.com/ynakazat11/travel-agent/internal/amadeus"
	"github.com/ynakazat11/travel-agent/internal/config"
	"github.com/ynakazat11/travel-agent/internal/display"
	"github.com/ynakazat11/travel-agent/internal/profile"
	"github.com/ynakazat11/travel-agent/internal/transfer"
	"github.com/ynakazat11/travel-agent/internal/travel"
	"github.com/ynakazat11/travel-agent/plugin/ai"
	"github.com/ynakazat11/travel-agent/plugin/ai/agent"
)

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	input  *lineReader
	render func(string)
}

func newApp(cfg *config.Config, logger *slog.Logger) *app {
	return &app{
		cfg:    cfg,
		logger: logger,
		input:  newLineReader(os.Stdin),
		render: newMarkdownRenderer(),
	}
}

// newMarkdownRenderer prints markdown through glamour, falling back to the
// raw text when the terminal renderer cannot be constructed.
func newMarkdownRenderer() func(string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(md string) { fmt.Println(md) }
	}
	return func(md string) {
		out, err := r.Render(md)
		if err != nil {
			fmt.Println(md)
			return
		}
		fmt.Print(out)
	}
}

// run drives one full planning conversation, phase by phase.
func (a *app) run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mode := "LIVE"
	if a.cfg.Mock {
		mode = "MOCK"
	}
	a.render(fmt.Sprintf("# Travel Points Planner\n\nOptimize your award trips across Chase UR, Amex MR, Citi TY, Capital One & Bilt.\n\nMode: **%s**\n", mode))

	prof, err := profile.Load(a.cfg.ProfilePath, a.logger)
	if err != nil {
		return err
	}

	var balances []travel.PointsBalance
	profileLoaded := false
	if prof != nil && prof.HasPoints() {
		balances = prof.Balances()
		a.render(display.Portfolio(balances))
		profileLoaded = true
	} else {
		balances, err = a.promptBalances()
		if err != nil {
			return err
		}
	}

	loop, session, registry, err := a.buildAgent(balances)
	if err != nil {
		return err
	}
	if profileLoaded {
		session.ProfileLoaded = true
		session.Preferences = prof.TravelPreferences(a.logger)
	}
	session.AdvancePhase(agent.PhasePreferenceGathering)

	if profileLoaded {
		fmt.Println("\nProfile loaded! Just tell me where and when.")
	} else {
		fmt.Println("\nGreat! Now let's find your perfect trip.")
	}
	fmt.Println("Tell me where you'd like to go and I'll handle the rest.")

	if err := a.gatherPreferences(ctx, loop, session); err != nil {
		return err
	}
	if session.Phase != agent.PhaseSearching {
		return nil // user bailed out of the conversation
	}

	fmt.Println("\nSearching for the best award options…")
	if _, err := loop.Run(ctx, session, ""); err != nil {
		return err
	}
	// Fewer plans than the threshold still beat an empty exit.
	if session.Phase == agent.PhaseSearching && len(session.TripPlans) > 0 {
		session.AdvancePhase(agent.PhaseOptionsPresented)
	}

	if err := a.chooseAndFineTune(ctx, loop, session, registry); err != nil {
		return err
	}

	if session.Phase == agent.PhaseFinalizing && session.SelectedPlan != nil {
		a.finalize(session)
	}

	if !profileLoaded && prof == nil {
		a.offerProfileSave(session)
	}

	a.render("**Happy travels!**\n")
	return nil
}

func (a *app) buildAgent(balances []travel.PointsBalance) (*agent.TurnLoop, *agent.Session, *agent.Registry, error) {
	kb, err := transfer.Load(a.cfg.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}

	var search amadeus.Client
	if a.cfg.Mock {
		search = amadeus.NewMockClient()
	} else {
		search, err = amadeus.NewLiveClient(amadeus.LiveConfig{
			ClientID:     a.cfg.AmadeusClientID,
			ClientSecret: a.cfg.AmadeusClientSecret,
			BaseURL:      a.cfg.AmadeusBaseURL,
		}, a.logger)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	if a.cfg.LLMAPIKey == "" {
		return nil, nil, nil, errors.New("TRAVEL_AGENT_LLM_API_KEY is not set")
	}
	llm, err := ai.NewLLMService(&ai.Config{
		BaseURL: a.cfg.LLMBaseURL,
		APIKey:  a.cfg.LLMAPIKey,
		Model:   a.cfg.LLMModel,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	session := agent.NewSession()
	session.Balances = balances
	registry := agent.NewRegistry(search, kb, session, a.logger)
	loop := agent.NewTurnLoop(llm, registry, agent.Config{
		MaxRounds:     a.cfg.MaxToolRounds,
		PlanThreshold: a.cfg.PlanThreshold,
	}, a.render, a.logger)
	return loop, session, registry, nil
}

// gatherPreferences runs the conversational REPL until the user confirms
// the gathered preferences (or walks away).
func (a *app) gatherPreferences(ctx context.Context, loop *agent.TurnLoop, session *agent.Session) error {
	for {
		switch session.Phase {
		case agent.PhasePreferenceGathering:
			line, ok := a.input.ask("You: ", "")
			if !ok {
				fmt.Println("\nGoodbye!")
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if _, err := loop.Run(ctx, session, line); err != nil {
				return err
			}
		case agent.PhaseConfirmPreferences:
			a.render(display.PreferencesSummary(session.Preferences))
			answer, ok := a.input.ask("Look right? [Y/n] ", "y")
			if !ok || strings.HasPrefix(strings.ToLower(answer), "n") {
				if !ok {
					return nil
				}
				fmt.Println("No problem — tell me what to change.")
				session.AdvancePhase(agent.PhasePreferenceGathering)
				continue
			}
			session.AdvancePhase(agent.PhaseSearching)
			return nil
		default:
			return nil
		}
	}
}

// chooseAndFineTune cycles between the plan list and the fine-tune menu
// until the user finalizes a plan.
func (a *app) chooseAndFineTune(ctx context.Context, loop *agent.TurnLoop, session *agent.Session, registry *agent.Registry) error {
	for session.Phase != agent.PhaseFinalizing && session.Phase != agent.PhaseComplete {
		switch session.Phase {
		case agent.PhaseOptionsPresented:
			if len(session.TripPlans) == 0 {
				fmt.Println("No trip plans were assembled. Try again with different criteria.")
				return nil
			}
			a.render(display.PlansTable(session.TripPlans))
			index, fineTune, ok := a.promptPlanSelection(len(session.TripPlans))
			if !ok {
				return nil
			}
			if fineTune {
				session.FineTune.Active = true
				session.FineTune.TargetPlanIndex = index
				session.AdvancePhase(agent.PhaseFineTuning)
			} else if err := session.SelectPlan(index); err != nil {
				fmt.Println(err)
			}
		case agent.PhaseFineTuning:
			if err := a.fineTuneRound(ctx, loop, session, registry); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (a *app) fineTuneRound(ctx context.Context, loop *agent.TurnLoop, session *agent.Session, registry *agent.Registry) error {
	target := session.FineTune.TargetPlanIndex
	if target < 0 || target >= len(session.TripPlans) {
		session.FineTune.Active = false
		session.AdvancePhase(agent.PhaseOptionsPresented)
		return nil
	}
	plan := session.TripPlans[target]

	a.render(display.FlightCard(plan.Flight))
	a.render(display.HotelCard(plan.Hotel))
	a.render(display.PointsBreakdown(plan))
	a.render(fmt.Sprintf(`## Fine-Tune: %s

1. Swap outbound/inbound flight
2. Swap hotel
3. Change cabin class preference
4. Adjust travel dates
5. Done — return to plan list
`, plan.SummaryLabel))

	choice, ok := a.input.ask("Select option [1-5] ", "5")
	if !ok || choice == "5" {
		session.FineTune.Active = false
		session.AdvancePhase(agent.PhaseOptionsPresented)
		return nil
	}

	prompt := fineTunePrompt(choice, plan)
	fmt.Println("Finding alternatives…")
	if _, err := loop.Run(ctx, session, prompt); err != nil {
		return err
	}

	a.applyFineTuneSwap(session, registry, choice, target)
	session.AdvancePhase(agent.PhaseOptionsPresented)
	return nil
}

// fineTunePrompt translates a menu choice into the instruction sent to the
// model for the refinement turn.
func fineTunePrompt(choice string, plan travel.TripPlan) string {
	switch choice {
	case "1":
		origin, destination, departure, ret := "", "", "", ""
		if len(plan.Flight.OutboundSegments) > 0 {
			seg := plan.Flight.OutboundSegments[0]
			origin, destination = seg.Origin, seg.Destination
			if len(seg.DepartureTime) >= 10 {
				departure = seg.DepartureTime[:10]
			}
		}
		if len(plan.Flight.InboundSegments) > 0 && len(plan.Flight.InboundSegments[0].DepartureTime) >= 10 {
			ret = plan.Flight.InboundSegments[0].DepartureTime[:10]
		}
		return fmt.Sprintf(
			"Find alternative flights for %s→%s on %s, return %s. Show me different airlines and departure times.",
			origin, destination, departure, ret)
	case "2":
		return fmt.Sprintf(
			"Find alternative hotels in the same city (%s→%s). Show a mix of chains and point programs.",
			plan.Hotel.CheckIn, plan.Hotel.CheckOut)
	case "3":
		return "Find business class or premium economy alternatives for this route."
	case "4":
		return "Show me flight options ±3 days around my current dates for better availability."
	}
	return "Show me alternative options."
}

// applyFineTuneSwap shows the working-set alternatives and, if the user
// picks one, copies the target plan with the component replaced.
func (a *app) applyFineTuneSwap(session *agent.Session, registry *agent.Registry, choice string, target int) {
	switch {
	case choice != "2" && len(registry.LastFlights()) > 0:
		flights := registry.LastFlights()
		a.render(display.AlternativeFlights(flights))
		index, ok := a.promptAlternative(len(flights), "flight")
		if ok {
			session.TripPlans[target] = session.TripPlans[target].WithFlight(flights[index])
		}
	case choice == "2" && len(registry.LastHotels()) > 0:
		hotels := registry.LastHotels()
		a.render(display.AlternativeHotels(hotels))
		index, ok := a.promptAlternative(len(hotels), "hotel")
		if ok {
			session.TripPlans[target] = session.TripPlans[target].WithHotel(hotels[index])
		}
	}
}

// finalize renders the selected plan and the booking guide, offering to
// save the guide to disk.
func (a *app) finalize(session *agent.Session) {
	plan := *session.SelectedPlan

	a.render(display.FlightCard(plan.Flight))
	a.render(display.HotelCard(plan.Hotel))
	a.render(display.PointsBreakdown(plan))

	guide := display.BookingGuide(plan)
	a.render(guide)

	destination := "trip"
	if len(plan.Flight.OutboundSegments) > 0 {
		destination = strings.ToLower(plan.Flight.OutboundSegments[len(plan.Flight.OutboundSegments)-1].Destination)
	}
	defaultPath := guidePath(destination)
	answer, ok := a.input.ask(fmt.Sprintf("Save booking guide to %s? [Y/n] ", defaultPath), "y")
	if ok && !strings.HasPrefix(strings.ToLower(answer), "n") {
		if err := display.SaveBookingGuide(guide, defaultPath); err != nil {
			a.logger.Warn("could not save booking guide", "path", defaultPath, "error", err)
		} else {
			fmt.Printf("Booking guide saved to: %s\n", defaultPath)
		}
	}

	session.AdvancePhase(agent.PhaseComplete)
}

func guidePath(destination string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Sprintf("trip-guide-%s.md", destination)
	}
	return filepath.Join(home, "Downloads", fmt.Sprintf("trip-guide-%s.md", destination))
}

// offerProfileSave writes a profile after a successful run without one.
func (a *app) offerProfileSave(session *agent.Session) {
	answer, ok := a.input.ask("Save your points & preferences for next time? [Y/n] ", "y")
	if !ok || strings.HasPrefix(strings.ToLower(answer), "n") {
		return
	}
	prof := profile.FromSession(session.Balances, session.Preferences)
	if err := profile.Save(prof, a.cfg.ProfilePath); err != nil {
		a.logger.Warn("could not save profile", "path", a.cfg.ProfilePath, "error", err)
		return
	}
	fmt.Printf("Profile saved to %s\n", a.cfg.ProfilePath)
}
