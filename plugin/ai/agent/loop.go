package agent

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/ynakazat11/travel-agent/internal/travel"
	"github.com/ynakazat11/travel-agent/plugin/ai"
)

// Config bounds the turn loop. The defaults match long-observed behavior but
// carry no derived rationale, so they stay tunable.
type Config struct {
	// MaxRounds caps model round-trips per user turn. Safety valve, not a
	// normal exit path.
	MaxRounds int

	// PlanThreshold is the candidate count that moves Searching to
	// OptionsPresented and prunes the transcript.
	PlanThreshold int
}

const (
	DefaultMaxRounds     = 20
	DefaultPlanThreshold = 3
)

// TextCallback receives the model's free text the moment it arrives, before
// any requested action runs, so the user sees progress during long chains.
type TextCallback func(text string)

// TurnLoop drives one user turn: repeated model calls with synchronous
// action dispatch in between, until the model stops asking for actions or
// the round cap is hit.
type TurnLoop struct {
	llm      ai.LLMService
	registry *Registry
	config   Config
	onText   TextCallback
	logger   *slog.Logger
}

func NewTurnLoop(llm ai.LLMService, registry *Registry, cfg Config, onText TextCallback, logger *slog.Logger) *TurnLoop {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.PlanThreshold <= 0 {
		cfg.PlanThreshold = DefaultPlanThreshold
	}
	return &TurnLoop{
		llm:      llm,
		registry: registry,
		config:   cfg,
		onText:   onText,
		logger:   logger,
	}
}

// Run executes one turn. A non-empty userInput is appended to the transcript
// before the first model call; pass "" for autonomous turns (e.g. the search
// kickoff). Returns the trip plans assembled during this turn. Model-call
// failures are fatal to the turn and propagate; action failures are fed back
// to the model as structured results instead.
func (l *TurnLoop) Run(ctx context.Context, session *Session, userInput string) ([]travel.TripPlan, error) {
	if userInput != "" {
		session.AddUserText(userInput)
	}

	var newPlans []travel.TripPlan
	for round := 1; round <= l.config.MaxRounds; round++ {
		// Recomposed every round: phase or preferences may have changed
		// mid-turn.
		messages := append(
			[]ai.Message{{Role: "system", Content: BuildSystemPrompt(session)}},
			session.Messages()...,
		)
		resp, err := l.llm.ChatWithTools(ctx, messages, l.registry.Catalog())
		if err != nil {
			return newPlans, errors.Wrapf(err, "model call failed (round %d)", round)
		}

		if resp.Content != "" && l.onText != nil {
			l.onText(resp.Content)
		}

		if len(resp.ToolCalls) == 0 {
			if !resp.Done() {
				l.logger.Warn("model stopped with unexpected finish reason",
					"finish_reason", resp.FinishReason, "round", round)
			}
			session.AddAssistantText(resp.Content)
			return newPlans, nil
		}

		requests := make([]ActionRequest, len(resp.ToolCalls))
		results := make([]ActionResult, len(resp.ToolCalls))
		for i, tc := range resp.ToolCalls {
			requests[i] = ActionRequest{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}
			// Strictly in model order: a later action may reference indices
			// a prior one just established.
			result := l.registry.Execute(ctx, tc.Function.Name, tc.Function.Arguments)
			results[i] = ActionResult{CallID: tc.ID, Name: tc.Function.Name, Content: result}

			if plan := l.applyTransition(session, tc.Function.Name, tc.Function.Arguments, result); plan != nil {
				newPlans = append(newPlans, *plan)
			}
		}
		// Appended after transitions: pruning inside a transition must not
		// eat this round's own entries.
		session.AddActionRequest(resp.Content, requests)
		session.AddActionResults(results)
	}

	l.logger.Warn("turn hit round cap", "max_rounds", l.config.MaxRounds)
	return newPlans, nil
}

// applyTransition inspects one executed action and advances the state
// machine. Returns the trip plan if the action assembled one.
func (l *TurnLoop) applyTransition(session *Session, name, argsJSON, resultJSON string) *travel.TripPlan {
	switch name {
	case "mark_preferences_complete":
		l.completePreferences(session, argsJSON)
		return nil
	case "calculate_trip_cost":
		return l.collectPlan(session, resultJSON)
	default:
		return nil
	}
}

type preferencesPayload struct {
	DestinationQuery       string `json:"destination_query"`
	ResolvedDestination    string `json:"resolved_destination"`
	DestinationDisplayName string `json:"destination_display_name"`
	OriginAirport          string `json:"origin_airport"`
	DepartureDate          string `json:"departure_date"`
	ReturnDate             string `json:"return_date"`
	DateFlexibilityDays    int    `json:"date_flexibility_days"`
	NumTravelers           int    `json:"num_travelers"`
	FlightTimePreference   string `json:"flight_time_preference"`
	AccommodationTier      string `json:"accommodation_tier"`
	PointsStrategy         string `json:"points_strategy"`
	NonstopPreferred       *bool  `json:"nonstop_preferred"`
}

// completePreferences overwrites the session preferences from the payload,
// falling back to current values (possibly profile-derived) for anything
// omitted or blank, then moves to ConfirmPreferences. An incomplete payload
// leaves the phase alone so the model keeps gathering.
func (l *TurnLoop) completePreferences(session *Session, argsJSON string) {
	var p preferencesPayload
	if err := json.Unmarshal([]byte(argsJSON), &p); err != nil {
		l.logger.Warn("mark_preferences_complete payload not parseable", "error", err)
		return
	}
	existing := session.Preferences

	prefs := travel.TravelPreferences{
		DestinationQuery:       p.DestinationQuery,
		ResolvedDestination:    p.ResolvedDestination,
		DestinationDisplayName: fallback(p.DestinationDisplayName, p.DestinationQuery),
		OriginAirport:          fallback(p.OriginAirport, existing.OriginAirport),
		DepartureDate:          p.DepartureDate,
		ReturnDate:             p.ReturnDate,
		DateFlexibilityDays:    p.DateFlexibilityDays,
		NumTravelers:           existing.NumTravelers,
		FlightTimePreference:   existing.FlightTimePreference,
		AccommodationTier:      existing.AccommodationTier,
		PointsStrategy:         existing.PointsStrategy,
		NonstopPreferred:       existing.NonstopPreferred,
	}
	if p.NumTravelers > 0 {
		prefs.NumTravelers = p.NumTravelers
	}
	if p.FlightTimePreference != "" {
		if v, err := travel.ParseFlightTimePreference(p.FlightTimePreference); err == nil {
			prefs.FlightTimePreference = v
		} else {
			l.logger.Warn("ignoring invalid flight time preference", "value", p.FlightTimePreference)
		}
	}
	if p.AccommodationTier != "" {
		if v, err := travel.ParseAccommodationTier(p.AccommodationTier); err == nil {
			prefs.AccommodationTier = v
		} else {
			l.logger.Warn("ignoring invalid accommodation tier", "value", p.AccommodationTier)
		}
	}
	if p.PointsStrategy != "" {
		if v, err := travel.ParsePointsStrategy(p.PointsStrategy); err == nil {
			prefs.PointsStrategy = v
		} else {
			l.logger.Warn("ignoring invalid points strategy", "value", p.PointsStrategy)
		}
	}
	if p.NonstopPreferred != nil {
		prefs.NonstopPreferred = *p.NonstopPreferred
	}

	if p.DestinationQuery == "" || p.ResolvedDestination == "" ||
		prefs.OriginAirport == "" || p.DepartureDate == "" || p.ReturnDate == "" {
		l.logger.Warn("mark_preferences_complete with incomplete payload, staying in gathering phase")
		return
	}

	session.Preferences = prefs
	session.AdvancePhase(PhaseConfirmPreferences)
}

// collectPlan picks up the plan assembled by calculate_trip_cost, appends it
// to the candidates, and fires the threshold transition.
func (l *TurnLoop) collectPlan(session *Session, resultJSON string) *travel.TripPlan {
	plan := l.registry.ConsumeAssembledPlan()
	if plan == nil {
		// Failed assemblies stay visible: the model sees the structured
		// error, and operators see the diagnostic.
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal([]byte(resultJSON), &payload)
		l.logger.Warn("trip plan assembly failed", "error", payload.Error)
		return nil
	}

	session.TripPlans = append(session.TripPlans, *plan)
	if session.Phase == PhaseSearching && len(session.TripPlans) >= l.config.PlanThreshold {
		session.AdvancePhase(PhaseOptionsPresented)
		session.PruneSearchHistory()
	}
	return plan
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
