// Package agent holds the conversation state machine, the action registry,
// and the bounded tool-calling loop that together drive one planning session.
package agent

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ynakazat11/travel-agent/internal/travel"
	"github.com/ynakazat11/travel-agent/plugin/ai"
)

// SessionPhase is the conversation state. The happy path is linear with one
// cycle between OptionsPresented and FineTuning.
type SessionPhase string

const (
	PhasePointsInput         SessionPhase = "POINTS_INPUT"
	PhasePreferenceGathering SessionPhase = "PREFERENCE_GATHERING"
	PhaseConfirmPreferences  SessionPhase = "CONFIRM_PREFERENCES"
	PhaseSearching           SessionPhase = "SEARCHING"
	PhaseOptionsPresented    SessionPhase = "OPTIONS_PRESENTED"
	PhaseFineTuning          SessionPhase = "FINE_TUNING"
	PhaseFinalizing          SessionPhase = "FINALIZING"
	PhaseComplete            SessionPhase = "COMPLETE"
)

// EntryKind discriminates transcript entries.
type EntryKind string

const (
	EntryUserText      EntryKind = "user_text"
	EntryAssistantText EntryKind = "assistant_text"
	EntryActionRequest EntryKind = "action_request"
	EntryActionResult  EntryKind = "action_result"
)

// ActionRequest is one action the model asked for.
type ActionRequest struct {
	ID        string
	Name      string
	Arguments string
}

// ActionResult is the serialized outcome of one action, keyed by call ID.
type ActionResult struct {
	CallID  string
	Name    string
	Content string
}

// Entry is one transcript element. Exactly the fields for its Kind are set:
// Text for the text kinds (and optional leading text on an action request),
// Requests for action_request, Results for action_result.
type Entry struct {
	Kind     EntryKind
	Text     string
	Requests []ActionRequest
	Results  []ActionResult
}

// FineTuneState tracks the refinement sub-dialogue over one candidate plan.
type FineTuneState struct {
	Active          bool
	TargetPlanIndex int
	PendingFlights  []travel.FlightOption
	PendingHotels   []travel.HotelOption
}

// Session is the top-level conversation aggregate. Single-owner: one
// conversation, one goroutine, discarded at process exit.
type Session struct {
	Phase         SessionPhase
	Balances      []travel.PointsBalance
	Preferences   travel.TravelPreferences
	ProfileLoaded bool
	Transcript    []Entry
	TripPlans     []travel.TripPlan
	SelectedPlan  *travel.TripPlan
	FineTune      FineTuneState
}

func NewSession() *Session {
	return &Session{
		Phase:       PhasePointsInput,
		Preferences: travel.DefaultPreferences(),
	}
}

// BalanceMap indexes the session balances by issuer.
func (s *Session) BalanceMap() map[travel.Issuer]int {
	m := make(map[travel.Issuer]int, len(s.Balances))
	for _, b := range s.Balances {
		m[b.Issuer] = b.Balance
	}
	return m
}

func (s *Session) AddUserText(text string) {
	s.Transcript = append(s.Transcript, Entry{Kind: EntryUserText, Text: text})
}

func (s *Session) AddAssistantText(text string) {
	s.Transcript = append(s.Transcript, Entry{Kind: EntryAssistantText, Text: text})
}

// AddActionRequest records the assistant's round: any free text plus the
// actions it asked for, in model order.
func (s *Session) AddActionRequest(text string, requests []ActionRequest) {
	s.Transcript = append(s.Transcript, Entry{Kind: EntryActionRequest, Text: text, Requests: requests})
}

// AddActionResults records the serialized outcomes for one round.
func (s *Session) AddActionResults(results []ActionResult) {
	s.Transcript = append(s.Transcript, Entry{Kind: EntryActionResult, Results: results})
}

func (s *Session) AdvancePhase(next SessionPhase) {
	s.Phase = next
}

// SelectPlan marks the candidate at index as the final choice and enters
// Finalizing.
func (s *Session) SelectPlan(index int) error {
	if index < 0 || index >= len(s.TripPlans) {
		return errors.Errorf("plan index %d out of range (have %d)", index, len(s.TripPlans))
	}
	plan := s.TripPlans[index]
	s.SelectedPlan = &plan
	s.AdvancePhase(PhaseFinalizing)
	return nil
}

// PruneSearchHistory drops every action-bearing transcript entry and appends
// one synthetic summary. Raw search round-trips are large and stale once
// candidates exist; keeping them would burn context on later turns.
func (s *Session) PruneSearchHistory() {
	kept := s.Transcript[:0:0]
	for _, e := range s.Transcript {
		if e.Kind == EntryActionRequest || e.Kind == EntryActionResult {
			continue
		}
		kept = append(kept, e)
	}
	kept = append(kept, Entry{
		Kind: EntryUserText,
		Text: fmt.Sprintf(
			"[Search phase complete. %d trip plan(s) assembled. Full search tool history pruned for context efficiency.]",
			len(s.TripPlans)),
	})
	s.Transcript = kept
}

// Messages flattens the transcript for the model call. Action requests are
// rendered into assistant text and results come back as user messages, the
// same shape the model produced and consumed them in.
func (s *Session) Messages() []ai.Message {
	out := make([]ai.Message, 0, len(s.Transcript))
	for _, e := range s.Transcript {
		switch e.Kind {
		case EntryUserText:
			out = append(out, ai.Message{Role: "user", Content: e.Text})
		case EntryAssistantText:
			out = append(out, ai.Message{Role: "assistant", Content: e.Text})
		case EntryActionRequest:
			var b strings.Builder
			b.WriteString(e.Text)
			for _, r := range e.Requests {
				fmt.Fprintf(&b, "\n[Tool: %s(%s)]", r.Name, r.Arguments)
			}
			out = append(out, ai.Message{Role: "assistant", Content: b.String()})
		case EntryActionResult:
			var b strings.Builder
			for i, r := range e.Results {
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "[Result from %s]: %s", r.Name, r.Content)
			}
			out = append(out, ai.Message{Role: "user", Content: b.String()})
		}
	}
	return out
}
