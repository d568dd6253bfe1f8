package agent

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ynakazat11/travel-agent/internal/travel"
	"github.com/ynakazat11/travel-agent/plugin/ai"
)

// MockLLM implements ai.LLMService for testing.
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) ChatWithTools(ctx context.Context, messages []ai.Message, tools []ai.ToolDescriptor) (*ai.ChatResponse, error) {
	args := m.Called(ctx, messages, tools)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.ChatResponse), args.Error(1)
}

func mockToolCall(name, arguments string) *ai.ChatResponse {
	return &ai.ChatResponse{
		FinishReason: "tool_calls",
		ToolCalls: []ai.ToolCall{{
			ID:       "call-" + name,
			Type:     "function",
			Function: ai.FunctionCall{Name: name, Arguments: arguments},
		}},
	}
}

func mockFinalAnswer(text string) *ai.ChatResponse {
	return &ai.ChatResponse{Content: text, FinishReason: "stop"}
}

func newTestLoop(t *testing.T, llm ai.LLMService, cfg Config) (*TurnLoop, *Registry, *Session) {
	t.Helper()
	registry, session := newTestRegistry(t)
	loop := NewTurnLoop(llm, registry, cfg, nil, slog.Default())
	return loop, registry, session
}

func TestRunFinalAnswerOnly(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockFinalAnswer("Where would you like to go?"), nil).Once()

	loop, _, session := newTestLoop(t, mockLLM, Config{})
	session.Phase = PhasePreferenceGathering

	var surfaced []string
	loop.onText = func(text string) { surfaced = append(surfaced, text) }

	plans, err := loop.Run(context.Background(), session, "hi")
	require.NoError(t, err)
	assert.Empty(t, plans)
	assert.Equal(t, []string{"Where would you like to go?"}, surfaced)

	require.Len(t, session.Transcript, 2)
	assert.Equal(t, EntryUserText, session.Transcript[0].Kind)
	assert.Equal(t, EntryAssistantText, session.Transcript[1].Kind)
	mockLLM.AssertExpectations(t)
}

func TestRunMarkPreferencesCompleteTransitions(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("mark_preferences_complete", `{
			"destination_query": "hawaii",
			"resolved_destination": "HNL",
			"origin_airport": "JFK",
			"departure_date": "2026-10-01",
			"return_date": "2026-10-08",
			"num_travelers": 2,
			"accommodation_tier": "upscale",
			"nonstop_preferred": true
		}`), nil).Once()
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockFinalAnswer("Preferences locked in."), nil).Once()

	loop, _, session := newTestLoop(t, mockLLM, Config{})
	session.Phase = PhasePreferenceGathering

	_, err := loop.Run(context.Background(), session, "that's everything")
	require.NoError(t, err)

	assert.Equal(t, PhaseConfirmPreferences, session.Phase)
	p := session.Preferences
	assert.Equal(t, "HNL", p.ResolvedDestination)
	assert.Equal(t, "hawaii", p.DestinationDisplayName, "display name defaults to the query")
	assert.Equal(t, 2, p.NumTravelers)
	assert.Equal(t, travel.TierUpscale, p.AccommodationTier)
	assert.True(t, p.NonstopPreferred)
	// Omitted fields keep session values.
	assert.Equal(t, travel.StrategyMixedOK, p.PointsStrategy)
	assert.Equal(t, travel.TimeAny, p.FlightTimePreference)
	mockLLM.AssertExpectations(t)
}

func TestRunMarkPreferencesIncompleteStaysInGathering(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("mark_preferences_complete", `{"destination_query":"hawaii"}`), nil).Once()
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockFinalAnswer("I still need dates."), nil).Once()

	loop, _, session := newTestLoop(t, mockLLM, Config{})
	session.Phase = PhasePreferenceGathering

	_, err := loop.Run(context.Background(), session, "go")
	require.NoError(t, err)
	assert.Equal(t, PhasePreferenceGathering, session.Phase)
}

func planCall(flightIdx, hotelIdx int) string {
	return fmt.Sprintf(
		`{"flight_index":%d,"hotel_index":%d,"flight_issuer":"chase","hotel_issuer":"chase","summary_label":"plan"}`,
		flightIdx, hotelIdx)
}

func TestRunPlanThresholdTriggersTransitionAndPruning(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("search_flights",
			`{"origin":"JFK","destination":"HNL","departure_date":"2026-10-01","return_date":"2026-10-08"}`), nil).Once()
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("search_hotels",
			`{"city_code":"HNL","check_in":"2026-10-01","check_out":"2026-10-08"}`), nil).Once()
	for i := 0; i < 3; i++ {
		mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
			Return(mockToolCall("calculate_trip_cost", planCall(i, i%3)), nil).Once()
	}
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockFinalAnswer("Here are your three options."), nil).Once()

	loop, _, session := newTestLoop(t, mockLLM, Config{})
	session.Phase = PhaseSearching

	plans, err := loop.Run(context.Background(), session, "")
	require.NoError(t, err)

	require.Len(t, plans, 3)
	assert.Len(t, session.TripPlans, 3)
	assert.Equal(t, PhaseOptionsPresented, session.Phase)

	// Pruned: the search rounds are gone; what remains is the synthetic
	// summary, the third plan round appended after pruning, and the final
	// answer.
	var kinds []EntryKind
	for _, e := range session.Transcript {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []EntryKind{EntryUserText, EntryActionRequest, EntryActionResult, EntryAssistantText}, kinds)
	assert.Contains(t, session.Transcript[0].Text, "3 trip plan(s) assembled")
}

func TestRunSecondPlanDoesNotTransition(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("search_flights",
			`{"origin":"JFK","destination":"HNL","departure_date":"2026-10-01","return_date":"2026-10-08"}`), nil).Once()
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("search_hotels",
			`{"city_code":"HNL","check_in":"2026-10-01","check_out":"2026-10-08"}`), nil).Once()
	for i := 0; i < 2; i++ {
		mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
			Return(mockToolCall("calculate_trip_cost", planCall(i, i)), nil).Once()
	}
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockFinalAnswer("Two so far."), nil).Once()

	loop, _, session := newTestLoop(t, mockLLM, Config{})
	session.Phase = PhaseSearching

	plans, err := loop.Run(context.Background(), session, "")
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.Equal(t, PhaseSearching, session.Phase)

	// Nothing pruned: every search round is still on the transcript.
	var actionEntries int
	for _, e := range session.Transcript {
		if e.Kind == EntryActionRequest {
			actionEntries++
		}
	}
	assert.Equal(t, 4, actionEntries)
}

func TestRunOutOfRangeIndexCreatesNoPlan(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("search_flights",
			`{"origin":"JFK","destination":"HNL","departure_date":"2026-10-01","return_date":"2026-10-08"}`), nil).Once()
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("search_hotels",
			`{"city_code":"HNL","check_in":"2026-10-01","check_out":"2026-10-08"}`), nil).Once()
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("calculate_trip_cost", planCall(99, 0)), nil).Once()
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockFinalAnswer("That index was invalid."), nil).Once()

	loop, _, session := newTestLoop(t, mockLLM, Config{})
	session.Phase = PhaseSearching

	plans, err := loop.Run(context.Background(), session, "")
	require.NoError(t, err)
	assert.Empty(t, plans)
	assert.Empty(t, session.TripPlans)
	assert.Equal(t, PhaseSearching, session.Phase)

	// The structured error went back to the model as a result entry.
	var errResult string
	for _, e := range session.Transcript {
		for _, r := range e.Results {
			if r.Name == "calculate_trip_cost" {
				errResult = r.Content
			}
		}
	}
	assert.Contains(t, errResult, "out of range")
}

func TestRunRoundCap(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(mockToolCall("resolve_destination", `{"query":"hawaii"}`), nil)

	loop, _, session := newTestLoop(t, mockLLM, Config{MaxRounds: 4})
	session.Phase = PhaseSearching

	plans, err := loop.Run(context.Background(), session, "")
	require.NoError(t, err)
	assert.Empty(t, plans)
	mockLLM.AssertNumberOfCalls(t, "ChatWithTools", 4)
}

func TestRunUnexpectedFinishReasonStops(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(&ai.ChatResponse{Content: "truncat", FinishReason: "length"}, nil).Once()

	loop, _, session := newTestLoop(t, mockLLM, Config{})
	session.Phase = PhaseSearching

	plans, err := loop.Run(context.Background(), session, "")
	require.NoError(t, err)
	assert.Empty(t, plans)
	mockLLM.AssertNumberOfCalls(t, "ChatWithTools", 1)
}

func TestRunModelFailureIsFatal(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("ChatWithTools", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("401 unauthorized")).Once()

	loop, _, session := newTestLoop(t, mockLLM, Config{})
	session.Phase = PhasePreferenceGathering

	_, err := loop.Run(context.Background(), session, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model call failed")
}
