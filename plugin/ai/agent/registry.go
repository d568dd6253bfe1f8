package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ynakazat11/travel-agent/internal/amadeus"
	"github.com/ynakazat11/travel-agent/internal/transfer"
	"github.com/ynakazat11/travel-agent/internal/travel"
	"github.com/ynakazat11/travel-agent/plugin/ai"
)

// actionHandler executes one action. A returned error is serialized into a
// structured error payload, never propagated past Execute.
type actionHandler func(ctx context.Context, input json.RawMessage) (any, error)

type actionSpec struct {
	description string
	parameters  map[string]any
	handler     actionHandler
}

// Registry is the fixed action catalog the model may invoke, plus the
// per-session working set: the most recent flight and hotel search results,
// which later index-based calls reference. One registry per session.
type Registry struct {
	search  amadeus.Client
	kb      *transfer.KB
	session *Session
	logger  *slog.Logger

	actions map[string]actionSpec
	order   []string

	lastFlights   []travel.FlightOption
	lastHotels    []travel.HotelOption
	assembledPlan *travel.TripPlan
}

func NewRegistry(search amadeus.Client, kb *transfer.KB, session *Session, logger *slog.Logger) *Registry {
	r := &Registry{
		search:  search,
		kb:      kb,
		session: session,
		logger:  logger,
		actions: make(map[string]actionSpec),
	}
	r.register("resolve_destination",
		"Convert a vague destination description into ranked IATA airport/city codes. "+
			"Returns up to 3 candidates with confidence scores.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Natural-language destination, e.g. 'somewhere warm in Hawaii'"},
			},
			"required": []string{"query"},
		},
		r.resolveDestination)
	r.register("search_flights",
		"Search for award flight options. Returns a flight list where each entry carries its index.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"origin":         map[string]any{"type": "string", "description": "IATA airport code, e.g. 'JFK'"},
				"destination":    map[string]any{"type": "string", "description": "IATA airport code, e.g. 'HNL'"},
				"departure_date": map[string]any{"type": "string", "description": "ISO date YYYY-MM-DD"},
				"return_date":    map[string]any{"type": "string", "description": "ISO date YYYY-MM-DD"},
				"num_travelers":  map[string]any{"type": "integer", "description": "Number of adult travelers", "default": 1},
				"nonstop":        map[string]any{"type": "boolean", "description": "If true, only return nonstop flights", "default": false},
			},
			"required": []string{"origin", "destination", "departure_date", "return_date"},
		},
		r.searchFlights)
	r.register("search_hotels",
		"Search for hotel options. Accepts either city_code (IATA) or latitude+longitude for "+
			"geocode-based search. Use latitude/longitude when the destination has no IATA code "+
			"(e.g., Sedona, Napa Valley).",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city_code":     map[string]any{"type": "string", "description": "IATA city code, e.g. 'HNL'. Optional if latitude/longitude provided."},
				"check_in":      map[string]any{"type": "string", "description": "ISO date YYYY-MM-DD"},
				"check_out":     map[string]any{"type": "string", "description": "ISO date YYYY-MM-DD"},
				"num_travelers": map[string]any{"type": "integer", "description": "Number of travelers", "default": 1},
				"latitude":      map[string]any{"type": "number", "description": "Latitude for geocode-based search. Use when the destination has no IATA code (e.g., Sedona at 34.87)."},
				"longitude":     map[string]any{"type": "number", "description": "Longitude for geocode-based search. Use with latitude (e.g., Sedona at -111.76)."},
				"location_query": map[string]any{"type": "string", "description": "Natural-language location hint when the IATA code may not cover the desired area (e.g., 'Sedona, AZ')"},
			},
			"required": []string{"check_in", "check_out"},
		},
		r.searchHotels)
	r.register("lookup_transfer_options",
		"Find which issuers can transfer to a given loyalty program and how many source points "+
			"are needed. Highlights Bilt→AA as a unique differentiator.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination_program": map[string]any{"type": "string", "description": "Program value, e.g. 'united_mileageplus'"},
				"points_needed":       map[string]any{"type": "integer", "description": "Award miles/points required in the destination program"},
			},
			"required": []string{"destination_program", "points_needed"},
		},
		r.lookupTransferOptions)
	r.register("calculate_trip_cost",
		"Assemble a flight + hotel into a complete trip plan with a CPP breakdown.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"flight_index":  map[string]any{"type": "integer", "description": "Index into last search_flights result"},
				"hotel_index":   map[string]any{"type": "integer", "description": "Index into last search_hotels result"},
				"flight_issuer": map[string]any{"type": "string", "description": "Issuer value to pay for flight"},
				"hotel_issuer":  map[string]any{"type": "string", "description": "Issuer value to pay for hotel"},
				"summary_label": map[string]any{"type": "string", "description": "Short label, e.g. 'Chase UR + Hyatt'"},
			},
			"required": []string{"flight_index", "hotel_index", "flight_issuer", "hotel_issuer", "summary_label"},
		},
		r.calculateTripCost)
	r.register("get_alternative_flights",
		"Get alternative flights for fine-tuning. Filters by time window or airline.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"origin":            map[string]any{"type": "string"},
				"destination":       map[string]any{"type": "string"},
				"departure_date":    map[string]any{"type": "string"},
				"return_date":       map[string]any{"type": "string"},
				"preferred_time":    map[string]any{"type": "string", "enum": []string{"morning", "afternoon", "evening", "any"}, "description": "Filter by departure time window"},
				"preferred_airline": map[string]any{"type": "string", "description": "IATA airline code or empty for any"},
				"num_travelers":     map[string]any{"type": "integer", "default": 1},
				"nonstop":           map[string]any{"type": "boolean", "description": "If true, only return nonstop flights", "default": false},
			},
			"required": []string{"origin", "destination", "departure_date", "return_date"},
		},
		r.getAlternativeFlights)
	r.register("get_alternative_hotels",
		"Get alternative hotels for fine-tuning. Filters by tier or property name.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city_code":        map[string]any{"type": "string"},
				"check_in":         map[string]any{"type": "string"},
				"check_out":        map[string]any{"type": "string"},
				"tier":             map[string]any{"type": "string", "enum": []string{"budget", "midrange", "upscale", "luxury"}, "description": "Accommodation tier filter"},
				"chain_preference": map[string]any{"type": "string", "description": "Hotel chain preference or empty"},
				"num_travelers":    map[string]any{"type": "integer", "default": 1},
			},
			"required": []string{"city_code", "check_in", "check_out"},
		},
		r.getAlternativeHotels)
	r.register("web_search_hotels",
		"Fallback web search when search_hotels results don't match the user's accommodation "+
			"tier. Returns cash-booking suggestions from popular travel sites.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination": map[string]any{"type": "string", "description": "Destination name, e.g. 'Sedona, AZ'"},
				"check_in":    map[string]any{"type": "string", "description": "ISO date YYYY-MM-DD"},
				"check_out":   map[string]any{"type": "string", "description": "ISO date YYYY-MM-DD"},
				"tier":        map[string]any{"type": "string", "enum": []string{"budget", "midrange", "upscale", "luxury"}, "description": "Desired accommodation tier"},
			},
			"required": []string{"destination", "check_in", "check_out"},
		},
		r.webSearchHotels)
	r.register("mark_preferences_complete",
		"Signal that all travel preferences have been gathered. Include the fully structured "+
			"preferences. This triggers the search phase.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination_query":        map[string]any{"type": "string"},
				"resolved_destination":     map[string]any{"type": "string", "description": "IATA city code"},
				"destination_display_name": map[string]any{"type": "string", "description": "Human-readable destination name, e.g. 'Sedona, AZ'"},
				"origin_airport":           map[string]any{"type": "string", "description": "IATA airport code"},
				"departure_date":           map[string]any{"type": "string"},
				"return_date":              map[string]any{"type": "string"},
				"date_flexibility_days":    map[string]any{"type": "integer", "default": 0},
				"num_travelers":            map[string]any{"type": "integer", "default": 1},
				"flight_time_preference":   map[string]any{"type": "string", "enum": []string{"morning", "afternoon", "evening", "any"}, "default": "any"},
				"accommodation_tier":       map[string]any{"type": "string", "enum": []string{"budget", "midrange", "upscale", "luxury"}, "default": "midrange"},
				"points_strategy":          map[string]any{"type": "string", "enum": []string{"POINTS_ONLY", "MIXED_OK"}, "default": "MIXED_OK"},
				"nonstop_preferred":        map[string]any{"type": "boolean", "description": "Whether the user prefers nonstop (direct) flights", "default": false},
			},
			"required": []string{"destination_query", "resolved_destination", "origin_airport", "departure_date", "return_date"},
		},
		r.markPreferencesComplete)
	return r
}

func (r *Registry) register(name, description string, parameters map[string]any, h actionHandler) {
	r.actions[name] = actionSpec{description: description, parameters: parameters, handler: h}
	r.order = append(r.order, name)
}

// Catalog renders the action set as tool descriptors, in registration order.
func (r *Registry) Catalog() []ai.ToolDescriptor {
	out := make([]ai.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		spec := r.actions[name]
		paramsJSON, err := json.Marshal(spec.parameters)
		if err != nil {
			r.logger.Warn("failed to marshal action parameters, using empty schema",
				"action", name, "error", err)
			paramsJSON = []byte(`{"type":"object","properties":{}}`)
		}
		out = append(out, ai.ToolDescriptor{
			Name:        name,
			Description: spec.description,
			Parameters:  string(paramsJSON),
		})
	}
	return out
}

// Execute runs one action and always returns a well-formed JSON payload.
// Unknown names, bad input, handler errors, and panics all come back as
// {"error": ...} so the model can recover conversationally.
func (r *Registry) Execute(ctx context.Context, name, input string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("action handler panicked", "action", name, "panic", rec)
			result = errorPayload(fmt.Sprintf("internal error in %s: %v", name, rec))
		}
	}()

	spec, ok := r.actions[name]
	if !ok {
		return errorPayload("Unknown tool: " + name)
	}
	if input == "" {
		input = "{}"
	}
	out, err := spec.handler(ctx, json.RawMessage(input))
	if err != nil {
		return errorPayload(err.Error())
	}
	b, err := json.Marshal(out)
	if err != nil {
		r.logger.Error("action result not serializable", "action", name, "error", err)
		return errorPayload("result serialization failed for " + name)
	}
	return string(b)
}

func errorPayload(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

// ConsumeAssembledPlan returns the plan built by the most recent successful
// calculate_trip_cost call, once. The loop reads it instead of re-parsing
// the serialized result.
func (r *Registry) ConsumeAssembledPlan() *travel.TripPlan {
	p := r.assembledPlan
	r.assembledPlan = nil
	return p
}

// LastFlights and LastHotels expose the working set for fine-tune swaps.
func (r *Registry) LastFlights() []travel.FlightOption { return r.lastFlights }
func (r *Registry) LastHotels() []travel.HotelOption   { return r.lastHotels }

type destinationCandidate struct {
	IATA       string  `json:"iata"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Note       string  `json:"note,omitempty"`
}

var knownDestinations = map[string][]destinationCandidate{
	"hawaii": {
		{IATA: "HNL", Name: "Honolulu, Hawaii", Confidence: 0.9},
		{IATA: "OGG", Name: "Maui (Kahului), Hawaii", Confidence: 0.7},
		{IATA: "KOA", Name: "Kona, Big Island, Hawaii", Confidence: 0.6},
	},
	"maui":     {{IATA: "OGG", Name: "Maui (Kahului), Hawaii", Confidence: 0.95}},
	"paris":    {{IATA: "CDG", Name: "Paris Charles de Gaulle", Confidence: 0.95}},
	"london":   {{IATA: "LHR", Name: "London Heathrow", Confidence: 0.9}},
	"tokyo":    {{IATA: "NRT", Name: "Tokyo Narita", Confidence: 0.85}},
	"cancun":   {{IATA: "CUN", Name: "Cancun International", Confidence: 0.95}},
	"maldives": {{IATA: "MLE", Name: "Male, Maldives", Confidence: 0.95}},
	"bali":     {{IATA: "DPS", Name: "Bali (Denpasar)", Confidence: 0.95}},
}

func (r *Registry) resolveDestination(_ context.Context, input json.RawMessage) (any, error) {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, errors.Wrap(err, "resolve_destination input")
	}
	q := strings.ToLower(in.Query)
	for key, candidates := range knownDestinations {
		if strings.Contains(q, key) {
			return candidates, nil
		}
	}
	// Confidence zero plus a note means "could not resolve", not a retryable
	// failure.
	return []destinationCandidate{{
		Name: in.Query,
		Note: "Could not resolve — please specify IATA code",
	}}, nil
}

type flightRow struct {
	Index int `json:"index"`
	travel.FlightOption
}

func flightRows(flights []travel.FlightOption) []flightRow {
	rows := make([]flightRow, len(flights))
	for i, f := range flights {
		rows[i] = flightRow{Index: i, FlightOption: f}
	}
	return rows
}

type hotelRow struct {
	Index int `json:"index"`
	travel.HotelOption
	LocationQuery string `json:"location_query,omitempty"`
}

func hotelRows(hotels []travel.HotelOption, locationQuery string) []hotelRow {
	rows := make([]hotelRow, len(hotels))
	for i, h := range hotels {
		rows[i] = hotelRow{Index: i, HotelOption: h, LocationQuery: locationQuery}
	}
	return rows
}

type searchFlightsInput struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date"`
	NumTravelers  int    `json:"num_travelers"`
	Nonstop       bool   `json:"nonstop"`
}

func (r *Registry) searchFlights(ctx context.Context, input json.RawMessage) (any, error) {
	var in searchFlightsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, errors.Wrap(err, "search_flights input")
	}
	flights, err := r.search.SearchFlights(ctx, amadeus.FlightQuery{
		Origin:        in.Origin,
		Destination:   in.Destination,
		DepartureDate: in.DepartureDate,
		ReturnDate:    in.ReturnDate,
		Travelers:     in.NumTravelers,
		Nonstop:       in.Nonstop,
	})
	if err != nil {
		return nil, err
	}
	r.lastFlights = flights
	return flightRows(flights), nil
}

func (r *Registry) searchHotels(ctx context.Context, input json.RawMessage) (any, error) {
	var in struct {
		CityCode      string   `json:"city_code"`
		CheckIn       string   `json:"check_in"`
		CheckOut      string   `json:"check_out"`
		NumTravelers  int      `json:"num_travelers"`
		Latitude      *float64 `json:"latitude"`
		Longitude     *float64 `json:"longitude"`
		LocationQuery string   `json:"location_query"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, errors.Wrap(err, "search_hotels input")
	}
	q := amadeus.HotelQuery{
		CityCode:  in.CityCode,
		CheckIn:   in.CheckIn,
		CheckOut:  in.CheckOut,
		Travelers: in.NumTravelers,
	}
	if in.Latitude != nil && in.Longitude != nil {
		q.CityCode = ""
		q.Geo = &amadeus.GeoPoint{Latitude: *in.Latitude, Longitude: *in.Longitude}
	}
	if err := q.Validate(); err != nil {
		return nil, errors.New("Provide either city_code or latitude+longitude")
	}
	hotels, err := r.search.SearchHotels(ctx, q)
	if err != nil {
		return nil, err
	}
	r.lastHotels = hotels
	return hotelRows(hotels, in.LocationQuery), nil
}

type transferRow struct {
	Issuer              travel.Issuer  `json:"issuer"`
	SourceProgram       travel.Program `json:"source_program"`
	DestinationProgram  travel.Program `json:"destination_program"`
	SourcePointsNeeded  int            `json:"source_points_needed"`
	Balance             int            `json:"balance"`
	CanCover            bool           `json:"can_cover"`
	TransferTimeHours   int            `json:"transfer_time_hours"`
	Ratio               string         `json:"ratio"`
	UniqueBiltAdvantage bool           `json:"unique_bilt_advantage"`
}

func (r *Registry) lookupTransferOptions(_ context.Context, input json.RawMessage) (any, error) {
	var in struct {
		DestinationProgram string `json:"destination_program"`
		PointsNeeded       int    `json:"points_needed"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, errors.Wrap(err, "lookup_transfer_options input")
	}
	prog, err := travel.ParseProgram(in.DestinationProgram)
	if err != nil {
		return nil, err
	}
	opts := r.kb.CoverageOptions(r.session.Balances, prog, in.PointsNeeded)
	rows := make([]transferRow, len(opts))
	for i, o := range opts {
		rows[i] = transferRow{
			Issuer:             o.Issuer,
			SourceProgram:      o.SourceProgram,
			DestinationProgram: prog,
			SourcePointsNeeded: o.SourcePointsNeed,
			Balance:            o.Balance,
			CanCover:           o.CanCover,
			TransferTimeHours:  o.TransferTimeHours,
			Ratio:              o.Partner.Ratio(),
			// Bilt is the only transferable currency reaching AAdvantage at
			// 1:1 — a real product differentiator worth foregrounding.
			UniqueBiltAdvantage: o.Issuer == travel.IssuerBilt && prog == travel.ProgramAmericanAAdvantage,
		}
	}
	return rows, nil
}

func (r *Registry) calculateTripCost(_ context.Context, input json.RawMessage) (any, error) {
	var in struct {
		FlightIndex  int    `json:"flight_index"`
		HotelIndex   int    `json:"hotel_index"`
		FlightIssuer string `json:"flight_issuer"`
		HotelIssuer  string `json:"hotel_issuer"`
		SummaryLabel string `json:"summary_label"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, errors.Wrap(err, "calculate_trip_cost input")
	}
	if in.FlightIndex < 0 || in.FlightIndex >= len(r.lastFlights) {
		return nil, errors.Errorf("flight_index %d out of range", in.FlightIndex)
	}
	if in.HotelIndex < 0 || in.HotelIndex >= len(r.lastHotels) {
		return nil, errors.Errorf("hotel_index %d out of range", in.HotelIndex)
	}
	fIssuer, err := travel.ParseIssuer(in.FlightIssuer)
	if err != nil {
		return nil, err
	}
	hIssuer, err := travel.ParseIssuer(in.HotelIssuer)
	if err != nil {
		return nil, err
	}

	flight := r.lastFlights[in.FlightIndex].WithIssuer(fIssuer)
	hotel := r.lastHotels[in.HotelIndex].WithIssuer(hIssuer)

	breakdown := []travel.PointsCostBreakdown{
		{Issuer: fIssuer, Program: flight.ProgramToBook, PointsUsed: flight.TotalMilesRequired, CPP: r.cppFor(flight.ProgramToBook)},
		{Issuer: hIssuer, Program: hotel.ProgramToBook, PointsUsed: hotel.TotalPointsRequired, CPP: r.cppFor(hotel.ProgramToBook)},
	}
	plan := travel.TripPlan{
		ID:              shortuuid.New(),
		Flight:          flight,
		Hotel:           hotel,
		PointsBreakdown: breakdown,
		TotalCashUSD:    flight.CashTaxesUSD,
		SummaryLabel:    in.SummaryLabel,
	}
	r.assembledPlan = &plan
	return plan, nil
}

// cppFor defaults to 1.0 cpp when no valuation is on file rather than
// failing the whole assembly.
func (r *Registry) cppFor(p travel.Program) decimal.Decimal {
	return r.kb.CPPOrDefault(p)
}

func (r *Registry) getAlternativeFlights(ctx context.Context, input json.RawMessage) (any, error) {
	var in struct {
		searchFlightsInput
		PreferredTime    string `json:"preferred_time"`
		PreferredAirline string `json:"preferred_airline"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, errors.Wrap(err, "get_alternative_flights input")
	}
	flights, err := r.search.SearchFlights(ctx, amadeus.FlightQuery{
		Origin:        in.Origin,
		Destination:   in.Destination,
		DepartureDate: in.DepartureDate,
		ReturnDate:    in.ReturnDate,
		Travelers:     in.NumTravelers,
		Nonstop:       in.Nonstop,
		MaxResults:    8,
	})
	if err != nil {
		return nil, err
	}
	if in.PreferredTime != "" && in.PreferredTime != "any" {
		flights = filterWithFallback(flights, func(f travel.FlightOption) bool {
			return departsWithin(f, in.PreferredTime)
		})
	}
	if in.PreferredAirline != "" {
		flights = filterWithFallback(flights, func(f travel.FlightOption) bool {
			for _, s := range f.OutboundSegments {
				if s.Airline == in.PreferredAirline {
					return true
				}
			}
			return false
		})
	}
	r.lastFlights = flights
	return flightRows(flights), nil
}

func (r *Registry) getAlternativeHotels(ctx context.Context, input json.RawMessage) (any, error) {
	var in struct {
		CityCode        string `json:"city_code"`
		CheckIn         string `json:"check_in"`
		CheckOut        string `json:"check_out"`
		Tier            string `json:"tier"`
		ChainPreference string `json:"chain_preference"`
		NumTravelers    int    `json:"num_travelers"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, errors.Wrap(err, "get_alternative_hotels input")
	}
	hotels, err := r.search.SearchHotels(ctx, amadeus.HotelQuery{
		CityCode:   in.CityCode,
		CheckIn:    in.CheckIn,
		CheckOut:   in.CheckOut,
		Travelers:  in.NumTravelers,
		MaxResults: 8,
	})
	if err != nil {
		return nil, err
	}
	if in.Tier != "" {
		tier, err := travel.ParseAccommodationTier(in.Tier)
		if err != nil {
			return nil, err
		}
		lo, hi := tier.StarRange()
		hotels = filterWithFallback(hotels, func(h travel.HotelOption) bool {
			return h.StarRating >= lo && h.StarRating <= hi
		})
	}
	if in.ChainPreference != "" {
		pref := strings.ToLower(in.ChainPreference)
		hotels = filterWithFallback(hotels, func(h travel.HotelOption) bool {
			return strings.Contains(strings.ToLower(h.HotelChain), pref)
		})
	}
	r.lastHotels = hotels
	return hotelRows(hotels, ""), nil
}

func (r *Registry) webSearchHotels(ctx context.Context, input json.RawMessage) (any, error) {
	var in struct {
		Destination string `json:"destination"`
		CheckIn     string `json:"check_in"`
		CheckOut    string `json:"check_out"`
		Tier        string `json:"tier"`
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, errors.Wrap(err, "web_search_hotels input")
	}
	if in.Tier == "" {
		in.Tier = "midrange"
	}
	return r.search.WebSearchHotels(ctx, in.Destination, in.CheckIn, in.CheckOut, in.Tier)
}

// markPreferencesComplete only acknowledges: the phase transition itself is
// handled by the turn loop, so the result stays visible to the model in the
// round where the phase changes.
func (r *Registry) markPreferencesComplete(_ context.Context, input json.RawMessage) (any, error) {
	var details map[string]any
	if err := json.Unmarshal(input, &details); err != nil {
		return nil, errors.Wrap(err, "mark_preferences_complete input")
	}
	return map[string]any{"status": "preferences_confirmed", "details": details}, nil
}

// filterWithFallback applies keep, but returns the input unchanged when the
// filter would eliminate every candidate. An empty result is worse than an
// unfiltered one for this advisory use.
func filterWithFallback[T any](items []T, keep func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return items
	}
	return out
}

var timeWindows = map[string][2]int{
	"morning":   {6, 12},
	"afternoon": {12, 18},
	"evening":   {18, 24},
}

// departsWithin checks the first outbound departure against a named window.
// Unparseable timestamps pass the filter.
func departsWithin(f travel.FlightOption, window string) bool {
	w, ok := timeWindows[window]
	if !ok {
		return true
	}
	if len(f.OutboundSegments) == 0 {
		return false
	}
	dep := f.OutboundSegments[0].DepartureTime
	if len(dep) < 13 {
		return true
	}
	hour := 0
	if _, err := fmt.Sscanf(dep[11:13], "%d", &hour); err != nil {
		return true
	}
	return hour >= w[0] && hour < w[1]
}
