package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

const (
	testBaseURL  = "https://test.api.amadeus.com"
	testTokenURL = "https://test.api.amadeus.com/v1/security/oauth2/token"
)

// LiveConfig holds the self-service API credentials.
type LiveConfig struct {
	ClientID     string
	ClientSecret string
	// BaseURL overrides the test environment endpoint. Mostly for tests.
	BaseURL string
	// RequestsPerSecond throttles outbound calls. The free tier allows 10/s.
	RequestsPerSecond float64
}

// LiveClient talks to the Amadeus test environment. Token refresh is handled
// by the oauth2 client-credentials flow; all calls share a rate limiter.
type LiveClient struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewLiveClient(cfg LiveConfig, logger *slog.Logger) (*LiveClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("amadeus credentials not configured")
	}
	baseURL := cfg.BaseURL
	tokenURL := testTokenURL
	if baseURL == "" {
		baseURL = testBaseURL
	} else {
		tokenURL = baseURL + "/v1/security/oauth2/token"
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 30 * time.Second
	return &LiveClient{
		http:    httpClient,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}, nil
}

func (c *LiveClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return errors.Wrapf(err, "read %s response", path)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("GET %s: status %d: %s", path, resp.StatusCode, truncate(string(body), 200))
	}
	return errors.Wrapf(json.Unmarshal(body, out), "decode %s response", path)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type flightOffersResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Itineraries []struct {
			Segments []struct {
				Departure struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IataCode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
				CarrierCode string `json:"carrierCode"`
				Number      string `json:"number"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total string `json:"total"`
			Fees  []struct {
				Amount string `json:"amount"`
			} `json:"fees"`
		} `json:"price"`
	} `json:"data"`
}

func (c *LiveClient) SearchFlights(ctx context.Context, q FlightQuery) ([]travel.FlightOption, error) {
	params := url.Values{
		"originLocationCode":      {q.Origin},
		"destinationLocationCode": {q.Destination},
		"departureDate":           {q.DepartureDate},
		"returnDate":              {q.ReturnDate},
		"adults":                  {fmt.Sprint(max(1, q.Travelers))},
		"currencyCode":            {"USD"},
		"max":                     {fmt.Sprint(q.maxResults())},
		"nonStop":                 {"false"},
	}
	var resp flightOffersResponse
	if err := c.get(ctx, "/v2/shopping/flight-offers", params, &resp); err != nil {
		return nil, err
	}

	var flights []travel.FlightOption
	for _, offer := range resp.Data {
		if len(offer.Itineraries) < 2 {
			continue
		}
		total, err := decimal.NewFromString(offer.Price.Total)
		if err != nil {
			c.logger.Warn("skipping flight offer with bad price", "id", offer.ID, "total", offer.Price.Total)
			continue
		}
		taxes := decimal.Zero
		if len(offer.Price.Fees) > 0 {
			if t, err := decimal.NewFromString(offer.Price.Fees[0].Amount); err == nil {
				taxes = t
			}
		}
		f := travel.FlightOption{
			// Cash total in cents stands in for award miles; the test
			// environment has no award pricing.
			TotalMilesRequired: int(total.Mul(decimal.NewFromInt(100)).IntPart()),
			ProgramToBook:      travel.ProgramUnitedMileagePlus,
			SourceIssuer:       travel.IssuerChase,
			CashTaxesUSD:       taxes,
			OfferID:            offer.ID,
		}
		for _, s := range offer.Itineraries[0].Segments {
			f.OutboundSegments = append(f.OutboundSegments, parsedSegment(s.Departure.IataCode, s.Arrival.IataCode, s.Departure.At, s.Arrival.At, s.CarrierCode, s.Number))
		}
		for _, s := range offer.Itineraries[1].Segments {
			f.InboundSegments = append(f.InboundSegments, parsedSegment(s.Departure.IataCode, s.Arrival.IataCode, s.Departure.At, s.Arrival.At, s.CarrierCode, s.Number))
		}
		flights = append(flights, f)
	}
	if q.Nonstop {
		flights = nonstopOnly(flights)
	}
	return flights, nil
}

func parsedSegment(origin, destination, dep, arr, carrier, number string) travel.FlightSegment {
	return travel.FlightSegment{
		Origin:        origin,
		Destination:   destination,
		DepartureTime: dep,
		ArrivalTime:   arr,
		Airline:       carrier,
		FlightNumber:  carrier + number,
	}
}

type hotelListResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
	} `json:"data"`
}

type hotelOffersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID   string `json:"hotelId"`
			Name      string `json:"name"`
			ChainCode string `json:"chainCode"`
			Rating    string `json:"rating"`
		} `json:"hotel"`
		Offers []struct {
			CheckInDate  string `json:"checkInDate"`
			CheckOutDate string `json:"checkOutDate"`
			Price        struct {
				Total string `json:"total"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

func (c *LiveClient) SearchHotels(ctx context.Context, q HotelQuery) ([]travel.HotelOption, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var listPath string
	listParams := url.Values{"radius": {"20"}, "radiusUnit": {"KM"}}
	if q.Geo != nil {
		listPath = "/v1/reference-data/locations/hotels/by-geocode"
		listParams.Set("latitude", fmt.Sprint(q.Geo.Latitude))
		listParams.Set("longitude", fmt.Sprint(q.Geo.Longitude))
	} else {
		listPath = "/v1/reference-data/locations/hotels/by-city"
		listParams.Set("cityCode", q.CityCode)
	}
	var list hotelListResponse
	if err := c.get(ctx, listPath, listParams, &list); err != nil {
		return nil, err
	}
	ids := make([]string, 0, 20)
	for _, h := range list.Data {
		ids = append(ids, h.HotelID)
		if len(ids) == 20 {
			break
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var offers hotelOffersResponse
	err := c.get(ctx, "/v3/shopping/hotel-offers", url.Values{
		"hotelIds":     {strings.Join(ids, ",")},
		"checkInDate":  {q.CheckIn},
		"checkOutDate": {q.CheckOut},
		"adults":       {fmt.Sprint(max(1, q.Travelers))},
		"currency":     {"USD"},
		"bestRateOnly": {"true"},
	}, &offers)
	if err != nil {
		return nil, err
	}

	var hotels []travel.HotelOption
	for _, o := range offers.Data {
		if len(hotels) == q.maxResults() {
			break
		}
		if len(o.Offers) == 0 {
			continue
		}
		total, err := decimal.NewFromString(o.Offers[0].Price.Total)
		if err != nil {
			c.logger.Warn("skipping hotel offer with bad price", "hotel_id", o.Hotel.HotelID)
			continue
		}
		stars := 3.0
		if r, err := decimal.NewFromString(o.Hotel.Rating); err == nil {
			stars, _ = r.Float64()
		}
		hotels = append(hotels, travel.HotelOption{
			HotelName:           defaultString(o.Hotel.Name, "Unknown Hotel"),
			HotelChain:          o.Hotel.ChainCode,
			StarRating:          stars,
			CheckIn:             o.Offers[0].CheckInDate,
			CheckOut:            o.Offers[0].CheckOutDate,
			TotalPointsRequired: int(total.Mul(decimal.NewFromInt(100)).IntPart()),
			ProgramToBook:       travel.ProgramWorldOfHyatt,
			SourceIssuer:        travel.IssuerChase,
			HotelID:             o.Hotel.HotelID,
		})
	}
	return hotels, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// WebSearchHotels has no live backend; the agent relays the note so the user
// can search manually.
func (c *LiveClient) WebSearchHotels(_ context.Context, _, _, _, _ string) (WebSearchResult, error) {
	return WebSearchResult{
		Source:  "web_search",
		Results: []WebHotel{},
		Note: "Live web search is not configured. " +
			"Try searching manually on Google Hotels, Booking.com, or the hotel's direct website.",
	}, nil
}
