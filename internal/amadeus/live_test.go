package amadeus

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handlers map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":1799}`))
	})
	for path, body := range handlers {
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestLiveClient(t *testing.T, srv *httptest.Server) *LiveClient {
	t.Helper()
	c, err := NewLiveClient(LiveConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
	}, slog.Default())
	require.NoError(t, err)
	return c
}

func TestNewLiveClientRequiresCredentials(t *testing.T) {
	_, err := NewLiveClient(LiveConfig{}, slog.Default())
	assert.Error(t, err)
}

func TestLiveSearchFlightsParsesOffers(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/v2/shopping/flight-offers": `{"data":[
			{
				"id": "offer-1",
				"itineraries": [
					{"segments": [{"departure":{"iataCode":"JFK","at":"2026-10-01T08:00:00"},"arrival":{"iataCode":"HNL","at":"2026-10-01T14:00:00"},"carrierCode":"UA","number":"101"}]},
					{"segments": [{"departure":{"iataCode":"HNL","at":"2026-10-08T15:00:00"},"arrival":{"iataCode":"JFK","at":"2026-10-08T21:00:00"},"carrierCode":"UA","number":"102"}]}
				],
				"price": {"total":"312.50","fees":[{"amount":"11.20"}]}
			},
			{
				"id": "offer-one-way",
				"itineraries": [{"segments": []}],
				"price": {"total":"100.00"}
			},
			{
				"id": "offer-bad-price",
				"itineraries": [{"segments": []},{"segments": []}],
				"price": {"total":"not-a-number"}
			}
		]}`,
	})
	c := newTestLiveClient(t, srv)

	flights, err := c.SearchFlights(context.Background(), baseQuery)
	require.NoError(t, err)

	// One-way and malformed offers are skipped, not fatal.
	require.Len(t, flights, 1)
	f := flights[0]
	assert.Equal(t, "offer-1", f.OfferID)
	assert.Equal(t, 31250, f.TotalMilesRequired)
	assert.Equal(t, "UA101", f.OutboundSegments[0].FlightNumber)
	assert.Equal(t, "HNL", f.InboundSegments[0].Origin)
	assert.Equal(t, "11.2", f.CashTaxesUSD.String())
}

func TestLiveSearchHotelsTwoStepFlow(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/v1/reference-data/locations/hotels/by-city": `{"data":[{"hotelId":"HXHNL001"},{"hotelId":"HXHNL002"}]}`,
		"/v3/shopping/hotel-offers": `{"data":[
			{
				"hotel": {"hotelId":"HXHNL001","name":"Hyatt Regency Waikiki","chainCode":"HY","rating":"4"},
				"offers": [{"checkInDate":"2026-10-01","checkOutDate":"2026-10-08","price":{"total":"240.00"}}]
			},
			{
				"hotel": {"hotelId":"HXHNL002","name":"","chainCode":"XX","rating":""},
				"offers": []
			}
		]}`,
	})
	c := newTestLiveClient(t, srv)

	hotels, err := c.SearchHotels(context.Background(), HotelQuery{
		CityCode: "HNL",
		CheckIn:  "2026-10-01",
		CheckOut: "2026-10-08",
	})
	require.NoError(t, err)

	require.Len(t, hotels, 1)
	h := hotels[0]
	assert.Equal(t, "Hyatt Regency Waikiki", h.HotelName)
	assert.Equal(t, 4.0, h.StarRating)
	assert.Equal(t, 24000, h.TotalPointsRequired)
	assert.Equal(t, "HXHNL001", h.HotelID)
}

func TestLiveSearchHotelsNoIDs(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/v1/reference-data/locations/hotels/by-city": `{"data":[]}`,
	})
	c := newTestLiveClient(t, srv)

	hotels, err := c.SearchHotels(context.Background(), HotelQuery{
		CityCode: "HNL",
		CheckIn:  "2026-10-01",
		CheckOut: "2026-10-08",
	})
	require.NoError(t, err)
	assert.Empty(t, hotels)
}

func TestLiveSearchFlightsUpstreamError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":1799}`))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"title":"rate limit"}]}`, http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := newTestLiveClient(t, srv)

	_, err := c.SearchFlights(context.Background(), baseQuery)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
