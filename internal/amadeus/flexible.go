package amadeus

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ynakazat11/travel-agent/internal/travel"
)

// DatePair is one departure/return combination in a flexible-date search.
type DatePair struct {
	Departure string
	Return    string
}

// SearchFlightsFlexible runs one flight search per date pair concurrently and
// merges the results. Legs that fail are logged and dropped rather than
// failing the whole search; results keep date-pair order.
func SearchFlightsFlexible(ctx context.Context, c Client, base FlightQuery, dates []DatePair, logger *slog.Logger) []FlightQueryResult {
	results := make([]FlightQueryResult, len(dates))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, d := range dates {
		g.Go(func() error {
			q := base
			q.DepartureDate = d.Departure
			q.ReturnDate = d.Return
			flights, err := c.SearchFlights(ctx, q)
			if err != nil {
				logger.Warn("flexible search leg failed",
					"departure", d.Departure, "return", d.Return, "error", err)
				return nil
			}
			mu.Lock()
			results[i] = FlightQueryResult{Dates: d, Flights: flights}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	merged := results[:0:0]
	for _, r := range results {
		if len(r.Flights) > 0 {
			merged = append(merged, r)
		}
	}
	return merged
}

// FlightQueryResult pairs the searched dates with their candidates.
type FlightQueryResult struct {
	Dates   DatePair
	Flights []travel.FlightOption
}
