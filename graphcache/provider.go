package graphcache

import (
	"context"

	"github.com/flightrouter/pareto/schema"
)

// Provider is the flight data provider contract: it returns the flight row
// set (Build validates it) and an availability signal. It does not expose
// the airport set on its own; CachedFlightGraph.AirportSet derives that
// set from the loaded rows.
type Provider interface {
	FlightRows(ctx context.Context) ([]schema.FlightRow, error)
	Available(ctx context.Context) bool
}
