package graphcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/flightrouter/pareto/schema"
)

// RoutePair identifies a direct (origin, destination) connection.
type RoutePair struct {
	Origin      string
	Destination string
}

// CachedFlightGraph is the immutable, versioned result of a single cache
// build. Once constructed it is never mutated; a refresh produces a new
// value and the Cache atomically swaps its pointer.
type CachedFlightGraph struct {
	Table   *schema.FlightTable
	Index   CityIndex
	Airports map[string]struct{}
	Direct   map[RoutePair]struct{}

	BuiltAt  time.Time
	Version  string
	RowCount int
}

// Build validates rows against the core schema and, on success, runs the
// cache's build protocol: stable sort by departure airport, index
// construction, airport/direct-route set materialization, and
// content-hash versioning. A schema violation in any row (or an empty row
// set) is returned as-is and no graph is built, so every CachedFlightGraph
// in existence is backed by schema-validated rows.
func Build(rows []schema.FlightRow) (*CachedFlightGraph, error) {
	if err := schema.ValidateTable(rows); err != nil {
		return nil, err
	}

	table := schema.FromRows(rows)
	SortByDeparture(table)
	index := BuildCityIndex(table)

	airports := make(map[string]struct{})
	direct := make(map[RoutePair]struct{})
	for i := 0; i < table.Len(); i++ {
		o, d := table.DepartureAirport[i], table.ArrivalAirport[i]
		airports[o] = struct{}{}
		airports[d] = struct{}{}
		direct[RoutePair{Origin: o, Destination: d}] = struct{}{}
	}

	g := &CachedFlightGraph{
		Table:    table,
		Index:    index,
		Airports: airports,
		Direct:   direct,
		BuiltAt:  time.Now(),
		RowCount: table.Len(),
	}
	g.Version = versionHash(table)
	return g, nil
}

// versionHash hashes row count, "column names" (the fixed core schema,
// since the table has no separate column-name list at this layer) and the
// first/last row contents.
func versionHash(t *schema.FlightTable) string {
	h := sha256.New()
	fmt.Fprintf(h, "rows=%d;cols=%v", t.Len(), schema.RequiredColumns)
	if t.Len() > 0 {
		fmt.Fprintf(h, ";first=%v", t.Row(0))
		fmt.Fprintf(h, ";last=%v", t.Row(t.Len()-1))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// HasRoute reports whether a direct flight exists from origin to
// destination in this graph version.
func (g *CachedFlightGraph) HasRoute(origin, destination string) bool {
	_, ok := g.Direct[RoutePair{Origin: origin, Destination: destination}]
	return ok
}

// AirportSet returns the full set of airports known to this graph version
// (union of departures and arrivals).
func (g *CachedFlightGraph) AirportSet() map[string]struct{} {
	return g.Airports
}
