package router

import (
	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/schema"
)

// reachableWithinHops runs a breadth-first search over the graph's direct
// route pairs, seeded from every city in seeds, and returns every airport
// reachable in at most hops connections. The walk is undirected: a pair
// {A, B} reaches B from A and A from B, because a multi-city itinerary can
// use either leg of a route to pass through an intermediate airport on its
// way to a required city. This bounds how much of the table Pareto Dijkstra
// has to consider before the search even starts, by throwing out airports
// no itinerary of this length could ever touch.
func reachableWithinHops(g *graphcache.CachedFlightGraph, seeds []string, hops int) map[string]struct{} {
	reached := make(map[string]struct{}, len(seeds))
	var frontier []string
	for _, s := range seeds {
		if _, ok := reached[s]; ok {
			continue
		}
		reached[s] = struct{}{}
		frontier = append(frontier, s)
	}
	if hops <= 0 {
		return reached
	}

	for hop := 0; hop < hops && len(frontier) > 0; hop++ {
		var next []string
		for _, city := range frontier {
			for pair := range g.Direct {
				var neighbor string
				switch city {
				case pair.Origin:
					neighbor = pair.Destination
				case pair.Destination:
					neighbor = pair.Origin
				default:
					continue
				}
				if _, seen := reached[neighbor]; seen {
					continue
				}
				reached[neighbor] = struct{}{}
				next = append(next, neighbor)
			}
		}
		frontier = next
	}
	return reached
}

// filterRowsByReachability keeps only flight rows whose departure AND
// arrival airports are both in the reachable set, collapsing the table
// down before it's handed to the search. Keeping a row whose arrival
// airport falls outside the set would silently drop a connecting leg a
// feasible itinerary needs; required cities are always kept reachable-or-
// not so the search itself produces the right "infeasible" diagnostics
// instead of the prune silently swallowing a connection the caller asked
// for.
func filterRowsByReachability(g *graphcache.CachedFlightGraph, reached map[string]struct{}, required []string) []int {
	keep := make(map[string]struct{}, len(reached)+len(required))
	for city := range reached {
		keep[city] = struct{}{}
	}
	for _, city := range required {
		keep[city] = struct{}{}
	}

	var rows []int
	t := g.Table
	for i := 0; i < t.Len(); i++ {
		_, depOK := keep[t.DepartureAirport[i]]
		_, arrOK := keep[t.ArrivalAirport[i]]
		if depOK && arrOK {
			rows = append(rows, i)
		}
	}
	return rows
}

// subsetTable materializes a new table from a row-index subset of t. Row
// order is preserved, so a subset of an already departure-sorted table is
// itself departure-sorted and can go straight into BuildCityIndex without
// another sort pass.
func subsetTable(t *schema.FlightTable, rows []int) *schema.FlightTable {
	out := make([]schema.FlightRow, len(rows))
	for i, r := range rows {
		out[i] = t.Row(r)
	}
	return schema.FromRows(out)
}
