package router

import (
	"testing"

	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, rows []schema.FlightRow) *graphcache.CachedFlightGraph {
	t.Helper()
	g, err := graphcache.Build(rows)
	require.NoError(t, err)
	return g
}

func TestReachableWithinHops(t *testing.T) {
	g := buildGraph(t, []schema.FlightRow{
		row("JFK", "LHR", 0, 1, 1),
		row("LHR", "CDG", 0, 1, 1),
		row("CDG", "FRA", 0, 1, 1),
	})

	oneHop := reachableWithinHops(g, []string{"JFK"}, 1)
	_, hasLHR := oneHop["LHR"]
	_, hasCDG := oneHop["CDG"]
	assert.True(t, hasLHR)
	assert.False(t, hasCDG, "CDG is two hops away and must not be reachable within one hop")

	twoHops := reachableWithinHops(g, []string{"JFK"}, 2)
	_, hasCDG2 := twoHops["CDG"]
	_, hasFRA2 := twoHops["FRA"]
	assert.True(t, hasCDG2)
	assert.False(t, hasFRA2, "FRA is three hops away and must not be reachable within two hops")
}

func TestReachableWithinHops_ZeroHops(t *testing.T) {
	g := buildGraph(t, []schema.FlightRow{row("JFK", "LHR", 0, 1, 1)})
	reached := reachableWithinHops(g, []string{"JFK"}, 0)
	assert.Len(t, reached, 1)
	_, ok := reached["JFK"]
	assert.True(t, ok)
}

func TestReachableWithinHops_MultipleSeeds(t *testing.T) {
	g := buildGraph(t, []schema.FlightRow{
		row("JFK", "LHR", 0, 1, 1),
		row("SYD", "NRT", 0, 1, 1),
	})
	reached := reachableWithinHops(g, []string{"JFK", "SYD"}, 1)
	for _, city := range []string{"JFK", "LHR", "SYD", "NRT"} {
		_, ok := reached[city]
		assert.True(t, ok, "%s should be reachable from one of the seeds", city)
	}
}

func TestReachableWithinHops_Undirected(t *testing.T) {
	// Only a JFK->LHR direct pair exists, but a multi-city itinerary may
	// need to connect onward FROM LHR having arrived there, or may need to
	// reach JFK having departed from somewhere beyond it. The prune must
	// not assume travel direction matches the table row's Origin/Destination
	// ordering.
	g := buildGraph(t, []schema.FlightRow{row("JFK", "LHR", 0, 1, 1)})
	reached := reachableWithinHops(g, []string{"LHR"}, 1)
	_, ok := reached["JFK"]
	assert.True(t, ok, "JFK must be reachable from LHR even though the only row is JFK->LHR")
}

func TestFilterRowsByReachability_RequiresBothEndpoints(t *testing.T) {
	// origin A, required D, chain A->X->Y->Z->D->A, hops=2: a directed-only,
	// departure-only prune discards the A->X and X->Y legs needed to ever
	// reach D, turning a feasible route infeasible.
	g := buildGraph(t, []schema.FlightRow{
		row("A", "X", 0, 1, 1),
		row("X", "Y", 1, 2, 1),
		row("Y", "Z", 2, 3, 1),
		row("Z", "D", 3, 4, 1),
		row("D", "A", 4, 5, 1),
	})
	seeds := []string{"A", "D"}
	reached := reachableWithinHops(g, seeds, 2)
	rows := filterRowsByReachability(g, reached, []string{"D"})

	kept := make(map[string]bool)
	for _, i := range rows {
		kept[g.Table.DepartureAirport[i]+"->"+g.Table.ArrivalAirport[i]] = true
	}
	assert.True(t, kept["A->X"], "A->X must survive the prune to reach D")
	assert.True(t, kept["X->Y"], "X->Y must survive the prune to reach D")
}

func TestFilterRowsByReachability_DropsRowWithUnreachableEndpoint(t *testing.T) {
	g := buildGraph(t, []schema.FlightRow{
		row("JFK", "LHR", 0, 1, 1),
		row("NRT", "SYD", 0, 1, 1), // disconnected component, SYD/NRT not required
	})
	reached := reachableWithinHops(g, []string{"JFK"}, 2)
	rows := filterRowsByReachability(g, reached, nil)

	for _, i := range rows {
		assert.NotEqual(t, "NRT", g.Table.DepartureAirport[i])
	}
}
