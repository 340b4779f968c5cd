package router

import (
	"context"
	"sort"

	"github.com/flightrouter/pareto/expand"
	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/schema"
	"github.com/flightrouter/pareto/search"
)

// Orchestrator drives one request end to end: fetch the cached graph,
// expand it if the window strays outside the base week, reachability-prune,
// run Pareto Dijkstra, reconstruct and post-filter the results. It is the
// single public entry point the API and MCP front doors call.
type Orchestrator struct {
	cache    *graphcache.Cache
	baseWeek expand.Window
	expand   bool // if false, the data expander is never invoked even when the window strays
}

// NewOrchestrator builds an Orchestrator bound to a cache and the base week
// the cached data covers. Pass expandOutsideBaseWeek=false to disable the
// data expander entirely and treat the cached data as the only window ever
// served.
func NewOrchestrator(cache *graphcache.Cache, baseWeek expand.Window, expandOutsideBaseWeek bool) *Orchestrator {
	return &Orchestrator{cache: cache, baseWeek: baseWeek, expand: expandOutsideBaseWeek}
}

// Search validates constraints, fetches and (if needed) expands the cached
// graph, reachability-prunes it, runs Pareto Dijkstra, and reconstructs and
// sorts the results by ascending total cost.
func (o *Orchestrator) Search(ctx context.Context, c Constraints) ([]Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	graph, err := o.cache.GetGraph(ctx)
	if err != nil {
		return nil, err
	}

	table := graph.Table
	direct := graph.Direct

	if o.expand {
		offsets := expand.GetWeekOffsets(o.baseWeek, c.TMin, c.TMax)
		if len(offsets) != 1 || offsets[0] != 0 {
			table = expandTable(table, o.baseWeek, c.TMin, c.TMax)
			direct = directPairsOf(table)
		}
	}

	seeds := append([]string{c.Origin}, c.Required...)
	reached := reachableWithinHops(&graphcache.CachedFlightGraph{Table: table, Direct: direct}, seeds, c.reachabilityHops())
	rows := filterRowsByReachability(&graphcache.CachedFlightGraph{Table: table, Direct: direct}, reached, c.Required)
	prunedTable := subsetTable(table, rows)
	prunedIndex := graphcache.BuildCityIndex(prunedTable)

	searchResult := search.ParetoDijkstra(search.Input{
		Table:          prunedTable,
		Index:          prunedIndex,
		Origin:         c.Origin,
		Required:       c.Required,
		TMin:           c.TMin,
		TMax:           c.TMax,
		MinStayMinutes: c.MinStayMinutes,
	})

	solutions := search.FilterParetoOptimal(searchResult.Arena, searchResult.Solutions)

	var results []Result
	for _, sol := range solutions {
		segs := search.ReconstructPath(prunedTable, searchResult.Arena, sol.LabelIndex)
		routeSegs := make([]Segment, len(segs))
		for i, s := range segs {
			routeSegs[i] = Segment{
				Index:       i,
				Origin:      s.Origin,
				Destination: s.Destination,
				DepTime:     s.DepTime,
				ArrTime:     s.ArrTime,
				Price:       s.Price,
				CarrierCode: s.CarrierCode,
			}
		}
		result, ok := BuildResult(routeSegs)
		if !ok {
			continue
		}
		if !c.passesPostFilters(result) {
			continue
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].TotalCost < results[j].TotalCost })
	return results, nil
}

func (c Constraints) passesPostFilters(r Result) bool {
	if c.MaxStops != nil && r.NumSegments-1 > *c.MaxStops {
		return false
	}
	if c.MaxPrice != nil && r.TotalCost > *c.MaxPrice {
		return false
	}
	return true
}

// expandTable runs the week expander over every row of t and rebuilds a
// sorted, indexable table from the synthesized rows.
func expandTable(t *schema.FlightTable, base expand.Window, tMin, tMax int64) *schema.FlightTable {
	rows := make([]schema.FlightRow, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	expanded := expand.Expand(base, rows, tMin, tMax)
	out := schema.FromRows(expanded)
	graphcache.SortByDeparture(out)
	return out
}

// directPairsOf rebuilds the direct-route pair set for an expanded table;
// time-shifting rows never changes which (origin, destination) pairs exist.
func directPairsOf(t *schema.FlightTable) map[graphcache.RoutePair]struct{} {
	direct := make(map[graphcache.RoutePair]struct{})
	for i := 0; i < t.Len(); i++ {
		direct[graphcache.RoutePair{Origin: t.DepartureAirport[i], Destination: t.ArrivalAirport[i]}] = struct{}{}
	}
	return direct
}
