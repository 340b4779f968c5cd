package router

import (
	"context"
	"testing"

	"github.com/flightrouter/pareto/expand"
	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	rows []schema.FlightRow
}

func (p *staticProvider) FlightRows(ctx context.Context) ([]schema.FlightRow, error) {
	return p.rows, nil
}

func (p *staticProvider) Available(ctx context.Context) bool { return true }

func newTestOrchestrator(rows []schema.FlightRow) *Orchestrator {
	cache := graphcache.New(&staticProvider{rows: rows}, graphcache.Config{}, nil)
	return NewOrchestrator(cache, expand.Window{Start: 0, End: 7 * 24 * 60}, false)
}

func row(dep, arr string, depT, arrT int64, price float64) schema.FlightRow {
	return schema.FlightRow{DepartureAirport: dep, ArrivalAirport: arr, DepTime: depT, ArrTime: arrT, Price: price}
}

func TestOrchestrator_SingleDominatingSolution(t *testing.T) {
	rows := []schema.FlightRow{
		row("JFK", "LHR", 100, 500, 300),
		row("LHR", "JFK", 600, 1000, 300),
	}
	o := newTestOrchestrator(rows)

	results, err := o.Search(context.Background(), Constraints{
		Origin:   "JFK",
		Required: []string{"LHR"},
		TMin:     0,
		TMax:     2000,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 600.0, results[0].TotalCost)
	assert.Equal(t, 2, results[0].NumSegments)
	assert.Equal(t, []string{"JFK", "LHR", "JFK"}, results[0].Cities)
}

func TestOrchestrator_SameArrivalKeepsOnlyCheaperSolution(t *testing.T) {
	rows := []schema.FlightRow{
		// cheap but slow outbound, expensive but fast outbound
		row("JFK", "LHR", 100, 900, 200),
		row("JFK", "LHR", 100, 400, 500),
		row("LHR", "JFK", 1000, 1400, 200),
	}
	o := newTestOrchestrator(rows)

	results, err := o.Search(context.Background(), Constraints{
		Origin:   "JFK",
		Required: []string{"LHR"},
		TMin:     0,
		TMax:     2000,
	})
	require.NoError(t, err)
	// both outbound options reach the goal at the same final arrival time,
	// 1400, via the same return flight, so only the cheaper one survives
	// the skyline filter: identical time + higher cost is dominated.
	require.Len(t, results, 1)
	assert.Equal(t, 400.0, results[0].TotalCost)
}

func TestOrchestrator_InfeasibleReturnsEmpty(t *testing.T) {
	rows := []schema.FlightRow{
		row("JFK", "LHR", 100, 500, 300),
	}
	o := newTestOrchestrator(rows)

	results, err := o.Search(context.Background(), Constraints{
		Origin:   "JFK",
		Required: []string{"LHR"},
		TMin:     0,
		TMax:     2000,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOrchestrator_MinStayEnforced(t *testing.T) {
	rows := []schema.FlightRow{
		row("JFK", "LHR", 100, 500, 300),
		row("LHR", "JFK", 520, 900, 300), // only 20 minutes layover
		row("LHR", "JFK", 800, 1200, 350),
	}
	o := newTestOrchestrator(rows)

	results, err := o.Search(context.Background(), Constraints{
		Origin:         "JFK",
		Required:       []string{"LHR"},
		TMin:           0,
		TMax:           2000,
		MinStayMinutes: map[string]int64{"LHR": 200},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 650.0, results[0].TotalCost)
}

func TestOrchestrator_MaxStopsPostFilter(t *testing.T) {
	rows := []schema.FlightRow{
		row("JFK", "LHR", 100, 500, 300),
		row("LHR", "JFK", 600, 1000, 300),
	}
	o := newTestOrchestrator(rows)
	zero := 0

	results, err := o.Search(context.Background(), Constraints{
		Origin:   "JFK",
		Required: []string{"LHR"},
		TMin:     0,
		TMax:     2000,
		MaxStops: &zero,
	})
	require.NoError(t, err)
	assert.Empty(t, results, "a round trip has 1 stop and must be excluded by max_stops=0")
}

func TestConstraints_Validate(t *testing.T) {
	cases := []struct {
		name string
		c    Constraints
		ok   bool
	}{
		{"valid", Constraints{Origin: "JFK", TMin: 0, TMax: 10}, true},
		{"empty origin", Constraints{Origin: "", TMin: 0, TMax: 10}, false},
		{"inverted window", Constraints{Origin: "JFK", TMin: 10, TMax: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.c.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
