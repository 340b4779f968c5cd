package graphcache

import (
	"testing"

	"github.com/flightrouter/pareto/schema"
)

func tableRow(dep, arr string, depT, arrT int64, price float64) schema.FlightRow {
	return schema.FlightRow{DepartureAirport: dep, ArrivalAirport: arr, DepTime: depT, ArrTime: arrT, Price: price}
}

func TestBuildCityIndex_RangesAreDisjointSortedAndCoverTheTable(t *testing.T) {
	table := schema.FromRows([]schema.FlightRow{
		tableRow("LHR", "CDG", 0, 1, 1),
		tableRow("JFK", "LHR", 0, 1, 1),
		tableRow("JFK", "ORD", 0, 1, 1),
		tableRow("CDG", "FRA", 0, 1, 1),
	})
	SortByDeparture(table)
	idx := BuildCityIndex(table)

	// Every range's airport must actually match the rows it claims to
	// cover, ranges must be disjoint, and the union must be exactly
	// [0, table.Len()).
	covered := make([]bool, table.Len())
	airports := make([]string, 0, len(idx))
	for airport, v := range idx {
		airports = append(airports, airport)
		for i := v.Start; i < v.Start+v.Len; i++ {
			if covered[i] {
				t.Fatalf("row %d covered by more than one city range", i)
			}
			covered[i] = true
			if table.DepartureAirport[i] != airport {
				t.Fatalf("row %d has departure %q but is indexed under %q", i, table.DepartureAirport[i], airport)
			}
		}
	}
	for i, c := range covered {
		if !c {
			t.Fatalf("row %d not covered by any city range", i)
		}
	}

	for i := 1; i < table.Len(); i++ {
		if table.DepartureAirport[i] < table.DepartureAirport[i-1] {
			t.Fatalf("table not sorted by departure airport at row %d", i)
		}
	}
}

func TestBuildCityIndex_EmptyTable(t *testing.T) {
	table := schema.FromRows(nil)
	idx := BuildCityIndex(table)
	if len(idx) != 0 {
		t.Fatalf("expected an empty index for an empty table, got %d entries", len(idx))
	}
}

func TestSortByDeparture_StableWithinSameAirport(t *testing.T) {
	// Three JFK rows in a distinctive price order; after sorting by
	// departure airport they must keep that same relative order.
	table := schema.FromRows([]schema.FlightRow{
		tableRow("JFK", "LHR", 0, 1, 10),
		tableRow("ATL", "ORD", 0, 1, 999),
		tableRow("JFK", "CDG", 0, 1, 20),
		tableRow("JFK", "FRA", 0, 1, 30),
	})
	SortByDeparture(table)

	var jfkPrices []float64
	for i := 0; i < table.Len(); i++ {
		if table.DepartureAirport[i] == "JFK" {
			jfkPrices = append(jfkPrices, table.Price[i])
		}
	}
	want := []float64{10, 20, 30}
	if len(jfkPrices) != len(want) {
		t.Fatalf("expected %d JFK rows, got %d", len(want), len(jfkPrices))
	}
	for i, p := range want {
		if jfkPrices[i] != p {
			t.Fatalf("JFK row %d: expected price %v, got %v (stable sort broken)", i, p, jfkPrices[i])
		}
	}
}

func TestGetFlightsForCity_UnknownCityReturnsEmptyView(t *testing.T) {
	table := schema.FromRows([]schema.FlightRow{tableRow("JFK", "LHR", 0, 1, 1)})
	SortByDeparture(table)
	idx := BuildCityIndex(table)

	v := idx.GetFlightsForCity("ZZZ")
	if v.Len != 0 {
		t.Fatalf("expected empty view for unknown city, got len %d", v.Len)
	}
}

func TestGetFlightsForCities_SortedAndDeduplicated(t *testing.T) {
	table := schema.FromRows([]schema.FlightRow{
		tableRow("JFK", "LHR", 0, 1, 1),
		tableRow("ATL", "ORD", 0, 1, 1),
		tableRow("JFK", "CDG", 0, 1, 1),
	})
	SortByDeparture(table)
	idx := BuildCityIndex(table)

	rows := idx.GetFlightsForCities([]string{"JFK", "ATL", "JFK"})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows across JFK+ATL (JFK passed twice), got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i] <= rows[i-1] {
			t.Fatalf("expected strictly increasing row indices, got %v", rows)
		}
	}
}
