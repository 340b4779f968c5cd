package graphcache

import (
	"sort"

	"github.com/flightrouter/pareto/schema"
)

// CityIndex maps a departure airport code to its half-open row range
// [Start, End) in a sorted FlightTable. Ranges are disjoint, sorted by
// airport, and cover exactly [0, table.Len()).
type CityIndex map[string]schema.View

// SortByDeparture stable-sorts t in place by DepartureAirport and resets row
// positions implicitly (the sort itself IS the position reset: row i after
// sorting is whatever ended up at index i). Row order is only guaranteed
// stable immediately after a single build; a stable sort keeps rows
// sharing a departure airport in their original relative (provider) order,
// which keeps test fixtures and goldens deterministic across runs on the
// same input.
func SortByDeparture(t *schema.FlightTable) {
	n := t.Len()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t.DepartureAirport[idx[a]] < t.DepartureAirport[idx[b]]
	})
	permute(t, idx)
}

// permute reorders every column of t according to idx, where idx[i] is the
// source row that should end up at destination row i.
func permute(t *schema.FlightTable, idx []int) {
	n := len(idx)

	dep := make([]string, n)
	arr := make([]string, n)
	depT := make([]int64, n)
	arrT := make([]int64, n)
	price := make([]float64, n)
	carrierCode := make([]string, n)
	carrierName := make([]string, n)
	baggage := make([]string, n)
	terminal := make([]string, n)
	schedDep := make([]string, n)
	schedArr := make([]string, n)
	co2 := make([]float64, n)

	for dst, src := range idx {
		dep[dst] = t.DepartureAirport[src]
		arr[dst] = t.ArrivalAirport[src]
		depT[dst] = t.DepTime[src]
		arrT[dst] = t.ArrTime[src]
		price[dst] = t.Price[src]
		if src < len(t.CarrierCode) {
			carrierCode[dst] = t.CarrierCode[src]
		}
		if src < len(t.CarrierName) {
			carrierName[dst] = t.CarrierName[src]
		}
		if src < len(t.Baggage) {
			baggage[dst] = t.Baggage[src]
		}
		if src < len(t.Terminal) {
			terminal[dst] = t.Terminal[src]
		}
		if src < len(t.ScheduledDepText) {
			schedDep[dst] = t.ScheduledDepText[src]
		}
		if src < len(t.ScheduledArrText) {
			schedArr[dst] = t.ScheduledArrText[src]
		}
		if src < len(t.CO2Kg) {
			co2[dst] = t.CO2Kg[src]
		}
	}

	t.DepartureAirport = dep
	t.ArrivalAirport = arr
	t.DepTime = depT
	t.ArrTime = arrT
	t.Price = price
	t.CarrierCode = carrierCode
	t.CarrierName = carrierName
	t.Baggage = baggage
	t.Terminal = terminal
	t.ScheduledDepText = schedDep
	t.ScheduledArrText = schedArr
	t.CO2Kg = co2
}

// BuildCityIndex scans the (already sorted) DepartureAirport column once
// and records each run's [start, end) range. Because the column is sorted,
// a run boundary is just "does this row's airport differ from the previous
// one" — a single linear pass, no per-row map probing beyond the run
// boundaries themselves.
func BuildCityIndex(t *schema.FlightTable) CityIndex {
	idx := make(CityIndex)
	n := t.Len()
	if n == 0 {
		return idx
	}
	runStart := 0
	for i := 1; i <= n; i++ {
		if i == n || t.DepartureAirport[i] != t.DepartureAirport[runStart] {
			idx[t.DepartureAirport[runStart]] = schema.View{Start: runStart, Len: i - runStart}
			runStart = i
		}
	}
	return idx
}

// GetFlightsForCity returns the zero-allocation view for city, or the
// shared Empty view if the city has no outbound flights.
func (idx CityIndex) GetFlightsForCity(city string) schema.View {
	if v, ok := idx[city]; ok {
		return v
	}
	return schema.Empty
}

// GetFlightsForCities returns the sorted, deduplicated row indices across
// every city in cities. Unlike a single-city lookup this cannot be
// expressed as one contiguous range in general, so it returns an explicit
// index slice rather than a View.
func (idx CityIndex) GetFlightsForCities(cities []string) []int {
	var rows []int
	seen := make(map[string]bool, len(cities))
	for _, c := range cities {
		if seen[c] {
			continue
		}
		seen[c] = true
		v, ok := idx[c]
		if !ok {
			continue
		}
		for i := v.Start; i < v.Start+v.Len; i++ {
			rows = append(rows, i)
		}
	}
	sort.Ints(rows)
	return rows
}
