// Package search implements the Pareto multi-criteria label-setting
// Dijkstra : a directed temporal graph search for Pareto-optimal
// closed walks from an origin that visit every required airport, minimizing
// (total_price, end_time).
package search

import "github.com/flightrouter/pareto/schema"

// CityIndex is the minimal view the search needs into a city→row-range
// lookup. graphcache.CityIndex satisfies this without either package
// importing the other.
type CityIndex interface {
	GetFlightsForCity(city string) schema.View
}

// Label is one search state: (city, time, visited, cost) plus provenance.
// Labels are stored in a flat Arena and referenced by index so a label's
// "pointer" is cheap to copy and the predecessor chain walk is a pure
// index chase with no heap churn.
type Label struct {
	City    string
	Time    int64
	Visited uint64 // bitmask over the fixed ordering of required cities
	Cost    float64

	Prev      int // arena index of predecessor, -1 for the seed label
	FlightRow int // row index of the incoming flight, -1 for the seed label

	seq int // insertion counter, used only to break priority ties deterministically
}

// Arena owns every label created during one search; labels are created
// only and never mutated, so indices into it remain stable for the life of
// the request.
type Arena struct {
	labels []Label
}

func (a *Arena) add(l Label) int {
	a.labels = append(a.labels, l)
	return len(a.labels) - 1
}

// Get returns the label stored at index i.
func (a *Arena) Get(i int) *Label { return &a.labels[i] }

// dominates reports whether a strictly-better-or-equal label a makes b
// unreachable as a Pareto candidate: same (city, visited), a.time <= b.time
// and a.cost <= b.cost, with at least one strict. Two labels identical on
// every field do NOT dominate each other.
func dominates(a, b *Label) bool {
	if a.City != b.City || a.Visited != b.Visited {
		return false
	}
	if a.Time > b.Time || a.Cost > b.Cost {
		return false
	}
	return a.Time < b.Time || a.Cost < b.Cost
}
