package search

import "testing"

func newSolution(arena *Arena, city string, visited uint64, cost float64, t int64) Solution {
	idx := arena.add(Label{City: city, Visited: visited, Time: t, Cost: cost, Prev: -1, FlightRow: -1})
	return Solution{LabelIndex: idx, Cost: cost, Time: t}
}

func TestFilterParetoOptimal_DropsDominatedSolution(t *testing.T) {
	arena := &Arena{}
	cheaperSlower := newSolution(arena, "JFK", 3, 100, 1000)
	fasterAndCheaper := newSolution(arena, "JFK", 3, 90, 900)
	dominated := newSolution(arena, "JFK", 3, 150, 1200) // worse on both axes

	out := FilterParetoOptimal(arena, []Solution{cheaperSlower, fasterAndCheaper, dominated})

	kept := make(map[int]bool)
	for _, s := range out {
		kept[s.LabelIndex] = true
	}
	if !kept[fasterAndCheaper.LabelIndex] {
		t.Fatal("the cheapest, fastest solution must survive")
	}
	if kept[dominated.LabelIndex] {
		t.Fatal("a solution worse on both cost and time must be dropped")
	}
}

func TestFilterParetoOptimal_KeepsIncomparableTradeoffs(t *testing.T) {
	arena := &Arena{}
	cheapSlow := newSolution(arena, "JFK", 3, 100, 2000)
	fastExpensive := newSolution(arena, "JFK", 3, 300, 500)

	out := FilterParetoOptimal(arena, []Solution{cheapSlow, fastExpensive})
	if len(out) != 2 {
		t.Fatalf("expected both incomparable solutions to survive, got %d", len(out))
	}
}

func TestFilterParetoOptimal_GroupsByGoalStateIndependently(t *testing.T) {
	arena := &Arena{}
	// Two different (city, visited) goal states never compete with each
	// other even if one strictly dominates the other numerically.
	groupA := newSolution(arena, "JFK", 1, 500, 5000)
	groupB := newSolution(arena, "JFK", 3, 100, 100)

	out := FilterParetoOptimal(arena, []Solution{groupA, groupB})
	if len(out) != 2 {
		t.Fatalf("solutions in distinct (city, visited) groups must both survive, got %d", len(out))
	}
}

func TestFilterParetoOptimal_EmptyInput(t *testing.T) {
	arena := &Arena{}
	out := FilterParetoOptimal(arena, nil)
	if len(out) != 0 {
		t.Fatalf("expected no solutions, got %d", len(out))
	}
}
