package search

import (
	"container/heap"

	"github.com/flightrouter/pareto/schema"
)

// Input is everything the algorithm needs: a read-only flight table view,
// a city index over it, the request's origin/required cities/time window,
// and per-city minimum stay durations.
type Input struct {
	Table *schema.FlightTable
	Index CityIndex

	Origin   string
	Required []string // required destination cities; order fixes the visited bitmask

	TMin, TMax int64

	// MinStayMinutes, keyed by required city, is the minimum dwell time
	// (arrival of the inbound flight to departure of the next flight) the
	// traveler must spend there. Cities absent from the map get 0. Origin
	// and transit cities not in Required always get 0 regardless of this
	// map.
	MinStayMinutes map[string]int64
}

// stayMinutesFor returns the minimum dwell time enforced before departing
// a city: 0 for origin and non-required transit cities, the configured
// minimum for required cities.
func (in *Input) stayMinutesFor(city string, ri *requiredIndex) int64 {
	if city == in.Origin {
		return 0
	}
	if _, required := ri.bit(city); !required {
		return 0
	}
	return in.MinStayMinutes[city]
}

// Solution is one recorded goal-state label: (city=origin, visited=required)
// reached within [TMin, TMax].
type Solution struct {
	LabelIndex int
	Cost       float64
	Time       int64
}

// Result is the full output of one ParetoDijkstra run: every recorded
// candidate solution (pre-Pareto-filter) plus the arena needed to
// reconstruct each one's flight path.
type Result struct {
	Arena     *Arena
	Solutions []Solution
}

// frontierKey is the dense (city, visited) key used by the state map.
type frontierKey struct {
	city    string
	visited uint64
}

// ParetoDijkstra runs a label-setting multi-criteria search over (cost,
// time). It returns every goal-state label reached (the caller applies
// the Pareto skyline filter separately via FilterParetoOptimal).
func ParetoDijkstra(in Input) Result {
	ri := newRequiredIndex(in.Required)
	arena := &Arena{}
	frontier := make(map[frontierKey][]int)
	pq := &priorityQueue{}
	heap.Init(pq)

	var seq int
	nextSeq := func() int { s := seq; seq++; return s }

	seed := Label{
		City:      in.Origin,
		Time:      in.TMin,
		Visited:   0,
		Cost:      0,
		Prev:      -1,
		FlightRow: -1,
		seq:       nextSeq(),
	}
	seedIdx := arena.add(seed)
	frontier[frontierKey{in.Origin, 0}] = []int{seedIdx}
	heap.Push(pq, pqItem{idx: seedIdx, cost: seed.Cost, time: seed.Time, seq: seed.seq})

	var solutions []Solution
	fullMask := ri.full()

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		cur := arena.Get(item.idx)

		if cur.Time > in.TMax {
			continue
		}

		if cur.City == in.Origin && cur.Visited == fullMask {
			solutions = append(solutions, Solution{LabelIndex: item.idx, Cost: cur.Cost, Time: cur.Time})
			continue
		}

		expand(in, ri, arena, frontier, pq, &seq, item.idx)
	}

	return Result{Arena: arena, Solutions: solutions}
}

// expand pushes every feasible outbound flight from the label at idx as a
// new candidate label, applying the dominance-pruned frontier insert.
func expand(in Input, ri *requiredIndex, arena *Arena, frontier map[frontierKey][]int, pq *priorityQueue, seq *int, idx int) {
	cur := arena.Get(idx)
	view := in.Index.GetFlightsForCity(cur.City)
	stay := in.stayMinutesFor(cur.City, ri)

	for i := view.Start; i < view.Start+view.Len; i++ {
		depTime := in.Table.DepTime[i]
		arrTime := in.Table.ArrTime[i]

		if depTime < cur.Time+stay {
			continue
		}
		if arrTime > in.TMax {
			continue
		}

		dest := in.Table.ArrivalAirport[i]
		newVisited := ri.markVisited(cur.Visited, dest)
		newCost := cur.Cost + in.Table.Price[i]

		candidate := Label{
			City:      dest,
			Time:      arrTime,
			Visited:   newVisited,
			Cost:      newCost,
			Prev:      idx,
			FlightRow: i,
		}

		key := frontierKey{dest, newVisited}
		existing := frontier[key]

		dominated := false
		for _, eIdx := range existing {
			if dominates(arena.Get(eIdx), &candidate) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}

		// Remove existing labels the candidate now dominates; they stay in
		// the arena (labels are never deleted, only unreferenced) but drop
		// out of the frontier. A removed label that is already in the
		// queue is still popped and expanded later.
		kept := existing[:0]
		for _, eIdx := range existing {
			if !dominates(&candidate, arena.Get(eIdx)) {
				kept = append(kept, eIdx)
			}
		}

		candidate.seq = *seq
		*seq++
		newIdx := arena.add(candidate)
		kept = append(kept, newIdx)
		frontier[key] = kept

		heap.Push(pq, pqItem{idx: newIdx, cost: candidate.Cost, time: candidate.Time, seq: candidate.seq})
	}
}
