package router

// Segment is one leg of a route result, indexed from 0.
type Segment struct {
	Index       int
	Origin      string
	Destination string
	DepTime     int64
	ArrTime     int64
	Price       float64
	CarrierCode string
}

// Result is one Pareto-optimal itinerary: origin -> visit all required ->
// origin. Totals are derived once at construction time — Elapsed is
// wall-clock (last arrival - first departure); FlightTime is the sum of
// each leg's own air time. The two are tracked separately and never
// conflated.
type Result struct {
	Segments []Segment

	TotalCost   float64
	Elapsed     int64
	FlightTime  int64
	NumSegments int
	Cities      []string
}

// BuildResult computes every derived field from a segment list. Returns
// (Result{}, false) for a zero-segment input — the orchestrator decides
// whether to keep or discard that case (an empty required set / min_stay 0
// can yield a zero-flight "solution").
func BuildResult(segments []Segment) (Result, bool) {
	if len(segments) == 0 {
		return Result{}, false
	}

	r := Result{Segments: segments, NumSegments: len(segments)}
	for i, s := range segments {
		r.TotalCost += s.Price
		r.FlightTime += s.ArrTime - s.DepTime
		if i == 0 {
			r.Cities = append(r.Cities, s.Origin)
		}
		r.Cities = append(r.Cities, s.Destination)
	}
	r.Elapsed = segments[len(segments)-1].ArrTime - segments[0].DepTime
	return r, true
}

// Dominates reports whether r strictly beats other on at least one of
// (TotalCost, Elapsed) while being no worse on the other — the
// two-criterion dominance check that enforces "no two returned solutions
// dominate each other".
func (r Result) Dominates(other Result) bool {
	if r.TotalCost > other.TotalCost || r.Elapsed > other.Elapsed {
		return false
	}
	return r.TotalCost < other.TotalCost || r.Elapsed < other.Elapsed
}
