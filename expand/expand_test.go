package expand

import (
	"testing"

	"github.com/flightrouter/pareto/schema"
)

func TestGetWeekOffsets_BaseWeekOnlyWhenWindowMatches(t *testing.T) {
	base := Window{Start: 0, End: 7 * dayMinutes}
	offsets := GetWeekOffsets(base, 0, 7*dayMinutes)
	if len(offsets) != 1 || offsets[0] != 0 {
		t.Fatalf("expected only offset 0, got %v", offsets)
	}
}

func TestGetWeekOffsets_IdempotentAcrossRepeatedCalls(t *testing.T) {
	base := Window{Start: 0, End: 7 * dayMinutes}
	tMin, tMax := int64(-3*dayMinutes), int64(10*dayMinutes)

	first := GetWeekOffsets(base, tMin, tMax)
	second := GetWeekOffsets(base, tMin, tMax)

	if len(first) != len(second) {
		t.Fatalf("repeated calls returned different lengths: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated calls diverged at index %d: %v vs %v", i, first, second)
		}
	}
}

func TestGetWeekOffsets_IdempotentUnderReapplication(t *testing.T) {
	// Applying GetWeekOffsets to the union of windows each offset already
	// produces must not discover any offset beyond what the original call
	// found — the set of intersecting weeks is a fixed point.
	base := Window{Start: 0, End: 7 * dayMinutes}
	tMin, tMax := int64(-10*dayMinutes), int64(20*dayMinutes)

	offsets := GetWeekOffsets(base, tMin, tMax)
	if len(offsets) == 0 {
		t.Fatal("expected at least one intersecting week offset")
	}

	minShift := offsets[0] * weekMinutes
	maxShift := offsets[len(offsets)-1] * weekMinutes
	reapplied := GetWeekOffsets(base, base.Start+minShift, base.End+maxShift)

	if len(reapplied) != len(offsets) {
		t.Fatalf("reapplying offsets changed the result: %v -> %v", offsets, reapplied)
	}
	for i := range offsets {
		if offsets[i] != reapplied[i] {
			t.Fatalf("reapplying offsets changed the result at index %d: %v -> %v", i, offsets, reapplied)
		}
	}
}

func TestGetWeekOffsets_SortedAscending(t *testing.T) {
	base := Window{Start: 0, End: 7 * dayMinutes}
	offsets := GetWeekOffsets(base, -21*dayMinutes, 21*dayMinutes)
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			t.Fatalf("offsets not strictly ascending: %v", offsets)
		}
	}
}

func TestExpand_FastPathReturnsInputUnchangedWhenOnlyBaseWeekIntersects(t *testing.T) {
	base := Window{Start: 0, End: 7 * dayMinutes}
	rows := []schema.FlightRow{{DepartureAirport: "JFK", ArrivalAirport: "LHR", DepTime: 0, ArrTime: 420, Price: 1}}

	out := Expand(base, rows, 0, 7*dayMinutes)
	if len(out) != len(rows) {
		t.Fatalf("expected fast path to return exactly the input rows, got %d", len(out))
	}
	if out[0].DepTime != rows[0].DepTime {
		t.Fatal("fast path must not alter DepTime")
	}
}

func TestExpand_ShiftsTimesByWholeWeeks(t *testing.T) {
	base := Window{Start: 0, End: 7 * dayMinutes}
	rows := []schema.FlightRow{{DepartureAirport: "JFK", ArrivalAirport: "LHR", DepTime: 100, ArrTime: 500, Price: 1}}

	out := Expand(base, rows, 7*dayMinutes, 14*dayMinutes)

	found := false
	for _, r := range out {
		if r.DepTime == 100+weekMinutes && r.ArrTime == 500+weekMinutes {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a row shifted by exactly one week, got %+v", out)
	}
}

func TestExpand_ShiftsScheduledDateText(t *testing.T) {
	base := Window{Start: 0, End: 7 * dayMinutes}
	rows := []schema.FlightRow{{
		DepartureAirport: "JFK", ArrivalAirport: "LHR",
		DepTime: 100, ArrTime: 500, Price: 1,
		ScheduledDepText: "2024-01-01T08:00:00",
	}}

	out := Expand(base, rows, 7*dayMinutes, 14*dayMinutes)

	found := false
	for _, r := range out {
		if r.ScheduledDepText == "2024-01-08T08:00:00" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the scheduled date text shifted by 7 days, got %+v", out)
	}
}
