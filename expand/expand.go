// Package expand implements the weekly-periodicity data expander: the
// cached dataset covers one canonical week; a request window that strays
// outside it is served by synthesizing whole-week-shifted copies of the
// base data.
package expand

import (
	"sort"
	"time"

	"github.com/flightrouter/pareto/schema"
)

const dayMinutes = 24 * 60
const weekMinutes = 7 * dayMinutes

// Window is the base week the cached dataset covers.
type Window struct {
	Start int64
	End   int64
}

// GetWeekOffsets returns the sorted list of whole-week offsets k (the base
// week shifted by k*7 days) whose translated week overlaps [tMin, tMax]; a
// week that only touches the window at an endpoint does not count. Offset 0
// is included iff the base week itself overlaps the window.
func GetWeekOffsets(base Window, tMin, tMax int64) []int64 {
	var offsets []int64

	// The smallest k such that base.End + k*weekMinutes >= tMin, and the
	// largest k such that base.Start + k*weekMinutes <= tMax, bound the
	// search; scan that bounded range rather than every multiple of 7
	// between tMin and tMax one day at a time.
	kMin := floorDiv(tMin-base.End, weekMinutes)
	kMax := ceilDiv(tMax-base.Start, weekMinutes)

	for k := kMin; k <= kMax; k++ {
		shift := k * weekMinutes
		wStart := base.Start + shift
		wEnd := base.End + shift
		if wStart < tMax && wEnd > tMin {
			offsets = append(offsets, k)
		}
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}

// Expand synthesizes flights covering [tMin, tMax] from a base-week row
// set. If the only required offset is 0, the input is returned unchanged
// as a fast path. Otherwise it concatenates one time-shifted copy per
// offset; every non-time column (and the scheduled-departure/arrival text
// columns, shifted by whole days) is preserved.
func Expand(base Window, rows []schema.FlightRow, tMin, tMax int64) []schema.FlightRow {
	offsets := GetWeekOffsets(base, tMin, tMax)
	if len(offsets) == 1 && offsets[0] == 0 {
		return rows
	}

	out := make([]schema.FlightRow, 0, len(rows)*len(offsets))
	for _, k := range offsets {
		shiftMinutes := k * weekMinutes
		shiftDays := int(k * 7)
		for _, r := range rows {
			shifted := r
			shifted.DepTime = r.DepTime + shiftMinutes
			shifted.ArrTime = r.ArrTime + shiftMinutes
			shifted.ScheduledDepText = shiftDateText(r.ScheduledDepText, shiftDays)
			shifted.ScheduledArrText = shiftDateText(r.ScheduledArrText, shiftDays)
			out = append(out, shifted)
		}
	}
	return out
}

// shiftDateText shifts a "YYYY-MM-DD[...]" textual timestamp by shiftDays
// calendar days, leaving anything it can't parse untouched. Only the date
// prefix is shifted; any trailing time-of-day text is preserved verbatim
// since a whole-week shift never changes the time of day.
func shiftDateText(s string, shiftDays int) string {
	if s == "" || shiftDays == 0 {
		return s
	}
	const layout = "2006-01-02"
	if len(s) < len(layout) {
		return s
	}
	datePart, rest := s[:len(layout)], s[len(layout):]
	t, err := time.Parse(layout, datePart)
	if err != nil {
		return s
	}
	shifted := t.AddDate(0, 0, shiftDays)
	return shifted.Format(layout) + rest
}
