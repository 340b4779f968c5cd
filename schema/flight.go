// Package schema defines the flight row contract that crosses the
// provider boundary, and the validation that enforces it.
package schema

import (
	"strconv"

	"github.com/flightrouter/pareto/routeerr"
)

// FlightRow is a single flight offer as read from the data provider. The
// five core fields are required and interpreted by the search engine; the
// rest are preserved verbatim and never interpreted by the core.
type FlightRow struct {
	DepartureAirport string
	ArrivalAirport   string
	DepTime          int64 // minutes since a fixed epoch
	ArrTime          int64 // minutes since the same epoch, ArrTime >= DepTime
	Price            float64

	// Extra columns, preserved but not interpreted.
	CarrierCode        string
	CarrierName        string
	Baggage            string
	Terminal           string
	ScheduledDepText   string // original textual departure timestamp, if any
	ScheduledArrText   string // original textual arrival timestamp, if any
	CO2Kg              float64
}

// RequiredColumns lists the core columns a provider must supply, in the
// order referenced by MissingColumns error messages.
var RequiredColumns = []string{"departure_airport", "arrival_airport", "dep_time", "arr_time", "price"}

// ValidateRow checks a single row against the core schema invariants:
// non-null airports, no self-loops, non-negative times, arr_time >=
// dep_time, non-negative price. The table-level check (an empty row set)
// is ValidateTable's job.
func ValidateRow(r FlightRow) error {
	if r.DepartureAirport == "" || r.ArrivalAirport == "" {
		return routeerr.New(routeerr.SchemaViolation, "departure_airport and arrival_airport must be non-empty")
	}
	if r.DepartureAirport == r.ArrivalAirport {
		return routeerr.New(routeerr.SchemaViolation, "departure_airport and arrival_airport must differ")
	}
	if r.DepTime < 0 || r.ArrTime < 0 {
		return routeerr.New(routeerr.SchemaViolation, "dep_time and arr_time must be non-negative")
	}
	if r.ArrTime < r.DepTime {
		return routeerr.New(routeerr.SchemaViolation, "arr_time must be >= dep_time")
	}
	if r.Price < 0 {
		return routeerr.New(routeerr.SchemaViolation, "price must be non-negative")
	}
	return nil
}

// ValidateTable validates every row of a raw provider payload and returns
// the boundary errors: EmptyData if rows is empty, SchemaViolation on the
// first invalid row. MissingColumns is the
// provider's responsibility to raise before rows even reach this function
// (e.g. when the upstream result set lacks a required column entirely);
// ValidateTable assumes rows are already shaped as FlightRow and only
// checks per-row content.
func ValidateTable(rows []FlightRow) error {
	if len(rows) == 0 {
		return routeerr.New(routeerr.EmptyData, "flight table has zero rows")
	}
	for i, r := range rows {
		if err := ValidateRow(r); err != nil {
			if e, ok := err.(*routeerr.Error); ok {
				e.Message = e.Message + " (row " + strconv.Itoa(i) + ")"
			}
			return err
		}
	}
	return nil
}
