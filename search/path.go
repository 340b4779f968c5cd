package search

import "github.com/flightrouter/pareto/schema"

// Segment is one flight leg of a reconstructed path, in table-row terms;
// the router package turns these into its richer RouteResult.
type Segment struct {
	FlightRow   int
	Origin      string
	Destination string
	DepTime     int64
	ArrTime     int64
	Price       float64
	CarrierCode string
}

// ReconstructPath walks the Prev chain from a solution's label back to the
// seed and returns the flight sequence in departure order. A zero-segment
// solution (the empty-required-set goal state) returns nil.
func ReconstructPath(table *schema.FlightTable, arena *Arena, labelIndex int) []Segment {
	var segments []Segment
	for idx := labelIndex; idx != -1; {
		l := arena.Get(idx)
		if l.FlightRow == -1 {
			break
		}
		var carrierCode string
		if l.FlightRow < len(table.CarrierCode) {
			carrierCode = table.CarrierCode[l.FlightRow]
		}
		segments = append(segments, Segment{
			FlightRow:   l.FlightRow,
			Origin:      table.DepartureAirport[l.FlightRow],
			Destination: table.ArrivalAirport[l.FlightRow],
			DepTime:     table.DepTime[l.FlightRow],
			ArrTime:     table.ArrTime[l.FlightRow],
			Price:       table.Price[l.FlightRow],
			CarrierCode: carrierCode,
		})
		idx = l.Prev
	}
	// segments were collected tail-first; reverse into departure order.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}
