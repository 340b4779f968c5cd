package schema

// FlightTable is a struct-of-arrays columnar store over validated flight
// rows, sorted ascending by DepartureAirport. Row positions are stable for
// the lifetime of the table; the table itself is treated as immutable once
// built (see graphcache.CachedFlightGraph).
//
// A struct-of-arrays layout keeps the hot Dijkstra inner loop (which only
// ever touches DepTime/ArrTime/Price for a contiguous city range) scanning
// three tight slices instead of chasing row pointers.
type FlightTable struct {
	DepartureAirport []string
	ArrivalAirport   []string
	DepTime          []int64
	ArrTime          []int64
	Price            []float64

	CarrierCode      []string
	CarrierName      []string
	Baggage          []string
	Terminal         []string
	ScheduledDepText []string
	ScheduledArrText []string
	CO2Kg            []float64
}

// Len returns the row count.
func (t *FlightTable) Len() int { return len(t.DepartureAirport) }

// Row materializes row i as a FlightRow. Used by path reconstruction and
// tests; the search hot path reads columns directly instead.
func (t *FlightTable) Row(i int) FlightRow {
	row := FlightRow{
		DepartureAirport: t.DepartureAirport[i],
		ArrivalAirport:   t.ArrivalAirport[i],
		DepTime:          t.DepTime[i],
		ArrTime:          t.ArrTime[i],
		Price:            t.Price[i],
	}
	if i < len(t.CarrierCode) {
		row.CarrierCode = t.CarrierCode[i]
	}
	if i < len(t.CarrierName) {
		row.CarrierName = t.CarrierName[i]
	}
	if i < len(t.Baggage) {
		row.Baggage = t.Baggage[i]
	}
	if i < len(t.Terminal) {
		row.Terminal = t.Terminal[i]
	}
	if i < len(t.ScheduledDepText) {
		row.ScheduledDepText = t.ScheduledDepText[i]
	}
	if i < len(t.ScheduledArrText) {
		row.ScheduledArrText = t.ScheduledArrText[i]
	}
	if i < len(t.CO2Kg) {
		row.CO2Kg = t.CO2Kg[i]
	}
	return row
}

// FromRows builds an (unsorted) FlightTable from a slice of FlightRow.
// Callers building a graph must sort it (see graphcache.SortByDeparture)
// before indexing.
func FromRows(rows []FlightRow) *FlightTable {
	t := &FlightTable{
		DepartureAirport: make([]string, len(rows)),
		ArrivalAirport:   make([]string, len(rows)),
		DepTime:          make([]int64, len(rows)),
		ArrTime:          make([]int64, len(rows)),
		Price:            make([]float64, len(rows)),
		CarrierCode:      make([]string, len(rows)),
		CarrierName:      make([]string, len(rows)),
		Baggage:          make([]string, len(rows)),
		Terminal:         make([]string, len(rows)),
		ScheduledDepText: make([]string, len(rows)),
		ScheduledArrText: make([]string, len(rows)),
		CO2Kg:            make([]float64, len(rows)),
	}
	for i, r := range rows {
		t.DepartureAirport[i] = r.DepartureAirport
		t.ArrivalAirport[i] = r.ArrivalAirport
		t.DepTime[i] = r.DepTime
		t.ArrTime[i] = r.ArrTime
		t.Price[i] = r.Price
		t.CarrierCode[i] = r.CarrierCode
		t.CarrierName[i] = r.CarrierName
		t.Baggage[i] = r.Baggage
		t.Terminal[i] = r.Terminal
		t.ScheduledDepText[i] = r.ScheduledDepText
		t.ScheduledArrText[i] = r.ScheduledArrText
		t.CO2Kg[i] = r.CO2Kg
	}
	return t
}

// View is a zero-copy (start, length) window into a FlightTable's row
// range, as handed out by a CityIndex lookup. It never allocates.
type View struct {
	Start int
	Len   int
}

// Empty is the shared zero-allocation view returned for unknown cities.
var Empty = View{}
