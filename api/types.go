// Package api is the thin REST front door over the route finder
// orchestrator — deliberately small, with no transport internals beyond
// that.
package api

import (
	"time"

	"github.com/flightrouter/pareto/revalidate"
	"github.com/flightrouter/pareto/router"
)

// SearchRequest is the wire shape of POST /search, validated with gin's
// struct-tag binding.
type SearchRequest struct {
	Origin           string           `json:"origin" binding:"required"`
	Required         []string         `json:"required_cities"`
	TMin             int64            `json:"t_min"`
	TMax             int64            `json:"t_max" binding:"required"`
	MaxStops         *int             `json:"max_stops"`
	MaxPrice         *float64         `json:"max_price"`
	MinStayMinutes   map[string]int64 `json:"min_stay_minutes"`
	ReachabilityHops int              `json:"reachability_hops"`
}

func (r SearchRequest) toConstraints() router.Constraints {
	return router.Constraints{
		Origin:           r.Origin,
		Required:         r.Required,
		TMin:             r.TMin,
		TMax:             r.TMax,
		MaxStops:         r.MaxStops,
		MaxPrice:         r.MaxPrice,
		MinStayMinutes:   r.MinStayMinutes,
		ReachabilityHops: r.ReachabilityHops,
	}
}

// SearchResponse is the wire shape of a successful POST /search.
type SearchResponse struct {
	Results []router.Result `json:"results"`
	Count   int             `json:"count"`
}

// AirportsResponse is the wire shape of GET /airports.
type AirportsResponse struct {
	Airports []AirportInfo `json:"airports"`
	Count    int           `json:"count"`
}

// AirportInfo pairs a cached airport code with its reference location data
// so a picker UI can show a city name instead of a bare IATA code.
type AirportInfo struct {
	Code string  `json:"code"`
	City string  `json:"city,omitempty"`
	Tz   string  `json:"timezone,omitempty"`
	Lat  float64 `json:"lat,omitempty"`
	Lon  float64 `json:"lon,omitempty"`
}

// ValidateRequest is the wire shape of POST /validate: a previously
// returned route's segments, submitted back for live reconciliation
// against the upstream offer API.
type ValidateRequest struct {
	Segments []router.Segment `json:"segments" binding:"required,min=1"`
}

// toCachedSegments converts each wire segment into a revalidate.CachedSegment,
// using epoch to turn a DepTime (minutes since epoch) into a calendar date
// and local departure hour. Stops is always 0: each router.Segment is
// already one atomic direct leg.
func (r ValidateRequest) toCachedSegments(epoch time.Time) []revalidate.CachedSegment {
	out := make([]revalidate.CachedSegment, len(r.Segments))
	for i, s := range r.Segments {
		depAt := epoch.Add(time.Duration(s.DepTime) * time.Minute)
		out[i] = revalidate.CachedSegment{
			Origin:      s.Origin,
			Destination: s.Destination,
			CarrierCode: s.CarrierCode,
			DepHour:     depAt.Hour(),
			CachedPrice: s.Price,
			Date:        depAt,
		}
	}
	return out
}

// ValidateResponse is the wire shape of a successful POST /validate.
type ValidateResponse struct {
	revalidate.RouteValidation
}
