// Package router implements the route finder orchestrator: it validates a
// request, drives the Pareto Dijkstra search over the cached (and possibly
// week-expanded) flight graph, and converts the resulting labels into
// ranked route results.
package router

import "github.com/flightrouter/pareto/routeerr"

// Constraints is the immutable request record. Zero value for
// MaxStops/MaxPrice/MinStayMinutes means "no cap" / "no minimum stay".
type Constraints struct {
	Origin           string
	Required         []string
	TMin, TMax       int64
	MaxStops         *int
	MaxPrice         *float64
	MinStayMinutes   map[string]int64
	ReachabilityHops int // hop count for reachability pruning; 0 means "use default"
}

// Validate enforces the request invariants: origin non-empty, t_min <=
// t_max, any numeric caps non-negative.
func (c Constraints) Validate() error {
	if c.Origin == "" {
		return routeerr.New(routeerr.InvalidAirport, "origin must be non-empty")
	}
	if c.TMin > c.TMax {
		return routeerr.New(routeerr.InvalidTimeRange, "t_min must be <= t_max")
	}
	if c.MaxStops != nil && *c.MaxStops < 0 {
		return routeerr.New(routeerr.InvalidParameter, "max_stops must be non-negative")
	}
	if c.MaxPrice != nil && *c.MaxPrice < 0 {
		return routeerr.New(routeerr.InvalidParameter, "max_price must be non-negative")
	}
	for city, stay := range c.MinStayMinutes {
		if stay < 0 {
			return routeerr.New(routeerr.InvalidParameter, "min stay for "+city+" must be non-negative")
		}
	}
	return nil
}

// DefaultReachabilityHops is the default hop count for reachability
// pruning: tunable, defaulted to 2 for the single-connection use cases the
// search targets.
const DefaultReachabilityHops = 2

func (c Constraints) reachabilityHops() int {
	if c.ReachabilityHops > 0 {
		return c.ReachabilityHops
	}
	return DefaultReachabilityHops
}
