// Package revalidate implements the offer revalidator: it reconciles a
// cached route result against a live offer-search API and reports, per
// segment and per route, whether the itinerary is still bookable at a
// comparable price.
package revalidate

import "time"

// Status is a segment or route validation verdict. Worse statuses rank
// higher in statusRank so aggregation is a simple max-by-priority.
type Status string

const (
	Confirmed    Status = "confirmed"
	PriceChanged Status = "price_changed"
	Unavailable  Status = "unavailable"
	ApiError     Status = "api_error"
)

// statusRank gives each status its priority in the worst-status-wins
// aggregation rule: ApiError > Unavailable > PriceChanged > Confirmed.
var statusRank = map[Status]int{
	ApiError:     3,
	Unavailable:  2,
	PriceChanged: 1,
	Confirmed:    0,
}

func worseThan(a, b Status) bool { return statusRank[a] > statusRank[b] }

// CachedSegment is one leg of the route as already returned by the
// router, plus the calendar date the traveler intends to fly it.
type CachedSegment struct {
	Origin      string
	Destination string
	CarrierCode string
	DepHour     int // local departure hour, 0-23, for alignment scoring
	Stops       int
	CachedPrice float64
	Date        time.Time
}

// SegmentValidation is the per-segment live-validation verdict.
type SegmentValidation struct {
	SegmentIndex  int
	Status        Status
	Confidence    float64 // 0-100
	CachedPrice   float64
	LivePrice     *float64
	MatchedOfferID string
}

// RouteValidation is the per-route aggregate of its segment verdicts.
type RouteValidation struct {
	Status        Status
	Segments      []SegmentValidation
	TotalLive     *float64 // nil ("None") unless every segment has a live price
	AvgConfidence float64
	IsBookable    bool
}

// aggregate computes a RouteValidation from its segment verdicts, in
// input order per-route aggregation rule.
func aggregate(segments []SegmentValidation) RouteValidation {
	rv := RouteValidation{Segments: segments}
	if len(segments) == 0 {
		return rv
	}

	rv.Status = segments[0].Status
	var confidenceSum float64
	var livePriceSum float64
	allHaveLive := true

	for _, s := range segments {
		if worseThan(s.Status, rv.Status) {
			rv.Status = s.Status
		}
		confidenceSum += s.Confidence
		if s.LivePrice != nil {
			livePriceSum += *s.LivePrice
		} else {
			allHaveLive = false
		}
	}

	rv.AvgConfidence = confidenceSum / float64(len(segments))
	if allHaveLive {
		total := livePriceSum
		rv.TotalLive = &total
	}
	rv.IsBookable = rv.Status == Confirmed || rv.Status == PriceChanged
	return rv
}
