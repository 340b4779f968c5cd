package revalidate

import (
	"context"
	"sync"
	"time"

	"github.com/flightrouter/pareto/pkg/notify"
)

// Config controls revalidator thresholds.
type Config struct {
	MaxConcurrent         int
	ConfirmedThreshold    float64 // percent
	PriceChangedThreshold float64 // percent
	MinConfidence         float64 // 0-100
	Weights               ScoringWeights

	ErrorThreshold int           // ApiError segments within ErrorWindow trigger an alert
	ErrorWindow    time.Duration
}

// Revalidator runs per-segment live validation fanned out under a bounded
// semaphore sized per request and aggregates the results per route.
type Revalidator struct {
	client   *OfferAPIClient
	cfg      Config
	notifier *notify.Client

	mu          sync.Mutex
	errorTimes  []time.Time
}

// NewRevalidator wires a live offer API client, thresholds, and an optional
// NTFY notifier for error-rate spikes.
func NewRevalidator(client *OfferAPIClient, cfg Config, notifier *notify.Client) *Revalidator {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}
	if cfg.ConfirmedThreshold <= 0 {
		cfg.ConfirmedThreshold = 5
	}
	if cfg.PriceChangedThreshold <= 0 {
		cfg.PriceChangedThreshold = 25
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 30
	}
	if cfg.Weights == (ScoringWeights{}) {
		cfg.Weights = DefaultScoringWeights()
	}
	if cfg.ErrorThreshold <= 0 {
		cfg.ErrorThreshold = 10
	}
	if cfg.ErrorWindow <= 0 {
		cfg.ErrorWindow = 5 * time.Minute
	}
	return &Revalidator{client: client, cfg: cfg, notifier: notifier}
}

// ValidateRoute validates every segment of a route in parallel under the
// configured semaphore and returns the per-route aggregate. Segment results
// preserve input order regardless of completion order
// concurrency guarantee.
func (r *Revalidator) ValidateRoute(ctx context.Context, segments []CachedSegment) RouteValidation {
	results := make([]SegmentValidation, len(segments))
	sem := make(chan struct{}, r.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	for i, seg := range segments {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, seg CachedSegment) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.validateSegment(ctx, i, seg)
		}(i, seg)
	}
	wg.Wait()

	r.trackErrorRate(results)
	return aggregate(results)
}

// validateSegment runs live validation for one segment: search, filter
// placeholder-only offers, score the remainder, and classify the best
// match's price delta against the cached price.
func (r *Revalidator) validateSegment(ctx context.Context, index int, seg CachedSegment) SegmentValidation {
	sv := SegmentValidation{SegmentIndex: index, CachedPrice: seg.CachedPrice}

	offers, err := r.client.Search(ctx, seg)
	if err != nil {
		sv.Status = ApiError
		return sv
	}

	real := filterPlaceholderOffers(offers)
	if len(real) == 0 {
		sv.Status = Unavailable
		return sv
	}

	best, bestConfidence := r.bestMatch(seg, real)
	if bestConfidence < r.cfg.MinConfidence {
		sv.Status = Unavailable
		sv.Confidence = bestConfidence
		return sv
	}

	sv.Confidence = bestConfidence
	sv.MatchedOfferID = best.OfferID
	livePrice := best.Price
	sv.LivePrice = &livePrice

	delta := 0.0
	if seg.CachedPrice > 0 {
		delta = absFloat(livePrice-seg.CachedPrice) / seg.CachedPrice * 100
	}
	switch {
	case delta <= r.cfg.ConfirmedThreshold:
		sv.Status = Confirmed
	case delta <= r.cfg.PriceChangedThreshold:
		sv.Status = PriceChanged
	default:
		sv.Status = Unavailable
	}
	return sv
}

// bestMatch scores every offer and returns the highest-scoring one plus its
// rescaled confidence.
func (r *Revalidator) bestMatch(seg CachedSegment, offers []liveOffer) (scoredOffer, float64) {
	var best scoredOffer
	bestScore := -1.0
	bestConfidence := 0.0

	for _, o := range offers {
		so := toScoredOffer(o)
		raw := scoreOffer(seg, so, r.cfg.Weights)
		if raw > bestScore {
			bestScore = raw
			best = so
			bestConfidence = confidence(raw, r.cfg.Weights)
		}
	}
	return best, bestConfidence
}

// filterPlaceholderOffers drops every offer whose every segment is flown by
// the placeholder carrier.
func filterPlaceholderOffers(offers []liveOffer) []liveOffer {
	var real []liveOffer
	for _, o := range offers {
		if !isPlaceholderOnly(o) {
			real = append(real, o)
		}
	}
	return real
}

func isPlaceholderOnly(o liveOffer) bool {
	for _, slice := range o.Slices {
		for _, seg := range slice.Segments {
			if seg.OperatingCarrier.IataCode != PlaceholderCarrier {
				return false
			}
		}
	}
	return true
}

func toScoredOffer(o liveOffer) scoredOffer {
	so := scoredOffer{OfferID: o.ID, Price: o.TotalAmount}
	stops := -1
	for _, slice := range o.Slices {
		stops += len(slice.Segments)
		for i, seg := range slice.Segments {
			if i == 0 && so.CarrierCode == "" {
				so.CarrierCode = seg.OperatingCarrier.IataCode
			}
			if i == 0 {
				if t, err := parseRFC3339Hour(seg.DepartingAt); err == nil {
					so.DepHour = t
				}
			}
		}
	}
	if stops < 0 {
		stops = 0
	}
	so.Stops = stops
	return so
}

func parseRFC3339Hour(s string) (int, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Hour(), nil
}

// trackErrorRate records ApiError occurrences and alerts once the rolling
// count within ErrorWindow crosses ErrorThreshold, subject to the
// notifier's own rate-limited alert gate.
func (r *Revalidator) trackErrorRate(results []SegmentValidation) {
	if r.notifier == nil {
		return
	}

	now := time.Now()
	r.mu.Lock()
	for _, res := range results {
		if res.Status == ApiError {
			r.errorTimes = append(r.errorTimes, now)
		}
	}
	cutoff := now.Add(-r.cfg.ErrorWindow)
	kept := r.errorTimes[:0]
	for _, t := range r.errorTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.errorTimes = kept
	count := len(r.errorTimes)
	r.mu.Unlock()

	if count >= r.cfg.ErrorThreshold {
		_ = r.notifier.AlertRevalidateSpike(count, r.cfg.ErrorWindow)
	}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
