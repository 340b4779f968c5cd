package revalidate

import "math"

// ScoringWeights are the configurable weights behind offer-match scoring.
// Defaults are calibrated to achieve >=70% average confidence on
// successful matches.
type ScoringWeights struct {
	NonStopBonus        float64
	CarrierMatch        float64
	CarrierMismatch     float64
	HourExactMatch       float64
	HourNearMatch        float64
	HourMismatch         float64
	PriceCloseMatch      float64
	PriceFarMatch        float64
	PriceMismatch        float64
	PerExtraStopPenalty  float64
}

// DefaultScoringWeights returns weights where carrier and price agreement
// dominate, with stops and hour alignment as secondary signals.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		NonStopBonus:        10,
		CarrierMatch:        30,
		CarrierMismatch:     -15,
		HourExactMatch:      15,
		HourNearMatch:       8,
		HourMismatch:        -5,
		PriceCloseMatch:     25,
		PriceFarMatch:       10,
		PriceMismatch:       -20,
		PerExtraStopPenalty: -5,
	}
}

// maxAchievableScore is the raw score of a perfect match (non-stop, same
// carrier, exact hour, close price), used to rescale a candidate's raw
// score into a [0, 100] confidence.
func (w ScoringWeights) maxAchievableScore() float64 {
	return w.NonStopBonus + w.CarrierMatch + w.HourExactMatch + w.PriceCloseMatch
}

// scoreOffer computes the raw weighted score of a live offer against the
// cached segment it's being matched against.
func scoreOffer(cached CachedSegment, live scoredOffer, w ScoringWeights) float64 {
	score := 0.0

	if live.Stops == 0 {
		score += w.NonStopBonus
	}
	score += float64(live.Stops) * w.PerExtraStopPenalty

	if live.CarrierCode == cached.CarrierCode {
		score += w.CarrierMatch
	} else {
		score += w.CarrierMismatch
	}

	hourDelta := abs(live.DepHour - cached.DepHour)
	switch {
	case hourDelta == 0:
		score += w.HourExactMatch
	case hourDelta <= 1:
		score += w.HourNearMatch
	default:
		score += w.HourMismatch
	}

	if cached.CachedPrice > 0 {
		delta := math.Abs(live.Price-cached.CachedPrice) / cached.CachedPrice
		switch {
		case delta <= 0.05:
			score += w.PriceCloseMatch
		case delta <= 0.25:
			score += w.PriceFarMatch
		default:
			score += w.PriceMismatch
		}
	}

	return score
}

// confidence rescales a raw score to [0, 100] against the maximum
// achievable positive score, clamping negative scores to 0.
func confidence(rawScore float64, w ScoringWeights) float64 {
	maxScore := w.maxAchievableScore()
	if maxScore <= 0 {
		return 0
	}
	c := rawScore / maxScore * 100
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// scoredOffer is the subset of a live offer's shape the scorer needs,
// derived from the raw API response by the revalidator before scoring.
type scoredOffer struct {
	OfferID     string
	CarrierCode string
	DepHour     int
	Stops       int
	Price       float64
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
