package revalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreOffer_PerfectMatchScoresHighest(t *testing.T) {
	w := DefaultScoringWeights()
	cached := CachedSegment{CarrierCode: "AA", DepHour: 10, CachedPrice: 200}

	perfect := scoredOffer{CarrierCode: "AA", DepHour: 10, Stops: 0, Price: 200}
	mismatched := scoredOffer{CarrierCode: "BA", DepHour: 22, Stops: 2, Price: 500}

	scorePerfect := scoreOffer(cached, perfect, w)
	scoreMismatched := scoreOffer(cached, mismatched, w)

	assert.Greater(t, scorePerfect, scoreMismatched)
	assert.GreaterOrEqual(t, confidence(scorePerfect, w), 70.0)
}

func TestConfidence_ClampsToRange(t *testing.T) {
	w := DefaultScoringWeights()
	assert.Equal(t, 0.0, confidence(-1000, w))
	assert.Equal(t, 100.0, confidence(1000, w))
}

func TestConfidence_ZeroMaxScoreIsZero(t *testing.T) {
	assert.Equal(t, 0.0, confidence(50, ScoringWeights{}))
}
