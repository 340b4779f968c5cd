package revalidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestAggregate_AllConfirmed(t *testing.T) {
	segs := []SegmentValidation{
		{SegmentIndex: 0, Status: Confirmed, Confidence: 90, CachedPrice: 150, LivePrice: ptr(152)},
		{SegmentIndex: 1, Status: Confirmed, Confidence: 88, CachedPrice: 75, LivePrice: ptr(76)},
	}
	rv := aggregate(segs)

	assert.Equal(t, Confirmed, rv.Status)
	require.NotNil(t, rv.TotalLive)
	assert.Equal(t, 228.0, *rv.TotalLive)
	assert.True(t, rv.IsBookable)
}

func TestAggregate_WorstStatusWins(t *testing.T) {
	segs := []SegmentValidation{
		{SegmentIndex: 0, Status: Confirmed, Confidence: 90, CachedPrice: 150, LivePrice: ptr(152)},
		{SegmentIndex: 1, Status: Unavailable, Confidence: 10, CachedPrice: 75},
	}
	rv := aggregate(segs)

	assert.Equal(t, Unavailable, rv.Status)
	assert.Nil(t, rv.TotalLive, "total_live must be None once any segment lacks a live price")
	assert.False(t, rv.IsBookable)
}

func TestAggregate_ApiErrorOutranksEverything(t *testing.T) {
	segs := []SegmentValidation{
		{SegmentIndex: 0, Status: PriceChanged, Confidence: 60, LivePrice: ptr(200)},
		{SegmentIndex: 1, Status: ApiError},
	}
	rv := aggregate(segs)

	assert.Equal(t, ApiError, rv.Status)
	assert.False(t, rv.IsBookable)
}

func TestWorseThan(t *testing.T) {
	assert.True(t, worseThan(ApiError, Unavailable))
	assert.True(t, worseThan(Unavailable, PriceChanged))
	assert.True(t, worseThan(PriceChanged, Confirmed))
	assert.False(t, worseThan(Confirmed, PriceChanged))
}

