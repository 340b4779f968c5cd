package router

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
)

func TestBuildResult_Empty(t *testing.T) {
	_, ok := BuildResult(nil)
	assert.False(t, ok)
}

func TestBuildResult_Totals(t *testing.T) {
	segs := []Segment{
		{Origin: "JFK", Destination: "LHR", DepTime: 100, ArrTime: 500, Price: 300},
		{Origin: "LHR", Destination: "CDG", DepTime: 700, ArrTime: 900, Price: 150},
	}
	r, ok := BuildResult(segs)
	assert.True(t, ok)
	assert.Equal(t, 450.0, r.TotalCost)
	assert.Equal(t, int64(800), r.Elapsed)    // 900 - 100
	assert.Equal(t, int64(600), r.FlightTime) // (500-100) + (900-700)
	assert.Equal(t, 2, r.NumSegments)
	assert.Equal(t, []string{"JFK", "LHR", "CDG"}, r.Cities)
}

func TestBuildResult_MatchesExpectedStructFieldByField(t *testing.T) {
	segs := []Segment{
		{Index: 0, Origin: "JFK", Destination: "LHR", DepTime: 100, ArrTime: 500, Price: 300},
	}
	got, ok := BuildResult(segs)
	assert.True(t, ok)

	want := Result{
		Segments:    segs,
		TotalCost:   300,
		Elapsed:     400,
		FlightTime:  400,
		NumSegments: 1,
		Cities:      []string{"JFK", "LHR"},
	}

	if diff := deep.Equal(want, got); diff != nil {
		t.Errorf("BuildResult mismatch: %v", diff)
	}
}

func TestResult_Dominates(t *testing.T) {
	cheaper := Result{TotalCost: 100, Elapsed: 500}
	slower := Result{TotalCost: 100, Elapsed: 600}
	identical := Result{TotalCost: 100, Elapsed: 500}

	assert.True(t, cheaper.Dominates(slower))
	assert.False(t, slower.Dominates(cheaper))
	assert.False(t, cheaper.Dominates(identical))
}
