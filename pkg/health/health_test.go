package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/schema"
)

type countingProvider struct {
	rows []schema.FlightRow
	err  error
}

func (p *countingProvider) FlightRows(ctx context.Context) ([]schema.FlightRow, error) {
	return p.rows, p.err
}
func (p *countingProvider) Available(ctx context.Context) bool { return p.err == nil }

func TestGraphCacheChecker_NeverBuilt(t *testing.T) {
	cache := graphcache.New(&countingProvider{}, graphcache.Config{TTL: time.Minute}, nil)
	checker := &GraphCacheChecker{Cache: cache, TTL: time.Minute}

	check := checker.Check(context.Background())
	assert.Equal(t, StatusDown, check.Status)
	assert.True(t, checker.Essential())
}

func TestGraphCacheChecker_FreshAfterBuild(t *testing.T) {
	rows := []schema.FlightRow{{DepartureAirport: "JFK", ArrivalAirport: "LHR", DepTime: 0, ArrTime: 100, Price: 200}}
	cache := graphcache.New(&countingProvider{rows: rows}, graphcache.Config{TTL: time.Minute}, nil)

	_, err := cache.GetGraph(context.Background())
	require.NoError(t, err)

	checker := &GraphCacheChecker{Cache: cache, TTL: time.Minute}
	check := checker.Check(context.Background())
	assert.Equal(t, StatusUp, check.Status)
}

func TestHealthChecker_ReadinessOnlyRunsEssentialChecks(t *testing.T) {
	cache := graphcache.New(&countingProvider{}, graphcache.Config{TTL: time.Minute}, nil)
	hc := NewHealthChecker("test")
	hc.AddChecker(&GraphCacheChecker{Cache: cache, TTL: time.Minute})
	hc.AddChecker(&fakeNonEssentialChecker{})

	readiness := hc.CheckReadiness(context.Background())
	_, hasNonEssential := readiness.Checks["non_essential"]
	assert.False(t, hasNonEssential)

	health := hc.CheckHealth(context.Background())
	_, hasNonEssentialInHealth := health.Checks["non_essential"]
	assert.True(t, hasNonEssentialInHealth)
}

type fakeNonEssentialChecker struct{}

func (f *fakeNonEssentialChecker) Essential() bool { return false }
func (f *fakeNonEssentialChecker) Check(ctx context.Context) Check {
	return Check{Name: "non_essential", Status: StatusUp}
}

func TestHealthChecker_Liveness(t *testing.T) {
	hc := NewHealthChecker("test")
	report := hc.CheckLiveness(context.Background())
	assert.Equal(t, StatusUp, report.Status)
}
