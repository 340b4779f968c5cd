// Package health implements a Checker/HealthChecker orchestration pattern
// for this system's two external dependencies worth monitoring: the
// graph cache's freshness and the revalidator's upstream offer API.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/flightrouter/pareto/graphcache"
	"github.com/flightrouter/pareto/revalidate"
)

// Status represents the health status of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check represents a single health check.
type Check struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// Report represents the overall health of the application.
type Report struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime"`
}

// Checker defines the interface for health checks.
type Checker interface {
	Check(ctx context.Context) Check
	// Essential marks a checker as required for readiness, not just health.
	Essential() bool
}

// GraphCacheChecker reports whether the cache has ever built a graph and
// how stale the current snapshot is against its configured TTL. A cache
// that built at least once but is now past 3x its TTL without a successful
// refresh is considered down "readers never block on
// refresh" guarantee — staleness degrades gracefully rather than failing a
// read, but an operator still needs to see it.
type GraphCacheChecker struct {
	Cache      *graphcache.Cache
	TTL        time.Duration
	StaleAfter int // multiple of TTL past which the cache reports down; 0 means 3
}

func (c *GraphCacheChecker) Essential() bool { return true }

func (c *GraphCacheChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "graph_cache", Timestamp: start, Details: map[string]string{}}

	staleFactor := c.StaleAfter
	if staleFactor <= 0 {
		staleFactor = 3
	}

	age, built := c.Cache.StaleSince()
	check.Duration = time.Since(start)
	if !built {
		check.Status = StatusDown
		check.Message = "graph cache has not completed its first build"
		return check
	}

	check.Details["age"] = age.Round(time.Second).String()
	if c.TTL > 0 && age > c.TTL*time.Duration(staleFactor) {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("graph cache is %s stale, more than %dx its %s TTL", age.Round(time.Second), staleFactor, c.TTL)
		return check
	}

	check.Status = StatusUp
	check.Message = "graph cache is fresh"
	return check
}

// RevalidatorUpstreamChecker probes the live offer API with a cheap
// single-segment search and reports whether it is reachable. It is not an
// essential readiness check: the revalidator is a best-effort enrichment
//, and the core search pipeline keeps serving results
// without it.
type RevalidatorUpstreamChecker struct {
	Client *revalidate.OfferAPIClient
	Probe  revalidate.CachedSegment
}

func (c *RevalidatorUpstreamChecker) Essential() bool { return false }

func (c *RevalidatorUpstreamChecker) Check(ctx context.Context) Check {
	start := time.Now()
	check := Check{Name: "offer_api", Timestamp: start, Details: map[string]string{}}

	_, err := c.Client.Search(ctx, c.Probe)
	check.Duration = time.Since(start)

	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("offer API probe failed: %v", err)
		check.Details["error"] = err.Error()
		return check
	}

	check.Status = StatusUp
	check.Message = "offer API reachable"
	check.Details["response_time"] = check.Duration.String()
	return check
}

// HealthChecker orchestrates multiple health checks and aggregates their
// statuses into a single report.
type HealthChecker struct {
	checkers  []Checker
	version   string
	startTime time.Time
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{checkers: make([]Checker, 0), version: version, startTime: time.Now()}
}

// AddChecker adds a health checker.
func (h *HealthChecker) AddChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
}

// CheckHealth performs all health checks.
func (h *HealthChecker) CheckHealth(ctx context.Context) Report {
	return h.run(ctx, h.checkers)
}

// CheckReadiness performs only essential checks (the graph cache).
func (h *HealthChecker) CheckReadiness(ctx context.Context) Report {
	var essential []Checker
	for _, c := range h.checkers {
		if c.Essential() {
			essential = append(essential, c)
		}
	}
	return h.run(ctx, essential)
}

// CheckLiveness reports basic process aliveness with no external checks.
func (h *HealthChecker) CheckLiveness(ctx context.Context) Report {
	return Report{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks: map[string]Check{
			"application": {Name: "application", Status: StatusUp, Message: "application is running", Timestamp: time.Now()},
		},
		Uptime: time.Since(h.startTime),
	}
}

func (h *HealthChecker) run(ctx context.Context, checkers []Checker) Report {
	checks := make(map[string]Check, len(checkers))
	overall := StatusUp
	for _, c := range checkers {
		check := c.Check(ctx)
		checks[check.Name] = check
		if check.Status == StatusDown {
			overall = StatusDown
		}
	}
	return Report{
		Status:    overall,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}
