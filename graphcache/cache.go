// Package graphcache implements the flight graph cache : a
// validated, time-partitioned, index-accelerated flight graph that
// survives across requests with zero-downtime refresh.
package graphcache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flightrouter/pareto/pkg/logger"
	"github.com/flightrouter/pareto/pkg/notify"
	"github.com/flightrouter/pareto/routeerr"
	"golang.org/x/sync/singleflight"
)

// Config controls cache TTL and background refresh behavior.
type Config struct {
	TTL time.Duration
}

// Cache holds a single atomically-published CachedFlightGraph and
// coordinates cold-start and background refresh. Only the first build
// blocks its callers; after that, readers never block on a refresh.
type Cache struct {
	provider Provider
	notifier *notify.Client
	cfg      Config

	current atomic.Pointer[CachedFlightGraph]

	// buildGroup collapses concurrent cold-start callers onto a single
	// in-flight build, the way FlightService.SearchFlights collapses
	// concurrent identical searches onto one DB round trip.
	buildGroup singleflight.Group

	refreshing atomic.Bool
	lastBuilt  atomic.Int64 // unix nanos of the last successful build

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a Cache. It does not build a graph; the first GetGraph call
// builds it synchronously.
func New(provider Provider, cfg Config, notifier *notify.Client) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	return &Cache{
		provider: provider,
		notifier: notifier,
		cfg:      cfg,
		stopCh:   make(chan struct{}),
	}
}

// GetGraph returns the current graph snapshot, building it synchronously on
// the very first call and never blocking afterwards. If the current
// snapshot is stale and no refresh is already running, a background
// rebuild is scheduled.
func (c *Cache) GetGraph(ctx context.Context) (*CachedFlightGraph, error) {
	g := c.current.Load()
	if g == nil {
		built, err := c.coldStart(ctx)
		if err != nil {
			return nil, err
		}
		return built, nil
	}

	if c.isStale(g) {
		select {
		case <-c.stopCh:
			return g, nil
		default:
		}
		if c.refreshing.CompareAndSwap(false, true) {
			go c.backgroundRefresh()
		}
	}
	return g, nil
}

func (c *Cache) isStale(g *CachedFlightGraph) bool {
	return time.Since(g.BuiltAt) > c.cfg.TTL
}

// coldStart performs the first build. Concurrent callers collapse onto one
// singleflight execution; a cold-start failure is fatal to every caller
// waiting on it (GraphNotInitialized) failure semantics.
func (c *Cache) coldStart(ctx context.Context) (*CachedFlightGraph, error) {
	v, err, _ := c.buildGroup.Do("cold-start", func() (interface{}, error) {
		if g := c.current.Load(); g != nil {
			return g, nil
		}
		rows, err := c.provider.FlightRows(ctx)
		if err != nil {
			return nil, routeerr.Wrap(routeerr.GraphNotInitialized, "cold start: provider failed", err)
		}
		g, err := Build(rows)
		if err != nil {
			return nil, routeerr.Wrap(routeerr.GraphNotInitialized, "cold start: schema validation failed", err)
		}
		c.current.Store(g)
		c.lastBuilt.Store(time.Now().UnixNano())
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CachedFlightGraph), nil
}

// backgroundRefresh runs on its own goroutine. Its failures are logged and
// alerted but never surface to a reader: the previous graph keeps serving.
func (c *Cache) backgroundRefresh() {
	defer c.refreshing.Store(false)

	rows, err := c.provider.FlightRows(context.Background())
	if err != nil {
		c.reportRefreshFailure(err)
		return
	}
	g, err := Build(rows)
	if err != nil {
		c.reportRefreshFailure(err)
		return
	}
	c.current.Store(g)
	c.lastBuilt.Store(time.Now().UnixNano())
	logger.Info("flight graph refreshed", "version", g.Version, "rows", g.RowCount)
}

func (c *Cache) reportRefreshFailure(err error) {
	version := "unknown"
	if g := c.current.Load(); g != nil {
		version = g.Version
	}
	logger.Error(err, "background graph refresh failed", "version", version)
	if c.notifier != nil {
		_ = c.notifier.AlertRefreshFailed(version, err)
	}
}

// ForceRefresh runs a synchronous rebuild regardless of staleness. Used by
// the admin/refresh_data endpoint and by scheduled cron ticks.
func (c *Cache) ForceRefresh(ctx context.Context) error {
	if !c.refreshing.CompareAndSwap(false, true) {
		return nil // a refresh is already in progress; this one is redundant
	}
	defer c.refreshing.Store(false)

	rows, err := c.provider.FlightRows(ctx)
	if err != nil {
		c.reportRefreshFailure(err)
		return err
	}
	g, err := Build(rows)
	if err != nil {
		c.reportRefreshFailure(err)
		return err
	}
	c.current.Store(g)
	c.lastBuilt.Store(time.Now().UnixNano())
	return nil
}

// Invalidate drops the current snapshot so the next GetGraph call performs
// a fresh cold start. Rarely needed outside tests; production code should
// prefer ForceRefresh, which keeps serving the old graph until the new one
// is ready.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}

// Shutdown stops GetGraph from starting further background refreshes; a
// refresh already running finishes. Safe to call more than once.
func (c *Cache) Shutdown() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// StaleSince reports how long the current graph has gone without a
// successful rebuild, for health reporting. Returns (0, false) if no graph
// has ever built.
func (c *Cache) StaleSince() (time.Duration, bool) {
	n := c.lastBuilt.Load()
	if n == 0 {
		return 0, false
	}
	return time.Since(time.Unix(0, n)), true
}
