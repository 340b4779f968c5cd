package graphcache

import (
	"context"

	"github.com/flightrouter/pareto/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler drives periodic ForceRefresh calls on a cron schedule.
// Staleness checked on read (Cache.GetGraph) is the baseline refresh
// mechanism; a Scheduler is an optional addition so the background rebuild
// fires on a predictable cadence instead of only in response to a lagging
// reader.
type Scheduler struct {
	cache *Cache
	cron  *cron.Cron
}

// NewScheduler builds a Scheduler bound to cache. Call Start to begin
// firing on spec (a standard 5-field cron expression).
func NewScheduler(cache *Cache, spec string) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cache: cache, cron: c}
	_, err := c.AddFunc(spec, s.tick)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) tick() {
	if err := s.cache.ForceRefresh(context.Background()); err != nil {
		logger.Error(err, "scheduled graph refresh failed")
	}
}

// Start begins the cron loop.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for any in-flight tick to finish, then halts the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
