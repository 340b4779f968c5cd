package graphcache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flightrouter/pareto/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RefreshElector elects one of several process instances to drive periodic
// ForceRefresh calls: while this instance holds the lock, it rebuilds the
// graph on each renew tick. It does not gate Scheduler: a cron Scheduler
// started on an instance calls ForceRefresh there whether or not that
// instance is leader. Every instance still serves reads from its own
// locally-published graph, so readers never block on refresh.
//
// Leadership is a standard Redis SETNX + Lua-renew/release dance: acquire
// sets the key only if absent, renew extends the TTL only if this instance
// still holds it, release clears the key only if this instance still holds
// it — both checked atomically in Lua to avoid a read-then-write race.
type RefreshElector struct {
	redisClient   *redis.Client
	lockKey       string
	lockTTL       time.Duration
	renewInterval time.Duration
	instanceID    string
	isLeader      atomic.Bool
	stopChan      chan struct{}
	wg            sync.WaitGroup
	cache         *Cache
}

// NewRefreshElector builds an elector that calls cache.ForceRefresh on each
// renewInterval tick while this instance holds the lock.
func NewRefreshElector(redisClient *redis.Client, lockKey string, lockTTL, renewInterval time.Duration, cache *Cache) *RefreshElector {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "router"
	}
	return &RefreshElector{
		redisClient:   redisClient,
		lockKey:       lockKey,
		lockTTL:       lockTTL,
		renewInterval: renewInterval,
		instanceID:    fmt.Sprintf("%s-%d", hostname, time.Now().UnixNano()),
		stopChan:      make(chan struct{}),
		cache:         cache,
	}
}

// Start begins the election loop in a background goroutine.
func (le *RefreshElector) Start() {
	le.wg.Add(1)
	go le.loop()
}

// Stop releases the lock (if held) and halts the election loop.
func (le *RefreshElector) Stop() {
	close(le.stopChan)
	le.wg.Wait()
	if le.isLeader.Load() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		le.release(ctx)
		le.isLeader.Store(false)
	}
}

// IsLeader reports whether this instance currently drives refreshes.
func (le *RefreshElector) IsLeader() bool { return le.isLeader.Load() }

func (le *RefreshElector) loop() {
	defer le.wg.Done()
	le.tryMaintain()

	ticker := time.NewTicker(le.renewInterval)
	defer ticker.Stop()
	for {
		select {
		case <-le.stopChan:
			return
		case <-ticker.C:
			le.tryMaintain()
		}
	}
}

func (le *RefreshElector) tryMaintain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if le.isLeader.Load() {
		if !le.renew(ctx) {
			logger.Warn("lost graph refresh leadership", "instance", le.instanceID)
			le.isLeader.Store(false)
			return
		}
		if err := le.cache.ForceRefresh(ctx); err != nil {
			logger.Error(err, "leader-driven graph refresh failed", "instance", le.instanceID)
		}
		return
	}

	if le.acquire(ctx) {
		logger.Info("acquired graph refresh leadership", "instance", le.instanceID)
		le.isLeader.Store(true)
	}
}

func (le *RefreshElector) acquire(ctx context.Context) bool {
	ok, err := le.redisClient.SetNX(ctx, le.lockKey, le.instanceID, le.lockTTL).Result()
	if err != nil {
		logger.Error(err, "acquiring graph refresh lock failed")
		return false
	}
	return ok
}

var renewScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

func (le *RefreshElector) renew(ctx context.Context) bool {
	result, err := renewScript.Run(ctx, le.redisClient, []string{le.lockKey}, le.instanceID, le.lockTTL.Milliseconds()).Int()
	if err != nil {
		logger.Error(err, "renewing graph refresh lock failed")
		return false
	}
	return result == 1
}

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

func (le *RefreshElector) release(ctx context.Context) {
	if _, err := releaseScript.Run(ctx, le.redisClient, []string{le.lockKey}, le.instanceID).Int(); err != nil {
		logger.Error(err, "releasing graph refresh lock failed")
	}
}
