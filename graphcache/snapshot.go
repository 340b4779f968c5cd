package graphcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/flightrouter/pareto/schema"
	"github.com/redis/go-redis/v9"
)

// snapshotKey is the Redis key under which the last successfully built
// row set is mirrored, purely as a warm-restart optimization.
const snapshotKey = "flightrouter:graph:snapshot"

// RedisSnapshot mirrors a successfully built row set to Redis so a
// restarted process can serve a (possibly slightly stale) graph
// immediately instead of blocking cold start on the upstream provider.
// It is never consulted on the hot read path — only from
// SnapshotProvider.FlightRows when the real provider is unavailable.
type RedisSnapshot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshot builds a RedisSnapshot. ttl bounds how old a mirrored
// snapshot may be before it's treated as unusable.
func NewRedisSnapshot(client *redis.Client, ttl time.Duration) *RedisSnapshot {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSnapshot{client: client, ttl: ttl}
}

// Save mirrors rows to Redis under snapshotKey.
func (s *RedisSnapshot) Save(ctx context.Context, rows []schema.FlightRow) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.client.Set(ctx, snapshotKey, data, s.ttl).Err()
}

// Load reads the last mirrored row set, if any and not expired.
func (s *RedisSnapshot) Load(ctx context.Context) ([]schema.FlightRow, bool, error) {
	data, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot: %w", err)
	}
	var rows []schema.FlightRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return rows, true, nil
}

// SnapshotProvider wraps a primary Provider and falls back to a
// RedisSnapshot when the primary is unavailable on cold start, so a
// process restart during an upstream outage still serves a graph rather
// than returning GraphNotInitialized.
type SnapshotProvider struct {
	Primary  Provider
	Snapshot *RedisSnapshot
}

func (p *SnapshotProvider) FlightRows(ctx context.Context) ([]schema.FlightRow, error) {
	rows, err := p.Primary.FlightRows(ctx)
	if err == nil {
		if p.Snapshot != nil {
			_ = p.Snapshot.Save(ctx, rows)
		}
		return rows, nil
	}
	if p.Snapshot == nil {
		return nil, err
	}
	cached, ok, loadErr := p.Snapshot.Load(ctx)
	if loadErr != nil || !ok {
		return nil, err
	}
	return cached, nil
}

func (p *SnapshotProvider) Available(ctx context.Context) bool {
	return p.Primary.Available(ctx)
}
