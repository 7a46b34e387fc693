package redis

import (
	"context"
	"time"
)

// ReferenceCache is a fast-path dedup marker for webhook references. The
// database's unique reference constraint remains the backstop; a cache miss
// or a Redis outage only costs an extra verification round-trip.
type ReferenceCache struct {
	cli RedisClient
	ttl time.Duration
}

func NewReferenceCache(cli RedisClient, ttl time.Duration) *ReferenceCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReferenceCache{cli: cli, ttl: ttl}
}

// MarkSeen records the reference and reports whether this was its first
// sighting.
func (c *ReferenceCache) MarkSeen(ctx context.Context, reference string) (bool, error) {
	return c.cli.SetNX(ctx, referenceKey(reference), 1, c.ttl)
}

// Forget drops the marker so a redelivery of the reference is processed
// again. Used when the event was marked but its state change did not commit.
func (c *ReferenceCache) Forget(ctx context.Context, reference string) error {
	return c.cli.Del(ctx, referenceKey(reference))
}

func referenceKey(reference string) string { return "webhook:ref:" + reference }
