// Package cache implements the Redis-backed availability cache for
// flight search reads.  Staleness is acceptable for a bounded window;
// every method is best-effort and swallows Redis failures after
// logging them, so cache errors can never affect the transactional
// outcome of a seat mutation.
package cache

import (
    "context"
    "encoding/json"
    "log"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/model"
)

const keyPrefix = "flight_avail:"

// FlightCache caches serialized flight availability under
// flight_avail:<flightID>.  A nil Redis client disables the cache
// entirely; all methods degrade to no-ops.
type FlightCache struct {
    client *redis.Client
    ttl    time.Duration
}

// New returns a FlightCache with the given entry TTL.  client may be
// nil when Redis is unavailable.
func New(client *redis.Client, ttl time.Duration) *FlightCache {
    if ttl <= 0 {
        ttl = 30 * time.Second
    }
    return &FlightCache{client: client, ttl: ttl}
}

// Get returns the cached availability for a flight and whether the
// entry was present and decodable.
func (c *FlightCache) Get(ctx context.Context, flightID string) (*model.Flight, bool) {
    if c.client == nil {
        return nil, false
    }
    bs, err := c.client.Get(ctx, keyPrefix+flightID).Bytes()
    if err != nil {
        if err != redis.Nil {
            log.Printf("cache: get flight %s failed: %v", flightID, err)
        }
        return nil, false
    }
    var f model.Flight
    if err := json.Unmarshal(bs, &f); err != nil {
        log.Printf("cache: decode flight %s failed: %v", flightID, err)
        return nil, false
    }
    return &f, true
}

// Set stores a flight's availability with the configured TTL.
func (c *FlightCache) Set(ctx context.Context, flightID string, f *model.Flight) {
    if c.client == nil {
        return
    }
    bs, err := json.Marshal(f)
    if err != nil {
        log.Printf("cache: encode flight %s failed: %v", flightID, err)
        return
    }
    if err := c.client.SetEx(ctx, keyPrefix+flightID, bs, c.ttl).Err(); err != nil {
        log.Printf("cache: set flight %s failed: %v", flightID, err)
    }
}

// Invalidate drops the cached entry for one flight.  Called after
// every seat-count mutation so stale availability is not served to
// search queries beyond the entry TTL.
func (c *FlightCache) Invalidate(ctx context.Context, flightID string) {
    if c.client == nil {
        return
    }
    if err := c.client.Del(ctx, keyPrefix+flightID).Err(); err != nil {
        log.Printf("cache: invalidate flight %s failed: %v", flightID, err)
    }
}

// InvalidateAll drops every flight availability entry.  Used by the
// admin cleanup, which touches all flights at once.
func (c *FlightCache) InvalidateAll(ctx context.Context) {
    if c.client == nil {
        return
    }
    iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
    for iter.Next(ctx) {
        if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
            log.Printf("cache: invalidate %s failed: %v", iter.Val(), err)
        }
    }
    if err := iter.Err(); err != nil {
        log.Printf("cache: scan failed: %v", err)
    }
}
