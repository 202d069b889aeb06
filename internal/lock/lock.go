// Package lock provides a Redis-backed mutual-exclusion lease keyed by
// flight identifier.  The lease carries its own TTL so a crashed holder
// cannot block other flight operations indefinitely; renewal is not
// needed given the short critical section it guards.
package lock

import (
    "context"
    "crypto/rand"
    "encoding/hex"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease only when the stored token matches,
// so a holder whose lease already expired and was re-acquired by
// another process cannot release the new owner's lock.
var releaseScript = redis.NewScript(`
    if redis.call("GET", KEYS[1]) == ARGV[1] then
        return redis.call("DEL", KEYS[1])
    else
        return 0
    end
`)

// RedisLock implements the acquire/release lease over a Redis client.
type RedisLock struct {
    client *redis.Client
}

// New returns a RedisLock.  The client must be non-nil; callers that
// run without Redis should pass a nil Locker to the manager instead.
func New(client *redis.Client) *RedisLock {
    if client == nil {
        panic("nil redis client passed to lock.New")
    }
    return &RedisLock{client: client}
}

// Acquire attempts to take the lease via SET NX with the given TTL.  It
// returns the lease token to present on release, and ok=false when the
// key is already held by someone else.
func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
    token, err := randomToken(16)
    if err != nil {
        return "", false, err
    }
    ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
    if err != nil {
        return "", false, err
    }
    if !ok {
        return "", false, nil
    }
    return token, true, nil
}

// Release frees the lease if and only if it is still owned by the
// presented token.  Releasing an expired or foreign lease is a no-op.
func (l *RedisLock) Release(ctx context.Context, key, lease string) error {
    if lease == "" {
        return errors.New("empty lease token")
    }
    return releaseScript.Run(ctx, l.client, []string{key}, lease).Err()
}

// randomToken generates a random hexadecimal string from n bytes of
// cryptographically secure data.
func randomToken(n int) (string, error) {
    b := make([]byte, n)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return hex.EncodeToString(b), nil
}
