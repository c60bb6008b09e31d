// Package roomcache caches room id -> room number lookups in Redis so the
// roster does not refetch the same room for every resident.
package roomcache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned when a room is not cached.
var ErrMiss = errors.New("cache miss")

const keyPrefix = "nurseryhome:room_number:"

// Cache is a Redis-backed room number cache.
type Cache struct {
	c   *redis.Client
	ttl time.Duration
}

// New wraps an existing client. A non-positive ttl means entries never expire.
func New(c *redis.Client, ttl time.Duration) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{c: c, ttl: ttl}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Cache, error) {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return New(c, ttl), nil
}

// Get returns the cached room number for roomID, or ErrMiss.
func (rc *Cache) Get(ctx context.Context, roomID string) (string, error) {
	val, err := rc.c.Get(ctx, keyPrefix+roomID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

// Set stores the room number for roomID.
func (rc *Cache) Set(ctx context.Context, roomID, roomNumber string) error {
	return rc.c.Set(ctx, keyPrefix+roomID, roomNumber, rc.ttl).Err()
}

// Invalidate drops a cached room.
func (rc *Cache) Invalidate(ctx context.Context, roomID string) error {
	return rc.c.Del(ctx, keyPrefix+roomID).Err()
}

// Ping checks the connection; used by the health endpoint.
func (rc *Cache) Ping(ctx context.Context) error {
	return rc.c.Ping(ctx).Err()
}

// Close releases the underlying client.
func (rc *Cache) Close() error {
	return rc.c.Close()
}
