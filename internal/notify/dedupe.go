package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper guards the daemon scheduler against sending the same user's daily
// reminder twice: the selector window spans several ticks, so every tick
// inside the window would otherwise match the user again.
type Deduper interface {
	// TryMark records that the user was reminded on date (YYYY-MM-DD).
	// Returns false when the user was already marked for that date.
	TryMark(ctx context.Context, userID int64, date string) (bool, error)
}

// MemoryDeduper keeps marks in process memory. Marks from previous days are
// pruned on first touch of a new date.
type MemoryDeduper struct {
	mu    sync.Mutex
	date  string
	seen  map[int64]struct{}
}

// NewMemoryDeduper creates an in-memory deduper.
func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{seen: make(map[int64]struct{})}
}

func (d *MemoryDeduper) TryMark(_ context.Context, userID int64, date string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.date != date {
		d.date = date
		d.seen = make(map[int64]struct{})
	}
	if _, ok := d.seen[userID]; ok {
		return false, nil
	}
	d.seen[userID] = struct{}{}
	return true, nil
}

// RedisDeduper backs marks with Redis SETNX so a daemon restart inside the
// window does not re-send.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a Redis-backed deduper. Keys expire after ttl
// (24h when zero).
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) TryMark(ctx context.Context, userID int64, date string) (bool, error) {
	key := fmt.Sprintf("teachtime:reminded:%s:%d", date, userID)
	return d.client.SetNX(ctx, key, 1, d.ttl).Result()
}
