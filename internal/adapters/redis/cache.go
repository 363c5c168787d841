package redisad

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"review_insights/internal/adapters/observability"
)

// Cache stores polarity scores as decimal strings.
type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) GetScore(ctx context.Context, key string) (float64, bool, error) {
	v, err := r.c.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return 0, false, nil
	}
	if err != nil {
		observability.ObserveCache("redis", "error")
		return 0, false, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		// corrupt entry counts as a miss
		observability.ObserveCache("redis", "miss")
		return 0, false, nil
	}
	observability.ObserveCache("redis", "hit")
	return f, true, nil
}

// SetScore stores v; ttl <= 0 means no expiry.
func (r *Cache) SetScore(ctx context.Context, key string, v float64, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, strconv.FormatFloat(v, 'g', -1, 64), ttl).Err()
}
