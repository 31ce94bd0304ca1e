package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const countVersionKey = "betterpagination:count:version"

// CountObserver receives cache hit and miss notifications.
type CountObserver interface {
	ObserveCountCache(hit bool)
}

// CountCache caches listing row counts in Redis. Keys carry a global
// version; Bump invalidates every cached count at once. A nil CountCache or
// one without a client always calls the loader.
type CountCache struct {
	client   *redis.Client
	ttl      time.Duration
	observer CountObserver
	logger   *slog.Logger
	group    singleflight.Group
}

// NewCountCache instantiates the cache helper. observer and logger may be nil.
func NewCountCache(client *redis.Client, ttl time.Duration, observer CountObserver, logger *slog.Logger) *CountCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &CountCache{client: client, ttl: ttl, observer: observer, logger: logger}
}

// Version returns the current cache version, initialising when missing.
func (c *CountCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, countVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, countVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, countVersionKey).Int64()
	}
	return ver, err
}

// Count returns the cached count for scope, populating it with loader on a
// miss. Concurrent misses for the same key share one loader call. Redis
// failures fall back to the loader.
func (c *CountCache) Count(ctx context.Context, scope string, loader func(context.Context) (int, error)) (int, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	ver, err := c.Version(ctx)
	if err != nil {
		c.logger.Warn("count cache version", slog.Any("error", err))
		return loader(ctx)
	}
	key := strings.Join([]string{"betterpagination", "count", scope, formatInt(ver)}, ":")

	count, err := c.client.Get(ctx, key).Int()
	if err == nil {
		c.observe(true)
		return count, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.Warn("count cache get", slog.String("key", key), slog.Any("error", err))
		return loader(ctx)
	}
	c.observe(false)

	resultChan := c.group.DoChan(key, func() (interface{}, error) {
		n, err := loader(ctx)
		if err != nil {
			return 0, err
		}
		if err := c.client.Set(ctx, key, n, c.ttl).Err(); err != nil {
			c.logger.Warn("count cache set", slog.String("key", key), slog.Any("error", err))
		}
		return n, nil
	})
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int), nil
	}
}

// Bump invalidates every cached count by incrementing the version.
func (c *CountCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, countVersionKey).Err()
}

func (c *CountCache) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveCountCache(hit)
	}
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
