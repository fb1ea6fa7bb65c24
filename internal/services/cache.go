package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned by Get when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

const cacheKeyPrefix = "soc-api:"

// CacheService caches export-data reports in Redis, falling back to an
// in-process map when Redis is unavailable
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger logrus.FieldLogger

	mu  sync.RWMutex
	mem map[string]cacheItem

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheItem struct {
	value     string
	expiresAt time.Time
}

// NewCacheService creates a new cache service. A nil client keeps
// everything in memory.
func NewCacheService(client *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *CacheService {
	return &CacheService{
		client: client,
		ttl:    ttl,
		logger: logger.WithField("component", "cache"),
		mem:    make(map[string]cacheItem),
	}
}

// Get retrieves a value from cache
func (c *CacheService) Get(ctx context.Context, key string) (string, error) {
	key = cacheKeyPrefix + key

	if c.client != nil {
		val, err := c.client.Get(ctx, key).Result()
		switch {
		case err == nil:
			c.hits.Add(1)
			return val, nil
		case errors.Is(err, redis.Nil):
		default:
			c.logger.WithError(err).WithField("key", key).Warn("Redis get failed, using memory cache")
		}
	}

	c.mu.RLock()
	item, ok := c.mem[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		if ok {
			c.mu.Lock()
			delete(c.mem, key)
			c.mu.Unlock()
		}
		c.misses.Add(1)
		return "", ErrCacheMiss
	}

	c.hits.Add(1)
	return item.value, nil
}

// Set stores a value in cache with TTL
func (c *CacheService) Set(ctx context.Context, key string, value string) error {
	key = cacheKeyPrefix + key

	if c.client != nil {
		err := c.client.Set(ctx, key, value, c.ttl).Err()
		if err == nil {
			return nil
		}
		c.logger.WithError(err).WithField("key", key).Warn("Redis set failed, using memory cache")
	}

	c.mu.Lock()
	c.mem[key] = cacheItem{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (c *CacheService) Delete(ctx context.Context, key string) error {
	key = cacheKeyPrefix + key

	if c.client != nil {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Redis delete failed")
		}
	}

	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()
	return nil
}

// Clear removes every key with the service prefix. The Redis database may be
// shared, so keys are scanned instead of flushed.
func (c *CacheService) Clear(ctx context.Context) error {
	if c.client != nil {
		iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.mem = make(map[string]cacheItem)
	c.mu.Unlock()

	c.logger.Info("Cache cleared")
	return nil
}

// GetStats returns cache statistics
func (c *CacheService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	c.mu.RLock()
	size := len(c.mem)
	c.mu.RUnlock()

	stats := map[string]interface{}{
		"backend": "memory",
		"ttl":     c.ttl.String(),
		"hits":    c.hits.Load(),
		"misses":  c.misses.Load(),
		"memory":  map[string]interface{}{"size": size},
	}
	if c.client != nil {
		stats["backend"] = "redis"
		if n, err := c.client.DBSize(ctx).Result(); err == nil {
			stats["redis"] = map[string]interface{}{"keys": n}
		}
	}
	return stats, nil
}

// Health returns cache service health status
func (c *CacheService) Health() map[string]interface{} {
	if c.client == nil {
		return map[string]interface{}{"status": "healthy", "backend": "memory"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		return map[string]interface{}{"status": "degraded", "backend": "memory", "error": err.Error()}
	}
	return map[string]interface{}{"status": "healthy", "backend": "redis"}
}

// StartCleanupRoutine evicts expired memory entries until ctx is done
func (c *CacheService) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.mu.Lock()
				for k, item := range c.mem {
					if now.After(item.expiresAt) {
						delete(c.mem, k)
					}
				}
				c.mu.Unlock()
			}
		}
	}()
}
