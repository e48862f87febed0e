package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs. The heatmap snapshot is also refreshed eagerly by the heatmap
// worker; the TTL is only the fallback when notifications are missed.
const (
	HeatmapCacheTTL      = 5 * time.Minute
	PendingCountCacheTTL = 30 * time.Second
)

const (
	heatmapKey      = "heatmap:snapshot"
	pendingCountKey = "moderation:pending-count"
)

// CacheService provides a Redis cache-aside layer for the heatmap snapshot
// and the moderation badge count.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client (cache
// operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetHeatmap retrieves the cached heatmap snapshot. Returns nil when not
// cached or the cache is disabled.
func (c *CacheService) GetHeatmap(ctx context.Context) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, heatmapKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetHeatmap stores a heatmap snapshot.
func (c *CacheService) SetHeatmap(ctx context.Context, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, heatmapKey, b, HeatmapCacheTTL).Err()
}

// InvalidateHeatmap drops the snapshot so the next read recomputes it.
func (c *CacheService) InvalidateHeatmap(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, heatmapKey).Err()
}

// GetPendingCount retrieves the cached moderation badge payload.
func (c *CacheService) GetPendingCount(ctx context.Context) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, pendingCountKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetPendingCount stores the moderation badge payload.
func (c *CacheService) SetPendingCount(ctx context.Context, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, pendingCountKey, b, PendingCountCacheTTL).Err()
}

// InvalidatePendingCount drops the badge payload after any moderation action.
func (c *CacheService) InvalidatePendingCount(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, pendingCountKey).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
