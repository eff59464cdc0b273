package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"seat-ticketing/models"
)

const (
	seatsCacheKey = "cache:seats"
	statsCacheKey = "cache:stats"
)

// Cache is a short-TTL redis read cache for the seat map and the stats
// aggregate, the two endpoints check-in dashboards poll. It is purely an
// acceleration layer: the coordinator always reads the store directly,
// and every mutation invalidates both keys. A nil *Cache is valid and
// disables caching entirely.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: client, ttl: ttl}
}

func (c *Cache) GetSeats(ctx context.Context) ([]models.Seat, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, seatsCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var seats []models.Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		return nil, false
	}
	return seats, true
}

func (c *Cache) SetSeats(ctx context.Context, seats []models.Seat) {
	if c == nil {
		return
	}
	data, err := json.Marshal(seats)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, seatsCacheKey, data, c.ttl).Err(); err != nil {
		slog.Warn("seat cache write failed", "err", err)
	}
}

func (c *Cache) GetStats(ctx context.Context) (*models.Stats, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var stats models.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *Cache) SetStats(ctx context.Context, stats *models.Stats) {
	if c == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, statsCacheKey, data, c.ttl).Err(); err != nil {
		slog.Warn("stats cache write failed", "err", err)
	}
}

// Invalidate drops both cached views. Called after any mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.redis.Del(ctx, seatsCacheKey, statsCacheKey).Err(); err != nil {
		slog.Warn("cache invalidation failed", "err", err)
	}
}
