package feed

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/auradash/aura-metals-backend/internal/models"
)

// Cache keeps the latest validated payload per metal in Redis with a TTL.
// It is a warm-start convenience, not durable storage: entries expire after
// one refresh period and the service runs fine without Redis at all.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(metal models.Metal) string {
	return fmt.Sprintf("feed:%s:latest", metal)
}

// Set stores a dataset. Failures are logged and swallowed; the cache is
// never allowed to fail a refresh.
func (c *Cache) Set(ctx context.Context, metal models.Metal, records []models.PriceRecord) {
	payload, err := json.Marshal(records)
	if err != nil {
		log.Error().Err(err).Str("metal", string(metal)).Msg("cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(metal), payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("metal", string(metal)).Msg("cache write failed")
	}
}

// Get returns the cached dataset for a metal, or false when absent, expired
// or unreadable.
func (c *Cache) Get(ctx context.Context, metal models.Metal) ([]models.PriceRecord, bool) {
	payload, err := c.rdb.Get(ctx, cacheKey(metal)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("metal", string(metal)).Msg("cache read failed")
		}
		return nil, false
	}

	var records []models.PriceRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		log.Warn().Err(err).Str("metal", string(metal)).Msg("cache entry unreadable, ignoring")
		return nil, false
	}
	return records, true
}
