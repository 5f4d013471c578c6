package knowledge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mkulima-ai/leafscan/internal/models"
)

// CachedLibrary wraps a Library with a Redis read-through cache. Cache
// failures degrade to the underlying library; the lookup contract of
// never failing outward is preserved.
type CachedLibrary struct {
	inner  Library
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedLibrary(inner Library, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedLibrary {
	return &CachedLibrary{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedLibrary) RecommendationsFor(ctx context.Context, disease string) []models.Treatment {
	key := "treatments:" + disease

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached []models.Treatment
		if err := json.Unmarshal(data, &cached); err == nil && len(cached) > 0 {
			return cached
		}
	} else if err != redis.Nil {
		c.logger.Warn("treatment cache read failed", zap.String("disease", disease), zap.Error(err))
	}

	entries := c.inner.RecommendationsFor(ctx, disease)
	c.store(ctx, key, entries)
	return entries
}

func (c *CachedLibrary) SimilarCasesFor(ctx context.Context, disease string, limit int) []models.CaseSummary {
	// Case lists are small and limit-dependent; cache the unlimited list
	// and slice locally.
	key := "cases:" + disease

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached []models.CaseSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			if limit > 0 && limit < len(cached) {
				cached = cached[:limit]
			}
			return cached
		}
	} else if err != redis.Nil {
		c.logger.Warn("case cache read failed", zap.String("disease", disease), zap.Error(err))
	}

	cases := c.inner.SimilarCasesFor(ctx, disease, 0)
	c.store(ctx, key, cases)
	if limit > 0 && limit < len(cases) {
		cases = cases[:limit]
	}
	return cases
}

func (c *CachedLibrary) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("knowledge cache write failed", zap.String("key", key), zap.Error(err))
	}
}
