// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/quotes/domain/entity"
	"stock_dashboard/internal/feature/quotes/usecase"
)

// CachingQuoteRepository decorates a QuoteRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Every fetch window is memoized under
// its own key, so repeated dashboard requests within the TTL never reach
// the provider.
type CachingQuoteRepository struct {
	inner     usecase.QuoteRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingQuoteRepository implements the same interface it decorates.
var _ usecase.QuoteRepository = (*CachingQuoteRepository)(nil)

// NewCachingQuoteRepository decorates a QuoteRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "quotes".
func NewCachingQuoteRepository(rdb *redis.Client, ttl time.Duration, inner usecase.QuoteRepository, namespace string) *CachingQuoteRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "quotes"
	}
	return &CachingQuoteRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetTimeSeries retrieves a trailing window, checking cache first then
// falling back to the provider.
func (c *CachingQuoteRepository) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Bar, error) {
	key := c.seriesKey(symbol, interval, outputsize)
	return c.fetchWithCache(ctx, key, func() ([]entity.Bar, error) {
		return c.inner.GetTimeSeries(ctx, symbol, interval, outputsize)
	})
}

// GetTimeSeriesRange retrieves a date-range window, checking cache first then
// falling back to the provider.
func (c *CachingQuoteRepository) GetTimeSeriesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]entity.Bar, error) {
	key := c.rangeKey(symbol, interval, start, end)
	return c.fetchWithCache(ctx, key, func() ([]entity.Bar, error) {
		return c.inner.GetTimeSeriesRange(ctx, symbol, interval, start, end)
	})
}

// InvalidateSymbol deletes every cached window for the given symbol.
// Used by batch scans that need fresh data regardless of TTL.
func (c *CachingQuoteRepository) InvalidateSymbol(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	pattern := fmt.Sprintf("%s:%s:*", c.namespace, safe(symbol))
	return c.deleteByPattern(ctx, pattern)
}

// fetchWithCache serves the key from Redis when possible, otherwise calls
// fetch and stores its result.
func (c *CachingQuoteRepository) fetchWithCache(ctx context.Context, key string, fetch func() ([]entity.Bar, error)) ([]entity.Bar, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return fetch()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Bar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the provider
	out, err := fetch()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// seriesKey generates a cache key for a trailing-window query.
func (c *CachingQuoteRepository) seriesKey(symbol, interval string, outputsize int) string {
	return fmt.Sprintf("%s:%s:%s:n:%d",
		c.namespace,
		safe(symbol),
		safe(interval),
		outputsize,
	)
}

// rangeKey generates a cache key for a date-range query.
func (c *CachingQuoteRepository) rangeKey(symbol, interval string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s:r:%d:%d",
		c.namespace,
		safe(symbol),
		safe(interval),
		start.Unix(),
		end.Unix(),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingQuoteRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
