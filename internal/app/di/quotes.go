package di

import (
	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/platform/cache"
	"stock_dashboard/internal/platform/externalapi/yahoo"
)

// NewQuoteRepository wraps the market repository with the Redis cache layer.
// With a nil Redis client the decorator passes every call straight to the
// provider, so the API keeps working without a cache.
func NewQuoteRepository(rdb *redis.Client, cfg *config.Config, market *yahoo.YahooMarket) *cache.CachingQuoteRepository {
	return cache.NewCachingQuoteRepository(rdb, cfg.CacheTTL(), market, cfg.Cache.Namespace)
}
