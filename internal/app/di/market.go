// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/platform/externalapi/yahoo"
	infrahttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured YahooMarket with HTTP client and rate limiter.
func NewMarket(cfg *config.Config) *yahoo.YahooMarket {
	yahooCfg := yahoo.Config{
		BaseURL: cfg.DataSource.BaseURL,
		Timeout: cfg.HTTPTimeout(),
	}
	httpClient := infrahttp.NewHTTPClient(yahooCfg.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit.PerMinute, time.Minute)
	return yahoo.NewYahooMarket(yahooCfg, httpClient, limiter)
}
