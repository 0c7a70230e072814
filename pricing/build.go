package pricing

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/2492dfd/stockLog-final/config"
	"github.com/2492dfd/stockLog-final/logger"
)

// New assembles the configured providers into a Source:
// each provider is rate limited and observed, the chain is cached in Redis
// when an address is configured and in memory otherwise.
func New(ctx context.Context, cfg config.PricingConfig) (Source, error) {
	var chain Chain
	for _, name := range cfg.Providers {
		var p Provider
		switch name {
		case "yahoo":
			p = NewYahooProvider(cfg.Timeout)
		case "naver":
			p = NewNaverProvider(cfg.Timeout)
		case "sheet":
			p = NewSheetProvider(cfg.SheetURL, cfg.Timeout)
		default:
			return nil, fmt.Errorf("unknown pricing provider '%s'", name)
		}
		chain = append(chain, Observe(NewRateLimited(p, cfg.RatePerSecond, cfg.RateBurst)))
	}

	var cached Provider
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cached = NewRedisCache(chain, client, cfg.CacheTTL)
		logger.Info(ctx, "Price cache backed by redis", "addr", cfg.RedisAddr)
	} else {
		cached = NewMemoryCache(chain, cfg.CacheTTL)
	}
	return Resolve(cached), nil
}
