package rediscache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/merchkit/orderflow/internal/config"
	"github.com/merchkit/orderflow/internal/usecase"
)

// Module provides the order read cache. Without a Redis address the engine
// runs with a no-op cache and reads always hit storage.
var Module = fx.Options(
	fx.Provide(newOrderCache),
)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newOrderCache(p cacheParams) usecase.OrderCache {
	if p.Config.RedisAddress == "" {
		p.Logger.Info("order cache disabled, no redis address configured")
		return NoopCache{}
	}

	cache := New(p.Config.RedisAddress, p.Config.CacheTTL, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return cache.Close()
		},
	})
	return cache
}
