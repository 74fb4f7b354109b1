package memcache_fx

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"listaai/internal/config"
	"listaai/internal/infra"
	mem "listaai/pkg/memcache"
)

var Module = fx.Provide(provideIdempotencyStore)

// provideIdempotencyStore uses redis when REDIS_ADDR is set so keys survive
// restarts and are shared between replicas.
func provideIdempotencyStore(lc fx.Lifecycle, cfg *config.Config) (mem.IdempotencyStore, error) {
	client, err := infra.OpenRedis(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		slog.Info("idempotency store: memory")
		return mem.NewMemoryStore(), nil
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	slog.Info("idempotency store: redis", "addr", cfg.Redis.Addr)
	return mem.NewRedisStore(client), nil
}
