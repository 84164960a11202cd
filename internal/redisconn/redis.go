// Package redisconn provides the shared redis client. The client is nil
// when no address is configured; consumers treat that as "feature off".
package redisconn

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/pixomat/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return err
			}
			log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return client
}

var Module = fx.Module("redis", fx.Provide(New))
