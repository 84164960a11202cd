package stash

import (
	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/pixomat/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Redis  *redis.Client `optional:"true"`
}

func New(p Params) Store {
	if p.Redis != nil {
		p.Log.Info("stash backend", zap.String("backend", "redis"))
		return NewRedis(p.Redis, p.Config.StashTTL)
	}
	p.Log.Info("stash backend", zap.String("backend", "memory"))
	return NewMemory(p.Config.StashTTL)
}

var Module = fx.Module("stash", fx.Provide(New))
