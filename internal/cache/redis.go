package cache

import (
	"context"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func NewRedis(cfg *config.Config, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// Redis é cache, não dependência dura: sobe mesmo sem ele.
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis indisponível, cache desabilitado", zap.Error(err))
	}

	return client
}
