package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/sinthiyatelecom/backoffice/internal/config"
	"github.com/sirupsen/logrus"
)

// InitRedis connects to Redis. It returns nil when Redis is unreachable;
// callers treat a nil client as "no cache, no token blacklist".
func InitRedis(ctx context.Context, cfg config.RedisConfig, log logrus.FieldLogger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("Redis connection failed, continuing without Redis")
		rdb.Close()
		return nil
	}

	log.WithField("addr", cfg.Addr()).Info("Redis connection established")
	return rdb
}
