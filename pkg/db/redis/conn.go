package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const pingTimeout = 3 * time.Second

// NewRedisClient connects to the event broker. An empty address means
// events are disabled and no client is returned.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.RedisAddr == "" {
		return nil, nil
	}

	opts := &redis.Options{
		Addr:         cfg.Redis.RedisAddr,
		Password:     cfg.Redis.RedisPassword,
		DB:           cfg.Redis.DB,
		MinIdleConns: cfg.Redis.MinIdleConns,
		PoolSize:     cfg.Redis.PoolSize,
		PoolTimeout:  time.Duration(cfg.Redis.PoolTimeout) * time.Second,
	}
	if cfg.Redis.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", cfg.Redis.RedisAddr)
	}
	return client, nil
}
