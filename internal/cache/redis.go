// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quietspace/internal/middleware"
	"quietspace/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// errorCountingHook feeds Redis command failures into the error-rate counter.
// redis.Nil is a cache miss, not a failure.
type errorCountingHook struct{}

func (errorCountingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errorCountingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		record(cmd.Name(), err)
		return err
	}
}

func (errorCountingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		record("pipeline", err)
		return err
	}
}

func record(op string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		observability.RedisErrorRate.WithLabelValues(op).Inc()
	}
}

// InitRedis connects to Redis at the given address, which may be a bare
// host:port or a redis:// URL. A failed connection leaves the client nil
// and the application running without a cache.
func InitRedis(addr string) {
	client = nil

	opts, err := parseAddr(addr)
	if err != nil {
		middleware.Logger.Warn("invalid REDIS_URL, continuing without cache",
			slog.String("addr", addr),
			slog.String("error", err.Error()),
		)
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(errorCountingHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, continuing without cache",
			slog.String("error", err.Error()),
		)
		return
	}

	middleware.Logger.Info("Redis connected successfully")
	client = c
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// GetClient returns the current Redis client instance, nil when the cache
// is disabled.
func GetClient() *redis.Client {
	return client
}
