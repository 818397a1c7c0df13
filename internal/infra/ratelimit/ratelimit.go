// Package ratelimit implements the attempt throttle for credential endpoints.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/lifecycle"
	"gatekeeper/internal/domain/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New picks the throttle backend from configuration: Redis when an address is set,
// a process-local counter otherwise, and a no-op when throttling is disabled.
func New(params Params) service.AttemptThrottle {
	cfg := params.Config.RateLimit
	if cfg == nil || !cfg.Enabled {
		return Noop{}
	}

	if cfg.RedisAddr == "" {
		params.Logger.Warn("rate limit enabled without redis, counting attempts in process memory")

		return NewMemoryThrottle(cfg.MaxAttempts, cfg.Window, time.Now)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			// Throttling fails open, so an unreachable redis is not fatal.
			if err := client.Ping(ctx).Err(); err != nil {
				params.Logger.Warn("rate limit redis unreachable", slog.Any("error", err))
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewRedisThrottle(client, cfg.MaxAttempts, cfg.Window)
}

// Noop never throttles.
type Noop struct{}

func (Noop) Allow(context.Context, string) (bool, time.Duration, error) {
	return true, 0, nil
}
