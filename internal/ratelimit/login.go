package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/pointsale/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyLoginAttempts = "pointsale:login:%s"

var ErrRateLimited = errors.New("rate_limited")

// Limiter throttles a caller identified by key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

type LoginLimiter struct {
	counter *WindowCounter
	limit   int
	window  time.Duration
}

// NewLoginLimiter returns nil when rate limiting is disabled. A nil limiter
// allows every attempt.
func NewLoginLimiter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*LoginLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.LoginAttempts <= 0 || limitCfg.LoginWindow <= 0 {
		return nil, errors.New("login rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
	}
	log.Named("ratelimit").Info("login rate limit enabled",
		zap.String("redis_addr", addr),
		zap.Int("attempts", limitCfg.LoginAttempts),
		zap.Duration("window", limitCfg.LoginWindow),
	)

	return &LoginLimiter{
		counter: NewWindowCounter(client),
		limit:   limitCfg.LoginAttempts,
		window:  limitCfg.LoginWindow,
	}, nil
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.counter != nil
}

func (l *LoginLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	return l.counter.Hit(ctx, fmt.Sprintf(keyLoginAttempts, strings.TrimSpace(key)), l.limit, l.window)
}
