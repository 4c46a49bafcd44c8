package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/utils"
)

// Counter increments key and returns the count within the current window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCounter struct {
	Redis *redis.Client
}

func (r RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.Redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter is a fixed-window limiter keyed per caller. When the counter
// backend is unreachable requests are let through.
type RateLimiter struct {
	counter Counter
	prefix  string
	limit   int
	window  time.Duration
	log     *zap.Logger
}

func NewRateLimiter(counter Counter, prefix string, limit int, window time.Duration, log *zap.Logger) *RateLimiter {
	return &RateLimiter{counter: counter, prefix: prefix, limit: limit, window: window, log: log}
}

func (r *RateLimiter) MiddlewareByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("%s:%s", r.prefix, keyFunc(c))
		count, err := r.counter.Incr(c.UserContext(), key, r.window)
		if err != nil {
			r.log.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count > int64(r.limit) {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprint(int(r.window.Seconds())))
			return utils.JSONError(c, fiber.StatusTooManyRequests, "upload rate limit exceeded")
		}
		return c.Next()
	}
}

// ByUser keys on the authenticated caller, falling back to the client IP.
func ByUser(c *fiber.Ctx) string {
	if id := UserID(c); id != "" {
		return id
	}
	return c.IP()
}
