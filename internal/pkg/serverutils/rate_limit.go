package serverutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisRateLimiter is a fixed-window counter shared by every API replica.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisRateLimiter(rdb *redis.Client, perMinute int) *RedisRateLimiter {
	return &RedisRateLimiter{
		rdb:    rdb,
		limit:  int64(perMinute),
		window: time.Minute,
		now:    time.Now,
	}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := r.now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= r.limit, nil
}

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter keeps one token bucket per key in process memory.
type LocalRateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*localClient
	expiry  time.Duration
}

func NewLocalRateLimiter(perMinute int) *LocalRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &LocalRateLimiter{
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
		clients: make(map[string]*localClient),
		expiry:  time.Hour,
	}
}

func (l *LocalRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > l.expiry {
			delete(l.clients, k)
		}
	}

	c, ok := l.clients[key]
	if !ok {
		c = &localClient{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.Allow(), nil
}

// FallbackRateLimiter asks primary first and uses secondary whenever primary errors.
type FallbackRateLimiter struct {
	primary   RateLimiter
	secondary RateLimiter
	log       logger.ILogger
}

func NewFallbackRateLimiter(primary, secondary RateLimiter, log logger.ILogger) *FallbackRateLimiter {
	return &FallbackRateLimiter{primary: primary, secondary: secondary, log: log}
}

func (f *FallbackRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, err := f.primary.Allow(ctx, key)
	if err == nil {
		return allowed, nil
	}
	f.log.Warn("RATE_LIMIT", "primary limiter unavailable, using local limiter", map[string]interface{}{
		"error": err.Error(),
	})
	return f.secondary.Allow(ctx, key)
}

// RateLimitMiddleware keys on the authenticated user, or the client IP before login.
func RateLimitMiddleware(limiter RateLimiter, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key := ctx.IP()
		if userId, err := CurrentUserId(ctx); err == nil {
			key = userId.String()
		}

		allowed, err := limiter.Allow(ctx.UserContext(), key)
		if err != nil {
			log.Warn("RATE_LIMIT", "limiter failed, letting request through", map[string]interface{}{
				"error": err.Error(),
				"key":   key,
			})
			return ctx.Next()
		}
		if !allowed {
			ctx.Set(fiber.HeaderRetryAfter, "60")
			return apperror.ErrRateLimited
		}
		return ctx.Next()
	}
}
