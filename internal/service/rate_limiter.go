package service

import (
	"context"
	"fmt"
	"time"

	"pdf-toolbox-bot/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type IRateLimiter interface {
	// Allow consumes one operation for userID in the current window.
	Allow(ctx context.Context, userID int64) bool
	Limit() int
}

// rateLimiter counts operations per user in fixed windows, in Redis when
// available and in process memory otherwise.
type rateLimiter struct {
	enabled bool
	limit   int
	window  time.Duration
	rdb     *redis.Client
	local   *cache.Cache
	now     func() time.Time
	logger  logger.ILogger
}

func NewRateLimiter(enabled bool, perHour int, rdb *redis.Client, log logger.ILogger) IRateLimiter {
	return &rateLimiter{
		enabled: enabled,
		limit:   perHour,
		window:  time.Hour,
		rdb:     rdb,
		local:   cache.New(time.Hour, 10*time.Minute),
		now:     time.Now,
		logger:  log,
	}
}

func (r *rateLimiter) Limit() int { return r.limit }

func (r *rateLimiter) key(userID int64) string {
	bucket := r.now().UnixNano() / int64(r.window)
	return fmt.Sprintf("ratelimit:%d:%d", userID, bucket)
}

func (r *rateLimiter) Allow(ctx context.Context, userID int64) bool {
	if !r.enabled || r.limit <= 0 {
		return true
	}
	key := r.key(userID)
	if r.rdb != nil {
		n, err := r.incrRedis(ctx, key)
		if err == nil {
			return n <= int64(r.limit)
		}
		r.logger.Warn("RateLimiter", "Redis unavailable, counting locally", map[string]interface{}{"error": err.Error()})
	}
	_ = r.local.Add(key, 0, r.window)
	n, err := r.local.IncrementInt(key, 1)
	if err != nil {
		return true
	}
	return n <= r.limit
}

func (r *rateLimiter) incrRedis(ctx context.Context, key string) (int64, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
