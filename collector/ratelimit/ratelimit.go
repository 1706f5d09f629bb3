package ratelimit

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RateLimiter interface {
	// ShouldWait reports how long the caller identified by key must wait
	// before its next request is admitted; zero admits the request.
	ShouldWait(ctx context.Context, key string) (time.Duration, error)
}

type noRateLimiter struct{}

func (r *noRateLimiter) ShouldWait(_ context.Context, _ string) (time.Duration, error) {
	return 0, nil
}

// slidingWindow admits at most limit requests per key within any window of
// the given duration, tracked as a Redis sorted set of request timestamps.
type slidingWindow struct {
	redisClient *redis.Client
	window      time.Duration
	limit       int
	now         func() time.Time
}

func NewRateLimiter(redisClient *redis.Client, window time.Duration, limit int) RateLimiter {
	if window <= 0 || limit <= 0 {
		return &noRateLimiter{}
	}
	return &slidingWindow{
		redisClient: redisClient,
		window:      window,
		limit:       limit,
		now:         time.Now,
	}
}

func (r *slidingWindow) ShouldWait(ctx context.Context, key string) (time.Duration, error) {
	now := r.now()
	start := now.Add(-r.window)

	pipeline := r.redisClient.TxPipeline()
	pipeline.ZRemRangeByScore(ctx, key, "0", fmt.Sprint(start.UnixMicro()))
	pipeline.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMicro()), Member: now.UnixNano()})
	pipeline.Expire(ctx, key, r.window)
	scores := pipeline.ZRangeWithScores(ctx, key, 0, -1)
	if _, err := pipeline.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to update rate window %s: %w", key, err)
	}
	return waitFor(scores.Val(), r.limit, r.window, now), nil
}

// waitFor returns the time until the oldest request in window leaves it, or
// zero while the window holds no more than limit requests.
func waitFor(window []redis.Z, limit int, duration time.Duration, now time.Time) time.Duration {
	if len(window) <= limit {
		return 0
	}
	oldest := time.UnixMicro(int64(window[0].Score))
	return oldest.Add(duration).Sub(now)
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header. Limiter failures are logged and the request is let through.
func Middleware(limiter RateLimiter, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		wait, err := limiter.ShouldWait(c, prefix+":"+c.ClientIP())
		if err != nil {
			log.Println(err)
			c.Next()
			return
		}
		if wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
