package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	utils "github.com/codingclub/content-service/utils"
)

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// RedisLimiter shares counters between service instances.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, limit: limit, window: window, prefix: "content:ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.limit <= 0 {
		return true, 0, nil
	}
	key = l.prefix + key

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count <= int64(l.limit) {
		return true, 0, nil
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		return false, l.window, nil
	}
	return false, ttl, nil
}

// MemoryLimiter is the single-instance fallback used when no redis address is
// configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]*fixedWindow
}

type fixedWindow struct {
	start time.Time
	count int
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{limit: limit, window: window, now: time.Now, windows: map[string]*fixedWindow{}}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	if l.limit <= 0 {
		return true, 0, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanupLocked(now)

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &fixedWindow{start: now}
		l.windows[key] = w
	}
	w.count++
	if w.count <= l.limit {
		return true, 0, nil
	}
	return false, w.start.Add(l.window).Sub(now), nil
}

func (l *MemoryLimiter) cleanupLocked(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.start) >= 2*l.window {
			delete(l.windows, key)
		}
	}
}

// RateLimit rejects callers that exceed the limiter with 429. Callers are
// keyed by user id when authenticated, client IP otherwise. Limiter errors
// are logged and the request is let through.
func RateLimit(limiter Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if uid := c.GetString(UserIDKey); uid != "" {
			key = "user:" + uid
		}

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			utils.LoggerFromContext(c.Request.Context(), logger).Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			abort(c, utils.NewAPIError(http.StatusTooManyRequests, fmt.Sprintf("Too many requests, retry in %ds", seconds), nil))
			return
		}
		c.Next()
	}
}
