package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"job-management-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key extractor, client IP when nil
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis
	KeyPrefix string
	// Reject requests when Redis errors instead of falling back to memory
	FailClosed bool
}

// AuthRateLimitConfig is the strict policy for credential endpoints.
func AuthRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		Limit:      limit,
		Window:     window,
		KeyPrefix:  "rl:auth:",
		FailClosed: true,
	}
}

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per key in fixed windows. It uses Redis when
// a client is given and an in-memory map otherwise.
type RateLimiter struct {
	client  *goredis.Client
	log     *zap.Logger
	entries sync.Map
	now     func() time.Time
}

func NewRateLimiter(client *goredis.Client, log *zap.Logger) *RateLimiter {
	return &RateLimiter{client: client, log: log, now: time.Now}
}

// Run sweeps expired in-memory entries until ctx is done.
func (l *RateLimiter) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *RateLimiter) sweep() {
	now := l.now()
	l.entries.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			l.entries.CompareAndDelete(key, value)
		}
		entry.mu.Unlock()
		return true
	})
}

func (l *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	return func(c *gin.Context) {
		key := config.KeyPrefix + keyFunc(c)

		var count int
		var resetAt time.Time
		if l.client != nil {
			var err error
			count, resetAt, err = l.countRedis(c.Request.Context(), key, config)
			if err != nil {
				l.log.Warn("rate limit store unavailable", zap.String("key", key), zap.Error(err))
				if config.FailClosed {
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = l.countMemory(key, config)
			}
		} else {
			count, resetAt = l.countMemory(key, config)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(l.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			l.log.Info("rate limit triggered",
				zap.String("request_id", GetRequestID(c)),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.FullPath()),
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func (l *RateLimiter) countRedis(ctx context.Context, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())

	result, err := l.client.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), l.now().Add(time.Duration(ttl) * time.Second), nil
}

func (l *RateLimiter) countMemory(key string, config RateLimitConfig) (int, time.Time) {
	now := l.now()
	for {
		value, _ := l.entries.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(config.Window)})
		entry := value.(*rateLimitEntry)

		entry.mu.Lock()
		// sweep may have dropped the entry between LoadOrStore and Lock
		if current, ok := l.entries.Load(key); !ok || current != value {
			entry.mu.Unlock()
			continue
		}

		if now.After(entry.resetAt) {
			entry.count = 0
			entry.resetAt = now.Add(config.Window)
		}
		entry.count++
		count, resetAt := entry.count, entry.resetAt
		entry.mu.Unlock()

		return count, resetAt
	}
}
