package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Limiter decides whether a client may issue another request.
// Returns: allowed, remaining requests, reset time, error
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	Limit() int
}

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RedisRateLimiter is a fixed-window limiter shared across instances through Redis
type RedisRateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRedisRateLimiter creates a new Redis-backed rate limiter
func NewRedisRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisRateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:suggest"
	}
	return &RedisRateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Limit returns the configured request limit
func (rl *RedisRateLimiter) Limit() int {
	return rl.config.Limit
}

// Allow counts a request for key in the current window
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := time.Now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.TxPipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// LocalRateLimiter is an in-process token bucket per client, used when
// no Redis is configured. A bucket idle for a full window has refilled
// completely, so such buckets are dropped on the next sweep.
type LocalRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*localClient
	config    RateLimitConfig
	every     rate.Limit
	lastSweep time.Time
	now       func() time.Time
}

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalRateLimiter creates a limiter that refills Limit tokens per Window
func NewLocalRateLimiter(config RateLimitConfig) *LocalRateLimiter {
	return &LocalRateLimiter{
		clients: make(map[string]*localClient),
		config:  config,
		every:   rate.Every(config.Window / time.Duration(config.Limit)),
		now:     time.Now,
	}
}

// Limit returns the configured request limit
func (rl *LocalRateLimiter) Limit() int {
	return rl.config.Limit
}

// Allow takes a token from the bucket for key
func (rl *LocalRateLimiter) Allow(_ context.Context, key string) (bool, int, time.Time, error) {
	now := rl.now()

	rl.mu.Lock()
	if now.Sub(rl.lastSweep) >= rl.config.Window {
		rl.sweep(now)
	}
	client, ok := rl.clients[key]
	if !ok {
		client = &localClient{limiter: rate.NewLimiter(rl.every, rl.config.Limit)}
		rl.clients[key] = client
	}
	client.lastSeen = now
	rl.mu.Unlock()

	allowed := client.limiter.AllowN(now, 1)
	tokens := client.limiter.TokensAt(now)
	remaining := int(math.Max(0, math.Floor(tokens)))

	reset := now
	if tokens < 1 {
		reset = now.Add(time.Duration((1 - tokens) / float64(rl.every) * float64(time.Second)))
	}

	return allowed, remaining, reset, nil
}

// sweep drops clients not seen for a full window. Caller holds mu.
func (rl *LocalRateLimiter) sweep(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) >= rl.config.Window {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// clientCount returns the number of tracked clients
func (rl *LocalRateLimiter) clientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// RateLimit returns a Gin middleware that enforces limiter per client IP.
// Limiter failures are logged and the request is let through.
func RateLimit(limiter Limiter, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetTime, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn().Err(err).Str("request_id", GetRequestID(c)).Msg("rate limit check failed")
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			rateLimitRejects.Inc()

			retryAfter := int(math.Ceil(time.Until(resetTime).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error:     "rate limit exceeded",
				Kind:      "rate_limited",
				RequestID: GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
