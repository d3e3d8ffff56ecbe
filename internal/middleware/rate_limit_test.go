package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, int, time.Time, error) {
	return false, 0, time.Time{}, errors.New("redis down")
}

func (failingLimiter) Limit() int { return 1 }

func newLimitedRouter(limiter Limiter) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), RateLimit(limiter, zerolog.Nop()))
	router.POST("/suggest", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestLocalRateLimiter(t *testing.T) {
	limiter := NewLocalRateLimiter(RateLimitConfig{Window: time.Hour, Limit: 2})

	for i := 0; i < 2; i++ {
		allowed, _, _, err := limiter.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, reset, err := limiter.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.True(t, reset.After(time.Now()))

	// Other clients have their own bucket
	allowed, _, _, err = limiter.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimit(t *testing.T) {
	t.Run("should reject over limit", func(t *testing.T) {
		router := newLimitedRouter(NewLocalRateLimiter(RateLimitConfig{Window: time.Hour, Limit: 1}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/suggest", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/suggest", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "rate_limited", body.Kind)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("should fail open on limiter error", func(t *testing.T) {
		router := newLimitedRouter(failingLimiter{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/suggest", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
	})
}

func TestLocalRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLocalRateLimiter(RateLimitConfig{Window: time.Minute, Limit: 1})
	limiter.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		_, _, _, err := limiter.Allow(context.Background(), fmt.Sprintf("10.0.0.%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 5, limiter.clientCount())

	now = now.Add(30 * time.Second)
	allowed, _, _, err := limiter.Allow(context.Background(), "10.0.0.0")
	require.NoError(t, err)
	assert.False(t, allowed, "bucket must survive within the window")

	now = now.Add(45 * time.Second)
	_, _, _, err = limiter.Allow(context.Background(), "10.0.0.9")
	require.NoError(t, err)

	// 10.0.0.1-4 were idle for a full window; 10.0.0.0 was seen 45s ago
	assert.Equal(t, 2, limiter.clientCount())
}
