package router

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-suggester/backend/internal/middleware"
	"github.com/pageza/recipe-suggester/backend/internal/mocks"
	"github.com/pageza/recipe-suggester/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(limiter middleware.Limiter) (*gin.Engine, *mocks.MockRecipeSuggester) {
	suggester := new(mocks.MockRecipeSuggester)
	suggester.On("Suggest", mock.Anything, mock.Anything).Return([]types.Recipe{
		{Name: "Toast", Ingredients: []string{"bread"}, Steps: []string{"Toast"}},
	}, nil)

	return SetupRouter(Dependencies{
		Suggester:      suggester,
		Logs:           new(mocks.MockLogSource),
		Logger:         zerolog.Nop(),
		AllowedOrigins: []string{"http://localhost:3000"},
		Limiter:        limiter,
	}), suggester
}

func TestSetupRouter_Routes(t *testing.T) {
	router, _ := newTestRouter(nil)

	routes := map[string]bool{}
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	assert.True(t, routes["POST /api/recipes/suggest"])
	assert.True(t, routes["GET /api/operations/health"])
	assert.True(t, routes["GET /api/operations/logs"])
	assert.True(t, routes["GET /metrics"])
}

func TestSetupRouter_Health(t *testing.T) {
	router, _ := newTestRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/operations/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSetupRouter_Metrics(t *testing.T) {
	router, _ := newTestRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/operations/health", nil))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipe_suggester_http_requests_total")
}

func TestSetupRouter_RateLimitsSuggestOnly(t *testing.T) {
	limiter := middleware.NewLocalRateLimiter(middleware.RateLimitConfig{Window: time.Hour, Limit: 1})
	router, suggester := newTestRouter(limiter)

	suggest := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/recipes/suggest", bytes.NewBufferString(`{"ingredients":["bread"]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, suggest())
	assert.Equal(t, http.StatusTooManyRequests, suggest())
	suggester.AssertNumberOfCalls(t, "Suggest", 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/operations/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouter_IgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := middleware.NewLocalRateLimiter(middleware.RateLimitConfig{Window: time.Hour, Limit: 1})
	router, suggester := newTestRouter(limiter)

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/recipes/suggest", bytes.NewBufferString(`{"ingredients":["bread"]}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.9.9.%d", i))
		req.RemoteAddr = "203.0.113.7:40000"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{200, 429, 429, 429, 429}, codes)
	suggester.AssertNumberOfCalls(t, "Suggest", 1)
}

func TestSetupRouter_HonorsTrustedProxy(t *testing.T) {
	suggester := new(mocks.MockRecipeSuggester)
	suggester.On("Suggest", mock.Anything, mock.Anything).Return([]types.Recipe{
		{Name: "Toast", Ingredients: []string{"bread"}, Steps: []string{"Toast"}},
	}, nil)

	router := SetupRouter(Dependencies{
		Suggester:      suggester,
		Logs:           new(mocks.MockLogSource),
		Logger:         zerolog.Nop(),
		AllowedOrigins: []string{"http://localhost:3000"},
		TrustedProxies: []string{"203.0.113.0/24"},
		Limiter:        middleware.NewLocalRateLimiter(middleware.RateLimitConfig{Window: time.Hour, Limit: 1}),
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/recipes/suggest", bytes.NewBufferString(`{"ingredients":["bread"]}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		req.RemoteAddr = "203.0.113.7:40000"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "distinct clients behind a trusted proxy get their own bucket")
	}
}
