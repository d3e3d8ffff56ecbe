package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/pageza/recipe-suggester/backend/internal/api"
	"github.com/pageza/recipe-suggester/backend/internal/middleware"
	"github.com/pageza/recipe-suggester/backend/internal/service"
)

// Dependencies holds everything the router needs to build its handlers
type Dependencies struct {
	Suggester      service.RecipeSuggester
	Logs           api.LogSource
	Logger         zerolog.Logger
	AllowedOrigins []string
	// TrustedProxies may set the client IP through X-Forwarded-For; nil trusts none
	TrustedProxies []string
	// Limiter guards the suggest route; nil disables rate limiting
	Limiter middleware.Limiter
	// EnableSentry attaches the Sentry hub middleware
	EnableSentry bool
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Logger.Warn().Err(err).Msg("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middleware.RequestID())
	if deps.EnableSentry {
		router.Use(middleware.Sentry())
	}
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(),
		middleware.CORS(deps.AllowedOrigins),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")

	var suggestMiddleware []gin.HandlerFunc
	if deps.Limiter != nil {
		suggestMiddleware = append(suggestMiddleware, middleware.RateLimit(deps.Limiter, deps.Logger))
	}

	api.NewRecipeHandler(deps.Suggester, deps.Logger).RegisterRoutes(apiGroup, suggestMiddleware...)
	api.NewOperationsHandler(deps.Logs, deps.Logger).RegisterRoutes(apiGroup)

	return router
}
