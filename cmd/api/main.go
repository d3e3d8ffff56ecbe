package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pageza/recipe-suggester/backend/config"
	"github.com/pageza/recipe-suggester/backend/internal/database"
	"github.com/pageza/recipe-suggester/backend/internal/logging"
	"github.com/pageza/recipe-suggester/backend/internal/middleware"
	"github.com/pageza/recipe-suggester/backend/internal/router"
	"github.com/pageza/recipe-suggester/backend/internal/server"
	"github.com/pageza/recipe-suggester/backend/internal/service"
)

const (
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 30 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Path:          cfg.LogFile,
		RetentionDays: cfg.LogRetentionDays,
		Level:         cfg.LogLevel,
		Console:       true,
		NoColor:       cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	// Initialize Sentry
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      string(cfg.Environment),
			Release:          "recipe-suggester@" + releaseVersion,
			AttachStacktrace: true,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry")
		} else {
			sentryEnabled = true
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	gin.SetMode(cfg.Environment.GinMode())

	ctx := context.Background()

	suggester, err := service.NewSuggester(ctx, cfg, logger.Logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create recipe suggester")
	}

	var limiter middleware.Limiter
	if cfg.RateLimit > 0 {
		limitCfg := middleware.RateLimitConfig{Window: cfg.RateLimitWindow, Limit: cfg.RateLimit}
		if cfg.RedisURL != "" {
			redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL, logger.Logger)
			if err != nil {
				logger.Fatal().Err(err).Msg("Failed to connect to Redis")
			}
			defer redisClient.Close()
			limiter = middleware.NewRedisRateLimiter(redisClient, limitCfg)
		} else {
			limiter = middleware.NewLocalRateLimiter(limitCfg)
		}
	}

	handler := router.SetupRouter(router.Dependencies{
		Suggester:      suggester,
		Logs:           logger,
		Logger:         logger.Logger,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Limiter:        limiter,
		EnableSentry:   sentryEnabled,
	})

	srv := server.New(cfg, handler, logger.Logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		logger.Info().
			Str("provider", cfg.LLMProvider).
			Str("model", cfg.LLMModel).
			Str("environment", string(cfg.Environment)).
			Msgf("Starting server on %s", cfg.Addr())
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			sentry.CaptureException(err)
			logger.Error().Err(err).Msg("Server error")
			return
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Received signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
		return
	}
	logger.Info().Msg("Server stopped")
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string, len(headers))
	for k, v := range headers {
		switch k {
		case "authorization", "Authorization", "cookie", "Cookie", "x-api-key", "X-Api-Key":
			filtered[k] = "[REDACTED]"
		default:
			filtered[k] = v
		}
	}
	return filtered
}
