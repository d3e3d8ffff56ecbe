package service

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// Outcome labels for provider metrics
const (
	outcomeSuccess        = "success"
	outcomeInvalidRequest = "invalid_request"
	outcomeInvalidOutput  = "invalid_output"
	outcomeUpstreamError  = "upstream_error"
	outcomeTimeout        = "timeout"
)

var (
	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_provider_requests_total",
			Help: "Total number of recipe generation calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_provider_request_duration_seconds",
			Help:    "Latency of recipe generation calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)
)

// Instrumented wraps a Backend with a call timeout, error classification,
// metrics and logging. It performs exactly one backend call per Suggest.
type Instrumented struct {
	backend Backend
	timeout time.Duration
	logger  zerolog.Logger
}

// NewInstrumented wraps backend. A zero timeout leaves the caller's deadline in charge.
func NewInstrumented(backend Backend, timeout time.Duration, logger zerolog.Logger) *Instrumented {
	return &Instrumented{
		backend: backend,
		timeout: timeout,
		logger:  logger.With().Str("provider", backend.Name()).Logger(),
	}
}

// Suggest delegates to the backend under the configured timeout
func (s *Instrumented) Suggest(ctx context.Context, ingredients []string) ([]types.Recipe, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	recipes, err := s.backend.Suggest(ctx, ingredients)
	elapsed := time.Since(start)

	if err != nil {
		err = classify(ctx, s.backend.Name(), err)
	}

	outcome := outcomeOf(err)
	providerRequestsTotal.WithLabelValues(s.backend.Name(), outcome).Inc()
	if outcome != outcomeInvalidRequest {
		providerRequestDuration.WithLabelValues(s.backend.Name()).Observe(elapsed.Seconds())
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     "http",
			Category: "llm",
			Message:  "recipe generation " + outcome,
			Data: map[string]interface{}{
				"provider":    s.backend.Name(),
				"ingredients": len(ingredients),
				"duration_ms": elapsed.Milliseconds(),
			},
			Level: sentry.LevelInfo,
		}, nil)
	}

	event := s.logger.Debug()
	if err != nil {
		event = s.logger.Warn().Err(err)
	}
	event.Str("outcome", outcome).Dur("elapsed", elapsed).Int("recipes", len(recipes)).Msg("provider call finished")

	return recipes, err
}

// classify makes sure every failure is a ValidationError or an UpstreamError
// and marks deadline expiry as a timeout
func classify(ctx context.Context, provider string, err error) error {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return err
	}

	timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)

	var ue *types.UpstreamError
	if errors.As(err, &ue) {
		if timedOut {
			ue.Timeout = true
		}
		return err
	}

	return &types.UpstreamError{Provider: provider, Timeout: timedOut, Err: err}
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}

	var ve *types.ValidationError
	if errors.As(err, &ve) {
		if ve.Source == types.SourceRequest {
			return outcomeInvalidRequest
		}
		return outcomeInvalidOutput
	}

	var ue *types.UpstreamError
	if errors.As(err, &ue) && ue.Timeout {
		return outcomeTimeout
	}
	return outcomeUpstreamError
}
