package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-suggester/backend/config"
	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// stubBackend is a Backend driven by a function
type stubBackend struct {
	name    string
	suggest func(ctx context.Context, ingredients []string) ([]types.Recipe, error)
	calls   int
}

func (b *stubBackend) Name() string { return b.name }

func (b *stubBackend) Suggest(ctx context.Context, ingredients []string) ([]types.Recipe, error) {
	b.calls++
	return b.suggest(ctx, ingredients)
}

func TestInstrumented_Suggest(t *testing.T) {
	recipes := []types.Recipe{{Name: "Omelette", Ingredients: []string{"eggs"}, Steps: []string{"Whisk", "Cook"}}}

	t.Run("should pass through success", func(t *testing.T) {
		backend := &stubBackend{name: "stub", suggest: func(context.Context, []string) ([]types.Recipe, error) {
			return recipes, nil
		}}
		s := NewInstrumented(backend, time.Second, zerolog.Nop())

		got, err := s.Suggest(context.Background(), []string{"eggs"})

		require.NoError(t, err)
		assert.Equal(t, recipes, got)
		assert.Equal(t, 1, backend.calls)
	})

	t.Run("should mark deadline as timeout", func(t *testing.T) {
		backend := &stubBackend{name: "stub", suggest: func(ctx context.Context, _ []string) ([]types.Recipe, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
		s := NewInstrumented(backend, 20*time.Millisecond, zerolog.Nop())

		_, err := s.Suggest(context.Background(), []string{"eggs"})

		var ue *types.UpstreamError
		require.True(t, errors.As(err, &ue))
		assert.True(t, ue.Timeout)
		assert.Equal(t, "stub", ue.Provider)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.Equal(t, 1, backend.calls)
	})

	t.Run("should flag wrapped upstream error on deadline", func(t *testing.T) {
		backend := &stubBackend{name: "stub", suggest: func(ctx context.Context, _ []string) ([]types.Recipe, error) {
			<-ctx.Done()
			return nil, &types.UpstreamError{Provider: "stub", Err: errors.New("request canceled")}
		}}
		s := NewInstrumented(backend, 20*time.Millisecond, zerolog.Nop())

		_, err := s.Suggest(context.Background(), []string{"eggs"})

		var ue *types.UpstreamError
		require.True(t, errors.As(err, &ue))
		assert.True(t, ue.Timeout)
	})

	t.Run("should wrap plain errors as upstream", func(t *testing.T) {
		backend := &stubBackend{name: "stub", suggest: func(context.Context, []string) ([]types.Recipe, error) {
			return nil, errors.New("connection refused")
		}}
		s := NewInstrumented(backend, time.Second, zerolog.Nop())

		_, err := s.Suggest(context.Background(), []string{"eggs"})

		var ue *types.UpstreamError
		require.True(t, errors.As(err, &ue))
		assert.False(t, ue.Timeout)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("should keep validation errors", func(t *testing.T) {
		backend := &stubBackend{name: "stub", suggest: func(context.Context, []string) ([]types.Recipe, error) {
			return nil, &types.ValidationError{Field: "recipes", Message: "empty", Source: types.SourceProvider}
		}}
		s := NewInstrumented(backend, time.Second, zerolog.Nop())

		_, err := s.Suggest(context.Background(), []string{"eggs"})

		var ve *types.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, types.SourceProvider, ve.Source)
	})
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, outcomeSuccess},
		{"request validation", &types.ValidationError{Source: types.SourceRequest}, outcomeInvalidRequest},
		{"provider validation", &types.ValidationError{Source: types.SourceProvider}, outcomeInvalidOutput},
		{"timeout", &types.UpstreamError{Timeout: true}, outcomeTimeout},
		{"upstream", &types.UpstreamError{}, outcomeUpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeOf(tt.err))
		})
	}
}

func TestNewSuggester(t *testing.T) {
	t.Run("should build each provider", func(t *testing.T) {
		providers := map[string]*config.Config{
			config.ProviderOpenAI:    {LLMProvider: config.ProviderOpenAI, OpenAIAPIKey: "k", LLMTimeout: time.Second},
			config.ProviderGemini:    {LLMProvider: config.ProviderGemini, GeminiAPIKey: "k", LLMTimeout: time.Second},
			config.ProviderAnthropic: {LLMProvider: config.ProviderAnthropic, AnthropicAPIKey: "k", LLMTimeout: time.Second},
		}

		for name, cfg := range providers {
			backend, err := NewBackend(context.Background(), cfg)
			require.NoError(t, err, name)
			assert.Equal(t, name, backend.Name())

			s, err := NewSuggester(context.Background(), cfg, zerolog.Nop())
			require.NoError(t, err, name)
			assert.IsType(t, &Instrumented{}, s)
		}
	})

	t.Run("should fail without key", func(t *testing.T) {
		_, err := NewSuggester(context.Background(), &config.Config{LLMProvider: config.ProviderOpenAI}, zerolog.Nop())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "API key not configured")
	})

	t.Run("should fail for unknown provider", func(t *testing.T) {
		_, err := NewSuggester(context.Background(), &config.Config{LLMProvider: "deepseek"}, zerolog.Nop())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})
}
