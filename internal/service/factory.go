package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pageza/recipe-suggester/backend/config"
)

// NewBackend creates the provider backend selected by the configuration
func NewBackend(ctx context.Context, cfg *config.Config) (Backend, error) {
	model := cfg.LLMModel
	if model == "" {
		model = config.DefaultModel(cfg.LLMProvider)
	}

	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		return NewOpenAISuggester(cfg.OpenAIAPIKey, model, cfg.OpenAIBaseURL), nil

	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		return NewGeminiSuggester(ctx, cfg.GeminiAPIKey, model, cfg.GeminiBaseURL)

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic API key not configured")
		}
		return NewAnthropicSuggester(cfg.AnthropicAPIKey, model, cfg.AnthropicBaseURL), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: openai, gemini, anthropic)", cfg.LLMProvider)
	}
}

// NewSuggester creates the configured backend wrapped with timeout and instrumentation
func NewSuggester(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (RecipeSuggester, error) {
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewInstrumented(backend, cfg.LLMTimeout, logger), nil
}
