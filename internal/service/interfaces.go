package service

import (
	"context"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// RecipeSuggester is the single seam between the service and a generation provider
type RecipeSuggester interface {
	// Suggest returns well-formed recipes built from the given ingredients.
	// Failures are *types.ValidationError or *types.UpstreamError.
	Suggest(ctx context.Context, ingredients []string) ([]types.Recipe, error)
}

// Backend is a RecipeSuggester bound to one concrete provider
type Backend interface {
	RecipeSuggester
	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}
