package types

import (
	"fmt"
	"strings"
)

// Recipe represents a single suggested recipe as returned to clients
type Recipe struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
}

// Validate checks that a recipe produced by a provider is well-formed
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty", Source: SourceProvider}
	}
	if r.Ingredients == nil {
		return &ValidationError{Field: "ingredients", Message: "is required", Source: SourceProvider}
	}
	if len(r.Steps) == 0 {
		return &ValidationError{Field: "steps", Message: "must contain at least one step", Source: SourceProvider}
	}
	return nil
}

// ValidateRecipes checks a full provider result. The list must be non-empty
// and every element well-formed.
func ValidateRecipes(recipes []Recipe) error {
	if len(recipes) == 0 {
		return &ValidationError{Field: "recipes", Message: "provider returned no recipes", Source: SourceProvider}
	}
	for i, r := range recipes {
		if err := r.Validate(); err != nil {
			ve := err.(*ValidationError)
			ve.Field = fmt.Sprintf("recipes[%d].%s", i, ve.Field)
			return ve
		}
	}
	return nil
}

// SuggestRequest is the body accepted by the suggest endpoint
type SuggestRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// SuggestionContext carries the per-request data injected into the
// provider instructions. It is never shared between requests.
type SuggestionContext struct {
	Ingredients []string
}

// NewSuggestionContext copies and trims the caller's ingredients
func NewSuggestionContext(ingredients []string) SuggestionContext {
	out := make([]string, len(ingredients))
	for i, ing := range ingredients {
		out[i] = strings.TrimSpace(ing)
	}
	return SuggestionContext{Ingredients: out}
}

// Validate rejects empty ingredient lists and blank entries
func (sc SuggestionContext) Validate() error {
	if len(sc.Ingredients) == 0 {
		return &ValidationError{Field: "ingredients", Message: "at least one ingredient is required", Source: SourceRequest}
	}
	for i, ing := range sc.Ingredients {
		if strings.TrimSpace(ing) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("ingredients[%d]", i),
				Message: "must not be blank",
				Source:  SourceRequest,
			}
		}
	}
	return nil
}
