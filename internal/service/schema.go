package service

import (
	"encoding/json"
	"strings"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// recipeList is the object every provider is asked to produce
type recipeList struct {
	Recipes []types.Recipe `json:"recipes"`
}

// RecipeListSchema returns the JSON schema for provider output.
// Strict mode requires every property to be listed in required; optional
// fields are returned as empty strings.
func RecipeListSchema() map[string]any {
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recipes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":        map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
						"category":    map[string]any{"type": "string"},
						"ingredients": stringList,
						"steps":       stringList,
					},
					"required":             []string{"name", "description", "category", "ingredients", "steps"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"recipes"},
		"additionalProperties": false,
	}
}

// DecodeRecipes parses raw provider text into validated recipes. It accepts
// either {"recipes": [...]} or a bare array, optionally surrounded by prose
// or a markdown code fence. Each '{' or '[' is tried as a start offset and
// the first one that decodes to a non-empty recipe list wins; decoding stops
// at the end of that value, so trailing text is ignored.
func DecodeRecipes(raw string) ([]types.Recipe, error) {
	var (
		firstErr error
		decoded  bool
	)

	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' && raw[i] != '[' {
			continue
		}

		recipes, err := decodeRecipesAt(raw[i:])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		decoded = true
		if len(recipes) == 0 {
			continue
		}

		if err := types.ValidateRecipes(recipes); err != nil {
			return nil, err
		}
		return recipes, nil
	}

	switch {
	case decoded:
		return nil, types.ValidateRecipes(nil)
	case firstErr != nil:
		return nil, providerOutputError("recipes", "malformed JSON: "+firstErr.Error())
	default:
		return nil, providerOutputError("recipes", "response did not contain JSON")
	}
}

// decodeRecipesAt decodes the first JSON value in s, which starts with '{' or '['
func decodeRecipesAt(s string) ([]types.Recipe, error) {
	dec := json.NewDecoder(strings.NewReader(s))

	if s[0] == '[' {
		var recipes []types.Recipe
		if err := dec.Decode(&recipes); err != nil {
			return nil, err
		}
		return recipes, nil
	}

	var list recipeList
	if err := dec.Decode(&list); err != nil {
		return nil, err
	}
	return list.Recipes, nil
}

func providerOutputError(field, msg string) error {
	return &types.ValidationError{Field: field, Message: msg, Source: types.SourceProvider}
}
