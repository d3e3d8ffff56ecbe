package service

import (
	"strings"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// SystemInstruction is the fixed part of every provider instruction
const SystemInstruction = `You are a helpful Recipe Suggester AI.
Given a list of ingredients provided by the user, you will suggest two recipes that can be made using only those ingredients.`

// UserPrompt is the user turn sent with every request
const UserPrompt = "Suggest a recipe"

// jsonOutputInstruction is appended for providers without native schema enforcement
const jsonOutputInstruction = `Respond only with a JSON object of the form:
{"recipes": [{"name": "...", "description": "...", "category": "...", "ingredients": ["..."], "steps": ["..."]}]}
Do not include any text outside the JSON object.`

// IngredientContext renders the per-request context sentence
func IngredientContext(sc types.SuggestionContext) string {
	return "The ingredients are " + strings.Join(sc.Ingredients, ", ")
}

// BuildInstructions combines the fixed instruction with the request context
func BuildInstructions(sc types.SuggestionContext) string {
	return SystemInstruction + "\n\n" + IngredientContext(sc)
}

// prepare builds and validates the context for one invocation
func prepare(ingredients []string) (types.SuggestionContext, error) {
	sc := types.NewSuggestionContext(ingredients)
	if err := sc.Validate(); err != nil {
		return types.SuggestionContext{}, err
	}
	return sc, nil
}
