package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
)

// GeminiSuggester suggests recipes through Google's Gemini API
type GeminiSuggester struct {
	client *genai.Client
	model  string
}

// NewGeminiSuggester creates a new Gemini backend
func NewGeminiSuggester(ctx context.Context, apiKey, model, baseURL string) (*GeminiSuggester, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSuggester{client: client, model: model}, nil
}

// Name returns the provider name
func (s *GeminiSuggester) Name() string {
	return providerNameGemini
}

// Suggest issues one GenerateContent request with a response schema
func (s *GeminiSuggester) Suggest(ctx context.Context, ingredients []string) ([]types.Recipe, error) {
	sc, err := prepare(ingredients)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: BuildInstructions(sc)}},
		},
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema:   geminiRecipeSchema(),
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(UserPrompt), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &types.UpstreamError{Provider: providerNameGemini, StatusCode: apiErr.Code, Err: err}
		}
		return nil, &types.UpstreamError{Provider: providerNameGemini, Err: err}
	}

	text := geminiText(result)
	if text == "" {
		return nil, providerOutputError("candidates", "no text returned")
	}
	return DecodeRecipes(text)
}

// geminiText concatenates the text parts of the first candidate
func geminiText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// geminiRecipeSchema mirrors RecipeListSchema in Gemini's schema type
func geminiRecipeSchema() *genai.Schema {
	stringList := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recipes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":        {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"category":    {Type: genai.TypeString},
						"ingredients": stringList,
						"steps":       stringList,
					},
					Required: []string{"name", "ingredients", "steps"},
				},
			},
		},
		Required: []string{"recipes"},
	}
}
