package service

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

const providerNameOpenAI = "openai"

// OpenAISuggester suggests recipes through the OpenAI Chat Completions API
// using a strict JSON schema response format
type OpenAISuggester struct {
	client openai.Client
	model  string
}

// NewOpenAISuggester creates a new OpenAI backend. SDK retries are disabled;
// baseURL may be empty to use the public endpoint.
func NewOpenAISuggester(apiKey, model, baseURL string) *OpenAISuggester {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAISuggester{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Name returns the provider name
func (s *OpenAISuggester) Name() string {
	return providerNameOpenAI
}

// Suggest issues one chat completion request and validates its output
func (s *OpenAISuggester) Suggest(ctx context.Context, ingredients []string) ([]types.Recipe, error) {
	sc, err := prepare(ingredients)
	if err != nil {
		return nil, err
	}

	completion, err := s.client.Chat.Completions.New(ctx, s.buildParams(sc))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &types.UpstreamError{Provider: providerNameOpenAI, StatusCode: apiErr.StatusCode, Err: err}
		}
		return nil, &types.UpstreamError{Provider: providerNameOpenAI, Err: err}
	}

	if len(completion.Choices) == 0 {
		return nil, providerOutputError("choices", "no choices returned")
	}

	msg := completion.Choices[0].Message
	if msg.Refusal != "" {
		return nil, providerOutputError("refusal", msg.Refusal)
	}

	return DecodeRecipes(msg.Content)
}

// buildParams converts a suggestion context into chat completion params
func (s *OpenAISuggester) buildParams(sc types.SuggestionContext) openai.ChatCompletionNewParams {
	schema := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "recipe_suggestions",
		Description: openai.String("Recipes that can be made from the given ingredients"),
		Schema:      RecipeListSchema(),
		Strict:      openai.Bool(true),
	}

	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(BuildInstructions(sc)),
			openai.UserMessage(UserPrompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schema},
		},
	}
}
