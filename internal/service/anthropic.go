package service

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

const (
	providerNameAnthropic = "anthropic"
	anthropicMaxTokens    = 2048
)

// AnthropicSuggester suggests recipes through the Anthropic Messages API.
// The API has no schema-constrained output mode, so the JSON shape is
// requested in the system prompt and validated on return.
type AnthropicSuggester struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicSuggester creates a new Anthropic backend with SDK retries disabled
func NewAnthropicSuggester(apiKey, model, baseURL string) *AnthropicSuggester {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicSuggester{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

// Name returns the provider name
func (s *AnthropicSuggester) Name() string {
	return providerNameAnthropic
}

// Suggest issues one Messages request and validates the returned JSON
func (s *AnthropicSuggester) Suggest(ctx context.Context, ingredients []string) ([]types.Recipe, error) {
	sc, err := prepare(ingredients)
	if err != nil {
		return nil, err
	}

	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: BuildInstructions(sc) + "\n\n" + jsonOutputInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(UserPrompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, &types.UpstreamError{Provider: providerNameAnthropic, StatusCode: apiErr.StatusCode, Err: err}
		}
		return nil, &types.UpstreamError{Provider: providerNameAnthropic, Err: err}
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return nil, providerOutputError("content", "no text blocks returned")
	}

	return DecodeRecipes(b.String())
}
