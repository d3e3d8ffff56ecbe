package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// MockRecipeSuggester is a mock implementation of service.RecipeSuggester
type MockRecipeSuggester struct {
	mock.Mock
}

// Suggest mocks the Suggest method
func (m *MockRecipeSuggester) Suggest(ctx context.Context, ingredients []string) ([]types.Recipe, error) {
	args := m.Called(ctx, ingredients)
	if rf, ok := args.Get(0).(func(context.Context, []string) []types.Recipe); ok {
		return rf(ctx, ingredients), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

// MockLogSource is a mock implementation of api.LogSource
type MockLogSource struct {
	mock.Mock
}

// Tail mocks the Tail method
func (m *MockLogSource) Tail(n int) ([]string, error) {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
