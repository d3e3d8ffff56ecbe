package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/recipe-suggester/backend/internal/service"
	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// RecipeHandler handles recipe suggestion requests
type RecipeHandler struct {
	suggester service.RecipeSuggester
	logger    zerolog.Logger
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(suggester service.RecipeSuggester, logger zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		suggester: suggester,
		logger:    logger,
	}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, extra ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.POST("/suggest", append(extra, h.Suggest)...)
	}
}

// Suggest handles POST /api/recipes/suggest
func (h *RecipeHandler) Suggest(c *gin.Context) {
	var req types.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, &types.ValidationError{
			Field:   "ingredients",
			Message: err.Error(),
			Source:  types.SourceRequest,
		})
		return
	}

	h.logger.Info().Msgf("Request received with ingredients: %v", req.Ingredients)

	recipes, err := h.suggester.Suggest(c.Request.Context(), req.Ingredients)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info().Msgf("Recipes suggested: %+v", recipes)

	c.JSON(http.StatusOK, recipes)
}
