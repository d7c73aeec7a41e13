package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/smartfridge/internal/model"
	"github.com/pageza/smartfridge/internal/service"
)

// Messages returned to clients
const (
	msgMissingIngredient = "Missing ingredient parameter"
	msgRecipeRequired    = "Recipe text is required"
	msgUnavailable       = "LLM service unavailable"
	msgUnparseable       = "Failed to parse recipe. Please check the format."
	msgInvalidBody       = "invalid request body"
)

// AIHandler serves the model-backed endpoints
type AIHandler struct {
	ai     service.AIServiceInterface
	drafts service.DraftStore
	logger *slog.Logger
}

// NewAIHandler creates an AIHandler. drafts may be nil, in which case parsed
// recipes are not kept.
func NewAIHandler(ai service.AIServiceInterface, drafts service.DraftStore, logger *slog.Logger) *AIHandler {
	return &AIHandler{ai: ai, drafts: drafts, logger: logger}
}

// RegisterRoutes registers the AI routes on the given /ai group
func (h *AIHandler) RegisterRoutes(ai *gin.RouterGroup) {
	ai.POST("/substitutions", h.Substitutions)
	ai.POST("/parse-recipe", h.ParseRecipe)
	ai.GET("/calls", h.Calls)
}

// Substitutions suggests fridge items that can stand in for a missing ingredient
func (h *AIHandler) Substitutions(c *gin.Context) {
	var req model.SubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SubstitutionsResponse{Substitutes: []model.Substitution{}, Error: msgInvalidBody})
		return
	}

	subs, err := h.ai.SuggestSubstitutions(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, SubstitutionsResponse{Substitutes: subs})
	case errors.Is(err, service.ErrMissingIngredient):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingIngredient})
	case errors.Is(err, service.ErrLLMUnavailable):
		c.JSON(http.StatusServiceUnavailable, SubstitutionsResponse{Substitutes: []model.Substitution{}, Error: msgUnavailable})
	default:
		h.logger.Error("substitution request failed", "ingredient", req.Ingredient, "error", err)
		c.JSON(http.StatusInternalServerError, SubstitutionsResponse{Substitutes: []model.Substitution{}, Error: err.Error()})
	}
}

// ParseRecipe turns pasted recipe text into a structured recipe and keeps it as a draft
func (h *AIHandler) ParseRecipe(c *gin.Context) {
	var req ParseRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ParseRecipeResponse{Error: msgInvalidBody})
		return
	}

	recipe, err := h.ai.ParseRecipe(c.Request.Context(), req.RecipeText)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrEmptyRecipeText):
		c.JSON(http.StatusBadRequest, ParseRecipeResponse{Error: msgRecipeRequired})
		return
	case errors.Is(err, service.ErrLLMUnavailable):
		c.JSON(http.StatusServiceUnavailable, ParseRecipeResponse{Error: msgUnavailable})
		return
	case errors.Is(err, service.ErrUnparseable):
		c.JSON(http.StatusBadRequest, ParseRecipeResponse{Error: msgUnparseable})
		return
	default:
		h.logger.Error("recipe parsing failed", "error", err)
		c.JSON(http.StatusInternalServerError, ParseRecipeResponse{Error: err.Error()})
		return
	}

	resp := ParseRecipeResponse{Success: true, Recipe: recipe}
	if h.drafts != nil {
		draft := service.NewDraft(recipe, req.RecipeText)
		if err := h.drafts.SaveDraft(c.Request.Context(), draft); err != nil {
			h.logger.Warn("failed to save draft", "error", err)
		} else {
			resp.DraftID = draft.ID
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Calls lists recent LLM calls from the audit log
func (h *AIHandler) Calls(c *gin.Context) {
	limit := service.DefaultCallsLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	calls, err := h.ai.RecentCalls(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list LLM calls", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list calls"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calls": calls, "count": len(calls)})
}
