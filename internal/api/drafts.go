package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/model"
	"github.com/pageza/smartfridge/internal/service"
)

// DraftHandler lets clients edit a parsed recipe and then save it
type DraftHandler struct {
	drafts    service.DraftStore
	submitter *service.Submitter
	logger    *slog.Logger
}

// NewDraftHandler creates a DraftHandler
func NewDraftHandler(drafts service.DraftStore, submitter *service.Submitter, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{drafts: drafts, submitter: submitter, logger: logger}
}

// RegisterRoutes registers the draft routes on the given /ai group
func (h *DraftHandler) RegisterRoutes(ai *gin.RouterGroup) {
	drafts := ai.Group("/drafts")
	{
		drafts.GET("/:id", h.Get)
		drafts.PUT("/:id", h.Update)
		drafts.DELETE("/:id", h.Delete)
		drafts.POST("/:id/submit", h.Submit)
	}
}

func (h *DraftHandler) draftError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}
	h.logger.Error("draft store failed", "id", c.Param("id"), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "draft store unavailable"})
}

// Get returns a draft
func (h *DraftHandler) Get(c *gin.Context) {
	draft, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Update replaces the recipe held by a draft with the edited version
func (h *DraftHandler) Update(c *gin.Context) {
	var recipe model.ParsedRecipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}
	recipe.Cuisine = model.ParseCuisine(string(recipe.Cuisine))

	ctx := c.Request.Context()
	draft, err := h.drafts.GetDraft(ctx, c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}

	draft.Recipe = recipe
	if err := h.drafts.UpdateDraft(ctx, draft); err != nil {
		h.draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Delete discards a draft
func (h *DraftHandler) Delete(c *gin.Context) {
	if err := h.drafts.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		h.draftError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Submit saves a draft to the recipe book and removes it
func (h *DraftHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	draft, err := h.drafts.GetDraft(ctx, c.Param("id"))
	if err != nil {
		h.draftError(c, err)
		return
	}

	payload, err := h.submitter.Submit(ctx, &draft.Recipe)
	var apiErr *backend.APIError
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrNoMainIngredients):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrRecipeExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, backend.ErrUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "recipe backend unreachable"})
		return
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Message})
		return
	default:
		h.logger.Error("draft submit failed", "id", draft.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.drafts.DeleteDraft(ctx, draft.ID); err != nil && !errors.Is(err, service.ErrDraftNotFound) {
		h.logger.Warn("failed to delete submitted draft", "id", draft.ID, "error", err)
	}
	c.JSON(http.StatusCreated, SubmitResponse{Success: true, Recipe: payload})
}
