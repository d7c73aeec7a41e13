package api

import (
	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/model"
)

// ParseRecipeRequest is the body of POST /ai/parse-recipe
type ParseRecipeRequest struct {
	RecipeText string `json:"recipeText"`
}

// ParseRecipeResponse is returned by POST /ai/parse-recipe
type ParseRecipeResponse struct {
	Success bool                `json:"success"`
	Recipe  *model.ParsedRecipe `json:"recipe,omitempty"`
	DraftID string              `json:"draftId,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// SubstitutionsResponse is returned by POST /ai/substitutions
type SubstitutionsResponse struct {
	Substitutes []model.Substitution `json:"substitutes"`
	Error       string               `json:"error,omitempty"`
}

// HealthResponse is returned by GET /health
// OllamaAvailable mirrors LLMAvailable under the key older UI clients read.
type HealthResponse struct {
	Status          string `json:"status"`
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	LLMAvailable    bool   `json:"llm_available"`
	OllamaAvailable bool   `json:"ollama_available"`
}

// SubmitResponse is returned when a draft is saved to the recipe book
type SubmitResponse struct {
	Success bool              `json:"success"`
	Recipe  backend.NewRecipe `json:"recipe"`
}
