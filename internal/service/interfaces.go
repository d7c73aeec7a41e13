package service

import (
	"context"

	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/model"
)

// AIServiceInterface is what the HTTP handlers and the MCP server need
type AIServiceInterface interface {
	SuggestSubstitutions(ctx context.Context, req model.SubstitutionRequest) ([]model.Substitution, error)
	ParseRecipe(ctx context.Context, text string) (*model.ParsedRecipe, error)
	Health(ctx context.Context) Health
	RecentCalls(ctx context.Context, limit int) ([]model.LLMCall, error)
}

// DraftStore keeps parsed recipes while the user edits them
type DraftStore interface {
	SaveDraft(ctx context.Context, draft *model.Draft) error
	GetDraft(ctx context.Context, id string) (*model.Draft, error)
	UpdateDraft(ctx context.Context, draft *model.Draft) error
	DeleteDraft(ctx context.Context, id string) error
}

// RecipeBook is the part of the backend the Submitter writes to
type RecipeBook interface {
	RecipeNames(ctx context.Context) ([]string, error)
	AddRecipe(ctx context.Context, r backend.NewRecipe) error
}

var (
	_ AIServiceInterface = (*AIService)(nil)
	_ DraftStore         = (*RedisDraftStore)(nil)
	_ DraftStore         = (*MemoryDraftStore)(nil)
	_ RecipeBook         = (*backend.Client)(nil)
)
