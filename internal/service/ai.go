package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pageza/smartfridge/internal/llm"
	"github.com/pageza/smartfridge/internal/model"
	"github.com/pageza/smartfridge/internal/normalize"
	"github.com/pageza/smartfridge/internal/prompt"
)

// AIOptions tunes how AIService talks to the model
type AIOptions struct {
	MaxTokens      int
	FuzzyThreshold float64
}

// AIService turns free text into recipes and suggests substitutes from the fridge
type AIService struct {
	provider llm.Provider
	prompts  *prompt.Store
	audit    *AuditLog
	logger   *slog.Logger
	opts     AIOptions
}

// NewAIService creates an AIService. audit may be nil.
func NewAIService(provider llm.Provider, prompts *prompt.Store, audit *AuditLog, logger *slog.Logger, opts AIOptions) *AIService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AIService{
		provider: provider,
		prompts:  prompts,
		audit:    audit,
		logger:   logger.With("component", "ai"),
		opts:     opts,
	}
}

// Health describes the configured provider
type Health struct {
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Available bool   `json:"llm_available"`
}

// Health reports which provider is in use and whether it answers
func (s *AIService) Health(ctx context.Context) Health {
	return Health{
		Provider:  s.provider.Name(),
		Model:     s.provider.Model(),
		Available: s.provider.Available(ctx),
	}
}

// SuggestSubstitutions asks the model which fridge items could replace
// req.Ingredient. A failed call or a reply that cannot be read yields an
// empty list.
func (s *AIService) SuggestSubstitutions(ctx context.Context, req model.SubstitutionRequest) ([]model.Substitution, error) {
	req.Ingredient = strings.TrimSpace(req.Ingredient)
	if req.Ingredient == "" {
		return nil, ErrMissingIngredient
	}
	if strings.TrimSpace(req.Cuisine) == "" {
		req.Cuisine = string(model.CuisineOther)
	}
	if !s.provider.Available(ctx) {
		return nil, ErrLLMUnavailable
	}

	text, err := s.prompts.Render(prompt.Substitutions, prompt.NewSubstitutionData(req))
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, model.OperationSubstitutions, text)
	if err != nil {
		return []model.Substitution{}, nil
	}

	subs, err := normalize.FilterSubstitutions(raw, req.FridgeSupplies, normalize.FilterOptions{
		FuzzyThreshold: s.opts.FuzzyThreshold,
	})
	if err != nil {
		s.logger.Warn("discarding unreadable substitution reply", "ingredient", req.Ingredient, "error", err)
		return []model.Substitution{}, nil
	}

	s.logger.Info("substitutions suggested", "ingredient", req.Ingredient, "count", len(subs))
	return subs, nil
}

// ParseRecipe extracts a structured recipe from free text. A failed model
// call is reported as ErrUnparseable, the same as an unreadable reply.
func (s *AIService) ParseRecipe(ctx context.Context, text string) (*model.ParsedRecipe, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyRecipeText
	}
	if !s.provider.Available(ctx) {
		return nil, ErrLLMUnavailable
	}

	rendered, err := s.prompts.Render(prompt.ParseRecipe, prompt.NewParseRecipeData(text))
	if err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, model.OperationParseRecipe, rendered)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	recipe, err := normalize.ParseRecipe(raw)
	if err != nil {
		s.logger.Warn("unparseable recipe reply", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	s.logger.Info("recipe parsed",
		"name", recipe.Name,
		"cuisine", recipe.Cuisine,
		"ingredients", len(recipe.Ingredients),
		"steps", len(recipe.Instructions),
	)
	return recipe, nil
}

// RecentCalls returns the latest audited model calls, newest first
func (s *AIService) RecentCalls(ctx context.Context, limit int) ([]model.LLMCall, error) {
	return s.audit.Recent(ctx, limit)
}

// generate runs one JSON-mode completion and records it in the audit log
func (s *AIService) generate(ctx context.Context, operation, text string) (string, error) {
	start := time.Now()
	raw, err := s.provider.Generate(ctx, text, llm.GenerateOptions{
		JSON:      true,
		MaxTokens: s.opts.MaxTokens,
	})
	call := &model.LLMCall{
		Operation:   operation,
		Provider:    s.provider.Name(),
		Model:       s.provider.Model(),
		PromptChars: len(text),
		Response:    raw,
		Success:     err == nil,
		DurationMS:  time.Since(start).Milliseconds(),
	}
	if err != nil {
		call.Error = err.Error()
	}
	s.audit.Record(ctx, call)

	if err != nil {
		s.logger.Error("LLM call failed", "operation", operation, "provider", call.Provider, "error", err)
		return "", fmt.Errorf("%s call failed: %w", operation, err)
	}
	s.logger.Debug("raw LLM response", "operation", operation, "response", raw)
	return raw, nil
}
