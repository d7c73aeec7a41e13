package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/model"
	"github.com/pageza/smartfridge/internal/normalize"
)

// Submitter saves edited recipes into the backend recipe book
type Submitter struct {
	book   RecipeBook
	logger *slog.Logger
}

// NewSubmitter creates a Submitter writing to book
func NewSubmitter(book RecipeBook, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{book: book, logger: logger}
}

// BuildNewRecipe converts a parsed recipe into the backend payload.
// Names are lower-cased, blank ingredients dropped and numbered steps
// joined one per line.
func BuildNewRecipe(r *model.ParsedRecipe) (backend.NewRecipe, error) {
	name := strings.ToLower(strings.TrimSpace(r.Name))
	if name == "" {
		return backend.NewRecipe{}, ErrNameRequired
	}

	mains := lowerNames(r.MainIngredients())
	seasonings := lowerNames(r.Seasonings())
	if len(mains) == 0 {
		return backend.NewRecipe{}, ErrNoMainIngredients
	}

	steps := make([]string, 0, len(r.Instructions))
	for _, step := range r.Instructions {
		if s := normalize.StripStepNumber(step); s != "" {
			steps = append(steps, s)
		}
	}

	return backend.NewRecipe{
		Name:         name,
		Ingredients:  mains,
		Seasonings:   seasonings,
		CuisineType:  string(model.ParseCuisine(string(r.Cuisine))),
		Instructions: strings.Join(steps, "\n"),
	}, nil
}

// lowerNames lower-cases and trims names, dropping blanks
func lowerNames(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Submit validates r and adds it to the recipe book unless a recipe with
// the same name is already there.
func (s *Submitter) Submit(ctx context.Context, r *model.ParsedRecipe) (backend.NewRecipe, error) {
	payload, err := BuildNewRecipe(r)
	if err != nil {
		return backend.NewRecipe{}, err
	}

	existing, err := s.book.RecipeNames(ctx)
	if err != nil {
		return backend.NewRecipe{}, fmt.Errorf("failed to list recipes: %w", err)
	}
	for _, name := range existing {
		if strings.EqualFold(strings.TrimSpace(name), payload.Name) {
			return backend.NewRecipe{}, fmt.Errorf("%w: %s", ErrRecipeExists, payload.Name)
		}
	}

	if err := s.book.AddRecipe(ctx, payload); err != nil {
		return backend.NewRecipe{}, fmt.Errorf("failed to add recipe: %w", err)
	}

	s.logger.Info("recipe submitted", "name", payload.Name, "cuisine", payload.CuisineType, "ingredients", len(payload.Ingredients))
	return payload, nil
}
