package service

import "errors"

var (
	// ErrMissingIngredient is returned when a substitution request names no ingredient
	ErrMissingIngredient = errors.New("missing ingredient parameter")
	// ErrEmptyRecipeText is returned when there is no recipe text to parse
	ErrEmptyRecipeText = errors.New("recipe text is required")
	// ErrLLMUnavailable is returned when the provider cannot be reached
	ErrLLMUnavailable = errors.New("LLM service unavailable")
	// ErrUnparseable is returned when the model reply holds no usable recipe
	ErrUnparseable = errors.New("failed to parse recipe")

	// ErrDraftNotFound is returned for unknown or expired drafts
	ErrDraftNotFound = errors.New("draft not found")

	// ErrNameRequired is returned when submitting a recipe without a name
	ErrNameRequired = errors.New("recipe name is required")
	// ErrNoMainIngredients is returned when every ingredient is a seasoning
	ErrNoMainIngredients = errors.New("at least one main ingredient is required")
	// ErrRecipeExists is returned when the recipe book already has the name
	ErrRecipeExists = errors.New("recipe already exists")
)
