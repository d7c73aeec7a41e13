package backend

// Supply is one fridge item with its count
type Supply struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	SortOrder int    `json:"sortOrder"`
}

// RecipeSummary is a recipe as listed under its cuisine
type RecipeSummary struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// RecipeDetails is the full stored recipe
type RecipeDetails struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	CuisineType  string   `json:"cuisineType"`
	Instructions string   `json:"instructions"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// NewRecipe is the payload for adding a recipe
type NewRecipe struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Seasonings   []string `json:"seasonings,omitempty"`
	CuisineType  string   `json:"cuisineType"`
	Instructions string   `json:"instructions"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// Cuisine is a cuisine tag with its display name
type Cuisine struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// SearchResult is a single semantic or exact search hit
type SearchResult struct {
	RecipeName  string  `json:"recipeName"`
	Score       float64 `json:"score"`
	CuisineType string  `json:"cuisineType"`
	MatchType   string  `json:"matchType"`
}

// SearchResponse wraps search hits and an optional degradation warning
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Warning string         `json:"warning,omitempty"`
}

// HybridSearchRequest combines ingredient matching with a free text query
type HybridSearchRequest struct {
	Ingredients []string `json:"ingredients,omitempty"`
	Query       string   `json:"query,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

// MissingIngredients describes what the fridge lacks for a recipe
type MissingIngredients struct {
	RecipeName         string   `json:"recipeName"`
	MissingIngredients []string `json:"missingIngredients"`
	TotalRequired      int      `json:"totalRequired"`
	CoveragePercent    float64  `json:"coveragePercent"`
}

// SubstitutionSuggestion is a backend-side substitute for a missing ingredient
type SubstitutionSuggestion struct {
	OriginalIngredient string  `json:"originalIngredient"`
	Substitute         string  `json:"substitute"`
	InFridge           bool    `json:"inFridge"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`
}

// RecipeSubstitutions maps each missing ingredient to its suggestions
type RecipeSubstitutions struct {
	RecipeName    string                              `json:"recipeName"`
	Substitutions map[string][]SubstitutionSuggestion `json:"substitutions"`
}

// AlmostCookable lists recipes missing at most MaxMissing ingredients
type AlmostCookable struct {
	Recipes    map[string][]string `json:"recipes"`
	Count      int                 `json:"count"`
	MaxMissing int                 `json:"maxMissing"`
}

// Aliases lists the known aliases of an ingredient
type Aliases struct {
	Ingredient string   `json:"ingredient"`
	Canonical  string   `json:"canonical"`
	Aliases    []string `json:"aliases"`
}

// Resolution is the canonical form of an ingredient name
type Resolution struct {
	Original  string `json:"original"`
	Canonical string `json:"canonical"`
	Resolved  bool   `json:"resolved"`
}
