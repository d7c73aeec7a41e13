package model

// Substitution is a fridge item suggested as a replacement for a missing ingredient
type Substitution struct {
	Ingredient string  `json:"ingredient"`
	InFridge   bool    `json:"inFridge"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// SubstitutionRequest carries everything needed to ask for substitutes
type SubstitutionRequest struct {
	Ingredient        string   `json:"ingredient"`
	Cuisine           string   `json:"cuisine"`
	RecipeIngredients []string `json:"recipeIngredients"`
	FridgeSupplies    []string `json:"fridgeSupplies"`
}
