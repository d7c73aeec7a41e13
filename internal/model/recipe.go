package model

import (
	"strings"
	"time"
)

// Cuisine is one of the fixed cuisine tags the backend understands
type Cuisine string

const (
	CuisineChinese       Cuisine = "CHINESE"
	CuisineJapanese      Cuisine = "JAPANESE"
	CuisineItalian       Cuisine = "ITALIAN"
	CuisineMexican       Cuisine = "MEXICAN"
	CuisineIndian        Cuisine = "INDIAN"
	CuisineThai          Cuisine = "THAI"
	CuisineKorean        Cuisine = "KOREAN"
	CuisineFrench        Cuisine = "FRENCH"
	CuisineAmerican      Cuisine = "AMERICAN"
	CuisineMediterranean Cuisine = "MEDITERRANEAN"
	CuisineMiddleEastern Cuisine = "MIDDLE_EASTERN"
	CuisineOther         Cuisine = "OTHER"
)

var cuisineDisplayNames = map[Cuisine]string{
	CuisineChinese:       "Chinese",
	CuisineJapanese:      "Japanese",
	CuisineItalian:       "Italian",
	CuisineMexican:       "Mexican",
	CuisineIndian:        "Indian",
	CuisineThai:          "Thai",
	CuisineKorean:        "Korean",
	CuisineFrench:        "French",
	CuisineAmerican:      "American",
	CuisineMediterranean: "Mediterranean",
	CuisineMiddleEastern: "Middle Eastern",
	CuisineOther:         "Other",
}

// Cuisines returns every known cuisine in display order
func Cuisines() []Cuisine {
	return []Cuisine{
		CuisineChinese, CuisineJapanese, CuisineItalian, CuisineMexican,
		CuisineIndian, CuisineThai, CuisineKorean, CuisineFrench,
		CuisineAmerican, CuisineMediterranean, CuisineMiddleEastern, CuisineOther,
	}
}

// ParseCuisine maps a free-form cuisine label onto the fixed set.
// Both tag ("MIDDLE_EASTERN") and display ("Middle Eastern") forms are accepted;
// anything unrecognized becomes OTHER.
func ParseCuisine(s string) Cuisine {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	c := Cuisine(key)
	if _, ok := cuisineDisplayNames[c]; ok {
		return c
	}
	return CuisineOther
}

// DisplayName returns the human readable cuisine name
func (c Cuisine) DisplayName() string {
	if name, ok := cuisineDisplayNames[c]; ok {
		return name
	}
	return cuisineDisplayNames[CuisineOther]
}

// Ingredient is a single normalized recipe ingredient
type Ingredient struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	IsSeasoning bool   `json:"isSeasoning"`
}

// ParsedRecipe is the structured form of a recipe extracted from free text
type ParsedRecipe struct {
	Name         string       `json:"name"`
	Cuisine      Cuisine      `json:"cuisine"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
}

// MainIngredients returns the names of all non-seasoning ingredients
func (r *ParsedRecipe) MainIngredients() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if !ing.IsSeasoning {
			names = append(names, ing.Name)
		}
	}
	return names
}

// Seasonings returns the names of all seasoning ingredients
func (r *ParsedRecipe) Seasonings() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.IsSeasoning {
			names = append(names, ing.Name)
		}
	}
	return names
}

// Draft is a parsed recipe kept around for editing before it is submitted
type Draft struct {
	ID        string       `json:"id"`
	Recipe    ParsedRecipe `json:"recipe"`
	Source    string       `json:"source,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
