package normalize

import (
	"fmt"
	"strings"

	"github.com/pageza/smartfridge/internal/model"
)

// DefaultQuantity is assigned to every parsed ingredient
const DefaultQuantity = "1"

// ParseRecipe recovers a recipe object from an LLM reply and normalizes it
func ParseRecipe(raw string) (*model.ParsedRecipe, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	return Recipe(obj), nil
}

// Recipe normalizes a decoded recipe object. It accepts the "recipe name"
// alias, flattens nested ingredient groups, cleans names and classifies
// seasonings. It never fails; missing fields come back empty.
func Recipe(obj map[string]any) *model.ParsedRecipe {
	nameVal, ok := obj["name"]
	if !ok {
		nameVal = obj["recipe name"]
	}

	return &model.ParsedRecipe{
		Name:         strings.TrimSpace(scalarString(nameVal)),
		Cuisine:      model.ParseCuisine(scalarString(obj["cuisine"])),
		Ingredients:  Ingredients(obj["ingredients"]),
		Instructions: Instructions(obj["instructions"]),
	}
}

// Ingredients normalizes the raw "ingredients" value of a recipe object
func Ingredients(v any) []model.Ingredient {
	items, ok := v.([]any)
	if !ok {
		return []model.Ingredient{}
	}

	out := make([]model.Ingredient, 0, len(items))
	for _, item := range flatten(items) {
		var rawName string
		var flag any
		switch t := item.(type) {
		case string:
			rawName = t
		case map[string]any:
			rawName = scalarString(t["name"])
			flag = t["isSeasoning"]
		default:
			continue
		}

		name := CleanIngredientName(rawName)
		if name == "" || IsCategoryHeader(name) {
			continue
		}

		out = append(out, model.Ingredient{
			Name:        name,
			Quantity:    DefaultQuantity,
			IsSeasoning: truthy(flag) || IsSeasoning(name),
		})
	}
	return out
}

// flatten splices the members of nested {"ingredients": [...]} groups into
// the top level list.
func flatten(items []any) []any {
	flat := make([]any, 0, len(items))
	for _, item := range items {
		if group, ok := item.(map[string]any); ok {
			if nested, ok := group["ingredients"].([]any); ok {
				flat = append(flat, nested...)
				continue
			}
		}
		flat = append(flat, item)
	}
	return flat
}

// Instructions accepts either a list of steps or one newline separated string
func Instructions(v any) []string {
	var lines []string
	switch t := v.(type) {
	case string:
		lines = strings.Split(t, "\n")
	case []any:
		for _, step := range t {
			lines = append(lines, scalarString(step))
		}
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// StripStepNumber removes leading step numbering such as "3. " from an instruction
func StripStepNumber(step string) string {
	return strings.TrimSpace(strings.TrimLeft(step, "0123456789. "))
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}
