package normalize

import (
	"regexp"
	"strings"
)

var (
	// unitPattern ends on a non-word rune instead of \b, which in RE2 only
	// knows ASCII letters; the boundary rune is captured and put back.
	unitPattern     = regexp.MustCompile(`(?i)\s*\d+\.?\d*\s*(g|kg|ml|l|cup|cups|tbsp|tsp|oz|lb|gram|liter|ounce|pound|tablespoon|teaspoon|piece|pieces|small|large|handful)s?([^\p{L}\p{N}_]|$)`)
	trailingNumber  = regexp.MustCompile(`\s*\d+\.?\d*/?\d*\s*$`)
	leadingNumber   = regexp.MustCompile(`^\d+\.?\d*\s*`)
	trailingComment = regexp.MustCompile(`\s*,.*$`)
)

// seasoningKeywords classify an ingredient as a seasoning when any of them
// appears in its lower-cased name.
var seasoningKeywords = []string{
	"salt", "pepper", "sugar", "oil", "sauce", "vinegar",
	"spice", "cumin", "paprika", "oregano", "basil", "thyme",
	"bay leaf", "star anise", "cinnamon", "clove", "ginger",
	"peppercorn", "fennel", "paste", "fermented", "peanut butter",
}

var categoryHeaders = map[string]struct{}{
	"spices":               {},
	"aromatics":            {},
	"spices and aromatics": {},
}

// CleanIngredientName strips quantities, units and trailing notes from an
// ingredient name, e.g. "2 cups flour, sifted" becomes "flour".
// The result is a fixed point: cleaning it again returns it unchanged.
func CleanIngredientName(raw string) string {
	name := strings.TrimSpace(raw)
	for {
		next := cleanOnce(name)
		if next == name {
			return name
		}
		name = next
	}
}

func cleanOnce(name string) string {
	name = unitPattern.ReplaceAllString(name, "${2}")
	name = trailingNumber.ReplaceAllString(name, "")
	name = leadingNumber.ReplaceAllString(name, "")
	name = trailingComment.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// IsCategoryHeader reports whether name is a section heading such as
// "Spices" that LLMs sometimes emit as an ingredient.
func IsCategoryHeader(name string) bool {
	_, ok := categoryHeaders[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// IsSeasoning reports whether name contains one of the seasoning keywords
func IsSeasoning(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range seasoningKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// truthy interprets the loosely typed isSeasoning flag an LLM may produce
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			return true
		}
	case float64:
		return t != 0
	}
	return false
}
