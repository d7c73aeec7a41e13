package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pageza/smartfridge/internal/model"
)

const (
	// DefaultConfidence is used when a suggestion carries no usable confidence
	DefaultConfidence = 0.5
	// DefaultReasoning is used when a suggestion carries no reasoning
	DefaultReasoning = "Suitable alternative"
	// MaxReasoningLength caps the reasoning text, in characters
	MaxReasoningLength = 200
	// MaxSubstitutions is the number of suggestions returned at most
	MaxSubstitutions = 3
)

// FilterOptions tunes FilterSubstitutions
type FilterOptions struct {
	// FuzzyThreshold enables snapping near-miss names onto fridge entries
	// when their similarity is at least this value. Zero keeps exact matching.
	FuzzyThreshold float64
}

// ClampConfidence bounds v to [0, 1]. NaN becomes DefaultConfidence.
func ClampConfidence(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultConfidence
	}
	return math.Max(0, math.Min(1, v))
}

// ParseConfidence reads a loosely typed confidence and clamps it
func ParseConfidence(v any) float64 {
	switch t := v.(type) {
	case float64:
		return ClampConfidence(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return DefaultConfidence
		}
		return ClampConfidence(f)
	default:
		return DefaultConfidence
	}
}

// FilterSubstitutions parses a {"substitutes": [...]} reply and keeps only
// suggestions that name an item from fridge. Results are sorted by
// confidence, highest first, and capped at MaxSubstitutions.
func FilterSubstitutions(raw string, fridge []string, opts FilterOptions) ([]model.Substitution, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	items, _ := obj["substitutes"].([]any)
	matcher := newFridgeMatcher(fridge, opts.FuzzyThreshold)

	out := make([]model.Substitution, 0, len(items))
	for _, item := range items {
		sub, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := strings.TrimSpace(scalarString(sub["ingredient"]))
		if name == "" {
			continue
		}

		name, ok = matcher.match(name)
		if !ok {
			continue
		}

		conf, ok := sub["confidence"]
		confidence := DefaultConfidence
		if ok {
			confidence = ParseConfidence(conf)
		}

		out = append(out, model.Substitution{
			Ingredient: name,
			InFridge:   true,
			Confidence: round2(confidence),
			Reasoning:  reasoning(sub["reasoning"]),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > MaxSubstitutions {
		out = out[:MaxSubstitutions]
	}
	return out, nil
}

func reasoning(v any) string {
	text, ok := v.(string)
	if !ok {
		return DefaultReasoning
	}
	runes := []rune(text)
	if len(runes) > MaxReasoningLength {
		text = string(runes[:MaxReasoningLength])
	}
	return text
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type fridgeMatcher struct {
	exact     map[string]struct{}
	items     []string
	threshold float64
}

func newFridgeMatcher(fridge []string, threshold float64) *fridgeMatcher {
	m := &fridgeMatcher{
		exact:     make(map[string]struct{}, len(fridge)),
		threshold: threshold,
	}
	for _, item := range fridge {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		m.exact[strings.ToLower(item)] = struct{}{}
		m.items = append(m.items, item)
	}
	return m
}

// match returns the name to report for a suggestion, or false when the
// suggestion does not correspond to anything in the fridge.
func (m *fridgeMatcher) match(name string) (string, bool) {
	if _, ok := m.exact[strings.ToLower(name)]; ok {
		return name, true
	}
	if m.threshold <= 0 {
		return "", false
	}

	best, bestScore := "", 0.0
	lower := strings.ToLower(name)
	for _, item := range m.items {
		if score := Similarity(lower, strings.ToLower(item)); score > bestScore {
			best, bestScore = item, score
		}
	}
	if best == "" || bestScore < m.threshold {
		return "", false
	}
	return best, true
}

// Similarity is 1 - levenshtein(a, b) / max(len(a), len(b)), measured in runes
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
