// Package prompt renders the prompts sent to the language model. Built-in
// templates are embedded in the binary; a directory of <name>.tmpl files can
// override them and is reloaded whenever a file in it changes.
package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/pageza/smartfridge/internal/model"
)

// Template names
const (
	ParseRecipe   = "parse_recipe"
	Substitutions = "substitutions"
)

const (
	maxFridgeItems     = 20
	maxOtherIngredient = 10
	emptyFridge        = "EMPTY FRIDGE"
	templateExt        = ".tmpl"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// ErrUnknownTemplate is returned when rendering a template that does not exist
var ErrUnknownTemplate = errors.New("unknown prompt template")

// Store holds the active prompt templates
type Store struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	dir       string
	logger    *slog.Logger
}

// NewStore loads the built-in templates and then any overrides found in dir.
// An empty dir disables overrides.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{dir: dir, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the template set from the embedded files and the override dir.
// On error the previous set stays active.
func (s *Store) Reload() error {
	set := make(map[string]*template.Template)

	entries, err := fs.ReadDir(builtin, "templates")
	if err != nil {
		return fmt.Errorf("failed to read built-in templates: %w", err)
	}
	for _, e := range entries {
		data, err := fs.ReadFile(builtin, "templates/"+e.Name())
		if err != nil {
			return fmt.Errorf("failed to read built-in template %s: %w", e.Name(), err)
		}
		if err := addTemplate(set, e.Name(), data); err != nil {
			return err
		}
	}

	if s.dir != "" {
		overrides, err := os.ReadDir(s.dir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read prompt dir %s: %w", s.dir, err)
		}
		for _, e := range overrides {
			if e.IsDir() || filepath.Ext(e.Name()) != templateExt {
				continue
			}
			data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
			if err != nil {
				return fmt.Errorf("failed to read prompt %s: %w", e.Name(), err)
			}
			if err := addTemplate(set, e.Name(), data); err != nil {
				return err
			}
		}
	}

	s.mu.Lock()
	s.templates = set
	s.mu.Unlock()
	return nil
}

func addTemplate(set map[string]*template.Template, file string, data []byte) error {
	name := strings.TrimSuffix(file, templateExt)
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse prompt %s: %w", file, err)
	}
	set[name] = tmpl
	return nil
}

// Render executes the named template with data
func (s *Store) Render(name string, data any) (string, error) {
	s.mu.RLock()
	tmpl, ok := s.templates[name]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// ParseRecipeData feeds the parse_recipe template
type ParseRecipeData struct {
	RecipeText     string
	CuisineChoices string
}

// NewParseRecipeData builds template data for recipe text
func NewParseRecipeData(text string) ParseRecipeData {
	names := make([]string, 0, len(model.Cuisines()))
	for _, c := range model.Cuisines() {
		if c == model.CuisineOther {
			names = append(names, string(c))
			continue
		}
		names = append(names, c.DisplayName())
	}
	return ParseRecipeData{
		RecipeText:     text,
		CuisineChoices: strings.Join(names, "/"),
	}
}

// SubstitutionData feeds the substitutions template
type SubstitutionData struct {
	Ingredient       string
	Cuisine          string
	FridgeList       string
	OtherIngredients string
}

// NewSubstitutionData builds template data from a request. Only the first 20
// fridge items and the first 10 other ingredients are included.
func NewSubstitutionData(req model.SubstitutionRequest) SubstitutionData {
	fridge := emptyFridge
	if len(req.FridgeSupplies) > 0 {
		fridge = strings.Join(head(req.FridgeSupplies, maxFridgeItems), ", ")
	}
	return SubstitutionData{
		Ingredient:       req.Ingredient,
		Cuisine:          req.Cuisine,
		FridgeList:       fridge,
		OtherIngredients: strings.Join(head(req.RecipeIngredients, maxOtherIngredient), ", "),
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
