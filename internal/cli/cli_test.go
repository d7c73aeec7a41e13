package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/backend/backendtest"
	"github.com/pageza/smartfridge/internal/model"
	"github.com/pageza/smartfridge/internal/service"
)

type fakeAI struct {
	recipe  *model.ParsedRecipe
	subs    []model.Substitution
	err     error
	lastReq model.SubstitutionRequest
	text    string
}

func (f *fakeAI) SuggestSubstitutions(_ context.Context, req model.SubstitutionRequest) ([]model.Substitution, error) {
	f.lastReq = req
	return f.subs, f.err
}

func (f *fakeAI) ParseRecipe(_ context.Context, text string) (*model.ParsedRecipe, error) {
	f.text = text
	return f.recipe, f.err
}

func (f *fakeAI) Health(context.Context) service.Health { return service.Health{} }

func (f *fakeAI) RecentCalls(context.Context, int) ([]model.LLMCall, error) { return nil, nil }

func newDeps(srv *backendtest.Server, ai *fakeAI) *Deps {
	client := backend.NewClient(srv.APIURL(), 0)
	return &Deps{
		Backend:   client,
		AI:        ai,
		Submitter: service.NewSubmitter(client, slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

func run(t *testing.T, deps *Deps, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(context.Background(), append([]string{"smartfridge"}, args...), &out, &errOut, deps)
	return out.String(), errOut.String(), code
}

func TestFridgeCommands(t *testing.T) {
	srv := backendtest.NewServer(t, "milk")
	deps := newDeps(srv, &fakeAI{})

	out, _, code := run(t, deps, "fridge", "add", "--count", "3", "bell", "pepper")
	require.Equal(t, 0, code)
	assert.Equal(t, "Added 3 x bell pepper\n", out)

	out, _, code = run(t, deps, "fridge", "count", "milk", "2")
	require.Equal(t, 0, code)
	assert.Equal(t, "milk: 2\n", out)

	out, _, code = run(t, deps, "fridge", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ITEM")
	assert.Regexp(t, `milk\s+2`, out)
	assert.Regexp(t, `bell pepper\s+3`, out)

	out, _, code = run(t, deps, "fridge", "remove", "milk")
	require.Equal(t, 0, code)
	assert.Equal(t, "Removed milk\n", out)

	_, errOut, code := run(t, deps, "fridge", "count", "milk", "zero")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "count must be a positive number")
}

func TestRecipeCommands(t *testing.T) {
	srv := backendtest.NewServer(t, "pasta", "tomato")
	srv.AddRecipe(backend.NewRecipe{Name: "pasta al pomodoro", Ingredients: []string{"pasta", "tomato"}, CuisineType: "ITALIAN", Instructions: "Boil pasta\nAdd sauce"})
	srv.AddRecipe(backend.NewRecipe{Name: "omelette", Ingredients: []string{"eggs"}, CuisineType: "FRENCH"})
	deps := newDeps(srv, &fakeAI{})

	out, _, code := run(t, deps, "recipes", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Italian\n  - pasta al pomodoro (pasta, tomato)")
	assert.Contains(t, out, "French\n  - omelette (eggs)")

	out, _, code = run(t, deps, "recipes", "list", "--cuisine", "italian")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "omelette")

	out, _, code = run(t, deps, "recipes", "show", "pasta", "al", "pomodoro")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "pasta al pomodoro [Italian]")
	assert.Contains(t, out, "  2. Add sauce")

	_, errOut, code := run(t, deps, "recipes", "show", "lasagne")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `no recipe named "lasagne"`)

	out, _, code = run(t, deps, "cook")
	require.Equal(t, 0, code)
	assert.Equal(t, "You can cook:\n  - pasta al pomodoro\n", out)

	out, _, code = run(t, deps, "recipes", "delete", "omelette")
	require.Equal(t, 0, code)
	assert.Equal(t, "Deleted omelette\n", out)

	out, _, code = run(t, deps, "cuisines")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Italian")
}

func TestRecipeSearchAndSubstitutions(t *testing.T) {
	srv := backendtest.NewServer(t, "pasta", "tomato")
	srv.AddRecipe(backend.NewRecipe{Name: "pasta al pomodoro", Ingredients: []string{"pasta", "tomato"}, CuisineType: "ITALIAN"})
	srv.AddRecipe(backend.NewRecipe{Name: "omelette", Ingredients: []string{"eggs"}, CuisineType: "FRENCH"})
	deps := newDeps(srv, &fakeAI{})

	out, _, code := run(t, deps, "recipes", "search", "--ingredients", "pasta, eggs")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "RECIPE")
	assert.Regexp(t, `omelette\s+0\.50\s+ingredient`, out)
	assert.Regexp(t, `pasta al pomodoro\s+0\.50\s+ingredient`, out)

	out, _, code = run(t, deps, "recipes", "search", "--ingredients", "rice", "omelette")
	require.Equal(t, 0, code)
	assert.Regexp(t, `omelette\s+1\.00\s+exact`, out)
	assert.NotContains(t, out, "pasta al pomodoro")

	_, errOut, code := run(t, deps, "recipes", "search")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "wrong number of arguments")

	out, _, code = run(t, deps, "recipes", "substitutions", "omelette")
	require.Equal(t, 0, code)
	assert.Equal(t, "eggs:\n  - pasta (50%)\n  - tomato (50%)\n", out)

	out, _, code = run(t, deps, "recipes", "substitutions", "pasta", "al", "pomodoro")
	require.Equal(t, 0, code)
	assert.Equal(t, "Nothing is missing for pasta al pomodoro.\n", out)

	_, errOut, code = run(t, deps, "recipes", "substitutions", "lasagne")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `no recipe named "lasagne"`)
}

func TestFridgeReplace(t *testing.T) {
	srv := backendtest.NewServer(t, "milk", "eggs")
	deps := newDeps(srv, &fakeAI{})

	out, _, code := run(t, deps, "fridge", "replace", "butter", "bell pepper")
	require.Equal(t, 0, code)
	assert.Equal(t, "Fridge now holds 2 items\n", out)

	srv.Lock()
	defer srv.Unlock()
	require.Len(t, srv.Supplies, 2)
	assert.Equal(t, "butter", srv.Supplies[0].Name)
	assert.Equal(t, "bell pepper", srv.Supplies[1].Name)
}

func TestParseCommand(t *testing.T) {
	srv := backendtest.NewServer(t, "bread")
	ai := &fakeAI{recipe: &model.ParsedRecipe{
		Name:         "Toast",
		Cuisine:      model.CuisineOther,
		Ingredients:  []model.Ingredient{{Name: "bread", Quantity: "1"}, {Name: "salt", Quantity: "1", IsSeasoning: true}},
		Instructions: []string{"1. Toast the bread"},
	}}
	deps := newDeps(srv, ai)

	file := filepath.Join(t.TempDir(), "toast.txt")
	require.NoError(t, os.WriteFile(file, []byte("Toast: bread, salt"), 0o600))

	out, _, code := run(t, deps, "parse", file)
	require.Equal(t, 0, code)
	assert.Equal(t, "Toast: bread, salt", ai.text)
	assert.Contains(t, out, "Toast [Other]")
	assert.Contains(t, out, "  - salt (seasoning)")
	assert.NotContains(t, out, "Saved")

	out, _, code = run(t, deps, "parse", "--save", file)
	require.Equal(t, 0, code)
	assert.Contains(t, out, `Saved "toast" to the recipe book.`)

	srv.Lock()
	stored := srv.Recipes["toast"]
	srv.Unlock()
	assert.Equal(t, "Toast the bread", stored.Instructions)

	_, errOut, code := run(t, deps, "parse", "--save", file)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "recipe already exists")
}

func TestSubstitutesCommand(t *testing.T) {
	srv := backendtest.NewServer(t, "greek yogurt", "milk")
	srv.AddRecipe(backend.NewRecipe{Name: "tacos", Ingredients: []string{"tortilla", "sour cream"}, CuisineType: "MEXICAN"})
	ai := &fakeAI{subs: []model.Substitution{{Ingredient: "greek yogurt", InFridge: true, Confidence: 0.85, Reasoning: "tangy"}}}
	deps := newDeps(srv, ai)

	out, _, code := run(t, deps, "substitutes", "--recipe", "tacos", "sour", "cream")
	require.Equal(t, 0, code)
	assert.Equal(t, "Instead of sour cream you could use:\n  - greek yogurt (85%): tangy\n", out)
	assert.Equal(t, "MEXICAN", ai.lastReq.Cuisine)
	assert.Equal(t, []string{"tortilla"}, ai.lastReq.RecipeIngredients)
	assert.Equal(t, []string{"greek yogurt", "milk"}, ai.lastReq.FridgeSupplies)

	ai.subs = nil
	out, _, code = run(t, deps, "substitutes", "saffron")
	require.Equal(t, 0, code)
	assert.Equal(t, "Nothing in your fridge can replace saffron.\n", out)
	assert.Equal(t, "OTHER", ai.lastReq.Cuisine)
}

func TestBackendUnreachableIsAWarning(t *testing.T) {
	srv := backendtest.NewServer(t)
	deps := newDeps(srv, &fakeAI{})
	srv.Close()

	_, errOut, code := run(t, deps, "fridge", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Warning: could not connect to the backend")
}

func TestLLMUnavailableIsAWarning(t *testing.T) {
	srv := backendtest.NewServer(t)
	deps := newDeps(srv, &fakeAI{err: service.ErrLLMUnavailable})

	_, errOut, code := run(t, deps, "substitutes", "butter")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "language model is not available")
}
