package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/backend/backendtest"
)

func TestFridgeRoundTrip(t *testing.T) {
	srv := backendtest.NewServer(t, "milk", "eggs")
	c := backend.NewClient(srv.APIURL(), 5*time.Second)
	ctx := context.Background()

	require.NoError(t, c.AddToFridge(ctx, "bell pepper", 3))
	require.NoError(t, c.SetItemCount(ctx, "milk", 2))
	require.NoError(t, c.RemoveFromFridge(ctx, "eggs"))

	supplies, err := c.Fridge(ctx)
	require.NoError(t, err)
	require.Len(t, supplies, 2)
	assert.Equal(t, backend.Supply{Name: "milk", Quantity: 2, SortOrder: 0}, supplies[0])
	assert.Equal(t, "bell pepper", supplies[1].Name)
	assert.Equal(t, 3, supplies[1].Quantity)

	require.NoError(t, c.ReorderFridge(ctx, []string{"bell pepper", "milk"}))
	names, err := c.FridgeNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bell pepper", "milk"}, names)
}

func TestAddToFridgeRejectsZeroCount(t *testing.T) {
	srv := backendtest.NewServer(t)
	c := backend.NewClient(srv.APIURL(), 5*time.Second)

	err := c.AddToFridge(context.Background(), "milk", 0)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Count must be at least 1", apiErr.Message)
}

func TestRecipes(t *testing.T) {
	srv := backendtest.NewServer(t, "pasta", "tomato")
	c := backend.NewClient(srv.APIURL(), 5*time.Second)
	ctx := context.Background()

	require.NoError(t, c.AddRecipe(ctx, backend.NewRecipe{
		Name:         "pasta al pomodoro",
		Ingredients:  []string{"pasta", "tomato"},
		Seasonings:   []string{"salt"},
		CuisineType:  "ITALIAN",
		Instructions: "Boil\nToss",
	}))
	require.NoError(t, c.AddRecipe(ctx, backend.NewRecipe{
		Name:        "omelette",
		Ingredients: []string{"eggs"},
		CuisineType: "FRENCH",
	}))

	byCuisine, err := c.RecipesByCuisine(ctx)
	require.NoError(t, err)
	assert.Len(t, byCuisine["ITALIAN"], 1)

	names, err := c.RecipeNames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"pasta al pomodoro", "omelette"}, names)

	details, err := c.Recipe(ctx, "pasta al pomodoro")
	require.NoError(t, err)
	assert.Equal(t, "ITALIAN", details.CuisineType)
	assert.Contains(t, details.Ingredients, "salt")

	made, err := c.Cookable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pasta al pomodoro"}, made)

	require.NoError(t, c.DeleteRecipe(ctx, "omelette"))
	_, err = c.Recipe(ctx, "omelette")
	assert.ErrorIs(t, err, backend.ErrNotFound)

	cuisines, err := c.Cuisines(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cuisines)
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := backend.NewClient(url, time.Second).Fridge(context.Background())
	assert.ErrorIs(t, err, backend.ErrUnreachable)
}

func TestSearchAndSubstitutionEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/recipes/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "spicy noodles", r.URL.Query().Get("query"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(backend.SearchResponse{Results: []backend.SearchResult{{RecipeName: "dan dan", Score: 0.9, MatchType: "semantic"}}})
	})
	mux.HandleFunc("POST /api/recipes/hybrid-search", func(w http.ResponseWriter, r *http.Request) {
		var req backend.HybridSearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"egg"}, req.Ingredients)
		_, _ = w.Write([]byte(`{"results":[],"warning":"Semantic search unavailable, showing exact matches only"}`))
	})
	mux.HandleFunc("GET /api/recipes/{name}/missing", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mapo tofu", r.PathValue("name"))
		_, _ = w.Write([]byte(`{"recipeName":"mapo tofu","missingIngredients":["tofu"],"totalRequired":4,"coveragePercent":75.0}`))
	})
	mux.HandleFunc("GET /api/recipes/{name}/substitutions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recipeName":"mapo tofu","substitutions":{"tofu":[{"originalIngredient":"tofu","substitute":"eggs","inFridge":true,"confidence":0.6,"reasoning":"protein"}]}}`))
	})
	mux.HandleFunc("GET /api/recipes/almost-cookable", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("maxMissing"))
		_, _ = w.Write([]byte(`{"recipes":{"mapo tofu":["tofu"]},"count":1,"maxMissing":2}`))
	})
	mux.HandleFunc("GET /api/ingredients/{name}/aliases", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ingredient":"scallion","canonical":"green onion","aliases":["spring onion"]}`))
	})
	mux.HandleFunc("POST /api/ingredients/{name}/aliases", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "scallion", body["alias"])
		_, _ = w.Write([]byte(`{"message":"Alias added successfully"}`))
	})
	mux.HandleFunc("GET /api/ingredients/{name}/resolve", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"original":"scallion","canonical":"green onion","resolved":true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := backend.NewClient(srv.URL+"/api/", 5*time.Second)
	ctx := context.Background()

	res, err := c.Search(ctx, "spicy noodles", 5)
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "dan dan", res.Results[0].RecipeName)

	hybrid, err := c.HybridSearch(ctx, backend.HybridSearchRequest{Ingredients: []string{"egg"}})
	require.NoError(t, err)
	assert.NotEmpty(t, hybrid.Warning)

	missing, err := c.MissingIngredients(ctx, "mapo tofu")
	require.NoError(t, err)
	assert.Equal(t, 75.0, missing.CoveragePercent)

	subs, err := c.RecipeSubstitutions(ctx, "mapo tofu")
	require.NoError(t, err)
	assert.Equal(t, "eggs", subs.Substitutions["tofu"][0].Substitute)

	almost, err := c.AlmostCookable(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, almost.Count)

	aliases, err := c.Aliases(ctx, "scallion")
	require.NoError(t, err)
	assert.Equal(t, "green onion", aliases.Canonical)

	require.NoError(t, c.AddAlias(ctx, "green onion", "scallion"))

	resolved, err := c.Resolve(ctx, "scallion")
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
}
