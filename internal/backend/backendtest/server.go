// Package backendtest provides an in-memory fake of the fridge/recipe
// backend for tests.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pageza/smartfridge/internal/backend"
)

// Server is a fake backend. Its fields may be inspected after requests
// complete; use Lock/Unlock when reading them concurrently.
type Server struct {
	*httptest.Server

	sync.Mutex
	Supplies []backend.Supply
	Recipes  map[string]backend.NewRecipe
}

// NewServer starts a fake backend with the given fridge items, one unit each.
// The returned server is closed when the test ends.
func NewServer(t testing.TB, fridge ...string) *Server {
	s := &Server{Recipes: map[string]backend.NewRecipe{}}
	for i, name := range fridge {
		s.Supplies = append(s.Supplies, backend.Supply{Name: name, Quantity: 1, SortOrder: i})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/fridge", s.getFridge)
	mux.HandleFunc("PUT /api/fridge", s.replaceFridge)
	mux.HandleFunc("PUT /api/fridge/order", s.reorder)
	mux.HandleFunc("POST /api/fridge/{item}", s.addItem)
	mux.HandleFunc("PUT /api/fridge/{item}", s.setCount)
	mux.HandleFunc("DELETE /api/fridge/{item}", s.removeItem)
	mux.HandleFunc("GET /api/recipes", s.listRecipes)
	mux.HandleFunc("POST /api/recipes", s.addRecipe)
	mux.HandleFunc("POST /api/recipes/hybrid-search", s.hybridSearch)
	mux.HandleFunc("GET /api/recipes/{name}", s.getRecipe)
	mux.HandleFunc("GET /api/recipes/{name}/substitutions", s.recipeSubstitutions)
	mux.HandleFunc("DELETE /api/recipes/{name}", s.deleteRecipe)
	mux.HandleFunc("GET /api/generate", s.cookable)
	mux.HandleFunc("GET /api/cuisines", s.cuisines)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// APIURL is the API root to hand to backend.NewClient
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// AddRecipe seeds a recipe
func (s *Server) AddRecipe(r backend.NewRecipe) {
	s.Lock()
	defer s.Unlock()
	s.Recipes[r.Name] = r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) getFridge(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()
	supplies := append([]backend.Supply{}, s.Supplies...)
	writeJSON(w, http.StatusOK, map[string]any{"supplies": supplies})
}

func (s *Server) replaceFridge(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Supplies []string `json:"supplies"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "supplies list is required"})
		return
	}
	s.Lock()
	defer s.Unlock()
	s.Supplies = nil
	for i, name := range body.Supplies {
		s.Supplies = append(s.Supplies, backend.Supply{Name: name, Quantity: 1, SortOrder: i})
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Fridge updated"})
}

func (s *Server) reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []string `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items list is required"})
		return
	}
	s.Lock()
	defer s.Unlock()
	order := map[string]int{}
	for i, name := range body.Items {
		order[name] = i
	}
	for i := range s.Supplies {
		s.Supplies[i].SortOrder = order[s.Supplies[i].Name]
	}
	sort.SliceStable(s.Supplies, func(i, j int) bool { return s.Supplies[i].SortOrder < s.Supplies[j].SortOrder })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order updated successfully"})
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	item := r.PathValue("item")
	count := 1
	if v := r.URL.Query().Get("count"); v != "" {
		count, _ = strconv.Atoi(v)
	}
	if count < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Count must be at least 1"})
		return
	}
	s.Lock()
	defer s.Unlock()
	for i := range s.Supplies {
		if s.Supplies[i].Name == item {
			s.Supplies[i].Quantity += count
			writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
			return
		}
	}
	s.Supplies = append(s.Supplies, backend.Supply{Name: item, Quantity: count, SortOrder: len(s.Supplies)})
	writeJSON(w, http.StatusOK, map[string]string{"message": "added"})
}

func (s *Server) setCount(w http.ResponseWriter, r *http.Request) {
	item := r.PathValue("item")
	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Count < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Count must be at least 1"})
		return
	}
	s.Lock()
	defer s.Unlock()
	for i := range s.Supplies {
		if s.Supplies[i].Name == item {
			s.Supplies[i].Quantity = body.Count
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	item := r.PathValue("item")
	s.Lock()
	defer s.Unlock()
	kept := s.Supplies[:0]
	for _, sup := range s.Supplies {
		if sup.Name != item {
			kept = append(kept, sup)
		}
	}
	s.Supplies = kept
	writeJSON(w, http.StatusOK, map[string]string{"message": "removed"})
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()
	out := map[string][]backend.RecipeSummary{}
	for _, rec := range s.Recipes {
		out[rec.CuisineType] = append(out[rec.CuisineType], backend.RecipeSummary{Name: rec.Name, Ingredients: rec.Ingredients})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addRecipe(w http.ResponseWriter, r *http.Request) {
	var rec backend.NewRecipe
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || strings.TrimSpace(rec.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Recipe name is required"})
		return
	}
	if len(rec.Ingredients) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Ingredients list is required"})
		return
	}
	s.Lock()
	defer s.Unlock()
	s.Recipes[rec.Name] = rec
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipe added successfully", "name": rec.Name})
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()
	rec, ok := s.Recipes[r.PathValue("name")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, backend.RecipeDetails{
		Name:         rec.Name,
		Ingredients:  append(append([]string{}, rec.Ingredients...), rec.Seasonings...),
		CuisineType:  rec.CuisineType,
		Instructions: rec.Instructions,
	})
}

// hybridSearch scores recipes by the share of requested ingredients they use.
// A query matching a recipe name counts as an exact hit.
func (s *Server) hybridSearch(w http.ResponseWriter, r *http.Request) {
	var req backend.HybridSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}
	s.Lock()
	defer s.Unlock()

	results := []backend.SearchResult{}
	for name, rec := range s.Recipes {
		if req.Query != "" && strings.Contains(name, strings.ToLower(req.Query)) {
			results = append(results, backend.SearchResult{RecipeName: name, Score: 1, CuisineType: rec.CuisineType, MatchType: "exact"})
			continue
		}
		if len(req.Ingredients) == 0 {
			continue
		}
		hits := 0
		for _, want := range req.Ingredients {
			for _, ing := range rec.Ingredients {
				if strings.EqualFold(want, ing) {
					hits++
					break
				}
			}
		}
		if hits > 0 {
			results = append(results, backend.SearchResult{
				RecipeName:  name,
				Score:       float64(hits) / float64(len(req.Ingredients)),
				CuisineType: rec.CuisineType,
				MatchType:   "ingredient",
			})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].RecipeName < results[j].RecipeName
	})
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}
	writeJSON(w, http.StatusOK, backend.SearchResponse{Results: results})
}

// recipeSubstitutions offers every fridge item for each missing ingredient
func (s *Server) recipeSubstitutions(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()
	rec, ok := s.Recipes[r.PathValue("name")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	have := map[string]bool{}
	for _, sup := range s.Supplies {
		have[strings.ToLower(sup.Name)] = true
	}
	out := backend.RecipeSubstitutions{RecipeName: rec.Name, Substitutions: map[string][]backend.SubstitutionSuggestion{}}
	for _, ing := range rec.Ingredients {
		if have[strings.ToLower(ing)] {
			continue
		}
		suggestions := []backend.SubstitutionSuggestion{}
		for _, sup := range s.Supplies {
			suggestions = append(suggestions, backend.SubstitutionSuggestion{
				OriginalIngredient: ing,
				Substitute:         sup.Name,
				InFridge:           true,
				Confidence:         0.5,
				Reasoning:          "in the fridge",
			})
		}
		out.Substitutions[ing] = suggestions
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()
	delete(s.Recipes, r.PathValue("name"))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recipe deleted successfully"})
}

// cookable returns recipes whose main ingredients are all in the fridge
func (s *Server) cookable(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()
	have := map[string]bool{}
	for _, sup := range s.Supplies {
		have[strings.ToLower(sup.Name)] = true
	}
	made := []string{}
	for name, rec := range s.Recipes {
		ok := true
		for _, ing := range rec.Ingredients {
			if !have[strings.ToLower(ing)] {
				ok = false
				break
			}
		}
		if ok {
			made = append(made, name)
		}
	}
	sort.Strings(made)
	writeJSON(w, http.StatusOK, map[string][]string{"made": made})
}

func (s *Server) cuisines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []backend.Cuisine{
		{Name: "ITALIAN", DisplayName: "Italian"},
		{Name: "OTHER", DisplayName: "Other"},
	})
}
