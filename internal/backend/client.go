// Package backend is a typed client for the fridge and recipe backend.
// The backend owns fridge inventory, recipe storage and matching; this
// package only speaks its REST/JSON contract.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnreachable wraps connection failures
	ErrUnreachable = errors.New("backend unreachable")
	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("not found")
)

// APIError is returned for non-2xx responses other than 404
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// Client talks to the backend REST API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the "error" field out of a JSON error body, falling back to the raw text
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}

func segment(s string) string {
	return "/" + url.PathEscape(strings.TrimSpace(s))
}

// Fridge returns the fridge contents in display order
func (c *Client) Fridge(ctx context.Context) ([]Supply, error) {
	var out struct {
		Supplies []Supply `json:"supplies"`
	}
	if err := c.do(ctx, http.MethodGet, "/fridge", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Supplies, nil
}

// FridgeNames returns the names of everything in the fridge
func (c *Client) FridgeNames(ctx context.Context) ([]string, error) {
	supplies, err := c.Fridge(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(supplies))
	for _, s := range supplies {
		names = append(names, s.Name)
	}
	return names, nil
}

// AddToFridge adds count units of item
func (c *Client) AddToFridge(ctx context.Context, item string, count int) error {
	q := url.Values{"count": {strconv.Itoa(count)}}
	return c.do(ctx, http.MethodPost, "/fridge"+segment(item), q, nil, nil)
}

// SetItemCount sets the count of an item already in the fridge
func (c *Client) SetItemCount(ctx context.Context, item string, count int) error {
	return c.do(ctx, http.MethodPut, "/fridge"+segment(item), nil, map[string]int{"count": count}, nil)
}

// RemoveFromFridge removes an item entirely
func (c *Client) RemoveFromFridge(ctx context.Context, item string) error {
	return c.do(ctx, http.MethodDelete, "/fridge"+segment(item), nil, nil, nil)
}

// ReorderFridge persists a new display order
func (c *Client) ReorderFridge(ctx context.Context, items []string) error {
	return c.do(ctx, http.MethodPut, "/fridge/order", nil, map[string][]string{"items": items}, nil)
}

// ReplaceFridge replaces the fridge contents with supplies
func (c *Client) ReplaceFridge(ctx context.Context, supplies []string) error {
	return c.do(ctx, http.MethodPut, "/fridge", nil, map[string][]string{"supplies": supplies}, nil)
}

// RecipesByCuisine returns every recipe grouped by cuisine tag
func (c *Client) RecipesByCuisine(ctx context.Context) (map[string][]RecipeSummary, error) {
	out := map[string][]RecipeSummary{}
	if err := c.do(ctx, http.MethodGet, "/recipes", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecipeNames returns the names of all stored recipes
func (c *Client) RecipeNames(ctx context.Context) ([]string, error) {
	byCuisine, err := c.RecipesByCuisine(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, recipes := range byCuisine {
		for _, r := range recipes {
			names = append(names, r.Name)
		}
	}
	return names, nil
}

// Recipe fetches a recipe by name; unknown names yield ErrNotFound
func (c *Client) Recipe(ctx context.Context, name string) (*RecipeDetails, error) {
	var out RecipeDetails
	if err := c.do(ctx, http.MethodGet, "/recipes"+segment(name), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddRecipe stores a new recipe
func (c *Client) AddRecipe(ctx context.Context, r NewRecipe) error {
	return c.do(ctx, http.MethodPost, "/recipes", nil, r, nil)
}

// DeleteRecipe removes a recipe by name
func (c *Client) DeleteRecipe(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/recipes"+segment(name), nil, nil, nil)
}

// Cuisines lists the cuisine tags the backend knows
func (c *Client) Cuisines(ctx context.Context) ([]Cuisine, error) {
	var out []Cuisine
	if err := c.do(ctx, http.MethodGet, "/cuisines", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Cookable returns the recipes that can be made from the current fridge
func (c *Client) Cookable(ctx context.Context) ([]string, error) {
	var out struct {
		Made []string `json:"made"`
	}
	if err := c.do(ctx, http.MethodGet, "/generate", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Made, nil
}

// AlmostCookable returns recipes missing at most maxMissing ingredients
func (c *Client) AlmostCookable(ctx context.Context, maxMissing int) (*AlmostCookable, error) {
	var out AlmostCookable
	q := url.Values{"maxMissing": {strconv.Itoa(maxMissing)}}
	if err := c.do(ctx, http.MethodGet, "/recipes/almost-cookable", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search runs a semantic search over recipes
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	var out SearchResponse
	q := url.Values{"query": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if err := c.do(ctx, http.MethodGet, "/recipes/search", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HybridSearch combines exact ingredient matching with semantic search
func (c *Client) HybridSearch(ctx context.Context, req HybridSearchRequest) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.do(ctx, http.MethodPost, "/recipes/hybrid-search", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MissingIngredients reports what the fridge lacks for a recipe
func (c *Client) MissingIngredients(ctx context.Context, recipe string) (*MissingIngredients, error) {
	var out MissingIngredients
	if err := c.do(ctx, http.MethodGet, "/recipes"+segment(recipe)+"/missing", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecipeSubstitutions asks the backend for substitutes of a recipe's missing ingredients
func (c *Client) RecipeSubstitutions(ctx context.Context, recipe string) (*RecipeSubstitutions, error) {
	var out RecipeSubstitutions
	if err := c.do(ctx, http.MethodGet, "/recipes"+segment(recipe)+"/substitutions", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Aliases returns the aliases of an ingredient
func (c *Client) Aliases(ctx context.Context, name string) (*Aliases, error) {
	var out Aliases
	if err := c.do(ctx, http.MethodGet, "/ingredients"+segment(name)+"/aliases", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddAlias registers alias as another name for canonical
func (c *Client) AddAlias(ctx context.Context, canonical, alias string) error {
	return c.do(ctx, http.MethodPost, "/ingredients"+segment(canonical)+"/aliases", nil, map[string]string{"alias": alias}, nil)
}

// Resolve maps an ingredient name to its canonical form
func (c *Client) Resolve(ctx context.Context, name string) (*Resolution, error) {
	var out Resolution
	if err := c.do(ctx, http.MethodGet, "/ingredients"+segment(name)+"/resolve", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
