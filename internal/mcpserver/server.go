// Package mcpserver exposes the recipe parser and the substitution helper as
// MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pageza/smartfridge/internal/model"
	"github.com/pageza/smartfridge/internal/service"
)

// FridgeSource supplies the current fridge contents when a caller omits them
type FridgeSource interface {
	FridgeNames(ctx context.Context) ([]string, error)
}

// Server wraps the MCP server with the SmartFridge tools.
type Server struct {
	mcp    *server.MCPServer
	ai     service.AIServiceInterface
	fridge FridgeSource
}

// New creates a new MCP server with all tools registered. fridge may be nil.
func New(ai service.AIServiceInterface, fridge FridgeSource, version string) *Server {
	s := &Server{ai: ai, fridge: fridge}

	s.mcp = server.NewMCPServer(
		"SmartFridge",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("parse_recipe",
		mcp.WithDescription("Extract a structured recipe (name, cuisine, ingredients with seasoning flags, steps) from free text."),
		mcp.WithString("recipe_text", mcp.Required(), mcp.Description("The recipe as pasted by the user")),
	), s.parseRecipe)

	s.mcp.AddTool(mcp.NewTool("suggest_substitutions",
		mcp.WithDescription("Suggest up to three fridge items that can replace a missing ingredient. "+
			"Only items present in the fridge are ever returned."),
		mcp.WithString("ingredient", mcp.Required(), mcp.Description("The missing ingredient")),
		mcp.WithString("cuisine", mcp.Description("Cuisine of the recipe, e.g. ITALIAN (default OTHER)")),
		mcp.WithArray("recipe_ingredients",
			mcp.Description("Other ingredients of the recipe"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithArray("fridge_supplies",
			mcp.Description("Fridge contents; fetched from the backend when omitted"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.suggestSubstitutions)

	s.mcp.AddTool(mcp.NewTool("list_cuisines",
		mcp.WithDescription("List the cuisine tags a parsed recipe can carry."),
	), s.listCuisines)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) parseRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("recipe_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recipe, err := s.ai.ParseRecipe(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(recipe)
}

func (s *Server) suggestSubstitutions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ingredient, err := req.RequireString("ingredient")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sr := model.SubstitutionRequest{
		Ingredient:        ingredient,
		Cuisine:           req.GetString("cuisine", string(model.CuisineOther)),
		RecipeIngredients: req.GetStringSlice("recipe_ingredients", nil),
		FridgeSupplies:    req.GetStringSlice("fridge_supplies", nil),
	}

	if len(sr.FridgeSupplies) == 0 && s.fridge != nil {
		names, err := s.fridge.FridgeNames(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("could not read fridge: %v", err)), nil
		}
		sr.FridgeSupplies = names
	}

	subs, err := s.ai.SuggestSubstitutions(ctx, sr)
	if errors.Is(err, service.ErrLLMUnavailable) {
		return mcp.NewToolResultError("LLM service unavailable"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"substitutes": subs})
}

func (s *Server) listCuisines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type cuisine struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	}
	out := make([]cuisine, 0, len(model.Cuisines()))
	for _, c := range model.Cuisines() {
		out = append(out, cuisine{Name: string(c), DisplayName: c.DisplayName()})
	}
	return jsonResult(out)
}
