package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/model"
)

func (r *runner) parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Turn a recipe text file into a structured recipe",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "save", Usage: "Add the parsed recipe to the recipe book"},
		},
		Action: r.parse,
	}
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func (r *runner) parse(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	text, err := readInput(cmd.Args().First(), os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read recipe: %w", err)
	}

	recipe, err := r.deps.AI.ParseRecipe(ctx, text)
	if err != nil {
		return err
	}
	printRecipe(r.out, recipe)

	if !cmd.Bool("save") {
		return nil
	}
	payload, err := r.deps.Submitter.Submit(ctx, recipe)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "\nSaved %q to the recipe book.\n", payload.Name)
	return nil
}

func printRecipe(w io.Writer, recipe *model.ParsedRecipe) {
	fmt.Fprintf(w, "%s [%s]\n\nIngredients:\n", recipe.Name, recipe.Cuisine.DisplayName())
	for _, ing := range recipe.Ingredients {
		tag := ""
		if ing.IsSeasoning {
			tag = " (seasoning)"
		}
		fmt.Fprintf(w, "  - %s%s\n", ing.Name, tag)
	}
	if len(recipe.Instructions) > 0 {
		fmt.Fprintln(w, "\nInstructions:")
		for _, step := range recipe.Instructions {
			fmt.Fprintf(w, "  %s\n", step)
		}
	}
}

func (r *runner) substitutesCommand() *cli.Command {
	return &cli.Command{
		Name:      "substitutes",
		Usage:     "Ask which fridge items could replace a missing ingredient",
		ArgsUsage: "<ingredient>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "recipe", Usage: "Recipe the ingredient belongs to, for context"},
			&cli.StringFlag{Name: "cuisine", Usage: "Cuisine when no recipe is given"},
		},
		Action: r.substitutes,
	}
}

func (r *runner) substitutes(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	req := model.SubstitutionRequest{
		Ingredient: itemArg(cmd),
		Cuisine:    string(model.ParseCuisine(cmd.String("cuisine"))),
	}

	if name := cmd.String("recipe"); name != "" {
		rec, err := r.deps.Backend.Recipe(ctx, name)
		if errors.Is(err, backend.ErrNotFound) {
			return fmt.Errorf("no recipe named %q", name)
		}
		if err != nil {
			return err
		}
		req.Cuisine = string(model.ParseCuisine(rec.CuisineType))
		for _, ing := range rec.Ingredients {
			if !strings.EqualFold(ing, req.Ingredient) {
				req.RecipeIngredients = append(req.RecipeIngredients, ing)
			}
		}
	}

	fridge, err := r.deps.Backend.FridgeNames(ctx)
	if err != nil {
		return err
	}
	req.FridgeSupplies = fridge

	subs, err := r.deps.AI.SuggestSubstitutions(ctx, req)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Fprintf(r.out, "Nothing in your fridge can replace %s.\n", req.Ingredient)
		return nil
	}

	fmt.Fprintf(r.out, "Instead of %s you could use:\n", req.Ingredient)
	for _, s := range subs {
		fmt.Fprintf(r.out, "  - %s (%.0f%%): %s\n", s.Ingredient, s.Confidence*100, s.Reasoning)
	}
	return nil
}
