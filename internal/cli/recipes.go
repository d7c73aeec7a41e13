package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/pageza/smartfridge/internal/backend"
	"github.com/pageza/smartfridge/internal/model"
)

func (r *runner) recipesCommand() *cli.Command {
	return &cli.Command{
		Name:  "recipes",
		Usage: "Browse the recipe book",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recipes grouped by cuisine",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cuisine", Usage: "Only show this cuisine"},
				},
				Action: r.recipesList,
			},
			{
				Name:      "show",
				Usage:     "Show a recipe",
				ArgsUsage: "<name>",
				Action:    r.recipesShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete a recipe",
				ArgsUsage: "<name>",
				Action:    r.recipesDelete,
			},
			{
				Name:      "search",
				Usage:     "Semantic search over recipes, or hybrid search with --ingredients",
				ArgsUsage: "[query]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "Maximum results"},
					&cli.StringFlag{Name: "ingredients", Aliases: []string{"i"}, Usage: "Comma separated ingredients to match"},
				},
				Action: r.recipesSearch,
			},
			{
				Name:      "substitutions",
				Usage:     "Show backend substitutes for a recipe's missing ingredients",
				ArgsUsage: "<name>",
				Action:    r.recipesSubstitutions,
			},
			{
				Name:      "missing",
				Usage:     "Show which ingredients a recipe still needs",
				ArgsUsage: "<name>",
				Action:    r.recipesMissing,
			},
			{
				Name:  "almost",
				Usage: "Recipes you could cook with a few more ingredients",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "max-missing", Value: 2, Usage: "Allowed missing ingredients (1-5)"},
				},
				Action: r.recipesAlmost,
			},
		},
	}
}

func (r *runner) recipesList(ctx context.Context, cmd *cli.Command) error {
	byCuisine, err := r.deps.Backend.RecipesByCuisine(ctx)
	if err != nil {
		return err
	}

	filter := ""
	if c := cmd.String("cuisine"); c != "" {
		filter = string(model.ParseCuisine(c))
	}

	cuisines := make([]string, 0, len(byCuisine))
	for c := range byCuisine {
		if filter == "" || c == filter {
			cuisines = append(cuisines, c)
		}
	}
	sort.Strings(cuisines)

	if len(cuisines) == 0 {
		fmt.Fprintln(r.out, "No recipes found.")
		return nil
	}
	for _, c := range cuisines {
		fmt.Fprintf(r.out, "%s\n", model.Cuisine(c).DisplayName())
		recipes := byCuisine[c]
		sort.Slice(recipes, func(i, j int) bool { return recipes[i].Name < recipes[j].Name })
		for _, rec := range recipes {
			fmt.Fprintf(r.out, "  - %s (%s)\n", rec.Name, strings.Join(rec.Ingredients, ", "))
		}
	}
	return nil
}

func (r *runner) recipesShow(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	name := itemArg(cmd)
	rec, err := r.deps.Backend.Recipe(ctx, name)
	if errors.Is(err, backend.ErrNotFound) {
		return fmt.Errorf("no recipe named %q", name)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%s [%s]\n\nIngredients:\n", rec.Name, model.ParseCuisine(rec.CuisineType).DisplayName())
	for _, ing := range rec.Ingredients {
		fmt.Fprintf(r.out, "  - %s\n", ing)
	}
	if rec.Instructions != "" {
		fmt.Fprintln(r.out, "\nInstructions:")
		for i, step := range strings.Split(rec.Instructions, "\n") {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, step)
		}
	}
	return nil
}

func (r *runner) recipesDelete(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	name := itemArg(cmd)
	if err := r.deps.Backend.DeleteRecipe(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Deleted %s\n", name)
	return nil
}

func (r *runner) recipesSearch(ctx context.Context, cmd *cli.Command) error {
	ingredients := splitList(cmd.String("ingredients"))
	if len(ingredients) == 0 {
		if err := requireArgs(cmd, 1); err != nil {
			return err
		}
	}

	var (
		res *backend.SearchResponse
		err error
	)
	limit := int(cmd.Int("limit"))
	if len(ingredients) > 0 {
		res, err = r.deps.Backend.HybridSearch(ctx, backend.HybridSearchRequest{
			Ingredients: ingredients,
			Query:       itemArg(cmd),
			Limit:       limit,
		})
	} else {
		res, err = r.deps.Backend.Search(ctx, itemArg(cmd), limit)
	}
	if err != nil {
		return err
	}
	if res.Warning != "" {
		fmt.Fprintf(r.out, "Note: %s\n", res.Warning)
	}
	if len(res.Results) == 0 {
		fmt.Fprintln(r.out, "No matches.")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECIPE\tSCORE\tMATCH")
	for _, hit := range res.Results {
		fmt.Fprintf(w, "%s\t%.2f\t%s\n", hit.RecipeName, hit.Score, hit.MatchType)
	}
	return w.Flush()
}

func (r *runner) recipesMissing(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	m, err := r.deps.Backend.MissingIngredients(ctx, itemArg(cmd))
	if err != nil {
		return err
	}
	if len(m.MissingIngredients) == 0 {
		fmt.Fprintf(r.out, "You have everything for %s.\n", m.RecipeName)
		return nil
	}
	fmt.Fprintf(r.out, "%s: %.0f%% covered, missing %s\n", m.RecipeName, m.CoveragePercent, strings.Join(m.MissingIngredients, ", "))
	return nil
}

func (r *runner) recipesSubstitutions(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	name := itemArg(cmd)
	res, err := r.deps.Backend.RecipeSubstitutions(ctx, name)
	if errors.Is(err, backend.ErrNotFound) {
		return fmt.Errorf("no recipe named %q", name)
	}
	if err != nil {
		return err
	}
	if len(res.Substitutions) == 0 {
		fmt.Fprintf(r.out, "Nothing is missing for %s.\n", res.RecipeName)
		return nil
	}

	missing := make([]string, 0, len(res.Substitutions))
	for ing := range res.Substitutions {
		missing = append(missing, ing)
	}
	sort.Strings(missing)
	for _, ing := range missing {
		subs := res.Substitutions[ing]
		if len(subs) == 0 {
			fmt.Fprintf(r.out, "%s: no substitutes\n", ing)
			continue
		}
		fmt.Fprintf(r.out, "%s:\n", ing)
		for _, s := range subs {
			fmt.Fprintf(r.out, "  - %s (%.0f%%)\n", s.Substitute, s.Confidence*100)
		}
	}
	return nil
}

// splitList splits a comma separated flag value, dropping blanks
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *runner) recipesAlmost(ctx context.Context, cmd *cli.Command) error {
	maxMissing := int(cmd.Int("max-missing"))
	if maxMissing < 1 || maxMissing > 5 {
		return fmt.Errorf("max-missing must be between 1 and 5")
	}
	res, err := r.deps.Backend.AlmostCookable(ctx, maxMissing)
	if err != nil {
		return err
	}
	if res.Count == 0 {
		fmt.Fprintln(r.out, "Nothing is within reach yet.")
		return nil
	}

	names := make([]string, 0, len(res.Recipes))
	for name := range res.Recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.out, "%s: missing %s\n", name, strings.Join(res.Recipes[name], ", "))
	}
	return nil
}

func (r *runner) cookCommand() *cli.Command {
	return &cli.Command{
		Name:  "cook",
		Usage: "List recipes you can cook right now",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			made, err := r.deps.Backend.Cookable(ctx)
			if err != nil {
				return err
			}
			if len(made) == 0 {
				fmt.Fprintln(r.out, "Nothing can be cooked with what is in the fridge.")
				return nil
			}
			fmt.Fprintln(r.out, "You can cook:")
			for _, name := range made {
				fmt.Fprintf(r.out, "  - %s\n", name)
			}
			return nil
		},
	}
}

func (r *runner) cuisinesCommand() *cli.Command {
	return &cli.Command{
		Name:  "cuisines",
		Usage: "List cuisine tags",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cuisines, err := r.deps.Backend.Cuisines(ctx)
			if err != nil {
				return err
			}
			for _, c := range cuisines {
				fmt.Fprintf(r.out, "%-16s %s\n", c.Name, c.DisplayName)
			}
			return nil
		},
	}
}

func (r *runner) ingredientsCommand() *cli.Command {
	return &cli.Command{
		Name:  "ingredients",
		Usage: "Ingredient aliases",
		Commands: []*cli.Command{
			{
				Name:      "aliases",
				Usage:     "Show the known aliases of an ingredient",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					a, err := r.deps.Backend.Aliases(ctx, itemArg(cmd))
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "%s (canonical: %s): %s\n", a.Ingredient, a.Canonical, strings.Join(a.Aliases, ", "))
					return nil
				},
			},
			{
				Name:      "alias",
				Usage:     "Register another name for an ingredient",
				ArgsUsage: "<canonical> <alias>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 2); err != nil {
						return err
					}
					canonical, alias := cmd.Args().Get(0), cmd.Args().Get(1)
					if err := r.deps.Backend.AddAlias(ctx, canonical, alias); err != nil {
						return err
					}
					fmt.Fprintf(r.out, "%s is now also known as %s\n", canonical, alias)
					return nil
				},
			},
			{
				Name:      "resolve",
				Usage:     "Resolve a name to its canonical ingredient",
				ArgsUsage: "<name>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					res, err := r.deps.Backend.Resolve(ctx, itemArg(cmd))
					if err != nil {
						return err
					}
					fmt.Fprintf(r.out, "%s -> %s\n", res.Original, res.Canonical)
					return nil
				},
			},
		},
	}
}
