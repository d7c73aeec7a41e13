package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

var errUsage = errors.New("wrong number of arguments")

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.Args().Len() < n {
		return fmt.Errorf("%w: usage: %s %s", errUsage, cmd.FullName(), cmd.ArgsUsage)
	}
	return nil
}

// itemArg joins the positional arguments so "bell pepper" works unquoted
func itemArg(cmd *cli.Command) string {
	return strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
}

func (r *runner) fridgeCommand() *cli.Command {
	return &cli.Command{
		Name:  "fridge",
		Usage: "Show and edit fridge contents",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List everything in the fridge",
				Action: r.fridgeList,
			},
			{
				Name:      "add",
				Usage:     "Add an item",
				ArgsUsage: "<item>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "How many to add"},
				},
				Action: r.fridgeAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove an item entirely",
				ArgsUsage: "<item>",
				Action:    r.fridgeRemove,
			},
			{
				Name:      "count",
				Usage:     "Set how many of an item there are",
				ArgsUsage: "<item> <count>",
				Action:    r.fridgeCount,
			},
			{
				Name:      "replace",
				Usage:     "Replace the whole fridge, one unit of each item",
				ArgsUsage: "<item> [item...]",
				Action:    r.fridgeReplace,
			},
			{
				Name:      "order",
				Usage:     "Set the display order",
				ArgsUsage: "<item> [item...]",
				Action:    r.fridgeOrder,
			},
		},
	}
}

func (r *runner) fridgeList(ctx context.Context, cmd *cli.Command) error {
	supplies, err := r.deps.Backend.Fridge(ctx)
	if err != nil {
		return err
	}
	if len(supplies) == 0 {
		fmt.Fprintln(r.out, "Your fridge is empty.")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tCOUNT")
	for _, s := range supplies {
		fmt.Fprintf(w, "%s\t%d\n", s.Name, s.Quantity)
	}
	return w.Flush()
}

func (r *runner) fridgeAdd(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	item := itemArg(cmd)
	count := int(cmd.Int("count"))
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}
	if err := r.deps.Backend.AddToFridge(ctx, item, count); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Added %d x %s\n", count, item)
	return nil
}

func (r *runner) fridgeRemove(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	item := itemArg(cmd)
	if err := r.deps.Backend.RemoveFromFridge(ctx, item); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Removed %s\n", item)
	return nil
}

func (r *runner) fridgeCount(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 2); err != nil {
		return err
	}
	args := cmd.Args().Slice()
	count, err := strconv.Atoi(args[len(args)-1])
	if err != nil || count < 1 {
		return fmt.Errorf("count must be a positive number, got %q", args[len(args)-1])
	}
	item := strings.Join(args[:len(args)-1], " ")
	if err := r.deps.Backend.SetItemCount(ctx, item, count); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s: %d\n", item, count)
	return nil
}

func (r *runner) fridgeReplace(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	items := cmd.Args().Slice()
	if err := r.deps.Backend.ReplaceFridge(ctx, items); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Fridge now holds %d items\n", len(items))
	return nil
}

func (r *runner) fridgeOrder(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1); err != nil {
		return err
	}
	if err := r.deps.Backend.ReorderFridge(ctx, cmd.Args().Slice()); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Order updated")
	return nil
}
