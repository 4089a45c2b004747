package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jmacedo/abcstock/internal/cli"
	"github.com/jmacedo/abcstock/internal/inventory"
	"github.com/jmacedo/abcstock/internal/model"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var (
		moves       int
		price       float64
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add <code> <name>",
		Short: "Add an item to the catalog",
		Long: `Create a new inventory item. The code is normalized to uppercase and
must be unique. With --interactive, field values are prompted for instead
of taken from flags.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, stg, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(stg)

			code := args[0]
			var name string
			if len(args) > 1 {
				name = args[1]
			}

			if interactive {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				if name == "" {
					if name, err = prompter.PromptString("Name"); err != nil {
						return err
					}
				}
				if moves, err = prompter.PromptInt("Moves per month"); err != nil {
					return err
				}
				if price, err = prompter.PromptFloat("Unit price"); err != nil {
					return err
				}
			}

			item, err := model.NewItem(code, name, moves, price)
			if err != nil {
				return err
			}

			if err := store.Add(ctx, item); err != nil {
				return err
			}

			added, _ := store.Find(item.Code)
			fmt.Printf("Added %s (%s) class=%s\n", added.Code, added.Name, added.Classification) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().IntVar(&moves, "moves", 0, "monthly movement count")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for field values")

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog with classifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, stg, err := initStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(stg)

			items := store.ListAll()
			if len(items) == 0 {
				fmt.Println("No items yet. Use 'abcstock add' to create one.") //nolint:forbidigo // User-facing output
				return nil
			}

			printItems(items)
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show a single item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, stg, err := initStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStorage(stg)

			item, ok := store.Find(args[0])
			if !ok {
				return fmt.Errorf("item %s not found", strings.ToUpper(args[0]))
			}

			printItems([]model.Item{item})
			return nil
		},
	}
}

func updateCmd() *cobra.Command {
	var (
		name  string
		moves int
		price float64
	)

	cmd := &cobra.Command{
		Use:   "update <code>",
		Short: "Update an item's fields",
		Long: `Apply new field values to an existing item. Flags that are not set
keep the item's current value. Changing the movement count or unit price
triggers a full reclassification; a name-only change does not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, stg, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(stg)

			current, ok := store.Find(args[0])
			if !ok {
				return fmt.Errorf("item %s not found", strings.ToUpper(args[0]))
			}

			changes := inventory.ItemUpdate{
				Name:          current.Name,
				MovesPerMonth: current.MovesPerMonth,
				UnitPrice:     current.UnitPrice,
			}
			if cmd.Flags().Changed("name") {
				changes.Name = name
			}
			if cmd.Flags().Changed("moves") {
				changes.MovesPerMonth = moves
			}
			if cmd.Flags().Changed("price") {
				changes.UnitPrice = price
			}

			if err := store.Update(ctx, current.Code, changes); err != nil {
				return err
			}

			updated, _ := store.Find(current.Code)
			fmt.Printf("Updated %s class=%s\n", updated.Code, updated.Classification) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().IntVar(&moves, "moves", 0, "monthly movement count")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")

	return cmd
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code>",
		Short: "Remove an item from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, stg, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(stg)

			removed, err := store.Remove(ctx, args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Printf("No item with code %s.\n", strings.ToUpper(args[0])) //nolint:forbidigo // User-facing output
				return nil
			}

			fmt.Printf("Removed %s.\n", strings.ToUpper(args[0])) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}

func printItems(items []model.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "CODE\tNAME\tMOVES/MONTH\tUNIT PRICE\tTOTAL VALUE\tCUM %%\tCLASS\n")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%s\n",
			item.Code, item.Name, item.MovesPerMonth, item.UnitPrice,
			item.TotalValue(), item.AccumulatedPercentage, item.Classification)
	}
}

func closeStorage(stg interface{ Close() error }) {
	if err := stg.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}
