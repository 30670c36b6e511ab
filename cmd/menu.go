package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/pizzalog/eventgen/pkg/config"
	"github.com/pizzalog/eventgen/pkg/menu"
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "List the menu catalog orders are drawn from",
	Long: `Lists the catalog a run would use: the --menu file if given, otherwise
the inline menu of the --config file, otherwise the built-in catalog.`,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	cfg, err := readConfig()
	if err != nil {
		return err
	}
	items, err := menu.Resolve(&cfg, menuFile)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	groups := menu.ByCategory(items)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, category := range []config.Category{config.CategoryPizza, config.CategoryDrink} {
		if len(groups[category]) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", category, len(groups[category]))
		fmt.Fprintln(w, "  ID\tNAME\tPRICE\tPREP (MIN)")
		for _, item := range groups[category] {
			fmt.Fprintf(w, "  %s\t%s\t%.2f\t%d\n", item.ID, item.Name, item.Price, item.PrepTime)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
