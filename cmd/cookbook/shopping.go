package cookbook

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var shoppingCmd = &cobra.Command{
	Use:   "shopping",
	Short: "Build the week's shopping list",
}

var (
	shoppingWeek    string
	shoppingJSON    bool
	shoppingSources bool
)

var shoppingListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the aggregated shopping list",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(shoppingWeek)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.ShoppingList(sqldb, week)
			if err != nil {
				return err
			}
			if shoppingJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Shopping list for week of %s (%d meals)\n", week, report.Meals)
			fmt.Fprintln(out, "AMOUNT\tINGREDIENT\tSTATE")
			for _, it := range report.Items {
				fmt.Fprintf(out, "%s\t%s\t%s\n", it.TotalAmount, it.Name, it.State)
				if !shoppingSources {
					continue
				}
				for _, src := range it.Sources {
					fmt.Fprintf(out, "  - %s (%d servings): %s\n", src.RecipeTitle, src.Servings, src.OriginalAmount)
				}
			}
			return nil
		})
	},
}

var shoppingTextCmd = &cobra.Command{
	Use:   "text",
	Short: "Print the items still to buy as plain text",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(shoppingWeek)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.ShoppingList(sqldb, week)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), service.ShoppingListText(report.Items))
			return nil
		})
	},
}

var shoppingExcludeCmd = &cobra.Command{
	Use:   "exclude <ingredient>...",
	Short: "Leave ingredients off the list (already in the pantry)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(shoppingWeek)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			n, err := service.MarkShoppingItems(sqldb, week, args, service.ShoppingStateExcluded)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Excluded %d item(s): %s\n", n, strings.Join(args, ", "))
			return nil
		})
	},
}

var shoppingIncludeCmd = &cobra.Command{
	Use:   "include [ingredient]...",
	Short: "Put excluded or sent ingredients back on the list; no arguments resets the week",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(shoppingWeek)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			n, err := service.UnmarkShoppingItems(sqldb, week, args)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Included %d item(s)\n", n)
			return nil
		})
	},
}

var shoppingSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Print the pending items and mark them sent",
	Long:  "send prints the items still to buy, for piping into a messenger or clipboard, and marks them sent so the next send only carries new items.",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(shoppingWeek)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			text, n, err := service.SendShoppingList(sqldb, week)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Nothing new to send")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(shoppingCmd)
	shoppingCmd.AddCommand(shoppingListCmd, shoppingTextCmd, shoppingExcludeCmd, shoppingIncludeCmd, shoppingSendCmd)

	shoppingCmd.PersistentFlags().StringVar(&shoppingWeek, "week", "", "Any date (YYYY-MM-DD) in the week; default current week")
	shoppingListCmd.Flags().BoolVar(&shoppingJSON, "json", false, "Output JSON")
	shoppingListCmd.Flags().BoolVar(&shoppingSources, "sources", false, "Show which recipes need each ingredient")
}
