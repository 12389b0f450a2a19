package cookbook

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var mealTypeCmd = &cobra.Command{
	Use:     "meal-type",
	Aliases: []string{"meal-types"},
	Short:   "Manage meal types (breakfast, lunch, ...)",
}

var mealTypeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a meal type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.AddMealType(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added meal type %q\n", args[0])
			return nil
		})
	},
}

var mealTypeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meal types in plan order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.ListMealTypes(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "NAME\tDEFAULT")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%t\n", it.Name, it.IsDefault)
			}
			return nil
		})
	},
}

var mealTypeRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a meal type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.RenameMealType(sqldb, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed meal type %q to %q\n", args[0], args[1])
			return nil
		})
	},
}

var mealTypeReassign string

var mealTypeDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a meal type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteMealType(sqldb, args[0], mealTypeReassign); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal type %q\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mealTypeCmd)
	mealTypeCmd.AddCommand(mealTypeAddCmd, mealTypeListCmd, mealTypeRenameCmd, mealTypeDeleteCmd)
	mealTypeDeleteCmd.Flags().StringVar(&mealTypeReassign, "reassign", "", "Move planned slots to this meal type")
}
