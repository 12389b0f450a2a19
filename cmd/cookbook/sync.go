package cookbook

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull recipes and plans from the recipe backend",
}

var syncWeekFlag string

var syncWeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Replace a week's local plan with the backend's",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(syncWeekFlag)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			client, err := newRemoteClient(sqldb)
			if err != nil {
				return err
			}
			report, err := service.SyncWeek(cmd.Context(), sqldb, client, week)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Synced week %s: %d meal(s), %d recipe(s) created, %d updated\n",
				report.WeekStart, report.Slots, report.RecipesCreated, report.RecipesUpdated)
			for _, id := range report.Missing {
				fmt.Fprintf(out, "warning: recipe %s not found on backend\n", id)
			}
			return nil
		})
	},
}

var syncRecipeCmd = &cobra.Command{
	Use:   "recipe <remote-id>",
	Short: "Pull one recipe from the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			client, err := newRemoteClient(sqldb)
			if err != nil {
				return err
			}
			id, created, err := service.SyncRecipe(cmd.Context(), sqldb, client, args[0])
			if err != nil {
				return err
			}
			verb := "Updated"
			if created {
				verb = "Created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s recipe %d from %s\n", verb, id, args[0])
			return nil
		})
	},
}

var syncListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes available on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			client, err := newRemoteClient(sqldb)
			if err != nil {
				return err
			}
			items, err := client.ListRecipes(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tTITLE")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", it.ID, it.Title)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncWeekCmd, syncRecipeCmd, syncListCmd)
	syncWeekCmd.Flags().StringVar(&syncWeekFlag, "week", "", "Any date (YYYY-MM-DD) in the week; default current week")
}
