package cookbook

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan recipes into the days of a week",
}

var (
	planWeek     string
	planServings int
	planJSON     bool
)

var planSetCmd = &cobra.Command{
	Use:     "set <day> <meal-type> <recipe>",
	Short:   "Put a recipe on a day and meal",
	Example: "  cookbook plan set mo dinner Pfannkuchen --servings 4 --week 2024-03-04",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(planWeek)
		if err != nil {
			return err
		}
		day, err := service.ParseDay(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if _, err := service.SetMealSlot(sqldb, service.SetMealSlotInput{
				WeekStart: week,
				Day:       day,
				MealType:  args[1],
				Recipe:    args[2],
				Servings:  planServings,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %q for %s %s (week %s)\n", args[2], service.DayName(day), args[1], week)
			return nil
		})
	},
}

var planClearCmd = &cobra.Command{
	Use:   "clear <day> <meal-type>",
	Short: "Remove a planned meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(planWeek)
		if err != nil {
			return err
		}
		day, err := service.ParseDay(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.ClearMealSlot(sqldb, week, day, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s %s (week %s)\n", service.DayName(day), args[1], week)
			return nil
		})
	},
}

var planClearWeekCmd = &cobra.Command{
	Use:   "clear-week",
	Short: "Remove every planned meal and shopping mark of a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(planWeek)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			n, err := service.ClearWeek(sqldb, week)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d planned meal(s) from week %s\n", n, week)
			return nil
		})
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the plan of a week",
	RunE: func(cmd *cobra.Command, args []string) error {
		week, err := resolveWeek(planWeek)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			slots, err := service.ListWeekPlan(sqldb, week)
			if err != nil {
				return err
			}
			if planJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"week_start": week, "slots": slots})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Week of %s\n", week)
			fmt.Fprintln(out, "DAY\tMEAL\tRECIPE\tSERVINGS")
			for _, s := range slots {
				title := s.RecipeTitle
				if s.RecipeID == 0 {
					title = "(deleted recipe)"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%d\n", service.DayName(s.Day), s.MealType, title, s.Servings)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planSetCmd, planClearCmd, planClearWeekCmd, planShowCmd)

	planCmd.PersistentFlags().StringVar(&planWeek, "week", "", "Any date (YYYY-MM-DD) in the week; default current week")
	planSetCmd.Flags().IntVar(&planServings, "servings", 0, "Servings to cook (default: the recipe's servings)")
	planShowCmd.Flags().BoolVar(&planJSON, "json", false, "Output JSON")
}
