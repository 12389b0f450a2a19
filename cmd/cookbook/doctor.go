package cookbook

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Orphan ingredients: %d\n", report.OrphanIngredients)
			fmt.Fprintf(out, "Slots without recipe: %d\n", report.EmptySlots)
			fmt.Fprintf(out, "Stale shopping marks: %d\n", report.StaleMarks)
			fmt.Fprintf(out, "Unreadable amounts: %d\n", report.BadAmounts)
			if doctorFix {
				fmt.Fprintf(out, "Fixed rows: %d\n", report.Fixed)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt safe auto-fixes")
}
