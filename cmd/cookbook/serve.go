package cookbook

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/server"
	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recipes, plans and shopping lists over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ServerAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		loc, err := service.LoadPlannerLocation(cfg.PlannerTimezone)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		return withDB(func(sqldb *sql.DB) error {
			api := server.NewWebAPI(*zerolog.Ctx(ctx), server.Config{
				Addr:            addr,
				ShutdownTimeout: 10 * time.Second,
				DB:              sqldb,
				Location:        loc,
				Now:             time.Now,
			})
			return api.Start(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
}
