package cookbook

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tosh-hamburg/cookbookApp/internal/app"
)

var (
	dbPath   string
	cfgFile  string
	logLevel string

	cfg app.Config
)

var rootCmd = &cobra.Command{
	Use:   "cookbook",
	Short: "cookbook plans your week and writes the shopping list",
	Long: "cookbook is a local-first recipe book and weekly meal planner. It scales recipes to any number of servings " +
		"and sums the week's ingredients into one shopping list.",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: <user config dir>/cookbook/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error or disabled")
}

// initConfig resolves flags, COOKBOOK_* env, .env and the config file into
// cfg and puts a logger on the command context.
func initConfig(cmd *cobra.Command, _ []string) error {
	v := app.NewViper()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag(app.KeyDB, flags.Lookup("db")); err != nil {
		return fmt.Errorf("bind --db: %w", err)
	}
	if err := v.BindPFlag(app.KeyLogLevel, flags.Lookup("log-level")); err != nil {
		return fmt.Errorf("bind --log-level: %w", err)
	}

	loaded, err := app.LoadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	logger, err := app.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cmd.Name() != "serve")
	if err != nil {
		return err
	}
	cmd.SetContext(logger.WithContext(cmd.Context()))
	zerolog.Ctx(cmd.Context()).Debug().Str("db", cfg.DBPath).Msg("config loaded")
	return nil
}
