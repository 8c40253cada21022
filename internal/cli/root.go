// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradelog/internal/config"
	"tradelog/internal/journal"
	"tradelog/internal/logging"
	"tradelog/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.TradeStore
	Journal *journal.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	tradeStore, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize store, commands needing it will fail")
	} else {
		app.Store = tradeStore
		app.Journal = journal.NewService(tradeStore, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "tradelog",
		Short: "tradelog - trade journal and performance dashboard CLI",
		Long: `tradelog keeps a journal of executed trades, imports brokerage CSV
exports, and reports performance statistics: win rate, profit factor,
expectancy, drawdown, and per-symbol and per-day breakdowns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newAddCmd(app))
	rootCmd.AddCommand(newListCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
	rootCmd.AddCommand(newReportCmd(app))
	rootCmd.AddCommand(newCalendarCmd(app))
	rootCmd.AddCommand(newTickersCmd(app))
	rootCmd.AddCommand(newExportCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("tradelog v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Storage")
			output.Printf("  Path:  %s\n", app.Config.Storage.Path)
			output.Println()
			output.Bold("Logging")
			output.Printf("  Level: %s\n", app.Config.Logging.Level)
			output.Printf("  File:  %v\n", app.Config.Logging.File)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	return cmd
}
