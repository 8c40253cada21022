// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import trades from CSV exports",
		Long: `Import trades from one or more CSV files.

Two formats are recognized automatically:
  - generic journal exports (date_open, date_close, symbol, side, qty,
    entry_price, exit_price, fees, ...)
  - brokerage options activity ledgers (Activity Date, Trans Code,
    Instrument, Description, Quantity, Price, Amount), where round-trip
    trades are reconstructed from individual leg transactions`,
		Example: `  tradelog import trades.csv
  tradelog import january.csv february.csv
  tradelog import --demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}

			demo, _ := cmd.Flags().GetBool("demo")
			if demo {
				count, err := app.Journal.SeedDemo(ctx, 50)
				if err != nil {
					output.Error("Failed to seed demo trades: %v", err)
					return err
				}
				output.Success("✓ Seeded %d demo trades", count)
				return nil
			}

			if len(args) == 0 {
				output.Warning("No files given. See 'tradelog import --help'.")
				return nil
			}

			total := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					output.Error("Failed to read %s: %v", path, err)
					return err
				}

				count, err := app.Journal.ImportCSV(ctx, string(data))
				if err != nil {
					output.Error("Failed to import %s: %v", path, err)
					return err
				}
				output.Printf("  %s: %d trades\n", path, count)
				total += count
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"imported": total, "files": len(args)})
			}
			output.Success("✓ Imported %d trades from %d file(s)", total, len(args))
			return nil
		},
	}

	cmd.Flags().Bool("demo", false, "seed generated sample trades instead of reading files")

	return cmd
}
