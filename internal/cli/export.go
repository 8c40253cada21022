// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"tradelog/internal/models"
)

// exportRow mirrors the generic import format, so an exported file can be
// re-imported as-is.
type exportRow struct {
	DateOpen    string  `csv:"date_open"`
	TimeOpen    string  `csv:"time_open"`
	DateClose   string  `csv:"date_close"`
	TimeClose   string  `csv:"time_close"`
	Symbol      string  `csv:"symbol"`
	Side        string  `csv:"side"`
	Qty         float64 `csv:"qty"`
	EntryPrice  float64 `csv:"entry_price"`
	ExitPrice   float64 `csv:"exit_price"`
	Fees        float64 `csv:"fees"`
	StrategyTag string  `csv:"strategy_tag"`
	Notes       string  `csv:"notes"`
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export trades to a generic CSV file",
		Long:  "Write the filtered trade set as CSV in the generic import format. With no file argument, writes to stdout.",
		Example: `  tradelog export trades.csv
  tradelog export --symbol AAPL aapl.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}

			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}

			trades, err := app.Journal.List(ctx, filter)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			rows := make([]exportRow, 0, len(trades))
			for _, t := range trades {
				rows = append(rows, toExportRow(t))
			}

			csvText, err := gocsv.MarshalString(&rows)
			if err != nil {
				return fmt.Errorf("failed to marshal trades: %w", err)
			}

			if len(args) == 0 {
				output.Printf("%s", csvText)
				return nil
			}

			if err := os.WriteFile(args[0], []byte(csvText), 0644); err != nil {
				output.Error("Failed to write %s: %v", args[0], err)
				return err
			}
			output.Success("✓ Exported %d trades to %s", len(rows), args[0])
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

func toExportRow(t models.Trade) exportRow {
	row := exportRow{
		DateOpen:   FormatDate(t.DateOpen),
		DateClose:  FormatDate(t.DateClose),
		Symbol:     t.Symbol,
		Side:       string(t.Side),
		Qty:        t.Qty,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		Fees:       t.Fees,
	}
	if t.TimeOpen != nil {
		row.TimeOpen = *t.TimeOpen
	}
	if t.TimeClose != nil {
		row.TimeClose = *t.TimeClose
	}
	if t.StrategyTag != nil {
		row.StrategyTag = *t.StrategyTag
	}
	if t.Notes != nil {
		row.Notes = *t.Notes
	}
	return row
}
