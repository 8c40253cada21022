// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradelog/internal/models"
	"tradelog/internal/store"
)

const dateLayout = "2006-01-02"

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a trade manually",
		Example: `  tradelog add --symbol AAPL --side LONG --qty 100 --entry 150.00 --exit 152.50 \
    --date-open 2024-01-05 --date-close 2024-01-05 --fees 1.00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			side, _ := cmd.Flags().GetString("side")
			qty, _ := cmd.Flags().GetFloat64("qty")
			entry, _ := cmd.Flags().GetFloat64("entry")
			exit, _ := cmd.Flags().GetFloat64("exit")
			fees, _ := cmd.Flags().GetFloat64("fees")
			strategy, _ := cmd.Flags().GetString("strategy")
			notes, _ := cmd.Flags().GetString("notes")

			dateOpen, err := parseDateFlag(cmd, "date-open")
			if err != nil {
				return err
			}
			dateClose, err := parseDateFlag(cmd, "date-close")
			if err != nil {
				return err
			}

			candidate := models.TradeCandidate{
				Symbol:      strings.ToUpper(symbol),
				Side:        models.ParseSide(strings.ToUpper(side)),
				Qty:         qty,
				EntryPrice:  entry,
				ExitPrice:   exit,
				Fees:        fees,
				DateOpen:    dateOpen,
				TimeOpen:    optionalFlag(cmd, "time-open"),
				DateClose:   dateClose,
				TimeClose:   optionalFlag(cmd, "time-close"),
				StrategyTag: optionalString(strategy),
				Notes:       optionalString(notes),
			}

			trade, err := app.Journal.Add(ctx, candidate)
			if err != nil {
				output.Error("Failed to add trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("✓ Recorded %s %s x%.0f  %s", trade.Side, trade.Symbol, trade.Qty, output.FormatPnL(trade.NetPnl))
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "ticker symbol")
	cmd.Flags().String("side", "LONG", "LONG or SHORT")
	cmd.Flags().Float64("qty", 0, "quantity")
	cmd.Flags().Float64("entry", 0, "entry price")
	cmd.Flags().Float64("exit", 0, "exit price")
	cmd.Flags().Float64("fees", 0, "fees and commissions")
	cmd.Flags().String("date-open", "", "open date (YYYY-MM-DD)")
	cmd.Flags().String("time-open", "", "open time of day (HH:MM:SS)")
	cmd.Flags().String("date-close", "", "close date (YYYY-MM-DD)")
	cmd.Flags().String("time-close", "", "close time of day (HH:MM:SS)")
	cmd.Flags().String("strategy", "", "strategy tag")
	cmd.Flags().String("notes", "", "free-text notes")

	return cmd
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades, most recently closed first",
		Example: `  tradelog list
  tradelog list --symbol NVDA --days 30
  tradelog list --from 2024-01-01 --to 2024-03-31`,
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

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Info("No trades found.")
				return nil
			}

			table := NewTable(output, "ID", "Closed", "Symbol", "Side", "Qty", "Entry", "Exit", "Net P&L", "Hold", "Tag")
			for _, t := range trades {
				tag := ""
				if t.StrategyTag != nil {
					tag = *t.StrategyTag
				}
				table.AddRow(
					TruncateString(t.ID, 8),
					FormatDate(t.DateClose),
					t.Symbol,
					string(t.Side),
					fmt.Sprintf("%.0f", t.Qty),
					fmt.Sprintf("%.2f", t.EntryPrice),
					fmt.Sprintf("%.2f", t.ExitPrice),
					output.FormatPnL(t.NetPnl),
					FormatHoldTime(float64(t.HoldTime)),
					TruncateString(tag, 12),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d trade(s)", len(trades))
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}

			if err := app.Journal.Delete(ctx, args[0]); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}
			output.Success("✓ Deleted trade %s", args[0])
			return nil
		},
	}
}

// addFilterFlags registers the shared date-range/symbol filter flags.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("symbol", "", "filter by symbol")
	cmd.Flags().Int("days", 0, "only trades closed in the last N days")
	cmd.Flags().String("from", "", "start of close-date range (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "end of close-date range (YYYY-MM-DD)")
	cmd.Flags().Int("limit", 0, "maximum number of trades")
}

// filterFromFlags builds a store filter from the shared flags. --days
// wins over --from when both are given.
func filterFromFlags(cmd *cobra.Command) (store.TradeFilter, error) {
	var filter store.TradeFilter

	symbol, _ := cmd.Flags().GetString("symbol")
	filter.Symbol = strings.ToUpper(symbol)
	filter.Limit, _ = cmd.Flags().GetInt("limit")

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return filter, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		filter.From = t
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return filter, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		filter.To = t
	}
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		now := time.Now()
		filter.From = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -days)
	}

	return filter, nil
}

func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q: %w", name, value, err)
	}
	return t, nil
}

func optionalFlag(cmd *cobra.Command, name string) *string {
	value, _ := cmd.Flags().GetString(name)
	return optionalString(value)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
