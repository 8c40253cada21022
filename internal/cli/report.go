// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradelog/internal/store"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Performance report over the filtered trade set",
		Example: `  tradelog report
  tradelog report --days 30
  tradelog report --symbol TSLA`,
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

			overall, daily, tickers, err := app.Journal.Stats(ctx, filter)
			if err != nil {
				output.Error("Failed to compute stats: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"overall": overall,
					"daily":   daily,
					"tickers": tickers,
				})
			}

			if overall.TotalTrades == 0 {
				output.Info("No trades found for this period.")
				return nil
			}

			output.Bold("Summary")
			output.Printf("  Total Trades:   %d\n", overall.TotalTrades)
			output.Printf("  Net P&L:        %s\n", output.FormatPnL(overall.NetPnl))
			output.Printf("  Win Rate:       %.1f%%\n", overall.WinRate)
			output.Printf("  Profit Factor:  %s\n", FormatProfitFactor(overall.ProfitFactor))
			output.Printf("  Avg Win:        %s\n", FormatCurrency(overall.AvgWin))
			output.Printf("  Avg Loss:       %s\n", FormatCurrency(-overall.AvgLoss))
			output.Printf("  Expectancy:     %s\n", FormatCurrency(overall.Expectancy))
			output.Printf("  Max Drawdown:   %s\n", FormatCurrency(overall.MaxDrawdown))
			output.Printf("  Best Day:       %s\n", output.FormatPnL(overall.BestDay))
			output.Printf("  Worst Day:      %s\n", output.FormatPnL(overall.WorstDay))
			output.Printf("  Avg Hold Time:  %s\n", FormatHoldTime(overall.AvgHoldTime))
			output.Println()

			if len(tickers) > 0 {
				output.Bold("By Symbol")
				table := NewTable(output, "Symbol", "Trades", "Net P&L", "Win%", "PF", "Expectancy")
				for _, ts := range tickers {
					table.AddRow(
						ts.Symbol,
						fmt.Sprintf("%d", ts.Trades),
						output.FormatPnL(ts.NetPnl),
						fmt.Sprintf("%.0f%%", ts.WinRate),
						FormatProfitFactor(ts.ProfitFactor),
						FormatCurrency(ts.Expectancy),
					)
				}
				table.Render()
			}

			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

func newTickersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickers",
		Short: "Per-symbol statistics, best performers first",
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

			_, _, tickers, err := app.Journal.Stats(ctx, filter)
			if err != nil {
				output.Error("Failed to compute stats: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(tickers)
			}

			if len(tickers) == 0 {
				output.Info("No trades found.")
				return nil
			}

			table := NewTable(output, "Symbol", "Trades", "Net P&L", "Win%", "PF", "Avg Win", "Avg Loss", "Largest Win", "Largest Loss", "Avg Hold")
			for _, ts := range tickers {
				table.AddRow(
					ts.Symbol,
					fmt.Sprintf("%d", ts.Trades),
					output.FormatPnL(ts.NetPnl),
					fmt.Sprintf("%.0f%%", ts.WinRate),
					FormatProfitFactor(ts.ProfitFactor),
					FormatCurrency(ts.AvgWin),
					FormatCurrency(-ts.AvgLoss),
					FormatCurrency(ts.LargestWin),
					FormatCurrency(ts.LargestLoss),
					FormatHoldTime(ts.AvgHoldTime),
				)
			}
			table.Render()
			return nil
		},
	}

	addFilterFlags(cmd)
	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Per-day net P&L for a month",
		Example: `  tradelog calendar
  tradelog calendar --month 2024-03`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Journal == nil {
				output.Error("Store not initialized.")
				return nil
			}

			monthFlag, _ := cmd.Flags().GetString("month")
			var month time.Time
			if monthFlag == "" {
				now := time.Now()
				month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			} else {
				var err error
				month, err = time.Parse("2006-01", monthFlag)
				if err != nil {
					return fmt.Errorf("invalid --month %q: %w", monthFlag, err)
				}
			}

			filter := store.TradeFilter{
				From: month,
				To:   month.AddDate(0, 1, -1),
			}

			_, daily, _, err := app.Journal.Stats(ctx, filter)
			if err != nil {
				output.Error("Failed to compute stats: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(daily)
			}

			output.Bold("Calendar - %s", month.Format("January 2006"))
			output.Println()
			if len(daily) == 0 {
				output.Info("No trades closed this month.")
				return nil
			}

			table := NewTable(output, "Date", "Trades", "Wins", "Losses", "Net P&L")
			for _, day := range daily {
				table.AddRow(
					FormatDate(day.Date),
					fmt.Sprintf("%d", day.Trades),
					fmt.Sprintf("%d", day.Wins),
					fmt.Sprintf("%d", day.Losses),
					output.FormatPnL(day.NetPnl),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("month", "", "month to show (YYYY-MM, default current)")
	return cmd
}
