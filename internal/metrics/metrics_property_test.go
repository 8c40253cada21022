package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradelog/internal/models"
)

// Property: derivation is a pure function. Deriving the same candidate
// twice produces identical trades, and the P&L identities hold for any
// input the generators produce.
func TestProperty_DeriveConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	sideGen := gen.OneConstOf(models.SideLong, models.SideShort)
	qtyGen := gen.Float64Range(0, 10000)
	priceGen := gen.Float64Range(0, 5000)
	feesGen := gen.Float64Range(0, 100)
	dayOffsetGen := gen.IntRange(0, 365)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("gross and net P&L identities", prop.ForAll(
		func(side models.Side, qty, entry, exit, fees float64, openDay, closeDay int) bool {
			c := models.TradeCandidate{
				Symbol:     "TEST",
				Side:       side,
				Qty:        qty,
				EntryPrice: entry,
				ExitPrice:  exit,
				Fees:       fees,
				DateOpen:   base.AddDate(0, 0, openDay),
				DateClose:  base.AddDate(0, 0, closeDay),
			}
			trade := Derive(c)

			multiplier := 1.0
			if side == models.SideShort {
				multiplier = -1.0
			}
			wantGross := multiplier * (exit - entry) * qty
			if trade.GrossPnl != wantGross {
				t.Logf("gross: got %v, want %v", trade.GrossPnl, wantGross)
				return false
			}
			if trade.NetPnl != wantGross-fees {
				t.Logf("net: got %v, want %v", trade.NetPnl, wantGross-fees)
				return false
			}
			if entry == 0 && trade.PnlPercent != 0 {
				t.Logf("zero entry should give zero percent, got %v", trade.PnlPercent)
				return false
			}
			if math.IsNaN(trade.PnlPercent) || math.IsInf(trade.PnlPercent, 0) {
				t.Logf("percent not finite: %v", trade.PnlPercent)
				return false
			}

			again := Derive(c)
			if trade != again {
				t.Logf("derivation not deterministic")
				return false
			}
			return true
		},
		sideGen, qtyGen, priceGen, priceGen, feesGen, dayOffsetGen, dayOffsetGen,
	))

	properties.TestingRun(t)
}

// Property: the drawdown walk never reports a negative drawdown, never
// exceeds the total range of the cumulative series, and keeps a
// monotonic peak.
func TestProperty_DrawdownBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	pnlGen := gen.SliceOfN(10, gen.Float64Range(-1000, 1000))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("drawdown is bounded and non-negative", prop.ForAll(
		func(dailyPnls []float64) bool {
			trades := make([]models.Trade, 0, len(dailyPnls))
			for i, pnl := range dailyPnls {
				trades = append(trades, Derive(models.TradeCandidate{
					Symbol:     "SPY",
					Side:       models.SideLong,
					Qty:        1,
					EntryPrice: 100,
					ExitPrice:  100 + pnl,
					DateOpen:   base.AddDate(0, 0, i),
					DateClose:  base.AddDate(0, 0, i),
				}))
			}
			stats := Overall(trades)

			if stats.MaxDrawdown < 0 {
				t.Logf("negative drawdown: %v", stats.MaxDrawdown)
				return false
			}

			var cumulative, lo, hi float64
			for _, pnl := range dailyPnls {
				cumulative += pnl
				if cumulative < lo {
					lo = cumulative
				}
				if cumulative > hi {
					hi = cumulative
				}
			}
			if stats.MaxDrawdown > hi-lo+1e-6 {
				t.Logf("drawdown %v exceeds cumulative range %v", stats.MaxDrawdown, hi-lo)
				return false
			}
			return true
		},
		pnlGen,
	))

	properties.TestingRun(t)
}

// Property: ticker aggregation partitions the trade set. Per-symbol
// trade counts and net P&L sums add back up to the overall totals.
func TestProperty_TickerPartition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	symbols := []string{"AAPL", "TSLA", "MSFT", "NVDA"}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("per-symbol sums equal totals", prop.ForAll(
		func(symbolIdxs []int, pnls []float64) bool {
			n := len(symbolIdxs)
			if len(pnls) < n {
				n = len(pnls)
			}
			trades := make([]models.Trade, 0, n)
			var totalPnl float64
			for i := 0; i < n; i++ {
				tr := Derive(models.TradeCandidate{
					Symbol:     symbols[symbolIdxs[i]%len(symbols)],
					Side:       models.SideLong,
					Qty:        1,
					EntryPrice: 100,
					ExitPrice:  100 + pnls[i],
					DateOpen:   base,
					DateClose:  base.AddDate(0, 0, i),
				})
				totalPnl += tr.NetPnl
				trades = append(trades, tr)
			}

			tickers := Tickers(trades)

			var count int
			var sum float64
			for _, ts := range tickers {
				count += ts.Trades
				sum += ts.NetPnl
			}
			if count != n {
				t.Logf("trade count: got %d, want %d", count, n)
				return false
			}
			if math.Abs(sum-totalPnl) > 1e-6 {
				t.Logf("net P&L sum: got %v, want %v", sum, totalPnl)
				return false
			}

			for i := 1; i < len(tickers); i++ {
				if tickers[i].NetPnl > tickers[i-1].NetPnl {
					t.Logf("tickers not sorted descending by net P&L")
					return false
				}
			}
			return true
		},
		gen.SliceOfN(15, gen.IntRange(0, 3)),
		gen.SliceOfN(15, gen.Float64Range(-500, 500)),
	))

	properties.TestingRun(t)
}
