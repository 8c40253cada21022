// Package metrics computes derived trade fields and aggregate statistics.
//
// Every function here is a pure, total transform over its inputs: no
// clock, no randomness, no I/O. Recomputing from identical inputs yields
// identical outputs, and every well-typed input (including the empty
// trade set) has a defined result.
package metrics

import (
	"math"
	"sort"
	"time"

	"tradelog/internal/models"
)

// breakevenBand absorbs floating-point noise around zero when
// classifying an outcome.
const breakevenBand = 0.01

// Derive computes the derived fields for a candidate and returns the
// normalized trade. The ID is left empty for the caller to assign.
func Derive(c models.TradeCandidate) models.Trade {
	multiplier := 1.0
	if c.Side == models.SideShort {
		multiplier = -1.0
	}

	priceDiff := c.ExitPrice - c.EntryPrice
	grossPnl := multiplier * priceDiff * c.Qty
	netPnl := grossPnl - c.Fees

	pnlPercent := 0.0
	if c.EntryPrice != 0 {
		pnlPercent = multiplier * priceDiff / c.EntryPrice * 100
	}

	openAt := combine(c.DateOpen, c.TimeOpen)
	closeAt := combine(c.DateClose, c.TimeClose)
	// Truncated toward zero; close-before-open yields a negative value
	// rather than an error.
	holdTime := int(closeAt.Sub(openAt).Minutes())

	outcome := models.OutcomeBreakeven
	if netPnl > breakevenBand {
		outcome = models.OutcomeWin
	} else if netPnl < -breakevenBand {
		outcome = models.OutcomeLoss
	}

	return models.Trade{
		TradeCandidate: c,
		GrossPnl:       grossPnl,
		NetPnl:         netPnl,
		PnlPercent:     pnlPercent,
		HoldTime:       holdTime,
		Outcome:        outcome,
	}
}

// combine attaches an optional time-of-day string to a date. An absent
// or unparsable time reads as midnight of that date.
func combine(date time.Time, timeOfDay *string) time.Time {
	if timeOfDay == nil {
		return date
	}
	t, err := time.Parse("15:04:05", *timeOfDay)
	if err != nil {
		t, err = time.Parse("15:04", *timeOfDay)
	}
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, date.Location())
}

// Overall aggregates the whole trade set, including drawdown over the
// chronological daily P&L series.
func Overall(trades []models.Trade) models.OverallStats {
	if len(trades) == 0 {
		return models.OverallStats{}
	}

	var wins, losses []models.Trade
	var totalNetPnl, totalHold float64
	for _, t := range trades {
		totalNetPnl += t.NetPnl
		totalHold += float64(t.HoldTime)
		switch t.Outcome {
		case models.OutcomeWin:
			wins = append(wins, t)
		case models.OutcomeLoss:
			losses = append(losses, t)
		}
	}

	grossWins, grossLosses := pnlSums(wins, losses)

	daily := Daily(trades)
	var peak, cumulative, maxDrawdown float64
	bestDay, worstDay := 0.0, 0.0
	for i, day := range daily {
		cumulative += day.NetPnl
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
		if i == 0 || day.NetPnl > bestDay {
			bestDay = day.NetPnl
		}
		if i == 0 || day.NetPnl < worstDay {
			worstDay = day.NetPnl
		}
	}

	return models.OverallStats{
		NetPnl:       totalNetPnl,
		WinRate:      float64(len(wins)) / float64(len(trades)) * 100,
		ProfitFactor: profitFactor(grossWins, grossLosses),
		AvgWin:       mean(grossWins, len(wins)),
		AvgLoss:      mean(grossLosses, len(losses)),
		Expectancy:   totalNetPnl / float64(len(trades)),
		TotalTrades:  len(trades),
		MaxDrawdown:  maxDrawdown,
		BestDay:      bestDay,
		WorstDay:     worstDay,
		AvgHoldTime:  totalHold / float64(len(trades)),
	}
}

// Daily groups trades by close date at day granularity, ascending by
// date. Days with zero trades are not gap-filled.
func Daily(trades []models.Trade) []models.DailyStats {
	byDay := make(map[string]*models.DailyStats)
	for _, t := range trades {
		key := t.DateClose.Format("2006-01-02")
		day, ok := byDay[key]
		if !ok {
			day = &models.DailyStats{Date: startOfDay(t.DateClose)}
			byDay[key] = day
		}
		day.NetPnl += t.NetPnl
		day.Trades++
		switch t.Outcome {
		case models.OutcomeWin:
			day.Wins++
		case models.OutcomeLoss:
			day.Losses++
		}
	}

	out := make([]models.DailyStats, 0, len(byDay))
	for _, day := range byDay {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Tickers aggregates trades per symbol, sorted descending by net P&L.
func Tickers(trades []models.Trade) []models.TickerStats {
	bySymbol := make(map[string][]models.Trade)
	for _, t := range trades {
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t)
	}

	out := make([]models.TickerStats, 0, len(bySymbol))
	for symbol, group := range bySymbol {
		var wins, losses []models.Trade
		var netPnl, totalHold float64
		largestWin, largestLoss := 0.0, 0.0
		for _, t := range group {
			netPnl += t.NetPnl
			totalHold += float64(t.HoldTime)
			switch t.Outcome {
			case models.OutcomeWin:
				wins = append(wins, t)
				if t.NetPnl > largestWin {
					largestWin = t.NetPnl
				}
			case models.OutcomeLoss:
				losses = append(losses, t)
				if t.NetPnl < largestLoss {
					largestLoss = t.NetPnl
				}
			}
		}

		grossWins, grossLosses := pnlSums(wins, losses)

		out = append(out, models.TickerStats{
			Symbol:       symbol,
			Trades:       len(group),
			NetPnl:       netPnl,
			WinRate:      float64(len(wins)) / float64(len(group)) * 100,
			ProfitFactor: profitFactor(grossWins, grossLosses),
			AvgWin:       mean(grossWins, len(wins)),
			AvgLoss:      mean(grossLosses, len(losses)),
			Expectancy:   netPnl / float64(len(group)),
			LargestWin:   largestWin,
			LargestLoss:  largestLoss,
			AvgHoldTime:  totalHold / float64(len(group)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].NetPnl != out[j].NetPnl {
			return out[i].NetPnl > out[j].NetPnl
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// pnlSums returns the win sum and the absolute loss sum.
func pnlSums(wins, losses []models.Trade) (grossWins, grossLosses float64) {
	for _, t := range wins {
		grossWins += t.NetPnl
	}
	var lossSum float64
	for _, t := range losses {
		lossSum += t.NetPnl
	}
	return grossWins, math.Abs(lossSum)
}

// profitFactor is grossWins/grossLosses, +Inf when there are wins and no
// losses, and 0 when both are zero.
func profitFactor(grossWins, grossLosses float64) float64 {
	if grossLosses > 0 {
		return grossWins / grossLosses
	}
	if grossWins > 0 {
		return math.Inf(1)
	}
	return 0
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
