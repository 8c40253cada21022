// Package models provides domain models for the trade journal.
package models

import "time"

// Side represents the direction of a trade.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// ParseSide normalizes a raw side string. Unrecognized values default to LONG.
func ParseSide(s string) Side {
	switch Side(s) {
	case SideShort:
		return SideShort
	default:
		return SideLong
	}
}

// Outcome classifies a completed trade by its net P&L.
type Outcome string

const (
	OutcomeWin       Outcome = "WIN"
	OutcomeLoss      Outcome = "LOSS"
	OutcomeBreakeven Outcome = "BREAKEVEN"
)

// TradeCandidate holds the raw fields of a trade before derived metrics
// are computed. TimeOpen/TimeClose are local time-of-day strings
// ("15:04:05" or "15:04"); nil means only the date is known.
type TradeCandidate struct {
	Symbol      string
	Side        Side
	Qty         float64
	EntryPrice  float64
	ExitPrice   float64
	Fees        float64
	DateOpen    time.Time
	TimeOpen    *string
	DateClose   time.Time
	TimeClose   *string
	StrategyTag *string
	Notes       *string
}

// Trade is a normalized trade record. The derived fields are a pure
// function of the candidate fields; recomputing from identical inputs
// yields identical outputs.
type Trade struct {
	ID string
	TradeCandidate

	GrossPnl   float64
	NetPnl     float64
	PnlPercent float64
	HoldTime   int // minutes; negative when close precedes open
	Outcome    Outcome
}

// DailyStats aggregates trades closed on one calendar day.
type DailyStats struct {
	Date   time.Time // day granularity, no time component
	NetPnl float64
	Trades int
	Wins   int
	Losses int
}

// TickerStats aggregates trades for one symbol.
type TickerStats struct {
	Symbol       string
	Trades       int
	NetPnl       float64
	WinRate      float64
	ProfitFactor float64 // +Inf when there are wins and no losses
	AvgWin       float64
	AvgLoss      float64 // positive magnitude
	Expectancy   float64
	LargestWin   float64
	LargestLoss  float64
	AvgHoldTime  float64 // minutes
}

// OverallStats aggregates the whole filtered trade set.
type OverallStats struct {
	NetPnl       float64
	WinRate      float64
	ProfitFactor float64
	AvgWin       float64
	AvgLoss      float64
	Expectancy   float64
	TotalTrades  int
	MaxDrawdown  float64
	BestDay      float64
	WorstDay     float64
	AvgHoldTime  float64
}
