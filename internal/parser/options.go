package parser

import (
	"math"
	"sort"
	"strings"
	"time"

	"tradelog/internal/models"
)

// Transaction codes present in brokerage options activity exports.
const (
	codeBuyToOpen   = "BTO"
	codeSellToClose = "STC"
	codeSellToOpen  = "STO"
	codeBuyToClose  = "BTC"
)

// legTxn is a single option leg transaction from the activity ledger.
type legTxn struct {
	date        time.Time
	code        string
	instrument  string
	description string
	qty         float64
	amount      float64
}

// parseOptionsLedger reconstructs round-trip option trades from a ledger
// of individual open/close transactions. Each row is one leg; the
// description string identifies the contract across its transactions.
func parseOptionsLedger(headers []string, lines []string) []models.TradeCandidate {
	byContract := make(map[string][]legTxn)
	for _, line := range lines {
		row := rowMap(headers, line)

		code := strings.ToUpper(row["trans code"])
		switch code {
		case codeBuyToOpen, codeSellToClose, codeSellToOpen, codeBuyToClose:
		default:
			continue
		}
		if row["instrument"] == "" || row["description"] == "" {
			continue
		}
		date, ok := parseActivityDate(row["activity date"])
		if !ok {
			continue
		}

		txn := legTxn{
			date:        date,
			code:        code,
			instrument:  strings.ToUpper(row["instrument"]),
			description: row["description"],
			qty:         parseMoney(row["quantity"]),
			amount:      parseMoney(row["amount"]),
		}
		byContract[txn.description] = append(byContract[txn.description], txn)
	}

	contracts := make([]string, 0, len(byContract))
	for desc := range byContract {
		contracts = append(contracts, desc)
	}
	sort.Strings(contracts)

	var candidates []models.TradeCandidate
	for _, desc := range contracts {
		txns := byContract[desc]
		longOpens := filterByCode(txns, codeBuyToOpen)
		longCloses := filterByCode(txns, codeSellToClose)
		shortOpens := filterByCode(txns, codeSellToOpen)
		shortCloses := filterByCode(txns, codeBuyToClose)

		candidates = append(candidates, matchLegs(longOpens, longCloses, models.SideLong, desc)...)
		candidates = append(candidates, matchLegs(shortOpens, shortCloses, models.SideShort, desc)...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DateClose.After(candidates[j].DateClose)
	})
	return candidates
}

// filterByCode selects transactions with the given code, sorted ascending
// by date.
func filterByCode(txns []legTxn, code string) []legTxn {
	var out []legTxn
	for _, t := range txns {
		if t.code == code {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out
}

// matchLegs walks closes in date order, consuming quantity from the opens
// queue oldest-first and splitting an open across multiple closes when
// needed. One candidate is emitted per matched (open, close) slice.
// Leftover open quantity with no close produces no trade.
//
// For shorts the entry/exit price roles are swapped (entry = cost to
// close, exit = credit received) to keep the P&L formula sign-consistent
// with the LONG/SHORT multiplier convention.
func matchLegs(opens, closes []legTxn, side models.Side, desc string) []models.TradeCandidate {
	var candidates []models.TradeCandidate

	oi := 0
	openRem := 0.0
	if len(opens) > 0 {
		openRem = opens[0].qty
	}

	for _, cl := range closes {
		if cl.qty == 0 {
			continue
		}
		closeUnit := cl.amount / cl.qty

		closeRem := cl.qty
		for closeRem > 0 && oi < len(opens) {
			if openRem <= 0 {
				oi++
				if oi < len(opens) {
					openRem = opens[oi].qty
				}
				continue
			}
			op := opens[oi]
			if op.qty == 0 {
				openRem = 0
				continue
			}
			openUnit := op.amount / op.qty

			qty := math.Min(openRem, closeRem)
			openRem -= qty
			closeRem -= qty

			// The opening leg is the cash outlay for longs and the credit
			// for shorts; the cost leg always carries the absolute value.
			entry, exit := math.Abs(openUnit), closeUnit
			if side == models.SideShort {
				entry, exit = math.Abs(closeUnit), openUnit
			}

			notes := desc
			candidates = append(candidates, models.TradeCandidate{
				Symbol:      op.instrument,
				Side:        side,
				Qty:         qty,
				EntryPrice:  entry,
				ExitPrice:   exit,
				Fees:        0, // ledger amounts are already net of fees
				DateOpen:    op.date,
				DateClose:   cl.date,
				StrategyTag: contractKind(desc),
				Notes:       &notes,
			})
		}
	}
	return candidates
}

// contractKind infers "put" or "call" from the contract description.
func contractKind(desc string) *string {
	lower := strings.ToLower(desc)
	switch {
	case strings.Contains(lower, "put"):
		kind := "put"
		return &kind
	case strings.Contains(lower, "call"):
		kind := "call"
		return &kind
	}
	return nil
}

// parseActivityDate accepts the brokerage M/D/YYYY format, falling back
// to the generic ISO date.
func parseActivityDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("1/2/2006", s); err == nil {
		return t, true
	}
	return parseDate(s)
}

// parseMoney parses ledger numeric fields, which may carry currency
// symbols, thousands separators, and parenthesized negatives.
func parseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	v := parseFloat(s)
	if negative {
		v = -v
	}
	return v
}
