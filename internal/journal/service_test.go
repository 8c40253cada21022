package journal

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tradelog/internal/errors"
	"tradelog/internal/models"
	"tradelog/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "journal_test.db")
	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st, zerolog.Nop())
}

func TestImportCSVGenericEndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	csv := strings.Join([]string{
		"symbol,side,qty,entry_price,exit_price,fees,date_open,date_close,strategy_tag",
		"AAPL,LONG,100,150,155,2.5,2024-01-02,2024-01-03,breakout",
		"TSLA,SHORT,50,240,230,1,2024-01-04,2024-01-05,reversal",
		"BAD,LONG,10,1,2,0,,2024-01-05,",
	}, "\n")

	imported, err := svc.ImportCSV(ctx, csv)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 imported, got %d", imported)
	}

	trades, err := svc.List(ctx, store.TradeFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 stored trades, got %d", len(trades))
	}
	for _, tr := range trades {
		if tr.ID == "" {
			t.Errorf("stored trade missing id: %+v", tr)
		}
		if tr.Outcome != models.OutcomeWin {
			t.Errorf("expected WIN for %s, got %s", tr.Symbol, tr.Outcome)
		}
	}

	overall, daily, tickers, err := svc.Stats(ctx, store.TradeFilter{})
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if overall.TotalTrades != 2 {
		t.Errorf("overall total: got %d, want 2", overall.TotalTrades)
	}
	if overall.NetPnl != 497.5+499 {
		t.Errorf("overall net: got %v, want %v", overall.NetPnl, 497.5+499)
	}
	if len(daily) != 2 {
		t.Errorf("daily days: got %d, want 2", len(daily))
	}
	if len(tickers) != 2 {
		t.Errorf("tickers: got %d, want 2", len(tickers))
	}
}

func TestImportCSVOptionsLedger(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	csv := strings.Join([]string{
		"Activity Date,Process Date,Settle Date,Instrument,Description,Trans Code,Quantity,Price,Amount",
		`1/5/2024,1/5/2024,1/8/2024,SPY,SPY 3/15/2024 Call $500.00,BTO,1,$1.00,($100.00)`,
		`1/10/2024,1/10/2024,1/11/2024,SPY,SPY 3/15/2024 Call $500.00,STC,1,$1.20,$120.00`,
	}, "\n")

	imported, err := svc.ImportCSV(ctx, csv)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if imported != 1 {
		t.Fatalf("expected 1 imported, got %d", imported)
	}

	trades, err := svc.List(ctx, store.TradeFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	tr := trades[0]
	if tr.Symbol != "SPY" || tr.NetPnl != 20 || tr.Outcome != models.OutcomeWin {
		t.Errorf("option trade wrong: %+v", tr)
	}
	if tr.StrategyTag == nil || *tr.StrategyTag != "call" {
		t.Errorf("strategy tag: %v", tr.StrategyTag)
	}
}

func TestImportCSVEmptyInput(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ImportCSV(context.Background(), "  \n\n")
	if !stderrors.Is(err, errors.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	dateOpen, _ := time.Parse("2006-01-02", "2024-01-02")
	dateClose, _ := time.Parse("2006-01-02", "2024-01-03")

	valid := models.TradeCandidate{
		Symbol:     "AAPL",
		Side:       models.SideLong,
		Qty:        10,
		EntryPrice: 100,
		ExitPrice:  105,
		DateOpen:   dateOpen,
		DateClose:  dateClose,
	}

	trade, err := svc.Add(ctx, valid)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if trade.ID == "" {
		t.Errorf("added trade missing id")
	}
	if trade.NetPnl != 50 {
		t.Errorf("derived net: got %v, want 50", trade.NetPnl)
	}

	cases := []models.TradeCandidate{
		{Side: models.SideLong, Qty: 10, DateOpen: dateOpen, DateClose: dateClose},  // no symbol
		{Symbol: "AAPL", Side: models.SideLong, DateOpen: dateOpen, DateClose: dateClose}, // no qty
		{Symbol: "AAPL", Side: models.SideLong, Qty: 10},                          // no dates
	}
	for i, c := range cases {
		if _, err := svc.Add(ctx, c); err == nil {
			t.Errorf("case %d: expected validation error", i)
		} else {
			var verr *errors.ValidationError
			if !stderrors.As(err, &verr) {
				t.Errorf("case %d: expected ValidationError, got %T", i, err)
			}
		}
	}
}

func TestDeletePropagatesNotFound(t *testing.T) {
	svc := newTestService(t)
	err := svc.Delete(context.Background(), "missing")
	if !stderrors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("expected ErrTradeNotFound, got %v", err)
	}
}

func TestSeedDemoIsDeterministic(t *testing.T) {
	ctx := context.Background()

	svcA := newTestService(t)
	countA, err := svcA.SeedDemo(ctx, 25)
	if err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}
	if countA != 25 {
		t.Fatalf("expected 25 seeded, got %d", countA)
	}

	svcB := newTestService(t)
	if _, err := svcB.SeedDemo(ctx, 25); err != nil {
		t.Fatalf("SeedDemo failed: %v", err)
	}

	tradesA, _ := svcA.List(ctx, store.TradeFilter{})
	tradesB, _ := svcB.List(ctx, store.TradeFilter{})
	if len(tradesA) != len(tradesB) {
		t.Fatalf("seed runs differ in size: %d vs %d", len(tradesA), len(tradesB))
	}

	// Trade order within a day is not significant, so compare run totals.
	sumNet := func(trades []models.Trade) (total float64, bySymbol map[string]int) {
		bySymbol = make(map[string]int)
		for _, tr := range trades {
			total += tr.NetPnl
			bySymbol[tr.Symbol]++
		}
		return total, bySymbol
	}
	netA, symbolsA := sumNet(tradesA)
	netB, symbolsB := sumNet(tradesB)
	if netA != netB {
		t.Errorf("seed runs diverge in net P&L: %v vs %v", netA, netB)
	}
	for symbol, n := range symbolsA {
		if symbolsB[symbol] != n {
			t.Errorf("seed runs diverge for %s: %d vs %d", symbol, n, symbolsB[symbol])
		}
	}
}
