package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"tradelog/internal/errors"
	"tradelog/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "trades_test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func strptr(s string) *string { return &s }

func testTrade(id, symbol, dateClose string) models.Trade {
	open, _ := time.Parse("2006-01-02", "2024-01-02")
	close, _ := time.Parse("2006-01-02", dateClose)
	return models.Trade{
		ID: id,
		TradeCandidate: models.TradeCandidate{
			Symbol:      symbol,
			Side:        models.SideLong,
			Qty:         10,
			EntryPrice:  100,
			ExitPrice:   105,
			Fees:        1.5,
			DateOpen:    open,
			TimeOpen:    strptr("09:30"),
			DateClose:   close,
			StrategyTag: strptr("breakout"),
		},
		GrossPnl:   50,
		NetPnl:     48.5,
		PnlPercent: 5,
		HoldTime:   390,
		Outcome:    models.OutcomeWin,
	}
}

func TestCreateAndListRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := testTrade("t1", "AAPL", "2024-01-03")
	if err := s.Create(ctx, want); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	trades, err := s.List(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}

	got := trades[0]
	if got.ID != want.ID || got.Symbol != want.Symbol || got.Side != want.Side {
		t.Errorf("identity fields mismatch: %+v", got)
	}
	if got.Qty != want.Qty || got.EntryPrice != want.EntryPrice || got.NetPnl != want.NetPnl {
		t.Errorf("numeric fields mismatch: %+v", got)
	}
	if !got.DateClose.Equal(want.DateClose) {
		t.Errorf("date close mismatch: got %v, want %v", got.DateClose, want.DateClose)
	}
	if got.TimeOpen == nil || *got.TimeOpen != "09:30" {
		t.Errorf("time open mismatch: %v", got.TimeOpen)
	}
	if got.TimeClose != nil {
		t.Errorf("absent time close should stay nil, got %v", *got.TimeClose)
	}
	if got.StrategyTag == nil || *got.StrategyTag != "breakout" {
		t.Errorf("strategy tag mismatch: %v", got.StrategyTag)
	}
	if got.Outcome != models.OutcomeWin || got.HoldTime != 390 {
		t.Errorf("derived fields mismatch: %+v", got)
	}
}

func TestListOrderedByCloseDateDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, date := range []string{"2024-01-05", "2024-01-10", "2024-01-07"} {
		if err := s.Create(ctx, testTrade(fmt.Sprintf("t%d", i), "SPY", date)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	trades, err := s.List(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(trades))
	}
	for i := 1; i < len(trades); i++ {
		if trades[i].DateClose.After(trades[i-1].DateClose) {
			t.Errorf("trades not descending by close date at index %d", i)
		}
	}
}

func TestListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	aapl := testTrade("t1", "AAPL", "2024-01-05")
	tsla := testTrade("t2", "TSLA", "2024-01-10")
	tsla.Side = models.SideShort
	msft := testTrade("t3", "MSFT", "2024-02-01")

	for _, tr := range []models.Trade{aapl, tsla, msft} {
		if err := s.Create(ctx, tr); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	bySymbol, err := s.List(ctx, TradeFilter{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(bySymbol) != 1 || bySymbol[0].ID != "t1" {
		t.Errorf("symbol filter: got %d trades", len(bySymbol))
	}

	bySide, err := s.List(ctx, TradeFilter{Side: models.SideShort})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(bySide) != 1 || bySide[0].ID != "t2" {
		t.Errorf("side filter: got %d trades", len(bySide))
	}

	from, _ := time.Parse("2006-01-02", "2024-01-08")
	to, _ := time.Parse("2006-01-02", "2024-01-31")
	byRange, err := s.List(ctx, TradeFilter{From: from, To: to})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byRange) != 1 || byRange[0].ID != "t2" {
		t.Errorf("date range filter: got %d trades", len(byRange))
	}

	limited, err := s.List(ctx, TradeFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit filter: got %d trades, want 2", len(limited))
	}
}

func TestDeleteMissingTrade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Delete(ctx, "no-such-id")
	if !errors.Is(err, errors.ErrTradeNotFound) {
		t.Errorf("expected ErrTradeNotFound, got %v", err)
	}

	if err := s.Create(ctx, testTrade("t1", "AAPL", "2024-01-03")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	trades, err := s.List(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("trade not deleted, %d remain", len(trades))
	}
}

func TestBulkImportReportsRowErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trades := []models.Trade{
		testTrade("t1", "AAPL", "2024-01-03"),
		testTrade("t1", "TSLA", "2024-01-04"), // duplicate id
		testTrade("t3", "MSFT", "2024-01-05"),
	}

	result, err := s.BulkImport(ctx, trades)
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("imported: got %d, want 2", result.Imported)
	}
	if len(result.Errors) != 1 {
		t.Errorf("errors: got %d, want 1", len(result.Errors))
	}

	stored, err := s.List(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored trades: got %d, want 2", len(stored))
	}
}

func TestBulkImportEmpty(t *testing.T) {
	s := newTestStore(t)
	result, err := s.BulkImport(context.Background(), nil)
	if err != nil {
		t.Fatalf("BulkImport failed: %v", err)
	}
	if result.Imported != 0 || len(result.Errors) != 0 {
		t.Errorf("empty import should be a no-op: %+v", result)
	}
}
