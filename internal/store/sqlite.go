// Package store provides trade persistence interfaces and implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tradelog/internal/errors"
	"tradelog/internal/models"
)

const dateLayout = "2006-01-02"

// SQLiteStore implements TradeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based trade store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		qty REAL NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		fees REAL NOT NULL DEFAULT 0,
		date_open DATE NOT NULL,
		time_open TEXT,
		date_close DATE NOT NULL,
		time_close TEXT,
		strategy_tag TEXT,
		notes TEXT,
		gross_pnl REAL NOT NULL,
		net_pnl REAL NOT NULL,
		pnl_percent REAL NOT NULL,
		hold_time INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_date_close ON trades(date_close);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const tradeColumns = "id, symbol, side, qty, entry_price, exit_price, fees, date_open, time_open, date_close, time_close, strategy_tag, notes, gross_pnl, net_pnl, pnl_percent, hold_time, outcome"

// Create saves a trade to the database.
func (s *SQLiteStore) Create(ctx context.Context, t models.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tradeArgs(t)...)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// Delete removes a trade by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.Wrapf(errors.ErrTradeNotFound, "id %s", id)
	}
	return nil
}

// List retrieves trades from the database, most recently closed first.
func (s *SQLiteStore) List(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Side != "" {
		query += " AND side = ?"
		args = append(args, string(filter.Side))
	}
	if !filter.From.IsZero() {
		query += " AND date_close >= ?"
		args = append(args, filter.From.Format(dateLayout))
	}
	if !filter.To.IsZero() {
		query += " AND date_close <= ?"
		args = append(args, filter.To.Format(dateLayout))
	}

	query += " ORDER BY date_close DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

// BulkImport inserts trades in one transaction. Rows that fail to insert
// are reported in the result without aborting the batch.
func (s *SQLiteStore) BulkImport(ctx context.Context, trades []models.Trade) (ImportResult, error) {
	var result ImportResult
	if len(trades) == 0 {
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return result, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx, tradeArgs(t)...); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("trade %s %s: %v", t.ID, t.Symbol, err))
			continue
		}
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

func tradeArgs(t models.Trade) []interface{} {
	return []interface{}{
		t.ID,
		t.Symbol,
		string(t.Side),
		t.Qty,
		t.EntryPrice,
		t.ExitPrice,
		t.Fees,
		t.DateOpen.Format(dateLayout),
		nullable(t.TimeOpen),
		t.DateClose.Format(dateLayout),
		nullable(t.TimeClose),
		nullable(t.StrategyTag),
		nullable(t.Notes),
		t.GrossPnl,
		t.NetPnl,
		t.PnlPercent,
		t.HoldTime,
		string(t.Outcome),
	}
}

func scanTrade(rows *sql.Rows) (models.Trade, error) {
	var t models.Trade
	var side, outcome, dateOpen, dateClose string
	var timeOpen, timeClose, strategyTag, notes sql.NullString

	err := rows.Scan(&t.ID, &t.Symbol, &side, &t.Qty, &t.EntryPrice, &t.ExitPrice, &t.Fees,
		&dateOpen, &timeOpen, &dateClose, &timeClose, &strategyTag, &notes,
		&t.GrossPnl, &t.NetPnl, &t.PnlPercent, &t.HoldTime, &outcome)
	if err != nil {
		return t, err
	}

	t.Side = models.Side(side)
	t.Outcome = models.Outcome(outcome)
	if t.DateOpen, err = time.Parse(dateLayout, dateOpen); err != nil {
		return t, err
	}
	if t.DateClose, err = time.Parse(dateLayout, dateClose); err != nil {
		return t, err
	}
	t.TimeOpen = fromNull(timeOpen)
	t.TimeClose = fromNull(timeClose)
	t.StrategyTag = fromNull(strategyTag)
	t.Notes = fromNull(notes)

	return t, nil
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
