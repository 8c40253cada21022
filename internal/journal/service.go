// Package journal wires the CSV parser, metrics engine, and trade store
// into the import and query operations the CLI exposes.
package journal

import (
	"context"

	"github.com/rs/zerolog"

	"tradelog/internal/errors"
	"tradelog/internal/metrics"
	"tradelog/internal/models"
	"tradelog/internal/parser"
	"tradelog/internal/store"
)

// Service owns the trade pipeline. It holds no mutable state of its own;
// all persistence goes through the store.
type Service struct {
	store  store.TradeStore
	logger zerolog.Logger
}

// NewService creates a journal service.
func NewService(st store.TradeStore, logger zerolog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// ImportCSV parses raw CSV text, derives metrics for every candidate, and
// bulk-imports the results. It returns the number of trades imported.
// Data-quality problems in individual rows reduce the count; only
// structurally unusable input is an error.
func (s *Service) ImportCSV(ctx context.Context, csvText string) (int, error) {
	candidates, err := parser.Parse(csvText)
	if err != nil {
		return 0, err
	}

	trades := make([]models.Trade, 0, len(candidates))
	for _, c := range candidates {
		t := metrics.Derive(c)
		t.ID = models.NewTradeID()
		if t.HoldTime < 0 {
			// Data-quality signal, not a rejection.
			s.logger.Warn().
				Str("symbol", t.Symbol).
				Int("hold_time", t.HoldTime).
				Msg("trade closes before it opens")
		}
		trades = append(trades, t)
	}

	result, err := s.store.BulkImport(ctx, trades)
	if err != nil {
		return 0, errors.Wrap(err, "bulk import")
	}
	for _, rowErr := range result.Errors {
		s.logger.Warn().Str("error", rowErr).Msg("trade not imported")
	}

	s.logger.Info().
		Int("parsed", len(candidates)).
		Int("imported", result.Imported).
		Msg("CSV import finished")
	return result.Imported, nil
}

// Add validates a manually entered candidate, derives its metrics, and
// stores the trade.
func (s *Service) Add(ctx context.Context, c models.TradeCandidate) (models.Trade, error) {
	if c.Symbol == "" {
		return models.Trade{}, errors.NewValidationError("symbol", c.Symbol, "symbol is required")
	}
	if c.Qty <= 0 {
		return models.Trade{}, errors.NewValidationError("qty", c.Qty, "quantity must be positive")
	}
	if c.DateOpen.IsZero() || c.DateClose.IsZero() {
		return models.Trade{}, errors.NewValidationError("dates", nil, "open and close dates are required")
	}

	t := metrics.Derive(c)
	t.ID = models.NewTradeID()
	if err := s.store.Create(ctx, t); err != nil {
		return models.Trade{}, errors.Wrap(err, "create trade")
	}
	return t, nil
}

// Delete removes a trade by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// List returns trades matching the filter, most recently closed first.
func (s *Service) List(ctx context.Context, filter store.TradeFilter) ([]models.Trade, error) {
	return s.store.List(ctx, filter)
}

// Stats computes the aggregate view models over the filtered trade set.
func (s *Service) Stats(ctx context.Context, filter store.TradeFilter) (models.OverallStats, []models.DailyStats, []models.TickerStats, error) {
	trades, err := s.store.List(ctx, filter)
	if err != nil {
		return models.OverallStats{}, nil, nil, err
	}
	return metrics.Overall(trades), metrics.Daily(trades), metrics.Tickers(trades), nil
}
