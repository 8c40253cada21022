// Package store provides trade persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradelog/internal/models"
)

// TradeStore defines the persistence operations the journal core exchanges
// trade records with. The core treats the store as an external
// collaborator; it only hands over and receives value snapshots.
type TradeStore interface {
	List(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	Create(ctx context.Context, trade models.Trade) error
	Delete(ctx context.Context, id string) error
	BulkImport(ctx context.Context, trades []models.Trade) (ImportResult, error)
	Close() error
}

// TradeFilter represents filters for querying trades. Zero values mean
// "no constraint". From/To apply to the close date.
type TradeFilter struct {
	Symbol string
	Side   models.Side
	From   time.Time
	To     time.Time
	Limit  int
}

// ImportResult reports the outcome of a bulk import. Per-row failures are
// collected in Errors without aborting the batch.
type ImportResult struct {
	Imported int
	Errors   []string
}
