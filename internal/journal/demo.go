package journal

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"tradelog/internal/metrics"
	"tradelog/internal/models"
)

var demoSymbols = []string{"AAPL", "NVDA", "TSLA", "META", "MSFT", "GOOGL", "AMD", "SPY", "QQQ", "AMZN"}

var demoStrategies = []string{"breakout", "reversal", "momentum", "scalp"}

// SeedDemo stores a batch of generated sample trades spread over the last
// sixty days, for a first-run dashboard. The generator is seeded so
// repeated runs produce the same set.
func (s *Service) SeedDemo(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		count = 50
	}
	rng := rand.New(rand.NewSource(1))
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	trades := make([]models.Trade, 0, count)
	for i := 0; i < count; i++ {
		day := today.AddDate(0, 0, -rng.Intn(60))
		side := models.SideLong
		if rng.Float64() > 0.5 {
			side = models.SideShort
		}
		entry := 100 + rng.Float64()*400
		exit := entry + (rng.Float64()-0.4)*10
		qty := float64(rng.Intn(100) + 10)

		timeOpen := fmt.Sprintf("%02d:%02d:00", 9+rng.Intn(4), rng.Intn(60))
		timeClose := fmt.Sprintf("%02d:%02d:00", 10+rng.Intn(5), rng.Intn(60))
		strategy := demoStrategies[rng.Intn(len(demoStrategies))]

		t := metrics.Derive(models.TradeCandidate{
			Symbol:      demoSymbols[rng.Intn(len(demoSymbols))],
			Side:        side,
			Qty:         qty,
			EntryPrice:  entry,
			ExitPrice:   exit,
			Fees:        qty * 0.01,
			DateOpen:    day,
			TimeOpen:    &timeOpen,
			DateClose:   day,
			TimeClose:   &timeClose,
			StrategyTag: &strategy,
		})
		t.ID = models.NewTradeID()
		trades = append(trades, t)
	}

	result, err := s.store.BulkImport(ctx, trades)
	if err != nil {
		return 0, err
	}
	return result.Imported, nil
}
