package bias

import (
	"time"

	"github.com/aristath/tradelens/features"
)

var sessionStart = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

// tradeSpec is a compact trade description for building test ledgers
type tradeSpec struct {
	offset   time.Duration
	pnl      float64
	quantity float64
	entry    float64
	exit     float64
	asset    string
}

func buildFrame(specs []tradeSpec, startBalance float64) features.Frame {
	balance := startBalance
	trades := make([]features.Trade, len(specs))
	for i, s := range specs {
		balance += s.pnl
		asset := s.asset
		if asset == "" {
			asset = "EURUSD"
		}
		qty := s.quantity
		if qty == 0 {
			qty = 1
		}
		entry := s.entry
		if entry == 0 {
			entry = 100
		}
		exit := s.exit
		if exit == 0 {
			exit = entry + s.pnl
		}
		trades[i] = features.Trade{
			Timestamp:  sessionStart.Add(s.offset),
			Asset:      asset,
			Side:       "BUY",
			Quantity:   qty,
			EntryPrice: entry,
			ExitPrice:  exit,
			ProfitLoss: s.pnl,
			Balance:    balance,
		}
	}
	return features.Compute(trades)
}

// evenSession builds a steady session: n trades at the given interval whose
// P&L cycles through pnls with constant sizing.
func evenSession(n int, interval time.Duration, pnls []float64) features.Frame {
	specs := make([]tradeSpec, n)
	for i := range specs {
		specs[i] = tradeSpec{
			offset: time.Duration(i) * interval,
			pnl:    pnls[i%len(pnls)],
		}
	}
	return buildFrame(specs, 10000)
}
