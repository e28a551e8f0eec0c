package features

import (
	"math"
	"sort"

	"github.com/aristath/tradelens/pkg/formulas"
)

const volatilityWindow = 20

// Compute derives the full per-trade feature frame from a raw ledger.
//
// The ledger is stably sorted by timestamp first; the input slice is never
// modified. All derivations are deterministic and side-effect free, so two
// runs over the same ledger produce identical frames.
func Compute(trades []Trade) Frame {
	n := len(trades)
	if n == 0 {
		return Frame{}
	}

	sorted := make([]Trade, n)
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	frame := make(Frame, n)
	for i := range sorted {
		frame[i].Trade = sorted[i]
	}

	computeBasics(frame)
	computeStreaks(frame)
	computeClusterCounts(frame)
	computeVolatilityProxy(frame)
	computePostOutcome(frame)

	return frame
}

func computeBasics(frame Frame) {
	peak := math.Inf(-1)
	for i := range frame {
		t := &frame[i]

		t.IsWin = t.ProfitLoss > 0

		// P&L as % of the balance before this trade; the first trade has no
		// prior balance so its own balance is used as the base.
		base := t.Balance
		if i > 0 {
			base = frame[i-1].Balance
		}
		if base != 0 {
			t.PnLPercent = t.ProfitLoss / base * 100
		}

		t.Notional = math.Abs(t.Quantity * t.EntryPrice)
		if t.Balance != 0 {
			t.PositionSizePct = t.Notional / math.Abs(t.Balance) * 100
		}

		if i > 0 {
			t.TimeSinceLast = t.Timestamp.Sub(frame[i-1].Timestamp).Seconds()
		}
		// Best holding-duration proxy without an explicit close time.
		t.HoldingDuration = t.TimeSinceLast

		if t.Balance > peak {
			peak = t.Balance
		}
		t.PeakBalance = peak
		if peak != 0 {
			t.Drawdown = (t.Balance - peak) / peak * 100
		}
		t.DrawdownAtTrade = t.Drawdown
	}
}

// computeStreaks assigns the signed run-length counter: consecutive wins
// count up from +1, consecutive losses down from -1, and an outcome flip
// resets the magnitude to 1.
func computeStreaks(frame Frame) {
	run := 0
	for i := range frame {
		if i == 0 || frame[i].IsWin != frame[i-1].IsWin {
			run = 1
		} else {
			run++
		}
		if frame[i].IsWin {
			frame[i].StreakIndex = run
		} else {
			frame[i].StreakIndex = -run
		}
	}
}

// computeClusterCounts fills trades_1h and trades_4h with trailing-window
// trade counts. The window includes the current trade and is exclusive at
// the left boundary (t-3600s / t-14400s), computed by binary search over the
// sorted epoch seconds for O(n log n) total work.
func computeClusterCounts(frame Frame) {
	epochs := make([]int64, len(frame))
	for i, t := range frame {
		epochs[i] = t.Timestamp.Unix()
	}

	upperBound := func(v int64) int {
		return sort.Search(len(epochs), func(i int) bool { return epochs[i] > v })
	}

	for i := range frame {
		t := epochs[i]
		hi := upperBound(t)
		frame[i].Trades1h = hi - upperBound(t-3600)
		frame[i].Trades4h = hi - upperBound(t-14400)
	}
}

// computeVolatilityProxy fills the rolling 20-trade sample standard deviation
// of P&L. Windows with a single sample yield 0 (min periods 1).
func computeVolatilityProxy(frame Frame) {
	pnl := frame.PnL()
	for i := range frame {
		lo := i - volatilityWindow + 1
		if lo < 0 {
			lo = 0
		}
		frame[i].VolatilityProxy = formulas.StdDev(pnl[lo : i+1])
	}
}

func computePostOutcome(frame Frame) {
	for i := range frame {
		if i == 0 {
			// No prior trade; treated as after-win so the first trade never
			// lands in the post-loss bucket.
			continue
		}
		frame[i].AfterLoss = !frame[i-1].IsWin
		frame[i].PrevNotional = frame[i-1].Notional
		if frame[i].PrevNotional != 0 {
			frame[i].SizeDelta = (frame[i].Notional - frame[i].PrevNotional) / frame[i].PrevNotional
		}
	}
}
