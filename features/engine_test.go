package features

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionStart = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC) // a Monday

// makeLedger builds a ledger with trades spaced by interval whose P&L cycles
// through pnls; balances stay cumulative-consistent.
func makeLedger(n int, interval time.Duration, pnls []float64, startBalance float64) []Trade {
	trades := make([]Trade, n)
	balance := startBalance
	for i := 0; i < n; i++ {
		pnl := pnls[i%len(pnls)]
		balance += pnl
		trades[i] = Trade{
			Timestamp:  sessionStart.Add(time.Duration(i) * interval),
			Asset:      "EURUSD",
			Side:       "BUY",
			Quantity:   1,
			EntryPrice: 100,
			ExitPrice:  100 + pnl,
			ProfitLoss: pnl,
			Balance:    balance,
		}
	}
	return trades
}

func TestComputeSortsByTimestamp(t *testing.T) {
	trades := makeLedger(5, time.Minute, []float64{10}, 1000)
	shuffled := []Trade{trades[3], trades[0], trades[4], trades[2], trades[1]}

	frame := Compute(shuffled)

	require.Len(t, frame, 5)
	for i := 1; i < len(frame); i++ {
		assert.False(t, frame[i].Timestamp.Before(frame[i-1].Timestamp))
	}
}

func TestStreakIndexAlternating(t *testing.T) {
	frame := Compute(makeLedger(20, time.Minute, []float64{10, -10}, 1000))

	require.Len(t, frame, 20)
	for i, tf := range frame {
		want := 1
		if i%2 == 1 {
			want = -1
		}
		assert.Equal(t, want, tf.StreakIndex, "trade %d", i)
	}
}

func TestStreakIndexRuns(t *testing.T) {
	pnls := []float64{10, 10, 10, -5, -5, 10, -5, -5, -5, -5}
	frame := Compute(makeLedger(len(pnls), time.Minute, pnls, 1000))

	want := []int{1, 2, 3, -1, -2, 1, -1, -2, -3, -4}
	for i, tf := range frame {
		assert.Equal(t, want[i], tf.StreakIndex, "trade %d", i)
	}
}

func TestTradeClusterCounts(t *testing.T) {
	// One trade per minute: every earlier trade stays inside the 1h window.
	frame := Compute(makeLedger(20, time.Minute, []float64{10, -10}, 1000))

	for i, tf := range frame {
		assert.Equal(t, i+1, tf.Trades1h, "trade %d", i)
		assert.Equal(t, i+1, tf.Trades4h, "trade %d", i)
		assert.GreaterOrEqual(t, tf.Trades1h, 1)
	}
}

func TestTradeClusterLeftBoundaryExclusive(t *testing.T) {
	trades := []Trade{
		{Timestamp: sessionStart, ProfitLoss: 5, Balance: 1005},
		{Timestamp: sessionStart.Add(time.Hour), ProfitLoss: 5, Balance: 1010},
	}
	frame := Compute(trades)

	// The second trade's 1h window is (t-3600, t]; the first trade sits
	// exactly on the excluded left edge.
	assert.Equal(t, 1, frame[1].Trades1h)
	assert.Equal(t, 2, frame[1].Trades4h)
}

func TestVolatilityProxy(t *testing.T) {
	frame := Compute(makeLedger(3, time.Minute, []float64{10, -10}, 1000))

	assert.Equal(t, 0.0, frame[0].VolatilityProxy) // single sample window
	assert.InDelta(t, math.Sqrt(200), frame[1].VolatilityProxy, 1e-9)
}

func TestDrawdown(t *testing.T) {
	trades := []Trade{
		{Timestamp: sessionStart, ProfitLoss: 100, Balance: 1100},
		{Timestamp: sessionStart.Add(time.Minute), ProfitLoss: 10, Balance: 1110},
		{Timestamp: sessionStart.Add(2 * time.Minute), ProfitLoss: -111, Balance: 999},
	}
	frame := Compute(trades)

	assert.Equal(t, 0.0, frame[0].Drawdown)
	assert.Equal(t, 0.0, frame[1].Drawdown)
	assert.InDelta(t, (999.0-1110.0)/1110.0*100, frame[2].Drawdown, 1e-9)
	assert.Equal(t, frame[2].Drawdown, frame[2].DrawdownAtTrade)
}

func TestPnLPercentAndPositionSize(t *testing.T) {
	trades := []Trade{
		{Timestamp: sessionStart, Quantity: 2, EntryPrice: 50, ProfitLoss: 10, Balance: 1010},
		{Timestamp: sessionStart.Add(time.Minute), Quantity: 4, EntryPrice: 50, ProfitLoss: -20.2, Balance: 989.8},
	}
	frame := Compute(trades)

	// First trade has no prior balance; its own balance is the base.
	assert.InDelta(t, 10.0/1010.0*100, frame[0].PnLPercent, 1e-9)
	assert.InDelta(t, -20.2/1010.0*100, frame[1].PnLPercent, 1e-9)

	assert.InDelta(t, 100, frame[0].Notional, 1e-9)
	assert.InDelta(t, 100.0/1010.0*100, frame[0].PositionSizePct, 1e-9)
}

func TestAfterLossFlags(t *testing.T) {
	frame := Compute(makeLedger(4, time.Minute, []float64{-10, 10}, 1000))

	assert.False(t, frame[0].AfterLoss, "first trade never counts as post-loss")
	assert.True(t, frame[1].AfterLoss)
	assert.False(t, frame[2].AfterLoss)
	assert.True(t, frame[3].AfterLoss)
}

func TestComputeIsDeterministic(t *testing.T) {
	trades := makeLedger(50, 45*time.Second, []float64{12, -8, 3, -15, 7}, 5000)

	a := Compute(trades)
	b := Compute(trades)

	assert.True(t, reflect.DeepEqual(a, b))
}

func TestComputeEmptyLedger(t *testing.T) {
	assert.Empty(t, Compute(nil))
	assert.Empty(t, Compute([]Trade{}))
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	trades := makeLedger(5, time.Minute, []float64{10}, 1000)
	shuffled := []Trade{trades[4], trades[1], trades[0], trades[3], trades[2]}
	snapshot := make([]Trade, len(shuffled))
	copy(snapshot, shuffled)

	Compute(shuffled)

	assert.True(t, reflect.DeepEqual(snapshot, shuffled))
}
