package features

import "time"

// Trade is one cleaned execution row from the ingestion layer. The ledger it
// belongs to is assumed schema-valid; column presence and type checking
// happen upstream.
type Trade struct {
	Timestamp  time.Time `json:"timestamp"`
	Asset      string    `json:"asset"`
	Side       string    `json:"side"` // BUY or SELL
	Quantity   float64   `json:"quantity"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	ProfitLoss float64   `json:"profit_loss"`
	Balance    float64   `json:"balance"` // account balance after this trade
}

// TradeFeatures is the enriched 1:1 derivation of a Trade
type TradeFeatures struct {
	Trade

	IsWin           bool    `json:"is_win"`
	PnLPercent      float64 `json:"pnl_percent"`
	Notional        float64 `json:"notional"`
	PositionSizePct float64 `json:"position_size_pct"`
	TimeSinceLast   float64 `json:"time_since_last"` // seconds since prior trade
	HoldingDuration float64 `json:"holding_duration"`
	PeakBalance     float64 `json:"peak_balance"`
	Drawdown        float64 `json:"drawdown"` // % below running peak, <= 0
	DrawdownAtTrade float64 `json:"drawdown_at_trade"`
	StreakIndex     int     `json:"streak_index"` // signed consecutive win/loss run length
	Trades1h        int     `json:"trades_1h"`
	Trades4h        int     `json:"trades_4h"`
	VolatilityProxy float64 `json:"volatility_proxy"`
	AfterLoss       bool    `json:"after_loss"`
	PrevNotional    float64 `json:"prev_notional"`
	SizeDelta       float64 `json:"size_delta"`
}

// Frame is the feature-enriched ledger, sorted ascending by timestamp
type Frame []TradeFeatures

// DurationHours returns the session span in hours
func (f Frame) DurationHours() float64 {
	if len(f) < 2 {
		return 0
	}
	return f[len(f)-1].Timestamp.Sub(f[0].Timestamp).Hours()
}

// PnL extracts the profit_loss column
func (f Frame) PnL() []float64 {
	out := make([]float64, len(f))
	for i, t := range f {
		out[i] = t.ProfitLoss
	}
	return out
}

// Balances extracts the balance column
func (f Frame) Balances() []float64 {
	out := make([]float64, len(f))
	for i, t := range f {
		out[i] = t.Balance
	}
	return out
}

// Wins returns the winning subset
func (f Frame) Wins() Frame {
	return f.filter(func(t TradeFeatures) bool { return t.IsWin })
}

// Losses returns the losing subset
func (f Frame) Losses() Frame {
	return f.filter(func(t TradeFeatures) bool { return !t.IsWin })
}

// AfterLosses returns trades taken immediately after a loss
func (f Frame) AfterLosses() Frame {
	return f.filter(func(t TradeFeatures) bool { return t.AfterLoss })
}

// AfterWins returns trades not taken immediately after a loss
func (f Frame) AfterWins() Frame {
	return f.filter(func(t TradeFeatures) bool { return !t.AfterLoss })
}

// Column extracts an arbitrary derived column
func (f Frame) Column(get func(TradeFeatures) float64) []float64 {
	out := make([]float64, len(f))
	for i, t := range f {
		out[i] = get(t)
	}
	return out
}

func (f Frame) filter(keep func(TradeFeatures) bool) Frame {
	var out Frame
	for _, t := range f {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
