package features

import "github.com/aristath/tradelens/pkg/formulas"

// Summary aggregates one whole session
type Summary struct {
	TotalTrades       int     `json:"total_trades"`
	WinRate           float64 `json:"win_rate"` // percent
	AvgWin            float64 `json:"avg_win"`
	AvgLoss           float64 `json:"avg_loss"`
	AvgHoldingWinSec  float64 `json:"avg_holding_win_sec"`
	AvgHoldingLossSec float64 `json:"avg_holding_loss_sec"`
	TradesPerHour     float64 `json:"trades_per_hour"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	MaxDrawdownPct    float64 `json:"max_drawdown_pct"`
	FinalBalance      float64 `json:"final_balance"`
	TotalPnL          float64 `json:"total_pnl"`
	DurationHours     float64 `json:"duration_hours"`
}

// Summarize computes session-level statistics from a feature frame.
// An empty frame yields the zero Summary.
func Summarize(f Frame) Summary {
	if len(f) == 0 {
		return Summary{}
	}

	wins := f.Wins()
	losses := f.Losses()

	duration := f.DurationHours()
	tradesPerHour := 0.0
	if duration > 0 {
		tradesPerHour = float64(len(f)) / duration
	}

	pnl := f.PnL()
	totalPnL := 0.0
	for _, v := range pnl {
		totalPnL += v
	}

	maxDD := 0.0
	for _, t := range f {
		if t.Drawdown < maxDD {
			maxDD = t.Drawdown
		}
	}

	holding := func(sub Frame) float64 {
		return formulas.Mean(sub.Column(func(t TradeFeatures) float64 { return t.HoldingDuration }))
	}

	return Summary{
		TotalTrades:       len(f),
		WinRate:           formulas.Round2(float64(len(wins)) / float64(len(f)) * 100),
		AvgWin:            formulas.Round2(formulas.Mean(wins.PnL())),
		AvgLoss:           formulas.Round2(formulas.Mean(losses.PnL())),
		AvgHoldingWinSec:  formulas.Round2(holding(wins)),
		AvgHoldingLossSec: formulas.Round2(holding(losses)),
		TradesPerHour:     formulas.Round2(tradesPerHour),
		SharpeRatio:       formulas.Round4(formulas.SharpeRatio(pnl)),
		MaxDrawdownPct:    formulas.Round2(maxDD),
		FinalBalance:      formulas.Round2(f[len(f)-1].Balance),
		TotalPnL:          formulas.Round2(totalPnL),
		DurationHours:     formulas.Round2(duration),
	}
}
