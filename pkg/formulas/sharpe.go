package formulas

import "math"

// SharpeRatio calculates a simplified annualised Sharpe-like ratio from
// per-trade P&L values.
//
// Sharpe Formula (simplified, no risk-free rate):
//
//	Sharpe = mean(P&L) / stddev(P&L) * sqrt(252)
//
// Returns 0 when the P&L series has zero variance.
func SharpeRatio(pnl []float64) float64 {
	sd := StdDev(pnl)
	if sd == 0 {
		return 0
	}
	return Mean(pnl) / sd * math.Sqrt(252)
}

// MaxDrawdownPct calculates the worst drawdown of a balance series as a
// negative percentage below the running peak. A non-positive peak contributes
// no drawdown.
func MaxDrawdownPct(balances []float64) float64 {
	if len(balances) == 0 {
		return 0
	}
	worst := 0.0
	peak := balances[0]
	for _, b := range balances {
		if b > peak {
			peak = b
		}
		if peak != 0 {
			dd := (b - peak) / peak * 100
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
