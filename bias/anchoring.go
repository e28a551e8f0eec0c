package bias

import (
	"math"

	"github.com/aristath/tradelens/features"
	"github.com/aristath/tradelens/pkg/formulas"
)

// Anchoring sub-signal weights
const (
	anWeightBreakeven  = 0.40
	anWeightMedianPnL  = 0.35
	anWeightRoundPrice = 0.25
)

// Thresholds for the anchoring fractions
const (
	breakevenTolerance  = 0.001 // exit within 0.1% of entry
	medianPnLTolerance  = 0.05  // |P&L| within 5% of the session median
	roundPriceTolerance = 0.01  // exit within 0.01 of an integer price
)

// DetectAnchoring scores fixation on reference prices.
//
// Signals (all linear fractions, no sigmoid):
//   - exits clustered at breakeven (within 0.1% of entry), x2.5
//   - |P&L| clustered around the session median |P&L|, x2.0
//   - exits clustered on round-number prices, x1.0
//
// Needs at least 10 trades.
func DetectAnchoring(f features.Frame) (float64, map[string]any) {
	details := map[string]any{}

	if len(f) < 10 {
		return 0, insufficientData()
	}

	n := float64(len(f))

	// 1. Breakeven exits
	breakeven := 0
	for _, t := range f {
		if t.EntryPrice != 0 && math.Abs(t.ExitPrice-t.EntryPrice)/math.Abs(t.EntryPrice) <= breakevenTolerance {
			breakeven++
		}
	}
	breakevenFrac := float64(breakeven) / n
	breakevenScore := formulas.Clamp(breakevenFrac*100*2.5, 0, 100)
	details["breakeven_exit_fraction"] = formulas.Round3(breakevenFrac)

	// 2. P&L magnitudes pinned near the session median
	absPnL := make([]float64, len(f))
	for i, t := range f {
		absPnL[i] = math.Abs(t.ProfitLoss)
	}
	medianAbs := formulas.Median(absPnL)
	nearMedian := 0
	if medianAbs > 0 {
		for _, v := range absPnL {
			if math.Abs(v-medianAbs)/medianAbs <= medianPnLTolerance {
				nearMedian++
			}
		}
	}
	medianFrac := float64(nearMedian) / n
	medianScore := formulas.Clamp(medianFrac*100*2.0, 0, 100)
	details["median_pnl_fraction"] = formulas.Round3(medianFrac)

	// 3. Round-number exits
	round := 0
	for _, t := range f {
		_, frac := math.Modf(math.Abs(t.ExitPrice))
		if frac <= roundPriceTolerance || frac >= 1-roundPriceTolerance {
			round++
		}
	}
	roundFrac := float64(round) / n
	roundScore := formulas.Clamp(roundFrac*100, 0, 100)
	details["round_price_fraction"] = formulas.Round3(roundFrac)

	composite := anWeightBreakeven*breakevenScore +
		anWeightMedianPnL*medianScore +
		anWeightRoundPrice*roundScore

	return finish(composite, details, map[string]float64{
		"breakeven_exits":  breakevenScore,
		"median_pnl_pin":   medianScore,
		"round_number_pin": roundScore,
	}), details
}
