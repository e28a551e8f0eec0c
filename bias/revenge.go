package bias

import (
	"math"

	"github.com/aristath/tradelens/features"
	"github.com/aristath/tradelens/pkg/formulas"
)

// Revenge-trading sub-signal weights
const (
	rtWeightDeterioration = 0.20
	rtWeightExpectancy    = 0.20
	rtWeightEscalation    = 0.25
	rtWeightVolatility    = 0.20
	rtWeightAggression    = 0.15
)

// DetectRevengeTrading scores emotionally-driven trading after losses.
//
// Signals:
//   - performance deterioration: standardized mean-P&L gap between the
//     after-loss and after-win buckets; the sigmoid tightens when a Welch
//     t-test confirms the gap in the expected direction (p < 0.05)
//   - negative post-loss expectancy: losing on average right after a loss
//   - loss escalation: losses at streak depth 2 larger than at depth 1
//   - P&L volatility inflation after losses
//   - position-size aggression after losses
//
// Needs at least 10 trades with 5 per after-loss/after-win bucket.
func DetectRevengeTrading(f features.Frame) (float64, map[string]any) {
	details := map[string]any{}

	afterLoss, afterWin := f.AfterLosses(), f.AfterWins()
	if len(f) < 10 || len(afterLoss) < 5 || len(afterWin) < 5 {
		return 0, insufficientData()
	}

	lossPnL, winPnL := afterLoss.PnL(), afterWin.PnL()
	meanAfterLoss, meanAfterWin := formulas.Mean(lossPnL), formulas.Mean(winPnL)

	// 1. Performance deterioration
	deteriorationScore := 0.0
	allStd := formulas.StdDev(f.PnL())
	if allStd > 0 {
		gap := (meanAfterWin - meanAfterLoss) / allStd
		details["post_loss_performance_gap"] = formulas.Round3(gap)

		ttest := formulas.WelchTTest(lossPnL, winPnL)
		details["post_loss_ttest_p"] = formulas.Round4(ttest.P)
		significant := ttest.P < 0.05 && meanAfterLoss < meanAfterWin
		details["post_loss_significant"] = significant
		if significant {
			deteriorationScore = formulas.Sigmoid(gap, 0.20, 8)
		} else {
			deteriorationScore = formulas.Sigmoid(gap, 0.50, 4)
		}
	}

	// 2. Negative post-loss expectancy
	expectancyScore := 0.0
	details["post_loss_expectancy"] = formulas.Round3(meanAfterLoss)
	if meanAfterLoss < 0 {
		meanAbsPnL := formulas.MeanAbs(f.PnL())
		if meanAbsPnL > 0 {
			expectancyScore = formulas.Sigmoid(math.Abs(meanAfterLoss)/meanAbsPnL, 0.5, 5)
		}
	}

	// 3. Loss escalation across streak depth
	escalationScore := 0.0
	depthOne := streakLosses(f, 1)
	depthTwo := streakLosses(f, 2)
	deepCount := 0
	for _, t := range f {
		if t.StreakIndex <= -2 {
			deepCount++
		}
	}
	if deepCount > 3 && len(depthOne) > 0 && len(depthTwo) > 0 {
		meanOne := formulas.MeanAbs(depthOne)
		meanTwo := formulas.MeanAbs(depthTwo)
		if meanOne > 0 {
			ratio := meanTwo / meanOne
			escalationScore = formulas.Sigmoid(ratio-1, 0.3, 5)
			details["loss_escalation_ratio"] = formulas.Round3(ratio)
		}
	}

	// 4. P&L volatility ratio
	volatilityScore := 0.0
	stdAfterWin := formulas.StdDev(winPnL)
	if stdAfterWin > 0 {
		ratio := formulas.StdDev(lossPnL) / stdAfterWin
		volatilityScore = formulas.Sigmoid(ratio-1, 0.5, 4)
		details["post_loss_volatility_ratio"] = formulas.Round3(ratio)
	}

	// 5. Position-size aggression
	aggressionScore := 0.0
	sizeAfterWin := meanNotional(afterWin)
	if sizeAfterWin > 0 {
		ratio := meanNotional(afterLoss) / sizeAfterWin
		aggressionScore = formulas.Sigmoid(ratio-1, 0.25, 6)
		details["post_loss_aggression_index"] = formulas.Round3(ratio)
	}

	composite := rtWeightDeterioration*deteriorationScore +
		rtWeightExpectancy*expectancyScore +
		rtWeightEscalation*escalationScore +
		rtWeightVolatility*volatilityScore +
		rtWeightAggression*aggressionScore

	return finish(composite, details, map[string]float64{
		"performance_deterioration": deteriorationScore,
		"post_loss_expectancy":      expectancyScore,
		"loss_escalation":           escalationScore,
		"volatility_inflation":      volatilityScore,
		"size_aggression":           aggressionScore,
	}), details
}

// streakLosses returns the P&L of losses sitting exactly at the given streak
// depth (depth 1 = first loss of a run, depth 2 = second consecutive loss).
func streakLosses(f features.Frame, depth int) []float64 {
	var out []float64
	for _, t := range f {
		if t.StreakIndex == -depth {
			out = append(out, t.ProfitLoss)
		}
	}
	return out
}
