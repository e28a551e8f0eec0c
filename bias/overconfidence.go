package bias

import (
	"github.com/aristath/tradelens/features"
	"github.com/aristath/tradelens/pkg/formulas"
)

// Overconfidence sub-signal weights
const (
	ocWeightEscalation    = 0.25
	ocWeightAcceleration  = 0.25
	ocWeightConcentration = 0.15
	ocWeightGiveback      = 0.20
	ocWeightPeakSizing    = 0.15
)

// Drawdown bucket boundaries for the peak-sizing signal, in percent below
// the running peak.
const (
	nearPeakDrawdown = -1.0
	deepDrawdown     = -5.0
)

// DetectOverconfidence scores escalating risk appetite during win streaks,
// the mirror image of revenge trading.
//
// Signals:
//   - notional escalation after wins vs after losses
//   - idle-time acceleration while riding a streak of 2+ wins
//   - narrowing asset focus during win streaks
//   - giveback: the first loss after a 3+ win streak dwarfing the average loss
//   - sizing up near peak equity vs in deep drawdown
//
// Needs at least 10 trades.
func DetectOverconfidence(f features.Frame) (float64, map[string]any) {
	details := map[string]any{}

	if len(f) < 10 {
		return 0, insufficientData()
	}

	afterLoss, afterWin := f.AfterLosses(), f.AfterWins()

	// 1. Post-win notional escalation
	escalationScore := 0.0
	sizeAfterLoss := meanNotional(afterLoss)
	if sizeAfterLoss > 0 && len(afterWin) > 0 {
		ratio := meanNotional(afterWin) / sizeAfterLoss
		escalationScore = formulas.Sigmoid(ratio-1, 0.25, 6)
		details["post_win_escalation_ratio"] = formulas.Round3(ratio)
	}

	// 2. Idle-time acceleration during win streaks
	accelerationScore := 0.0
	streaking := winStreakTrades(f, 2)
	rest := nonStreakTrades(f, 2)
	if len(streaking) >= 3 && len(rest) >= 3 {
		idleStreak, idleRest := meanIdle(streaking), meanIdle(rest)
		if idleStreak > 0 && idleRest > 0 {
			ratio := idleStreak / idleRest
			accelerationScore = formulas.Sigmoid(1-ratio, 0.2, 6)
			details["streak_idle_ratio"] = formulas.Round3(ratio)
		}
	}

	// 3. Asset concentration during win streaks
	concentrationScore := 0.0
	if len(streaking) >= 3 {
		unique := map[string]struct{}{}
		for _, t := range streaking {
			unique[t.Asset] = struct{}{}
		}
		concentration := 1 - float64(len(unique))/float64(len(streaking))
		concentrationScore = formulas.Sigmoid(concentration, 0.5, 6)
		details["streak_asset_concentration"] = formulas.Round3(concentration)
	}

	// 4. Giveback after long win streaks
	givebackScore := 0.0
	givebacks := postStreakLosses(f, 3)
	avgLoss := formulas.MeanAbs(f.Losses().PnL())
	if len(givebacks) > 0 && avgLoss > 0 {
		ratio := formulas.MeanAbs(givebacks) / avgLoss
		givebackScore = formulas.Sigmoid(ratio-1, 0.5, 3)
		details["post_streak_giveback_ratio"] = formulas.Round3(ratio)
	}

	// 5. Sizing near peak equity vs deep drawdown
	peakSizingScore := 0.0
	peakSizes, drawdownSizes := sizingBuckets(f)
	if len(peakSizes) >= 3 && len(drawdownSizes) >= 3 {
		meanDrawdownSize := formulas.Mean(drawdownSizes)
		if meanDrawdownSize > 0 {
			ratio := formulas.Mean(peakSizes) / meanDrawdownSize
			peakSizingScore = formulas.Sigmoid(ratio-1, 0.3, 4)
			details["peak_sizing_ratio"] = formulas.Round3(ratio)
		}
	}

	composite := ocWeightEscalation*escalationScore +
		ocWeightAcceleration*accelerationScore +
		ocWeightConcentration*concentrationScore +
		ocWeightGiveback*givebackScore +
		ocWeightPeakSizing*peakSizingScore

	return finish(composite, details, map[string]float64{
		"notional_escalation":  escalationScore,
		"idle_acceleration":    accelerationScore,
		"asset_concentration":  concentrationScore,
		"post_streak_giveback": givebackScore,
		"peak_sizing":          peakSizingScore,
	}), details
}

// winStreakTrades returns trades sitting at win-streak depth >= minDepth
func winStreakTrades(f features.Frame, minDepth int) features.Frame {
	var out features.Frame
	for _, t := range f {
		if t.StreakIndex >= minDepth {
			out = append(out, t)
		}
	}
	return out
}

// nonStreakTrades returns trades outside any win streak of depth >= minDepth
func nonStreakTrades(f features.Frame, minDepth int) features.Frame {
	var out features.Frame
	for _, t := range f {
		if t.StreakIndex < minDepth {
			out = append(out, t)
		}
	}
	return out
}

// postStreakLosses returns the P&L of losses taken immediately after a win
// streak of at least minStreak
func postStreakLosses(f features.Frame, minStreak int) []float64 {
	var out []float64
	for i := 1; i < len(f); i++ {
		if !f[i].IsWin && f[i-1].StreakIndex >= minStreak {
			out = append(out, f[i].ProfitLoss)
		}
	}
	return out
}

// sizingBuckets splits position sizes into near-peak and deep-drawdown
// buckets by the drawdown at trade time
func sizingBuckets(f features.Frame) (peak, deep []float64) {
	for _, t := range f {
		switch {
		case t.DrawdownAtTrade >= nearPeakDrawdown:
			peak = append(peak, t.PositionSizePct)
		case t.DrawdownAtTrade <= deepDrawdown:
			deep = append(deep, t.PositionSizePct)
		}
	}
	return peak, deep
}
