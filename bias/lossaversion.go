package bias

import (
	"math"

	"github.com/aristath/tradelens/features"
	"github.com/aristath/tradelens/pkg/formulas"
)

// Loss-aversion sub-signal weights
const (
	laWeightMagnitude = 0.45
	laWeightHolding   = 0.20
	laWeightSkew      = 0.15
	laWeightParadox   = 0.20
)

// DetectLossAversion scores asymmetric treatment of losses vs wins.
//
// Signals:
//   - magnitude asymmetry: average loss larger than average win
//   - holding asymmetry: losers held longer than winners
//   - loss skew: mean loss far above median loss (a few blowups)
//   - win-rate paradox: decent hit rate paired with oversized losses
//
// Needs at least 5 wins and 5 losses; the Welch t-test on holding durations
// is recorded for diagnostics only and never moves the score.
func DetectLossAversion(f features.Frame) (float64, map[string]any) {
	details := map[string]any{}

	wins, losses := f.Wins(), f.Losses()
	if len(wins) < 5 || len(losses) < 5 {
		return 0, insufficientData()
	}

	holdOf := func(t features.TradeFeatures) float64 { return t.HoldingDuration }

	// 1. Magnitude asymmetry
	avgLossSize := formulas.MeanAbs(losses.PnL())
	avgWinSize := formulas.MeanAbs(wins.PnL())
	magnitudeRatio := 1.0
	if avgWinSize > 0 {
		magnitudeRatio = avgLossSize / avgWinSize
	}
	magScore := formulas.Sigmoid(math.Log1p(magnitudeRatio), 0.7, 4)
	details["loss_win_magnitude_ratio"] = formulas.Round3(magnitudeRatio)

	// 2. Holding asymmetry
	avgHoldWin := formulas.Mean(wins.Column(holdOf))
	avgHoldLoss := formulas.Mean(losses.Column(holdOf))
	holdRatio := 1.0
	if avgHoldWin > 0 {
		holdRatio = avgHoldLoss / avgHoldWin
	}
	holdScore := formulas.Sigmoid(holdRatio-1, 0.5, 4)
	details["holding_ratio_loss_to_win"] = formulas.Round3(holdRatio)

	ttest := formulas.WelchTTest(losses.Column(holdOf), wins.Column(holdOf))
	details["holding_ttest_t"] = formulas.Round4(ttest.T)
	details["holding_ttest_p"] = formulas.Round4(ttest.P)
	details["holding_significant"] = ttest.P < 0.05

	// 3. Loss skew
	medianLoss := math.Abs(formulas.Median(losses.PnL()))
	skewRatio := 1.0
	if medianLoss > 0 {
		skewRatio = avgLossSize / medianLoss
	}
	skewScore := formulas.Sigmoid(skewRatio-1, 3.0, 1.0)
	details["loss_mean_median_ratio"] = formulas.Round3(skewRatio)

	// 4. Win-rate paradox: only meaningful when the trader wins often yet
	// still loses big, so it stays inactive outside that regime.
	paradoxScore := 0.0
	winRate := float64(len(wins)) / float64(len(f))
	details["win_rate"] = formulas.Round3(winRate)
	if winRate > 0.45 && magnitudeRatio > 2.0 {
		paradoxScore = formulas.Sigmoid(winRate*magnitudeRatio, 1.2, 2.5)
	}

	composite := laWeightMagnitude*magScore +
		laWeightHolding*holdScore +
		laWeightSkew*skewScore +
		laWeightParadox*paradoxScore

	return finish(composite, details, map[string]float64{
		"magnitude_asymmetry": magScore,
		"holding_asymmetry":   holdScore,
		"loss_skew":           skewScore,
		"win_rate_paradox":    paradoxScore,
	}), details
}
