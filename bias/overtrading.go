package bias

import (
	"math"

	"github.com/aristath/tradelens/features"
	"github.com/aristath/tradelens/pkg/formulas"
)

// Overtrading sub-signal weights
const (
	otWeightFrequency   = 0.40
	otWeightPostLoss    = 0.25
	otWeightCluster     = 0.20
	otWeightCorrelation = 0.15
)

// DetectOvertrading scores excessive trading activity.
//
// Signals:
//   - raw trade frequency (trades/hour, sigmoid midpoint 120/h)
//   - post-loss acceleration: shrinking idle time after losses vs after wins
//   - cluster density: average trailing 1h trade count
//   - loss-streak depth correlating with trade frequency (Pearson, counted
//     only when positive and significant at p < 0.1)
//
// A session without positive duration cannot produce a frequency and returns
// the insufficient-data degenerate result.
func DetectOvertrading(f features.Frame) (float64, map[string]any) {
	details := map[string]any{}

	duration := f.DurationHours()
	if duration <= 0 {
		return 0, insufficientData()
	}

	// 1. Raw frequency
	tradesPerHour := float64(len(f)) / duration
	freqScore := formulas.Sigmoid(tradesPerHour, 120, 0.02)
	details["trades_per_hour"] = formulas.Round2(tradesPerHour)

	// 2. Post-loss acceleration
	postLossScore := 0.0
	afterLoss, afterWin := f.AfterLosses(), f.AfterWins()
	if len(afterLoss) >= 5 && len(afterWin) >= 5 {
		idleLoss, idleWin := meanIdle(afterLoss), meanIdle(afterWin)
		if idleLoss > 0 && idleWin > 0 {
			ratio := idleLoss / idleWin
			postLossScore = formulas.Sigmoid(1-ratio, 0.05, 30)
			details["post_loss_cooldown_ratio"] = formulas.Round3(ratio)
		}
	}

	// 3. Cluster density
	clusterDensity := formulas.Mean(f.Column(func(t features.TradeFeatures) float64 {
		return float64(t.Trades1h)
	}))
	clusterScore := formulas.Sigmoid(clusterDensity, 450, 0.006)
	details["avg_cluster_density_1h"] = formulas.Round2(clusterDensity)

	// 4. Loss-streak depth vs trade frequency
	corrScore := 0.0
	losses := f.Losses()
	if len(losses) > 10 {
		depth := make([]float64, len(losses))
		freq := make([]float64, len(losses))
		for i, t := range losses {
			depth[i] = math.Abs(float64(t.StreakIndex))
			freq[i] = float64(t.Trades1h)
		}
		r, p := formulas.PearsonTest(depth, freq)
		details["loss_streak_freq_corr"] = formulas.Round4(r)
		details["loss_streak_freq_pval"] = formulas.Round4(p)
		if p < 0.1 && r > 0 {
			corrScore = formulas.Sigmoid(r, 0.15, 15)
		}
	}

	composite := otWeightFrequency*freqScore +
		otWeightPostLoss*postLossScore +
		otWeightCluster*clusterScore +
		otWeightCorrelation*corrScore

	return finish(composite, details, map[string]float64{
		"frequency":               freqScore,
		"post_loss_frequency":     postLossScore,
		"cluster_density":         clusterScore,
		"loss_streak_correlation": corrScore,
	}), details
}
