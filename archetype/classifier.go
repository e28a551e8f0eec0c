// Package archetype assigns a trader to one of four behavioral archetypes.
//
// A single session cannot be clustered against a population, so this is a
// deterministic rule-based heuristic over raw session features and the
// already-computed bias scores, not statistical clustering.
package archetype

import (
	"math"

	"github.com/aristath/tradelens/bias"
	"github.com/aristath/tradelens/features"
	"github.com/aristath/tradelens/pkg/formulas"
)

// Archetype labels
const (
	SystematicDisciplined   = "Systematic Disciplined"
	AggressiveOpportunistic = "Aggressive Opportunistic"
	EmotionallyReactive     = "Emotionally Reactive"
	ConservativeDefensive   = "Conservative Defensive"
)

var descriptions = map[string]string{
	SystematicDisciplined:   "Consistent position sizing, controlled drawdowns, steady frequency, and balanced holding times. Low emotional reactivity.",
	AggressiveOpportunistic: "High position size variability, frequent trading, short holding times. Seeks rapid gains but accepts larger drawdowns.",
	EmotionallyReactive:     "Erratic behaviour after losses, position size spikes, inconsistent cooldown periods. High revenge-trading risk.",
	ConservativeDefensive:   "Small position sizes, long holding times, low trade frequency. Prefers safety over growth.",
}

// Raw-feature breach thresholds, one heuristic point each
const (
	tradeFreqThreshold = 100  // trades per hour
	posVarThreshold    = 150  // std of position_size_pct
	ddToleranceLimit   = 100  // |min drawdown| percent
	holdStdThreshold   = 1000 // std of holding duration, seconds
)

// Result is one classified archetype with its supporting numbers
type Result struct {
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details"`
}

// Classify maps a feature frame plus the five bias scores to an archetype.
//
// The integer heuristic collects up to 4 points from raw-feature threshold
// breaches, 0-3 points from the mean bias score, and +1 when revenge trading
// is high. Score to archetype: <=1 Conservative Defensive, 2-3 Systematic
// Disciplined, 4-5 Aggressive Opportunistic, >=6 Emotionally Reactive.
func Classify(f features.Frame, scores map[string]float64) Result {
	posVar := formulas.StdDev(f.Column(func(t features.TradeFeatures) float64 { return t.PositionSizePct }))
	holdStd := formulas.StdDev(f.Column(func(t features.TradeFeatures) float64 { return t.HoldingDuration }))

	minDrawdown := 0.0
	for _, t := range f {
		if t.Drawdown < minDrawdown {
			minDrawdown = t.Drawdown
		}
	}
	ddTolerance := math.Abs(minDrawdown)

	tradeFreq := float64(len(f)) / math.Max(f.DurationHours(), 0.01)

	score := 0
	if tradeFreq > tradeFreqThreshold {
		score++
	}
	if posVar > posVarThreshold {
		score++
	}
	if ddTolerance > ddToleranceLimit {
		score++
	}
	if holdStd > holdStdThreshold {
		score++
	}

	avgBias := 0.0
	if len(scores) > 0 {
		for _, s := range scores {
			avgBias += s
		}
		avgBias /= float64(len(scores))
	}
	switch {
	case avgBias > 70:
		score += 3
	case avgBias > 50:
		score += 2
	case avgBias > 30:
		score++
	}

	if scores[bias.RevengeTrading] > 60 {
		score++
	}

	var label string
	switch {
	case score <= 1:
		label = ConservativeDefensive
	case score <= 3:
		label = SystematicDisciplined
	case score <= 5:
		label = AggressiveOpportunistic
	default:
		label = EmotionallyReactive
	}

	return Result{
		Label:       label,
		Description: descriptions[label],
		Details: map[string]any{
			"position_size_variability": formulas.Round2(posVar),
			"drawdown_tolerance":        formulas.Round2(ddTolerance),
			"trade_frequency":           formulas.Round2(tradeFreq),
			"holding_time_variability":  formulas.Round2(holdStd),
			"average_bias_score":        formulas.Round2(avgBias),
			"heuristic_score":           score,
		},
	}
}
