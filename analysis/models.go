package analysis

import (
	"github.com/aristath/tradelens/archetype"
	"github.com/aristath/tradelens/bias"
	"github.com/aristath/tradelens/features"
)

// Result is the full analysis bundle for one session. Every field is
// computed fresh per call and owned by the caller; nothing is shared or
// mutated after return.
type Result struct {
	AnalysisID     string           `json:"analysis_id"`
	FeatureSummary features.Summary `json:"feature_summary"`

	Overtrading    bias.Score `json:"overtrading"`
	LossAversion   bias.Score `json:"loss_aversion"`
	RevengeTrading bias.Score `json:"revenge_trading"`
	Anchoring      bias.Score `json:"anchoring"`
	Overconfidence bias.Score `json:"overconfidence"`

	Archetype archetype.Result `json:"archetype"`

	EquityCurve           []features.EquityPoint         `json:"equity_curve"`
	TradeFrequency        features.TradeFrequency        `json:"trade_frequency"`
	HoldingTimeComparison features.HoldingTimeComparison `json:"holding_time_comparison"`
	PositionScatter       []features.ScatterPoint        `json:"position_scatter"`

	// Frame is the enriched feature frame the bundle was derived from, kept
	// so callers can feed the counterfactual simulator or the temporal
	// timeline without recomputing features. Not serialized.
	Frame features.Frame `json:"-"`
}

// BiasScores returns the five composite scores keyed by bias name
func (r *Result) BiasScores() map[string]float64 {
	return map[string]float64{
		bias.Overtrading:    r.Overtrading.Score,
		bias.LossAversion:   r.LossAversion.Score,
		bias.RevengeTrading: r.RevengeTrading.Score,
		bias.Anchoring:      r.Anchoring.Score,
		bias.Overconfidence: r.Overconfidence.Score,
	}
}
