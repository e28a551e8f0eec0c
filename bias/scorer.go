// Package bias scores behavioral trading biases on a 0-100 scale.
//
// Each detector inspects the feature frame independently and returns a
// composite score built from 3-5 weighted sub-signals, plus a details map of
// the raw signals and sub-scores that produced it. Sessions too small to
// score return (0, {"reason": "insufficient_data"}) as a degenerate result,
// not an error.
package bias

import (
	"github.com/aristath/tradelens/features"
	"github.com/aristath/tradelens/pkg/formulas"
)

// Band labels for a 0-100 bias score
const (
	BandDisciplined = "disciplined" // score < 30
	BandElevated    = "elevated"    // 30 <= score < 60
	BandHighRisk    = "high_risk"   // score >= 60
)

// Bias names as reported in analysis results
const (
	Overtrading    = "overtrading"
	LossAversion   = "loss_aversion"
	RevengeTrading = "revenge_trading"
	Anchoring      = "anchoring"
	Overconfidence = "overconfidence"
)

// Names lists all biases in reporting order
var Names = []string{Overtrading, LossAversion, RevengeTrading, Anchoring, Overconfidence}

// Detector maps a feature frame to a composite score and its details
type Detector func(features.Frame) (float64, map[string]any)

// Detectors registers every bias detector by name
var Detectors = map[string]Detector{
	Overtrading:    DetectOvertrading,
	LossAversion:   DetectLossAversion,
	RevengeTrading: DetectRevengeTrading,
	Anchoring:      DetectAnchoring,
	Overconfidence: DetectOverconfidence,
}

// Score is one scored bias
type Score struct {
	Score   float64        `json:"score"`
	Band    string         `json:"band"`
	Details map[string]any `json:"details"`
}

// BandFor converts a 0-100 score to its categorical band
func BandFor(score float64) string {
	switch {
	case score < 30:
		return BandDisciplined
	case score < 60:
		return BandElevated
	default:
		return BandHighRisk
	}
}

// Run executes one detector and wraps the result with its band
func Run(name string, f features.Frame) Score {
	score, details := Detectors[name](f)
	return Score{Score: score, Band: BandFor(score), Details: details}
}

func insufficientData() map[string]any {
	return map[string]any{"reason": "insufficient_data"}
}

// finish rounds and clamps a composite and records the sub-score breakdown
func finish(composite float64, details map[string]any, subScores map[string]float64) float64 {
	rounded := make(map[string]float64, len(subScores))
	for name, s := range subScores {
		rounded[name] = formulas.Round1(s)
	}
	details["sub_scores"] = rounded
	return formulas.Round1(formulas.Clamp(composite, 0, 100))
}

func meanIdle(f features.Frame) float64 {
	return formulas.Mean(f.Column(func(t features.TradeFeatures) float64 { return t.TimeSinceLast }))
}

func meanNotional(f features.Frame) float64 {
	return formulas.Mean(f.Column(func(t features.TradeFeatures) float64 { return t.Notional }))
}
