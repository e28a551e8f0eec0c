// Package analysis composes the feature engine, bias scorers, and archetype
// classifier into one result bundle per session.
package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/tradelens/archetype"
	"github.com/aristath/tradelens/bias"
	"github.com/aristath/tradelens/features"
)

// Service orchestrates the full analysis pipeline
type Service struct {
	log zerolog.Logger
}

// NewService creates an analysis service
func NewService(log zerolog.Logger) *Service {
	return &Service{log: log.With().Str("service", "analysis").Logger()}
}

// Run executes the complete pipeline on a cleaned, schema-valid ledger.
//
// The call is pure and synchronous: one ledger in, one freshly-built bundle
// out. Degenerate sessions (too few trades, zero duration) produce zeroed
// scores with an insufficient-data reason rather than failing.
func (s *Service) Run(trades []features.Trade) *Result {
	t0 := time.Now()

	frame := features.Compute(trades)

	result := &Result{
		AnalysisID:     uuid.NewString(),
		FeatureSummary: features.Summarize(frame),

		Overtrading:    bias.Run(bias.Overtrading, frame),
		LossAversion:   bias.Run(bias.LossAversion, frame),
		RevengeTrading: bias.Run(bias.RevengeTrading, frame),
		Anchoring:      bias.Run(bias.Anchoring, frame),
		Overconfidence: bias.Run(bias.Overconfidence, frame),

		EquityCurve:           features.BuildEquityCurve(frame),
		TradeFrequency:        features.BuildTradeFrequency(frame),
		HoldingTimeComparison: features.BuildHoldingTimeComparison(frame),
		PositionScatter:       features.BuildPositionScatter(frame),

		Frame: frame,
	}
	result.Archetype = archetype.Classify(frame, result.BiasScores())

	s.log.Info().
		Str("analysis_id", result.AnalysisID).
		Int("trades", len(frame)).
		Str("archetype", result.Archetype.Label).
		Float64("elapsed_ms", float64(time.Since(t0).Microseconds())/1000).
		Msg("Analysis complete")

	return result
}
