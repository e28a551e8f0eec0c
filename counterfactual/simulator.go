// Package counterfactual replays a feature frame under alternative
// risk-management constraints and compares the outcome to the real session.
package counterfactual

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/tradelens/features"
	"github.com/aristath/tradelens/pkg/formulas"
)

// balanceDriftTolerance is the relative disagreement between the ledger's
// final balance and startBalance+sum(P&L) above which the simulator warns
// about an inconsistent ledger. Inconsistent ledgers are tolerated: the
// replay always derives its own running balance.
const balanceDriftTolerance = 1e-6

// Simulator replays trade ledgers under constraint sets
type Simulator struct {
	log zerolog.Logger
}

// NewSimulator creates a counterfactual simulator
func NewSimulator(log zerolog.Logger) *Simulator {
	return &Simulator{log: log.With().Str("service", "counterfactual").Logger()}
}

// simTrade carries the mutable replay state of one trade. Later rules see
// magnitudes already rescaled by earlier ones.
type simTrade struct {
	features.TradeFeatures
	included   bool
	excludedBy string
}

// Run replays the frame under the given constraints and returns before/after
// metrics, equity curves, and the per-rule exclusion breakdown.
//
// Rules apply in a fixed order; each acts on the subset surviving the rules
// before it:
//
//  1. max daily trades: excess trades per calendar day excluded
//  2. cooldown: sequential; excluded trades never reset the clock
//  3. loss-streak breaker
//  4. drawdown circuit breaker
//  5. position cap: rescales P&L and quantity, no exclusion
//  6. stop-loss: sequential running balance, reads the rescaled P&L
//
// An empty frame or a replay that excludes every trade returns the defined
// degenerate result rather than failing.
func (s *Simulator) Run(frame features.Frame, c Constraints) Result {
	t0 := time.Now()
	s.log.Info().
		Int("trades", len(frame)).
		Interface("constraints", c).
		Msg("Counterfactual simulation started")

	if len(frame) == 0 {
		return Result{
			Improvement:       map[string]float64{},
			Summary:           "No trades to simulate.",
			ExcludedBreakdown: map[string]int{},
		}
	}

	sim := make([]simTrade, len(frame))
	for i, t := range frame {
		sim[i] = simTrade{TradeFeatures: t, included: true}
	}

	startBalance := frame[0].Balance - frame[0].ProfitLoss
	s.checkBalanceContinuity(frame, startBalance)

	breakdown := map[string]int{}
	s.applyDailyLimit(sim, c, breakdown)
	s.applyCooldown(sim, c, breakdown)
	s.applyLossStreakBreaker(sim, c, breakdown)
	s.applyDrawdownBreaker(sim, c, breakdown)
	s.applyPositionCap(sim, c, breakdown)
	s.applyStopLoss(sim, c, startBalance, breakdown)

	for rule, count := range breakdown {
		if count == 0 {
			delete(breakdown, rule)
		}
	}

	included := make([]simTrade, 0, len(sim))
	for _, t := range sim {
		if t.included {
			included = append(included, t)
		}
	}

	origCurve := originalCurve(frame)
	origMetrics := computeMetrics(frame.PnL(), frame.Balances())

	if len(included) == 0 {
		s.log.Warn().Int("trades", len(frame)).Msg("All trades excluded by constraints")
		return Result{
			Original:             origMetrics,
			Simulated:            Metrics{},
			Improvement:          zeroImprovement(),
			Summary:              "All trades were excluded by the constraints.",
			EquityCurveOriginal:  origCurve,
			EquityCurveSimulated: []CurvePoint{},
			TradesOriginal:       len(frame),
			TradesSimulated:      0,
			ExcludedBreakdown:    breakdown,
		}
	}

	simPnL := make([]float64, len(included))
	simBalances := make([]float64, len(included))
	simCurve := make([]CurvePoint, len(included))
	running := startBalance
	for i, t := range included {
		simPnL[i] = t.ProfitLoss
		running += t.ProfitLoss
		simBalances[i] = running
		simCurve[i] = CurvePoint{Timestamp: t.Timestamp, Balance: formulas.Round2(running)}
	}

	// Extend the simulated curve to the original end so charts don't stop
	// short when late trades are excluded.
	if last := simCurve[len(simCurve)-1]; last.Timestamp.Before(origCurve[len(origCurve)-1].Timestamp) {
		simCurve = append(simCurve, CurvePoint{
			Timestamp: origCurve[len(origCurve)-1].Timestamp,
			Balance:   last.Balance,
		})
	}

	simMetrics := computeMetrics(simPnL, simBalances)
	improvement := improvementOver(origMetrics, simMetrics)

	result := Result{
		Original:             origMetrics,
		Simulated:            simMetrics,
		Improvement:          improvement,
		Summary:              summarize(improvement),
		EquityCurveOriginal:  origCurve,
		EquityCurveSimulated: simCurve,
		TradesOriginal:       len(frame),
		TradesSimulated:      len(included),
		ExcludedBreakdown:    breakdown,
	}

	s.log.Info().
		Int("included", len(included)).
		Int("trades", len(frame)).
		Float64("elapsed_ms", float64(time.Since(t0).Microseconds())/1000).
		Interface("breakdown", breakdown).
		Msg("Counterfactual simulation complete")

	return result
}

func (s *Simulator) checkBalanceContinuity(frame features.Frame, startBalance float64) {
	total := 0.0
	for _, t := range frame {
		total += t.ProfitLoss
	}
	derived := startBalance + total
	final := frame[len(frame)-1].Balance
	scale := math.Max(math.Abs(final), 1)
	if math.Abs(derived-final)/scale > balanceDriftTolerance {
		s.log.Warn().
			Float64("ledger_final", final).
			Float64("derived_final", derived).
			Msg("Ledger balance column disagrees with cumulative P&L; replay uses derived balances")
	}
}

// applyDailyLimit excludes trades past the Nth within each calendar day,
// counted in original order.
func (s *Simulator) applyDailyLimit(sim []simTrade, c Constraints, breakdown map[string]int) {
	if c.MaxDailyTrades == nil {
		return
	}
	rank := map[string]int{}
	for i := range sim {
		day := sim[i].Timestamp.Format("2006-01-02")
		rank[day]++
		if sim[i].included && rank[day] > *c.MaxDailyTrades {
			sim[i].included = false
			sim[i].excludedBy = RuleDailyLimit
			breakdown[RuleDailyLimit]++
		}
	}
}

// applyCooldown excludes trades opened within the cooldown of the last
// included trade. The clock only advances on included trades, so a burst of
// exclusions never re-arms the cooldown.
func (s *Simulator) applyCooldown(sim []simTrade, c Constraints, breakdown map[string]int) {
	if c.CooldownMinutes == nil {
		return
	}
	cooldown := time.Duration(*c.CooldownMinutes * float64(time.Minute))
	var lastAllowed time.Time
	haveLast := false
	for i := range sim {
		if !sim[i].included {
			continue
		}
		if haveLast && sim[i].Timestamp.Sub(lastAllowed) < cooldown {
			sim[i].included = false
			sim[i].excludedBy = RuleCooldown
			breakdown[RuleCooldown]++
			continue
		}
		lastAllowed = sim[i].Timestamp
		haveLast = true
	}
}

func (s *Simulator) applyLossStreakBreaker(sim []simTrade, c Constraints, breakdown map[string]int) {
	if c.MaxLossStreak == nil {
		return
	}
	for i := range sim {
		if sim[i].included && sim[i].StreakIndex <= -*c.MaxLossStreak {
			sim[i].included = false
			sim[i].excludedBy = RuleLossStreak
			breakdown[RuleLossStreak]++
		}
	}
}

func (s *Simulator) applyDrawdownBreaker(sim []simTrade, c Constraints, breakdown map[string]int) {
	if c.MaxDrawdownTriggerPct == nil {
		return
	}
	for i := range sim {
		if sim[i].included && sim[i].DrawdownAtTrade < -*c.MaxDrawdownTriggerPct {
			sim[i].included = false
			sim[i].excludedBy = RuleDrawdownBreaker
			breakdown[RuleDrawdownBreaker]++
		}
	}
}

// applyPositionCap rescales oversized surviving trades to the cap; the trade
// count never changes here.
func (s *Simulator) applyPositionCap(sim []simTrade, c Constraints, breakdown map[string]int) {
	if c.MaxPositionPct == nil {
		return
	}
	capPct := *c.MaxPositionPct
	for i := range sim {
		if !sim[i].included || sim[i].PositionSizePct <= capPct {
			continue
		}
		scale := capPct / sim[i].PositionSizePct
		sim[i].ProfitLoss *= scale
		sim[i].Quantity *= scale
		sim[i].PositionSizePct = capPct
		breakdown[RulePositionCap]++
	}
}

// applyStopLoss caps losses at the given % of the running simulated balance.
// Runs last so it reads P&L already rescaled by the position cap.
func (s *Simulator) applyStopLoss(sim []simTrade, c Constraints, startBalance float64, breakdown map[string]int) {
	if c.StopLossPct == nil {
		return
	}
	pct := *c.StopLossPct
	running := startBalance
	for i := range sim {
		if !sim[i].included {
			continue
		}
		if running != 0 {
			pnl := sim[i].ProfitLoss
			lossPct := math.Abs(pnl) / math.Abs(running) * 100
			if pnl < 0 && lossPct > pct {
				sim[i].ProfitLoss = -math.Abs(running) * pct / 100
				breakdown[RuleStopLoss]++
			}
		}
		running += sim[i].ProfitLoss
	}
}

func computeMetrics(pnl, balances []float64) Metrics {
	if len(pnl) == 0 {
		return Metrics{}
	}
	total := 0.0
	winning := 0
	for _, v := range pnl {
		total += v
		if v > 0 {
			winning++
		}
	}
	return Metrics{
		TotalTrades:    len(pnl),
		TotalPnL:       formulas.Round2(total),
		FinalBalance:   formulas.Round2(balances[len(balances)-1]),
		MaxDrawdownPct: formulas.Round2(math.Abs(formulas.MaxDrawdownPct(balances))),
		SharpeRatio:    formulas.Round4(formulas.SharpeRatio(pnl)),
		Volatility:     formulas.Round2(formulas.StdDev(pnl)),
		WinRate:        formulas.Round2(float64(winning) / float64(len(pnl)) * 100),
	}
}

func metricPairs(o, s Metrics) []struct {
	name     string
	org, sim float64
} {
	return []struct {
		name     string
		org, sim float64
	}{
		{"total_trades", float64(o.TotalTrades), float64(s.TotalTrades)},
		{"total_pnl", o.TotalPnL, s.TotalPnL},
		{"final_balance", o.FinalBalance, s.FinalBalance},
		{"max_drawdown_pct", o.MaxDrawdownPct, s.MaxDrawdownPct},
		{"sharpe_ratio", o.SharpeRatio, s.SharpeRatio},
		{"volatility", o.Volatility, s.Volatility},
		{"win_rate", o.WinRate, s.WinRate},
	}
}

// improvementOver reports the % change of each metric relative to the
// original; a zero original metric reports 0 rather than dividing by it.
func improvementOver(o, s Metrics) map[string]float64 {
	out := make(map[string]float64)
	for _, p := range metricPairs(o, s) {
		if p.org != 0 {
			out[p.name] = formulas.Round2((p.sim - p.org) / math.Abs(p.org) * 100)
		} else {
			out[p.name] = 0
		}
	}
	return out
}

func zeroImprovement() map[string]float64 {
	out := make(map[string]float64)
	for _, p := range metricPairs(Metrics{}, Metrics{}) {
		out[p.name] = 0
	}
	return out
}

func summarize(improvement map[string]float64) string {
	var parts []string
	if v := improvement["max_drawdown_pct"]; v != 0 {
		parts = append(parts, fmt.Sprintf("max drawdown would change by %+.1f%%", v))
	}
	if v := improvement["total_pnl"]; v != 0 {
		parts = append(parts, fmt.Sprintf("total PnL would change by %+.1f%%", v))
	}
	if v := improvement["sharpe_ratio"]; v != 0 {
		parts = append(parts, fmt.Sprintf("Sharpe ratio would change by %+.1f%%", v))
	}
	if len(parts) == 0 {
		return "No significant change."
	}
	return "With these constraints, " + strings.Join(parts, ", ") + "."
}

func originalCurve(frame features.Frame) []CurvePoint {
	curve := make([]CurvePoint, len(frame))
	for i, t := range frame {
		curve[i] = CurvePoint{Timestamp: t.Timestamp, Balance: formulas.Round2(t.Balance)}
	}
	return curve
}
