package counterfactual

import "time"

// Constraints are the optional risk-management rules applied during replay.
// A nil field disables its rule. Rules always apply in the fixed order
// documented on Simulator.Run.
type Constraints struct {
	MaxPositionPct        *float64 `json:"max_position_pct"`         // cap position size at this % of balance
	StopLossPct           *float64 `json:"stop_loss_pct"`            // cap a loss at this % of the running balance
	MaxDailyTrades        *int     `json:"max_daily_trades"`         // maximum trades per calendar day
	CooldownMinutes       *float64 `json:"cooldown_minutes"`         // minimum minutes between included trades
	MaxLossStreak         *int     `json:"max_loss_streak"`          // stop trading after N consecutive losses
	MaxDrawdownTriggerPct *float64 `json:"max_drawdown_trigger_pct"` // pause trading past this drawdown %
}

// Exclusion rule tags reported in the breakdown
const (
	RuleDailyLimit      = "daily_limit"
	RuleCooldown        = "cooldown"
	RuleLossStreak      = "loss_streak"
	RuleDrawdownBreaker = "drawdown_breaker"
	RulePositionCap     = "position_cap_scaled"
	RuleStopLoss        = "stop_loss_capped"
)

// Metrics summarizes one replay subset
type Metrics struct {
	TotalTrades    int     `json:"total_trades"`
	TotalPnL       float64 `json:"total_pnl"`
	FinalBalance   float64 `json:"final_balance"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"` // absolute value
	SharpeRatio    float64 `json:"sharpe_ratio"`
	Volatility     float64 `json:"volatility"`
	WinRate        float64 `json:"win_rate"`
}

// CurvePoint is one step of a replay equity curve
type CurvePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
}

// Result compares the original session against the constrained replay
type Result struct {
	Original             Metrics            `json:"original"`
	Simulated            Metrics            `json:"simulated"`
	Improvement          map[string]float64 `json:"improvement"` // % change per metric
	Summary              string             `json:"summary"`
	EquityCurveOriginal  []CurvePoint       `json:"equity_curve_original"`
	EquityCurveSimulated []CurvePoint       `json:"equity_curve_simulated"`
	TradesOriginal       int                `json:"trades_original"`
	TradesSimulated      int                `json:"trades_simulated"`
	ExcludedBreakdown    map[string]int     `json:"excluded_breakdown"`
}
