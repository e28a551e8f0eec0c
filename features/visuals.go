package features

import (
	"math/rand"
	"sort"
	"time"

	"github.com/aristath/tradelens/pkg/formulas"
)

const (
	holdingSampleCap = 500
	scatterCap       = 1000
	scatterSeed      = 42
)

// EquityPoint is one step of the session equity curve
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
	Drawdown  float64   `json:"drawdown"`
}

// TradeFrequency is a day-of-week x hour-of-day count matrix in sparse form.
// Days use 0=Monday .. 6=Sunday.
type TradeFrequency struct {
	Days   []int `json:"days"`
	Hours  []int `json:"hours"`
	Counts []int `json:"counts"`
}

// HoldingTimeComparison contrasts holding-duration distributions for wins
// and losses. Value slices are capped to keep payloads bounded.
type HoldingTimeComparison struct {
	WinMean    float64   `json:"win_mean"`
	WinMedian  float64   `json:"win_median"`
	LossMean   float64   `json:"loss_mean"`
	LossMedian float64   `json:"loss_median"`
	WinValues  []float64 `json:"win_values"`
	LossValues []float64 `json:"loss_values"`
}

// ScatterPoint is one position-size vs P&L sample
type ScatterPoint struct {
	PositionSize float64 `json:"position_size"`
	PnL          float64 `json:"pnl"`
	IsWin        bool    `json:"is_win"`
	Asset        string  `json:"asset"`
}

// BuildEquityCurve renders the balance and drawdown series for charting
func BuildEquityCurve(f Frame) []EquityPoint {
	curve := make([]EquityPoint, len(f))
	for i, t := range f {
		curve[i] = EquityPoint{
			Timestamp: t.Timestamp,
			Balance:   formulas.Round2(t.Balance),
			Drawdown:  formulas.Round2(t.Drawdown),
		}
	}
	return curve
}

// BuildTradeFrequency counts trades per (day-of-week, hour-of-day) cell
func BuildTradeFrequency(f Frame) TradeFrequency {
	type cell struct{ day, hour int }
	counts := make(map[cell]int)
	for _, t := range f {
		// time.Weekday has Sunday=0; shift to Monday=0.
		day := (int(t.Timestamp.Weekday()) + 6) % 7
		counts[cell{day, t.Timestamp.Hour()}]++
	}

	cells := make([]cell, 0, len(counts))
	for c := range counts {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].day != cells[j].day {
			return cells[i].day < cells[j].day
		}
		return cells[i].hour < cells[j].hour
	})

	freq := TradeFrequency{
		Days:   make([]int, len(cells)),
		Hours:  make([]int, len(cells)),
		Counts: make([]int, len(cells)),
	}
	for i, c := range cells {
		freq.Days[i] = c.day
		freq.Hours[i] = c.hour
		freq.Counts[i] = counts[c]
	}
	return freq
}

// BuildHoldingTimeComparison splits holding durations by outcome
func BuildHoldingTimeComparison(f Frame) HoldingTimeComparison {
	get := func(t TradeFeatures) float64 { return t.HoldingDuration }
	winVals := f.Wins().Column(get)
	lossVals := f.Losses().Column(get)

	cap500 := func(vals []float64) []float64 {
		if len(vals) > holdingSampleCap {
			return vals[:holdingSampleCap]
		}
		return vals
	}

	return HoldingTimeComparison{
		WinMean:    formulas.Round2(formulas.Mean(winVals)),
		WinMedian:  formulas.Round2(formulas.Median(winVals)),
		LossMean:   formulas.Round2(formulas.Mean(lossVals)),
		LossMedian: formulas.Round2(formulas.Median(lossVals)),
		WinValues:  cap500(winVals),
		LossValues: cap500(lossVals),
	}
}

// BuildPositionScatter samples up to 1000 trades for the position-size vs
// P&L scatter. Sampling uses a fixed seed so repeated runs over the same
// ledger pick the same points.
func BuildPositionScatter(f Frame) []ScatterPoint {
	indices := make([]int, len(f))
	for i := range indices {
		indices[i] = i
	}
	if len(f) > scatterCap {
		rng := rand.New(rand.NewSource(scatterSeed))
		indices = rng.Perm(len(f))[:scatterCap]
		sort.Ints(indices)
	}

	points := make([]ScatterPoint, len(indices))
	for i, idx := range indices {
		t := f[idx]
		points[i] = ScatterPoint{
			PositionSize: formulas.Round2(t.PositionSizePct),
			PnL:          formulas.Round2(t.ProfitLoss),
			IsWin:        t.IsWin,
			Asset:        t.Asset,
		}
	}
	return points
}
