// Package temporal slides an adaptive time window across a session and
// re-scores every bias per window, producing a smoothed evolution timeline.
package temporal

import (
	"time"

	"github.com/aristath/tradelens/bias"
	"github.com/aristath/tradelens/features"
)

const (
	// MinTradesPerWindow is the minimum window population; sparser windows
	// are skipped with no placeholder point.
	MinTradesPerWindow = 15

	targetPoints = 60
	minStep      = 15 * time.Minute
	minWindow    = time.Hour
	emaAlpha     = 0.3
)

// Point is one time-window snapshot of all bias scores
type Point struct {
	Timestamp    time.Time          `json:"timestamp"` // window center
	WindowStart  time.Time          `json:"window_start"`
	WindowEnd    time.Time          `json:"window_end"`
	TradeCount   int                `json:"trade_count"`
	Scores       map[string]float64 `json:"scores"`
	DominantBias string             `json:"dominant_bias"`
}

// Timeline slides overlapping windows across the session and scores every
// bias on each window's subset of the feature frame.
//
// The step targets ~60 output points regardless of session length (floor 15
// minutes); the window spans 4 steps (floor 1 hour). Windows run while
// window_end <= session_end + step. An EMA (alpha 0.3) is then applied
// sequentially per bias across the ordered points, seeded with the first
// point's raw value; dominant_bias is taken from the raw scores before
// smoothing. Sessions shorter than one window population or without positive
// duration yield an empty timeline.
func Timeline(f features.Frame) []Point {
	if len(f) < MinTradesPerWindow {
		return nil
	}

	start := f[0].Timestamp
	end := f[len(f)-1].Timestamp
	duration := end.Sub(start)
	if duration <= 0 {
		return nil
	}

	step := duration / targetPoints
	if step < minStep {
		step = minStep
	}
	window := 4 * step
	if window < minWindow {
		window = minWindow
	}

	var points []Point
	for cursor := start; !cursor.Add(window).After(end.Add(step)); cursor = cursor.Add(step) {
		wStart, wEnd := cursor, cursor.Add(window)
		sub := sliceWindow(f, wStart, wEnd)
		if len(sub) < MinTradesPerWindow {
			continue
		}

		point := Point{
			Timestamp:   wStart.Add(window / 2),
			WindowStart: wStart,
			WindowEnd:   wEnd,
			TradeCount:  len(sub),
			Scores:      make(map[string]float64, len(bias.Names)),
		}

		bestName, bestScore := "", 0.0
		for _, name := range bias.Names {
			score, _ := bias.Detectors[name](sub)
			point.Scores[name] = score
			if score > bestScore {
				bestName, bestScore = name, score
			}
		}
		if bestName == "" {
			bestName = "none"
		}
		point.DominantBias = bestName

		points = append(points, point)
	}

	smooth(points)
	return points
}

// sliceWindow returns the contiguous frame subset with timestamps in
// [start, end). The frame is sorted, so both ends are found by scanning
// forward from the first member.
func sliceWindow(f features.Frame, start, end time.Time) features.Frame {
	lo := 0
	for lo < len(f) && f[lo].Timestamp.Before(start) {
		lo++
	}
	hi := lo
	for hi < len(f) && f[hi].Timestamp.Before(end) {
		hi++
	}
	return f[lo:hi]
}

// smooth applies the per-bias exponential moving average in place. This is a
// strictly order-dependent single pass: each smoothed value consumes the
// previous point's smoothed value.
func smooth(points []Point) {
	if len(points) == 0 {
		return
	}
	prev := make(map[string]float64, len(bias.Names))
	for _, name := range bias.Names {
		prev[name] = points[0].Scores[name]
	}
	for i := 1; i < len(points); i++ {
		for _, name := range bias.Names {
			s := emaAlpha*points[i].Scores[name] + (1-emaAlpha)*prev[name]
			points[i].Scores[name] = s
			prev[name] = s
		}
	}
}
