package formulas

import "math"

// Sigmoid maps a raw signal onto a 0-100 score with a logistic curve.
//
// Sigmoid Formula:
//
//	score = 100 / (1 + e^(-k*(x - m)))
//
// Args:
//
//	x: Raw signal value
//	m: Midpoint - the signal value that maps to a score of 50
//	k: Steepness - larger values sharpen the transition around the midpoint
//
// Returns:
//
//	Score in [0, 100], finite for any finite input
func Sigmoid(x, m, k float64) float64 {
	return 100 / (1 + math.Exp(-k*(x-m)))
}
