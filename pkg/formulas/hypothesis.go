package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult represents a two-sample hypothesis test outcome
type TTestResult struct {
	T  float64 `json:"t"`  // Test statistic
	P  float64 `json:"p"`  // Two-sided p-value
	DF float64 `json:"df"` // Degrees of freedom
}

// WelchTTest runs an unequal-variance (Welch) two-sample t-test.
//
// Degrees of freedom follow the Welch-Satterthwaite approximation:
//
//	df = (v1/n1 + v2/n2)^2 / ((v1/n1)^2/(n1-1) + (v2/n2)^2/(n2-1))
//
// Degenerate inputs (fewer than two samples per side, or zero pooled
// variance) return t=0, p=1 rather than NaN.
func WelchTTest(a, b []float64) TTestResult {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 2 || n2 < 2 {
		return TTestResult{T: 0, P: 1, DF: 0}
	}

	v1, v2 := Variance(a), Variance(b)
	se2 := v1/n1 + v2/n2
	if se2 == 0 {
		return TTestResult{T: 0, P: 1, DF: n1 + n2 - 2}
	}

	t := (Mean(a) - Mean(b)) / math.Sqrt(se2)
	df := se2 * se2 / (math.Pow(v1/n1, 2)/(n1-1) + math.Pow(v2/n2, 2)/(n2-1))

	return TTestResult{T: t, P: studentTwoSidedP(t, df), DF: df}
}

// PearsonTest calculates the Pearson correlation of two equal-length series
// together with a two-sided p-value from the t distribution with n-2 degrees
// of freedom.
func PearsonTest(x, y []float64) (r, p float64) {
	n := len(x)
	if n != len(y) || n < 3 {
		return 0, 1
	}

	r = Correlation(x, y)
	if math.IsNaN(r) {
		return 0, 1
	}
	if r >= 1 || r <= -1 {
		return r, 0
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	return r, studentTwoSidedP(t, df)
}

func studentTwoSidedP(t, df float64) float64 {
	if df <= 0 {
		return 1
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	return Clamp(p, 0, 1)
}
