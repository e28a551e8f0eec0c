package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigmoid(t *testing.T) {
	tests := []struct {
		name    string
		x, m, k float64
		want    float64
	}{
		{name: "midpoint maps to 50", x: 120, m: 120, k: 0.02, want: 50},
		{name: "far above midpoint saturates high", x: 1000, m: 120, k: 0.02, want: 100},
		{name: "far below midpoint saturates low", x: -1000, m: 120, k: 0.02, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sigmoid(tt.x, tt.m, tt.k)
			assert.InDelta(t, tt.want, got, 0.01)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestSigmoidAlwaysBounded(t *testing.T) {
	for _, x := range []float64{-1e9, -1, 0, 0.5, 1, 42, 1e9} {
		got := Sigmoid(x, 0.5, 4)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
}

func TestStdDevDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{7}))
	assert.InDelta(t, math.Sqrt(200), StdDev([]float64{10, -10}), 1e-9)
}

func TestSharpeRatio(t *testing.T) {
	// Zero variance yields 0 rather than dividing by zero.
	assert.Equal(t, 0.0, SharpeRatio([]float64{5, 5, 5}))

	got := SharpeRatio([]float64{10, -5, 8, -2})
	assert.False(t, math.IsNaN(got))
	assert.Greater(t, got, 0.0)
}

func TestMaxDrawdownPct(t *testing.T) {
	assert.Equal(t, 0.0, MaxDrawdownPct([]float64{100, 110, 120}))
	assert.InDelta(t, -10, MaxDrawdownPct([]float64{100, 110, 99}), 1e-9)
}

func TestWelchTTest(t *testing.T) {
	t.Run("degenerate inputs", func(t *testing.T) {
		res := WelchTTest([]float64{1}, []float64{2, 3})
		assert.Equal(t, 0.0, res.T)
		assert.Equal(t, 1.0, res.P)

		res = WelchTTest([]float64{2, 2, 2}, []float64{2, 2, 2})
		assert.Equal(t, 1.0, res.P)
	})

	t.Run("clearly separated samples are significant", func(t *testing.T) {
		a := []float64{10, 11, 10.5, 9.8, 10.2, 10.7}
		b := []float64{1, 1.2, 0.8, 1.1, 0.9, 1.05}
		res := WelchTTest(a, b)
		assert.Greater(t, res.T, 0.0)
		assert.Less(t, res.P, 0.01)
	})

	t.Run("identical distributions are not significant", func(t *testing.T) {
		a := []float64{1, 2, 3, 4, 5}
		b := []float64{1, 2, 3, 4, 5}
		res := WelchTTest(a, b)
		assert.Equal(t, 0.0, res.T)
		assert.InDelta(t, 1.0, res.P, 1e-9)
	})
}

func TestPearsonTest(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		r, p := PearsonTest([]float64{1, 2}, []float64{2, 4})
		assert.Equal(t, 0.0, r)
		assert.Equal(t, 1.0, p)
	})

	t.Run("perfect correlation", func(t *testing.T) {
		x := []float64{1, 2, 3, 4, 5}
		y := []float64{2, 4, 6, 8, 10}
		r, p := PearsonTest(x, y)
		assert.InDelta(t, 1.0, r, 1e-9)
		assert.InDelta(t, 0.0, p, 1e-9)
	})

	t.Run("strong noisy correlation is significant", func(t *testing.T) {
		x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
		y := []float64{1.1, 2.3, 2.8, 4.2, 5.1, 5.7, 7.3, 7.9, 9.2, 9.8, 11.3, 11.8}
		r, p := PearsonTest(x, y)
		assert.Greater(t, r, 0.95)
		assert.Less(t, p, 0.001)
	})
}
