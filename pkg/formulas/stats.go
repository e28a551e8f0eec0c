package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// MeanAbs calculates the mean of absolute values
func MeanAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += math.Abs(v)
	}
	return sum / float64(len(data))
}

// StdDev calculates the sample standard deviation of a slice of float64 values.
// Fewer than two samples yield 0.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Median calculates the median with midpoint interpolation for even lengths
func Median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Correlation calculates the Pearson correlation coefficient between two datasets
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// Clamp limits a value to the [low, high] interval
func Clamp(value, low, high float64) float64 {
	return math.Max(low, math.Min(high, value))
}

// Round1 rounds to 1 decimal place
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// Round2 rounds to 2 decimal places
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Round3 rounds to 3 decimal places
func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// Round4 rounds to 4 decimal places
func Round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
