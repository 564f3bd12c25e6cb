package algo

import (
	"math"
	"slices"

	"github.com/huangsam/devpulse/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Summarize returns the count, mean, sample std, min, quartiles and max of values.
func Summarize(column string, values []float64) schema.ColumnStats {
	s := schema.ColumnStats{Column: column, Count: len(values)}
	if len(values) == 0 {
		return s
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.StdDev = Finite(stat.StdDev(sorted, nil))
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = Quantile(sorted, 0.25)
	s.Median = Quantile(sorted, 0.5)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile interpolates linearly between the closest ranks of sorted values,
// the way describe() tables report percentiles.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// Correlations returns the Pearson correlation matrix of the columns of data.
// Pairs involving a constant column are reported as 0.
func Correlations(data mat.Matrix) [][]float64 {
	_, c := data.Dims()
	var sym mat.SymDense
	stat.CorrelationMatrix(&sym, data, nil)
	out := make([][]float64, c)
	for i := range c {
		out[i] = make([]float64, c)
		for j := range c {
			out[i][j] = Finite(sym.At(i, j))
		}
	}
	return out
}

// Skew returns the sample skewness of values, or 0 when undefined.
func Skew(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}
	return Finite(stat.Skew(values, nil))
}

// Correlation returns the Pearson correlation of x and y, or 0 when undefined.
func Correlation(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return Finite(stat.Correlation(x, y, nil))
}

// Finite maps NaN and infinities to 0 so results stay JSON-encodable.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
