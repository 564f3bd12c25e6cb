// Package algo has the numerical building blocks of segmentation and description.
package algo

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler holds per-column z-score parameters fitted on one matrix.
type Scaler struct {
	Means   []float64
	StdDevs []float64 // 1 for constant columns
}

// FitScaler computes population mean and standard deviation of every column.
// A constant column gets a unit scale so it is only centred.
func FitScaler(data mat.Matrix) Scaler {
	_, c := data.Dims()
	s := Scaler{Means: make([]float64, c), StdDevs: make([]float64, c)}
	for j := range c {
		col := mat.Col(nil, j, data)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || std != std {
			std = 1
		}
		s.Means[j] = mean
		s.StdDevs[j] = std
	}
	return s
}

// Transform returns a z-scored copy of data.
func (s Scaler) Transform(data mat.Matrix) *mat.Dense {
	r, c := data.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Means[j]) / s.StdDevs[j]
	}, data)
	return out
}

// Inverse maps one standardized row back to original units.
func (s Scaler) Inverse(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v*s.StdDevs[j] + s.Means[j]
	}
	return out
}

// Standardize fits a scaler on data and returns the transformed copy.
func Standardize(data mat.Matrix) (*mat.Dense, Scaler) {
	s := FitScaler(data)
	return s.Transform(data), s
}
