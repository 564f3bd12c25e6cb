package algo

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/devpulse/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCAResult is data projected onto its leading principal components.
type PCAResult struct {
	Projected *mat.Dense // rows x components
	Explained []float64  // variance ratio per kept component
}

var errPCAFailed = errors.New("principal component decomposition failed")

// PCA projects the rows of data onto the first 'components' principal axes.
// Axis signs are fixed so that the largest absolute loading of each axis is positive.
func PCA(data mat.Matrix, components int) (PCAResult, error) {
	r, c := data.Dims()
	if r < 2 || c < components || components < 1 {
		return PCAResult{}, fmt.Errorf("%w: need at least 2 rows and %d columns, got %dx%d",
			schema.ErrConfig, components, r, c)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return PCAResult{}, errPCAFailed
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	_, avail := vecs.Dims()
	if avail < components {
		return PCAResult{}, fmt.Errorf("%w: only %d components available", schema.ErrConfig, avail)
	}
	axes := mat.DenseCopyOf(vecs.Slice(0, c, 0, components))
	for j := range components {
		col := mat.Col(nil, j, axes)
		idx := 0
		for i, v := range col {
			if math.Abs(v) > math.Abs(col[idx]) {
				idx = i
			}
		}
		if col[idx] < 0 {
			floats.Scale(-1, col)
			axes.SetCol(j, col)
		}
	}

	centered := mat.DenseCopyOf(data)
	for j := range c {
		col := mat.Col(nil, j, centered)
		mean := stat.Mean(col, nil)
		floats.AddConst(-mean, col)
		centered.SetCol(j, col)
	}

	var projected mat.Dense
	projected.Mul(centered, axes)

	total := floats.Sum(vars)
	explained := make([]float64, components)
	if total > 0 {
		for j := range components {
			explained[j] = vars[j] / total
		}
	}
	return PCAResult{Projected: &projected, Explained: explained}, nil
}
