package algo

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/huangsam/devpulse/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KMeansOptions controls one k-means fit.
type KMeansOptions struct {
	Seed          uint64
	Restarts      int     // independent k-means++ initialisations, at least 1
	MaxIterations int     // Lloyd iterations per restart
	Tolerance     float64 // stop once no centroid moves further than this (squared)
}

// DefaultKMeansOptions mirrors the defaults of the segment command.
func DefaultKMeansOptions() KMeansOptions {
	return KMeansOptions{Seed: 42, Restarts: 10, MaxIterations: 300, Tolerance: 1e-8}
}

// KMeansResult is the best fit across all restarts.
type KMeansResult struct {
	Labels     []int
	Centroids  *mat.Dense
	Inertia    float64
	Iterations int
}

// KMeans partitions the rows of data into k clusters.
// The same data, k and options always produce the same labels.
func KMeans(data *mat.Dense, k int, opts KMeansOptions) (KMeansResult, error) {
	n, _ := data.Dims()
	if k < 1 || k > n {
		return KMeansResult{}, fmt.Errorf("%w: k=%d must be between 1 and %d", schema.ErrConfig, k, n)
	}
	if opts.Restarts < 1 {
		opts.Restarts = 1
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = 1
	}

	if k == n {
		return singletons(data), nil
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	var best KMeansResult
	for r := range opts.Restarts {
		centroids := initPlusPlus(data, k, rng)
		res := lloyd(data, centroids, opts)
		if r == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// singletons gives every row its own cluster.
func singletons(data *mat.Dense) KMeansResult {
	n, _ := data.Dims()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}
	return KMeansResult{Labels: labels, Centroids: mat.DenseCopyOf(data)}
}

// initPlusPlus picks k starting centroids with D² weighting.
func initPlusPlus(data *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, d := data.Dims()
	centroids := mat.NewDense(k, d, nil)
	chosen := make([]bool, n)

	first := rng.IntN(n)
	centroids.SetRow(0, data.RawRowView(first))
	chosen[first] = true

	dist := make([]float64, n)
	for i := range n {
		dist[i] = sqDist(data.RawRowView(i), centroids.RawRowView(0))
	}

	for c := 1; c < k; c++ {
		total := floats.Sum(dist)
		next := -1
		if total > 0 {
			u := rng.Float64() * total
			acc := 0.0
			for i, w := range dist {
				acc += w
				if w > 0 && acc >= u {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// remaining points coincide with chosen centroids
			for i := range n {
				if !chosen[i] {
					next = i
					break
				}
			}
		}
		chosen[next] = true
		centroids.SetRow(c, data.RawRowView(next))
		for i := range n {
			if dd := sqDist(data.RawRowView(i), centroids.RawRowView(c)); dd < dist[i] {
				dist[i] = dd
			}
		}
	}
	return centroids
}

// lloyd refines centroids until assignments stop changing.
func lloyd(data, centroids *mat.Dense, opts KMeansOptions) KMeansResult {
	n, d := data.Dims()
	k, _ := centroids.Dims()
	labels := assign(data, centroids)

	iterations := 0
	for iterations < opts.MaxIterations {
		iterations++
		shift := update(data, centroids, labels, k, d)
		next := assign(data, centroids)
		changed := 0
		for i := range n {
			if next[i] != labels[i] {
				changed++
			}
		}
		labels = next
		if changed == 0 || shift <= opts.Tolerance {
			break
		}
	}

	inertia := 0.0
	for i := range n {
		inertia += sqDist(data.RawRowView(i), centroids.RawRowView(labels[i]))
	}
	return KMeansResult{Labels: labels, Centroids: centroids, Inertia: inertia, Iterations: iterations}
}

// assign returns the nearest centroid of every row. Ties go to the lowest index.
func assign(data, centroids *mat.Dense) []int {
	n, _ := data.Dims()
	k, _ := centroids.Dims()
	labels := make([]int, n)
	for i := range n {
		row := data.RawRowView(i)
		best, bestDist := 0, math.Inf(1)
		for c := range k {
			if dd := sqDist(row, centroids.RawRowView(c)); dd < bestDist {
				best, bestDist = c, dd
			}
		}
		labels[i] = best
	}
	return labels
}

// update moves each centroid to the mean of its members and returns the largest
// squared move. An empty cluster is reseeded with the row farthest from its centroid.
func update(data, centroids *mat.Dense, labels []int, k, d int) float64 {
	n := len(labels)
	sums := mat.NewDense(k, d, nil)
	counts := make([]int, k)
	for i, c := range labels {
		floats.Add(sums.RawRowView(c), data.RawRowView(i))
		counts[c]++
	}

	taken := make(map[int]bool)
	shift := 0.0
	for c := range k {
		next := sums.RawRowView(c)
		if counts[c] == 0 {
			far, farDist := -1, -1.0
			for i := range n {
				if taken[i] {
					continue
				}
				if dd := sqDist(data.RawRowView(i), centroids.RawRowView(labels[i])); dd > farDist {
					far, farDist = i, dd
				}
			}
			taken[far] = true
			copy(next, data.RawRowView(far))
		} else {
			floats.Scale(1/float64(counts[c]), next)
		}
		if dd := sqDist(next, centroids.RawRowView(c)); dd > shift {
			shift = dd
		}
		centroids.SetRow(c, next)
	}
	return shift
}

func sqDist(a, b []float64) float64 {
	dd := floats.Distance(a, b, 2)
	return dd * dd
}
