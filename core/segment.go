package core

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/huangsam/devpulse/core/algo"
	"github.com/huangsam/devpulse/schema"
	"gonum.org/v1/gonum/mat"
)

// ClusterOptions controls the k-means fit of one segmentation run.
type ClusterOptions struct {
	Seed          uint64
	Restarts      int
	MaxIterations int
}

// DefaultClusterOptions returns the seeded defaults used by the segment command.
func DefaultClusterOptions() ClusterOptions {
	d := algo.DefaultKMeansOptions()
	return ClusterOptions{Seed: d.Seed, Restarts: d.Restarts, MaxIterations: d.MaxIterations}
}

// Cluster z-scores the selected features of records and partitions them into k
// clusters. Parameters are validated before any computation starts.
// Labels are only meaningful together with the returned model's RunID.
func Cluster(records []schema.EnrichedRecord, features []string, k int, opts ClusterOptions) (schema.SegmentRun, error) {
	if len(features) == 0 {
		return schema.SegmentRun{}, fmt.Errorf("%w: at least one feature is required", schema.ErrConfig)
	}
	if k < 2 || k > len(records) {
		return schema.SegmentRun{}, fmt.Errorf("%w: k=%d must be between 2 and the number of records (%d)",
			schema.ErrConfig, k, len(records))
	}
	data, err := featureMatrix(records, features)
	if err != nil {
		return schema.SegmentRun{}, err
	}

	z, scaler := algo.Standardize(data)
	km := algo.DefaultKMeansOptions()
	km.Seed = opts.Seed
	if opts.Restarts > 0 {
		km.Restarts = opts.Restarts
	}
	if opts.MaxIterations > 0 {
		km.MaxIterations = opts.MaxIterations
	}
	fit, err := algo.KMeans(z, k, km)
	if err != nil {
		return schema.SegmentRun{}, err
	}

	labeled := make([]schema.LabeledRecord, len(records))
	for i, r := range records {
		labeled[i] = schema.LabeledRecord{EnrichedRecord: r, Cluster: fit.Labels[i]}
	}

	scale := make([]schema.ScaleStat, len(features))
	for j, f := range features {
		scale[j] = schema.ScaleStat{Feature: f, Mean: scaler.Means[j], StdDev: scaler.StdDevs[j]}
	}
	centroids := make([][]float64, k)
	for c := range k {
		centroids[c] = slices.Clone(fit.Centroids.RawRowView(c))
	}

	return schema.SegmentRun{
		Records: labeled,
		Model: schema.CentroidModel{
			RunID:      uuid.NewString(),
			K:          k,
			Seed:       opts.Seed,
			Features:   slices.Clone(features),
			Scale:      scale,
			Centroids:  centroids,
			Inertia:    fit.Inertia,
			Iterations: fit.Iterations,
		},
	}, nil
}

// Project standardizes the selected features and reduces them to two principal
// components. Points carry Cluster -1 until AttachClusters labels them.
func Project(records []schema.EnrichedRecord, features []string) (schema.Projection, error) {
	if len(features) < 2 {
		return schema.Projection{}, fmt.Errorf("%w: projection needs at least 2 features (received %d)", schema.ErrConfig, len(features))
	}
	if len(records) < 2 {
		return schema.Projection{}, fmt.Errorf("%w: projection needs at least 2 records (received %d)", schema.ErrConfig, len(records))
	}
	data, err := featureMatrix(records, features)
	if err != nil {
		return schema.Projection{}, err
	}
	z, _ := algo.Standardize(data)
	res, err := algo.PCA(z, 2)
	if err != nil {
		return schema.Projection{}, err
	}

	points := make([]schema.Point2D, len(records))
	for i, r := range records {
		points[i] = schema.Point2D{
			UserID:  r.UserID,
			PC1:     res.Projected.At(i, 0),
			PC2:     res.Projected.At(i, 1),
			Cluster: -1,
		}
	}
	return schema.Projection{
		Points:            points,
		ExplainedVariance: [2]float64{res.Explained[0], res.Explained[1]},
	}, nil
}

// AttachClusters copies the labels of run onto the projected points, which must
// come from the same record set in the same order.
func AttachClusters(p schema.Projection, run schema.SegmentRun) (schema.Projection, error) {
	if len(p.Points) != len(run.Records) {
		return p, fmt.Errorf("%w: projection has %d points but run has %d records",
			schema.ErrConfig, len(p.Points), len(run.Records))
	}
	points := slices.Clone(p.Points)
	for i := range points {
		points[i].Cluster = run.Records[i].Cluster
	}
	p.Points = points
	return p, nil
}

// Profiles returns the size and feature means, in original units, of every cluster.
func Profiles(run schema.SegmentRun) []schema.ClusterProfile {
	profiles := make([]schema.ClusterProfile, run.Model.K)
	for c := range profiles {
		profiles[c] = schema.ClusterProfile{Cluster: c, Means: make(map[string]float64, len(run.Model.Features))}
	}
	for _, r := range run.Records {
		p := &profiles[r.Cluster]
		p.Size++
		for _, f := range run.Model.Features {
			v, _ := r.Feature(f)
			p.Means[f] += v
		}
	}
	for c := range profiles {
		if profiles[c].Size == 0 {
			continue
		}
		for f := range profiles[c].Means {
			profiles[c].Means[f] /= float64(profiles[c].Size)
		}
	}
	return profiles
}

// Segment runs clustering, projection and profiling over one record set.
func Segment(records []schema.EnrichedRecord, features []string, k int, opts ClusterOptions) (schema.SegmentResult, error) {
	run, err := Cluster(records, features, k, opts)
	if err != nil {
		return schema.SegmentResult{}, err
	}
	proj, err := Project(records, features)
	if err != nil {
		return schema.SegmentResult{}, err
	}
	proj, err = AttachClusters(proj, run)
	if err != nil {
		return schema.SegmentResult{}, err
	}
	return schema.SegmentResult{
		Model:      run.Model,
		Profiles:   Profiles(run),
		Projection: proj,
		Records:    run.Records,
	}, nil
}

// FilterByCluster keeps the records of one cluster, in dataset order.
func FilterByCluster(records []schema.LabeledRecord, cluster int) []schema.EnrichedRecord {
	var out []schema.EnrichedRecord
	for _, r := range records {
		if r.Cluster == cluster {
			out = append(out, r.EnrichedRecord)
		}
	}
	return out
}

// featureMatrix extracts the named features of every record into a dense matrix.
func featureMatrix(records []schema.EnrichedRecord, features []string) (*mat.Dense, error) {
	for _, f := range features {
		if err := schema.ValidateFeatureName(f); err != nil {
			return nil, err
		}
	}
	data := mat.NewDense(max(len(records), 1), len(features), nil)
	for i, r := range records {
		for j, f := range features {
			v, err := r.Feature(f)
			if err != nil {
				return nil, fmt.Errorf("record %s: %w", r.UserID, err)
			}
			data.Set(i, j, v)
		}
	}
	return data, nil
}
