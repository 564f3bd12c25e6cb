package schema

// ScaleStat holds the z-score parameters of one feature for one run.
type ScaleStat struct {
	Feature string  `json:"feature"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"` // 1 when the feature is constant
}

// CentroidModel describes the fitted clusters of one run. Centroids live in standardized space.
type CentroidModel struct {
	RunID      string      `json:"run_id"`
	K          int         `json:"k"`
	Seed       uint64      `json:"seed"`
	Features   []string    `json:"features"`
	Scale      []ScaleStat `json:"scale"`
	Centroids  [][]float64 `json:"centroids"`
	Inertia    float64     `json:"inertia"`
	Iterations int         `json:"iterations"`
}

// LabeledRecord is an enriched record with its cluster assignment for one run.
type LabeledRecord struct {
	EnrichedRecord
	Cluster int `json:"cluster"`
}

// SegmentRun is the output of one clustering invocation.
type SegmentRun struct {
	Records []LabeledRecord `json:"records"`
	Model   CentroidModel   `json:"model"`
}

// ClusterProfile is one row of the feature-means-per-cluster table.
type ClusterProfile struct {
	Cluster int                `json:"cluster"`
	Size    int                `json:"size"`
	Means   map[string]float64 `json:"means"`
}

// Point2D is one record projected onto the first two principal components.
type Point2D struct {
	UserID  string  `json:"user_id"`
	PC1     float64 `json:"pc1"`
	PC2     float64 `json:"pc2"`
	Cluster int     `json:"cluster"`
}

// Projection is the 2-D PCA view of a record set.
type Projection struct {
	Points            []Point2D  `json:"points"`
	ExplainedVariance [2]float64 `json:"explained_variance"` // ratio per component
}

// SegmentResult bundles what the segment view shows.
type SegmentResult struct {
	Model      CentroidModel    `json:"model"`
	Profiles   []ClusterProfile `json:"profiles"`
	Projection Projection       `json:"projection"`
	Records    []LabeledRecord  `json:"-"`
}
