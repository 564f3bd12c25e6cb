package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/iocache"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig(path string) *contract.Config {
	return &contract.Config{
		DataPath:      path,
		Output:        schema.JSONOut,
		Precision:     2,
		Clusters:      3,
		Features:      schema.DefaultClusterFeatures,
		Seed:          contract.DefaultSeed,
		Restarts:      contract.DefaultRestarts,
		MaxIterations: contract.DefaultMaxIterations,
		Thresholds:    DefaultChurnThresholds(),
		Limit:         contract.DefaultHighRiskLimit,
	}
}

// trackingManager returns a manager without a dataset store and with a mocked analysis store.
func trackingManager(store *iocache.MockAnalysisStore) *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(store)
	return mgr
}

func TestGetSegmentResults_TracksClusters(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("segment-run"))
	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", mock.Anything, CommandSegment, mock.Anything).Return(int64(7), nil)
	store.On("RecordOutcomes", int64(7), mock.MatchedBy(func(out []schema.RecordOutcome) bool {
		return len(out) == 12 && out[0].Cluster != nil && out[0].AtRisk == nil
	})).Return(nil)
	store.On("EndAnalysis", int64(7), mock.Anything, 12).Return(nil)

	res, _, err := GetSegmentResults(WithSuppressHeader(context.Background()), testConfig(path), trackingManager(store))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Model.K)
	assert.Len(t, res.Records, 12)
	store.AssertExpectations(t)
}

func TestGetChurnResults_TracksFlags(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("churn-run"))
	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", mock.Anything, CommandChurn, mock.Anything).Return(int64(3), nil)
	store.On("RecordOutcomes", int64(3), mock.MatchedBy(func(out []schema.RecordOutcome) bool {
		return len(out) == 12 && out[0].AtRisk != nil && *out[0].AtRisk
	})).Return(nil)
	store.On("EndAnalysis", int64(3), mock.Anything, 12).Return(nil)

	res, flagged, _, err := GetChurnResults(WithSuppressHeader(context.Background()), testConfig(path), trackingManager(store))
	require.NoError(t, err)
	assert.Len(t, flagged, 12)
	assert.Equal(t, 4, res.Summary.AtRisk)
	store.AssertExpectations(t)
}

func TestGetChurnResults_TrackingFailureOnlyWarns(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("churn-warn"))
	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", mock.Anything, CommandChurn, mock.Anything).Return(int64(0), errors.New("db down"))

	res, _, _, err := GetChurnResults(WithSuppressHeader(context.Background()), testConfig(path), trackingManager(store))
	require.NoError(t, err)
	assert.Equal(t, 12, res.Summary.Total)
	store.AssertNotCalled(t, "EndAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPersonaResults(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("persona-run"))
	cfg := testConfig(path)
	seed := uint64(5)
	cfg.SampleSeed = &seed
	cfg.Traits = schema.Traits{OperatingSystem: "iOS"}

	match, _, err := GetPersonaResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	require.True(t, match.Found)
	assert.Equal(t, "iOS", match.Record.OperatingSystem)
	assert.NotEmpty(t, match.Card.Lines)

	cfg.Traits = schema.Traits{OperatingSystem: "Windows"}
	match, _, err = GetPersonaResults(WithSuppressHeader(context.Background()), cfg, nil)
	require.NoError(t, err)
	assert.False(t, match.Found)
}

func TestGetRecommendationResults_ClusterFilter(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("recommend-run"))
	cfg := testConfig(path)
	ctx := WithSuppressHeader(context.Background())

	seg, _, err := GetSegmentResults(ctx, cfg, nil)
	require.NoError(t, err)
	heavy := seg.Records[2].Cluster

	cfg.Cluster = &heavy
	res, _, err := GetRecommendationResults(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Matched)
	assert.Equal(t, []string{schema.AdviceLoyalty, schema.AdviceOptimizeDrain, schema.AdviceDataSaving}, res.Recommendations)

	cfg.Traits = schema.Traits{OperatingSystem: "iOS"}
	res, _, err = GetRecommendationResults(ctx, cfg, nil)
	assert.ErrorIs(t, err, schema.ErrEmptySegment)
	assert.True(t, res.Empty)
}

func TestGetDescribeResults(t *testing.T) {
	path := writeDatasetCSV(t, uniqueRecords("describe-run"))
	res, snap, _, err := GetDescribeResults(WithSuppressHeader(context.Background()), testConfig(path), nil)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Records)
	assert.Len(t, UsageValues(snap.Records), 12)
}

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(ctx)))

	_, ok := getAnalysisID(ctx)
	assert.False(t, ok)
	id, ok := getAnalysisID(withAnalysisID(ctx, 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
