package core

import (
	"math"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAtRisk_StrictBoundaries(t *testing.T) {
	th := DefaultChurnThresholds()
	tests := []struct {
		name     string
		usage    float64
		screen   float64
		data     float64
		expected bool
	}{
		{"all below", 100, 2, 300, true},
		{"all equal", 150, 3, 500, false},
		{"usage equal", 150, 2, 300, false},
		{"screen equal", 100, 3, 300, false},
		{"data equal", 100, 2, 500, false},
		{"one above", 100, 2, 600, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := schema.EnrichedRecord{Record: schema.Record{AppUsageTime: tt.usage, ScreenOnTime: tt.screen, DataUsage: tt.data}}
			assert.Equal(t, tt.expected, IsAtRisk(r, th))
		})
	}
}

func TestChurn_SummaryAndHighRisk(t *testing.T) {
	snap := testSnapshot(t, segmentedRecords())
	res, flagged, err := Churn(snap.Records, DefaultChurnThresholds(), 2)
	require.NoError(t, err)
	require.Len(t, flagged, 12)

	assert.Equal(t, schema.ChurnSummary{Retained: 8, AtRisk: 4, Total: 12}, res.Summary)
	require.Len(t, res.HighRisk, 2)
	assert.Equal(t, "light-0", res.HighRisk[0].UserID)
	assert.Equal(t, "light-1", res.HighRisk[1].UserID)
	assert.Equal(t, schema.AtRiskLabel, res.HighRisk[0].Label())
	assert.Equal(t, schema.RetainedLabel, flagged[1].Label())
}

func TestHighRisk_Unbounded(t *testing.T) {
	snap := testSnapshot(t, segmentedRecords())
	flagged, err := FlagChurn(snap.Records, DefaultChurnThresholds())
	require.NoError(t, err)

	all := HighRisk(flagged, 0)
	assert.Len(t, all, 4)
	assert.Len(t, HighRisk(flagged, -3), 4)
	assert.Len(t, HighRisk(flagged, 100), 4)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].UserID, all[i].UserID, "dataset order is kept")
	}
}

func TestFlagChurn_InvalidThresholds(t *testing.T) {
	snap := testSnapshot(t, segmentedRecords())
	for _, th := range []schema.ChurnThresholds{
		{Usage: -1, Screen: 3, Data: 500},
		{Usage: 150, Screen: math.NaN(), Data: 500},
		{Usage: 150, Screen: 3, Data: math.Inf(1)},
	} {
		_, err := FlagChurn(snap.Records, th)
		assert.ErrorIs(t, err, schema.ErrConfig)
	}
}

func TestFlagChurn_DoesNotMutateInput(t *testing.T) {
	snap := testSnapshot(t, segmentedRecords())
	before := snap.Records[0]
	_, err := FlagChurn(snap.Records, DefaultChurnThresholds())
	require.NoError(t, err)
	assert.Equal(t, before, snap.Records[0])
}
