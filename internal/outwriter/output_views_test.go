package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteEnrichCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	snap := testSnapshot()

	var buf bytes.Buffer
	require.NoError(t, writeEnrichCSV(&buf, snap.Records, fmtFloat))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 4)
	header := rows[0]
	assert.Equal(t, schema.ColUserID, header[0])
	assert.Contains(t, header, schema.ColGender+schema.EncodedSuffix)
	assert.Equal(t, len(header), len(rows[1]))
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "true", rows[1][14])
	assert.Equal(t, "1", rows[1][len(rows[1])-1], "age group code")
}

func TestEnrichedCSVRow_MissingEncodingIsUnclassified(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	r := testRecord("9", 100, 2, 100, false)
	r.Encoded = nil

	row := enrichedCSVRow(r, fmtFloat)
	assert.Equal(t, "-1", row[len(row)-1])
}

func TestWriteEnrichTable_RespectsLimit(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	cfg := testConfig(schema.TextOut)
	cfg.Limit = 2

	var buf bytes.Buffer
	require.NoError(t, writeEnrichTable(&buf, testSnapshot(), cfg, fmtFloat, 0))
	out := buf.String()
	assert.Contains(t, out, "Showing 2 of 3 enriched records")
	assert.Contains(t, out, "Gender: Female=0, Male=1")
	assert.Contains(t, out, "Operating_System: Android=0, iOS=1")
}

func TestWriteSegmentJSON(t *testing.T) {
	snap := testSnapshot()
	res := schema.SegmentResult{
		Model: schema.CentroidModel{K: 2, Seed: 42, Features: []string{schema.ColAppUsageTime, schema.ColDataUsage}},
		Profiles: []schema.ClusterProfile{
			{Cluster: 0, Size: 1, Means: map[string]float64{schema.ColAppUsageTime: 393}},
			{Cluster: 1, Size: 2, Means: map[string]float64{schema.ColAppUsageTime: 211}},
		},
		Projection: schema.Projection{
			Points: []schema.Point2D{
				{UserID: "1", PC1: 1.5, PC2: 0.1, Cluster: 0},
				{UserID: "2", PC1: -0.5, PC2: 0.2, Cluster: 1},
				{UserID: "3", PC1: -1.0, PC2: -0.3, Cluster: 1},
			},
			ExplainedVariance: [2]float64{0.8, 0.15},
		},
		Records: []schema.LabeledRecord{
			{EnrichedRecord: snap.Records[0], Cluster: 0},
			{EnrichedRecord: snap.Records[1], Cluster: 1},
			{EnrichedRecord: snap.Records[2], Cluster: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeSegmentJSON(&buf, res))

	var decoded struct {
		Model       schema.CentroidModel `json:"model"`
		Assignments []segmentAssignment  `json:"assignments"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Model.K)
	require.Len(t, decoded.Assignments, 3)
	assert.Equal(t, segmentAssignment{UserID: "3", Cluster: 1, PC1: -1.0, PC2: -0.3}, decoded.Assignments[2])

	fmtFloat, _ := createFormatters(1)
	buf.Reset()
	require.NoError(t, writeSegmentCSV(&buf, res, fmtFloat))
	rows := readCSV(t, buf.String())
	require.Len(t, rows, 4)
	assert.Equal(t, []string{schema.ColUserID, "Cluster", schema.ColAppUsageTime, schema.ColDataUsage, "PC1", "PC2"}, rows[0])
	assert.Equal(t, []string{"1", "0", "393.0", "1122.0", "1.5", "0.1"}, rows[1])

	buf.Reset()
	require.NoError(t, writeSegmentTable(&buf, res, testConfig(schema.TextOut), fmtFloat, 0))
	assert.Contains(t, buf.String(), "2 clusters over 3 records (seed 42")
	assert.Contains(t, buf.String(), "PC1 80.0%, PC2 15.0%")
}

func TestWritePersonaCard(t *testing.T) {
	cfg := testConfig(schema.TextOut)

	t.Run("no match", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writePersonaCard(&buf, schema.PersonaMatch{}, cfg, 0))
		assert.True(t, strings.HasPrefix(buf.String(), schema.NoMatchMessage))
	})

	t.Run("match", func(t *testing.T) {
		match := schema.PersonaMatch{
			Found:      true,
			Candidates: 12,
			Record:     testRecord("7", 300, 5, 900, false),
			Card: schema.PersonaCard{
				Title:      "User 7",
				Lines:      []string{"Device: Google Pixel 5 (Android)"},
				Engagement: "Highly engaged",
			},
		}
		var buf bytes.Buffer
		require.NoError(t, writePersonaCard(&buf, match, cfg, 0))
		out := buf.String()
		assert.Contains(t, out, "User 7\n")
		assert.Contains(t, out, "  Device: Google Pixel 5 (Android)\n")
		assert.Contains(t, out, "  Highly engaged\n")
		assert.Contains(t, out, "Sampled from 12 matching users")
	})
}

func TestPrintPersonaResults_ParquetUnsupported(t *testing.T) {
	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "p.parquet")
	err := PrintPersonaResults(schema.PersonaMatch{}, cfg, 0)
	assert.ErrorIs(t, err, schema.ErrConfig)
}

func TestWriteChurnOutputs(t *testing.T) {
	snap := testSnapshot()
	flagged := []schema.ChurnRecord{
		{EnrichedRecord: snap.Records[0]},
		{EnrichedRecord: snap.Records[2], AtRisk: false},
		{EnrichedRecord: testRecord("4", 80, 1.5, 200, false), AtRisk: true},
	}
	res := schema.ChurnResult{
		Thresholds: testConfig(schema.TextOut).Thresholds,
		Summary:    schema.ChurnSummary{Retained: 2, AtRisk: 1, Total: 3},
		HighRisk:   flagged[2:],
		Limit:      10,
	}
	fmtFloat, _ := createFormatters(2)

	var buf bytes.Buffer
	require.NoError(t, writeChurnCSV(&buf, flagged, fmtFloat))
	rows := readCSV(t, buf.String())
	require.Len(t, rows, 4)
	assert.Equal(t, "Churn_Label", rows[0][len(rows[0])-1])
	assert.Equal(t, string(schema.RetainedLabel), rows[1][len(rows[1])-1])
	assert.Equal(t, string(schema.AtRiskLabel), rows[3][len(rows[3])-1])

	buf.Reset()
	require.NoError(t, writeChurnTable(&buf, res, testConfig(schema.TextOut), fmtFloat, 0))
	out := buf.String()
	assert.Contains(t, out, "usage < 150 min, screen < 3 h, data < 500 MB")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "Showing 1 of 1 users likely to churn")
}

func TestWriteChurnTable_NoneAtRisk(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	res := schema.ChurnResult{Summary: schema.ChurnSummary{Retained: 3, Total: 3}}

	var buf bytes.Buffer
	require.NoError(t, writeChurnTable(&buf, res, testConfig(schema.TextOut), fmtFloat, 0))
	assert.Contains(t, buf.String(), "No user is likely to churn")
}

func TestShare(t *testing.T) {
	assert.Equal(t, "0.0%", share(0, 0))
	assert.Equal(t, "50.0%", share(1, 2))
}

func TestWriteRecommendationText(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	cfg := testConfig(schema.TextOut)

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRecommendationText(&buf, schema.RecommendationResult{Empty: true}, cfg, fmtFloat, 0))
		assert.True(t, strings.HasPrefix(buf.String(), schema.NoMatchMessage))
	})

	t.Run("with cluster", func(t *testing.T) {
		cluster := 2
		res := schema.RecommendationResult{
			Cluster:         &cluster,
			Matched:         5,
			Recommendations: []string{schema.AdviceLoyalty, schema.AdviceDataSaving},
			Stats:           []schema.ColumnStats{{Column: schema.ColAppUsageTime, Count: 5, Mean: 250}},
		}
		var buf bytes.Buffer
		require.NoError(t, writeRecommendationText(&buf, res, cfg, fmtFloat, 0))
		out := buf.String()
		assert.Contains(t, out, "Recommendations for 5 matching users in cluster 2")
		assert.Contains(t, out, "  1. "+schema.AdviceLoyalty)
		assert.Contains(t, out, "  2. "+schema.AdviceDataSaving)
		assert.Contains(t, out, "250.00")
	})
}

func TestPrintRecommendationResults_CSV(t *testing.T) {
	cfg := testConfig(schema.CSVOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "rec.csv")
	res := schema.RecommendationResult{Recommendations: []string{schema.AdviceReengage}}

	require.NoError(t, PrintRecommendationResults(res, cfg, 0))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	rows := readCSV(t, string(data))
	assert.Equal(t, [][]string{{"Rank", "Recommendation"}, {"1", schema.AdviceReengage}}, rows)
}

func TestWriteDescribeText(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	res := schema.DescribeResult{
		Records:           3,
		Stats:             []schema.ColumnStats{{Column: schema.ColAge, Count: 3, Mean: 30}},
		Columns:           []string{schema.ColAge, schema.ColAppUsageTime},
		Correlation:       [][]float64{{1, 0.25}, {0.25, 1}},
		UsageTopCorrelate: schema.Correlate{Column: schema.ColScreenOnTime, Coefficient: 0.95},
		TopDrainOS:        schema.GroupMean{Group: "iOS", Value: 1600, Count: 1},
		DrainByOS:         []schema.GroupMean{{Group: "Android", Value: 1200, Count: 2}, {Group: "iOS", Value: 1600, Count: 1}},
		GenderCounts:      map[string]int{"Male": 1, "Female": 2},
		HeavyUserShare:    1.0 / 3,
	}

	var buf bytes.Buffer
	require.NoError(t, writeDescribeText(&buf, res, testConfig(schema.TextOut), fmtFloat, 0))
	out := buf.String()
	assert.Contains(t, out, "Summary statistics (3 records)")
	assert.Contains(t, out, "0.25")
	assert.Contains(t, out, "App_Usage_Time correlates most with Screen_On_Time (0.95)")
	assert.Contains(t, out, "Highest mean battery drain: iOS (1600.00 mAh)")
	assert.Contains(t, out, "Heavy users: 33.3%")
	assert.Less(t, strings.Index(out, "Female"), strings.Index(out, "Male"))
}

func TestPrintRulesCatalogue(t *testing.T) {
	model := schema.RulesRenderModel{
		Title:       "Pipeline Rules",
		Description: "All rules.",
		Rules: []schema.RuleDefinition{
			{Section: "Churn", Name: string(schema.AtRiskLabel), Condition: "App_Usage_Time < 150", Outcome: "flagged"},
		},
	}

	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, PrintRulesCatalogue(model, cfg))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var decoded schema.RulesRenderModel
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, model, decoded)

	var buf bytes.Buffer
	require.NoError(t, writeRulesTable(&buf, model, testConfig(schema.TextOut)))
	assert.Contains(t, buf.String(), "Pipeline Rules\nAll rules.\n")
	assert.Contains(t, buf.String(), "App_Usage_Time < 150")
}
