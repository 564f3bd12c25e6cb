package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/devpulse/internal/contract"
	mcp_internal "github.com/huangsam/devpulse/internal/mcp"
	"github.com/huangsam/devpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDataset writes a small dataset with a light, a mid and a heavy profile.
func writeDataset(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(schema.RequiredColumns, ",") + "\n")
	for i := range 4 {
		fmt.Fprintf(&b, "L%d,iPhone 12,iOS,%d,1.5,450,12,120,%d,Female,1\n", i, 45+i, 22+i)
		fmt.Fprintf(&b, "M%d,Pixel 5,Android,%d,5.2,1300,45,700,%d,Male,3\n", i, 230+i, 38+i)
		fmt.Fprintf(&b, "H%d,Galaxy S21,Android,%d,10.4,2600,90,2200,%d,Male,5\n", i, 540+i, 52+i)
	}
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func baseConfig(t *testing.T) *contract.Config {
	return &contract.Config{
		DataPath:      writeDataset(t),
		Precision:     contract.DefaultPrecision,
		Output:        schema.JSONOut,
		Clusters:      3,
		Features:      append([]string(nil), schema.DefaultClusterFeatures...),
		Seed:          contract.DefaultSeed,
		Restarts:      contract.DefaultRestarts,
		MaxIterations: contract.DefaultMaxIterations,
		Limit:         contract.DefaultHighRiskLimit,
		Thresholds: schema.ChurnThresholds{
			Usage:  contract.DefaultUsageThreshold,
			Screen: contract.DefaultScreenThreshold,
			Data:   contract.DefaultDataThreshold,
		},
		CacheBackend: schema.NoneBackend,
	}
}

func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(cfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg := baseConfig(t)

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"segment_users too many clusters", "segment_users", map[string]any{"clusters": 11.0}, "clusters must be between 2 and 10"},
		{"segment_users unknown feature", "segment_users", map[string]any{"features": "App_Usage_Time,Bogus"}, "unknown numeric column"},
		{"select_persona bad age group", "select_persona", map[string]any{"age_group": "10-15"}, "invalid age group"},
		{"flag_churn negative threshold", "flag_churn", map[string]any{"usage_threshold": -1.0}, "usage threshold"},
		{"recommend_actions cluster out of range", "recommend_actions", map[string]any{"cluster": 5.0}, "cluster must be between 0 and 2"},
		{"describe_dataset missing file", "describe_dataset", map[string]any{"data_path": "/nope/users.csv"}, "is not readable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, cfg, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.contains)
		})
	}
}

func TestMCPServerHandlers_Results(t *testing.T) {
	cfg := baseConfig(t)

	t.Run("segment_users", func(t *testing.T) {
		res := callTool(t, cfg, "segment_users", map[string]any{"seed": 7.0})
		require.False(t, res.IsError, resultText(res))

		var out schema.SegmentResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.Equal(t, 3, out.Model.K)
		assert.Equal(t, uint64(7), out.Model.Seed)
		assert.Len(t, out.Projection.Points, 12)
	})

	t.Run("select_persona", func(t *testing.T) {
		res := callTool(t, cfg, "select_persona", map[string]any{"os": "iOS", "sample_seed": 1.0})
		require.False(t, res.IsError, resultText(res))

		var out schema.PersonaMatch
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.True(t, out.Found)
		assert.Equal(t, "iOS", out.Record.OperatingSystem)
		assert.Equal(t, 4, out.Candidates)
	})

	t.Run("select_persona no match", func(t *testing.T) {
		res := callTool(t, cfg, "select_persona", map[string]any{"os": "Windows"})
		require.False(t, res.IsError)
		assert.Equal(t, schema.NoMatchMessage, resultText(res))
	})

	t.Run("flag_churn", func(t *testing.T) {
		res := callTool(t, cfg, "flag_churn", map[string]any{"limit": 2.0})
		require.False(t, res.IsError, resultText(res))

		var out schema.ChurnResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.Equal(t, 4, out.Summary.AtRisk)
		assert.Equal(t, 12, out.Summary.Total)
		assert.Len(t, out.HighRisk, 2)
	})

	t.Run("recommend_actions", func(t *testing.T) {
		res := callTool(t, cfg, "recommend_actions", map[string]any{"behavior_class": "5"})
		require.False(t, res.IsError, resultText(res))

		var out schema.RecommendationResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.Equal(t, 4, out.Matched)
		assert.Contains(t, out.Recommendations, schema.AdviceLoyalty)
		assert.Contains(t, out.Recommendations, schema.AdviceOptimizeDrain)
		assert.Contains(t, out.Recommendations, schema.AdviceDataSaving)
	})

	t.Run("recommend_actions empty", func(t *testing.T) {
		res := callTool(t, cfg, "recommend_actions", map[string]any{"gender": "Other"})
		require.False(t, res.IsError)
		assert.Equal(t, schema.NoMatchMessage, resultText(res))
	})

	t.Run("describe_dataset", func(t *testing.T) {
		res := callTool(t, cfg, "describe_dataset", nil)
		require.False(t, res.IsError, resultText(res))

		var out schema.DescribeResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &out))
		assert.Equal(t, 12, out.Records)
		assert.Equal(t, map[string]int{"Female": 4, "Male": 8}, out.GenderCounts)
	})
}
