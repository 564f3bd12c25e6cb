// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the devpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Devpulse Usage Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: segment_users ---
	s.AddTool(mcp.NewTool("segment_users",
		mcp.WithDescription("Cluster device users with seeded k-means on standardized features and project them onto two principal components."),
		mcp.WithString("data_path", mcp.Description("Path to the usage dataset CSV (defaults to the configured dataset).")),
		mcp.WithNumber("clusters", mcp.Description("Number of clusters, between 2 and 10.")),
		mcp.WithString("features", mcp.Description("Comma-separated feature columns, e.g. 'App_Usage_Time,Data_Usage'.")),
		mcp.WithNumber("seed", mcp.Description("Random seed for centroid initialization.")),
	), h.handleSegmentUsers)

	// --- 2. Tool: select_persona ---
	s.AddTool(mcp.NewTool("select_persona",
		mcp.WithDescription("Sample one representative user matching the given traits and describe them."),
		mcp.WithString("data_path", mcp.Description("Path to the usage dataset CSV.")),
		mcp.WithString("os", mcp.Description("Operating system filter (e.g. Android, iOS), or 'all'.")),
		mcp.WithString("gender", mcp.Description("Gender filter, or 'all'.")),
		mcp.WithString("behavior_class", mcp.Description("User behavior class filter (1-5), or 'all'.")),
		mcp.WithString("age_group", mcp.Description("Age group filter, or 'all'."), mcp.Enum("all", "18-25", "26-35", "36-45", "46-60", "60+")),
		mcp.WithNumber("sample_seed", mcp.Description("Seed for a reproducible sample.")),
	), h.handleSelectPersona)

	// --- 3. Tool: flag_churn ---
	s.AddTool(mcp.NewTool("flag_churn",
		mcp.WithDescription("Flag users likely to churn: usage, screen time and data usage all strictly below their thresholds."),
		mcp.WithString("data_path", mcp.Description("Path to the usage dataset CSV.")),
		mcp.WithNumber("usage_threshold", mcp.Description("App usage threshold in minutes per day.")),
		mcp.WithNumber("screen_threshold", mcp.Description("Screen-on threshold in hours per day.")),
		mcp.WithNumber("data_threshold", mcp.Description("Data usage threshold in MB per day.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of high-risk users returned.")),
	), h.handleFlagChurn)

	// --- 4. Tool: recommend_actions ---
	s.AddTool(mcp.NewTool("recommend_actions",
		mcp.WithDescription("Recommend product actions for the users matching the given traits, optionally within one cluster."),
		mcp.WithString("data_path", mcp.Description("Path to the usage dataset CSV.")),
		mcp.WithString("os", mcp.Description("Operating system filter, or 'all'.")),
		mcp.WithString("gender", mcp.Description("Gender filter, or 'all'.")),
		mcp.WithString("behavior_class", mcp.Description("User behavior class filter (1-5), or 'all'.")),
		mcp.WithString("age_group", mcp.Description("Age group filter, or 'all'."), mcp.Enum("all", "18-25", "26-35", "36-45", "46-60", "60+")),
		mcp.WithNumber("cluster", mcp.Description("Restrict to one cluster of the configured segmentation.")),
	), h.handleRecommendActions)

	// --- 5. Tool: describe_dataset ---
	s.AddTool(mcp.NewTool("describe_dataset",
		mcp.WithDescription("Summary statistics, correlations and group insights of the usage dataset."),
		mcp.WithString("data_path", mcp.Description("Path to the usage dataset CSV.")),
	), h.handleDescribeDataset)

	return s
}

// StartMCPServer starts the devpulse MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
