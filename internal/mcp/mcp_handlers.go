package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// prepare clones the base config and applies the dataset argument.
func (h *toolHandler) prepare(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateDataPath(cfg, request.GetString("data_path", "")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyTraits replaces the trait filters with those of the request.
func applyTraits(cfg *contract.Config, request mcp.CallToolRequest) error {
	traits, err := contract.ParseTraits(
		request.GetString("os", ""),
		request.GetString("gender", ""),
		request.GetString("behavior_class", ""),
		request.GetString("age_group", ""),
	)
	if err != nil {
		return err
	}
	cfg.Traits = traits
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSegmentUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid segment parameters: %v", err)), nil
	}
	if k := request.GetInt("clusters", 0); k != 0 {
		if k < contract.MinClusters || k > contract.MaxClusters {
			return mcp.NewToolResultError(fmt.Sprintf("invalid segment parameters: clusters must be between %d and %d", contract.MinClusters, contract.MaxClusters)), nil
		}
		cfg.Clusters = k
	}
	if f := request.GetString("features", ""); f != "" {
		features, err := contract.ParseFeatureList([]string{f})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid segment parameters: %v", err)), nil
		}
		cfg.Features = features
	}
	if seed := request.GetInt("seed", -1); seed >= 0 {
		cfg.Seed = uint64(seed)
	}

	res, _, err := core.GetSegmentResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("segmentation failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleSelectPersona(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err == nil {
		err = applyTraits(cfg, request)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid persona parameters: %v", err)), nil
	}
	cfg.SampleSeed = nil
	if seed := request.GetInt("sample_seed", -1); seed >= 0 {
		s := uint64(seed)
		cfg.SampleSeed = &s
	}

	match, _, err := core.GetPersonaResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("persona selection failed: %v", err)), nil
	}
	if !match.Found {
		return mcp.NewToolResultText(schema.NoMatchMessage), nil
	}
	return jsonResult(match)
}

func (h *toolHandler) handleFlagChurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid churn parameters: %v", err)), nil
	}
	cfg.Thresholds = schema.ChurnThresholds{
		Usage:  request.GetFloat("usage_threshold", cfg.Thresholds.Usage),
		Screen: request.GetFloat("screen_threshold", cfg.Thresholds.Screen),
		Data:   request.GetFloat("data_threshold", cfg.Thresholds.Data),
	}
	if err := contract.ValidateThresholds(cfg.Thresholds); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid churn parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.Limit = min(l, contract.MaxResultLimit)
	}

	res, _, _, err := core.GetChurnResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("churn analysis failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleRecommendActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err == nil {
		err = applyTraits(cfg, request)
	}
	if err == nil {
		err = contract.RevalidateCluster(cfg, request.GetInt("cluster", -1))
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid recommendation parameters: %v", err)), nil
	}

	res, _, err := core.GetRecommendationResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if errors.Is(err, schema.ErrEmptySegment) {
		return mcp.NewToolResultText(schema.NoMatchMessage), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleDescribeDataset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid describe parameters: %v", err)), nil
	}

	res, _, _, err := core.GetDescribeResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
	}
	return jsonResult(res)
}
