// Package core runs the usage analytics pipeline: snapshot, segments, personas,
// churn flags, recommendations and exploratory insights.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/outwriter"
	"github.com/huangsam/devpulse/schema"
)

// Command names recorded with tracked runs.
const (
	CommandEnrich    = "enrich"
	CommandSegment   = "segment"
	CommandPersona   = "persona"
	CommandChurn     = "churn"
	CommandRecommend = "recommend"
	CommandDescribe  = "describe"
)

// ExecutorFunc defines the function signature for executing the pipeline commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// loadWithHeader loads the snapshot and prints the run header unless suppressed.
func loadWithHeader(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, command string) (*schema.Snapshot, error) {
	snap, err := LoadSnapshot(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, command, snap)
	}
	return snap, nil
}

// ExecuteEnrich prints the enriched and encoded records with their encodings.
func ExecuteEnrich(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	snap, err := loadWithHeader(ctx, cfg, mgr, CommandEnrich)
	if err != nil {
		return err
	}
	ctx = beginTracking(ctx, mgr, CommandEnrich, map[string]any{"data": cfg.DataPath})
	endTracking(ctx, mgr, len(snap.Records), nil)
	return outwriter.NewOutWriter().WriteEnrich(snap, cfg, time.Since(start))
}

// GetSegmentResults clusters the snapshot and projects it for charting.
func GetSegmentResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.SegmentResult, time.Duration, error) {
	start := time.Now()
	snap, err := loadWithHeader(ctx, cfg, mgr, CommandSegment)
	if err != nil {
		return schema.SegmentResult{}, 0, err
	}

	ctx = beginTracking(ctx, mgr, CommandSegment, map[string]any{
		"data":     cfg.DataPath,
		"clusters": cfg.Clusters,
		"features": cfg.Features,
		"seed":     cfg.Seed,
		"restarts": cfg.Restarts,
	})
	res, err := Segment(snap.Records, cfg.Features, cfg.Clusters, clusterOptions(cfg))
	if err != nil {
		return schema.SegmentResult{}, 0, err
	}
	endTracking(ctx, mgr, len(res.Records), clusterOutcomes(CommandSegment, res.Records))
	return res, time.Since(start), nil
}

// ExecuteSegment runs the segment command and prints results.
func ExecuteSegment(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	res, duration, err := GetSegmentResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if cfg.ChartFile != "" {
		if err := outwriter.WriteClusterChart(res.Projection, res.Model.K, cfg.ChartFile); err != nil {
			return err
		}
	}
	return outwriter.NewOutWriter().WriteSegment(res, cfg, duration)
}

// GetPersonaResults samples one persona matching the configured traits.
// No match is reported through PersonaMatch.Found, not as an error.
func GetPersonaResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.PersonaMatch, time.Duration, error) {
	start := time.Now()
	snap, err := loadWithHeader(ctx, cfg, mgr, CommandPersona)
	if err != nil {
		return schema.PersonaMatch{}, 0, err
	}
	match := SelectPersona(snap.Records, cfg.Traits, cfg.SampleSeed)
	return match, time.Since(start), nil
}

// ExecutePersona runs the persona command and prints results.
func ExecutePersona(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	match, duration, err := GetPersonaResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePersona(match, cfg, duration)
}

// GetChurnResults flags churn risk for every record of the snapshot.
// The second value holds every flagged record, for exports.
func GetChurnResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ChurnResult, []schema.ChurnRecord, time.Duration, error) {
	start := time.Now()
	snap, err := loadWithHeader(ctx, cfg, mgr, CommandChurn)
	if err != nil {
		return schema.ChurnResult{}, nil, 0, err
	}

	ctx = beginTracking(ctx, mgr, CommandChurn, map[string]any{
		"data":             cfg.DataPath,
		"usage_threshold":  cfg.Thresholds.Usage,
		"screen_threshold": cfg.Thresholds.Screen,
		"data_threshold":   cfg.Thresholds.Data,
	})
	res, flagged, err := Churn(snap.Records, cfg.Thresholds, cfg.Limit)
	if err != nil {
		return schema.ChurnResult{}, nil, 0, err
	}
	endTracking(ctx, mgr, len(flagged), churnOutcomes(CommandChurn, flagged))
	return res, flagged, time.Since(start), nil
}

// ExecuteChurn runs the churn command and prints results.
func ExecuteChurn(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	res, flagged, duration, err := GetChurnResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteChurn(res, flagged, cfg, duration)
}

// GetRecommendationResults filters the snapshot by traits, and by cluster when
// one is configured, then evaluates the advisory rules on what is left.
// An empty subset yields a result marked Empty together with ErrEmptySegment.
func GetRecommendationResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.RecommendationResult, time.Duration, error) {
	start := time.Now()
	snap, err := loadWithHeader(ctx, cfg, mgr, CommandRecommend)
	if err != nil {
		return schema.RecommendationResult{}, 0, err
	}

	records := snap.Records
	if cfg.Cluster != nil {
		run, err := Cluster(records, cfg.Features, cfg.Clusters, clusterOptions(cfg))
		if err != nil {
			return schema.RecommendationResult{}, 0, err
		}
		records = FilterByCluster(run.Records, *cfg.Cluster)
	}
	res, err := BuildRecommendation(records, cfg.Traits, cfg.Cluster)
	return res, time.Since(start), err
}

// ExecuteRecommend runs the recommend command and prints results. An empty
// subset prints the empty-state message instead of failing.
func ExecuteRecommend(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	res, duration, err := GetRecommendationResults(ctx, cfg, mgr)
	if err != nil && !errors.Is(err, schema.ErrEmptySegment) {
		return err
	}
	return outwriter.NewOutWriter().WriteRecommendation(res, cfg, duration)
}

// GetDescribeResults computes the exploratory insights of the snapshot.
func GetDescribeResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.DescribeResult, *schema.Snapshot, time.Duration, error) {
	start := time.Now()
	snap, err := loadWithHeader(ctx, cfg, mgr, CommandDescribe)
	if err != nil {
		return schema.DescribeResult{}, nil, 0, err
	}
	res, err := Describe(snap)
	if err != nil {
		return schema.DescribeResult{}, nil, 0, err
	}
	return res, snap, time.Since(start), nil
}

// ExecuteDescribe runs the describe command and prints results.
func ExecuteDescribe(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	res, snap, duration, err := GetDescribeResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if cfg.PlotFile != "" {
		if err := outwriter.WriteUsageHistogram(UsageValues(snap.Records), cfg.PlotFile); err != nil {
			return fmt.Errorf("cannot write histogram: %w", err)
		}
	}
	return outwriter.NewOutWriter().WriteDescribe(res, cfg, duration)
}

// ExecuteRules prints the rule catalogue for the active thresholds.
func ExecuteRules(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteRules(RulesCatalogue(cfg.Thresholds), cfg)
}

func clusterOptions(cfg *contract.Config) ClusterOptions {
	return ClusterOptions{Seed: cfg.Seed, Restarts: cfg.Restarts, MaxIterations: cfg.MaxIterations}
}
