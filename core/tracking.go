package core

import (
	"context"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// beginTracking opens a run in the analysis store, when one is configured,
// and returns a context carrying its id.
func beginTracking(ctx context.Context, mgr contract.CacheManager, command string, params map[string]any) context.Context {
	if mgr == nil {
		return ctx
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return ctx
	}
	id, err := store.BeginAnalysis(time.Now(), command, params)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return ctx
	}
	return withAnalysisID(ctx, id)
}

// endTracking stores the outcomes and closes the run opened by beginTracking.
func endTracking(ctx context.Context, mgr contract.CacheManager, totalRecords int, outcomes []schema.RecordOutcome) {
	id, ok := getAnalysisID(ctx)
	if !ok || mgr == nil {
		return
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return
	}
	if len(outcomes) > 0 {
		if err := store.RecordOutcomes(id, outcomes); err != nil {
			contract.LogWarn("Failed to record run outcomes", err)
		}
	}
	if err := store.EndAnalysis(id, time.Now(), totalRecords); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

// clusterOutcomes converts cluster labels into stored outcomes.
func clusterOutcomes(command string, records []schema.LabeledRecord) []schema.RecordOutcome {
	out := make([]schema.RecordOutcome, len(records))
	for i, r := range records {
		cluster := r.Cluster
		out[i] = schema.RecordOutcome{UserID: r.UserID, Command: command, Cluster: &cluster}
	}
	return out
}

// churnOutcomes converts churn flags into stored outcomes.
func churnOutcomes(command string, records []schema.ChurnRecord) []schema.RecordOutcome {
	out := make([]schema.RecordOutcome, len(records))
	for i, r := range records {
		atRisk := r.AtRisk
		out[i] = schema.RecordOutcome{UserID: r.UserID, Command: command, AtRisk: &atRisk}
	}
	return out
}
