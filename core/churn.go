package core

import (
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// DefaultChurnThresholds returns the thresholds used when none are configured.
func DefaultChurnThresholds() schema.ChurnThresholds {
	return schema.ChurnThresholds{
		Usage:  contract.DefaultUsageThreshold,
		Screen: contract.DefaultScreenThreshold,
		Data:   contract.DefaultDataThreshold,
	}
}

// IsAtRisk applies the churn rule. All three comparisons are strict, so a
// value equal to its threshold keeps the record retained.
func IsAtRisk(r schema.EnrichedRecord, t schema.ChurnThresholds) bool {
	return r.AppUsageTime < t.Usage && r.ScreenOnTime < t.Screen && r.DataUsage < t.Data
}

// FlagChurn labels every record with its churn flag, keeping dataset order.
func FlagChurn(records []schema.EnrichedRecord, t schema.ChurnThresholds) ([]schema.ChurnRecord, error) {
	if err := contract.ValidateThresholds(t); err != nil {
		return nil, err
	}
	out := make([]schema.ChurnRecord, len(records))
	for i, r := range records {
		out[i] = schema.ChurnRecord{EnrichedRecord: r, AtRisk: IsAtRisk(r, t)}
	}
	return out, nil
}

// SummarizeChurn counts retained and at-risk records.
func SummarizeChurn(flagged []schema.ChurnRecord) schema.ChurnSummary {
	s := schema.ChurnSummary{Total: len(flagged)}
	for _, r := range flagged {
		if r.AtRisk {
			s.AtRisk++
		} else {
			s.Retained++
		}
	}
	return s
}

// HighRisk returns the flagged records in dataset order, truncated to limit.
// A limit <= 0 returns all of them.
func HighRisk(flagged []schema.ChurnRecord, limit int) []schema.ChurnRecord {
	var out []schema.ChurnRecord
	for _, r := range flagged {
		if !r.AtRisk {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Churn flags, summarizes and selects high-risk records in one call.
func Churn(records []schema.EnrichedRecord, t schema.ChurnThresholds, limit int) (schema.ChurnResult, []schema.ChurnRecord, error) {
	flagged, err := FlagChurn(records, t)
	if err != nil {
		return schema.ChurnResult{}, nil, err
	}
	if limit < 0 {
		limit = 0
	}
	return schema.ChurnResult{
		Thresholds: t,
		Summary:    SummarizeChurn(flagged),
		HighRisk:   HighRisk(flagged, limit),
		Limit:      limit,
	}, flagged, nil
}
