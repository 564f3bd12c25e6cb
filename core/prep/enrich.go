// Package prep derives features and encodes categorical columns of usage records.
package prep

import (
	"fmt"

	"github.com/huangsam/devpulse/schema"
)

// EnrichResult is the output of Enrich.
type EnrichResult struct {
	Records []schema.EnrichedRecord
	Report  schema.DataQualityReport
}

// Enrich validates records and derives the computed columns of each one.
// Invalid records and records whose ratios would divide by zero are dropped and
// counted in the report; the input slice is never modified.
func Enrich(records []schema.Record) (EnrichResult, error) {
	if len(records) == 0 {
		return EnrichResult{}, fmt.Errorf("%w: no records to enrich", schema.ErrDataQuality)
	}

	report := schema.DataQualityReport{Total: len(records)}
	enriched := make([]schema.EnrichedRecord, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			report.Drop(schema.DropMissingField)
			continue
		}
		if r.BatteryDrain == 0 {
			report.Drop(schema.DropZeroDrain)
			continue
		}
		if r.AppsInstalled == 0 {
			report.Drop(schema.DropZeroApps)
			continue
		}
		enriched = append(enriched, derive(r))
	}
	report.Kept = len(enriched)

	if len(enriched) == 0 {
		return EnrichResult{Report: report}, fmt.Errorf("%w: all %d records were dropped", schema.ErrDataQuality, report.Total)
	}
	return EnrichResult{Records: enriched, Report: report}, nil
}

// derive computes the derived fields from the record's own raw fields.
func derive(r schema.Record) schema.EnrichedRecord {
	return schema.EnrichedRecord{
		Record:            r,
		BatteryEfficiency: r.AppUsageTime / r.BatteryDrain,
		UsagePerApp:       r.AppUsageTime / float64(r.AppsInstalled),
		AgeGroup:          AgeGroupOf(r.Age),
		HeavyUser:         IsHeavyUser(r.AppUsageTime, r.DataUsage),
	}
}

// AgeGroupOf bins an age into its bracket. Ages outside (0,100] are unclassified.
func AgeGroupOf(age int) schema.AgeGroup {
	switch {
	case age <= 0 || age > 100:
		return schema.Unclassified
	case age <= 25:
		return schema.AgeGroup18to25
	case age <= 35:
		return schema.AgeGroup26to35
	case age <= 45:
		return schema.AgeGroup36to45
	case age <= 60:
		return schema.AgeGroup46to60
	default:
		return schema.AgeGroup60Plus
	}
}

// IsHeavyUser reports whether both usage and data exceed the heavy-user bounds.
func IsHeavyUser(usage, data float64) bool {
	return usage > schema.HeavyUsageMin && data > schema.HeavyDataMin
}
