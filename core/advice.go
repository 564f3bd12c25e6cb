package core

import (
	"fmt"

	"github.com/huangsam/devpulse/core/algo"
	"github.com/huangsam/devpulse/schema"
	"gonum.org/v1/gonum/stat"
)

// subsetMeans holds the aggregates the recommendation rules read.
type subsetMeans struct {
	usage float64
	drain float64
	data  float64
}

func meansOf(subset []schema.EnrichedRecord) subsetMeans {
	usage := make([]float64, len(subset))
	drain := make([]float64, len(subset))
	data := make([]float64, len(subset))
	for i, r := range subset {
		usage[i] = r.AppUsageTime
		drain[i] = r.BatteryDrain
		data[i] = r.DataUsage
	}
	return subsetMeans{
		usage: stat.Mean(usage, nil),
		drain: stat.Mean(drain, nil),
		data:  stat.Mean(data, nil),
	}
}

// Recommend evaluates the advisory rules against the means of subset and returns
// the advisories that fired, in rule order. Exactly one of the re-engagement and
// loyalty advisories is always present.
func Recommend(subset []schema.EnrichedRecord, behaviorClass *int) ([]string, error) {
	if len(subset) == 0 {
		return nil, fmt.Errorf("%w: cannot recommend for zero records", schema.ErrEmptySegment)
	}
	return adviseFromMeans(meansOf(subset), behaviorClass), nil
}

func adviseFromMeans(m subsetMeans, behaviorClass *int) []string {
	var recs []string
	if m.usage < schema.LowUsageMean {
		recs = append(recs, schema.AdviceReengage)
	} else {
		recs = append(recs, schema.AdviceLoyalty)
	}
	if m.drain > schema.HighDrainMean {
		recs = append(recs, schema.AdviceOptimizeDrain)
	}
	if m.data > schema.HighDataMean {
		recs = append(recs, schema.AdviceDataSaving)
	}
	if behaviorClass != nil && *behaviorClass <= schema.LowEngagementMax {
		recs = append(recs, schema.AdviceOnboarding)
	}
	if m.usage > schema.RichUsageMean && m.data < schema.RichDataMeanLimit {
		recs = append(recs, schema.AdviceRichContent)
	}
	return recs
}

// DescribeColumns returns describe()-style statistics for each numeric column of records.
func DescribeColumns(records []schema.EnrichedRecord, columns []string) ([]schema.ColumnStats, error) {
	stats := make([]schema.ColumnStats, 0, len(columns))
	for _, col := range columns {
		values, err := columnValues(records, col)
		if err != nil {
			return nil, err
		}
		stats = append(stats, algo.Summarize(col, values))
	}
	return stats, nil
}

// BuildRecommendation filters records by traits and recommends for what is left.
// An empty subset returns a result marked Empty together with ErrEmptySegment.
func BuildRecommendation(records []schema.EnrichedRecord, traits schema.Traits, cluster *int) (schema.RecommendationResult, error) {
	subset := FilterRecords(records, traits)
	result := schema.RecommendationResult{Traits: traits, Cluster: cluster, Matched: len(subset)}

	var class *int
	if traits.BehaviorClass != 0 {
		c := traits.BehaviorClass
		class = &c
	}
	recs, err := Recommend(subset, class)
	if err != nil {
		result.Empty = true
		return result, err
	}
	stats, err := DescribeColumns(subset, schema.NumericColumns)
	if err != nil {
		return result, err
	}
	result.Recommendations = recs
	result.Stats = stats
	return result, nil
}

// columnValues extracts one numeric column of records.
func columnValues(records []schema.EnrichedRecord, column string) ([]float64, error) {
	values := make([]float64, len(records))
	for i, r := range records {
		v, err := r.Feature(column)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
