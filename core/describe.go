package core

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/huangsam/devpulse/core/algo"
	"github.com/huangsam/devpulse/schema"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Describe computes the exploratory insights of a snapshot.
func Describe(snap *schema.Snapshot) (schema.DescribeResult, error) {
	records := snap.Records
	if len(records) == 0 {
		return schema.DescribeResult{}, fmt.Errorf("%w: snapshot has no records", schema.ErrEmptySegment)
	}

	stats, err := DescribeColumns(records, schema.NumericColumns)
	if err != nil {
		return schema.DescribeResult{}, err
	}
	data, err := featureMatrix(records, schema.NumericColumns)
	if err != nil {
		return schema.DescribeResult{}, err
	}

	res := schema.DescribeResult{
		Records:   len(records),
		Quality:   snap.Quality,
		Stats:     stats,
		Columns:   slices.Clone(schema.NumericColumns),
		Encodings: snap.Encodings,
	}
	if len(records) > 1 {
		res.Correlation = algo.Correlations(data)
	}
	res.UsageTopCorrelate = topCorrelate(res.Columns, res.Correlation, schema.ColAppUsageTime)

	usage := mat.Col(nil, slices.Index(schema.NumericColumns, schema.ColAppUsageTime), data)
	age := mat.Col(nil, slices.Index(schema.NumericColumns, schema.ColAge), data)
	screen := mat.Col(nil, slices.Index(schema.NumericColumns, schema.ColScreenOnTime), data)
	res.UsageSkew = algo.Skew(usage)
	res.AgeScreenCorrelation = algo.Correlation(age, screen)

	res.DrainByOS = groupMeans(records, func(r schema.EnrichedRecord) string { return r.OperatingSystem },
		func(r schema.EnrichedRecord) float64 { return r.BatteryDrain })
	res.DataByAgeGroup = groupMeans(records, func(r schema.EnrichedRecord) string { return string(r.AgeGroup) },
		func(r schema.EnrichedRecord) float64 { return r.DataUsage })
	res.UsageByClass = groupMeans(records, func(r schema.EnrichedRecord) string { return strconv.Itoa(r.BehaviorClass) },
		func(r schema.EnrichedRecord) float64 { return r.AppUsageTime })
	res.DataByDevice = groupMeans(records, func(r schema.EnrichedRecord) string { return r.DeviceModel },
		func(r schema.EnrichedRecord) float64 { return r.DataUsage })
	res.UsageStdByAgeGroup = groupStdDevs(records, func(r schema.EnrichedRecord) string { return string(r.AgeGroup) },
		func(r schema.EnrichedRecord) float64 { return r.AppUsageTime })

	res.TopDrainOS, _ = algo.TopGroup(res.DrainByOS)
	res.TopDataAgeGroup, _ = algo.TopGroup(res.DataByAgeGroup)
	res.TopDataDevice, _ = algo.TopGroup(res.DataByDevice)
	res.MostVariedAgeGroup, _ = algo.TopGroup(res.UsageStdByAgeGroup)

	res.GenderCounts = make(map[string]int)
	heavy := 0
	for _, r := range records {
		res.GenderCounts[r.Gender]++
		if r.HeavyUser {
			heavy++
		}
	}
	res.HeavyUserShare = float64(heavy) / float64(len(records))
	return res, nil
}

// topCorrelate finds the column most strongly correlated, by absolute value, with ref.
func topCorrelate(columns []string, corr [][]float64, ref string) schema.Correlate {
	i := slices.Index(columns, ref)
	if i < 0 || len(corr) == 0 {
		return schema.Correlate{}
	}
	best := schema.Correlate{}
	for j, c := range columns {
		if j == i {
			continue
		}
		if best.Column == "" || math.Abs(corr[i][j]) > math.Abs(best.Coefficient) {
			best = schema.Correlate{Column: c, Coefficient: corr[i][j]}
		}
	}
	return best
}

// groupValues buckets value(r) by key(r), skipping the unclassified (empty) key.
func groupValues(records []schema.EnrichedRecord, key func(schema.EnrichedRecord) string,
	value func(schema.EnrichedRecord) float64,
) (map[string][]float64, []string) {
	buckets := make(map[string][]float64)
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		buckets[k] = append(buckets[k], value(r))
	}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return buckets, keys
}

// groupMeans returns the mean of value per group, sorted by group name.
func groupMeans(records []schema.EnrichedRecord, key func(schema.EnrichedRecord) string,
	value func(schema.EnrichedRecord) float64,
) []schema.GroupMean {
	buckets, keys := groupValues(records, key, value)
	out := make([]schema.GroupMean, 0, len(keys))
	for _, k := range keys {
		out = append(out, schema.GroupMean{Group: k, Value: stat.Mean(buckets[k], nil), Count: len(buckets[k])})
	}
	return out
}

// groupStdDevs returns the sample standard deviation of value per group.
// Groups with fewer than two members have no spread and are left out.
func groupStdDevs(records []schema.EnrichedRecord, key func(schema.EnrichedRecord) string,
	value func(schema.EnrichedRecord) float64,
) []schema.GroupMean {
	buckets, keys := groupValues(records, key, value)
	out := make([]schema.GroupMean, 0, len(keys))
	for _, k := range keys {
		if len(buckets[k]) < 2 {
			continue
		}
		out = append(out, schema.GroupMean{Group: k, Value: stat.StdDev(buckets[k], nil), Count: len(buckets[k])})
	}
	return out
}

// UsageValues returns App_Usage_Time of every record, for histograms.
func UsageValues(records []schema.EnrichedRecord) []float64 {
	values, _ := columnValues(records, schema.ColAppUsageTime)
	return values
}
