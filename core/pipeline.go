package core

import (
	"github.com/huangsam/devpulse/core/prep"
	"github.com/huangsam/devpulse/schema"
)

// BuildSnapshot enriches and encodes records once. Every view reads the returned
// snapshot and none of them modifies it.
// loadReport carries the rows the loader already dropped; it may be empty.
func BuildSnapshot(source string, records []schema.Record, loadReport schema.DataQualityReport) (*schema.Snapshot, error) {
	quality := schema.DataQualityReport{Total: len(records)}
	if loadReport.Total > 0 {
		quality.Total = loadReport.Total
	}
	quality.Merge(loadReport)

	enriched, err := prep.Enrich(records)
	quality.Merge(enriched.Report)
	if err != nil {
		return nil, err
	}
	quality.Kept = len(enriched.Records)

	encoded, encodings, err := prep.Encode(enriched.Records, schema.DefaultEncodedColumns)
	if err != nil {
		return nil, err
	}

	return &schema.Snapshot{
		Source:    source,
		Records:   encoded,
		Encodings: encodings,
		Quality:   quality,
	}, nil
}
