package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Error taxonomy of the pipeline. Callers match with errors.Is.
var (
	ErrDataQuality  = errors.New("data quality")
	ErrSchema       = errors.New("schema error")
	ErrConfig       = errors.New("config error")
	ErrEmptySegment = errors.New("empty segment")
	ErrNotFound     = errors.New("not found")
)

// Drop reasons reported by the data quality checks.
const (
	DropMissingField = "missing or invalid field"
	DropZeroDrain    = "zero battery drain"
	DropZeroApps     = "zero apps installed"
	DropUnparseable  = "unparseable row"
)

// NoMatchMessage is shown when a filtered view has no records.
const NoMatchMessage = "No user matches the selected filters."

// DataQualityReport counts records dropped before or during enrichment.
type DataQualityReport struct {
	Total   int            `json:"total"`
	Kept    int            `json:"kept"`
	Dropped map[string]int `json:"dropped,omitempty"`
}

// DroppedCount returns the number of dropped records across all reasons.
func (r DataQualityReport) DroppedCount() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

// Drop records one dropped record for reason.
func (r *DataQualityReport) Drop(reason string) {
	if r.Dropped == nil {
		r.Dropped = make(map[string]int)
	}
	r.Dropped[reason]++
}

// Merge adds the drop counts of other into r. Totals are left untouched.
func (r *DataQualityReport) Merge(other DataQualityReport) {
	for reason, n := range other.Dropped {
		if r.Dropped == nil {
			r.Dropped = make(map[string]int)
		}
		r.Dropped[reason] += n
	}
}

// Err returns a *DataQualityError when any record was dropped, nil otherwise.
func (r DataQualityReport) Err() error {
	if r.DroppedCount() == 0 {
		return nil
	}
	return &DataQualityError{Report: r}
}

// DataQualityError reports dropped records. It matches ErrDataQuality.
type DataQualityError struct {
	Report DataQualityReport
}

func (e *DataQualityError) Error() string {
	reasons := slices.Sorted(maps.Keys(e.Report.Dropped))
	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, e.Report.Dropped[reason]))
	}
	return fmt.Sprintf("%s: dropped %d of %d records (%s)",
		ErrDataQuality, e.Report.DroppedCount(), e.Report.Total, strings.Join(parts, ", "))
}

// Is lets errors.Is match the sentinel.
func (e *DataQualityError) Is(target error) bool {
	return target == ErrDataQuality
}
