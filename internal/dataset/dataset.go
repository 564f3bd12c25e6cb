// Package dataset parses the usage dataset into typed records.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/devpulse/schema"
)

// Parse reads a CSV dataset with a header row. Every required column must be
// present; extra columns are ignored. Rows with empty or unparseable cells are
// dropped and counted in the report.
func Parse(r io.Reader) ([]schema.Record, schema.DataQualityReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, schema.DataQualityReport{}, fmt.Errorf("%w: dataset is empty", schema.ErrSchema)
	}
	if err != nil {
		return nil, schema.DataQualityReport{}, fmt.Errorf("%w: cannot read header: %w", schema.ErrSchema, err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, schema.DataQualityReport{}, err
	}

	var records []schema.Record
	var report schema.DataQualityReport
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		report.Total++
		if err != nil {
			report.Drop(schema.DropUnparseable)
			continue
		}
		rec, err := parseRow(row, index)
		if err != nil {
			report.Drop(schema.DropUnparseable)
			continue
		}
		records = append(records, rec)
	}
	report.Kept = len(records)
	return records, report, nil
}

// columnIndex maps every required column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		// a UTF-8 BOM may precede the first column name
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range schema.RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", schema.ErrSchema, strings.Join(missing, ", "))
	}
	return index, nil
}

// rowReader pulls typed cells out of one row and remembers the first failure.
type rowReader struct {
	row   []string
	index map[string]int
	err   error
}

func (rr *rowReader) text(col string) string {
	if rr.err != nil {
		return ""
	}
	i := rr.index[col]
	if i >= len(rr.row) {
		rr.err = fmt.Errorf("column %s is missing from the row", col)
		return ""
	}
	v := strings.TrimSpace(rr.row[i])
	if v == "" {
		rr.err = fmt.Errorf("column %s is empty", col)
	}
	return v
}

func (rr *rowReader) float(col string) float64 {
	s := rr.text(col)
	if rr.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		rr.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

// integer accepts "12" and integral floats such as "12.0".
func (rr *rowReader) integer(col string) int {
	s := rr.text(col)
	if rr.err != nil {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		rr.err = fmt.Errorf("column %s: %q is not an integer", col, s)
		return 0
	}
	return int(f)
}

func parseRow(row []string, index map[string]int) (schema.Record, error) {
	rr := &rowReader{row: row, index: index}
	rec := schema.Record{
		UserID:          rr.text(schema.ColUserID),
		DeviceModel:     rr.text(schema.ColDeviceModel),
		OperatingSystem: rr.text(schema.ColOperatingSystem),
		AppUsageTime:    rr.float(schema.ColAppUsageTime),
		ScreenOnTime:    rr.float(schema.ColScreenOnTime),
		BatteryDrain:    rr.float(schema.ColBatteryDrain),
		AppsInstalled:   rr.integer(schema.ColAppsInstalled),
		DataUsage:       rr.float(schema.ColDataUsage),
		Age:             rr.integer(schema.ColAge),
		Gender:          rr.text(schema.ColGender),
		BehaviorClass:   rr.integer(schema.ColBehaviorClass),
	}
	return rec, rr.err
}
