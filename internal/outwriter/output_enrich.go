package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/parquet"
	"github.com/huangsam/devpulse/schema"
)

// PrintEnrichResults outputs the enriched snapshot, dispatching on the configured format.
func PrintEnrichResults(snap *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snap)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEnrichCSV(w, snap.Records, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, parquet.ConvertEnrichedRecords(snap.Records))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEnrichTable(w, snap, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// enrichedCSVHeader lists the raw, derived and encoded columns in output order.
func enrichedCSVHeader() []string {
	header := slices.Clone(schema.RequiredColumns)
	header = append(header, schema.ColBatteryEfficiency, schema.ColUsagePerApp, schema.ColAgeGroup, schema.ColHeavyUser)
	for _, col := range schema.DefaultEncodedColumns {
		header = append(header, col+schema.EncodedSuffix)
	}
	return header
}

// enrichedCSVRow renders one record in the order of enrichedCSVHeader.
func enrichedCSVRow(r schema.EnrichedRecord, fmtFloat func(float64) string) []string {
	row := []string{
		r.UserID,
		r.DeviceModel,
		r.OperatingSystem,
		fmtFloat(r.AppUsageTime),
		fmtFloat(r.ScreenOnTime),
		fmtFloat(r.BatteryDrain),
		strconv.Itoa(r.AppsInstalled),
		fmtFloat(r.DataUsage),
		strconv.Itoa(r.Age),
		r.Gender,
		strconv.Itoa(r.BehaviorClass),
		fmtFloat(r.BatteryEfficiency),
		fmtFloat(r.UsagePerApp),
		string(r.AgeGroup),
		strconv.FormatBool(r.HeavyUser),
	}
	for _, col := range schema.DefaultEncodedColumns {
		code, ok := r.Encoded[col]
		if !ok {
			code = schema.UnclassifiedCode
		}
		row = append(row, strconv.Itoa(code))
	}
	return row
}

func writeEnrichCSV(w io.Writer, records []schema.EnrichedRecord, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, enrichedCSVHeader(), func(cw *csv.Writer) error {
		for _, r := range records {
			if err := cw.Write(enrichedCSVRow(r, fmtFloat)); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeEnrichTable(w io.Writer, snap *schema.Snapshot, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	records := snap.Records
	if cfg.Limit > 0 && len(records) > cfg.Limit {
		records = records[:cfg.Limit]
	}

	deviceWidth := maxTextWidth(cfg, 110)
	var data [][]string
	for _, r := range records {
		data = append(data, []string{
			r.UserID,
			contract.TruncateText(r.DeviceModel, deviceWidth),
			r.OperatingSystem,
			r.Gender,
			string(r.AgeGroup),
			strconv.Itoa(r.BehaviorClass),
			fmtFloat(r.AppUsageTime),
			fmtFloat(r.BatteryEfficiency),
			fmtFloat(r.UsagePerApp),
			contract.GetHeavyLabel(r.HeavyUser, cfg.UseColors),
		})
	}
	headers := []string{"User", "Device", "OS", "Gender", "Age Group", "Class", "Usage", "Efficiency", "Per App", "Tier"}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d of %d enriched records\n", len(records), len(snap.Records)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%sEncodings\n", emoji(cfg, "🔢")); err != nil {
		return err
	}
	for _, col := range slices.Sorted(maps.Keys(snap.Encodings)) {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", col, formatEncoding(snap.Encodings[col])); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, duration)
}

// formatEncoding renders an encoding as "value=code" pairs in code order.
func formatEncoding(e schema.Encoding) string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = fmt.Sprintf("%s=%d", v, i)
	}
	return strings.Join(parts, ", ")
}
