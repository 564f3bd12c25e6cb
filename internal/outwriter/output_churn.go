package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/parquet"
	"github.com/huangsam/devpulse/schema"
)

// PrintChurnResults outputs the churn summary and high-risk records.
// CSV and Parquet carry every flagged record, the other formats only the high-risk list.
func PrintChurnResults(res schema.ChurnResult, flagged []schema.ChurnRecord, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChurnCSV(w, flagged, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, parquet.ConvertChurnRecords(flagged))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChurnTable(w, res, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

func writeChurnCSV(w io.Writer, flagged []schema.ChurnRecord, fmtFloat func(float64) string) error {
	header := append(enrichedCSVHeader(), "Churn_Label")
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range flagged {
			row := append(enrichedCSVRow(r.EnrichedRecord, fmtFloat), contract.GetPlainLabel(r.AtRisk))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeChurnTable(w io.Writer, res schema.ChurnResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	t := res.Thresholds
	if _, err := fmt.Fprintf(w, "%sChurn rule: usage < %g min, screen < %g h, data < %g MB\n",
		emoji(cfg, "📉"), t.Usage, t.Screen, t.Data); err != nil {
		return err
	}

	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}
	summary := [][]string{
		{label(false), fmt.Sprint(res.Summary.Retained), share(res.Summary.Retained, res.Summary.Total)},
		{label(true), fmt.Sprint(res.Summary.AtRisk), share(res.Summary.AtRisk, res.Summary.Total)},
	}
	if err := renderTable(w, []string{"Label", "Users", "Share"}, summary); err != nil {
		return err
	}

	if len(res.HighRisk) == 0 {
		if _, err := fmt.Fprintln(w, "No user is likely to churn under these thresholds."); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}

	deviceWidth := maxTextWidth(cfg, 90)
	var data [][]string
	for _, r := range res.HighRisk {
		data = append(data, []string{
			r.UserID,
			contract.TruncateText(r.DeviceModel, deviceWidth),
			r.OperatingSystem,
			fmtFloat(r.AppUsageTime),
			fmtFloat(r.ScreenOnTime),
			fmtFloat(r.DataUsage),
			label(r.AtRisk),
		})
	}
	if _, err := fmt.Fprintf(w, "\n%sHigh-risk users\n", emoji(cfg, "⚠️")); err != nil {
		return err
	}
	headers := []string{"User", "Device", "OS", "Usage", "Screen", "Data", "Label"}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d of %d users likely to churn\n", len(res.HighRisk), res.Summary.AtRisk); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

// share formats part as a percentage of total.
func share(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}
