package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// PrintDescribeResults outputs the exploratory insights of a snapshot.
// CSV carries the describe table only.
func PrintDescribeResults(res schema.DescribeResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, statsHeaders(), func(cw *csv.Writer) error {
				return cw.WriteAll(statsRows(res.Stats, fmtFloat))
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("%w: %w", schema.ErrConfig, errParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDescribeText(w, res, cfg, fmtFloat, duration)
		}, "Wrote insights")
	}
}

func writeDescribeText(w io.Writer, res schema.DescribeResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "%sSummary statistics (%d records)\n", emoji(cfg, "📊"), res.Records); err != nil {
		return err
	}
	if err := renderTable(w, statsHeaders(), statsRows(res.Stats, fmtFloat)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%sCorrelation matrix\n", emoji(cfg, "🔗")); err != nil {
		return err
	}
	corrHeaders := append([]string{""}, res.Columns...)
	var corrRows [][]string
	for i, col := range res.Columns {
		row := []string{col}
		for _, v := range res.Correlation[i] {
			row = append(row, fmtFloat(v))
		}
		corrRows = append(corrRows, row)
	}
	if err := renderTable(w, corrHeaders, corrRows); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%sInsights\n", emoji(cfg, "🧭")); err != nil {
		return err
	}
	insights := []string{
		fmt.Sprintf("%s correlates most with %s (%s)", schema.ColAppUsageTime, res.UsageTopCorrelate.Column, fmtFloat(res.UsageTopCorrelate.Coefficient)),
		fmt.Sprintf("%s skewness: %s", schema.ColAppUsageTime, fmtFloat(res.UsageSkew)),
		fmt.Sprintf("%s vs %s correlation: %s", schema.ColAge, schema.ColScreenOnTime, fmtFloat(res.AgeScreenCorrelation)),
		fmt.Sprintf("Highest mean battery drain: %s (%s mAh)", res.TopDrainOS.Group, fmtFloat(res.TopDrainOS.Value)),
		fmt.Sprintf("Highest mean data usage by age group: %s (%s MB)", res.TopDataAgeGroup.Group, fmtFloat(res.TopDataAgeGroup.Value)),
		fmt.Sprintf("Highest mean data usage by device: %s (%s MB)", res.TopDataDevice.Group, fmtFloat(res.TopDataDevice.Value)),
		fmt.Sprintf("Most varied app usage by age group: %s (std %s)", res.MostVariedAgeGroup.Group, fmtFloat(res.MostVariedAgeGroup.Value)),
		fmt.Sprintf("Heavy users: %.1f%%", res.HeavyUserShare*100),
	}
	for _, line := range insights {
		if _, err := fmt.Fprintf(w, "  - %s\n", line); err != nil {
			return err
		}
	}

	groups := []struct {
		title string
		means []schema.GroupMean
	}{
		{"Mean battery drain by OS", res.DrainByOS},
		{"Mean data usage by age group", res.DataByAgeGroup},
		{"Mean app usage by behavior class", res.UsageByClass},
	}
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "\n%s\n", g.title); err != nil {
			return err
		}
		if err := renderTable(w, []string{"Group", "Users", "Mean"}, groupRows(g.means, fmtFloat)); err != nil {
			return err
		}
	}

	var genders [][]string
	for _, g := range slices.Sorted(maps.Keys(res.GenderCounts)) {
		genders = append(genders, []string{g, strconv.Itoa(res.GenderCounts[g])})
	}
	if _, err := fmt.Fprintln(w, "\nGender distribution"); err != nil {
		return err
	}
	if err := renderTable(w, []string{"Gender", "Users"}, genders); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

func groupRows(means []schema.GroupMean, fmtFloat func(float64) string) [][]string {
	rows := make([][]string, 0, len(means))
	for _, m := range means {
		rows = append(rows, []string{m.Group, strconv.Itoa(m.Count), fmtFloat(m.Value)})
	}
	return rows
}
