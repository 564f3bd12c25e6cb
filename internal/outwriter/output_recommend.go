package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// PrintRecommendationResults outputs the recommendations and the describe table
// of the filtered subset. An empty subset prints the empty-state message.
func PrintRecommendationResults(res schema.RecommendationResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"Rank", "Recommendation"}, func(cw *csv.Writer) error {
				for i, rec := range res.Recommendations {
					if err := cw.Write([]string{strconv.Itoa(i + 1), rec}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("%w: %w", schema.ErrConfig, errParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecommendationText(w, res, cfg, fmtFloat, duration)
		}, "Wrote recommendations")
	}
}

func writeRecommendationText(w io.Writer, res schema.RecommendationResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if res.Empty {
		if _, err := fmt.Fprintln(w, schema.NoMatchMessage); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}

	scope := fmt.Sprintf("%d matching users", res.Matched)
	if res.Cluster != nil {
		scope += fmt.Sprintf(" in cluster %d", *res.Cluster)
	}
	if _, err := fmt.Fprintf(w, "%sRecommendations for %s\n", emoji(cfg, "💡"), scope); err != nil {
		return err
	}
	for i, rec := range res.Recommendations {
		if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, rec); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := renderTable(w, statsHeaders(), statsRows(res.Stats, fmtFloat)); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

func statsHeaders() []string {
	return []string{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"}
}

func statsRows(stats []schema.ColumnStats, fmtFloat func(float64) string) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{
			s.Column,
			strconv.Itoa(s.Count),
			fmtFloat(s.Mean),
			fmtFloat(s.StdDev),
			fmtFloat(s.Min),
			fmtFloat(s.Q25),
			fmtFloat(s.Median),
			fmtFloat(s.Q75),
			fmtFloat(s.Max),
		})
	}
	return rows
}
