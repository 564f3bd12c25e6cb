package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/parquet"
	"github.com/huangsam/devpulse/schema"
)

// PrintSegmentResults outputs a clustering run, dispatching on the configured format.
func PrintSegmentResults(res schema.SegmentResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSegmentJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSegmentCSV(w, res, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetFile(cfg.OutputFile, parquet.ConvertLabeledRecords(res.Records))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSegmentTable(w, res, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// segmentAssignment is one record's cluster and projected position.
type segmentAssignment struct {
	UserID  string  `json:"user_id"`
	Cluster int     `json:"cluster"`
	PC1     float64 `json:"pc1"`
	PC2     float64 `json:"pc2"`
}

func writeSegmentJSON(w io.Writer, res schema.SegmentResult) error {
	output := struct {
		Model             schema.CentroidModel    `json:"model"`
		Profiles          []schema.ClusterProfile `json:"profiles"`
		ExplainedVariance [2]float64              `json:"explained_variance"`
		Assignments       []segmentAssignment     `json:"assignments"`
	}{
		Model:             res.Model,
		Profiles:          res.Profiles,
		ExplainedVariance: res.Projection.ExplainedVariance,
		Assignments:       assignments(res),
	}
	return writeJSON(w, output)
}

// assignments pairs each labeled record with its projected point. Both follow record order.
func assignments(res schema.SegmentResult) []segmentAssignment {
	out := make([]segmentAssignment, len(res.Records))
	for i, r := range res.Records {
		out[i] = segmentAssignment{UserID: r.UserID, Cluster: r.Cluster}
		if i < len(res.Projection.Points) {
			out[i].PC1 = res.Projection.Points[i].PC1
			out[i].PC2 = res.Projection.Points[i].PC2
		}
	}
	return out
}

func writeSegmentCSV(w io.Writer, res schema.SegmentResult, fmtFloat func(float64) string) error {
	header := []string{schema.ColUserID, "Cluster"}
	header = append(header, res.Model.Features...)
	header = append(header, "PC1", "PC2")

	points := assignments(res)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range res.Records {
			row := []string{r.UserID, strconv.Itoa(r.Cluster)}
			for _, f := range res.Model.Features {
				v, err := r.Feature(f)
				if err != nil {
					return err
				}
				row = append(row, fmtFloat(v))
			}
			row = append(row, fmtFloat(points[i].PC1), fmtFloat(points[i].PC2))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSegmentTable(w io.Writer, res schema.SegmentResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	headers := []string{"Cluster", "Size"}
	headers = append(headers, res.Model.Features...)

	var data [][]string
	for _, p := range res.Profiles {
		row := []string{contract.ClusterColor.Sprint(p.Cluster), strconv.Itoa(p.Size)}
		if !cfg.UseColors {
			row[0] = strconv.Itoa(p.Cluster)
		}
		for _, f := range res.Model.Features {
			row = append(row, fmtFloat(p.Means[f]))
		}
		data = append(data, row)
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}

	ev := res.Projection.ExplainedVariance
	lines := []string{
		fmt.Sprintf("%d clusters over %d records (seed %d, inertia %s, %d iterations)",
			res.Model.K, len(res.Records), res.Model.Seed, fmtFloat(res.Model.Inertia), res.Model.Iterations),
		fmt.Sprintf("PCA explained variance: PC1 %.1f%%, PC2 %.1f%%", ev[0]*100, ev[1]*100),
		fmt.Sprintf("Run ID: %s", res.Model.RunID),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, duration)
}
