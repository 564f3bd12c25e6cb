package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/parquet"
	"github.com/huangsam/devpulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// writeParquetFile writes rows as Parquet. A file is required since the format is binary.
func writeParquetFile[T any](outputFile string, rows []T) error {
	if outputFile == "" {
		return fmt.Errorf("%w: --output-file is required for parquet output", schema.ErrConfig)
	}
	return writeWithFile(outputFile, func(w io.Writer) error {
		return parquet.Write(w, rows)
	}, "Wrote Parquet")
}

// errParquetUnsupported is returned by views that are not record tables.
var errParquetUnsupported = errors.New("parquet output is only available for enrich, segment and churn")

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, intFmt
}

// renderTable writes a right-aligned table with the given headers and rows.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// writeFooter prints the run summary line under a text view.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) error {
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// emoji returns prefix when emojis are enabled.
func emoji(cfg *contract.Config, prefix string) string {
	if cfg.UseEmojis {
		return prefix + " "
	}
	return ""
}
