package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/parquet"
	"github.com/huangsam/devpulse/schema"
)

// analysisExporter is implemented by stores that can dump their tables.
type analysisExporter interface {
	contract.AnalysisStore
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)
	GetAllRecordOutcomes() ([]schema.RecordOutcomeRecord, error)
}

// ExecuteAnalysisExport exports the tracked runs and outcomes of the global store to Parquet files.
func ExecuteAnalysisExport(outputFile string) error {
	return ExportAnalysis(Manager.GetAnalysisStore(), outputFile)
}

// ExportAnalysis writes <outputFile>.analysis_runs.parquet and <outputFile>.record_outcomes.parquet.
func ExportAnalysis(store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	exporter, ok := store.(analysisExporter)
	if !ok {
		return errors.New("analysis store does not support export")
	}

	status, err := exporter.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total record outcomes: %d\n", status.TableSizes[recordOutcomesTable])

	runs, err := exporter.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	outcomes, err := exporter.GetAllRecordOutcomes()
	if err != nil {
		return fmt.Errorf("failed to retrieve record outcomes: %w", err)
	}

	parquetRuns := parquet.ConvertAnalysisRunRecords(runs)
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	parquetOutcomes := parquet.ConvertRecordOutcomeRecords(outcomes)
	outcomesFile := outputFile + ".record_outcomes.parquet"
	if err := parquet.WriteRecordOutcomesParquet(parquetOutcomes, outcomesFile); err != nil {
		return fmt.Errorf("failed to write record outcomes: %w", err)
	}
	fmt.Printf("Exported %d record outcomes to: %s\n", len(parquetOutcomes), outcomesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
