// Package parquet provides data structures and functions for exporting devpulse
// records and tracked runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/devpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single tracked run with metadata.
// This struct maps to the devpulse_analysis_runs database table.
type AnalysisRun struct {
	AnalysisID int64  `parquet:"analysis_id,snappy"`
	Command    string `parquet:"command,snappy,dict"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is nil while the run has not completed
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalRecords  int32      `parquet:"total_records,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RecordOutcome is what one run concluded about one record.
// This struct maps to the devpulse_record_outcomes database table.
type RecordOutcome struct {
	AnalysisID int64  `parquet:"analysis_id,snappy"`
	UserID     string `parquet:"user_id,snappy"`
	Command    string `parquet:"command,snappy,dict"`
	Cluster    *int32 `parquet:"cluster,optional,snappy"`
	AtRisk     *bool  `parquet:"at_risk,optional,snappy"`
}

// EnrichedRow is one enriched record, flattened with its encoded twins.
type EnrichedRow struct {
	UserID                 string  `parquet:"user_id,snappy"`
	DeviceModel            string  `parquet:"device_model,snappy,dict"`
	OperatingSystem        string  `parquet:"operating_system,snappy,dict"`
	AppUsageTime           float64 `parquet:"app_usage_time,snappy"`
	ScreenOnTime           float64 `parquet:"screen_on_time,snappy"`
	BatteryDrain           float64 `parquet:"battery_drain,snappy"`
	AppsInstalled          int32   `parquet:"apps_installed,snappy"`
	DataUsage              float64 `parquet:"data_usage,snappy"`
	Age                    int32   `parquet:"age,snappy"`
	Gender                 string  `parquet:"gender,snappy,dict"`
	BehaviorClass          int32   `parquet:"behavior_class,snappy"`
	BatteryEfficiency      float64 `parquet:"battery_efficiency,snappy"`
	UsagePerApp            float64 `parquet:"usage_per_app,snappy"`
	AgeGroup               string  `parquet:"age_group,snappy,dict"`
	HeavyUser              bool    `parquet:"heavy_user,snappy"`
	GenderEncoded          int32   `parquet:"gender_encoded,snappy"`
	OperatingSystemEncoded int32   `parquet:"operating_system_encoded,snappy"`
	DeviceModelEncoded     int32   `parquet:"device_model_encoded,snappy"`
	AgeGroupEncoded        int32   `parquet:"age_group_encoded,snappy"`
}

// LabeledRow is an enriched record with its cluster assignment.
type LabeledRow struct {
	EnrichedRow
	Cluster int32 `parquet:"cluster,snappy"`
}

// ChurnRow is an enriched record with its churn flag.
type ChurnRow struct {
	EnrichedRow
	AtRisk bool   `parquet:"at_risk,snappy"`
	Label  string `parquet:"label,snappy,dict"`
}

// Write encodes rows as one Parquet file into w.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteRecordOutcomesParquet writes a slice of RecordOutcome structs to a Parquet file.
func WriteRecordOutcomesParquet(data []RecordOutcome, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:    record.AnalysisID,
			Command:       record.Command,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalRecords:  record.TotalRecords,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRecordOutcomeRecords converts schema.RecordOutcomeRecord to RecordOutcome for Parquet export.
func ConvertRecordOutcomeRecords(records []schema.RecordOutcomeRecord) []RecordOutcome {
	result := make([]RecordOutcome, len(records))
	for i, record := range records {
		result[i] = RecordOutcome{
			AnalysisID: record.AnalysisID,
			UserID:     record.UserID,
			Command:    record.Command,
			Cluster:    record.Cluster,
			AtRisk:     record.AtRisk,
		}
	}
	return result
}

// ConvertEnrichedRecords flattens enriched records for Parquet export.
func ConvertEnrichedRecords(records []schema.EnrichedRecord) []EnrichedRow {
	result := make([]EnrichedRow, len(records))
	for i, r := range records {
		result[i] = enrichedRow(r)
	}
	return result
}

// ConvertLabeledRecords flattens clustered records for Parquet export.
func ConvertLabeledRecords(records []schema.LabeledRecord) []LabeledRow {
	result := make([]LabeledRow, len(records))
	for i, r := range records {
		result[i] = LabeledRow{EnrichedRow: enrichedRow(r.EnrichedRecord), Cluster: int32(r.Cluster)}
	}
	return result
}

// ConvertChurnRecords flattens churn-flagged records for Parquet export.
func ConvertChurnRecords(records []schema.ChurnRecord) []ChurnRow {
	result := make([]ChurnRow, len(records))
	for i, r := range records {
		result[i] = ChurnRow{
			EnrichedRow: enrichedRow(r.EnrichedRecord),
			AtRisk:      r.AtRisk,
			Label:       string(r.Label()),
		}
	}
	return result
}

func enrichedRow(r schema.EnrichedRecord) EnrichedRow {
	return EnrichedRow{
		UserID:                 r.UserID,
		DeviceModel:            r.DeviceModel,
		OperatingSystem:        r.OperatingSystem,
		AppUsageTime:           r.AppUsageTime,
		ScreenOnTime:           r.ScreenOnTime,
		BatteryDrain:           r.BatteryDrain,
		AppsInstalled:          int32(r.AppsInstalled),
		DataUsage:              r.DataUsage,
		Age:                    int32(r.Age),
		Gender:                 r.Gender,
		BehaviorClass:          int32(r.BehaviorClass),
		BatteryEfficiency:      r.BatteryEfficiency,
		UsagePerApp:            r.UsagePerApp,
		AgeGroup:               string(r.AgeGroup),
		HeavyUser:              r.HeavyUser,
		GenderEncoded:          encodedCode(r, schema.ColGender),
		OperatingSystemEncoded: encodedCode(r, schema.ColOperatingSystem),
		DeviceModelEncoded:     encodedCode(r, schema.ColDeviceModel),
		AgeGroupEncoded:        encodedCode(r, schema.ColAgeGroup),
	}
}

// encodedCode returns the encoded twin of column, or the unclassified code when it is absent.
func encodedCode(r schema.EnrichedRecord, column string) int32 {
	if code, ok := r.Encoded[column]; ok {
		return int32(code)
	}
	return schema.UnclassifiedCode
}
