package schema

import "time"

// RecordOutcome is what one run concluded about one record.
// Cluster and AtRisk are nil when the run did not compute them.
type RecordOutcome struct {
	UserID  string
	Command string
	Cluster *int
	AtRisk  *bool
}

// AnalysisRunRecord represents a row from the devpulse_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID    int64
	Command       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalRecords  int32
	ConfigParams  *string
}

// RecordOutcomeRecord represents a row from the devpulse_record_outcomes table.
type RecordOutcomeRecord struct {
	AnalysisID int64
	UserID     string
	Command    string
	Cluster    *int32
	AtRisk     *bool
}
