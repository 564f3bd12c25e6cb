package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run tracking.
	DatabaseBackend string

	// AgeGroup is the binned age bracket of a user.
	AgeGroup string

	// ChurnLabel is the display label of a churn flag.
	ChurnLabel string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Age brackets, left-open and right-closed.
const (
	AgeGroup18to25 AgeGroup = "18-25" // (0,25]
	AgeGroup26to35 AgeGroup = "26-35" // (25,35]
	AgeGroup36to45 AgeGroup = "36-45" // (35,45]
	AgeGroup46to60 AgeGroup = "46-60" // (45,60]
	AgeGroup60Plus AgeGroup = "60+"   // (60,100]
	Unclassified   AgeGroup = ""      // outside (0,100]
)

// Churn labels.
const (
	RetainedLabel ChurnLabel = "Retained"
	AtRiskLabel   ChurnLabel = "Likely to Churn"
)

// UnclassifiedCode is the encoded value of a category that is not part of the encoding.
const UnclassifiedCode = -1

// AllAgeGroups lists the age brackets in ascending order.
var AllAgeGroups = []AgeGroup{AgeGroup18to25, AgeGroup26to35, AgeGroup36to45, AgeGroup46to60, AgeGroup60Plus}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidAgeGroups lists all valid age brackets.
var ValidAgeGroups = map[AgeGroup]struct{}{
	AgeGroup18to25: {},
	AgeGroup26to35: {},
	AgeGroup36to45: {},
	AgeGroup46to60: {},
	AgeGroup60Plus: {},
}
