package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/devpulse/schema"
)

// Default values for configuration.
const (
	DefaultDataPath        = "user_behavior_dataset.csv"
	DefaultPrecision       = 2
	DefaultClusters        = 4
	MinClusters            = 2
	MaxClusters            = 10
	DefaultSeed            = 42
	DefaultRestarts        = 10
	DefaultMaxIterations   = 300
	DefaultHighRiskLimit   = 10
	MaxResultLimit         = 1000
	DefaultUsageThreshold  = 150.0 // App_Usage_Time, minutes per day
	DefaultScreenThreshold = 3.0   // Screen_On_Time, hours per day
	DefaultDataThreshold   = 500.0 // Data_Usage, MB per day
)

// AllSentinel is the filter value that passes every record through.
const AllSentinel = "all"

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ThresholdsRawInput holds churn threshold definitions from the YAML config file.
type ThresholdsRawInput struct {
	Usage  *float64 `mapstructure:"usage"`
	Screen *float64 `mapstructure:"screen"`
	Data   *float64 `mapstructure:"data"`
}

// Config holds the runtime configuration for one command.
// This struct remains the "final, validated" config.
type Config struct {
	DataPath   string
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	Clusters      int
	Features      []string
	Seed          uint64
	Restarts      int
	MaxIterations int
	ChartFile     string

	Traits     schema.Traits
	SampleSeed *uint64 // nil draws a random persona
	Cluster    *int    // nil disables the cluster filter

	Thresholds schema.ChurnThresholds
	Limit      int // 0 = unbounded

	PlotFile string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Data              string `mapstructure:"data"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Width             int    `mapstructure:"width"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`

	// --- Fields from segmentCmd.Flags() ---
	Clusters      int      `mapstructure:"clusters"`
	Features      []string `mapstructure:"features"`
	Seed          uint64   `mapstructure:"seed"`
	Restarts      int      `mapstructure:"restarts"`
	MaxIterations int      `mapstructure:"max-iterations"`
	ChartFile     string   `mapstructure:"chart-file"`

	// --- Fields from persona and recommend filters ---
	OS            string `mapstructure:"os"`
	Gender        string `mapstructure:"gender"`
	BehaviorClass string `mapstructure:"behavior-class"`
	AgeGroup      string `mapstructure:"age-group"`
	SampleSeed    string `mapstructure:"sample-seed"`
	Cluster       string `mapstructure:"cluster"`

	// --- Fields from churnCmd.Flags() ---
	UsageThreshold  string `mapstructure:"usage-threshold"`
	ScreenThreshold string `mapstructure:"screen-threshold"`
	DataThreshold   string `mapstructure:"data-threshold"`
	Limit           int    `mapstructure:"limit"`
	All             bool   `mapstructure:"all"`

	// --- Fields from describeCmd.Flags() ---
	PlotFile string `mapstructure:"plot-file"`

	// --- Churn thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Features != nil {
		clone.Features = make([]string, len(c.Features))
		copy(clone.Features, c.Features)
	}
	if c.SampleSeed != nil {
		seed := *c.SampleSeed
		clone.SampleSeed = &seed
	}
	if c.Cluster != nil {
		cluster := *c.Cluster
		clone.Cluster = &cluster
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSegmentation(cfg, input); err != nil {
		return err
	}
	if err := processTraits(cfg, input); err != nil {
		return err
	}
	if err := processChurnThresholds(cfg, input); err != nil {
		return err
	}
	if err := processDataPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ProcessRulesConfig validates only what the rules catalogue needs, which is no dataset.
func ProcessRulesConfig(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return processChurnThresholds(cfg, input)
}

// ProcessServerConfig validates a long-running server config. The dataset is
// resolved but not opened, since every request may name its own.
func ProcessServerConfig(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSegmentation(cfg, input); err != nil {
		return err
	}
	if err := processTraits(cfg, input); err != nil {
		return err
	}
	if err := processChurnThresholds(cfg, input); err != nil {
		return err
	}
	path := strings.TrimSpace(input.DataPathStr)
	if path == "" {
		path = strings.TrimSpace(input.Data)
	}
	if path == "" {
		path = DefaultDataPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	cfg.DataPath = abs
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("%w: db-connect is required when using %s backend", schema.ErrConfig, backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("%w: MySQL connection string must contain '@tcp(' for the host:port address", schema.ErrConfig)
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("%w: MySQL connection string must contain '/' followed by database name", schema.ErrConfig)
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("%w: db-connect is required when using %s backend", schema.ErrConfig, backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("%w: PostgreSQL connection string must contain 'host=' parameter", schema.ErrConfig)
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("%w: PostgreSQL connection string must contain 'dbname=' parameter", schema.ErrConfig)
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("%w: invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", schema.ErrConfig, input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("%w: invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", schema.ErrConfig, input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}

	// Cache and analysis must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("%w: cache and analysis storage must use different SQLite database files. Both resolve to %q", schema.ErrConfig, cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and storage fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ChartFile = strings.TrimSpace(input.ChartFile)
	cfg.PlotFile = strings.TrimSpace(input.PlotFile)

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("%w: invalid --emoji value: %w", schema.ErrConfig, err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("%w: invalid --color value: %w", schema.ErrConfig, err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("%w: precision must be 1 or 2 (received %d)", schema.ErrConfig, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("%w: invalid output format '%s'. must be text, csv, json, parquet", schema.ErrConfig, input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("%w: parquet output requires --output-file", schema.ErrConfig)
	}

	// --- Result limit ---
	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("%w: limit cannot be negative or exceed %d (received %d)", schema.ErrConfig, MaxResultLimit, input.Limit)
	}
	cfg.Limit = input.Limit
	if input.All {
		cfg.Limit = 0
	}

	return validateBackendConfigs(cfg, input)
}

// processSegmentation validates the clustering parameters.
func processSegmentation(cfg *Config, input *ConfigRawInput) error {
	if input.Clusters < MinClusters || input.Clusters > MaxClusters {
		return fmt.Errorf("%w: clusters must be between %d and %d (received %d)", schema.ErrConfig, MinClusters, MaxClusters, input.Clusters)
	}
	cfg.Clusters = input.Clusters

	if input.Restarts < 1 {
		return fmt.Errorf("%w: restarts must be at least 1 (received %d)", schema.ErrConfig, input.Restarts)
	}
	cfg.Restarts = input.Restarts

	if input.MaxIterations < 1 {
		return fmt.Errorf("%w: max-iterations must be at least 1 (received %d)", schema.ErrConfig, input.MaxIterations)
	}
	cfg.MaxIterations = input.MaxIterations
	cfg.Seed = input.Seed

	features, err := ParseFeatureList(input.Features)
	if err != nil {
		return err
	}
	cfg.Features = features
	return nil
}

// ParseFeatureList trims, splits and validates feature names. An empty list
// falls back to the default cluster features.
func ParseFeatureList(raw []string) ([]string, error) {
	var features []string
	for _, item := range raw {
		for part := range strings.SplitSeq(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				features = append(features, p)
			}
		}
	}
	if len(features) == 0 {
		return append([]string(nil), schema.DefaultClusterFeatures...), nil
	}
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if err := schema.ValidateFeatureName(f); err != nil {
			return nil, err
		}
		if seen[f] {
			return nil, fmt.Errorf("%w: feature %s listed twice", schema.ErrConfig, f)
		}
		seen[f] = true
	}
	if len(features) < 2 {
		return nil, fmt.Errorf("%w: at least 2 features are required (received %d)", schema.ErrConfig, len(features))
	}
	return features, nil
}

// processTraits resolves the persona and recommend filters.
func processTraits(cfg *Config, input *ConfigRawInput) error {
	traits, err := ParseTraits(input.OS, input.Gender, input.BehaviorClass, input.AgeGroup)
	if err != nil {
		return err
	}
	cfg.Traits = traits

	cfg.SampleSeed = nil
	if s := strings.TrimSpace(input.SampleSeed); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid --sample-seed '%s': %w", schema.ErrConfig, s, err)
		}
		cfg.SampleSeed = &seed
	}

	cfg.Cluster = nil
	if !IsAllSentinel(input.Cluster) {
		cluster, err := strconv.Atoi(strings.TrimSpace(input.Cluster))
		if err != nil || cluster < 0 || cluster >= cfg.Clusters {
			return fmt.Errorf("%w: cluster must be between 0 and %d (received '%s')", schema.ErrConfig, cfg.Clusters-1, input.Cluster)
		}
		cfg.Cluster = &cluster
	}
	return nil
}

// ParseTraits builds trait filters from their raw values. Empty values and the
// "all" sentinel leave a trait unset.
func ParseTraits(operatingSystem, gender, behaviorClass, ageGroup string) (schema.Traits, error) {
	var traits schema.Traits
	if !IsAllSentinel(operatingSystem) {
		traits.OperatingSystem = strings.TrimSpace(operatingSystem)
	}
	if !IsAllSentinel(gender) {
		traits.Gender = strings.TrimSpace(gender)
	}
	if !IsAllSentinel(behaviorClass) {
		class, err := strconv.Atoi(strings.TrimSpace(behaviorClass))
		if err != nil || class < 1 {
			return schema.Traits{}, fmt.Errorf("%w: behavior class must be a positive integer (received '%s')", schema.ErrConfig, behaviorClass)
		}
		traits.BehaviorClass = class
	}
	if !IsAllSentinel(ageGroup) {
		group := schema.AgeGroup(strings.TrimSpace(ageGroup))
		if _, ok := schema.ValidAgeGroups[group]; !ok {
			return schema.Traits{}, fmt.Errorf("%w: invalid age group '%s'. must be 18-25, 26-35, 36-45, 46-60, 60+", schema.ErrConfig, ageGroup)
		}
		traits.AgeGroup = group
	}
	return traits, nil
}

// processChurnThresholds resolves the churn thresholds: defaults first, then the
// config file section, then command-line flags which take precedence.
func processChurnThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := schema.ChurnThresholds{
		Usage:  DefaultUsageThreshold,
		Screen: DefaultScreenThreshold,
		Data:   DefaultDataThreshold,
	}

	if input.Thresholds.Usage != nil {
		thresholds.Usage = *input.Thresholds.Usage
	}
	if input.Thresholds.Screen != nil {
		thresholds.Screen = *input.Thresholds.Screen
	}
	if input.Thresholds.Data != nil {
		thresholds.Data = *input.Thresholds.Data
	}

	overrides := []struct {
		flag string
		raw  string
		dst  *float64
	}{
		{"usage-threshold", input.UsageThreshold, &thresholds.Usage},
		{"screen-threshold", input.ScreenThreshold, &thresholds.Screen},
		{"data-threshold", input.DataThreshold, &thresholds.Data},
	}
	for _, o := range overrides {
		if strings.TrimSpace(o.raw) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(o.raw), 64)
		if err != nil {
			return fmt.Errorf("%w: invalid --%s value '%s': %w", schema.ErrConfig, o.flag, o.raw, err)
		}
		*o.dst = v
	}

	if err := ValidateThresholds(thresholds); err != nil {
		return err
	}
	cfg.Thresholds = thresholds
	return nil
}

// ValidateThresholds checks that every churn threshold is finite and non-negative.
func ValidateThresholds(t schema.ChurnThresholds) error {
	for name, v := range map[string]float64{"usage": t.Usage, "screen": t.Screen, "data": t.Data} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s threshold must be a finite, non-negative number (received %v)", schema.ErrConfig, name, v)
		}
	}
	return nil
}

// processDataPath resolves the dataset location: positional argument first,
// then the configured default.
func processDataPath(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.DataPathStr)
	if path == "" {
		path = strings.TrimSpace(input.Data)
	}
	if path == "" {
		path = DefaultDataPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("%w: dataset %s is not readable: %w", schema.ErrConfig, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: dataset %s is a directory", schema.ErrConfig, path)
	}
	cfg.DataPath = abs
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RevalidateDataPath re-resolves the dataset of an already validated config.
// An empty path keeps the current dataset.
func RevalidateDataPath(cfg *Config, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return processDataPath(cfg, &ConfigRawInput{DataPathStr: path})
}

// RevalidateCluster checks a cluster filter against the configured cluster count.
// A negative cluster clears the filter.
func RevalidateCluster(cfg *Config, cluster int) error {
	if cluster < 0 {
		cfg.Cluster = nil
		return nil
	}
	if cluster >= cfg.Clusters {
		return fmt.Errorf("%w: cluster must be between 0 and %d (received %d)", schema.ErrConfig, cfg.Clusters-1, cluster)
	}
	cfg.Cluster = &cluster
	return nil
}
