package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseInput returns raw input as viper would deliver it with all defaults applied.
func baseInput(t *testing.T) *ConfigRawInput {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("User_ID\n"), 0o644))
	return &ConfigRawInput{
		DataPathStr:   path,
		Precision:     DefaultPrecision,
		Output:        "text",
		CacheBackend:  "none",
		Emoji:         "no",
		Color:         "yes",
		Clusters:      DefaultClusters,
		Seed:          DefaultSeed,
		Restarts:      DefaultRestarts,
		MaxIterations: DefaultMaxIterations,
		Limit:         DefaultHighRiskLimit,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError error
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "clusters too small", mutate: func(in *ConfigRawInput) { in.Clusters = 1 }, expectError: schema.ErrConfig},
		{name: "clusters too large", mutate: func(in *ConfigRawInput) { in.Clusters = MaxClusters + 1 }, expectError: schema.ErrConfig},
		{name: "zero restarts", mutate: func(in *ConfigRawInput) { in.Restarts = 0 }, expectError: schema.ErrConfig},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: schema.ErrConfig},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: schema.ErrConfig},
		{name: "invalid precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: schema.ErrConfig},
		{name: "negative limit", mutate: func(in *ConfigRawInput) { in.Limit = -1 }, expectError: schema.ErrConfig},
		{name: "unknown feature", mutate: func(in *ConfigRawInput) { in.Features = []string{"Nope", "Age"} }, expectError: schema.ErrSchema},
		{name: "single feature", mutate: func(in *ConfigRawInput) { in.Features = []string{"Age"} }, expectError: schema.ErrConfig},
		{name: "bad age group", mutate: func(in *ConfigRawInput) { in.AgeGroup = "70-80" }, expectError: schema.ErrConfig},
		{name: "bad behavior class", mutate: func(in *ConfigRawInput) { in.BehaviorClass = "zero" }, expectError: schema.ErrConfig},
		{name: "cluster out of range", mutate: func(in *ConfigRawInput) { in.Cluster = "4" }, expectError: schema.ErrConfig},
		{name: "negative threshold", mutate: func(in *ConfigRawInput) { in.UsageThreshold = "-1" }, expectError: schema.ErrConfig},
		{name: "unparseable threshold", mutate: func(in *ConfigRawInput) { in.DataThreshold = "lots" }, expectError: schema.ErrConfig},
		{name: "missing dataset", mutate: func(in *ConfigRawInput) { in.DataPathStr = "/does/not/exist.csv" }, expectError: schema.ErrConfig},
		{name: "invalid emoji", mutate: func(in *ConfigRawInput) { in.Emoji = "maybe" }, expectError: schema.ErrConfig},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: schema.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput(t)
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, schema.DefaultClusterFeatures, cfg.Features)
			assert.Equal(t, DefaultClusters, cfg.Clusters)
			assert.Equal(t, uint64(DefaultSeed), cfg.Seed)
			assert.True(t, cfg.Traits.IsZero())
			assert.Nil(t, cfg.SampleSeed)
			assert.Nil(t, cfg.Cluster)
			assert.True(t, filepath.IsAbs(cfg.DataPath))
		})
	}
}

func TestProcessTraits(t *testing.T) {
	input := baseInput(t)
	input.OS = "iOS"
	input.Gender = "All"
	input.BehaviorClass = "2"
	input.AgeGroup = "26-35"
	input.SampleSeed = "7"
	input.Cluster = "1"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.Traits{OperatingSystem: "iOS", BehaviorClass: 2, AgeGroup: schema.AgeGroup26to35}, cfg.Traits)
	require.NotNil(t, cfg.SampleSeed)
	assert.Equal(t, uint64(7), *cfg.SampleSeed)
	require.NotNil(t, cfg.Cluster)
	assert.Equal(t, 1, *cfg.Cluster)
}

func TestProcessChurnThresholds(t *testing.T) {
	usage := 120.0
	screen := 2.5

	tests := []struct {
		name     string
		mutate   func(*ConfigRawInput)
		expected schema.ChurnThresholds
	}{
		{
			name:     "defaults",
			mutate:   func(*ConfigRawInput) {},
			expected: schema.ChurnThresholds{Usage: 150, Screen: 3, Data: 500},
		},
		{
			name: "config file section",
			mutate: func(in *ConfigRawInput) {
				in.Thresholds = ThresholdsRawInput{Usage: &usage, Screen: &screen}
			},
			expected: schema.ChurnThresholds{Usage: 120, Screen: 2.5, Data: 500},
		},
		{
			name: "flags take precedence",
			mutate: func(in *ConfigRawInput) {
				in.Thresholds = ThresholdsRawInput{Usage: &usage}
				in.UsageThreshold = "90"
				in.DataThreshold = " 250 "
			},
			expected: schema.ChurnThresholds{Usage: 90, Screen: 3, Data: 250},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := baseInput(t)
			tt.mutate(input)
			cfg := &Config{}
			require.NoError(t, ProcessAndValidate(cfg, input))
			assert.Equal(t, tt.expected, cfg.Thresholds)
		})
	}
}

func TestProcessLimit(t *testing.T) {
	input := baseInput(t)
	input.Limit = 25
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 25, cfg.Limit)

	input.All = true
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 0, cfg.Limit, "--all removes the bound")
}

func TestProcessRulesConfigSkipsDataset(t *testing.T) {
	input := baseInput(t)
	input.DataPathStr = "/does/not/exist.csv"
	cfg := &Config{}
	require.NoError(t, ProcessRulesConfig(cfg, input))
	assert.Equal(t, DefaultUsageThreshold, cfg.Thresholds.Usage)
}

func TestParseFeatureList(t *testing.T) {
	features, err := ParseFeatureList([]string{"App_Usage_Time, Data_Usage", "Gender_Encoded"})
	require.NoError(t, err)
	assert.Equal(t, []string{"App_Usage_Time", "Data_Usage", "Gender_Encoded"}, features)

	_, err = ParseFeatureList([]string{"Age", "Age"})
	assert.ErrorIs(t, err, schema.ErrConfig)

	features, err = ParseFeatureList(nil)
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultClusterFeatures, features)
}

func TestValidateBackendConfigs(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
	}{
		{
			name:  "sqlite cache with separate analysis file",
			input: &ConfigRawInput{CacheBackend: "sqlite", AnalysisBackend: "sqlite", AnalysisDBConnect: "/tmp/other.db"},
		},
		{
			name:        "shared sqlite file",
			input:       &ConfigRawInput{CacheBackend: "sqlite", CacheDBConnect: "/tmp/x.db", AnalysisBackend: "sqlite", AnalysisDBConnect: "/tmp/x.db"},
			expectError: true,
		},
		{
			name:        "mysql without connection string",
			input:       &ConfigRawInput{CacheBackend: "mysql"},
			expectError: true,
		},
		{
			name:  "postgres with connection string",
			input: &ConfigRawInput{CacheBackend: "postgresql", CacheDBConnect: "host=localhost dbname=devpulse"},
		},
		{
			name:        "postgres missing dbname",
			input:       &ConfigRawInput{CacheBackend: "postgresql", CacheDBConnect: "host=localhost"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBackendConfigs(&Config{}, tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	seed := uint64(3)
	cluster := 2
	cfg := &Config{Features: []string{"Age", "Data_Usage"}, SampleSeed: &seed, Cluster: &cluster}

	clone := cfg.Clone()
	clone.Features[0] = "App_Usage_Time"
	*clone.SampleSeed = 9
	*clone.Cluster = 0

	assert.Equal(t, "Age", cfg.Features[0])
	assert.Equal(t, uint64(3), *cfg.SampleSeed)
	assert.Equal(t, 2, *cfg.Cluster)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, "prof"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "prof", profile.Prefix)
}

func TestRevalidateDataPath(t *testing.T) {
	cfg := &Config{DataPath: "/keep/me.csv"}
	require.NoError(t, RevalidateDataPath(cfg, " "))
	assert.Equal(t, "/keep/me.csv", cfg.DataPath)

	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("User_ID\n"), 0o644))
	require.NoError(t, RevalidateDataPath(cfg, path))
	assert.Equal(t, path, cfg.DataPath)

	err := RevalidateDataPath(cfg, filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, schema.ErrConfig)
}

func TestRevalidateCluster(t *testing.T) {
	cfg := &Config{Clusters: 4}
	require.NoError(t, RevalidateCluster(cfg, 3))
	require.NotNil(t, cfg.Cluster)
	assert.Equal(t, 3, *cfg.Cluster)

	require.NoError(t, RevalidateCluster(cfg, -1))
	assert.Nil(t, cfg.Cluster)

	assert.ErrorIs(t, RevalidateCluster(cfg, 4), schema.ErrConfig)
}

func TestProcessServerConfigSkipsDatasetCheck(t *testing.T) {
	input := baseInput(t)
	input.DataPathStr = filepath.Join(t.TempDir(), "later.csv")

	cfg := &Config{}
	require.NoError(t, ProcessServerConfig(cfg, input))
	assert.Equal(t, input.DataPathStr, cfg.DataPath)

	assert.Error(t, ProcessAndValidate(&Config{}, input))
}
