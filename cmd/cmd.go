// Package cmd defines the command-line interface for devpulse.
package cmd

import (
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(personaCmd)
	rootCmd.AddCommand(churnCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data", contract.DefaultDataPath, "Path to the usage dataset CSV (a positional argument takes precedence)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Command flags are bound to Viper by sharedSetup, for the running command only
	addLimitFlags(enrichCmd, "Number of records to display")

	addSegmentFlags(segmentCmd)
	segmentCmd.Flags().String("chart-file", "", "Write an HTML scatter chart of the PCA projection to this file")

	addTraitFlags(personaCmd)
	personaCmd.Flags().String("sample-seed", "", "Seed for a reproducible persona sample (random when empty)")

	addThresholdFlags(churnCmd)
	addLimitFlags(churnCmd, "Number of high-risk users to display")

	addTraitFlags(recommendCmd)
	addSegmentFlags(recommendCmd)
	recommendCmd.Flags().String("cluster", contract.AllSentinel, "Restrict to one cluster of the segmentation, or 'all'")

	describeCmd.Flags().String("plot-file", "", "Save a histogram of App_Usage_Time to this image file (png, svg, pdf)")

	addThresholdFlags(rulesCmd)

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}

// addSegmentFlags registers the clustering parameters.
func addSegmentFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("clusters", "k", contract.DefaultClusters, "Number of clusters (2-10)")
	cmd.Flags().StringSlice("features", nil, "Feature columns to cluster on (default: usage, screen, drain, data, efficiency, per-app)")
	cmd.Flags().Uint64("seed", contract.DefaultSeed, "Random seed for centroid initialization")
	cmd.Flags().Int("restarts", contract.DefaultRestarts, "Number of k-means restarts; the lowest inertia wins")
	cmd.Flags().Int("max-iterations", contract.DefaultMaxIterations, "Maximum k-means iterations per restart")
}

// addTraitFlags registers the persona and recommendation filters.
func addTraitFlags(cmd *cobra.Command) {
	cmd.Flags().String("os", contract.AllSentinel, "Operating system filter (e.g. Android, iOS), or 'all'")
	cmd.Flags().String("gender", contract.AllSentinel, "Gender filter, or 'all'")
	cmd.Flags().String("behavior-class", contract.AllSentinel, "User behavior class filter (1-5), or 'all'")
	cmd.Flags().String("age-group", contract.AllSentinel, "Age group filter: 18-25, 26-35, 36-45, 46-60, 60+ or 'all'")
}

// addThresholdFlags registers the churn threshold overrides.
func addThresholdFlags(cmd *cobra.Command) {
	cmd.Flags().String("usage-threshold", "", "Churn threshold for App_Usage_Time in minutes per day (default 150)")
	cmd.Flags().String("screen-threshold", "", "Churn threshold for Screen_On_Time in hours per day (default 3)")
	cmd.Flags().String("data-threshold", "", "Churn threshold for Data_Usage in MB per day (default 500)")
}

// addLimitFlags registers the row limit of a listing.
func addLimitFlags(cmd *cobra.Command, usage string) {
	cmd.Flags().IntP("limit", "l", contract.DefaultHighRiskLimit, usage)
	cmd.Flags().Bool("all", false, "Display every row, ignoring --limit")
}
