package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// enrichCmd prints the cleaned, enriched and encoded dataset.
var enrichCmd = &cobra.Command{
	Use:   "enrich [data-path]",
	Short: "Show the dataset with derived features and encoded categories.",
	Long: `Load the usage dataset, drop invalid records and derive the features every
other command builds on.

Derived columns:
- Battery_Efficiency: app usage minutes per mAh of battery drain
- Usage_Per_App: app usage minutes per installed app
- Age_Group: 18-25, 26-35, 36-45, 46-60 or 60+
- Heavy_User: more than 300 minutes of usage and 1000 MB of data per day
- <column>_Encoded: integer codes of Gender, Operating_System, Device_Model and Age_Group

Records with zero battery drain or zero installed apps are dropped and reported.

Examples:
  # Preview the first 10 enriched records
  devpulse enrich user_behavior_dataset.csv

  # Export every enriched record for a notebook
  devpulse enrich --output parquet --output-file enriched.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEnrich(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run enrich", err)
		}
	},
}
