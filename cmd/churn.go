package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// churnCmd flags users likely to churn.
var churnCmd = &cobra.Command{
	Use:   "churn [data-path]",
	Short: "Flag users likely to churn and list the highest-risk ones.",
	Long: `Flag a user as likely to churn when app usage, screen-on time and data
usage are all strictly below their thresholds. A value equal to its
threshold does not count as below.

Thresholds come from flags, then the 'thresholds' section of .devpulse.yaml,
then the defaults (150 min, 3 h, 500 MB).

Examples:
  # Default thresholds
  devpulse churn

  # A stricter usage threshold, listing every flagged user
  devpulse churn --usage-threshold 100 --all

  # Export every flag for BI tools
  devpulse churn --output parquet --output-file churn.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChurn(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run churn analysis", err)
		}
	},
}
