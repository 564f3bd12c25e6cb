package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// describeCmd prints exploratory insights.
var describeCmd = &cobra.Command{
	Use:   "describe [data-path]",
	Short: "Show summary statistics, correlations and group insights.",
	Long: `Explore the enriched dataset before segmenting it.

Shows:
- Count, mean, standard deviation and quartiles per numeric column
- The correlation matrix of the numeric columns
- Battery drain by operating system, data usage by age group and device
- App usage by behavior class and its spread per age group
- The gender distribution and the share of heavy users

Examples:
  # Insights as a report
  devpulse describe

  # Insights as JSON, plus a usage histogram
  devpulse describe --output json --plot-file usage.png`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDescribe(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot describe dataset", err)
		}
	},
}
