package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// recommendCmd suggests product actions for a user subset.
var recommendCmd = &cobra.Command{
	Use:   "recommend [data-path]",
	Short: "Recommend product actions for a filtered group of users.",
	Long: `Filter users by traits, and optionally by cluster, then evaluate the
recommendation rules on the mean usage, battery drain and data usage of
the group. Summary statistics of the group are shown as well.

Run 'devpulse rules' to see every rule and its threshold.

Examples:
  # Recommendations for light iOS users
  devpulse recommend --os iOS --behavior-class 1

  # Recommendations for one segment
  devpulse recommend -k 4 --cluster 2`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRecommend(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build recommendations", err)
		}
	},
}
