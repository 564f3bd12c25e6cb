package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// segmentCmd clusters users into behavioral segments.
var segmentCmd = &cobra.Command{
	Use:   "segment [data-path]",
	Short: "Cluster users into segments and show per-cluster feature means.",
	Long: `Group users with k-means on z-score standardized features.

Centroids are seeded with k-means++ from --seed and the best of --restarts
runs (lowest inertia) is kept, so the same seed always gives the same labels.
The records are also projected onto their first two principal components.

Examples:
  # Four segments on the default features
  devpulse segment

  # Three segments on usage and data only, with a scatter chart
  devpulse segment -k 3 --features App_Usage_Time,Data_Usage --chart-file segments.html

  # Export the cluster label of every user
  devpulse segment --output csv --output-file segments.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSegment(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run segmentation", err)
		}
	},
}
