package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// rulesCmd prints the rule catalogue.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show every derivation, bin and rule the pipeline applies.",
	Long: `Print the derived feature formulas, the age brackets, the churn rule for
the active thresholds and the ordered recommendation rules.

No dataset is needed.

Examples:
  devpulse rules
  devpulse rules --usage-threshold 100 --output json`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args, contract.ProcessRulesConfig)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRules(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot print rules", err)
		}
	},
}
