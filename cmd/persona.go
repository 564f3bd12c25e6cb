package cmd

import (
	"github.com/huangsam/devpulse/core"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/spf13/cobra"
)

// personaCmd samples one representative user.
var personaCmd = &cobra.Command{
	Use:   "persona [data-path]",
	Short: "Sample a representative user matching the given traits.",
	Long: `Filter users by operating system, gender, behavior class and age group,
then draw one of them at random and describe them as a persona card.

Every filter defaults to 'all'. When no user matches, a message is shown
instead of a card.

Examples:
  # Any Android user in their late twenties
  devpulse persona --os Android --age-group 26-35

  # A reproducible draw
  devpulse persona --behavior-class 5 --sample-seed 7`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePersona(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot select persona", err)
		}
	},
}
