package cmd

import (
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [data-path]",
	Short: "Start the devpulse MCP server",
	Long: `Launch an MCP server over stdio that allows AI agents to segment users,
select personas, flag churn, recommend actions and describe a dataset.

Each tool accepts a data_path argument; the dataset given here is the default.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Tools run with suppressed headers so stdio stays clean for the protocol.
		return sharedSetup(rootCtx, cmd, args, contract.ProcessServerConfig)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
