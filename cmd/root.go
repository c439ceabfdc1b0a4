package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/tokenforge/cmd.Version=1.2.3" .
var Version = "1.0.0"

var outDir string

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "tokenforge",
	Short: "Batch ERC-20 provisioning for EVM chains",
	Long: `tokenforge — compile, deploy, and manage batches of ERC-20 tokens.

  Define every token in one JSON plan, deploy them in a single run,
  distribute initial supplies, verify sources on the block explorer,
  and interact with the results afterwards.

The RPC endpoint and deployer key come from the environment:
  TOKENFORGE_RPC_URL        JSON-RPC endpoint (required)
  TOKENFORGE_PRIVATE_KEY    deployer key (falls back to the OS keychain)
  TOKENFORGE_DEPLOYER       expected deployer address (optional cross-check)`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "deployments", "directory for reports and the address book")

	rootCmd.AddCommand(
		deployCmd,
		verifyCmd,
		listCmd,
		infoCmd,
		transferCmd,
		approveCmd,
		mintCmd,
		burnCmd,
		pauseCmd,
		unpauseCmd,
		grantRoleCmd,
		keyCmd,
		abisCmd,
	)
}
