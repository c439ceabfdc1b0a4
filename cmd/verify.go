package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/compiler"
	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/deploy"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/verify"
)

var (
	verifySource  string
	verifyInclude string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify deployed sources on the block explorer",
	Long: `Recompile the contract and submit its source for every token in the
most recent deployment report, then poll until each submission settles.

Requires TOKENFORGE_EXPLORER_API_URL and TOKENFORGE_EXPLORER_API_KEY, pointed
at an Etherscan-compatible API.

Examples:
  tokenforge verify
  tokenforge verify --out ./deployments --contract contracts/ForgeToken.sol`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.FromEnv()
		if err != nil {
			return err
		}
		if err := env.RequireExplorer(); err != nil {
			return err
		}

		report, err := deploy.LoadLatestReport(outDir)
		if err != nil {
			return err
		}
		if len(report.Tokens) == 0 {
			return fmt.Errorf("latest report has no deployed tokens")
		}

		// The source must match what was deployed, so recompile the same file.
		spin := ui.NewSpinner(fmt.Sprintf("Compiling %s...", verifySource))
		spin.Start()
		artifact, _, err := compiler.NewSolcBuilder(verifyInclude).Compile(verifySource)
		spin.Stop()
		if err != nil {
			return err
		}

		v := verify.NewVerifier(env.ExplorerAPIURL, env.ExplorerAPIKey)
		summary, err := v.VerifyAll(report, artifact, func(msg string) {
			fmt.Println(ui.Meta(msg))
		})
		if err != nil {
			return err
		}

		fmt.Println()
		if len(summary.Failed) > 0 {
			fmt.Println(ui.Warn(fmt.Sprintf("%d verified, %d failed: %v",
				len(summary.Verified), len(summary.Failed), summary.Failed)))
			return nil
		}
		fmt.Println(ui.Success(fmt.Sprintf("all %d token(s) verified", len(summary.Verified))))
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifySource, "contract", "contracts/ForgeToken.sol", "Solidity source that was deployed")
	verifyCmd.Flags().StringVar(&verifyInclude, "include", "node_modules", "directory for non-relative imports")
}
