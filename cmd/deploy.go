package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/chain"
	"github.com/Mohsinsiddi/tokenforge/internal/compiler"
	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/deploy"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/units"
	"github.com/Mohsinsiddi/tokenforge/internal/wallet"
)

// ── flag vars ─────────────────────────────────────────────────────────────────

var (
	deployPlan    string
	deploySource  string
	deployInclude string
	deployYes     bool
)

// ── deploy command ────────────────────────────────────────────────────────────

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Compile and deploy every token in a plan",
	Long: `Compile the token contract and deploy one instance per plan entry,
distributing initial supplies to the configured holders.

Each deployment waits for its receipt before the next begins, so a failure
points at exactly one token. With "continueOnError": true in the plan, a
failed token is skipped instead of stopping the batch.

Examples:
  tokenforge deploy --config plan.json
  tokenforge deploy --config plan.json --out ./deployments --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := config.Load(deployPlan)
		if err != nil {
			return err
		}

		env, err := config.FromEnv()
		if err != nil {
			return err
		}

		signer, err := wallet.LoadDeployer()
		if err != nil {
			return err
		}

		// ── Preflight ─────────────────────────────────────────────────────────
		client := chain.NewEVMClient(env.RPCURL)
		spin := ui.NewSpinner("Checking RPC endpoint...")
		spin.Start()
		health, err := client.CheckHealth()
		if err != nil {
			spin.Stop()
			return err
		}
		balance, err := client.CheckFunds(signer.Address())
		spin.Stop()
		if err != nil {
			return err
		}

		// ── Compile ───────────────────────────────────────────────────────────
		spin = ui.NewSpinner(fmt.Sprintf("Compiling %s...", deploySource))
		spin.Start()
		builder := compiler.NewSolcBuilder(deployInclude)
		artifact, diags, err := builder.Compile(deploySource)
		spin.Stop()
		for _, d := range diags {
			if d.Severity != "error" {
				fmt.Println(ui.Warn(d.Message))
			}
		}
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("compiled %s with solc %s",
			artifact.ContractName, artifact.CompilerVersion)))

		// ── Preview ───────────────────────────────────────────────────────────
		table := ui.NewTable([]ui.Column{
			{Title: "Symbol", Width: 8}, {Title: "Name", Width: 24},
			{Title: "Decimals", Width: 8}, {Title: "Supply", Width: 18},
			{Title: "Flags", Width: 5}, {Title: "Holders", Width: 7},
		})
		for _, tok := range plan.Tokens {
			table.AddRow(ui.Row{
				tok.Symbol, tok.Name,
				fmt.Sprintf("%d", tok.Decimals), tok.InitialSupply,
				featureFlags(tok), fmt.Sprintf("%d", len(tok.InitialHolders)),
			})
		}
		fmt.Println(table.Render())
		fmt.Println(ui.KeyValueBlock("Batch Deploy Preview", [][2]string{
			{"Network", fmt.Sprintf("%s (chain %d, block %d)", plan.Network, health.ChainID, health.BlockNumber)},
			{"Deployer", ui.Addr(signer.Address())},
			{"Balance", ui.Val(units.Format(balance, 18) + " ETH")},
			{"Tokens", fmt.Sprintf("%d", len(plan.Tokens))},
			{"On failure", failurePolicy(plan)},
		}))

		if !deployYes && !ui.Confirm(fmt.Sprintf("Deploy %d token(s) to %s?", len(plan.Tokens), plan.Network)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		// ── Deploy ────────────────────────────────────────────────────────────
		orch, err := deploy.NewOrchestrator(client, signer, artifact)
		if err != nil {
			return err
		}
		orch.Progress = func(msg string) { fmt.Println(ui.Meta(msg)) }

		result, runErr := orch.DeployAll(plan)

		// Whatever happened, persist what did deploy so addresses are not lost.
		if len(result.Tokens) > 0 || len(result.Failures) > 0 {
			report := deploy.NewReport(plan.Network, orch.ChainID(), signer.Address(), result)
			path, bookPath, werr := deploy.WriteReport(outDir, report, artifact)
			if werr != nil {
				fmt.Println(ui.Err("writing report: " + werr.Error()))
			} else {
				fmt.Println(ui.Success("report written to " + path))
				if bookPath != "" {
					fmt.Println(ui.Meta("  addresses: " + bookPath))
				}
			}
		}

		if runErr != nil {
			return runErr
		}

		fmt.Println()
		if len(result.Failures) > 0 {
			fmt.Println(ui.Warn(fmt.Sprintf("%d deployed, %d failed",
				len(result.Tokens), len(result.Failures))))
			for _, f := range result.Failures {
				line := fmt.Sprintf("%s (%s): %s", f.Symbol, f.Stage, f.Err)
				if f.Address != "" {
					line += " (deployed at " + f.Address + ")"
				}
				fmt.Println(ui.Err(line))
			}
			return nil
		}
		fmt.Println(ui.Success(fmt.Sprintf("all %d token(s) deployed", len(result.Tokens))))
		return nil
	},
}

func featureFlags(tok config.TokenDefinition) string {
	flags := ""
	if tok.Mintable {
		flags += "M"
	}
	if tok.Burnable {
		flags += "B"
	}
	if tok.Pausable {
		flags += "P"
	}
	if flags == "" {
		return "-"
	}
	return flags
}

func failurePolicy(plan *config.Plan) string {
	if plan.ContinueOnError {
		return "skip token, continue"
	}
	return "stop batch"
}

func init() {
	deployCmd.Flags().StringVar(&deployPlan, "config", "", "plan file (required)")
	deployCmd.Flags().StringVar(&deploySource, "contract", "contracts/ForgeToken.sol", "Solidity source to deploy")
	deployCmd.Flags().StringVar(&deployInclude, "include", "node_modules", "directory for non-relative imports")
	deployCmd.Flags().BoolVarP(&deployYes, "yes", "y", false, "skip the confirmation prompt")
	deployCmd.MarkFlagRequired("config")
}
