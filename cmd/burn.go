package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/units"
)

var burnYes bool

var burnCmd = &cobra.Command{
	Use:   "burn <token> <amount>",
	Short: "Burn tokens from the deployer wallet (burnable tokens only)",
	Long: `Permanently destroy tokens held by the deployer. The token must have
been deployed with "burnable": true.

Examples:
  tokenforge burn FRG 250`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.FromEnv()
		if err != nil {
			return err
		}
		tok, err := resolveToken(env, args[0])
		if err != nil {
			return err
		}
		amount, err := units.Parse(args[1], tok.Decimals)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}

		sender, signer, err := newTokenSender(env)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Burn Preview", [][2]string{
			{"Token", ui.Symbol(tok.Symbol) + " " + ui.Addr(tok.Address)},
			{"From", ui.Addr(signer.Address())},
			{"Amount", ui.Val(args[1])},
		}))
		if !burnYes && !ui.Confirm(fmt.Sprintf("Burn %s %s? This is irreversible.", args[1], tok.Symbol)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		return sendWithSpinner(sender, "Burning...", "Burn Confirmed ✓",
			tok.Address, "burn", amount.String())
	},
}

func init() {
	burnCmd.Flags().BoolVarP(&burnYes, "yes", "y", false, "skip the confirmation prompt")
}
