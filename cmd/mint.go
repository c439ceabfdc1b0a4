package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/units"
)

var mintYes bool

var mintCmd = &cobra.Command{
	Use:   "mint <token> <to> <amount>",
	Short: "Mint new tokens (mintable tokens only)",
	Long: `Mint tokens to an address. The deployer must hold the minter role and
the token must have been deployed with "mintable": true.

Examples:
  tokenforge mint FRG 0xRecipient 10000`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.FromEnv()
		if err != nil {
			return err
		}
		tok, err := resolveToken(env, args[0])
		if err != nil {
			return err
		}
		amount, err := units.Parse(args[2], tok.Decimals)
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}

		sender, signer, err := newTokenSender(env)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Mint Preview", [][2]string{
			{"Token", ui.Symbol(tok.Symbol) + " " + ui.Addr(tok.Address)},
			{"Minter", ui.Addr(signer.Address())},
			{"To", ui.Addr(args[1])},
			{"Amount", ui.Val(args[2])},
		}))
		if !mintYes && !ui.Confirm("Broadcast mint?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		return sendWithSpinner(sender, "Minting...", "Mint Confirmed ✓",
			tok.Address, "mint", args[1], amount.String())
	},
}

func init() {
	mintCmd.Flags().BoolVarP(&mintYes, "yes", "y", false, "skip the confirmation prompt")
}
