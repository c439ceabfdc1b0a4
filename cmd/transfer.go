package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/units"
)

var transferYes bool

var transferCmd = &cobra.Command{
	Use:   "transfer <token> <to> <amount>",
	Short: "Transfer tokens from the deployer wallet",
	Long: `Transfer tokens. The amount is in human-readable units and is scaled
by the token's decimals.

Examples:
  tokenforge transfer FRG 0xRecipient 150.5
  tokenforge transfer 0xTokenAddr 0xRecipient 1000`,
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

		fmt.Println(ui.KeyValueBlock("Transfer Preview", [][2]string{
			{"Token", ui.Symbol(tok.Symbol) + " " + ui.Addr(tok.Address)},
			{"From", ui.Addr(signer.Address())},
			{"To", ui.Addr(args[1])},
			{"Amount", ui.Val(args[2])},
		}))
		if !transferYes && !ui.Confirm("Broadcast transfer?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		return sendWithSpinner(sender, "Transferring...", "Transfer Confirmed ✓",
			tok.Address, "transfer", args[1], amount.String())
	},
}

func init() {
	transferCmd.Flags().BoolVarP(&transferYes, "yes", "y", false, "skip the confirmation prompt")
}
