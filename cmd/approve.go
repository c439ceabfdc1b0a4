package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/units"
)

var approveYes bool

var approveCmd = &cobra.Command{
	Use:   "approve <token> <spender> <amount>",
	Short: "Approve a spender allowance",
	Long: `Set the allowance a spender may transfer on the deployer's behalf.

Examples:
  tokenforge approve FRG 0xSpender 5000`,
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

		fmt.Println(ui.KeyValueBlock("Approve Preview", [][2]string{
			{"Token", ui.Symbol(tok.Symbol) + " " + ui.Addr(tok.Address)},
			{"Owner", ui.Addr(signer.Address())},
			{"Spender", ui.Addr(args[1])},
			{"Allowance", ui.Val(args[2])},
		}))
		if !approveYes && !ui.Confirm("Broadcast approval?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		return sendWithSpinner(sender, "Approving...", "Approval Confirmed ✓",
			tok.Address, "approve", args[1], amount.String())
	},
}

func init() {
	approveCmd.Flags().BoolVarP(&approveYes, "yes", "y", false, "skip the confirmation prompt")
}
