package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/contract"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var grantRoleYes bool

var grantRoleCmd = &cobra.Command{
	Use:   "grant-role <token> <role> <account>",
	Short: "Grant an access-control role on a token",
	Long: `Grant a role to an account. <role> is MINTER, PAUSER, or ADMIN
(resolved against the contract's role constants), or a raw 32-byte role hash.

Examples:
  tokenforge grant-role FRG MINTER 0xNewMinter
  tokenforge grant-role FRG 0x9f2df0fe...d929 0xAccount`,
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

		role := contract.ParseRole(args[1])
		caller := contract.NewCaller(env.RPCURL, tokenABI())

		spin := ui.NewSpinner("Resolving role hash...")
		spin.Start()
		roleHash, err := role.Resolve(caller, tok.Address)
		spin.Stop()
		if err != nil {
			return fmt.Errorf("resolving role %q: %w", args[1], err)
		}

		sender, signer, err := newTokenSender(env)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Grant Role Preview", [][2]string{
			{"Token", ui.Symbol(tok.Symbol) + " " + ui.Addr(tok.Address)},
			{"Role", role.String()},
			{"Role Hash", ui.Meta(roleHash)},
			{"Account", ui.Addr(args[2])},
			{"Granted By", ui.Addr(signer.Address())},
		}))
		if !grantRoleYes && !ui.Confirm("Broadcast role grant?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		return sendWithSpinner(sender, "Granting role...", "Role Granted ✓",
			tok.Address, "grantRole", roleHash, args[2])
	},
}

func init() {
	grantRoleCmd.Flags().BoolVarP(&grantRoleYes, "yes", "y", false, "skip the confirmation prompt")
}
