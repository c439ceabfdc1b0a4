package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/wallet"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the deployer key in the OS keychain",
	Long: `Store, inspect, or remove the deployer private key in the OS keychain.

A stored key is used whenever TOKENFORGE_PRIVATE_KEY is unset, so the key
only has to live in the environment of CI runs, never on a workstation.`,
}

var keyStoreCmd = &cobra.Command{
	Use:   "store <private-key>",
	Short: "Store the deployer private key in the OS keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := wallet.NewSigner(args[0])
		if err != nil {
			return fmt.Errorf("invalid private key: %w", err)
		}

		ks := wallet.DefaultKeystore()
		if err := ks.Store(wallet.DeployerKeyRef, args[0]); err != nil {
			return err
		}

		fmt.Println(ui.Success("deployer key stored in the OS keychain"))
		fmt.Println(ui.KeyValueBlock("", [][2]string{
			{"Address", ui.Addr(signer.Address())},
		}))
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the address of the stored deployer key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ks := wallet.DefaultKeystore()
		hexKey, err := ks.Retrieve(wallet.DeployerKeyRef)
		if err != nil {
			return fmt.Errorf("no deployer key in the keychain: %w", err)
		}
		signer, err := wallet.NewSigner(hexKey)
		if err != nil {
			return fmt.Errorf("stored key is invalid: %w", err)
		}

		fmt.Println(ui.KeyValueBlock("Deployer", [][2]string{
			{"Address", ui.Addr(signer.Address())},
		}))
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the deployer key from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.Confirm("Remove the stored deployer key?") {
			fmt.Println(ui.Meta("cancelled"))
			return nil
		}

		ks := wallet.DefaultKeystore()
		if err := ks.Delete(wallet.DeployerKeyRef); err != nil {
			return err
		}
		fmt.Println(ui.Success("deployer key removed"))
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyStoreCmd, keyShowCmd, keyDeleteCmd)
}
