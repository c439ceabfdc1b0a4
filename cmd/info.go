package cmd

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/contract"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/units"
	"github.com/Mohsinsiddi/tokenforge/internal/wallet"
)

var infoCmd = &cobra.Command{
	Use:   "info <token>",
	Short: "Show a token's on-chain metadata and supply",
	Long: `Read name, symbol, decimals, and total supply from the chain.

<token> is a symbol from the address book or a raw contract address.

Examples:
  tokenforge info FRG
  tokenforge info 0x5FbDB2315678afecb367f032d93F642f64180aa3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.FromEnv()
		if err != nil {
			return err
		}
		tok, err := resolveToken(env, args[0])
		if err != nil {
			return err
		}

		caller := contract.NewCaller(env.RPCURL, tokenABI())

		spin := ui.NewSpinner("Reading token state...")
		spin.Start()

		name, err := caller.CallOne(tok.Address, "name")
		if err != nil {
			spin.Stop()
			return fmt.Errorf("reading name: %w", err)
		}
		symbol, _ := caller.CallOne(tok.Address, "symbol")
		decimals := tok.Decimals
		if d, err := caller.CallOne(tok.Address, "decimals"); err == nil {
			if n, err := strconv.ParseUint(d, 10, 8); err == nil {
				decimals = uint8(n)
			}
		}

		supply := "?"
		if raw, err := caller.CallOne(tok.Address, "totalSupply"); err == nil {
			if n, ok := new(big.Int).SetString(raw, 10); ok {
				supply = units.Format(n, decimals)
			}
		}

		// Only pausable deployments expose paused(); ignore the revert otherwise.
		paused := ""
		if p, err := caller.CallOne(tok.Address, "paused"); err == nil {
			paused = p
		}

		// Show the deployer's balance when a key is configured.
		deployerBalance := ""
		if signer, err := wallet.LoadDeployer(); err == nil {
			if raw, err := caller.CallOne(tok.Address, "balanceOf", signer.Address()); err == nil {
				if n, ok := new(big.Int).SetString(raw, 10); ok {
					deployerBalance = units.Format(n, decimals)
				}
			}
		}
		spin.Stop()

		pairs := [][2]string{
			{"Address", ui.Addr(tok.Address)},
			{"Name", name},
			{"Symbol", ui.Symbol(symbol)},
			{"Decimals", fmt.Sprintf("%d", decimals)},
			{"Total Supply", ui.Val(supply + " " + symbol)},
		}
		if paused != "" {
			pairs = append(pairs, [2]string{"Paused", paused})
		}
		if deployerBalance != "" {
			pairs = append(pairs, [2]string{"Deployer Balance", ui.Val(deployerBalance + " " + symbol)})
		}
		fmt.Println(ui.KeyValueBlock("Token Info", pairs))
		return nil
	},
}
