package cmd

import (
	"fmt"
	"math/big"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/tokenforge/internal/chain"
	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/contract"
	"github.com/Mohsinsiddi/tokenforge/internal/deploy"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
	"github.com/Mohsinsiddi/tokenforge/internal/wallet"
)

// token is a resolved target for the interaction commands.
type token struct {
	Symbol   string
	Address  string
	Decimals uint8
}

// tokenABI returns the ABI the interaction commands drive tokens with.
// A deploy run caches the compiled ABI next to its report; when that cache
// exists it wins over the bundled one so a modified contract keeps its
// functions reachable. No cache, or a corrupt one, falls back to the
// built-in.
func tokenABI() []contract.ABIEntry {
	matches, _ := filepath.Glob(filepath.Join(outDir, "*.abi.json"))
	sort.Strings(matches)
	for _, m := range matches {
		if abi, err := contract.LoadABIFile(m); err == nil && len(abi) > 0 {
			return abi
		}
	}
	return contract.GetBuiltinABI("forgetoken")
}

// resolveToken turns a symbol (looked up in the address book) or a raw
// address into a deploy target. Raw addresses are checked for contract
// code and get their decimals fetched on chain.
func resolveToken(env *config.Env, ref string) (*token, error) {
	if common.IsHexAddress(ref) {
		client := chain.NewEVMClient(env.RPCURL)
		if code, err := client.GetCode(ref); err == nil && len(code) <= 2 {
			return nil, fmt.Errorf("no contract code at %s", ref)
		}

		caller := contract.NewCaller(env.RPCURL, contract.GetBuiltinABI("erc20"))
		tok := &token{Address: ref, Decimals: 18}
		if d, err := caller.CallOne(ref, "decimals"); err == nil {
			if n, err := strconv.ParseUint(d, 10, 8); err == nil {
				tok.Decimals = uint8(n)
			}
		}
		if sym, err := caller.CallOne(ref, "symbol"); err == nil {
			tok.Symbol = sym
		}
		return tok, nil
	}

	book, err := deploy.LoadAddressBook(outDir)
	if err != nil {
		return nil, err
	}
	entry, ok := book[ref]
	if !ok {
		return nil, fmt.Errorf("unknown token %q: not an address and not in %s/latest-addresses.json: %w", ref, outDir, deploy.ErrNotFound)
	}
	return &token{Symbol: ref, Address: entry.Address, Decimals: entry.Decimals}, nil
}

// newTokenSender builds a confirmed-write sender for the deployed token ABI.
func newTokenSender(env *config.Env) (*contract.Sender, *wallet.Signer, error) {
	signer, err := wallet.LoadDeployer()
	if err != nil {
		return nil, nil, err
	}

	client := chain.NewEVMClient(env.RPCURL)
	chainID, err := client.ChainID()
	if err != nil {
		return nil, nil, fmt.Errorf("fetching chain ID: %w", err)
	}

	sender := contract.NewSender(env.RPCURL, tokenABI(), signer, big.NewInt(chainID))
	return sender, signer, nil
}

// sendWithSpinner wraps a confirmed write in a spinner and prints the result.
func sendWithSpinner(sender *contract.Sender, doing, done string, addr, fn string, args ...string) error {
	spin := ui.NewSpinner(doing)
	spin.Start()
	receipt, err := sender.Send(addr, fn, args...)
	spin.Stop()
	if err != nil {
		return err
	}

	fmt.Println(ui.KeyValueBlock(done, [][2]string{
		{"Tx Hash", ui.Addr(receipt.Hash)},
		{"Block", fmt.Sprintf("%d", receipt.BlockNumber)},
		{"Gas Used", fmt.Sprintf("%d", receipt.GasUsed)},
	}))
	return nil
}
