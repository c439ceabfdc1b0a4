// Package deploy drives batch token provisioning: deploy each contract,
// distribute the initial supply, and record what happened.
package deploy

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Mohsinsiddi/tokenforge/internal/chain"
	"github.com/Mohsinsiddi/tokenforge/internal/compiler"
	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/contract"
	"github.com/Mohsinsiddi/tokenforge/internal/units"
)

const (
	// fallbackDeployGas caps contract creation when estimation fails.
	fallbackDeployGas = 3_000_000

	// fallbackTransferGas caps holder transfers when estimation fails.
	fallbackTransferGas = 100_000

	confirmTimeout = 3 * time.Minute
)

// Chain is the subset of RPC operations the orchestrator needs.
type Chain interface {
	ChainID() (int64, error)
	GetNonce(address string) (uint64, error)
	GasPrice() (*big.Int, error)
	EstimateGas(from, to, data string, value *big.Int) (uint64, error)
	SendRawTransaction(rawTx string) (string, error)
	WaitForReceipt(hash string, timeout time.Duration) (*chain.TxReceipt, error)
}

// Signer signs transactions for the deployer address.
type Signer interface {
	Address() string
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
}

// Failure records one token that could not be fully provisioned. Address is
// set when the contract itself deployed before a later step failed, so the
// address is never lost even though no record is written.
type Failure struct {
	Symbol  string `json:"symbol"`
	Stage   string `json:"stage"` // "deploy" or "transfer"
	Address string `json:"address,omitempty"`
	Err     string `json:"error"`
}

// Result is the outcome of a batch run. Tokens holds one record per
// successfully deployed contract; Failures holds everything that went wrong.
type Result struct {
	Tokens   []Record
	Failures []Failure
}

// Orchestrator deploys every token in a plan, strictly one at a time so
// nonces stay predictable and a failure points at exactly one token.
type Orchestrator struct {
	chain    Chain
	signer   Signer
	bytecode []byte
	abi      []contract.ABIEntry
	chainID  *big.Int

	// Progress receives human-readable status lines. Nil means silent.
	Progress func(msg string)
}

// NewOrchestrator wires a chain client, deployer signer, and compiled
// artifact into an orchestrator.
func NewOrchestrator(ch Chain, signer Signer, artifact *compiler.Artifact) (*Orchestrator, error) {
	bytecode, err := hex.DecodeString(strings.TrimPrefix(artifact.Bytecode, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding contract bytecode: %w", err)
	}

	id, err := ch.ChainID()
	if err != nil {
		return nil, fmt.Errorf("fetching chain ID: %w", err)
	}

	return &Orchestrator{
		chain:    ch,
		signer:   signer,
		bytecode: bytecode,
		abi:      contract.GetBuiltinABI("forgetoken"),
		chainID:  big.NewInt(id),
	}, nil
}

// ChainID returns the connected chain's ID.
func (o *Orchestrator) ChainID() int64 { return o.chainID.Int64() }

// Deployer returns the deployer address.
func (o *Orchestrator) Deployer() string { return o.signer.Address() }

// DeployAll provisions every token in the plan. With ContinueOnError a
// failing token is recorded and the run moves on; otherwise the first
// failure stops the batch. Records for tokens already deployed are returned
// either way.
func (o *Orchestrator) DeployAll(plan *config.Plan) (*Result, error) {
	result := &Result{}

	for i, tok := range plan.Tokens {
		o.progress("[%d/%d] deploying %s (%s)", i+1, len(plan.Tokens), tok.Name, tok.Symbol)

		record, err := o.deployToken(&tok)
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				Symbol: tok.Symbol,
				Stage:  "deploy",
				Err:    err.Error(),
			})
			if !plan.ContinueOnError {
				return result, fmt.Errorf("deploying %s: %w", tok.Symbol, err)
			}
			o.progress("    %s failed, continuing: %v", tok.Symbol, err)
			continue
		}

		// A token is recorded only when every one of its steps confirmed;
		// a failed distribution abandons the record but keeps the address
		// in the failure entry.
		if err := o.distribute(&tok, record); err != nil {
			result.Failures = append(result.Failures, Failure{
				Symbol:  tok.Symbol,
				Stage:   "transfer",
				Address: record.Address,
				Err:     err.Error(),
			})
			if !plan.ContinueOnError {
				return result, fmt.Errorf("distributing %s: %w", tok.Symbol, err)
			}
			o.progress("    %s distribution failed, continuing: %v", tok.Symbol, err)
			continue
		}

		result.Tokens = append(result.Tokens, *record)
	}

	return result, nil
}

// deployToken deploys one contract and waits for confirmation.
func (o *Orchestrator) deployToken(tok *config.TokenDefinition) (*Record, error) {
	supply, err := units.Parse(tok.InitialSupply, tok.Decimals)
	if err != nil {
		return nil, fmt.Errorf("initial supply: %w", err)
	}

	deployData := contract.BuildDeployData(o.bytecode, contract.ConstructorParams{
		Name:     tok.Name,
		Symbol:   tok.Symbol,
		Decimals: tok.Decimals,
		Supply:   supply,
		Mintable: tok.Mintable,
		Burnable: tok.Burnable,
		Pausable: tok.Pausable,
	})

	receipt, err := o.sendTx("", "0x"+hex.EncodeToString(deployData), fallbackDeployGas)
	if err != nil {
		return nil, err
	}
	if receipt.ContractAddress == "" {
		return nil, fmt.Errorf("receipt for %s carries no contract address", receipt.Hash)
	}

	o.progress("    %s deployed at %s (gas %d)", tok.Symbol, receipt.ContractAddress, receipt.GasUsed)

	return &Record{
		Name:          tok.Name,
		Symbol:        tok.Symbol,
		Decimals:      tok.Decimals,
		InitialSupply: tok.InitialSupply,
		Mintable:      tok.Mintable,
		Burnable:      tok.Burnable,
		Pausable:      tok.Pausable,
		Address:       receipt.ContractAddress,
		TxHash:        receipt.Hash,
		BlockNumber:   receipt.BlockNumber,
		GasUsed:       fmt.Sprintf("%d", receipt.GasUsed),
	}, nil
}

// distribute sends the token's initial holder transfers, each confirmed
// before the next starts.
func (o *Orchestrator) distribute(tok *config.TokenDefinition, record *Record) error {
	if len(tok.InitialHolders) == 0 {
		return nil
	}

	transferFn := findFunction(o.abi, "transfer")
	if transferFn == nil {
		return fmt.Errorf("token ABI has no transfer function")
	}

	for _, h := range tok.InitialHolders {
		amount, err := units.Parse(h.Amount, tok.Decimals)
		if err != nil {
			return fmt.Errorf("amount for %s: %w", h.Address, err)
		}

		calldata, err := contract.EncodeCall(transferFn, []string{h.Address, amount.String()})
		if err != nil {
			return fmt.Errorf("encoding transfer to %s: %w", h.Address, err)
		}

		receipt, err := o.sendTx(record.Address, calldata, fallbackTransferGas)
		if err != nil {
			return fmt.Errorf("transfer to %s: %w", h.Address, err)
		}

		o.progress("    sent %s %s to %s", h.Amount, tok.Symbol, h.Address)
		record.Transfers = append(record.Transfers, TransferRecord{
			To:     h.Address,
			Amount: h.Amount,
			TxHash: receipt.Hash,
		})
	}

	return nil
}

// sendTx estimates, signs, broadcasts, and waits for one transaction.
// to may be empty for contract creation. The gas estimate gets a 20% buffer;
// if estimation fails the fixed fallback ceiling is used instead.
func (o *Orchestrator) sendTx(to, data string, fallbackGas uint64) (*chain.TxReceipt, error) {
	from := o.signer.Address()

	gas, err := o.chain.EstimateGas(from, to, data, nil)
	if err != nil {
		gas = fallbackGas
	} else {
		gas = gas * 120 / 100
	}

	gasPrice, err := o.chain.GasPrice()
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := o.chain.GetNonce(from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	dataBytes, err := hex.DecodeString(strings.TrimPrefix(data, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding calldata: %w", err)
	}

	txData := &types.DynamicFeeTx{
		ChainID:   o.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		Value:     big.NewInt(0),
		Data:      dataBytes,
	}
	if to != "" {
		toAddr := common.HexToAddress(to)
		txData.To = &toAddr
	}

	raw, err := o.signer.SignTx(types.NewTx(txData), o.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := o.chain.SendRawTransaction("0x" + hex.EncodeToString(raw))
	if err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}

	receipt, err := o.chain.WaitForReceipt(hash, confirmTimeout)
	if err != nil {
		return receipt, fmt.Errorf("tx %s: %w", hash, err)
	}
	return receipt, nil
}

func (o *Orchestrator) progress(format string, args ...interface{}) {
	if o.Progress != nil {
		o.Progress(fmt.Sprintf(format, args...))
	}
}

func findFunction(abi []contract.ABIEntry, name string) *contract.ABIEntry {
	for i := range abi {
		if abi[i].Type == "function" && abi[i].Name == name {
			return &abi[i]
		}
	}
	return nil
}
