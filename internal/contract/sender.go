package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Mohsinsiddi/tokenforge/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fallbackCallGas is used when gas estimation fails for a contract write.
const fallbackCallGas = 100_000

// TxSigner signs transactions for a fixed sender address.
type TxSigner interface {
	Address() string
	SignTx(tx *types.Transaction, chainID *big.Int) ([]byte, error)
}

// Sender sends write transactions to contracts and blocks until they confirm.
type Sender struct {
	client  *chain.EVMClient
	abi     []ABIEntry
	signer  TxSigner
	chainID *big.Int
}

// NewSender creates a Sender.
func NewSender(rpcURL string, abi []ABIEntry, signer TxSigner, chainID *big.Int) *Sender {
	return &Sender{
		client:  chain.NewEVMClient(rpcURL),
		abi:     abi,
		signer:  signer,
		chainID: chainID,
	}
}

// Send calls a write function, broadcasts the transaction, and waits for the
// receipt. Returns the confirmed receipt or an error (including reverts).
func (s *Sender) Send(contractAddr, funcName string, args ...string) (*chain.TxReceipt, error) {
	fn := findFunction(s.abi, funcName)
	if fn == nil {
		return nil, fmt.Errorf("function %q not found in ABI", funcName)
	}
	if !fn.IsWriteFunction() {
		return nil, fmt.Errorf("function %q is not a write function", funcName)
	}

	calldata, err := EncodeCall(fn, args)
	if err != nil {
		return nil, fmt.Errorf("encoding call: %w", err)
	}

	from := s.signer.Address()

	// Estimation failure is not fatal; fall back to a fixed ceiling.
	gas, err := s.client.EstimateGas(from, contractAddr, calldata, nil)
	if err != nil {
		gas = fallbackCallGas
	} else {
		gas = gas * 120 / 100
	}

	gasPrice, err := s.client.GasPrice()
	if err != nil {
		return nil, fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := s.client.GetNonce(from)
	if err != nil {
		return nil, fmt.Errorf("getting nonce: %w", err)
	}

	calldataBytes, err := hex.DecodeString(strings.TrimPrefix(calldata, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding calldata: %w", err)
	}
	toAddr := common.HexToAddress(contractAddr)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &toAddr,
		Value:     big.NewInt(0),
		Data:      calldataBytes,
	})

	raw, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := s.client.SendRawTransaction("0x" + hex.EncodeToString(raw))
	if err != nil {
		return nil, fmt.Errorf("broadcasting transaction: %w", err)
	}

	receipt, err := s.client.WaitForReceipt(hash, 3*time.Minute)
	if err != nil {
		return receipt, fmt.Errorf("tx %s: %w", hash, err)
	}
	return receipt, nil
}
