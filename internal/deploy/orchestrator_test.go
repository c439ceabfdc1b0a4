package deploy

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Mohsinsiddi/tokenforge/internal/chain"
	"github.com/Mohsinsiddi/tokenforge/internal/compiler"
	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/wallet"
)

// Well-known throwaway devnet key (hardhat account #0).
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

const testBytecode = "0x6080604052600080fd"

// fakeChain records every broadcast transaction and mints deterministic
// receipts. Deploys (tx.To == nil) get a contract address derived from the
// send order.
type fakeChain struct {
	estimate    uint64
	estimateErr error
	gasPrice    *big.Int

	sent     []*types.Transaction // in broadcast order
	attempts int                  // every SendRawTransaction call, failed or not
	byHash   map[string]int       // hash -> index into sent
	sendErr  map[int]error        // 1-based send ordinal -> broadcast error
	revertOn map[int]bool         // 1-based send ordinal -> mined with status 0
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		estimate: 100_000,
		gasPrice: big.NewInt(2_000_000_000),
		byHash:   map[string]int{},
		sendErr:  map[int]error{},
		revertOn: map[int]bool{},
	}
}

func (f *fakeChain) ChainID() (int64, error) { return 31337, nil }

func (f *fakeChain) GasPrice() (*big.Int, error) { return f.gasPrice, nil }

func (f *fakeChain) GetNonce(string) (uint64, error) {
	return uint64(len(f.sent)), nil
}

func (f *fakeChain) EstimateGas(from, to, data string, value *big.Int) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return f.estimate, nil
}

func (f *fakeChain) SendRawTransaction(rawTx string) (string, error) {
	f.attempts++
	ordinal := f.attempts
	if err := f.sendErr[ordinal]; err != nil {
		return "", err
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(rawTx, "0x"))
	if err != nil {
		return "", err
	}
	var tx types.Transaction
	if err := tx.UnmarshalBinary(raw); err != nil {
		return "", err
	}

	hash := fmt.Sprintf("0x%064x", ordinal)
	f.byHash[hash] = len(f.sent)
	f.sent = append(f.sent, &tx)
	return hash, nil
}

func (f *fakeChain) WaitForReceipt(hash string, _ time.Duration) (*chain.TxReceipt, error) {
	idx, ok := f.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("unknown tx %s", hash)
	}
	tx := f.sent[idx]

	receipt := &chain.TxReceipt{Hash: hash, Status: 1, BlockNumber: uint64(idx + 1), GasUsed: 84_000}
	if tx.To() == nil {
		receipt.ContractAddress = fmt.Sprintf("0x%040x", idx+1)
		receipt.GasUsed = 1_200_000
	}
	if f.revertOn[idx+1] {
		receipt.Status = 0
		return receipt, fmt.Errorf("transaction reverted (hash: %s)", hash)
	}
	return receipt, nil
}

func newTestOrchestrator(t *testing.T, ch Chain) *Orchestrator {
	t.Helper()
	signer, err := wallet.NewSigner(testKey)
	require.NoError(t, err)
	o, err := NewOrchestrator(ch, signer, &compiler.Artifact{
		ContractName: "ForgeToken",
		Bytecode:     testBytecode,
	})
	require.NoError(t, err)
	return o
}

func singleTokenPlan() *config.Plan {
	return &config.Plan{
		Network: "localnet",
		Tokens: []config.TokenDefinition{
			{Name: "Alpha", Symbol: "ALP", Decimals: 18, InitialSupply: "1000"},
		},
	}
}

// ---------------------------------------------------------------------------
// Happy path
// ---------------------------------------------------------------------------

func TestDeploySingleToken(t *testing.T) {
	ch := newFakeChain()
	o := newTestOrchestrator(t, ch)

	result, err := o.DeployAll(singleTokenPlan())
	require.NoError(t, err)
	require.Len(t, result.Tokens, 1)
	assert.Empty(t, result.Failures)

	rec := result.Tokens[0]
	assert.Equal(t, "ALP", rec.Symbol)
	assert.Equal(t, fmt.Sprintf("0x%040x", 1), rec.Address)
	assert.Equal(t, "1200000", rec.GasUsed)
	assert.Empty(t, rec.Transfers)

	require.Len(t, ch.sent, 1)
	tx := ch.sent[0]
	assert.Nil(t, tx.To(), "deploy tx targets no address")
	assert.Equal(t, uint64(0), tx.Nonce())

	// Calldata is bytecode followed by constructor args.
	data := hex.EncodeToString(tx.Data())
	assert.True(t, strings.HasPrefix(data, strings.TrimPrefix(testBytecode, "0x")))
	assert.Greater(t, len(tx.Data()), len(testBytecode)/2)
}

func TestDeployGasBufferIsTwentyPercent(t *testing.T) {
	ch := newFakeChain()
	ch.estimate = 1_000_001
	o := newTestOrchestrator(t, ch)

	_, err := o.DeployAll(singleTokenPlan())
	require.NoError(t, err)

	// 1_000_001 * 120 / 100, truncating.
	assert.Equal(t, uint64(1_200_001), ch.sent[0].Gas())
}

func TestDeployGasFallbackOnEstimateFailure(t *testing.T) {
	ch := newFakeChain()
	ch.estimateErr = fmt.Errorf("execution reverted")
	o := newTestOrchestrator(t, ch)

	result, err := o.DeployAll(singleTokenPlan())
	require.NoError(t, err)
	require.Len(t, result.Tokens, 1)
	assert.Equal(t, uint64(fallbackDeployGas), ch.sent[0].Gas())
}

// ---------------------------------------------------------------------------
// Initial holder distribution
// ---------------------------------------------------------------------------

func TestHolderTransfersSequentialAndScaled(t *testing.T) {
	ch := newFakeChain()
	o := newTestOrchestrator(t, ch)

	plan := &config.Plan{
		Network: "localnet",
		Tokens: []config.TokenDefinition{{
			Name: "Beta", Symbol: "BET", Decimals: 2, InitialSupply: "1000",
			InitialHolders: []config.Holder{
				{Address: "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", Amount: "1.5"},
				{Address: "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", Amount: "10"},
			},
		}},
	}

	result, err := o.DeployAll(plan)
	require.NoError(t, err)
	require.Len(t, result.Tokens, 1)

	rec := result.Tokens[0]
	require.Len(t, rec.Transfers, 2)
	assert.Equal(t, "1.5", rec.Transfers[0].Amount)
	assert.NotEqual(t, rec.Transfers[0].TxHash, rec.Transfers[1].TxHash)

	// One deploy plus two transfers, nonces strictly increasing.
	require.Len(t, ch.sent, 3)
	for i, tx := range ch.sent {
		assert.Equal(t, uint64(i), tx.Nonce())
	}

	// transfer(address,uint256) with 1.5 scaled to 150 base units.
	transferTx := ch.sent[1]
	require.NotNil(t, transferTx.To())
	assert.Equal(t, rec.Address, strings.ToLower(transferTx.To().Hex()))
	data := hex.EncodeToString(transferTx.Data())
	assert.True(t, strings.HasPrefix(data, "a9059cbb"))
	assert.True(t, strings.HasSuffix(data, fmt.Sprintf("%064x", 150)))
}

// ---------------------------------------------------------------------------
// Failure policy
// ---------------------------------------------------------------------------

func twoTokenPlan(continueOnError bool) *config.Plan {
	return &config.Plan{
		Network:         "localnet",
		ContinueOnError: continueOnError,
		Tokens: []config.TokenDefinition{
			{Name: "Alpha", Symbol: "ALP", Decimals: 18, InitialSupply: "1000"},
			{Name: "Beta", Symbol: "BET", Decimals: 6, InitialSupply: "500"},
		},
	}
}

func TestFirstFailureStopsBatchByDefault(t *testing.T) {
	ch := newFakeChain()
	ch.sendErr[1] = fmt.Errorf("insufficient funds")
	o := newTestOrchestrator(t, ch)

	result, err := o.DeployAll(twoTokenPlan(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALP")
	assert.Empty(t, result.Tokens)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "deploy", result.Failures[0].Stage)

	// Second token never attempted.
	assert.Empty(t, ch.sent)
}

func TestContinueOnErrorSkipsFailedToken(t *testing.T) {
	ch := newFakeChain()
	ch.revertOn[1] = true
	o := newTestOrchestrator(t, ch)

	result, err := o.DeployAll(twoTokenPlan(true))
	require.NoError(t, err)

	require.Len(t, result.Tokens, 1)
	assert.Equal(t, "BET", result.Tokens[0].Symbol)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "ALP", result.Failures[0].Symbol)
	assert.Contains(t, result.Failures[0].Err, "reverted")
}

func TestTransferFailureAbandonsRecordButKeepsAddress(t *testing.T) {
	ch := newFakeChain()
	ch.revertOn[2] = true // the transfer, not the deploy
	o := newTestOrchestrator(t, ch)

	plan := &config.Plan{
		Network:         "localnet",
		ContinueOnError: true,
		Tokens: []config.TokenDefinition{{
			Name: "Gamma", Symbol: "GAM", Decimals: 18, InitialSupply: "100",
			InitialHolders: []config.Holder{
				{Address: "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", Amount: "1"},
			},
		}},
	}

	result, err := o.DeployAll(plan)
	require.NoError(t, err)

	// No partial record, but the deployed address survives in the failure.
	assert.Empty(t, result.Tokens)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "transfer", result.Failures[0].Stage)
	assert.Equal(t, fmt.Sprintf("0x%040x", 1), result.Failures[0].Address)
}

func threeTokenPlan(continueOnError bool) *config.Plan {
	return &config.Plan{
		Network:         "localnet",
		ContinueOnError: continueOnError,
		Tokens: []config.TokenDefinition{
			{Name: "Alpha", Symbol: "ALP", Decimals: 18, InitialSupply: "1000"},
			{Name: "Beta", Symbol: "BET", Decimals: 6, InitialSupply: "500"},
			{Name: "Gamma", Symbol: "GAM", Decimals: 0, InitialSupply: "21"},
		},
	}
}

func TestSecondOfThreeFailsStopsWithOneRecord(t *testing.T) {
	ch := newFakeChain()
	ch.sendErr[2] = fmt.Errorf("nonce too low")
	o := newTestOrchestrator(t, ch)

	result, err := o.DeployAll(threeTokenPlan(false))
	require.Error(t, err)
	require.Len(t, result.Tokens, 1)
	assert.Equal(t, "ALP", result.Tokens[0].Symbol)
}

func TestSecondOfThreeFailsContinueYieldsTwoRecords(t *testing.T) {
	ch := newFakeChain()
	ch.sendErr[2] = fmt.Errorf("nonce too low")
	o := newTestOrchestrator(t, ch)

	result, err := o.DeployAll(threeTokenPlan(true))
	require.NoError(t, err)
	require.Len(t, result.Tokens, 2)
	assert.Equal(t, "ALP", result.Tokens[0].Symbol)
	assert.Equal(t, "GAM", result.Tokens[1].Symbol)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "BET", result.Failures[0].Symbol)
}

func TestTransferFailureFatalWithoutContinueOnError(t *testing.T) {
	ch := newFakeChain()
	ch.revertOn[2] = true
	o := newTestOrchestrator(t, ch)

	plan := &config.Plan{
		Network: "localnet",
		Tokens: []config.TokenDefinition{{
			Name: "Gamma", Symbol: "GAM", Decimals: 18, InitialSupply: "100",
			InitialHolders: []config.Holder{
				{Address: "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", Amount: "1"},
			},
		}},
	}

	result, err := o.DeployAll(plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distributing GAM")
	assert.Empty(t, result.Tokens)
	require.Len(t, result.Failures, 1)
	assert.NotEmpty(t, result.Failures[0].Address)
}

func TestInvalidBytecodeRejected(t *testing.T) {
	signer, err := wallet.NewSigner(testKey)
	require.NoError(t, err)
	_, err = NewOrchestrator(newFakeChain(), signer, &compiler.Artifact{Bytecode: "0xzz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bytecode")
}

func TestProgressCallbackReceivesStatus(t *testing.T) {
	ch := newFakeChain()
	o := newTestOrchestrator(t, ch)

	var lines []string
	o.Progress = func(msg string) { lines = append(lines, msg) }

	_, err := o.DeployAll(singleTokenPlan())
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "[1/1]")
	assert.Contains(t, lines[0], "ALP")
}
