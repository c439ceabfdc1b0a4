// Package chain is a minimal JSON-RPC client for EVM chains, exposing only
// the primitives the provisioning pipeline needs: estimate, send, call, wait.
package chain

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

const defaultPollInterval = 2 * time.Second

// EVMClient talks to a single RPC endpoint over HTTP.
type EVMClient struct {
	url          string
	client       *http.Client
	pollInterval time.Duration
}

// NewEVMClient creates a client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url:          url,
		client:       &http.Client{Timeout: 15 * time.Second},
		pollInterval: defaultPollInterval,
	}
}

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID() (int64, error) {
	n, err := c.callBig("eth_chainId")
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// GetBalance returns the native balance in wei for an address.
func (c *EVMClient) GetBalance(address string) (*big.Int, error) {
	return c.callBig("eth_getBalance", address, "latest")
}

// GetNonce returns the confirmed transaction count for an address.
func (c *EVMClient) GetNonce(address string) (uint64, error) {
	n, err := c.callBig("eth_getTransactionCount", address, "latest")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GasPrice returns the current gas price in wei.
func (c *EVMClient) GasPrice() (*big.Int, error) {
	return c.callBig("eth_gasPrice")
}

// EstimateGas estimates gas for a transaction. to may be empty for contract
// creation. The caller decides how to buffer the estimate and what to do on
// failure; no fallback happens here.
func (c *EVMClient) EstimateGas(from, to, data string, value *big.Int) (uint64, error) {
	params := map[string]string{"from": from}
	if to != "" {
		params["to"] = to
	}
	if data != "" {
		params["data"] = data
	}
	if value != nil && value.Sign() > 0 {
		params["value"] = "0x" + value.Text(16)
	}

	n, err := c.callBig("eth_estimateGas", params, "latest")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts a signed raw transaction and returns its hash.
func (c *EVMClient) SendRawTransaction(rawTx string) (string, error) {
	return c.callString("eth_sendRawTransaction", rawTx)
}

// CallContract executes a read-only contract call and returns the raw hex
// return data.
func (c *EVMClient) CallContract(toAddr, calldata string) (string, error) {
	return c.callString("eth_call", map[string]string{
		"to":   toAddr,
		"data": calldata,
	}, "latest")
}

// GetCode returns the bytecode at an address. "0x" means no code (EOA).
func (c *EVMClient) GetCode(address string) (string, error) {
	return c.callString("eth_getCode", address, "latest")
}

// TxReceipt holds the on-chain receipt of a mined transaction.
type TxReceipt struct {
	Hash            string
	Status          uint64 // 1 = success, 0 = reverted
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress string // non-empty when a contract was deployed
}

// GetTransactionReceipt fetches the receipt for hash.
// Returns nil, nil while the transaction is still pending.
func (c *EVMClient) GetTransactionReceipt(hash string) (*TxReceipt, error) {
	result, err := c.call("eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}

	var r struct {
		Status          string `json:"status"`
		BlockNumber     string `json:"blockNumber"`
		GasUsed         string `json:"gasUsed"`
		ContractAddress string `json:"contractAddress"`
	}
	if err := json.Unmarshal(result, &r); err != nil {
		return nil, fmt.Errorf("parsing receipt: %w", err)
	}

	receipt := &TxReceipt{Hash: hash, ContractAddress: r.ContractAddress}
	if s, ok := parseBigHex(r.Status); ok {
		receipt.Status = s.Uint64()
	}
	if bn, ok := parseBigHex(r.BlockNumber); ok {
		receipt.BlockNumber = bn.Uint64()
	}
	if gu, ok := parseBigHex(r.GasUsed); ok {
		receipt.GasUsed = gu.Uint64()
	}
	return receipt, nil
}

// WaitForReceipt polls until the transaction is mined or timeout expires.
// A reverted transaction (status 0) returns the receipt along with an error.
func (c *EVMClient) WaitForReceipt(hash string, timeout time.Duration) (*TxReceipt, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		receipt, err := c.GetTransactionReceipt(hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			if receipt.Status == 0 {
				return receipt, fmt.Errorf("transaction reverted (hash: %s)", hash)
			}
			return receipt, nil
		}
		time.Sleep(c.pollInterval)
	}
	return nil, fmt.Errorf("transaction %s not mined within %s", hash, timeout)
}

// --- JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call performs one JSON-RPC request and returns the raw result.
func (c *EVMClient) call(method string, params ...interface{}) (json.RawMessage, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Post(c.url, "application/json", strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

// callString performs a call whose result is a JSON string.
func (c *EVMClient) callString(method string, params ...interface{}) (string, error) {
	result, err := c.call(method, params...)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(result, &s); err != nil {
		return "", fmt.Errorf("%s: unexpected result %s", method, string(result))
	}
	return s, nil
}

// callBig performs a call whose result is a hex quantity.
func (c *EVMClient) callBig(method string, params ...interface{}) (*big.Int, error) {
	s, err := c.callString(method, params...)
	if err != nil {
		return nil, err
	}
	n, ok := parseBigHex(s)
	if !ok {
		return nil, fmt.Errorf("%s: could not parse quantity %q", method, s)
	}
	return n, nil
}

func parseBigHex(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, false
	}
	return new(big.Int).SetString(s, 16)
}
