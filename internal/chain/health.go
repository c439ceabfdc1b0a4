package chain

import (
	"fmt"
	"math/big"
	"time"
)

// Health is the result of an endpoint preflight check.
type Health struct {
	ChainID     int64
	BlockNumber uint64
	Latency     time.Duration
}

// CheckHealth verifies the endpoint responds and is producing blocks.
// Run before a batch so a dead RPC fails the run up front instead of
// mid-deployment.
func (c *EVMClient) CheckHealth() (*Health, error) {
	start := time.Now()

	id, err := c.ChainID()
	if err != nil {
		return nil, fmt.Errorf("endpoint unreachable: %w", err)
	}

	bn, err := c.callBig("eth_blockNumber")
	if err != nil {
		return nil, fmt.Errorf("endpoint unhealthy: %w", err)
	}
	if bn.Sign() == 0 {
		return nil, fmt.Errorf("endpoint reports block 0; node may still be syncing")
	}

	return &Health{
		ChainID:     id,
		BlockNumber: bn.Uint64(),
		Latency:     time.Since(start),
	}, nil
}

// CheckFunds errors when the address holds no native currency to pay gas with.
func (c *EVMClient) CheckFunds(address string) (*big.Int, error) {
	balance, err := c.GetBalance(address)
	if err != nil {
		return nil, fmt.Errorf("checking deployer balance: %w", err)
	}
	if balance.Sign() == 0 {
		return nil, fmt.Errorf("deployer %s holds no funds for gas", address)
	}
	return balance, nil
}
