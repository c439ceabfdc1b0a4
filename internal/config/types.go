// Package config loads and validates token provisioning plans.
package config

// Plan is a batch of token definitions to provision on one network.
type Plan struct {
	Network         string            `json:"network"`
	ContinueOnError bool              `json:"continueOnError"`
	Tokens          []TokenDefinition `json:"tokens"`
}

// TokenDefinition describes one ERC20 token to deploy.
type TokenDefinition struct {
	Name           string   `json:"name"`
	Symbol         string   `json:"symbol"`
	Decimals       uint8    `json:"decimals"`
	InitialSupply  string   `json:"initialSupply"` // human-readable decimal, e.g. "1000000.5"
	Mintable       bool     `json:"mintable"`
	Burnable       bool     `json:"burnable"`
	Pausable       bool     `json:"pausable"`
	InitialHolders []Holder `json:"initialHolders,omitempty"`
}

// Holder receives part of a token's initial supply right after deployment.
type Holder struct {
	Address string `json:"address"`
	Amount  string `json:"amount"` // human-readable decimal
}
