package contract

// forgetoken is the feature-flagged ERC-20 this tool deploys: OpenZeppelin
// ERC20 plus AccessControl-gated mint, burn, and pause, all switchable per
// instance through constructor flags.
//
// Function selectors:
//
//	name()                     → 0x06fdde03
//	symbol()                   → 0x95d89b41
//	decimals()                 → 0x313ce567
//	totalSupply()              → 0x18160ddd
//	balanceOf(address)         → 0x70a08231
//	transfer(a,u256)           → 0xa9059cbb
//	approve(a,u256)            → 0x095ea7b3
//	mint(a,u256)               → 0x40c10f19
//	burn(u256)                 → 0x42966c68
//	pause()                    → 0x8456cb59
//	unpause()                  → 0x3f4ba83a
//	grantRole(b32,a)           → 0x2f2ff15d
//	hasRole(b32,a)             → 0x91d14854
func init() {
	RegisterBuiltin(BuiltinKind{
		ID:          "forgetoken",
		Name:        "ForgeToken (feature-flagged ERC-20)",
		Description: "ERC-20 with constructor-selected mint/burn/pause features and AccessControl roles.",
		ABI:         forgeTokenABI,
	})
	RegisterBuiltin(BuiltinKind{
		ID:          "erc20",
		Name:        "ERC-20 Standard Token",
		Description: "Standard ERC-20 interface (EIP-20), for tokens deployed elsewhere.",
		ABI:         erc20ABI,
	})
}

var erc20ABI = []ABIEntry{
	{
		Name: "name", Type: "function",
		Outputs:         []ABIParam{{Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "symbol", Type: "function",
		Outputs:         []ABIParam{{Type: "string"}},
		StateMutability: "view",
	},
	{
		Name: "decimals", Type: "function",
		Outputs:         []ABIParam{{Type: "uint8"}},
		StateMutability: "view",
	},
	{
		Name: "totalSupply", Type: "function",
		Outputs:         []ABIParam{{Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "allowance", Type: "function",
		Inputs:          []ABIParam{{Name: "owner", Type: "address"}, {Name: "spender", Type: "address"}},
		Outputs:         []ABIParam{{Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "transfer", Type: "function",
		Inputs:          []ABIParam{{Name: "to", Type: "address"}, {Name: "value", Type: "uint256"}},
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "nonpayable",
	},
	{
		Name: "approve", Type: "function",
		Inputs:          []ABIParam{{Name: "spender", Type: "address"}, {Name: "value", Type: "uint256"}},
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "nonpayable",
	},
	{
		Name: "transferFrom", Type: "function",
		Inputs:          []ABIParam{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "value", Type: "uint256"}},
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "nonpayable",
	},
	{
		Name:   "Transfer",
		Type:   "event",
		Inputs: []ABIParam{{Name: "from", Type: "address"}, {Name: "to", Type: "address"}, {Name: "value", Type: "uint256"}},
	},
	{
		Name:   "Approval",
		Type:   "event",
		Inputs: []ABIParam{{Name: "owner", Type: "address"}, {Name: "spender", Type: "address"}, {Name: "value", Type: "uint256"}},
	},
}

var forgeTokenABI = append(append([]ABIEntry{}, erc20ABI...), []ABIEntry{
	{
		Type: "constructor",
		Inputs: []ABIParam{
			{Name: "name_", Type: "string"},
			{Name: "symbol_", Type: "string"},
			{Name: "decimals_", Type: "uint8"},
			{Name: "initialSupply_", Type: "uint256"},
			{Name: "mintable_", Type: "bool"},
			{Name: "burnable_", Type: "bool"},
			{Name: "pausable_", Type: "bool"},
		},
	},
	{
		Name: "mint", Type: "function",
		Inputs:          []ABIParam{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}},
		StateMutability: "nonpayable",
	},
	{
		Name: "burn", Type: "function",
		Inputs:          []ABIParam{{Name: "amount", Type: "uint256"}},
		StateMutability: "nonpayable",
	},
	{
		Name: "pause", Type: "function",
		StateMutability: "nonpayable",
	},
	{
		Name: "unpause", Type: "function",
		StateMutability: "nonpayable",
	},
	{
		Name: "paused", Type: "function",
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "view",
	},
	{
		Name: "grantRole", Type: "function",
		Inputs:          []ABIParam{{Name: "role", Type: "bytes32"}, {Name: "account", Type: "address"}},
		StateMutability: "nonpayable",
	},
	{
		Name: "hasRole", Type: "function",
		Inputs:          []ABIParam{{Name: "role", Type: "bytes32"}, {Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Type: "bool"}},
		StateMutability: "view",
	},
	{
		Name: "MINTER_ROLE", Type: "function",
		Outputs:         []ABIParam{{Type: "bytes32"}},
		StateMutability: "view",
	},
	{
		Name: "PAUSER_ROLE", Type: "function",
		Outputs:         []ABIParam{{Type: "bytes32"}},
		StateMutability: "view",
	},
	{
		Name: "DEFAULT_ADMIN_ROLE", Type: "function",
		Outputs:         []ABIParam{{Type: "bytes32"}},
		StateMutability: "view",
	},
}...)
