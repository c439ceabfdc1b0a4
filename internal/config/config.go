package config

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Mohsinsiddi/tokenforge/internal/units"
)

const maxDecimals = 18

// Load reads and validates a plan file. Validation is all-or-nothing: every
// problem in the file is reported at once and nothing deploys until the plan
// is clean.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}

	if errs := Validate(&plan); len(errs) > 0 {
		return nil, &ValidationError{Path: path, Problems: errs}
	}

	return &plan, nil
}

// ValidationError carries every problem found in a plan file.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid plan %s:\n  - %s", e.Path, strings.Join(e.Problems, "\n  - "))
}

// Validate checks a plan and returns one message per problem.
func Validate(plan *Plan) []string {
	var errs []string
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if plan.Network == "" {
		fail("network is required")
	}
	if len(plan.Tokens) == 0 {
		fail("plan defines no tokens")
	}

	for i, tok := range plan.Tokens {
		label := tok.Symbol
		if label == "" {
			label = fmt.Sprintf("tokens[%d]", i)
		}

		if tok.Name == "" {
			fail("%s: name is required", label)
		}
		if tok.Symbol == "" {
			fail("%s: symbol is required", label)
		}
		if tok.Decimals > maxDecimals {
			fail("%s: decimals %d exceeds maximum %d", label, tok.Decimals, maxDecimals)
		}

		supply, err := units.Parse(tok.InitialSupply, tok.Decimals)
		if err != nil {
			fail("%s: initialSupply %q: %v", label, tok.InitialSupply, err)
		}

		total := new(big.Int)
		for j, h := range tok.InitialHolders {
			if !validAddress(h.Address) {
				fail("%s: initialHolders[%d]: invalid address %q", label, j, h.Address)
			}
			amount, err := units.Parse(h.Amount, tok.Decimals)
			if err != nil {
				fail("%s: initialHolders[%d]: amount %q: %v", label, j, h.Amount, err)
				continue
			}
			if amount.Sign() == 0 {
				fail("%s: initialHolders[%d]: amount must be positive", label, j)
			}
			total.Add(total, amount)
		}

		// Holder amounts come out of the deployer's initial balance, so they
		// cannot exceed the minted supply.
		if supply != nil && total.Cmp(supply) > 0 {
			fail("%s: initial holder amounts exceed initial supply", label)
		}
	}

	return errs
}

// validAddress accepts well-formed hex addresses. Mixed-case addresses must
// also carry a correct EIP-55 checksum; all-lowercase and all-uppercase forms
// are accepted as unchecksummed.
func validAddress(a string) bool {
	if !common.IsHexAddress(a) {
		return false
	}
	body := strings.TrimPrefix(strings.TrimPrefix(a, "0x"), "0X")
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(a).Hex() == a
}
