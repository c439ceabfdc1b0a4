// Package units converts between human-readable token amounts and raw
// fixed-point integer values. All arithmetic is big.Int; binary floating
// point would lose precision on 18-decimal amounts.
package units

import (
	"fmt"
	"math/big"
	"strings"
)

// Parse scales a non-negative decimal string by 10^decimals and returns the
// exact raw integer value. More fractional digits than the token carries is
// an error, never a silent rounding.
func Parse(s string, decimals uint8) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative amount %q", s)
	}

	intPart := s
	fracPart := ""
	if i := strings.Index(s, "."); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
		if strings.Contains(fracPart, ".") {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if len(fracPart) > int(decimals) {
		return nil, fmt.Errorf("amount %q has %d fractional digits, token has %d decimals", s, len(fracPart), decimals)
	}

	// value = intPart*10^decimals + fracPart padded right to decimals digits
	raw, _ := new(big.Int).SetString(intPart, 10)
	raw.Mul(raw, pow10(int(decimals)))

	if fracPart != "" {
		frac, _ := new(big.Int).SetString(fracPart, 10)
		frac.Mul(frac, pow10(int(decimals)-len(fracPart)))
		raw.Add(raw, frac)
	}
	return raw, nil
}

// Format renders a raw fixed-point value as a decimal string, trimming
// trailing fractional zeros. The inverse of Parse up to zero-trimming.
func Format(raw *big.Int, decimals uint8) string {
	if raw == nil {
		return "0"
	}
	if decimals == 0 {
		return raw.String()
	}

	neg := raw.Sign() < 0
	abs := new(big.Int).Abs(raw)

	quo, rem := new(big.Int).QuoRem(abs, pow10(int(decimals)), new(big.Int))
	out := quo.String()
	if neg {
		out = "-" + out
	}

	if rem.Sign() == 0 {
		return out
	}
	frac := fmt.Sprintf("%0*s", decimals, rem.String())
	frac = strings.TrimRight(frac, "0")
	return out + "." + frac
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
