package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// --- call encoding (simplified, for the types the token ABI uses) ---

// EncodeCall builds calldata for fn: 4-byte selector + encoded args.
func EncodeCall(fn *ABIEntry, args []string) (string, error) {
	selector := FunctionSelector(fn)

	var encoded strings.Builder
	encoded.WriteString(selector)

	for i, param := range fn.Inputs {
		var argStr string
		if i < len(args) {
			argStr = args[i]
		}
		enc, err := encodeParam(param.Type, argStr)
		if err != nil {
			return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
		}
		encoded.WriteString(enc)
	}

	return encoded.String(), nil
}

// FunctionSelector computes the 4-byte selector for a function.
func FunctionSelector(fn *ABIEntry) string {
	sig := fn.Name + "("
	types := make([]string, len(fn.Inputs))
	for i, p := range fn.Inputs {
		types[i] = p.Type
	}
	sig += strings.Join(types, ",") + ")"
	return "0x" + hex.EncodeToString(keccak256([]byte(sig))[:4])
}

// encodeParam encodes a single static ABI parameter as a 32-byte hex word.
func encodeParam(typ, val string) (string, error) {
	val = strings.TrimPrefix(val, "0x")

	switch {
	case typ == "address":
		if len(val) != 40 {
			return "", fmt.Errorf("invalid address: %s", val)
		}
		return fmt.Sprintf("%064s", strings.ToLower(val)), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		n := new(big.Int)
		if _, ok := n.SetString(val, 10); !ok {
			return "", fmt.Errorf("invalid integer: %s", val)
		}
		return fmt.Sprintf("%064x", n), nil

	case typ == "bool":
		if val == "true" || val == "1" {
			return fmt.Sprintf("%064d", 1), nil
		}
		return fmt.Sprintf("%064d", 0), nil

	case typ == "bytes32":
		if len(val) != 64 {
			return "", fmt.Errorf("bytes32 value must be 32 bytes, got %d hex chars", len(val))
		}
		return strings.ToLower(val), nil

	default:
		return "", fmt.Errorf("unsupported parameter type %q", typ)
	}
}

// DecodeResult decodes raw hex return data into string values, one per output.
func DecodeResult(fn *ABIEntry, hexData string) ([]string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}

	if len(fn.Outputs) == 0 {
		return nil, nil
	}

	var results []string
	offset := 0

	for _, out := range fn.Outputs {
		if offset+32 > len(data) {
			results = append(results, "")
			continue
		}

		word := data[offset : offset+32]
		offset += 32

		val, err := decodeWord(out.Type, word, data)
		if err != nil {
			results = append(results, "")
			continue
		}
		results = append(results, val)
	}

	return results, nil
}

func decodeWord(typ string, word []byte, fullData []byte) (string, error) {
	switch {
	case typ == "address":
		return "0x" + hex.EncodeToString(word[12:]), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		return new(big.Int).SetBytes(word).String(), nil

	case typ == "bool":
		if word[31] == 1 {
			return "true", nil
		}
		return "false", nil

	case typ == "string":
		// Offset + length encoding.
		offsetVal := new(big.Int).SetBytes(word).Uint64()
		if int(offsetVal)+32 > len(fullData) {
			return "", nil
		}
		length := new(big.Int).SetBytes(fullData[offsetVal : offsetVal+32]).Uint64()
		start := offsetVal + 32
		if start+length > uint64(len(fullData)) {
			return "", nil
		}
		return string(fullData[start : start+length]), nil

	default:
		return "0x" + hex.EncodeToString(word), nil
	}
}

// --- constructor encoding ---

// ConstructorParams is the full argument tuple of the token constructor.
// Encoding order must match the contract's declared parameter order exactly;
// the explorer recomputes this encoding during verification.
type ConstructorParams struct {
	Name     string
	Symbol   string
	Decimals uint8
	Supply   *big.Int
	Mintable bool
	Burnable bool
	Pausable bool
}

// EncodeConstructorArgs ABI-encodes the constructor tuple
// (string,string,uint8,uint256,bool,bool,bool) using the standard
// head/tail layout for the two dynamic strings.
func EncodeConstructorArgs(p ConstructorParams) []byte {
	// Head: 7 words. The two string slots hold tail offsets.
	const headWords = 7

	nameBytes := []byte(p.Name)
	symbolBytes := []byte(p.Symbol)

	nameOffset := headWords * 32
	symbolOffset := nameOffset + 32 + roundUp32(len(nameBytes))

	var out []byte
	out = appendUint256(out, uint64(nameOffset))
	out = appendUint256(out, uint64(symbolOffset))
	out = appendUint256(out, uint64(p.Decimals))
	out = appendBigInt(out, p.Supply)
	out = appendBool(out, p.Mintable)
	out = appendBool(out, p.Burnable)
	out = appendBool(out, p.Pausable)
	out = appendString(out, nameBytes)
	out = appendString(out, symbolBytes)
	return out
}

// BuildDeployData concatenates deployment bytecode and encoded constructor
// arguments into contract-creation calldata.
func BuildDeployData(bytecode []byte, p ConstructorParams) []byte {
	args := EncodeConstructorArgs(p)
	data := make([]byte, 0, len(bytecode)+len(args))
	data = append(data, bytecode...)
	return append(data, args...)
}

// roundUp32 rounds n up to the next multiple of 32.
func roundUp32(n int) int {
	return (n + 31) / 32 * 32
}

// appendUint256 appends a uint64 as a left-padded 32-byte word.
func appendUint256(buf []byte, v uint64) []byte {
	word := make([]byte, 32)
	for i := 0; i < 8; i++ {
		word[31-i] = byte(v >> (8 * i))
	}
	return append(buf, word...)
}

// appendBigInt appends a big.Int as a left-padded 32-byte word.
func appendBigInt(buf []byte, v *big.Int) []byte {
	word := make([]byte, 32)
	if v != nil {
		v.FillBytes(word)
	}
	return append(buf, word...)
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return appendUint256(buf, 1)
	}
	return appendUint256(buf, 0)
}

// appendString appends a dynamic string tail: length word + data padded to
// a 32-byte boundary.
func appendString(buf []byte, data []byte) []byte {
	buf = appendUint256(buf, uint64(len(data)))
	buf = append(buf, data...)
	if pad := roundUp32(len(data)) - len(data); pad > 0 {
		buf = append(buf, make([]byte, pad)...)
	}
	return buf
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
