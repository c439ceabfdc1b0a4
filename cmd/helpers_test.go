package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/deploy"
)

// rpcServer answers JSON-RPC methods with canned results; a method not in
// the map gets an RPC error response.
func rpcServer(t *testing.T, results map[string]string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req struct {
			ID     int    `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.Unmarshal(body, &req))

		result, ok := results[req.Method]
		if !ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":"%s"}`, req.ID, result)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestFeatureFlags(t *testing.T) {
	assert.Equal(t, "-", featureFlags(config.TokenDefinition{}))
	assert.Equal(t, "M", featureFlags(config.TokenDefinition{Mintable: true}))
	assert.Equal(t, "MBP", featureFlags(config.TokenDefinition{Mintable: true, Burnable: true, Pausable: true}))
	assert.Equal(t, "BP", featureFlags(config.TokenDefinition{Burnable: true, Pausable: true}))
}

func TestFailurePolicy(t *testing.T) {
	assert.Equal(t, "stop batch", failurePolicy(&config.Plan{}))
	assert.Equal(t, "skip token, continue", failurePolicy(&config.Plan{ContinueOnError: true}))
}

func TestResolveTokenFromAddressBook(t *testing.T) {
	dir := t.TempDir()
	book := map[string]deploy.AddressEntry{
		"FRG": {Address: "0x1111111111111111111111111111111111111111", Name: "Forge", Decimals: 6},
	}
	data, err := json.Marshal(book)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "latest-addresses.json"), data, 0o644))

	prev := outDir
	outDir = dir
	defer func() { outDir = prev }()

	tok, err := resolveToken(&config.Env{RPCURL: "http://127.0.0.1:1"}, "FRG")
	require.NoError(t, err)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", tok.Address)
	assert.Equal(t, uint8(6), tok.Decimals)
}

func TestResolveTokenUnknownSymbol(t *testing.T) {
	prev := outDir
	outDir = t.TempDir()
	defer func() { outDir = prev }()

	_, err := resolveToken(&config.Env{RPCURL: "http://127.0.0.1:1"}, "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, deploy.ErrNotFound)
	assert.Contains(t, err.Error(), `unknown token "NOPE"`)
}

func TestResolveTokenAddressWithoutCode(t *testing.T) {
	url := rpcServer(t, map[string]string{"eth_getCode": "0x"})

	_, err := resolveToken(&config.Env{RPCURL: url}, "0x1111111111111111111111111111111111111111")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no contract code")
}

func TestResolveTokenAddressWithCode(t *testing.T) {
	// decimals/symbol reads are best-effort; an endpoint without eth_call
	// still resolves the address with defaults.
	url := rpcServer(t, map[string]string{"eth_getCode": "0x6001600101"})

	tok, err := resolveToken(&config.Env{RPCURL: url}, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", tok.Address)
	assert.Equal(t, uint8(18), tok.Decimals)
}

func TestTokenABIPrefersDeployCache(t *testing.T) {
	dir := t.TempDir()
	cached := `[{"name":"transfer","type":"function","stateMutability":"nonpayable",
		"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],
		"outputs":[{"type":"bool"}]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ForgeToken.abi.json"), []byte(cached), 0o644))

	prev := outDir
	outDir = dir
	defer func() { outDir = prev }()

	abi := tokenABI()
	require.Len(t, abi, 1)
	assert.Equal(t, "transfer", abi[0].Name)
}

func TestTokenABIFallsBackToBuiltin(t *testing.T) {
	prev := outDir
	outDir = t.TempDir()
	defer func() { outDir = prev }()

	abi := tokenABI()
	require.NotEmpty(t, abi)

	names := make(map[string]bool, len(abi))
	for _, e := range abi {
		names[e.Name] = true
	}
	assert.True(t, names["mint"])
	assert.True(t, names["grantRole"])
}
