package deploy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohsinsiddi/tokenforge/internal/compiler"
)

func sampleReport(ts time.Time) *Report {
	return &Report{
		Timestamp: ts.UTC().Format(time.RFC3339),
		Network:   "sepolia",
		ChainID:   11155111,
		Deployer:  "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		Tokens: []Record{
			{
				Name: "Alpha", Symbol: "ALP", Decimals: 18,
				InitialSupply: "1000",
				Address:       "0x1111111111111111111111111111111111111111",
				TxHash:        "0xaaaa",
				GasUsed:       "1200000",
				Transfers: []TransferRecord{
					{To: "0x2222222222222222222222222222222222222222", Amount: "10", TxHash: "0xbbbb"},
				},
			},
		},
	}
}

func TestWriteReportCreatesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	path, bookPath, err := WriteReport(dir, sampleReport(ts), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "deployment-sepolia-20260314-092653.json"), path)
	assert.Equal(t, filepath.Join(dir, addressBookFile), bookPath)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "sepolia", got.Network)
	require.Len(t, got.Tokens, 1)
	assert.Equal(t, "1200000", got.Tokens[0].GasUsed)
	require.Len(t, got.Tokens[0].Transfers, 1)
}

func TestWriteReportWritesABICache(t *testing.T) {
	dir := t.TempDir()
	artifact := &compiler.Artifact{
		ContractName: "ForgeToken",
		ABI:          json.RawMessage(`[{"type":"constructor","inputs":[]}]`),
	}

	_, _, err := WriteReport(dir, sampleReport(time.Now()), artifact)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "ForgeToken.abi.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(artifact.ABI), string(data))
}

func TestAddressBookReplacedEachRun(t *testing.T) {
	dir := t.TempDir()

	// First run deploys ALP.
	first := sampleReport(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	_, _, err := WriteReport(dir, first, nil)
	require.NoError(t, err)

	// Second run deploys only BET; ALP must not carry over.
	second := sampleReport(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	second.Tokens = []Record{
		{Name: "Beta", Symbol: "BET", Decimals: 6, Address: "0x4444444444444444444444444444444444444444"},
	}
	_, _, err = WriteReport(dir, second, nil)
	require.NoError(t, err)

	book, err := LoadAddressBook(dir)
	require.NoError(t, err)
	require.Len(t, book, 1)
	assert.NotContains(t, book, "ALP")
	assert.Equal(t, "0x4444444444444444444444444444444444444444", book["BET"].Address)
	assert.Equal(t, uint8(6), book["BET"].Decimals)
}

func TestAddressBookDuplicateSymbolLastWriteWins(t *testing.T) {
	dir := t.TempDir()

	r := sampleReport(time.Now())
	r.Tokens = []Record{
		{Name: "Alpha", Symbol: "ALP", Decimals: 18, Address: "0x1111111111111111111111111111111111111111"},
		{Name: "Alpha v2", Symbol: "ALP", Decimals: 18, Address: "0x3333333333333333333333333333333333333333"},
	}
	_, _, err := WriteReport(dir, r, nil)
	require.NoError(t, err)

	book, err := LoadAddressBook(dir)
	require.NoError(t, err)
	require.Len(t, book, 1)
	assert.Equal(t, "0x3333333333333333333333333333333333333333", book["ALP"].Address)
	assert.Equal(t, "Alpha v2", book["ALP"].Name)
}

func TestEmptyRunPreservesAddressBook(t *testing.T) {
	dir := t.TempDir()

	_, _, err := WriteReport(dir, sampleReport(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)), nil)
	require.NoError(t, err)

	// A run where every token failed writes a report but leaves the book.
	failed := sampleReport(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	failed.Tokens = nil
	failed.Failures = []Failure{{Symbol: "BAD", Stage: "deploy", Err: "boom"}}
	_, bookPath, err := WriteReport(dir, failed, nil)
	require.NoError(t, err)
	assert.Empty(t, bookPath)

	book, err := LoadAddressBook(dir)
	require.NoError(t, err)
	require.Len(t, book, 1)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", book["ALP"].Address)
}

func TestLoadAddressBookMissingFile(t *testing.T) {
	book, err := LoadAddressBook(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, book)
}

func TestLoadAddressBookCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, addressBookFile), []byte("{oops"), 0o644))
	_, err := LoadAddressBook(dir)
	require.Error(t, err)
}

func TestLoadLatestReportPicksNewest(t *testing.T) {
	dir := t.TempDir()
	for _, ts := range []time.Time{
		time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		r := sampleReport(ts)
		r.Deployer = ts.Format("2006-01-02")
		_, _, err := WriteReport(dir, r, nil)
		require.NoError(t, err)
	}

	latest, err := LoadLatestReport(dir)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03", latest.Deployer)
}

func TestLoadLatestReportEmptyDir(t *testing.T) {
	_, err := LoadLatestReport(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no deployment reports")
}

func TestReportRoundTrip(t *testing.T) {
	r := sampleReport(time.Now())
	r.Failures = []Failure{{Symbol: "BAD", Stage: "deploy", Err: "insufficient funds"}}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *r, got)
}
