package deploy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Mohsinsiddi/tokenforge/internal/compiler"
)

// Record is one deployed token in a report.
type Record struct {
	Name          string           `json:"name"`
	Symbol        string           `json:"symbol"`
	Decimals      uint8            `json:"decimals"`
	InitialSupply string           `json:"initialSupply"`
	Mintable      bool             `json:"mintable"`
	Burnable      bool             `json:"burnable"`
	Pausable      bool             `json:"pausable"`
	Address       string           `json:"address"`
	TxHash        string           `json:"txHash"`
	BlockNumber   uint64           `json:"blockNumber"`
	GasUsed       string           `json:"gasUsed"`
	Transfers     []TransferRecord `json:"transfers,omitempty"`
}

// TransferRecord is one confirmed initial-holder transfer.
type TransferRecord struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
	TxHash string `json:"txHash"`
}

// Report is the durable outcome of one batch run.
type Report struct {
	Timestamp string    `json:"timestamp"` // RFC3339
	Network   string    `json:"network"`
	ChainID   int64     `json:"chainId"`
	Deployer  string    `json:"deployer"`
	Tokens    []Record  `json:"tokens"`
	Failures  []Failure `json:"failures,omitempty"`
}

// AddressEntry is one token in the latest-addresses map.
type AddressEntry struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

const addressBookFile = "latest-addresses.json"

// ErrNotFound marks a symbol lookup that missed the address book.
var ErrNotFound = errors.New("token not found")

// NewReport stamps a result into a report.
func NewReport(network string, chainID int64, deployer string, result *Result) *Report {
	return &Report{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Network:   network,
		ChainID:   chainID,
		Deployer:  deployer,
		Tokens:    result.Tokens,
		Failures:  result.Failures,
	}
}

// WriteReport persists a report to dir and returns the paths of the report
// and the latest-addresses map. Three files come out of a run: the
// timestamped report itself, the address map, and the contract's ABI for
// later interaction. A run that deployed nothing leaves the previous
// address map in place and returns an empty map path.
func WriteReport(dir string, report *Report, artifact *compiler.Artifact) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating output dir: %w", err)
	}

	stamp, err := time.Parse(time.RFC3339, report.Timestamp)
	if err != nil {
		stamp = time.Now().UTC()
	}
	path := filepath.Join(dir, fmt.Sprintf("deployment-%s-%s.json",
		report.Network, stamp.Format("20060102-150405")))

	if err := writeJSON(path, report); err != nil {
		return "", "", err
	}

	bookPath := ""
	if len(report.Tokens) > 0 {
		bookPath = filepath.Join(dir, addressBookFile)
		if err := writeAddressBook(bookPath, report.Tokens); err != nil {
			return "", "", err
		}
	}

	if artifact != nil && len(artifact.ABI) > 0 {
		abiPath := filepath.Join(dir, artifact.ContractName+".abi.json")
		if err := os.WriteFile(abiPath, artifact.ABI, 0o644); err != nil {
			return "", "", fmt.Errorf("writing ABI cache: %w", err)
		}
	}

	return path, bookPath, nil
}

// writeAddressBook replaces latest-addresses.json with this run's tokens.
// Entries from earlier runs do not survive; within one run a duplicate
// symbol resolves to the later deployment.
func writeAddressBook(path string, tokens []Record) error {
	book := make(map[string]AddressEntry, len(tokens))
	for _, t := range tokens {
		book[t.Symbol] = AddressEntry{
			Address:  t.Address,
			Name:     t.Name,
			Decimals: t.Decimals,
		}
	}
	return writeJSON(path, book)
}

// LoadAddressBook reads latest-addresses.json from dir. A missing file is
// not an error; it returns an empty map.
func LoadAddressBook(dir string) (map[string]AddressEntry, error) {
	data, err := os.ReadFile(filepath.Join(dir, addressBookFile))
	if os.IsNotExist(err) {
		return map[string]AddressEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading address book: %w", err)
	}

	var book map[string]AddressEntry
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parsing address book: %w", err)
	}
	return book, nil
}

// LoadLatestReport finds the most recent deployment report in dir, if any.
func LoadLatestReport(dir string) (*Report, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "deployment-*.json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no deployment reports in %s", dir)
	}

	// The timestamp in the filename sorts lexicographically.
	sort.Strings(matches)
	latest := matches[len(matches)-1]

	data, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", latest, err)
	}
	return &report, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
