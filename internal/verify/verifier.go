// Package verify submits deployed contract sources to an Etherscan-style
// explorer API and polls until each submission settles.
package verify

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mohsinsiddi/tokenforge/internal/compiler"
	"github.com/Mohsinsiddi/tokenforge/internal/contract"
	"github.com/Mohsinsiddi/tokenforge/internal/deploy"
	"github.com/Mohsinsiddi/tokenforge/internal/units"
)

// Verifier talks to one explorer API endpoint.
type Verifier struct {
	apiURL string
	apiKey string
	client *http.Client

	// Poll tuning, overridable in tests.
	initialDelay     time.Duration
	pollInterval     time.Duration
	interRecordDelay time.Duration
	maxAttempts      int
}

// NewVerifier creates a verifier for an Etherscan-compatible API.
func NewVerifier(apiURL, apiKey string) *Verifier {
	return &Verifier{
		apiURL:           apiURL,
		apiKey:           apiKey,
		client:           &http.Client{Timeout: 30 * time.Second},
		initialDelay:     5 * time.Second,
		pollInterval:     5 * time.Second,
		interRecordDelay: time.Second,
		maxAttempts:      20,
	}
}

// Summary is the outcome of verifying a whole report.
type Summary struct {
	Verified []string // symbols that verified (or already were)
	Failed   []string // symbols that did not
}

// Progress receives human-readable status lines during VerifyAll.
type Progress func(msg string)

// VerifyAll submits every token in the report and polls each submission to
// completion. One token failing never stops the rest; the summary says which
// did and did not verify.
func (v *Verifier) VerifyAll(report *deploy.Report, artifact *compiler.Artifact, progress Progress) (*Summary, error) {
	if artifact.StandardJSON == "" {
		return nil, fmt.Errorf("artifact carries no compiler input; recompile before verifying")
	}

	note := func(format string, args ...interface{}) {
		if progress != nil {
			progress(fmt.Sprintf(format, args...))
		}
	}

	summary := &Summary{}
	for i, tok := range report.Tokens {
		// Space out submissions so the explorer's rate limit holds.
		if i > 0 {
			time.Sleep(v.interRecordDelay)
		}
		note("verifying %s at %s", tok.Symbol, tok.Address)

		err := v.verifyOne(&tok, artifact)
		if err != nil {
			note("    %s: %v", tok.Symbol, err)
			summary.Failed = append(summary.Failed, tok.Symbol)
			continue
		}
		note("    %s verified", tok.Symbol)
		summary.Verified = append(summary.Verified, tok.Symbol)
	}
	return summary, nil
}

func (v *Verifier) verifyOne(tok *deploy.Record, artifact *compiler.Artifact) error {
	args, err := constructorArgs(tok)
	if err != nil {
		return err
	}

	guid, err := v.submit(tok.Address, args, artifact)
	if err != nil {
		if alreadyVerified(err) {
			return nil
		}
		return err
	}

	return v.poll(guid)
}

// constructorArgs rebuilds the ABI-encoded constructor arguments the token
// was deployed with, hex encoded without the 0x prefix as the API expects.
func constructorArgs(tok *deploy.Record) (string, error) {
	supply, err := units.Parse(tok.InitialSupply, tok.Decimals)
	if err != nil {
		return "", fmt.Errorf("initial supply: %w", err)
	}
	encoded := contract.EncodeConstructorArgs(contract.ConstructorParams{
		Name:     tok.Name,
		Symbol:   tok.Symbol,
		Decimals: tok.Decimals,
		Supply:   supply,
		Mintable: tok.Mintable,
		Burnable: tok.Burnable,
		Pausable: tok.Pausable,
	})
	return hex.EncodeToString(encoded), nil
}

// submit sends the source and returns the explorer's polling GUID.
func (v *Verifier) submit(address, constructorArgs string, artifact *compiler.Artifact) (string, error) {
	form := url.Values{
		"apikey":                {v.apiKey},
		"module":                {"contract"},
		"action":                {"verifysourcecode"},
		"codeformat":            {"solidity-standard-json-input"},
		"sourceCode":            {artifact.StandardJSON},
		"contractaddress":       {address},
		"contractname":          {artifact.SourceUnit + ":" + artifact.ContractName},
		"compilerversion":       {artifact.CompilerVersion},
		"constructorArguements": {constructorArgs}, // the API's own spelling
	}

	result, err := v.post(form)
	if err != nil {
		return "", err
	}
	return result, nil
}

// poll checks the submission until it settles or attempts run out.
func (v *Verifier) poll(guid string) error {
	time.Sleep(v.initialDelay)

	for attempt := 0; attempt < v.maxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(v.pollInterval)
		}

		result, err := v.post(url.Values{
			"apikey": {v.apiKey},
			"module": {"contract"},
			"action": {"checkverifystatus"},
			"guid":   {guid},
		})
		if err != nil {
			if strings.Contains(err.Error(), "Pending in queue") {
				continue
			}
			return err
		}
		if strings.Contains(result, "Pass") {
			return nil
		}
		if strings.Contains(result, "Pending") {
			continue
		}
		return fmt.Errorf("verification failed: %s", result)
	}

	return fmt.Errorf("verification still pending after %d checks", v.maxAttempts)
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// post sends one form request. Status "0" responses become errors carrying
// the API's result text.
func (v *Verifier) post(form url.Values) (string, error) {
	resp, err := v.client.PostForm(v.apiURL, form)
	if err != nil {
		return "", fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading explorer response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing explorer response: %s", strings.TrimSpace(string(body)))
	}
	if parsed.Status != "1" {
		return "", fmt.Errorf("explorer: %s", parsed.Result)
	}
	return parsed.Result, nil
}

func alreadyVerified(err error) bool {
	return strings.Contains(err.Error(), "already verified")
}
