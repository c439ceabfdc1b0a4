// Package compiler turns Solidity source into deployable bytecode + ABI by
// shelling out to solc. The compiler itself is an external collaborator; this
// package only assembles its standard-JSON input and interprets the output.
package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrCompile marks fatal compilation failures (error-severity diagnostics,
// missing compiler binary, unusable output).
var ErrCompile = errors.New("compilation failed")

// Diagnostic is one compiler message. Only severity "error" is fatal;
// warnings are reported and ignored.
type Diagnostic struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Artifact is the compiled contract plus everything the verifier needs to
// reproduce the build.
type Artifact struct {
	ContractName    string          `json:"contractName"`
	SourceUnit      string          `json:"sourceUnit"` // entry file name, e.g. "ForgeToken.sol"
	ABI             json.RawMessage `json:"abi"`
	Bytecode        string          `json:"bytecode"` // 0x-prefixed creation bytecode
	CompilerVersion string          `json:"compilerVersion"`
	StandardJSON    string          `json:"standardJson"` // exact compiler input, resubmitted verbatim for verification
}

// Builder compiles a Solidity source file.
type Builder interface {
	Compile(sourcePath string) (*Artifact, []Diagnostic, error)
}

// SolcBuilder invokes the solc binary in --standard-json mode.
type SolcBuilder struct {
	SolcPath   string // binary name or path, default "solc"
	IncludeDir string // second root for non-relative imports (e.g. node_modules)
	Runs       int    // optimizer runs, default 200
}

// NewSolcBuilder creates a builder with the default solc binary.
func NewSolcBuilder(includeDir string) *SolcBuilder {
	return &SolcBuilder{SolcPath: "solc", IncludeDir: includeDir, Runs: 200}
}

// Compile reads sourcePath, inlines its import graph, runs solc, and returns
// the artifact for the contract defined in the entry file. Error-severity
// diagnostics abort with ErrCompile; the full diagnostic list is returned
// either way.
func (b *SolcBuilder) Compile(sourcePath string) (*Artifact, []Diagnostic, error) {
	solc := b.SolcPath
	if solc == "" {
		solc = "solc"
	}
	if _, err := exec.LookPath(solc); err != nil {
		return nil, nil, fmt.Errorf("%w: solc not found in PATH", ErrCompile)
	}

	sources, err := resolveSources(sourcePath, b.IncludeDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}

	input, err := buildStandardInput(sources, b.Runs)
	if err != nil {
		return nil, nil, err
	}

	cmd := exec.Command(solc, "--standard-json")
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, nil, fmt.Errorf("%w: running solc: %v (%s)", ErrCompile, err, strings.TrimSpace(stderr.String()))
	}

	entryUnit := filepath.Base(sourcePath)
	artifact, diags, err := parseSolcOutput(stdout.Bytes(), entryUnit)
	if err != nil {
		return nil, diags, err
	}

	artifact.SourceUnit = entryUnit
	artifact.CompilerVersion = b.version(solc)
	artifact.StandardJSON = string(input)
	return artifact, diags, nil
}

// version asks solc for its version string, e.g. "v0.8.24+commit.e11b9ed9".
func (b *SolcBuilder) version(solc string) string {
	out, err := exec.Command(solc, "--version").Output()
	if err != nil {
		return ""
	}
	m := regexp.MustCompile(`Version:\s*(\S+)`).FindSubmatch(out)
	if m == nil {
		return ""
	}
	v := string(m[1])
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// --- import resolution ---

var importRe = regexp.MustCompile(`(?m)^\s*import\s+(?:[^"']*\s+from\s+)?["']([^"']+)["']\s*;`)

// resolveSources walks the import graph starting at entryPath and returns
// unit name → source text. Relative imports resolve against the importing
// file's directory; bare imports (e.g. "@openzeppelin/...") resolve against
// includeDir. Unit names are kept as written in the import statements so the
// inlined sources match what the source text references.
func resolveSources(entryPath, includeDir string) (map[string]string, error) {
	entry, err := os.ReadFile(entryPath)
	if err != nil {
		return nil, fmt.Errorf("reading contract source: %w", err)
	}

	sources := map[string]string{
		filepath.Base(entryPath): string(entry),
	}

	type pending struct {
		unit string // import path as written
		dir  string // directory of the importing file
	}
	queue := make([]pending, 0)
	for _, m := range importRe.FindAllStringSubmatch(string(entry), -1) {
		queue = append(queue, pending{unit: m[1], dir: filepath.Dir(entryPath)})
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if _, done := sources[p.unit]; done {
			continue
		}

		var path string
		if strings.HasPrefix(p.unit, ".") {
			path = filepath.Join(p.dir, p.unit)
		} else if includeDir != "" {
			path = filepath.Join(includeDir, p.unit)
		} else {
			return nil, fmt.Errorf("cannot resolve import %q: no include directory configured", p.unit)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("resolving import %q: %w", p.unit, err)
		}
		sources[p.unit] = string(content)

		for _, m := range importRe.FindAllStringSubmatch(string(content), -1) {
			queue = append(queue, pending{unit: m[1], dir: filepath.Dir(path)})
		}
	}

	return sources, nil
}

// --- standard JSON ---

func buildStandardInput(sources map[string]string, runs int) ([]byte, error) {
	if runs <= 0 {
		runs = 200
	}
	srcObj := make(map[string]map[string]string, len(sources))
	for unit, content := range sources {
		srcObj[unit] = map[string]string{"content": content}
	}
	return json.Marshal(map[string]interface{}{
		"language": "Solidity",
		"sources":  srcObj,
		"settings": map[string]interface{}{
			"optimizer": map[string]interface{}{"enabled": true, "runs": runs},
			"outputSelection": map[string]interface{}{
				"*": map[string][]string{"*": {"abi", "evm.bytecode.object"}},
			},
		},
	})
}

type solcOutput struct {
	Errors    []Diagnostic `json:"errors"`
	Contracts map[string]map[string]struct {
		ABI json.RawMessage `json:"abi"`
		EVM struct {
			Bytecode struct {
				Object string `json:"object"`
			} `json:"bytecode"`
		} `json:"evm"`
	} `json:"contracts"`
}

// parseSolcOutput extracts the artifact for the contract defined in entryUnit.
// Returns all diagnostics; any error-severity diagnostic is fatal.
func parseSolcOutput(out []byte, entryUnit string) (*Artifact, []Diagnostic, error) {
	var parsed solcOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, nil, fmt.Errorf("%w: parsing solc output: %v", ErrCompile, err)
	}

	for _, d := range parsed.Errors {
		if d.Severity == "error" {
			return nil, parsed.Errors, fmt.Errorf("%w: %s", ErrCompile, d.Message)
		}
	}

	unit, ok := parsed.Contracts[entryUnit]
	if !ok || len(unit) == 0 {
		return nil, parsed.Errors, fmt.Errorf("%w: no contract produced for %s", ErrCompile, entryUnit)
	}

	// The entry file defines exactly one deployable contract; if several are
	// present, prefer the one named after the file.
	want := strings.TrimSuffix(entryUnit, filepath.Ext(entryUnit))
	var name string
	for n := range unit {
		if n == want {
			name = n
			break
		}
		if name == "" || n < name {
			name = n
		}
	}

	c := unit[name]
	if c.EVM.Bytecode.Object == "" {
		return nil, parsed.Errors, fmt.Errorf("%w: contract %s has no bytecode (interface or abstract?)", ErrCompile, name)
	}

	bytecode := c.EVM.Bytecode.Object
	if !strings.HasPrefix(bytecode, "0x") {
		bytecode = "0x" + bytecode
	}

	return &Artifact{
		ContractName: name,
		ABI:          c.ABI,
		Bytecode:     bytecode,
	}, parsed.Errors, nil
}
