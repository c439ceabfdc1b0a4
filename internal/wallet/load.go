package wallet

import (
	"fmt"
	"os"
	"strings"
)

const (
	// EnvPrivateKey holds the deployer private key in hex. Takes precedence
	// over the OS keychain.
	EnvPrivateKey = "TOKENFORGE_PRIVATE_KEY"

	// EnvDeployer optionally pins the expected deployer address. A mismatch
	// with the loaded key is fatal so a stale key cannot deploy silently.
	EnvDeployer = "TOKENFORGE_DEPLOYER"
)

// LoadDeployer builds the deployer signer from TOKENFORGE_PRIVATE_KEY, or
// from the OS keychain entry when the variable is unset. When
// TOKENFORGE_DEPLOYER is set, the derived address must match it.
func LoadDeployer() (*Signer, error) {
	return loadDeployer(os.Getenv(EnvPrivateKey), os.Getenv(EnvDeployer), DefaultKeystore())
}

type keyRetriever interface {
	Retrieve(ref string) (string, error)
}

func loadDeployer(hexKey, expected string, ks keyRetriever) (*Signer, error) {
	if hexKey == "" {
		var err error
		hexKey, err = ks.Retrieve(DeployerKeyRef)
		if err != nil {
			return nil, fmt.Errorf("no deployer key: set %s or store one under keychain entry %q: %w",
				EnvPrivateKey, DeployerKeyRef, err)
		}
	}

	signer, err := NewSigner(hexKey)
	if err != nil {
		return nil, err
	}

	if expected != "" && !strings.EqualFold(expected, signer.Address()) {
		return nil, fmt.Errorf("deployer key resolves to %s but %s expects %s",
			signer.Address(), EnvDeployer, expected)
	}

	return signer, nil
}
