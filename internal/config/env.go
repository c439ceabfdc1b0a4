package config

import (
	"fmt"
	"os"
)

// Environment variable names for runtime settings that never belong in a
// plan file.
const (
	EnvRPCURL         = "TOKENFORGE_RPC_URL"
	EnvExplorerAPIURL = "TOKENFORGE_EXPLORER_API_URL"
	EnvExplorerAPIKey = "TOKENFORGE_EXPLORER_API_KEY"
)

// Env holds process-environment settings.
type Env struct {
	RPCURL         string
	ExplorerAPIURL string
	ExplorerAPIKey string
}

// FromEnv reads runtime settings from the process environment. Only the RPC
// URL is mandatory; explorer settings are needed only for verification.
func FromEnv() (*Env, error) {
	e := &Env{
		RPCURL:         os.Getenv(EnvRPCURL),
		ExplorerAPIURL: os.Getenv(EnvExplorerAPIURL),
		ExplorerAPIKey: os.Getenv(EnvExplorerAPIKey),
	}
	if e.RPCURL == "" {
		return nil, fmt.Errorf("%s is not set", EnvRPCURL)
	}
	return e, nil
}

// RequireExplorer errors unless explorer API settings are present.
func (e *Env) RequireExplorer() error {
	if e.ExplorerAPIURL == "" {
		return fmt.Errorf("%s is not set", EnvExplorerAPIURL)
	}
	if e.ExplorerAPIKey == "" {
		return fmt.Errorf("%s is not set", EnvExplorerAPIKey)
	}
	return nil
}
