package config

import (
	"fmt"
	"os"
	"strings"
)

// Backend selects the regtest infrastructure a run talks to.
type Backend string

const (
	// BackendLocal is a local bitcoind + electrum server + lnd stack.
	BackendLocal Backend = "local"
	// BackendRegtest is the hosted Blocktank regtest API.
	BackendRegtest Backend = "regtest"
)

const backendEnv = "BACKEND"

func (b Backend) String() string {
	return string(b)
}

// IsRemote reports whether there is no local chain node to talk to.
func (b Backend) IsRemote() bool {
	return b == BackendRegtest
}

// ConfigurationError is returned for a missing or malformed setting.
type ConfigurationError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s=%q: %s", e.Key, e.Value, e.Reason)
}

func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.TrimSpace(s)) {
	case BackendLocal:
		return BackendLocal, nil
	case BackendRegtest:
		return BackendRegtest, nil
	}
	return "", &ConfigurationError{
		Key:    backendEnv,
		Value:  s,
		Reason: fmt.Sprintf("expected %q or %q", BackendLocal, BackendRegtest),
	}
}

// GetBackend resolves the backend from the environment. It reads the
// environment on every call, an unset value means local.
func GetBackend() (Backend, error) {
	v, ok := os.LookupEnv(backendEnv)
	if !ok {
		return DefaultBackend, nil
	}
	return ParseBackend(v)
}
