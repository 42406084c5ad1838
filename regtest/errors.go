package regtest

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
)

// RpcError wraps a failed call against the local bitcoind.
type RpcError struct {
	Method string
	Err    error
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("bitcoind rpc %s: %v", e.Method, e.Err)
}

func (e *RpcError) Unwrap() error {
	return e.Err
}

// BackendApiError is returned when the hosted regtest api answers with a
// non-2xx status.
type BackendApiError struct {
	Path   string
	Status int
	Body   string
}

func (e *BackendApiError) Error() string {
	return fmt.Sprintf("blocktank %s returned HTTP %d: %s", e.Path, e.Status, e.Body)
}

// UnsupportedOperationError signals an operation that the active backend
// cannot perform.
type UnsupportedOperationError struct {
	Operation string
	Backend   config.Backend
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported by the %s backend", e.Operation, e.Backend)
}

// FundsExhaustedError is returned by EnsureFunds when the mining ceiling is
// reached before the wallet balance covers the requested minimum.
type FundsExhaustedError struct {
	Minimum btcutil.Amount
	Balance btcutil.Amount
	Rounds  int
}

func (e *FundsExhaustedError) Error() string {
	return fmt.Sprintf("balance %v still below %v after %d mining rounds", e.Balance, e.Minimum, e.Rounds)
}
