// Package regtest hides which regtest infrastructure backs a test run. A run
// talks either to a local bitcoind or to the hosted Blocktank api, never both.
package regtest

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/log"
	"go.uber.org/zap"
)

// Chain is one regtest backend. Amounts are always sats, implementations
// convert to their wire format.
type Chain interface {
	Backend() config.Backend
	Deposit(ctx context.Context, address string, amount btcutil.Amount) (txid string, err error)
	MineBlocks(ctx context.Context, count int) error
	ExternalAddress(ctx context.Context) (string, error)
	PayInvoice(ctx context.Context, invoice string, amount btcutil.Amount) (paymentID string, err error)
	EnsureFunds(ctx context.Context, minimum btcutil.Amount) error
	Close() error
}

// Deposit is the outcome of a funding call.
type Deposit struct {
	Address string
	Amount  btcutil.Amount
	TxID    string
}

func (d *Deposit) String() string {
	return fmt.Sprintf("%v to %s (%s)", d.Amount, d.Address, d.TxID)
}

// Regtest dispatches every operation to the single Chain chosen at
// construction.
type Regtest struct {
	chain Chain
}

func New(chain Chain) *Regtest {
	return &Regtest{chain: chain}
}

// Open builds the backend selected by cfg.
func Open(cfg *config.Config, logger *zap.Logger) (*Regtest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.SelectedBackend() {
	case config.BackendLocal:
		local, err := NewLocal(cfg.BitcoinRpcUrl, WithMaxFundingRounds(cfg.MaxFundingRounds))
		if err != nil {
			return nil, err
		}
		return New(local), nil
	case config.BackendRegtest:
		remote := NewRemote(cfg.BlocktankUrl)
		if logger != nil {
			remote.WithLogger(logger)
		}
		return New(remote), nil
	}
	return nil, &config.ConfigurationError{Key: "BACKEND", Value: cfg.Backend, Reason: "no chain implementation"}
}

func (r *Regtest) Backend() config.Backend {
	return r.chain.Backend()
}

// Deposit funds address with amount sats. Zero selects the backend default.
func (r *Regtest) Deposit(ctx context.Context, address string, amount btcutil.Amount) (*Deposit, error) {
	txid, err := r.chain.Deposit(ctx, address, amount)
	if err != nil {
		return nil, fmt.Errorf("deposit %v to %s on %s backend: %w", amount, address, r.Backend(), err)
	}
	log.Infof("[regtest] deposit %v to %s: %s", amount, address, txid)
	return &Deposit{Address: address, Amount: amount, TxID: txid}, nil
}

// SendToAddress is Deposit with a whole-coin decimal string amount, e.g.
// "0.001".
func (r *Regtest) SendToAddress(ctx context.Context, address, btc string) (*Deposit, error) {
	amount, err := ParseBTC(btc)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("sendToAddress needs a positive amount, got %q", btc)
	}
	return r.Deposit(ctx, address, amount)
}

func (r *Regtest) MineBlocks(ctx context.Context, count int) error {
	if err := r.chain.MineBlocks(ctx, count); err != nil {
		return fmt.Errorf("mine %d blocks on %s backend: %w", count, r.Backend(), err)
	}
	return nil
}

func (r *Regtest) ExternalAddress(ctx context.Context) (string, error) {
	return r.chain.ExternalAddress(ctx)
}

func (r *Regtest) PayInvoice(ctx context.Context, invoice string, amount btcutil.Amount) (string, error) {
	id, err := r.chain.PayInvoice(ctx, invoice, amount)
	if err != nil {
		return "", fmt.Errorf("pay invoice %s on %s backend: %w", invoice, r.Backend(), err)
	}
	return id, nil
}

func (r *Regtest) EnsureFunds(ctx context.Context, minimum btcutil.Amount) error {
	return r.chain.EnsureFunds(ctx, minimum)
}

// BitcoinRPC returns the local node client. There is none under the remote
// backend.
func (r *Regtest) BitcoinRPC() (*Local, error) {
	local, ok := r.chain.(*Local)
	if !ok {
		return nil, &UnsupportedOperationError{Operation: "getBitcoinRpc", Backend: r.Backend()}
	}
	return local, nil
}

// BlockCount is the node height, only known under the local backend.
func (r *Regtest) BlockCount(ctx context.Context) (int64, error) {
	local, err := r.BitcoinRPC()
	if err != nil {
		return 0, err
	}
	return local.BlockCount(ctx)
}

func (r *Regtest) Close() error {
	return r.chain.Close()
}
