package regtest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/log"
	"github.com/ybbus/jsonrpc"
)

// fundingBatch is the number of blocks mined per EnsureFunds round.
const fundingBatch = 10

// Local drives a bitcoind regtest node over json-rpc.
type Local struct {
	serviceURL *url.URL
	rpc        jsonrpc.RPCClient

	// maxFundingRounds bounds EnsureFunds, 0 means unbounded.
	maxFundingRounds int
}

var _ Chain = (*Local)(nil)

type LocalOption func(*Local)

// WithMaxFundingRounds sets the EnsureFunds ceiling. Zero disables it.
func WithMaxFundingRounds(n int) LocalOption {
	return func(l *Local) {
		l.maxFundingRounds = n
	}
}

// NewLocal creates a client for the bitcoind at rawURL. Credentials embedded
// in the url are moved into a basic auth header.
func NewLocal(rawURL string, opts ...LocalOption) (*Local, error) {
	serviceURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse() %w", err)
	}
	if serviceURL.Host == "" {
		return nil, fmt.Errorf("bitcoind url %q has no host", serviceURL.Redacted())
	}

	headers := map[string]string{}
	if serviceURL.User != nil {
		pass, _ := serviceURL.User.Password()
		auth := fmt.Sprintf("%s:%s", serviceURL.User.Username(), pass)
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(auth))
		serviceURL.User = nil
	}

	l := &Local{
		serviceURL: serviceURL,
		rpc: jsonrpc.NewClientWithOpts(serviceURL.String(), &jsonrpc.RPCClientOpts{
			CustomHeaders: headers,
		}),
		maxFundingRounds: config.DefaultMaxFundingRounds,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Local) Backend() config.Backend {
	return config.BackendLocal
}

// Call issues a raw json-rpc call. It is the escape hatch for tests that need
// an rpc this type does not wrap.
func (l *Local) Call(ctx context.Context, method string, params ...interface{}) (*jsonrpc.RPCResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RpcError{Method: method, Err: err}
	}
	resp, err := l.rpc.Call(method, params...)
	if err != nil {
		return nil, &RpcError{Method: method, Err: err}
	}
	if resp == nil {
		return nil, &RpcError{Method: method, Err: fmt.Errorf("empty response")}
	}
	if resp.Error != nil {
		return nil, &RpcError{Method: method, Err: resp.Error}
	}
	return resp, nil
}

func (l *Local) BlockCount(ctx context.Context) (int64, error) {
	resp, err := l.Call(ctx, "getblockcount")
	if err != nil {
		return 0, err
	}
	height, err := resp.GetInt()
	if err != nil {
		return 0, &RpcError{Method: "getblockcount", Err: err}
	}
	return height, nil
}

func (l *Local) Balance(ctx context.Context) (btcutil.Amount, error) {
	resp, err := l.Call(ctx, "getbalance")
	if err != nil {
		return 0, err
	}
	btc, err := resp.GetFloat()
	if err != nil {
		return 0, &RpcError{Method: "getbalance", Err: err}
	}
	amt, err := btcutil.NewAmount(btc)
	if err != nil {
		return 0, &RpcError{Method: "getbalance", Err: err}
	}
	return amt, nil
}

func (l *Local) NewAddress(ctx context.Context) (string, error) {
	resp, err := l.Call(ctx, "getnewaddress")
	if err != nil {
		return "", err
	}
	addr, err := resp.GetString()
	if err != nil {
		return "", &RpcError{Method: "getnewaddress", Err: err}
	}
	return addr, nil
}

// ExternalAddress returns a fresh node address that is foreign to the wallet
// under test.
func (l *Local) ExternalAddress(ctx context.Context) (string, error) {
	return l.NewAddress(ctx)
}

// Deposit sends amount to address from the node wallet. A zero amount sends
// DefaultDepositAmount.
func (l *Local) Deposit(ctx context.Context, address string, amount btcutil.Amount) (string, error) {
	if amount == 0 {
		amount = DefaultDepositAmount
	}
	resp, err := l.Call(ctx, "sendtoaddress", address, json.Number(formatBTC(amount)))
	if err != nil {
		return "", err
	}
	txid, err := resp.GetString()
	if err != nil {
		return "", &RpcError{Method: "sendtoaddress", Err: err}
	}
	log.Debugf("[regtest] deposited %v to %s: %s", amount, address, txid)
	return txid, nil
}

// MineBlocks mines count blocks one at a time, each to a new node address.
func (l *Local) MineBlocks(ctx context.Context, count int) error {
	if count < 0 {
		return fmt.Errorf("cannot mine %d blocks", count)
	}
	for i := 0; i < count; i++ {
		addr, err := l.NewAddress(ctx)
		if err != nil {
			return err
		}
		if _, err := l.generateToAddress(ctx, 1, addr); err != nil {
			return err
		}
	}
	log.Debugf("[regtest] mined %d blocks", count)
	return nil
}

func (l *Local) generateToAddress(ctx context.Context, count int, addr string) ([]string, error) {
	resp, err := l.Call(ctx, "generatetoaddress", count, addr)
	if err != nil {
		return nil, err
	}
	var hashes []string
	if err := resp.GetObject(&hashes); err != nil {
		return nil, &RpcError{Method: "generatetoaddress", Err: err}
	}
	return hashes, nil
}

// EnsureFunds mines batches of blocks to a single address until the node
// wallet holds at least minimum.
func (l *Local) EnsureFunds(ctx context.Context, minimum btcutil.Amount) error {
	var (
		addr   string
		rounds int
	)
	for {
		balance, err := l.Balance(ctx)
		if err != nil {
			return err
		}
		if balance >= minimum {
			if rounds > 0 {
				log.Infof("[regtest] node balance %v after %d mining rounds", balance, rounds)
			}
			return nil
		}
		if l.maxFundingRounds > 0 && rounds >= l.maxFundingRounds {
			return &FundsExhaustedError{Minimum: minimum, Balance: balance, Rounds: rounds}
		}
		if addr == "" {
			addr, err = l.NewAddress(ctx)
			if err != nil {
				return err
			}
		}
		log.Debugf("[regtest] balance %v below %v, mining %d blocks", balance, minimum, fundingBatch)
		if _, err := l.generateToAddress(ctx, fundingBatch, addr); err != nil {
			return err
		}
		rounds++
	}
}

func (l *Local) PayInvoice(context.Context, string, btcutil.Amount) (string, error) {
	return "", &UnsupportedOperationError{Operation: "payInvoice", Backend: config.BackendLocal}
}

// Close is a no-op, the json-rpc client holds no persistent connection.
func (l *Local) Close() error {
	return nil
}
