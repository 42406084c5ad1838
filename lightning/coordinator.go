package lightning

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/cenkalti/backoff/v4"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/log"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/regtest"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/version"
)

const (
	DefaultMaxRetries        = 20
	DefaultPollInterval      = time.Second
	DefaultConfirmationDepth = 6

	// MinLndVersion is the oldest counterparty lnd the coordinator is
	// tested against.
	MinLndVersion = "0.16.0"

	connectPeerTimeoutSecs = 10
)

var errPending = errors.New("condition not met yet")

type Option func(*Coordinator)

// WithPollInterval sets the pause between two readiness polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		c.pollInterval = d
	}
}

// WithConfirmationDepth sets how many blocks OpenChannel mines after the
// funding transaction was published.
func WithConfirmationDepth(n int) Option {
	return func(c *Coordinator) {
		c.confirmations = n
	}
}

// Coordinator drives the counterparty lnd node from scenarios.
type Coordinator struct {
	rpc   LightningRPC
	chain Chain
	conn  io.Closer

	pollInterval  time.Duration
	confirmations int
}

func New(rpc LightningRPC, chain Chain, opts ...Option) *Coordinator {
	c := &Coordinator{
		rpc:           rpc,
		chain:         chain,
		pollInterval:  DefaultPollInterval,
		confirmations: DefaultConfirmationDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// poll runs check until it reports true, at most maxRetries times. It returns
// the number of attempts made. RPC errors end polling immediately.
func (c *Coordinator) poll(ctx context.Context, maxRetries int, check func() (bool, error)) (int, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.pollInterval), uint64(maxRetries-1)),
		ctx,
	)
	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		ok, err := check()
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errPending
		}
		return nil
	}, b)
	return attempts, err
}

// WaitForPeerConnection polls ListPeers until nodeID shows up.
func (c *Coordinator) WaitForPeerConnection(ctx context.Context, nodeID string, maxRetries int) (*lnrpc.Peer, error) {
	var peer *lnrpc.Peer
	attempts, err := c.poll(ctx, maxRetries, func() (bool, error) {
		res, err := c.rpc.ListPeers(ctx, &lnrpc.ListPeersRequest{})
		if err != nil {
			return false, fmt.Errorf("list peers: %w", err)
		}
		for _, p := range res.GetPeers() {
			if p.GetPubKey() == nodeID {
				peer = p
				return true, nil
			}
		}
		log.Debugf("peer %s not connected yet", nodeID)
		return false, nil
	})
	if errors.Is(err, errPending) {
		return nil, &PeerNotConnectedError{NodeID: nodeID, Attempts: attempts}
	}
	if err != nil {
		return nil, err
	}
	return peer, nil
}

// WaitForActiveChannel polls ListChannels until at least one active channel
// with nodeID exists.
func (c *Coordinator) WaitForActiveChannel(ctx context.Context, nodeID string, maxRetries int) (*lnrpc.Channel, error) {
	pubkey, err := decodePubkey(nodeID)
	if err != nil {
		return nil, err
	}
	var channel *lnrpc.Channel
	attempts, err := c.poll(ctx, maxRetries, func() (bool, error) {
		res, err := c.rpc.ListChannels(ctx, &lnrpc.ListChannelsRequest{
			ActiveOnly: true,
			Peer:       pubkey,
		})
		if err != nil {
			return false, fmt.Errorf("list channels: %w", err)
		}
		if len(res.GetChannels()) > 0 {
			channel = res.GetChannels()[0]
			return true, nil
		}
		log.Debugf("no active channel with %s yet", nodeID)
		return false, nil
	})
	if errors.Is(err, errPending) {
		return nil, &ChannelNotActiveError{NodeID: nodeID, Attempts: attempts}
	}
	if err != nil {
		return nil, err
	}
	return channel, nil
}

// ConnectPeer connects to nodeID at host. Being already connected is not an
// error.
func (c *Coordinator) ConnectPeer(ctx context.Context, nodeID, host string) error {
	_, err := c.rpc.ConnectPeer(ctx, &lnrpc.ConnectPeerRequest{
		Addr: &lnrpc.LightningAddress{
			Pubkey: nodeID,
			Host:   host,
		},
		Timeout: connectPeerTimeoutSecs,
	})
	if err != nil && strings.Contains(err.Error(), "already connected") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("connect peer %s@%s: %w", nodeID, host, err)
	}
	return nil
}

// OpenChannel opens a channel of amount to nodeID and mines the configured
// confirmation depth so the channel can become active.
func (c *Coordinator) OpenChannel(ctx context.Context, nodeID string, amount btcutil.Amount, opts ChannelOptions) (*ChannelPoint, error) {
	pubkey, err := decodePubkey(nodeID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("channel amount must be positive, got %v", amount)
	}
	cp, err := c.rpc.OpenChannelSync(ctx, &lnrpc.OpenChannelRequest{
		NodePubkey:         pubkey,
		LocalFundingAmount: int64(amount),
		PushSat:            int64(opts.PushAmount),
		Private:            opts.Private,
		SatPerVbyte:        opts.SatPerVbyte,
	})
	if err != nil {
		return nil, fmt.Errorf("open channel to %s: %w", nodeID, err)
	}
	txid, err := lnrpc.GetChanPointFundingTxid(cp)
	if err != nil {
		return nil, fmt.Errorf("funding txid: %w", err)
	}
	point := &ChannelPoint{TxID: txid.String(), Index: cp.GetOutputIndex()}
	log.Infof("opened channel %s to %s, mining %d blocks", point, nodeID, c.confirmations)

	if err := c.chain.MineBlocks(ctx, c.confirmations); err != nil {
		return point, fmt.Errorf("confirm channel %s: %w", point, err)
	}
	return point, nil
}

func (c *Coordinator) Info(ctx context.Context) (*lnrpc.GetInfoResponse, error) {
	return c.rpc.GetInfo(ctx, &lnrpc.GetInfoRequest{})
}

// RequireVersion fails when the node runs an lnd older than minimum.
func (c *Coordinator) RequireVersion(ctx context.Context, minimum string) error {
	info, err := c.Info(ctx)
	if err != nil {
		return fmt.Errorf("get info: %w", err)
	}
	ok, err := version.AtLeast(info.GetVersion(), minimum)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("lnd %s is older than required %s", info.GetVersion(), minimum)
	}
	return nil
}

// NewAddress returns a fresh p2wkh address of the node's wallet.
func (c *Coordinator) NewAddress(ctx context.Context) (string, error) {
	res, err := c.rpc.NewAddress(ctx, &lnrpc.NewAddressRequest{
		Type: lnrpc.AddressType_WITNESS_PUBKEY_HASH,
	})
	if err != nil {
		return "", fmt.Errorf("new address: %w", err)
	}
	return res.GetAddress(), nil
}

// Balance returns the confirmed on-chain wallet balance of the node.
func (c *Coordinator) Balance(ctx context.Context) (btcutil.Amount, error) {
	res, err := c.rpc.WalletBalance(ctx, &lnrpc.WalletBalanceRequest{})
	if err != nil {
		return 0, fmt.Errorf("wallet balance: %w", err)
	}
	return btcutil.Amount(res.GetConfirmedBalance()), nil
}

// FundWallet deposits amount to a fresh node address and mines one block.
func (c *Coordinator) FundWallet(ctx context.Context, amount btcutil.Amount) (*regtest.Deposit, error) {
	addr, err := c.NewAddress(ctx)
	if err != nil {
		return nil, err
	}
	deposit, err := c.chain.Deposit(ctx, addr, amount)
	if err != nil {
		return nil, err
	}
	if err := c.chain.MineBlocks(ctx, 1); err != nil {
		return deposit, err
	}
	return deposit, nil
}

// AddInvoice creates an invoice; a zero amount yields an open-amount invoice.
func (c *Coordinator) AddInvoice(ctx context.Context, amount btcutil.Amount, memo string) (string, error) {
	res, err := c.rpc.AddInvoice(ctx, &lnrpc.Invoice{
		Memo:  memo,
		Value: int64(amount),
	})
	if err != nil {
		return "", fmt.Errorf("add invoice: %w", err)
	}
	return res.GetPaymentRequest(), nil
}

// PayInvoice pays invoice from the node. amount is only used for open-amount
// invoices.
func (c *Coordinator) PayInvoice(ctx context.Context, invoice string, amount btcutil.Amount) (*Payment, error) {
	res, err := c.rpc.SendPaymentSync(ctx, &lnrpc.SendRequest{
		PaymentRequest: invoice,
		Amt:            int64(amount),
	})
	if err != nil {
		return nil, fmt.Errorf("send payment: %w", err)
	}
	if res.GetPaymentError() != "" {
		return nil, &PaymentError{Invoice: invoice, Reason: res.GetPaymentError()}
	}
	preimage, err := MakePreimage(res.GetPaymentPreimage())
	if err != nil {
		return nil, err
	}
	hash, err := MakeHash(res.GetPaymentHash())
	if err != nil {
		return nil, err
	}
	if !preimage.Matches(hash) {
		return nil, fmt.Errorf("preimage %s does not match payment hash %s", preimage, hash)
	}
	return &Payment{Hash: hash, Preimage: preimage}, nil
}

func (c *Coordinator) DecodeInvoice(ctx context.Context, invoice string) (*Invoice, error) {
	res, err := c.rpc.DecodePayReq(ctx, &lnrpc.PayReqString{PayReq: invoice})
	if err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	hash, err := MakeHashFromStr(res.GetPaymentHash())
	if err != nil {
		return nil, fmt.Errorf("decode invoice payment hash: %w", err)
	}
	return &Invoice{
		PaymentHash: hash,
		Destination: res.GetDestination(),
		Amount:      btcutil.Amount(res.GetNumSatoshis()),
		Description: res.GetDescription(),
		Expiry:      time.Duration(res.GetExpiry()) * time.Second,
	}, nil
}

// Close releases the grpc connection when the coordinator owns one.
func (c *Coordinator) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func decodePubkey(nodeID string) ([]byte, error) {
	pubkey, err := hex.DecodeString(nodeID)
	if err != nil || len(pubkey) != 33 {
		return nil, fmt.Errorf("invalid node id %q", nodeID)
	}
	return pubkey, nil
}
