// Package lightning coordinates the counterparty lnd node used by wallet
// scenarios: peer and channel readiness polling, channel opens that are
// confirmed on the regtest chain, and invoice helpers.
package lightning

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/regtest"
	"google.golang.org/grpc"
)

//go:generate mockgen -source=lightning.go -destination=mock/mock_lightning.go -package=mock_lightning LightningRPC,Chain

// LightningRPC is the part of lnrpc.LightningClient the coordinator uses.
type LightningRPC interface {
	GetInfo(ctx context.Context, in *lnrpc.GetInfoRequest, opts ...grpc.CallOption) (*lnrpc.GetInfoResponse, error)
	ListPeers(ctx context.Context, in *lnrpc.ListPeersRequest, opts ...grpc.CallOption) (*lnrpc.ListPeersResponse, error)
	ConnectPeer(ctx context.Context, in *lnrpc.ConnectPeerRequest, opts ...grpc.CallOption) (*lnrpc.ConnectPeerResponse, error)
	ListChannels(ctx context.Context, in *lnrpc.ListChannelsRequest, opts ...grpc.CallOption) (*lnrpc.ListChannelsResponse, error)
	OpenChannelSync(ctx context.Context, in *lnrpc.OpenChannelRequest, opts ...grpc.CallOption) (*lnrpc.ChannelPoint, error)
	NewAddress(ctx context.Context, in *lnrpc.NewAddressRequest, opts ...grpc.CallOption) (*lnrpc.NewAddressResponse, error)
	WalletBalance(ctx context.Context, in *lnrpc.WalletBalanceRequest, opts ...grpc.CallOption) (*lnrpc.WalletBalanceResponse, error)
	AddInvoice(ctx context.Context, in *lnrpc.Invoice, opts ...grpc.CallOption) (*lnrpc.AddInvoiceResponse, error)
	SendPaymentSync(ctx context.Context, in *lnrpc.SendRequest, opts ...grpc.CallOption) (*lnrpc.SendResponse, error)
	DecodePayReq(ctx context.Context, in *lnrpc.PayReqString, opts ...grpc.CallOption) (*lnrpc.PayReq, error)
}

// Chain mines and funds on the regtest chain the node is connected to.
// *regtest.Regtest satisfies it.
type Chain interface {
	MineBlocks(ctx context.Context, count int) error
	Deposit(ctx context.Context, address string, amount btcutil.Amount) (*regtest.Deposit, error)
}

// Invoice defines the parts of a decoded payment request scenarios assert on.
type Invoice struct {
	PaymentHash Hash
	Destination string
	Amount      btcutil.Amount
	Description string
	Expiry      time.Duration
}

// ChannelPoint identifies a channel by its funding outpoint.
type ChannelPoint struct {
	TxID  string
	Index uint32
}

// String returns the channel point in lnd's "txid:index" notation.
func (c ChannelPoint) String() string {
	return fmt.Sprintf("%s:%d", c.TxID, c.Index)
}

// ChannelOptions tune OpenChannel. The zero value opens a public channel
// without push amount at the node's default fee rate.
type ChannelOptions struct {
	PushAmount  btcutil.Amount
	Private     bool
	SatPerVbyte uint64
}

// Payment is the outcome of a settled outgoing payment.
type Payment struct {
	Hash     Hash
	Preimage Preimage
}
