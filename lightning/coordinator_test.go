package lightning_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/lightning"
	mock_lightning "github.com/synonymdev/bitkit-e2e-tests-sub000/lightning/mock"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/regtest"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
)

var nodeID = "02" + strings.Repeat("ab", 32)

func newCoordinator(t *testing.T) (*lightning.Coordinator, *mock_lightning.MockLightningRPC, *mock_lightning.MockChain) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rpc := mock_lightning.NewMockLightningRPC(ctrl)
	chain := mock_lightning.NewMockChain(ctrl)
	c := lightning.New(rpc, chain, lightning.WithPollInterval(time.Millisecond))
	return c, rpc, chain
}

func TestWaitForPeerConnection_Found(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	gomock.InOrder(
		rpc.EXPECT().ListPeers(gomock.Any(), gomock.Any()).Return(&lnrpc.ListPeersResponse{}, nil).Times(2),
		rpc.EXPECT().ListPeers(gomock.Any(), gomock.Any()).Return(&lnrpc.ListPeersResponse{
			Peers: []*lnrpc.Peer{{PubKey: "03other"}, {PubKey: nodeID}},
		}, nil),
	)

	peer, err := c.WaitForPeerConnection(context.Background(), nodeID, 5)
	require.NoError(t, err)
	assert.Equal(t, nodeID, peer.GetPubKey())
}

func TestWaitForPeerConnection_ExhaustsDefaultAttempts(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	rpc.EXPECT().ListPeers(gomock.Any(), gomock.Any()).
		Return(&lnrpc.ListPeersResponse{}, nil).
		Times(lightning.DefaultMaxRetries)

	_, err := c.WaitForPeerConnection(context.Background(), nodeID, 0)
	var notConnected *lightning.PeerNotConnectedError
	require.True(t, errors.As(err, &notConnected))
	assert.Equal(t, lightning.DefaultMaxRetries, notConnected.Attempts)
	assert.Equal(t, nodeID, notConnected.NodeID)
}

func TestWaitForPeerConnection_RPCErrorStopsPolling(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	rpcErr := errors.New("rpc unavailable")
	rpc.EXPECT().ListPeers(gomock.Any(), gomock.Any()).Return(nil, rpcErr).Times(1)

	_, err := c.WaitForPeerConnection(context.Background(), nodeID, 5)
	assert.ErrorIs(t, err, rpcErr)
}

func TestWaitForPeerConnection_ContextCancelled(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	ctx, cancel := context.WithCancel(context.Background())
	rpc.EXPECT().ListPeers(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *lnrpc.ListPeersRequest, ...grpc.CallOption) (*lnrpc.ListPeersResponse, error) {
			cancel()
			return &lnrpc.ListPeersResponse{}, nil
		}).MinTimes(1)

	_, err := c.WaitForPeerConnection(ctx, nodeID, 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForActiveChannel(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	var seen *lnrpc.ListChannelsRequest
	gomock.InOrder(
		rpc.EXPECT().ListChannels(gomock.Any(), gomock.Any()).Return(&lnrpc.ListChannelsResponse{}, nil),
		rpc.EXPECT().ListChannels(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *lnrpc.ListChannelsRequest, _ ...grpc.CallOption) (*lnrpc.ListChannelsResponse, error) {
				seen = req
				return &lnrpc.ListChannelsResponse{
					Channels: []*lnrpc.Channel{{RemotePubkey: nodeID, Active: true, ChannelPoint: "aa:0"}},
				}, nil
			}),
	)

	ch, err := c.WaitForActiveChannel(context.Background(), nodeID, 3)
	require.NoError(t, err)
	assert.Equal(t, "aa:0", ch.GetChannelPoint())
	require.NotNil(t, seen)
	assert.True(t, seen.ActiveOnly)
	assert.Len(t, seen.Peer, 33)
}

func TestWaitForActiveChannel_NotActive(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	rpc.EXPECT().ListChannels(gomock.Any(), gomock.Any()).Return(&lnrpc.ListChannelsResponse{}, nil).Times(3)

	_, err := c.WaitForActiveChannel(context.Background(), nodeID, 3)
	var notActive *lightning.ChannelNotActiveError
	require.True(t, errors.As(err, &notActive))
	assert.Equal(t, 3, notActive.Attempts)
}

func TestWaitForActiveChannel_InvalidNodeID(t *testing.T) {
	t.Parallel()
	c, _, _ := newCoordinator(t)
	_, err := c.WaitForActiveChannel(context.Background(), "not-hex", 3)
	assert.ErrorContains(t, err, "invalid node id")
}

func TestOpenChannel_MinesConfirmations(t *testing.T) {
	t.Parallel()
	c, rpc, chain := newCoordinator(t)
	txid := "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	hash, err := chainhash.NewHashFromStr(txid)
	require.NoError(t, err)

	rpc.EXPECT().OpenChannelSync(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *lnrpc.OpenChannelRequest, _ ...grpc.CallOption) (*lnrpc.ChannelPoint, error) {
			assert.Equal(t, int64(500_000), req.LocalFundingAmount)
			assert.Equal(t, int64(1_000), req.PushSat)
			assert.True(t, req.Private)
			return &lnrpc.ChannelPoint{
				FundingTxid: &lnrpc.ChannelPoint_FundingTxidBytes{FundingTxidBytes: hash[:]},
				OutputIndex: 1,
			}, nil
		})
	chain.EXPECT().MineBlocks(gomock.Any(), lightning.DefaultConfirmationDepth).Return(nil)

	point, err := c.OpenChannel(context.Background(), nodeID, 500_000, lightning.ChannelOptions{
		PushAmount: 1_000,
		Private:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, txid+":1", point.String())
}

func TestOpenChannel_Errors(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)

	_, err := c.OpenChannel(context.Background(), nodeID, 0, lightning.ChannelOptions{})
	assert.Error(t, err)

	rpc.EXPECT().OpenChannelSync(gomock.Any(), gomock.Any()).Return(nil, errors.New("not enough witness outputs"))
	_, err = c.OpenChannel(context.Background(), nodeID, 100_000, lightning.ChannelOptions{})
	assert.ErrorContains(t, err, "not enough witness outputs")
}

func TestConnectPeer_AlreadyConnected(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	rpc.EXPECT().ConnectPeer(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("already connected to peer: "+nodeID))

	assert.NoError(t, c.ConnectPeer(context.Background(), nodeID, "127.0.0.1:9735"))
}

func TestFundWallet(t *testing.T) {
	t.Parallel()
	c, rpc, chain := newCoordinator(t)
	rpc.EXPECT().NewAddress(gomock.Any(), gomock.Any()).
		Return(&lnrpc.NewAddressResponse{Address: "bcrt1qnode"}, nil)
	gomock.InOrder(
		chain.EXPECT().Deposit(gomock.Any(), "bcrt1qnode", btcutil.Amount(1_000_000)).
			Return(&regtest.Deposit{Address: "bcrt1qnode", Amount: 1_000_000, TxID: "ff"}, nil),
		chain.EXPECT().MineBlocks(gomock.Any(), 1).Return(nil),
	)

	dep, err := c.FundWallet(context.Background(), 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, "ff", dep.TxID)
}

func TestPayInvoice(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	preimage := bytes.Repeat([]byte{0x01}, 32)
	hash := sha256.Sum256(preimage)
	rpc.EXPECT().SendPaymentSync(gomock.Any(), gomock.Any()).
		Return(&lnrpc.SendResponse{PaymentPreimage: preimage, PaymentHash: hash[:]}, nil)

	p, err := c.PayInvoice(context.Background(), "lnbcrt1", 0)
	require.NoError(t, err)
	assert.True(t, p.Preimage.Matches(p.Hash))
}

func TestPayInvoice_PaymentError(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	rpc.EXPECT().SendPaymentSync(gomock.Any(), gomock.Any()).
		Return(&lnrpc.SendResponse{PaymentError: "no_route"}, nil)

	_, err := c.PayInvoice(context.Background(), "lnbcrt1", 0)
	var payErr *lightning.PaymentError
	require.True(t, errors.As(err, &payErr))
	assert.Equal(t, "no_route", payErr.Reason)
}

func TestDecodeInvoice(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	rpc.EXPECT().DecodePayReq(gomock.Any(), &lnrpc.PayReqString{PayReq: "lnbcrt1"}).
		Return(&lnrpc.PayReq{NumSatoshis: 2100, Description: "coffee", Expiry: 3600, Destination: nodeID, PaymentHash: strings.Repeat("ab", 32)}, nil)

	inv, err := c.DecodeInvoice(context.Background(), "lnbcrt1")
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(2100), inv.Amount)
	assert.Equal(t, "coffee", inv.Description)
	assert.Equal(t, time.Hour, inv.Expiry)
	assert.Equal(t, strings.Repeat("ab", 32), inv.PaymentHash.String())
}

func TestDecodeInvoice_BadHash(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	rpc.EXPECT().DecodePayReq(gomock.Any(), gomock.Any()).
		Return(&lnrpc.PayReq{PaymentHash: "zz"}, nil)

	_, err := c.DecodeInvoice(context.Background(), "lnbcrt1")
	assert.ErrorContains(t, err, "payment hash")
}

func TestAddInvoiceAndBalance(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	rpc.EXPECT().AddInvoice(gomock.Any(), gomock.Any()).
		Return(&lnrpc.AddInvoiceResponse{PaymentRequest: "lnbcrt500"}, nil)
	rpc.EXPECT().WalletBalance(gomock.Any(), gomock.Any()).
		Return(&lnrpc.WalletBalanceResponse{ConfirmedBalance: 42}, nil)

	invoice, err := c.AddInvoice(context.Background(), 500, "test")
	require.NoError(t, err)
	assert.Equal(t, "lnbcrt500", invoice)

	bal, err := c.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, btcutil.Amount(42), bal)
	assert.NoError(t, c.Close())
}

func TestRequireVersion(t *testing.T) {
	t.Parallel()
	c, rpc, _ := newCoordinator(t)
	gomock.InOrder(
		rpc.EXPECT().GetInfo(gomock.Any(), gomock.Any()).
			Return(&lnrpc.GetInfoResponse{Version: "0.18.4-beta commit=v0.18.4-beta"}, nil),
		rpc.EXPECT().GetInfo(gomock.Any(), gomock.Any()).
			Return(&lnrpc.GetInfoResponse{Version: "0.15.5-beta"}, nil),
	)

	assert.NoError(t, c.RequireVersion(context.Background(), lightning.MinLndVersion))
	assert.ErrorContains(t, c.RequireVersion(context.Background(), lightning.MinLndVersion), "older than required")
}
