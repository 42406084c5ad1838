package lightning

import (
	"context"
	"fmt"
	internal_log "log"
	"os"
	"time"

	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/retry"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/macaroons"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"gopkg.in/macaroon.v2"
)

const (
	// defaultGrpcBackoffTime is the base of the jittered exponential backoff
	// between failing grpc calls to the lnd node.
	defaultGrpcBackoffTime   = 1 * time.Second
	defaultGrpcBackoffJitter = 0.1

	// defaultMaxGrpcRetries bounds retries of calls lnd rejected while
	// starting up.
	defaultMaxGrpcRetries = 5
)

var (
	// defaultGrpcRetryCodesWithMsg are the only failures a call is retried
	// on. lnd rejects calls with these before acting on them, so retrying a
	// non-idempotent call is fine. Unavailable and ResourceExhausted are
	// not retried.
	defaultGrpcRetryCodesWithMsg = []grpc_retry.CodeWithMsg{
		{
			Code: codes.Unknown,
			Msg:  "the RPC server is in the process of starting up, but not yet ready to accept calls",
		},
		{
			Code: codes.Unknown,
			Msg:  "server is in the process of starting up, but not yet ready to accept calls",
		},
		{
			Code: codes.Unknown,
			Msg:  "chain notifier RPC is still in the process of starting",
		},
	}
)

// Connect dials the lnd node named by cfg and returns a coordinator owning the
// connection. chain mines blocks and funds the node's wallet.
func Connect(ctx context.Context, cfg *config.Config, chain Chain, opts ...Option) (*Coordinator, error) {
	conn, err := GetClientConnection(ctx, cfg.LndHost, cfg.TlsCertPath, cfg.MacaroonPath)
	if err != nil {
		return nil, fmt.Errorf("connect to lnd %s: %w", cfg.LndHost, err)
	}
	c := New(lnrpc.NewLightningClient(conn), chain, opts...)
	c.conn = conn
	return c, nil
}

// GetClientConnection dials host with tls and macaroon credentials. Calls are
// retried only while lnd reports that it is still starting up.
func GetClientConnection(ctx context.Context, host, certPath, macaroonPath string, options ...grpc.DialOption) (*grpc.ClientConn, error) {
	creds, err := credentials.NewClientTLSFromFile(certPath, "")
	if err != nil {
		return nil, fmt.Errorf("NewClientTLSFromFile() %w", err)
	}
	macBytes, err := os.ReadFile(macaroonPath)
	if err != nil {
		return nil, fmt.Errorf("ReadFile() %w", err)
	}
	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(macBytes); err != nil {
		return nil, fmt.Errorf("UnmarshalBinary() %w", err)
	}
	cred, err := macaroons.NewMacaroonCredential(mac)
	if err != nil {
		return nil, fmt.Errorf("NewMacaroonCredential() %w", err)
	}
	maxMsgRecvSize := grpc.MaxCallRecvMsgSize(1 * 1024 * 1024 * 500)

	debugLogger := internal_log.New(log.NewDebugLogger(), "[grpc_conn]: ", 0)
	retryOptions := []grpc_retry.CallOption{
		grpc_retry.WithBackoff(
			grpc_retry.BackoffExponentialWithJitter(
				defaultGrpcBackoffTime,
				defaultGrpcBackoffJitter,
			),
		),
		grpc_retry.WithCodes(),
		grpc_retry.WithCodesAndMatchingMessage(defaultGrpcRetryCodesWithMsg...),
		grpc_retry.WithMax(defaultMaxGrpcRetries),
		grpc_retry.WithLogger(debugLogger),
	}
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithBlock(),
		grpc.WithPerRPCCredentials(cred),
		grpc.WithDefaultCallOptions(maxMsgRecvSize),
		grpc.WithStreamInterceptor(grpc_retry.StreamClientInterceptor(
			retryOptions...,
		)),
		grpc.WithUnaryInterceptor(grpc_retry.UnaryClientInterceptor(
			retryOptions...,
		)),
	}
	opts = append(opts, options...)

	conn, err := grpc.DialContext(ctx, host, opts...)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// WaitForReady blocks until conn is READY or timeout passes.
func WaitForReady(conn *grpc.ClientConn, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	state := conn.GetState()
	if state == connectivity.Ready {
		return nil
	}

	log.Debugf("Waiting for lnd connection to be READY: current state: %s", state)

	for {
		if !conn.WaitForStateChange(ctx, state) {
			return fmt.Errorf("waiting for lnd connection to be READY: timeout in state %s", state)
		}
		state = conn.GetState()
		log.Debugf("Waiting for lnd connection to be READY: state changed: %s", state)
		if state == connectivity.Ready {
			return nil
		}
	}
}
