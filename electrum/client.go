package electrum

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/checksum0/go-electrum/electrum"
)

//go:generate mockgen -source=client.go -destination=mock/mock_rpc.go -package=mock_electrum RPC

// RPC is the part of an electrum connection the sync monitor needs.
type RPC interface {
	SubscribeHeaders(ctx context.Context) (<-chan *electrum.SubscribeHeadersResult, error)
	Ping(ctx context.Context) error
	Shutdown()
}

// DialFunc opens an electrum connection.
type DialFunc func(ctx context.Context, endpoint string, isTLS bool) (RPC, error)

// Dial connects to endpoint (host:port) over tcp or tls.
func Dial(ctx context.Context, endpoint string, isTLS bool) (RPC, error) {
	var (
		client *electrum.Client
		err    error
	)
	if isTLS {
		client, err = electrum.NewClientSSL(ctx, endpoint, &tls.Config{
			MinVersion: tls.VersionTLS12,
		})
	} else {
		client, err = electrum.NewClientTCP(ctx, endpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to electrum %s: %w", endpoint, err)
	}
	return client, nil
}

// WaitReady dials endpoint until a connection answers a ping, at most
// attempts times. The probing connection is closed before returning.
func WaitReady(ctx context.Context, dial DialFunc, endpoint string, isTLS bool, attempts uint64) error {
	if dial == nil {
		dial = Dial
	}
	if attempts == 0 {
		attempts = 1
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), attempts-1),
		ctx,
	)
	return backoff.Retry(func() error {
		rpc, err := dial(ctx, endpoint, isTLS)
		if err != nil {
			return err
		}
		defer rpc.Shutdown()
		return rpc.Ping(ctx)
	}, b)
}
