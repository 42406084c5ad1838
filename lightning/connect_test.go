package lightning

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestWaitForReady(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := grpc.NewServer()
	go s.Serve(l)
	defer s.Stop()

	cc, err := grpc.Dial(l.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer cc.Close()

	assert.NoError(t, WaitForReady(cc, 10*time.Second))
}

func TestWaitForReady_Timeout(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	cc, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer cc.Close()

	assert.ErrorContains(t, WaitForReady(cc, 200*time.Millisecond), "timeout")
}

func TestGetClientConnection_MissingCert(t *testing.T) {
	t.Parallel()
	_, err := GetClientConnection(context.Background(), "127.0.0.1:10009", "/nonexistent/tls.cert", "/nonexistent/admin.macaroon")
	assert.ErrorContains(t, err, "NewClientTLSFromFile")
}
