package electrum_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goelectrum "github.com/checksum0/go-electrum/electrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/electrum"
	mock_electrum "github.com/synonymdev/bitkit-e2e-tests-sub000/electrum/mock"
	"go.uber.org/mock/gomock"
)

// fakeNode returns the scripted heights in order and repeats the last one.
type fakeNode struct {
	sync.Mutex
	heights []int64
	calls   int
	err     error
}

func (n *fakeNode) BlockCount(context.Context) (int64, error) {
	n.Lock()
	defer n.Unlock()
	n.calls++
	if n.err != nil {
		return 0, n.err
	}
	i := n.calls - 1
	if i >= len(n.heights) {
		i = len(n.heights) - 1
	}
	return n.heights[i], nil
}

func (n *fakeNode) callCount() int {
	n.Lock()
	defer n.Unlock()
	return n.calls
}

type harness struct {
	rpc     *mock_electrum.MockRPC
	headers chan *goelectrum.SubscribeHeadersResult
	node    *fakeNode
	opts    electrum.Options
}

func newHarness(t *testing.T, initialHeight int32, nodeHeights ...int64) *harness {
	t.Helper()
	rpc := mock_electrum.NewMockRPC(gomock.NewController(t))
	headers := make(chan *goelectrum.SubscribeHeadersResult, 1)
	headers <- &goelectrum.SubscribeHeadersResult{Height: initialHeight}
	node := &fakeNode{heights: nodeHeights}
	return &harness{
		rpc:     rpc,
		headers: headers,
		node:    node,
		opts: electrum.Options{
			Backend:      config.BackendLocal,
			Endpoint:     "127.0.0.1:60001",
			Node:         node,
			PollInterval: 5 * time.Millisecond,
			SeedTimeout:  200 * time.Millisecond,
			Dial: func(context.Context, string, bool) (electrum.RPC, error) {
				return rpc, nil
			},
		},
	}
}

func TestMonitor_SyncedImmediately(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 101, 101)
	h.rpc.EXPECT().SubscribeHeaders(gomock.Any()).Return(h.headers, nil)
	h.rpc.EXPECT().Shutdown().Times(1)

	m, err := electrum.Start(context.Background(), h.opts)
	require.NoError(t, err)
	defer m.Stop()

	assert.Equal(t, int64(101), m.Height())
	assert.Equal(t, electrum.StateSubscribed, m.State())
	require.NoError(t, m.WaitForSync(context.Background(), time.Second))
	assert.Equal(t, electrum.StateSynced, m.State())
	assert.Equal(t, 1, h.node.callCount())
}

func TestMonitor_WaitsForPushedTip(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 105, 106)
	h.rpc.EXPECT().SubscribeHeaders(gomock.Any()).Return(h.headers, nil)
	h.rpc.EXPECT().Shutdown()

	m, err := electrum.Start(context.Background(), h.opts)
	require.NoError(t, err)
	defer m.Stop()

	go func() {
		// let a few polls observe the mismatch first
		for h.node.callCount() < 3 {
			time.Sleep(time.Millisecond)
		}
		h.headers <- &goelectrum.SubscribeHeadersResult{Height: 106}
	}()

	require.NoError(t, m.WaitForSync(context.Background(), 5*time.Second))
	assert.Equal(t, int64(106), m.Height())
	assert.GreaterOrEqual(t, h.node.callCount(), 3, "node height is polled on every attempt")
}

func TestMonitor_NeverSuccessWhileHeightsDiffer(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 105, 110)
	h.rpc.EXPECT().SubscribeHeaders(gomock.Any()).Return(h.headers, nil)
	h.rpc.EXPECT().Shutdown()

	m, err := electrum.Start(context.Background(), h.opts)
	require.NoError(t, err)
	defer m.Stop()

	start := time.Now()
	err = m.WaitForSync(context.Background(), 50*time.Millisecond)
	var timeoutErr *electrum.SyncTimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, int64(105), timeoutErr.ElectrumHeight)
	assert.Equal(t, int64(110), timeoutErr.NodeHeight)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
	assert.Equal(t, electrum.StateTimedOut, m.State())
}

func TestMonitor_NodeErrorPropagates(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 105, 105)
	rpcErr := errors.New("connection refused")
	h.node.err = rpcErr
	h.rpc.EXPECT().SubscribeHeaders(gomock.Any()).Return(h.headers, nil)
	h.rpc.EXPECT().Shutdown()

	m, err := electrum.Start(context.Background(), h.opts)
	require.NoError(t, err)
	defer m.Stop()

	err = m.WaitForSync(context.Background(), time.Second)
	assert.ErrorIs(t, err, rpcErr)
	var timeoutErr *electrum.SyncTimeoutError
	assert.False(t, errors.As(err, &timeoutErr), "connectivity failures are not sync timeouts")
}

func TestMonitor_StartFailureStopsConnection(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 0, 0)
	h.rpc.EXPECT().SubscribeHeaders(gomock.Any()).Return(nil, errors.New("unsupported method"))
	h.rpc.EXPECT().Shutdown().Times(1)

	m, err := electrum.Start(context.Background(), h.opts)
	assert.Error(t, err)
	assert.Nil(t, m)
}

func TestMonitor_SeedTimeout(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 0, 0)
	empty := make(chan *goelectrum.SubscribeHeadersResult)
	h.opts.SeedTimeout = 20 * time.Millisecond
	h.rpc.EXPECT().SubscribeHeaders(gomock.Any()).Return(empty, nil)
	h.rpc.EXPECT().Shutdown().Times(1)

	_, err := electrum.Start(context.Background(), h.opts)
	assert.ErrorContains(t, err, "no initial header")
}

func TestMonitor_DialFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 0, 0)
	h.opts.Dial = func(context.Context, string, bool) (electrum.RPC, error) {
		return nil, errors.New("dial tcp: refused")
	}

	_, err := electrum.Start(context.Background(), h.opts)
	assert.ErrorContains(t, err, "refused")
}

func TestMonitor_StopIsIdempotentAndSwallowsPanics(t *testing.T) {
	t.Parallel()
	h := newHarness(t, 101, 101)
	h.rpc.EXPECT().SubscribeHeaders(gomock.Any()).Return(h.headers, nil)
	h.rpc.EXPECT().Shutdown().Do(func() { panic("already closed") }).Times(1)

	m, err := electrum.Start(context.Background(), h.opts)
	require.NoError(t, err)

	assert.NotPanics(t, m.Stop)
	assert.NotPanics(t, m.Stop)
	assert.Equal(t, electrum.StateStopped, m.State())
	assert.ErrorIs(t, m.WaitForSync(context.Background(), time.Second), electrum.ErrMonitorStopped)
}

func TestMonitor_RemoteBackendUsesDelay(t *testing.T) {
	t.Parallel()
	dialed := false
	m, err := electrum.Start(context.Background(), electrum.Options{
		Backend:     config.BackendRegtest,
		RemoteDelay: 30 * time.Millisecond,
		Dial: func(context.Context, string, bool) (electrum.RPC, error) {
			dialed = true
			return nil, errors.New("unreachable")
		},
	})
	require.NoError(t, err)
	assert.False(t, dialed)

	start := time.Now()
	require.NoError(t, m.WaitForSync(context.Background(), time.Hour))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, electrum.StateSynced, m.State())

	m.Stop()
	assert.ErrorIs(t, m.WaitForSync(context.Background(), time.Second), electrum.ErrMonitorStopped)
}

func TestMonitor_RequiresNode(t *testing.T) {
	t.Parallel()
	_, err := electrum.Start(context.Background(), electrum.Options{Backend: config.BackendLocal})
	assert.Error(t, err)
}

func TestState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "synced", electrum.StateSynced.String())
	assert.Equal(t, "timed out", electrum.StateTimedOut.String())
	assert.Equal(t, "State(42)", electrum.State(42).String())
}

func TestWaitReady_RetriesUntilPing(t *testing.T) {
	t.Parallel()
	rpc := mock_electrum.NewMockRPC(gomock.NewController(t))
	rpc.EXPECT().Ping(gomock.Any()).Return(nil)
	rpc.EXPECT().Shutdown()

	dials := 0
	dial := func(context.Context, string, bool) (electrum.RPC, error) {
		dials++
		if dials < 3 {
			return nil, errors.New("connection refused")
		}
		return rpc, nil
	}

	require.NoError(t, electrum.WaitReady(context.Background(), dial, "127.0.0.1:60001", false, 5))
	assert.Equal(t, 3, dials)
}

func TestWaitReady_GivesUp(t *testing.T) {
	t.Parallel()
	dials := 0
	dial := func(context.Context, string, bool) (electrum.RPC, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	err := electrum.WaitReady(context.Background(), dial, "127.0.0.1:60001", false, 2)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 2, dials)
}
