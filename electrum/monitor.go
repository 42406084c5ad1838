package electrum

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/checksum0/go-electrum/electrum"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/log"
)

// Options configures Start.
type Options struct {
	Backend  config.Backend
	Endpoint string
	TLS      bool
	// Node supplies the chain height electrum is compared against.
	Node HeightSource

	PollInterval time.Duration
	SeedTimeout  time.Duration
	// RemoteDelay is how long the remote no-op monitor waits.
	RemoteDelay time.Duration
	Dial        DialFunc
}

func (o *Options) setDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.SeedTimeout <= 0 {
		o.SeedTimeout = DefaultSeedTimeout
	}
	if o.RemoteDelay <= 0 {
		o.RemoteDelay = DefaultRemoteDelay
	}
	if o.Dial == nil {
		o.Dial = Dial
	}
}

// Start subscribes to the electrum header tip. Under the remote backend there
// is no electrum server to reach and a fixed delay monitor is returned. If
// any step fails the partial connection is stopped before returning.
func Start(ctx context.Context, opts Options) (Monitor, error) {
	opts.setDefaults()
	if opts.Backend.IsRemote() {
		log.Debugf("[electrum] %s backend, using fixed %v delay instead of a subscription", opts.Backend, opts.RemoteDelay)
		return newDelayMonitor(opts.RemoteDelay), nil
	}
	if opts.Node == nil {
		return nil, fmt.Errorf("electrum monitor needs a node height source")
	}

	m := &syncMonitor{
		node:         opts.Node,
		pollInterval: opts.PollInterval,
		quit:         make(chan struct{}),
	}
	if err := m.start(ctx, opts); err != nil {
		m.Stop()
		return nil, err
	}
	return m, nil
}

type syncMonitor struct {
	rpc          RPC
	node         HeightSource
	pollInterval time.Duration

	// height is written only by the subscription goroutine.
	height atomic.Int64
	state  atomic.Int32

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func (m *syncMonitor) start(ctx context.Context, opts Options) error {
	rpc, err := opts.Dial(ctx, opts.Endpoint, opts.TLS)
	if err != nil {
		return err
	}
	m.rpc = rpc

	headers, err := rpc.SubscribeHeaders(ctx)
	if err != nil {
		return fmt.Errorf("subscribe headers at %s: %w", opts.Endpoint, err)
	}

	seed := time.NewTimer(opts.SeedTimeout)
	defer seed.Stop()
	select {
	case h, ok := <-headers:
		if !ok || h == nil {
			return fmt.Errorf("header subscription at %s closed before the first tip", opts.Endpoint)
		}
		m.height.Store(int64(h.Height))
	case <-seed.C:
		return fmt.Errorf("no initial header from %s within %v", opts.Endpoint, opts.SeedTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	m.done = make(chan struct{})
	go m.listen(headers)
	m.setState(StateSubscribed)
	log.Infof("[electrum] subscribed to %s at height %d", opts.Endpoint, m.Height())
	return nil
}

func (m *syncMonitor) listen(headers <-chan *electrum.SubscribeHeadersResult) {
	defer close(m.done)
	for {
		select {
		case <-m.quit:
			return
		case h, ok := <-headers:
			if !ok {
				log.Debugf("[electrum] header subscription closed")
				return
			}
			if h == nil {
				continue
			}
			m.height.Store(int64(h.Height))
			log.Debugf("[electrum] new tip %d", h.Height)
		}
	}
}

func (m *syncMonitor) Height() int64 {
	return m.height.Load()
}

func (m *syncMonitor) State() State {
	return State(m.state.Load())
}

func (m *syncMonitor) setState(s State) {
	m.state.Store(int32(s))
}

func (m *syncMonitor) WaitForSync(ctx context.Context, timeout time.Duration) error {
	switch m.State() {
	case StateStopped:
		return ErrMonitorStopped
	case StateUninitialized:
		return fmt.Errorf("electrum sync monitor not started")
	}

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()
	start := time.Now()
	for {
		nodeHeight, err := m.node.BlockCount(ctx)
		if err != nil {
			return fmt.Errorf("poll node height: %w", err)
		}
		electrumHeight := m.height.Load()
		if nodeHeight == electrumHeight {
			m.setState(StateSynced)
			log.Debugf("[electrum] synced at height %d after %v", nodeHeight, time.Since(start).Round(time.Millisecond))
			return nil
		}
		if elapsed := time.Since(start); elapsed > timeout {
			m.setState(StateTimedOut)
			return &SyncTimeoutError{
				Timeout:        timeout,
				Elapsed:        elapsed,
				ElectrumHeight: electrumHeight,
				NodeHeight:     nodeHeight,
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.quit:
			return ErrMonitorStopped
		case <-ticker.C:
		}
	}
}

// Stop never fails: teardown errors are logged and dropped so they cannot
// hide the error that triggered the cleanup.
func (m *syncMonitor) Stop() {
	m.stopOnce.Do(func() {
		m.setState(StateStopped)
		close(m.quit)
		if m.rpc != nil {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Debugf("[electrum] ignoring panic during shutdown: %v", r)
					}
				}()
				m.rpc.Shutdown()
			}()
		}
		if m.done != nil {
			<-m.done
		}
	})
}

// delayMonitor stands in when electrum is out of reach and simply gives the
// app time to sync against the remote server on its own.
type delayMonitor struct {
	delay time.Duration
	state atomic.Int32
}

func newDelayMonitor(delay time.Duration) *delayMonitor {
	m := &delayMonitor{delay: delay}
	m.state.Store(int32(StateSubscribed))
	return m
}

func (m *delayMonitor) WaitForSync(ctx context.Context, _ time.Duration) error {
	if State(m.state.Load()) == StateStopped {
		return ErrMonitorStopped
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	m.state.Store(int32(StateSynced))
	return nil
}

func (m *delayMonitor) Height() int64 {
	return 0
}

func (m *delayMonitor) State() State {
	return State(m.state.Load())
}

func (m *delayMonitor) Stop() {
	m.state.Store(int32(StateStopped))
}
