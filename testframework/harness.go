// Package testframework owns the regtest resources one wallet test file
// works with and tears them down when it is done.
package testframework

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/cicache"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/electrum"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/lightning"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/log"
	"github.com/synonymdev/bitkit-e2e-tests-sub000/regtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Harness creates the chain facade, the electrum monitor and the lightning
// coordinator on first use. At most one electrum connection is live.
type Harness struct {
	cfg    *config.Config
	logger *zap.Logger
	cache  *cicache.Cache

	// ElectrumOptions is applied on top of the config derived options when
	// the monitor is started.
	ElectrumOptions func(*electrum.Options)

	mu        sync.Mutex
	chain     *regtest.Regtest
	monitor   electrum.Monitor
	lightning *lightning.Coordinator
}

func New(cfg *config.Config, logger *zap.Logger) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{
		cfg:    cfg,
		logger: logger,
		cache:  cicache.FromConfig(cfg),
	}
}

// NewForTest loads the configuration from the environment and closes the
// harness when t finishes.
func NewForTest(t testing.TB) *Harness {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	log.SetLogger(log.FromZap(logger))

	h := New(cfg, logger)
	t.Cleanup(func() {
		if err := h.Close(); err != nil {
			t.Logf("harness teardown: %v", err)
		}
	})
	return h
}

func (h *Harness) Config() *config.Config {
	return h.cfg
}

func (h *Harness) Cache() *cicache.Cache {
	return h.cache
}

func (h *Harness) Regtest() (*regtest.Regtest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.regtestLocked()
}

func (h *Harness) regtestLocked() (*regtest.Regtest, error) {
	if h.chain != nil {
		return h.chain, nil
	}
	chain, err := regtest.Open(h.cfg, h.logger)
	if err != nil {
		return nil, err
	}
	log.Infof("regtest backend: %s", chain.Backend())
	h.chain = chain
	return chain, nil
}

// Electrum returns the running sync monitor, starting it if needed.
func (h *Harness) Electrum(ctx context.Context) (electrum.Monitor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.monitor != nil {
		return h.monitor, nil
	}
	chain, err := h.regtestLocked()
	if err != nil {
		return nil, err
	}
	opts := electrum.Options{
		Backend:     chain.Backend(),
		Endpoint:    h.cfg.ElectrumEndpoint(),
		TLS:         h.cfg.UseElectrumTLS(),
		Node:        chain,
		RemoteDelay: h.cfg.RemoteSyncDelay,
	}
	if h.ElectrumOptions != nil {
		h.ElectrumOptions(&opts)
	}
	m, err := electrum.Start(ctx, opts)
	if err != nil {
		return nil, err
	}
	h.monitor = m
	return m, nil
}

// WaitForSync waits until electrum reports the node tip, bounded by TIMEOUT.
func (h *Harness) WaitForSync(ctx context.Context) error {
	m, err := h.Electrum(ctx)
	if err != nil {
		return err
	}
	return m.WaitForSync(ctx, h.cfg.Timeout())
}

// MineAndSync mines count blocks and waits for electrum to index them.
func (h *Harness) MineAndSync(ctx context.Context, count int) error {
	chain, err := h.Regtest()
	if err != nil {
		return err
	}
	if err := chain.MineBlocks(ctx, count); err != nil {
		return err
	}
	return h.WaitForSync(ctx)
}

// Lightning returns the coordinator for the counterparty node, connecting on
// first use.
func (h *Harness) Lightning(ctx context.Context) (*lightning.Coordinator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lightning != nil {
		return h.lightning, nil
	}
	chain, err := h.regtestLocked()
	if err != nil {
		return nil, err
	}
	c, err := lightning.Connect(ctx, h.cfg, chain)
	if err != nil {
		return nil, err
	}
	if err := c.RequireVersion(ctx, lightning.MinLndVersion); err != nil {
		_ = c.Close()
		return nil, err
	}
	h.lightning = c
	return c, nil
}

// SetLightning installs a coordinator built elsewhere. The harness closes it.
func (h *Harness) SetLightning(c *lightning.Coordinator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lightning = c
}

// SetRegtest installs a chain facade built elsewhere. The harness closes it.
func (h *Harness) SetRegtest(r *regtest.Regtest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chain = r
}

// Close releases resources in reverse order of creation. Every resource is
// released even if an earlier one fails.
func (h *Harness) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	if h.lightning != nil {
		if err := h.lightning.Close(); err != nil {
			errs = append(errs, err)
		}
		h.lightning = nil
	}
	if h.monitor != nil {
		h.monitor.Stop()
		h.monitor = nil
	}
	if h.chain != nil {
		if err := h.chain.Close(); err != nil {
			errs = append(errs, err)
		}
		h.chain = nil
	}
	for _, err := range errs {
		log.Debugf("teardown: %v", err)
	}
	return errors.Join(errs...)
}
