// Package electrum waits for an electrum server to catch up with the regtest
// node before a scenario asserts on wallet state.
package electrum

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultPollInterval = 1 * time.Second
	DefaultSeedTimeout  = 10 * time.Second
	DefaultRemoteDelay  = 5 * time.Second
)

// ErrMonitorStopped is returned by WaitForSync after Stop.
var ErrMonitorStopped = errors.New("electrum sync monitor stopped")

// State of a sync monitor.
type State int32

const (
	StateUninitialized State = iota
	StateSubscribed
	StateSynced
	StateTimedOut
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSubscribed:
		return "subscribed"
	case StateSynced:
		return "synced"
	case StateTimedOut:
		return "timed out"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// HeightSource reports the chain node's current block count. Every call must
// hit the node, cached values would confirm sync too early.
type HeightSource interface {
	BlockCount(ctx context.Context) (int64, error)
}

// Monitor compares the electrum tip against the node tip.
type Monitor interface {
	// WaitForSync blocks until both heights are equal or timeout elapses.
	WaitForSync(ctx context.Context, timeout time.Duration) error
	// Height is the last tip pushed by the electrum server.
	Height() int64
	State() State
	// Stop releases the connection. Safe to call more than once.
	Stop()
}

// SyncTimeoutError means electrum never reported the node's height in time.
type SyncTimeoutError struct {
	Timeout        time.Duration
	Elapsed        time.Duration
	ElectrumHeight int64
	NodeHeight     int64
}

func (e *SyncTimeoutError) Error() string {
	return fmt.Sprintf("electrum not synced after %v (timeout %v): electrum height %d, node height %d",
		e.Elapsed.Round(time.Millisecond), e.Timeout, e.ElectrumHeight, e.NodeHeight)
}
