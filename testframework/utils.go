package testframework

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net"
	"strconv"
	"strings"
	"time"
)

// WaitFunc returns just a bool value to check if
// the desired conditions are met.
type WaitFunc func() bool

// WaitFuncWithErr returns a bool value to check if
// the desired conditions are met. Also returns an
// error.
type WaitFuncWithErr func() (bool, error)

// WaitFor takes a WaitFunc and checks for true every
// 100ms.
func WaitFor(f WaitFunc, timeout time.Duration) error {
	return WaitForWithErr(func() (bool, error) {
		return f(), nil
	}, timeout)
}

// WaitForWithErr takes a WaitFuncWithErr and checks for true every
// 100ms. An error from f ends the wait.
func WaitForWithErr(f WaitFuncWithErr, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-timer.C:
			return fmt.Errorf("WaitFor reached timeout after %v", timeout)
		default:
			ok, err := f()
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// GenerateRandomString is used for unique invoice memos.
func GenerateRandomString(n int) (string, error) {
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"
	ret := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		ret[i] = letters[num.Int64()]
	}

	return string(ret), nil
}

// SplitLnAddr splits a node uri "pubkey@host:port".
func SplitLnAddr(addr string) (string, string, int, error) {
	parts := strings.Split(addr, "@")
	if len(parts) != 2 {
		return "", "", 0, fmt.Errorf("can not split addr `@` %s", addr)
	}
	host, portStr, err := net.SplitHostPort(parts[1])
	if err != nil {
		return "", "", 0, fmt.Errorf("can not split addr `:` %s", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", "", 0, fmt.Errorf("Atoi() %w", err)
	}
	return parts[0], host, port, nil
}
