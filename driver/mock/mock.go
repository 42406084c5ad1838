// Package mock provides a driver that records calls instead of touching a
// device.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/synonymdev/bitkit-e2e-tests-sub000/driver"
)

// Call is one recorded driver invocation.
type Call struct {
	Method string
	ID     string
	Arg    string
}

// Driver is a mock implementation of driver.Driver.
type Driver struct {
	mu sync.Mutex

	// Texts answers Text calls by element id.
	Texts map[string]string
	// Visible lists the ids WaitForElement finds. A nil map finds everything.
	Visible map[string]bool
	// FailOn makes every call on that element id fail.
	FailOn string

	calls []Call
}

var _ driver.Driver = (*Driver)(nil)

func New() *Driver {
	return &Driver{Texts: map[string]string{}}
}

// SetText changes what Text returns for id, e.g. after a simulated refresh.
func (d *Driver) SetText(id, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Texts[id] = text
}

// Calls returns a copy of the recorded calls.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

func (d *Driver) record(method, id, arg string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Method: method, ID: id, Arg: arg})
	if d.FailOn != "" && d.FailOn == id {
		return fmt.Errorf("mock failure on %s(%s)", method, id)
	}
	return nil
}

func (d *Driver) Tap(_ context.Context, id string) error {
	return d.record("Tap", id, "")
}

func (d *Driver) TypeText(_ context.Context, id, text string) error {
	return d.record("TypeText", id, text)
}

func (d *Driver) Swipe(_ context.Context, id string, dir driver.Direction) error {
	return d.record("Swipe", id, string(dir))
}

func (d *Driver) Text(_ context.Context, id string) (string, error) {
	if err := d.record("Text", id, ""); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	text, ok := d.Texts[id]
	if !ok {
		return "", &driver.ElementNotFoundError{ID: id}
	}
	return text, nil
}

func (d *Driver) WaitForElement(_ context.Context, id string, timeout time.Duration) error {
	if err := d.record("WaitForElement", id, timeout.String()); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Visible != nil && !d.Visible[id] {
		return &driver.ElementNotFoundError{ID: id, Timeout: timeout}
	}
	return nil
}
