// Package driver declares what wallet scenarios need from a mobile UI
// automation backend. Scenarios address elements by their test id.
package driver

import (
	"context"
	"fmt"
	"time"
)

type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Driver is implemented by the device automation backend.
type Driver interface {
	Tap(ctx context.Context, id string) error
	TypeText(ctx context.Context, id, text string) error
	Swipe(ctx context.Context, id string, dir Direction) error
	// Text returns the visible text of the element.
	Text(ctx context.Context, id string) (string, error)
	// WaitForElement blocks until the element is displayed or timeout passes.
	WaitForElement(ctx context.Context, id string, timeout time.Duration) error
}

// ElementNotFoundError is returned when an element never became visible.
type ElementNotFoundError struct {
	ID      string
	Timeout time.Duration
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %q not displayed within %v", e.ID, e.Timeout)
}
