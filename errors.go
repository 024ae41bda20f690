package sash

import (
	"errors"
	"fmt"
)

var (
	// ErrWindowClosed is returned by Window.Send when the target window's
	// mailbox no longer exists.
	ErrWindowClosed = errors.New("sash: window closed")

	// ErrMailboxFull is returned by Window.Send when the target window's
	// mailbox has no room; the message is not delivered.
	ErrMailboxFull = errors.New("sash: window mailbox full")

	// ErrNotRunning is returned by operations that need a live event loop
	// when the loop has already exited.
	ErrNotRunning = errors.New("sash: event loop not running")
)

// PanicError carries a panic recovered at a window worker's boundary. It is
// reported to the dispatcher as a distinguished termination signal, never
// re-raised across the goroutine boundary.
type PanicError struct {
	// Value is the value the behavior panicked with.
	Value any
	// Stack is the worker goroutine's stack at recovery time.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("window panicked: %v", e.Value)
}
