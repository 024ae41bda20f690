// Package mailbox provides the bounded multi-producer single-consumer queue
// that carries routed events from the dispatcher to a window worker.
//
// Producers never block: TrySend fails fast when the queue is full (the
// caller drops the message) or when the consumer has closed the mailbox.
// The single consumer owns the receive side and is the only party allowed
// to call Close.
package mailbox

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrFull is returned by TrySend when the mailbox is at capacity.
	ErrFull = errors.New("mailbox: full")
	// ErrClosed is returned by sends after the consumer closed the mailbox.
	ErrClosed = errors.New("mailbox: closed")
)

// Mailbox is a bounded FIFO queue. Sends are safe from any goroutine;
// receives belong to exactly one consumer goroutine.
type Mailbox[T any] struct {
	ch        chan T
	done      chan struct{}
	closeOnce sync.Once
}

// New returns a mailbox holding at most capacity messages.
func New[T any](capacity int) *Mailbox[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Mailbox[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
	}
}

// TrySend enqueues v without blocking. It returns ErrFull when the mailbox
// is at capacity and ErrClosed when the consumer has gone.
func (m *Mailbox[T]) TrySend(v T) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}
	select {
	case m.ch <- v:
		return nil
	case <-m.done:
		return ErrClosed
	default:
		return ErrFull
	}
}

// Send enqueues v, waiting for space if necessary. It returns ErrClosed if
// the mailbox closes before the message is accepted.
func (m *Mailbox[T]) Send(v T) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}
	select {
	case m.ch <- v:
		return nil
	case <-m.done:
		return ErrClosed
	}
}

// TryRecv returns the next message without blocking.
func (m *Mailbox[T]) TryRecv() (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Recv blocks until a message arrives.
func (m *Mailbox[T]) Recv() (T, bool) {
	select {
	case v := <-m.ch:
		return v, true
	case <-m.done:
		// Drain anything enqueued before the close.
		select {
		case v := <-m.ch:
			return v, true
		default:
			var zero T
			return zero, false
		}
	}
}

// RecvTimeout blocks up to d for a message. ok is false when the deadline
// passed, or the mailbox closed, with nothing left to deliver.
func (m *Mailbox[T]) RecvTimeout(d time.Duration) (T, bool) {
	if d <= 0 {
		return m.TryRecv()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case v := <-m.ch:
		return v, true
	case <-timer.C:
		var zero T
		return zero, false
	case <-m.done:
		// Drain anything enqueued before the close.
		select {
		case v := <-m.ch:
			return v, true
		default:
			var zero T
			return zero, false
		}
	}
}

// Close marks the mailbox closed, failing all future sends and unblocking
// any sender waiting for space. Only the consumer may call Close. Idempotent.
func (m *Mailbox[T]) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

// Closed reports whether Close has been called.
func (m *Mailbox[T]) Closed() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// Len returns a snapshot of the number of queued messages.
func (m *Mailbox[T]) Len() int {
	return len(m.ch)
}

// Cap returns the mailbox capacity.
func (m *Mailbox[T]) Cap() int {
	return cap(m.ch)
}
