package mailbox

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTrySendPreservesFIFO(t *testing.T) {
	m := New[int](8)
	for i := 0; i < 5; i++ {
		if err := m.TrySend(i); err != nil {
			t.Fatalf("unexpected send error: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		v, ok := m.TryRecv()
		if !ok {
			t.Fatalf("expected message %d, mailbox empty", i)
		}
		if v != i {
			t.Fatalf("expected %d, got %d", i, v)
		}
	}
	if _, ok := m.TryRecv(); ok {
		t.Fatalf("expected empty mailbox")
	}
}

func TestTrySendFullDropsWithoutBlocking(t *testing.T) {
	m := New[int](2)
	if err := m.TrySend(1); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if err := m.TrySend(2); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if err := m.TrySend(3); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	// The queued messages are untouched by the failed send.
	if v, ok := m.TryRecv(); !ok || v != 1 {
		t.Fatalf("expected 1, got %d (ok=%v)", v, ok)
	}
}

func TestSendAfterCloseFails(t *testing.T) {
	m := New[int](2)
	m.Close()
	if err := m.TrySend(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from TrySend, got %v", err)
	}
	if err := m.Send(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Send, got %v", err)
	}
}

func TestCloseUnblocksPendingSend(t *testing.T) {
	m := New[int](1)
	if err := m.TrySend(1); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Send(2) // blocks: mailbox full
	}()

	time.Sleep(10 * time.Millisecond)
	m.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Send did not unblock after Close")
	}
}

func TestRecvTimeoutExpires(t *testing.T) {
	m := New[int](1)
	start := time.Now()
	if _, ok := m.RecvTimeout(20 * time.Millisecond); ok {
		t.Fatalf("expected timeout, got a message")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("RecvTimeout returned after %v, before the deadline", elapsed)
	}
}

func TestRecvTimeoutDeliversEarly(t *testing.T) {
	m := New[int](1)
	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = m.TrySend(42)
	}()
	v, ok := m.RecvTimeout(time.Second)
	if !ok || v != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", v, ok)
	}
}

func TestRecvTimeoutDrainsMessagesEnqueuedBeforeClose(t *testing.T) {
	m := New[int](4)
	if err := m.TrySend(9); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	m.Close()

	// The queued message survives the close and beats the deadline.
	if v, ok := m.RecvTimeout(time.Hour); !ok || v != 9 {
		t.Fatalf("expected 9 after close, got %d (ok=%v)", v, ok)
	}
	// Once drained, a closed mailbox reports failure immediately instead of
	// waiting out the deadline.
	start := time.Now()
	if _, ok := m.RecvTimeout(10 * time.Second); ok {
		t.Fatalf("expected closed mailbox to report no message")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("RecvTimeout waited %v on a closed, drained mailbox", elapsed)
	}
}

func TestRecvDrainsMessagesEnqueuedBeforeClose(t *testing.T) {
	m := New[int](4)
	if err := m.TrySend(7); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	m.Close()
	if v, ok := m.Recv(); !ok || v != 7 {
		t.Fatalf("expected 7 after close, got %d (ok=%v)", v, ok)
	}
	if _, ok := m.Recv(); ok {
		t.Fatalf("expected drained mailbox to report closed")
	}
}

func TestConcurrentProducersAllAcceptedUpToCapacity(t *testing.T) {
	const capacity = 128
	m := New[int](capacity)

	var wg sync.WaitGroup
	var accepted, rejected int64
	var mu sync.Mutex
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 32; i++ {
				err := m.TrySend(base + i)
				mu.Lock()
				if err == nil {
					accepted++
				} else {
					rejected++
				}
				mu.Unlock()
			}
		}(p * 100)
	}
	wg.Wait()

	// 8 producers * 32 sends = 256 attempts against capacity 128.
	if accepted != capacity {
		t.Fatalf("expected %d accepted, got %d", capacity, accepted)
	}
	if rejected != 256-capacity {
		t.Fatalf("expected %d rejected, got %d", 256-capacity, rejected)
	}
	if m.Len() != capacity {
		t.Fatalf("expected Len %d, got %d", capacity, m.Len())
	}
}
