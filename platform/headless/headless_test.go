package headless

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sashkit/sash/platform"
)

// loopHandler records everything the driver dispatches and exits the loop
// when it sees the stop sentinel.
type loopHandler struct {
	driver *Driver

	mu      sync.Mutex
	started bool
	msgs    []any
	events  []platform.Event
}

type stop struct{ code int }

func (h *loopHandler) LoopStarted() {
	h.mu.Lock()
	h.started = true
	h.mu.Unlock()
}

func (h *loopHandler) WindowEvent(_ platform.WindowID, ev platform.Event) {
	h.mu.Lock()
	h.events = append(h.events, ev)
	h.mu.Unlock()
}

func (h *loopHandler) Message(msg any) {
	if s, ok := msg.(stop); ok {
		h.driver.Exit(s.code)
		return
	}
	h.mu.Lock()
	h.msgs = append(h.msgs, msg)
	h.mu.Unlock()
}

func TestRunDispatchesInOrderAndExits(t *testing.T) {
	driver := New()
	h := &loopHandler{driver: driver}

	codeCh := make(chan int, 1)
	go func() { codeCh <- driver.Run(h) }()

	for i := 0; i < 3; i++ {
		if err := driver.Post(i); err != nil {
			t.Fatalf("post %d failed: %v", i, err)
		}
	}
	if err := driver.Post(stop{code: 7}); err != nil {
		t.Fatalf("post stop failed: %v", err)
	}

	select {
	case code := <-codeCh:
		if code != 7 {
			t.Fatalf("expected exit code 7, got %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("loop did not exit")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.started {
		t.Fatalf("LoopStarted never fired")
	}
	if len(h.msgs) != 3 || h.msgs[0] != 0 || h.msgs[1] != 1 || h.msgs[2] != 2 {
		t.Fatalf("messages out of order: %v", h.msgs)
	}

	if err := driver.Post("late"); !errors.Is(err, platform.ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed after exit, got %v", err)
	}
}

func TestCreateWindowHonorsAttributes(t *testing.T) {
	driver := New()
	attrs := platform.DefaultAttributes()
	attrs.Title = "probe"
	size := platform.Size{Width: 320, Height: 200}
	attrs.InnerSize = &size
	attrs.MinInnerSize = &platform.Size{Width: 100, Height: 100}

	win, err := driver.CreateWindow(attrs)
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if win.Title() != "probe" {
		t.Fatalf("expected title probe, got %q", win.Title())
	}
	if win.InnerSize() != size {
		t.Fatalf("expected size %v, got %v", size, win.InnerSize())
	}

	// Requests are clamped to the min constraint and applied synchronously.
	applied, ok := win.RequestInnerSize(platform.Size{Width: 10, Height: 10})
	if !ok {
		t.Fatalf("headless resize should apply synchronously")
	}
	if applied != (platform.Size{Width: 100, Height: 100}) {
		t.Fatalf("expected clamped size 100x100, got %v", applied)
	}
}

func TestDestroyDeliversDestroyedOnce(t *testing.T) {
	driver := New()
	h := &loopHandler{driver: driver}
	codeCh := make(chan int, 1)
	go func() { codeCh <- driver.Run(h) }()

	win, err := driver.CreateWindow(platform.DefaultAttributes())
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	win.Destroy()
	win.Destroy()
	_ = driver.Post(stop{})
	<-codeCh

	h.mu.Lock()
	defer h.mu.Unlock()
	destroyed := 0
	for _, ev := range h.events {
		if _, ok := ev.(platform.Destroyed); ok {
			destroyed++
		}
	}
	if destroyed != 1 {
		t.Fatalf("expected exactly one Destroyed event, got %d", destroyed)
	}
}

func TestMonitorsDefault(t *testing.T) {
	driver := New()
	monitors, err := driver.Monitors()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(monitors) != 1 || monitors[0].Bounds.Width != 1920 {
		t.Fatalf("unexpected default monitors: %v", monitors)
	}
}
