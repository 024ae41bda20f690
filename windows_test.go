package sash

import (
	"testing"

	"github.com/sashkit/sash/internal/mailbox"
	"github.com/sashkit/sash/platform"
	"github.com/sashkit/sash/platform/headless"
)

func newTestEntry(t *testing.T, r *windowRegistry, driver *headless.Driver, capacity int) (platform.WindowID, *windowEntry) {
	t.Helper()
	mb := mailbox.New[windowMessage](capacity)
	opened := &openedWindow{}
	win, err := r.open(driver, platform.DefaultAttributes(), mb, opened)
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	entry, ok := r.get(win.ID())
	if !ok {
		t.Fatalf("window %d missing from registry after open", win.ID())
	}
	return win.ID(), entry
}

func TestRegistryCloseReportsShutdownOnLastWindow(t *testing.T) {
	driver := headless.New()
	r := newWindowRegistry(quietLogger())

	idA, _ := newTestEntry(t, r, driver, 4)
	idB, _ := newTestEntry(t, r, driver, 4)

	if win, shutdown := r.close(idA); shutdown {
		t.Fatalf("shutdown signaled with a window still open")
	} else if win == nil {
		t.Fatalf("close did not hand back the platform window")
	}
	if _, shutdown := r.close(idB); !shutdown {
		t.Fatalf("closing the last window should signal shutdown")
	}
}

func TestRegistryGuardsBlockShutdown(t *testing.T) {
	driver := headless.New()
	r := newWindowRegistry(quietLogger())

	r.preventShutdown()
	id, _ := newTestEntry(t, r, driver, 4)

	if _, shutdown := r.close(id); shutdown {
		t.Fatalf("shutdown signaled while a guard is held")
	}
	if !r.allowShutdown() {
		t.Fatalf("releasing the last guard with no windows should signal shutdown")
	}
}

func TestRegistrySendDropsWhenFull(t *testing.T) {
	driver := headless.New()
	r := newWindowRegistry(quietLogger())

	id, entry := newTestEntry(t, r, driver, 2)
	for i := 0; i < 5; i++ {
		r.send(id, eventMessage{event: platform.RedrawRequested{}})
	}
	if entry.mb.Len() != 2 {
		t.Fatalf("expected 2 queued messages, got %d", entry.mb.Len())
	}
	// The registry entry survives drops.
	if _, ok := r.get(id); !ok {
		t.Fatalf("entry removed after overflow drops")
	}
}

func TestRegistrySendToDeadWorkerTearsDownWindow(t *testing.T) {
	driver := headless.New()
	r := newWindowRegistry(quietLogger())

	id, entry := newTestEntry(t, r, driver, 2)
	handle := &Window{opened: entry.opened, mb: entry.mb}
	entry.mb.Close()

	// An event racing into the gap between the worker closing its mailbox
	// and the dispatcher processing the close must not leave a half-dead
	// window behind.
	r.send(id, eventMessage{event: platform.RedrawRequested{}})
	if _, ok := r.get(id); ok {
		t.Fatalf("entry for a dead worker should be removed on send")
	}
	if _, ok := driver.LookupWindow(id); ok {
		t.Fatalf("platform window %d never destroyed after lazy removal", id)
	}
	if _, ok := handle.ID(); ok {
		t.Fatalf("handle still reports a live window id after lazy removal")
	}

	// The worker's close notification arrives afterwards and finds nothing
	// left to tear down.
	win, _ := r.close(id)
	if win != nil {
		t.Fatalf("close found a platform window after lazy teardown")
	}
}

func TestRegistryCloseUnknownWindow(t *testing.T) {
	r := newWindowRegistry(quietLogger())
	win, shutdown := r.close(99)
	if win != nil {
		t.Fatalf("expected no window for unknown id")
	}
	if !shutdown {
		t.Fatalf("empty registry with no guards should report shutdown")
	}
}
