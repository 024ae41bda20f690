package sash

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/sashkit/sash/internal/mailbox"
	"github.com/sashkit/sash/platform"
)

// windowEntry pairs a window's mailbox with the shared cell that handles use
// to reach the live platform window.
type windowEntry struct {
	opened *openedWindow
	mb     *mailbox.Mailbox[windowMessage]
}

// windowRegistry tracks every open window plus the count of outstanding
// shutdown guards. All map access happens under mu; platform calls (window
// creation, destruction) happen outside it.
type windowRegistry struct {
	logger *slog.Logger

	mu      sync.Mutex
	windows map[platform.WindowID]*windowEntry
	guards  int
}

func newWindowRegistry(logger *slog.Logger) *windowRegistry {
	return &windowRegistry{
		logger:  logger,
		windows: make(map[platform.WindowID]*windowEntry),
	}
}

// open creates the platform window and registers it. Creation runs outside
// the lock; the identifier only exists once creation succeeds, so no close
// for it can race the insert.
func (r *windowRegistry) open(driver platform.Driver, attrs platform.Attributes, mb *mailbox.Mailbox[windowMessage], opened *openedWindow) (platform.Window, error) {
	win, err := driver.CreateWindow(attrs)
	if err != nil {
		return nil, err
	}
	opened.set(win)
	r.mu.Lock()
	r.windows[win.ID()] = &windowEntry{opened: opened, mb: mb}
	r.mu.Unlock()
	return win, nil
}

// send delivers a message to a window's mailbox without ever blocking. A
// full mailbox drops the message; a closed mailbox means the worker is gone,
// so the entry gets the same teardown a close performs: removal, handle
// invalidation and destruction of the platform window. The worker's pending
// close notification still reaches the dispatcher, which finds no entry and
// only evaluates the shutdown condition.
func (r *windowRegistry) send(id platform.WindowID, msg windowMessage) {
	r.mu.Lock()
	entry, ok := r.windows[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	err := entry.mb.TrySend(msg)
	switch {
	case err == nil:
		r.mu.Unlock()
	case errors.Is(err, mailbox.ErrFull):
		r.mu.Unlock()
		r.logger.Warn("window mailbox full, dropping message", "window_id", id)
	default:
		delete(r.windows, id)
		r.mu.Unlock()
		if win := entry.opened.invalidate(); win != nil {
			win.Destroy()
		}
	}
}

// close removes the window and reports whether the loop should shut down
// (no windows left and no shutdown guards held). The returned platform
// window, if any, still needs destroying by the caller.
func (r *windowRegistry) close(id platform.WindowID) (platform.Window, bool) {
	r.mu.Lock()
	entry, ok := r.windows[id]
	if ok {
		delete(r.windows, id)
	}
	shutdown := len(r.windows) == 0 && r.guards == 0
	r.mu.Unlock()
	if !ok {
		return nil, shutdown
	}
	return entry.opened.invalidate(), shutdown
}

func (r *windowRegistry) get(id platform.WindowID) (*windowEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.windows[id]
	return entry, ok
}

func (r *windowRegistry) ids() []platform.WindowID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]platform.WindowID, 0, len(r.windows))
	for id := range r.windows {
		ids = append(ids, id)
	}
	return ids
}

func (r *windowRegistry) preventShutdown() {
	r.mu.Lock()
	r.guards++
	r.mu.Unlock()
}

// allowShutdown releases one guard and reports whether the loop should shut
// down now.
func (r *windowRegistry) allowShutdown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.guards > 0 {
		r.guards--
	}
	return r.guards == 0 && len(r.windows) == 0
}
