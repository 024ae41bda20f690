package sash

import (
	"sync"

	"github.com/sashkit/sash/platform"
)

// openedWindow is the shared cell through which Window handles reach the
// live platform window. It is empty before the dispatcher has created the
// window and again after the window closes, so stale handles observe
// "closed" instead of touching a destroyed platform object.
type openedWindow struct {
	mu  sync.Mutex
	win platform.Window
}

func (o *openedWindow) get() platform.Window {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.win
}

func (o *openedWindow) set(win platform.Window) {
	o.mu.Lock()
	o.win = win
	o.mu.Unlock()
}

// invalidate empties the cell and returns the previous occupant, if any.
func (o *openedWindow) invalidate() platform.Window {
	o.mu.Lock()
	win := o.win
	o.win = nil
	o.mu.Unlock()
	return win
}
