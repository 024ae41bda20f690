package sash

import (
	"errors"

	"github.com/sashkit/sash/internal/mailbox"
	"github.com/sashkit/sash/platform"
)

// Application is anything that can open windows: a PendingApp before Run, an
// App handle, a RunningWindow worker, or the dispatcher's ExecutingApp view.
type Application interface {
	app() App
}

// Window is a thread-safe handle to an open window. It holds no strong
// claim on the window: sends to a closed window fail instead of keeping the
// worker alive.
type Window struct {
	opened *openedWindow
	mb     *mailbox.Mailbox[windowMessage]
}

// ID returns the window's platform identifier, or false if the window has
// not been created yet or is already closed.
func (w *Window) ID() (platform.WindowID, bool) {
	win := w.opened.get()
	if win == nil {
		return 0, false
	}
	return win.ID(), true
}

// Send delivers a message to the window's behavior. It never blocks: the
// caller keeps the message on failure, with ErrWindowClosed once the window
// is gone and ErrMailboxFull when its queue has no room.
func (w *Window) Send(message any) error {
	switch err := w.mb.TrySend(userMessage{value: message}); {
	case err == nil:
		return nil
	case errors.Is(err, mailbox.ErrFull):
		return ErrMailboxFull
	default:
		return ErrWindowClosed
	}
}

// WindowBuilder configures a window before opening it. Mutate Attrs freely,
// then call Open.
type WindowBuilder struct {
	// Attrs is the window's initial configuration.
	Attrs platform.Attributes

	owner App
	init  InitFunc
}

// NewWindow prepares a window owned by app. init runs on the window's worker
// goroutine once the platform window exists.
func NewWindow(owner Application, init InitFunc) *WindowBuilder {
	return &WindowBuilder{
		Attrs: platform.DefaultAttributes(),
		owner: owner.app(),
		init:  init,
	}
}

// NewWindowWithBehavior prepares a window whose behavior is already
// constructed.
func NewWindowWithBehavior(owner Application, behavior Behavior) *WindowBuilder {
	return NewWindow(owner, func(*RunningWindow) (Behavior, error) {
		return behavior, nil
	})
}

// Open requests the window's creation from the event loop and returns a
// handle to it.
//
// When the loop is already running, Open blocks until the platform window
// exists and returns any creation error. Before the loop starts, the request
// is queued and Open returns immediately; a creation failure at flush time is
// reported through the application error callback instead.
func (b *WindowBuilder) Open() (*Window, error) {
	st := b.owner.st
	attrs := b.Attrs

	// Show-after-init: create hidden, make visible after the first frame.
	if attrs.DelayVisible && attrs.Visible {
		attrs.Visible = false
	} else {
		attrs.DelayVisible = false
	}

	mb := mailbox.New[windowMessage](st.cfg.MailboxCapacity)
	opened := &openedWindow{}
	handle := &Window{opened: opened, mb: mb}
	appH := b.owner
	init := b.init

	spawn := func(win platform.Window) {
		rw := newRunningWindow(win, opened, mb, appH, attrs, st.logger)
		go rw.run(init)
	}

	req := openRequest{attrs: attrs, mb: mb, opened: opened, spawn: spawn}

	st.mu.Lock()
	if st.exited {
		st.mu.Unlock()
		return nil, ErrNotRunning
	}
	if !st.running {
		st.pending = append(st.pending, req)
		st.mu.Unlock()
		return handle, nil
	}
	st.mu.Unlock()

	reply := make(chan openReply, 1)
	req.reply = reply
	if err := st.driver.Post(req); err != nil {
		if errors.Is(err, platform.ErrLoopClosed) {
			return nil, ErrNotRunning
		}
		return nil, err
	}
	select {
	case r := <-reply:
		if r.err != nil {
			return nil, r.err
		}
		return handle, nil
	case <-st.done:
		return nil, ErrNotRunning
	}
}
