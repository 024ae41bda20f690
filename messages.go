package sash

import (
	"github.com/sashkit/sash/internal/mailbox"
	"github.com/sashkit/sash/platform"
)

// windowMessage is what flows through a window's mailbox: either a platform
// event routed by the dispatcher or a user message from a Window handle.
// FIFO per window; no ordering across windows.
type windowMessage interface {
	isWindowMessage()
}

type userMessage struct {
	value any
}

type eventMessage struct {
	event platform.Event
}

func (userMessage) isWindowMessage()  {}
func (eventMessage) isWindowMessage() {}

// loopMessage is a control message injected into the dispatcher through the
// driver's proxy channel (or buffered until the loop starts).
type loopMessage interface {
	isLoopMessage()
}

// openRequest asks the dispatcher to allocate a platform window. reply is
// nil for requests buffered before the loop started; creation errors for
// those are routed to the application error callback instead.
type openRequest struct {
	attrs  platform.Attributes
	mb     *mailbox.Mailbox[windowMessage]
	opened *openedWindow
	// spawn starts the worker once the platform window exists. Supplied by
	// the builder so dispatcher-initiated and worker-initiated opens follow
	// the same path.
	spawn func(win platform.Window)
	reply chan openReply
}

type openReply struct {
	win platform.Window
	err error
}

// closeWindow reports a worker's normal termination.
type closeWindow struct {
	id platform.WindowID
}

// windowPanicked reports a worker fault, distinct from a normal close.
type windowPanicked struct {
	id  platform.WindowID
	err *PanicError
}

// appMessage carries a user application message and its one-shot reply
// channel (buffered, capacity 1).
type appMessage struct {
	message any
	reply   chan any
}

// appError carries a failure with no synchronous requester, e.g. a behavior
// initialization error.
type appError struct {
	err error
}

type guardAcquire struct{}

type guardRelease struct{}

// themeChanged broadcasts a system theme change to every open window.
type themeChanged struct {
	theme platform.Theme
}

func (openRequest) isLoopMessage()    {}
func (closeWindow) isLoopMessage()    {}
func (windowPanicked) isLoopMessage() {}
func (appMessage) isLoopMessage()     {}
func (appError) isLoopMessage()       {}
func (guardAcquire) isLoopMessage()   {}
func (guardRelease) isLoopMessage()   {}
func (themeChanged) isLoopMessage()   {}
