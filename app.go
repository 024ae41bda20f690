// Package sash maps a single-threaded platform event loop onto one worker
// goroutine per window. The dispatcher goroutine owns the platform loop and
// never blocks on application code; each window's behavior runs on its own
// worker, fed through a bounded mailbox.
package sash

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/sashkit/sash/config"
	"github.com/sashkit/sash/platform"
)

// MessageCallback handles application-level messages sent through App.Send.
// It runs on the dispatcher goroutine and must not block on window workers.
type MessageCallback func(message any, app *ExecutingApp) any

// ErrorCallback receives failures that have no synchronous requester, such
// as window initialization errors.
type ErrorCallback func(err error)

// Options configures a PendingApp. The zero value selects the built-in
// config and the default slog logger.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	OnMessage MessageCallback
	OnError   ErrorCallback
}

// appState is shared by every handle to one application.
type appState struct {
	driver platform.Driver
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	exited  bool
	pending []loopMessage

	windows *windowRegistry
	done    chan struct{}
}

// post routes a control message to the dispatcher. Messages sent before the
// loop starts are buffered and flushed in order once it does.
func (s *appState) post(m loopMessage) error {
	s.mu.Lock()
	if s.exited {
		s.mu.Unlock()
		return ErrNotRunning
	}
	if !s.running {
		s.pending = append(s.pending, m)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.driver.Post(m)
}

// shutdown marks the loop as gone, wakes blocked senders, and closes every
// remaining window mailbox so workers drain and exit.
func (s *appState) shutdown() {
	s.mu.Lock()
	if s.exited {
		s.mu.Unlock()
		return
	}
	s.exited = true
	s.pending = nil
	s.mu.Unlock()
	close(s.done)

	for _, id := range s.windows.ids() {
		if entry, ok := s.windows.get(id); ok {
			entry.mb.Close()
		}
	}
}

// PendingApp is an application that has not started its event loop yet.
// Windows opened before Run are queued and created once the loop starts.
type PendingApp struct {
	st *appState

	onMessage MessageCallback
	onError   ErrorCallback
}

// New creates an application on top of the given platform driver with
// default options.
func New(driver platform.Driver) *PendingApp {
	return NewWithOptions(driver, Options{})
}

// NewWithOptions creates an application with explicit options.
func NewWithOptions(driver platform.Driver, opts Options) *PendingApp {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PendingApp{
		st: &appState{
			driver:  driver,
			cfg:     cfg,
			logger:  logger,
			windows: newWindowRegistry(logger),
			done:    make(chan struct{}),
		},
		onMessage: opts.OnMessage,
		onError:   opts.OnError,
	}
}

func (p *PendingApp) app() App { return App{st: p.st} }

// App returns a thread-safe handle usable from any goroutine, including
// before Run is called.
func (p *PendingApp) App() App { return App{st: p.st} }

// Run drives the platform event loop on the calling goroutine until the last
// window closes and no shutdown guards remain. It returns the process exit
// code: zero for a clean shutdown, the configured panic exit code when a
// window worker faulted. Callers normally pass the result to os.Exit.
func (p *PendingApp) Run() int {
	// Platform loops require a stable OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r := &runningApp{
		st:        p.st,
		onMessage: p.onMessage,
		onError:   p.onError,
	}
	code := p.st.driver.Run(r)
	p.st.shutdown()
	if r.faulted && code == 0 {
		code = p.st.cfg.PanicExitCode
	}
	return code
}

// App is a cheap, copyable, thread-safe handle to a running (or pending)
// application.
type App struct {
	st *appState
}

func (a App) app() App { return a }

// Send delivers a message to the application's message callback on the
// dispatcher and waits for the response. ok is false when the loop is not
// running or exits before responding.
func (a App) Send(message any) (response any, ok bool) {
	a.st.mu.Lock()
	live := a.st.running && !a.st.exited
	a.st.mu.Unlock()
	if !live {
		return nil, false
	}

	reply := make(chan any, 1)
	if err := a.st.driver.Post(appMessage{message: message, reply: reply}); err != nil {
		return nil, false
	}
	select {
	case resp := <-reply:
		return resp, true
	case <-a.st.done:
		return nil, false
	}
}

// PreventShutdown keeps the event loop alive while no windows are open. The
// returned guard must be released; releases beyond the first are no-ops.
func (a App) PreventShutdown() *ShutdownGuard {
	g := &ShutdownGuard{st: a.st}
	if err := a.st.post(guardAcquire{}); err != nil {
		// Loop already exited; hand back a released guard.
		g.once.Do(func() {})
	}
	return g
}

// BroadcastTheme delivers a theme change to every open window.
func (a App) BroadcastTheme(theme platform.Theme) error {
	return a.st.post(themeChanged{theme: theme})
}

// ExecutingApp is the dispatcher's view of the application, handed to the
// message callback. It must only be used during that callback.
type ExecutingApp struct {
	st *appState
}

func (e *ExecutingApp) app() App { return App{st: e.st} }

// App returns the thread-safe application handle.
func (e *ExecutingApp) App() App { return App{st: e.st} }

// WindowIDs lists the currently open windows.
func (e *ExecutingApp) WindowIDs() []platform.WindowID {
	return e.st.windows.ids()
}

// Window returns a handle to an open window.
func (e *ExecutingApp) Window(id platform.WindowID) (*Window, bool) {
	entry, ok := e.st.windows.get(id)
	if !ok {
		return nil, false
	}
	return &Window{opened: entry.opened, mb: entry.mb}, true
}

// runningApp is the platform.Handler driving the dispatcher. All methods run
// on the loop goroutine.
type runningApp struct {
	st        *appState
	onMessage MessageCallback
	onError   ErrorCallback

	faulted bool
}

// LoopStarted flips the app into running mode and flushes messages queued
// before the loop existed, in order.
func (r *runningApp) LoopStarted() {
	r.st.mu.Lock()
	r.st.running = true
	pending := r.st.pending
	r.st.pending = nil
	r.st.mu.Unlock()

	for _, m := range pending {
		r.handle(m)
	}
}

// WindowEvent routes a platform event to the owning window's mailbox without
// blocking the loop.
func (r *runningApp) WindowEvent(id platform.WindowID, event platform.Event) {
	r.st.windows.send(id, eventMessage{event: event})
}

func (r *runningApp) Message(msg any) {
	m, ok := msg.(loopMessage)
	if !ok {
		r.st.logger.Warn("dropping unknown loop message", "type", fmt.Sprintf("%T", msg))
		return
	}
	r.handle(m)
}

func (r *runningApp) handle(msg loopMessage) {
	switch m := msg.(type) {
	case openRequest:
		r.handleOpen(m)

	case closeWindow:
		win, shutdown := r.st.windows.close(m.id)
		if win != nil {
			win.Destroy()
		}
		if shutdown {
			r.exit()
		}

	case windowPanicked:
		r.st.logger.Error("window worker panicked",
			"window_id", m.id,
			"panic", m.err.Value,
			"stack", string(m.err.Stack))
		r.faulted = true
		win, shutdown := r.st.windows.close(m.id)
		if win != nil {
			win.Destroy()
		}
		if r.st.cfg.PanicPolicy == config.PanicExit || shutdown {
			r.exit()
		}

	case appMessage:
		var resp any
		if r.onMessage != nil {
			resp = r.onMessage(m.message, &ExecutingApp{st: r.st})
		}
		m.reply <- resp

	case appError:
		if r.onError != nil {
			r.onError(m.err)
		} else {
			r.st.logger.Warn("unhandled application error", "error", m.err)
		}

	case guardAcquire:
		r.st.windows.preventShutdown()

	case guardRelease:
		if r.st.windows.allowShutdown() {
			r.exit()
		}

	case themeChanged:
		for _, id := range r.st.windows.ids() {
			r.st.windows.send(id, eventMessage{event: platform.ThemeChanged{Theme: m.theme}})
		}
	}
}

func (r *runningApp) handleOpen(req openRequest) {
	win, err := r.st.windows.open(r.st.driver, req.attrs, req.mb, req.opened)
	if err != nil {
		if req.reply != nil {
			req.reply <- openReply{err: err}
		} else if r.onError != nil {
			r.onError(err)
		} else {
			r.st.logger.Error("failed to open queued window", "error", err)
		}
		return
	}
	req.spawn(win)
	if req.reply != nil {
		req.reply <- openReply{win: win}
	}
}

func (r *runningApp) exit() {
	code := 0
	if r.faulted {
		code = r.st.cfg.PanicExitCode
	}
	r.st.driver.Exit(code)
}
