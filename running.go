package sash

import (
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/sashkit/sash/internal/mailbox"
	"github.com/sashkit/sash/platform"
)

// redrawTarget tracks when the worker should next call Redraw. Merging is
// sooner-wins: an immediate request supersedes any schedule, and a scheduled
// time never moves later.
type redrawKind uint8

const (
	redrawNone redrawKind = iota
	redrawImmediate
	redrawScheduled
)

type redrawTarget struct {
	kind redrawKind
	at   time.Time
}

func (t *redrawTarget) setImmediate() {
	t.kind = redrawImmediate
}

func (t *redrawTarget) scheduleAt(at time.Time) {
	switch t.kind {
	case redrawImmediate:
	case redrawScheduled:
		if at.Before(t.at) {
			t.at = at
		}
	default:
		t.kind = redrawScheduled
		t.at = at
	}
}

// RunningWindow is a worker's view of its window. It caches the window state
// so behaviors read consistent values without platform round trips, and it is
// only safe to use from the goroutine running the window's behavior.
type RunningWindow struct {
	win    platform.Window
	opened *openedWindow
	mb     *mailbox.Mailbox[windowMessage]
	appH   App
	logger *slog.Logger

	redraw            redrawTarget
	closing           bool
	showAfterInit     bool
	activateAfterInit bool

	title      string
	innerSize  platform.Size
	outerSize  platform.Size
	innerPos   platform.Position
	outerPos   platform.Position
	cursor     *platform.CursorPosition
	scale      float64
	occluded   bool
	focused    bool
	theme      platform.Theme
	mods       platform.Modifiers
	keys       map[platform.KeyCode]struct{}
	buttons    map[platform.MouseButton]struct{}
}

func newRunningWindow(win platform.Window, opened *openedWindow, mb *mailbox.Mailbox[windowMessage], appH App, attrs platform.Attributes, logger *slog.Logger) *RunningWindow {
	return &RunningWindow{
		win:               win,
		opened:            opened,
		mb:                mb,
		appH:              appH,
		logger:            logger.With("window_id", win.ID()),
		showAfterInit:     attrs.DelayVisible,
		activateAfterInit: attrs.DelayVisible && attrs.Active,
		title:             win.Title(),
		innerSize:         win.InnerSize(),
		outerSize:         win.OuterSize(),
		innerPos:          win.InnerPosition(),
		outerPos:          win.OuterPosition(),
		scale:             win.Scale(),
		focused:           win.Focused(),
		theme:             win.Theme(),
		keys:              make(map[platform.KeyCode]struct{}),
		buttons:           make(map[platform.MouseButton]struct{}),
	}
}

// App returns a handle to the owning application.
func (w *RunningWindow) App() App { return w.appH }

func (w *RunningWindow) app() App { return w.appH }

// Handle returns a thread-safe handle that other goroutines can use to send
// messages to this window.
func (w *RunningWindow) Handle() *Window {
	return &Window{opened: w.opened, mb: w.mb}
}

// ID returns the platform identifier of this window.
func (w *RunningWindow) ID() platform.WindowID { return w.win.ID() }

// Platform exposes the underlying platform window for driver-specific needs.
func (w *RunningWindow) Platform() platform.Window { return w.win }

// SetNeedsRedraw requests a redraw as soon as queued events are handled.
func (w *RunningWindow) SetNeedsRedraw() {
	w.redraw.setImmediate()
}

// RedrawAt schedules a redraw no later than at. An earlier existing schedule
// wins.
func (w *RunningWindow) RedrawAt(at time.Time) {
	w.redraw.scheduleAt(at)
}

// RedrawIn schedules a redraw after the given duration.
func (w *RunningWindow) RedrawIn(d time.Duration) {
	w.RedrawAt(time.Now().Add(d))
}

// Close shuts the window down once the current callback returns. The
// decision is final.
func (w *RunningWindow) Close() {
	w.closing = true
	// Force the wait loop to return instead of blocking for more events.
	w.redraw.setImmediate()
}

// Title returns the cached window title.
func (w *RunningWindow) Title() string { return w.title }

// SetTitle updates the window title.
func (w *RunningWindow) SetTitle(title string) {
	w.title = title
	w.win.SetTitle(title)
}

// InnerSize returns the cached size of the window's client area.
func (w *RunningWindow) InnerSize() platform.Size { return w.innerSize }

// OuterSize returns the cached size of the window including decorations.
func (w *RunningWindow) OuterSize() platform.Size { return w.outerSize }

// InnerPosition returns the cached position of the client area.
func (w *RunningWindow) InnerPosition() platform.Position { return w.innerPos }

// OuterPosition returns the cached position of the window frame.
func (w *RunningWindow) OuterPosition() platform.Position { return w.outerPos }

// SetOuterPosition moves the window frame.
func (w *RunningWindow) SetOuterPosition(pos platform.Position) {
	w.win.SetOuterPosition(pos)
}

// RequestInnerSize asks the platform for a new client area size. When the
// platform applies it synchronously the cache updates immediately; otherwise
// a Resized event follows.
func (w *RunningWindow) RequestInnerSize(size platform.Size) {
	if applied, ok := w.win.RequestInnerSize(size); ok {
		w.innerSize = applied
		w.outerSize = w.win.OuterSize()
	}
}

// SetMinInnerSize constrains the client area's minimum size; nil removes the
// constraint.
func (w *RunningWindow) SetMinInnerSize(size *platform.Size) {
	w.win.SetMinInnerSize(size)
}

// SetMaxInnerSize constrains the client area's maximum size; nil removes the
// constraint.
func (w *RunningWindow) SetMaxInnerSize(size *platform.Size) {
	w.win.SetMaxInnerSize(size)
}

// CursorPosition returns the cached cursor position, or nil when the cursor
// is outside the window.
func (w *RunningWindow) CursorPosition() *platform.CursorPosition { return w.cursor }

// Scale returns the cached DPI scale factor.
func (w *RunningWindow) Scale() float64 { return w.scale }

// Occluded reports whether the window is currently hidden from view.
func (w *RunningWindow) Occluded() bool { return w.occluded }

// Focused reports whether the window has keyboard focus.
func (w *RunningWindow) Focused() bool { return w.focused }

// Theme returns the window's current light/dark theme.
func (w *RunningWindow) Theme() platform.Theme { return w.theme }

// Modifiers returns the currently held modifier keys.
func (w *RunningWindow) Modifiers() platform.Modifiers { return w.mods }

// KeyPressed reports whether the given key is currently held.
func (w *RunningWindow) KeyPressed(code platform.KeyCode) bool {
	_, ok := w.keys[code]
	return ok
}

// PressedKeys returns the keys currently held.
func (w *RunningWindow) PressedKeys() []platform.KeyCode {
	keys := make([]platform.KeyCode, 0, len(w.keys))
	for code := range w.keys {
		keys = append(keys, code)
	}
	return keys
}

// MouseButtonPressed reports whether the given mouse button is held.
func (w *RunningWindow) MouseButtonPressed(button platform.MouseButton) bool {
	_, ok := w.buttons[button]
	return ok
}

// PressedMouseButtons returns the mouse buttons currently held.
func (w *RunningWindow) PressedMouseButtons() []platform.MouseButton {
	buttons := make([]platform.MouseButton, 0, len(w.buttons))
	for b := range w.buttons {
		buttons = append(buttons, b)
	}
	return buttons
}

// runOutcome is the typed result of a worker's lifetime. At most one of
// initErr and fault is set; both nil means a normal close.
type runOutcome struct {
	initErr error
	fault   *PanicError
}

// run drives the window until it closes, then reports the outcome to the
// dispatcher. It owns the mailbox's consumer side and closes it on exit so
// producers observe the window as gone.
func (w *RunningWindow) run(init InitFunc) {
	id := w.win.ID()
	outcome := w.runBehavior(init)
	w.mb.Close()

	switch {
	case outcome.fault != nil:
		_ = w.appH.st.post(windowPanicked{id: id, err: outcome.fault})
	case outcome.initErr != nil:
		_ = w.appH.st.post(closeWindow{id: id})
		_ = w.appH.st.post(appError{err: outcome.initErr})
	default:
		_ = w.appH.st.post(closeWindow{id: id})
	}
}

// runBehavior initializes the behavior and runs the event/redraw loop,
// converting panics into a fault outcome. Behavior teardown (io.Closer)
// completes before this returns, so it always precedes the close
// notification.
func (w *RunningWindow) runBehavior(init InitFunc) (outcome runOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = runOutcome{fault: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()

	behavior, err := init(w)
	if err != nil {
		return runOutcome{initErr: err}
	}
	defer func() {
		if closer, ok := behavior.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				w.logger.Warn("behavior teardown failed", "error", err)
			}
		}
	}()

	if w.showAfterInit {
		// First frame renders before the window becomes visible, avoiding a
		// flash of undrawn content.
		w.redraw = redrawTarget{}
		behavior.Redraw(w)
		w.win.SetVisible(true)
		if w.activateAfterInit {
			w.win.Focus()
		}
	}
	behavior.Initialized(w)

	for !w.closing {
		if !w.waitForRedraw(behavior) {
			break
		}
		if w.closing {
			break
		}
		w.redraw = redrawTarget{}
		w.innerSize = w.win.InnerSize()
		behavior.Redraw(w)
	}
	return runOutcome{}
}

// waitForRedraw handles mailbox messages until the redraw target is due.
// It returns false when the window was destroyed and the loop should stop.
// The wait discipline depends on the target: drain without blocking when a
// redraw is already due, block with a deadline when one is scheduled, and
// block indefinitely otherwise.
func (w *RunningWindow) waitForRedraw(behavior Behavior) bool {
	for {
		var (
			msg windowMessage
			ok  bool
		)
		switch w.redraw.kind {
		case redrawImmediate:
			msg, ok = w.mb.TryRecv()
			if !ok {
				return true
			}
		case redrawScheduled:
			remaining := time.Until(w.redraw.at)
			if remaining <= 0 {
				msg, ok = w.mb.TryRecv()
				if !ok {
					return true
				}
			} else {
				msg, ok = w.mb.RecvTimeout(remaining)
				if !ok {
					if w.mb.Closed() {
						// Mailbox closed under us; no frame for a dead window.
						return false
					}
					// Deadline reached; the redraw is due now.
					return true
				}
			}
		default:
			msg, ok = w.mb.Recv()
			if !ok {
				// Mailbox closed under us; treat as destroyed.
				return false
			}
		}

		if !w.handleMessage(behavior, msg) {
			return false
		}
		if w.closing {
			return true
		}
	}
}

// handleMessage updates the cached state for a single message, then invokes
// the matching behavior callback. State is always updated before the
// callback so the behavior observes the post-event world. Returns false when
// the window was destroyed.
func (w *RunningWindow) handleMessage(behavior Behavior, msg windowMessage) bool {
	switch m := msg.(type) {
	case userMessage:
		behavior.Event(w, m.value)
	case eventMessage:
		return w.handleEvent(behavior, m.event)
	}
	return true
}

func (w *RunningWindow) handleEvent(behavior Behavior, event platform.Event) bool {
	switch e := event.(type) {
	case platform.RedrawRequested:
		w.redraw.setImmediate()

	case platform.CloseRequested:
		if behavior.CloseRequested(w) {
			w.Close()
		}

	case platform.Destroyed:
		return false

	case platform.Focused:
		w.focused = e.Focused
		behavior.FocusChanged(w)

	case platform.Occluded:
		w.occluded = e.Occluded
		behavior.OcclusionChanged(w)

	case platform.ScaleFactorChanged:
		w.scale = e.Scale
		innerBefore := w.win.InnerSize()
		outerBefore := w.win.OuterSize()
		w.innerSize = innerBefore
		w.outerSize = outerBefore
		behavior.ScaleFactorChanged(w)
		// The callback may have resized the window; reflect that as a resize.
		if w.innerSize != innerBefore || w.outerSize != outerBefore {
			behavior.Resized(w)
		}

	case platform.Resized:
		outer := w.win.OuterSize()
		if w.innerSize != e.Size || w.outerSize != outer {
			w.innerSize = e.Size
			w.outerSize = outer
			behavior.Resized(w)
		}

	case platform.Moved:
		inner := w.win.InnerPosition()
		if w.outerPos != e.Position || w.innerPos != inner {
			w.outerPos = e.Position
			w.innerPos = inner
			behavior.Moved(w)
		}

	case platform.ThemeChanged:
		w.theme = e.Theme
		behavior.ThemeChanged(w)

	case platform.DroppedFile:
		behavior.DroppedFile(w, e.Path)

	case platform.HoveredFile:
		behavior.HoveredFile(w, e.Path)

	case platform.HoveredFileCancelled:
		behavior.HoveredFileCancelled(w)

	case platform.ReceivedCharacter:
		behavior.ReceivedCharacter(w, e.Char)

	case platform.KeyboardInput:
		if e.Key.State == platform.Pressed {
			w.keys[e.Key.Code] = struct{}{}
		} else {
			delete(w.keys, e.Key.Code)
		}
		behavior.KeyboardInput(w, e.Key, e.Synthetic)

	case platform.ModifiersChanged:
		w.mods = e.Modifiers
		behavior.ModifiersChanged(w)

	case platform.Ime:
		behavior.Ime(w, e)

	case platform.CursorMoved:
		pos := e.Position
		w.cursor = &pos
		behavior.CursorMoved(w, pos)

	case platform.CursorEntered:
		behavior.CursorEntered(w)

	case platform.CursorLeft:
		w.cursor = nil
		behavior.CursorLeft(w)

	case platform.MouseWheel:
		behavior.MouseWheel(w, e.DeltaX, e.DeltaY, e.Phase)

	case platform.MouseInput:
		if e.State == platform.Pressed {
			w.buttons[e.Button] = struct{}{}
		} else {
			delete(w.buttons, e.Button)
		}
		behavior.MouseInput(w, e.State, e.Button)

	case platform.TouchpadPressure:
		behavior.TouchpadPressure(w, e.Pressure, e.Stage)

	case platform.AxisMotion:
		behavior.AxisMotion(w, e.Axis, e.Value)

	case platform.Touch:
		behavior.Touch(w, e)

	case platform.PinchGesture:
		behavior.PinchGesture(w, e.Delta, e.Phase)

	case platform.PanGesture:
		behavior.PanGesture(w, e.Delta, e.Phase)

	case platform.DoubleTapGesture:
		behavior.DoubleTapGesture(w)

	case platform.RotationGesture:
		behavior.RotationGesture(w, e.Delta, e.Phase)

	default:
		w.logger.Debug("unhandled window event", "event", event)
	}
	return true
}
