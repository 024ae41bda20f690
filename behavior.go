package sash

import "github.com/sashkit/sash/platform"

// InitFunc builds a window's behavior on the window's own worker goroutine,
// after the platform window exists but before any event is handled. Returning
// an error abandons the window; the error is routed to the application error
// callback.
type InitFunc func(w *RunningWindow) (Behavior, error)

// Behavior receives a window's events on its worker goroutine. Every method
// is called with the runtime's cached window state already updated for the
// event being delivered. Embed BaseBehavior to implement only Redraw and the
// callbacks you care about.
//
// A Behavior that also implements io.Closer has Close called when the window
// shuts down, before the rest of the application learns the window is gone.
type Behavior interface {
	// Redraw renders the window's contents. Invoked once per merged redraw
	// request, never concurrently with any other callback of this window.
	Redraw(w *RunningWindow)

	// Initialized runs once the window is fully set up, before the first
	// event.
	Initialized(w *RunningWindow)

	// CloseRequested decides whether a user-initiated close proceeds.
	CloseRequested(w *RunningWindow) bool

	FocusChanged(w *RunningWindow)
	OcclusionChanged(w *RunningWindow)
	ScaleFactorChanged(w *RunningWindow)
	Resized(w *RunningWindow)
	Moved(w *RunningWindow)
	ThemeChanged(w *RunningWindow)

	DroppedFile(w *RunningWindow, path string)
	HoveredFile(w *RunningWindow, path string)
	HoveredFileCancelled(w *RunningWindow)

	ReceivedCharacter(w *RunningWindow, ch rune)
	KeyboardInput(w *RunningWindow, key platform.Key, synthetic bool)
	ModifiersChanged(w *RunningWindow)
	Ime(w *RunningWindow, ime platform.Ime)

	CursorMoved(w *RunningWindow, position platform.CursorPosition)
	CursorEntered(w *RunningWindow)
	CursorLeft(w *RunningWindow)
	MouseWheel(w *RunningWindow, deltaX, deltaY float64, phase platform.TouchPhase)
	MouseInput(w *RunningWindow, state platform.ButtonState, button platform.MouseButton)

	TouchpadPressure(w *RunningWindow, pressure float32, stage int64)
	AxisMotion(w *RunningWindow, axis uint32, value float64)
	Touch(w *RunningWindow, touch platform.Touch)
	PinchGesture(w *RunningWindow, delta float64, phase platform.TouchPhase)
	PanGesture(w *RunningWindow, delta platform.CursorPosition, phase platform.TouchPhase)
	DoubleTapGesture(w *RunningWindow)
	RotationGesture(w *RunningWindow, delta float32, phase platform.TouchPhase)

	// Event receives messages sent through a Window handle.
	Event(w *RunningWindow, message any)
}

// BaseBehavior provides no-op implementations for every Behavior method
// except Redraw, which embedding types must supply themselves.
type BaseBehavior struct{}

func (BaseBehavior) Initialized(*RunningWindow) {}

// CloseRequested allows the close by default.
func (BaseBehavior) CloseRequested(*RunningWindow) bool { return true }

func (BaseBehavior) FocusChanged(*RunningWindow)       {}
func (BaseBehavior) OcclusionChanged(*RunningWindow)   {}
func (BaseBehavior) ScaleFactorChanged(*RunningWindow) {}
func (BaseBehavior) Resized(*RunningWindow)            {}
func (BaseBehavior) Moved(*RunningWindow)              {}
func (BaseBehavior) ThemeChanged(*RunningWindow)       {}

func (BaseBehavior) DroppedFile(*RunningWindow, string) {}
func (BaseBehavior) HoveredFile(*RunningWindow, string) {}
func (BaseBehavior) HoveredFileCancelled(*RunningWindow) {
}

func (BaseBehavior) ReceivedCharacter(*RunningWindow, rune)              {}
func (BaseBehavior) KeyboardInput(*RunningWindow, platform.Key, bool)    {}
func (BaseBehavior) ModifiersChanged(*RunningWindow)                     {}
func (BaseBehavior) Ime(*RunningWindow, platform.Ime)                    {}
func (BaseBehavior) CursorMoved(*RunningWindow, platform.CursorPosition) {}
func (BaseBehavior) CursorEntered(*RunningWindow)                        {}
func (BaseBehavior) CursorLeft(*RunningWindow)                           {}

func (BaseBehavior) MouseWheel(*RunningWindow, float64, float64, platform.TouchPhase) {}
func (BaseBehavior) MouseInput(*RunningWindow, platform.ButtonState, platform.MouseButton) {
}

func (BaseBehavior) TouchpadPressure(*RunningWindow, float32, int64) {}
func (BaseBehavior) AxisMotion(*RunningWindow, uint32, float64)      {}
func (BaseBehavior) Touch(*RunningWindow, platform.Touch)            {}
func (BaseBehavior) PinchGesture(*RunningWindow, float64, platform.TouchPhase) {
}
func (BaseBehavior) PanGesture(*RunningWindow, platform.CursorPosition, platform.TouchPhase) {}
func (BaseBehavior) DoubleTapGesture(*RunningWindow)                                         {}
func (BaseBehavior) RotationGesture(*RunningWindow, float32, platform.TouchPhase)            {}

func (BaseBehavior) Event(*RunningWindow, any) {}
