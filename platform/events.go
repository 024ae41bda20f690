package platform

// Event is a window-level platform event. The concrete set is closed: one
// struct per event kind, delivered to the window that owns the event.
type Event interface {
	isEvent()
}

// RedrawRequested indicates the backend wants the window's contents redrawn
// (exposed region, compositor request, or an explicit RequestRedraw).
type RedrawRequested struct{}

// Resized carries the client area's new dimensions.
type Resized struct {
	Size Size
}

// Moved carries the window frame's new position.
type Moved struct {
	Position Position
}

// CloseRequested indicates the user asked to close the window (close button,
// WM_DELETE_WINDOW, ...). The window stays open unless the behavior agrees.
type CloseRequested struct{}

// Destroyed indicates the native window no longer exists.
type Destroyed struct{}

// DroppedFile is emitted once per file dropped onto the window.
type DroppedFile struct {
	Path string
}

// HoveredFile is emitted once per file hovering over the window.
type HoveredFile struct {
	Path string
}

// HoveredFileCancelled indicates hovered files left the window without being
// dropped. A single event is emitted regardless of how many files hovered.
type HoveredFileCancelled struct{}

// ReceivedCharacter carries a unicode character produced by keyboard input.
type ReceivedCharacter struct {
	Char rune
}

// Focused reports a keyboard focus change.
type Focused struct {
	Focused bool
}

// KeyboardInput reports a key press or release. Synthetic is true for events
// the backend generates itself, e.g. key state replay when focus is gained.
type KeyboardInput struct {
	Key       Key
	Synthetic bool
}

// ModifiersChanged reports the new modifier key state.
type ModifiersChanged struct {
	Modifiers Modifiers
}

// Ime reports input-method composition activity.
type Ime struct {
	// Preedit is the in-progress composition string, empty once composition
	// ends.
	Preedit string
	// Commit is the finalized text, set only when composition completes.
	Commit string
}

// CursorMoved reports the cursor position relative to the window's
// upper-left corner.
type CursorMoved struct {
	Position CursorPosition
}

// CursorEntered indicates the cursor entered the window.
type CursorEntered struct{}

// CursorLeft indicates the cursor left the window.
type CursorLeft struct{}

// MouseWheel reports wheel or touchpad scrolling in lines.
type MouseWheel struct {
	DeltaX float64
	DeltaY float64
	Phase  TouchPhase
}

// MouseInput reports a mouse button press or release.
type MouseInput struct {
	State  ButtonState
	Button MouseButton
}

// TouchpadPressure reports pressure on a force-touch capable touchpad.
type TouchpadPressure struct {
	Pressure float32
	Stage    int64
}

// AxisMotion reports motion on an analog axis.
type AxisMotion struct {
	Axis  uint32
	Value float64
}

// Touch reports a touch-screen contact.
type Touch struct {
	ID       uint64
	Phase    TouchPhase
	Position CursorPosition
}

// ScaleFactorChanged reports a DPI scale change, e.g. after moving the
// window to a display with a different scale factor.
type ScaleFactorChanged struct {
	Scale float64
}

// ThemeChanged reports a system theme change.
type ThemeChanged struct {
	Theme Theme
}

// Occluded reports whether the window is completely hidden from view.
type Occluded struct {
	Occluded bool
}

// PinchGesture reports a magnification gesture.
type PinchGesture struct {
	Delta float64
	Phase TouchPhase
}

// PanGesture reports a pan/scroll gesture.
type PanGesture struct {
	Delta CursorPosition
	Phase TouchPhase
}

// DoubleTapGesture reports a smart-magnify request.
type DoubleTapGesture struct{}

// RotationGesture reports a touchpad rotation gesture.
type RotationGesture struct {
	Delta float32
	Phase TouchPhase
}

func (RedrawRequested) isEvent()      {}
func (Resized) isEvent()              {}
func (Moved) isEvent()                {}
func (CloseRequested) isEvent()       {}
func (Destroyed) isEvent()            {}
func (DroppedFile) isEvent()          {}
func (HoveredFile) isEvent()          {}
func (HoveredFileCancelled) isEvent() {}
func (ReceivedCharacter) isEvent()    {}
func (Focused) isEvent()              {}
func (KeyboardInput) isEvent()        {}
func (ModifiersChanged) isEvent()     {}
func (Ime) isEvent()                  {}
func (CursorMoved) isEvent()          {}
func (CursorEntered) isEvent()        {}
func (CursorLeft) isEvent()           {}
func (MouseWheel) isEvent()           {}
func (MouseInput) isEvent()           {}
func (TouchpadPressure) isEvent()     {}
func (AxisMotion) isEvent()           {}
func (Touch) isEvent()                {}
func (ScaleFactorChanged) isEvent()   {}
func (ThemeChanged) isEvent()         {}
func (Occluded) isEvent()             {}
func (PinchGesture) isEvent()         {}
func (PanGesture) isEvent()           {}
func (DoubleTapGesture) isEvent()     {}
func (RotationGesture) isEvent()      {}
