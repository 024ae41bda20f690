// Package platform defines the contract between the sash runtime and a
// concrete windowing backend. A backend owns OS-level window objects and a
// single-threaded event loop; the runtime never touches the loop directly,
// it only receives callbacks through Handler and injects wake-ups via Post.
package platform

// WindowID is an opaque window identifier assigned by the backend when a
// window is created. IDs are unique among currently-open windows.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size is a width/height pair in physical pixels.
type Size struct {
	Width  int
	Height int
}

// Position is a screen coordinate in physical pixels.
type Position struct {
	X int
	Y int
}

// CursorPosition is a sub-pixel position relative to a window's upper-left
// corner.
type CursorPosition struct {
	X float64
	Y float64
}

// Monitor describes a physical display.
type Monitor struct {
	Name   string
	Bounds Rect
	Scale  float64
}

// Handler receives everything the backend's event loop produces. All methods
// are invoked on the loop's own thread and must not block on window workers.
type Handler interface {
	// LoopStarted signals that the event loop has become active. Backend
	// capabilities such as monitor enumeration are only reliable after this
	// point.
	LoopStarted()

	// WindowEvent delivers a window-level event.
	WindowEvent(id WindowID, event Event)

	// Message delivers a value previously injected with Driver.Post.
	Message(msg any)
}

// Driver is the platform windowing service. CreateWindow, Monitors and Exit
// may only be called from the loop thread (inside Handler callbacks or
// before Run); Post is safe from any goroutine.
type Driver interface {
	// CreateWindow allocates a native window. Only valid on the loop thread.
	CreateWindow(attrs Attributes) (Window, error)

	// Monitors enumerates connected displays. Only reliable after the loop
	// has started.
	Monitors() ([]Monitor, error)

	// Post injects msg into the event loop, waking it if necessary. It never
	// blocks on the loop's progress. Returns ErrLoopClosed once the loop has
	// exited.
	Post(msg any) error

	// Run drives the event loop on the calling goroutine until Exit is
	// called, then returns the exit code. Run may be called at most once.
	Run(h Handler) int

	// Exit requests loop termination with the given exit code. Only valid on
	// the loop thread.
	Exit(code int)
}

// Window is a live native window object. Queries and mutation requests are
// safe from any goroutine; the backend serializes them on its connection.
type Window interface {
	ID() WindowID

	Title() string
	SetTitle(title string)

	InnerSize() Size
	OuterSize() Size
	InnerPosition() Position
	OuterPosition() Position
	SetOuterPosition(pos Position)

	// RequestInnerSize asks the backend to resize the client area. If the
	// backend applies the size synchronously it returns the applied size and
	// true; otherwise the new size arrives later as a Resized event.
	RequestInnerSize(size Size) (Size, bool)
	SetMinInnerSize(size *Size)
	SetMaxInnerSize(size *Size)

	Scale() float64
	Focused() bool
	Focus()
	Visible() bool
	SetVisible(visible bool)
	Theme() Theme

	// RequestRedraw schedules a RedrawRequested event for this window.
	RequestRedraw()

	// Destroy releases the native window. The backend delivers a Destroyed
	// event afterwards. Destroy is idempotent.
	Destroy()
}
