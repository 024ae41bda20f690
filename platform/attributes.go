package platform

import "errors"

// ErrLoopClosed is returned by Post once the event loop has exited.
var ErrLoopClosed = errors.New("platform: event loop closed")

// WindowLevel controls stacking relative to other windows.
type WindowLevel uint8

const (
	LevelNormal WindowLevel = iota
	LevelAlwaysOnBottom
	LevelAlwaysOnTop
)

// Attributes configures a window at creation time. Optional values are
// pointers; nil means "backend default".
type Attributes struct {
	Title string

	InnerSize    *Size
	MinInnerSize *Size
	MaxInnerSize *Size
	Position     *Position
	// ResizeIncrements constrains user resizing to multiples of the given
	// size, where supported.
	ResizeIncrements *Size

	Resizable  bool
	Maximized  bool
	Fullscreen bool

	Visible bool
	// DelayVisible postpones honoring Visible until the window's behavior has
	// initialized and drawn one frame, avoiding a flash of blank window while
	// a graphics stack spins up.
	DelayVisible bool
	// Active requests keyboard focus when the window is first shown.
	Active bool

	Transparent bool
	Decorations bool
	// ContentProtected asks the backend to exclude the window from screen
	// capture, where supported.
	ContentProtected bool
	Level            WindowLevel

	PreferredTheme *Theme

	// AppName is the WM_CLASS on X11, the application ID on Wayland.
	AppName string
	// Parent marks the window transient for an existing window (dialogs).
	// Zero means no parent.
	Parent WindowID
}

// DefaultAttributes returns the attribute set used when a builder is created:
// a visible, resizable, decorated window that takes focus and delays
// visibility until first redraw.
func DefaultAttributes() Attributes {
	return Attributes{
		Title:        "sash window",
		Resizable:    true,
		Visible:      true,
		DelayVisible: true,
		Active:       true,
		Decorations:  true,
	}
}
