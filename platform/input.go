package platform

// Theme is the light/dark appearance preference of the system or a window.
type Theme uint8

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// ButtonState is the pressed/released state of a key or mouse button.
type ButtonState uint8

const (
	Pressed ButtonState = iota
	Released
)

func (s ButtonState) String() string {
	if s == Released {
		return "released"
	}
	return "pressed"
}

// MouseButton identifies a mouse button. Values beyond Forward are
// backend-specific extra buttons.
type MouseButton uint16

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseBack
	MouseForward
)

// KeyCode is a physical key identifier. The numbering is backend-specific
// (X11 keycodes for the x11 driver) but stable for the life of a connection.
type KeyCode uint32

// Key describes a single keyboard transition.
type Key struct {
	Code   KeyCode
	State  ButtonState
	Text   string // text produced by the key, if any
	Repeat bool
}

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// TouchPhase is the lifecycle stage of a touch or gesture.
type TouchPhase uint8

const (
	PhaseStarted TouchPhase = iota
	PhaseMoved
	PhaseEnded
	PhaseCancelled
)
