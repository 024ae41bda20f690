package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/sashkit/sash/platform"
)

// Window wraps one top-level X11 window.
type Window struct {
	driver *Driver
	xwin   *xwindow.Window

	mu        sync.Mutex
	title     string
	visible   bool
	focused   bool
	mods      platform.Modifiers
	lastInner platform.Size
	theme     platform.Theme
	// hints mirrors the WM_NORMAL_HINTS property, which is replaced as a
	// whole; constraint updates merge into it instead of clobbering it.
	hints     icccm.NormalHints
	destroyed bool
}

func newWindow(d *Driver, attrs platform.Attributes) (*Window, error) {
	xwin, err := xwindow.Generate(d.xu)
	if err != nil {
		return nil, fmt.Errorf("failed to generate window id: %w", err)
	}

	width, height := 800, 600
	if attrs.InnerSize != nil {
		width, height = attrs.InnerSize.Width, attrs.InnerSize.Height
	}
	x, y := 0, 0
	if attrs.Position != nil {
		x, y = attrs.Position.X, attrs.Position.Y
	}

	err = xwin.CreateChecked(d.root, x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0x000000,
		xproto.EventMaskStructureNotify|
			xproto.EventMaskKeyPress|
			xproto.EventMaskKeyRelease|
			xproto.EventMaskButtonPress|
			xproto.EventMaskButtonRelease|
			xproto.EventMaskPointerMotion|
			xproto.EventMaskEnterWindow|
			xproto.EventMaskLeaveWindow|
			xproto.EventMaskFocusChange|
			xproto.EventMaskExposure|
			xproto.EventMaskVisibilityChange)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w := &Window{
		driver:    d,
		xwin:      xwin,
		title:     attrs.Title,
		lastInner: platform.Size{Width: width, Height: height},
		theme:     d.theme,
	}
	if attrs.PreferredTheme != nil {
		w.theme = *attrs.PreferredTheme
	}

	if err := w.applyAttributes(attrs); err != nil {
		xwin.Destroy()
		return nil, err
	}
	if attrs.Visible {
		xwin.Map()
		w.visible = true
	}
	return w, nil
}

// applyAttributes configures WM properties before the window is mapped.
func (w *Window) applyAttributes(attrs platform.Attributes) error {
	xu := w.driver.xu
	id := w.xwin.Id

	if err := ewmh.WmNameSet(xu, id, attrs.Title); err != nil {
		return fmt.Errorf("failed to set window title: %w", err)
	}
	if err := icccm.WmProtocolsSet(xu, id, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM protocols: %w", err)
	}

	if attrs.AppName != "" {
		_ = icccm.WmClassSet(xu, id, &icccm.WmClass{
			Instance: attrs.AppName,
			Class:    attrs.AppName,
		})
	}
	if attrs.Parent != 0 {
		_ = icccm.WmTransientForSet(xu, id, xproto.Window(attrs.Parent))
	}

	w.hints = *normalHints(attrs)
	if w.hints.Flags != 0 {
		hints := w.hints
		_ = icccm.WmNormalHintsSet(xu, id, &hints)
	}

	if !attrs.Decorations {
		_ = motif.WmHintsSet(xu, id, &motif.Hints{
			Flags:      motif.HintDecorations,
			Decoration: motif.DecorationNone,
		})
	}

	var states []string
	if attrs.Fullscreen {
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
	}
	if attrs.Maximized {
		states = append(states, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	switch attrs.Level {
	case platform.LevelAlwaysOnTop:
		states = append(states, "_NET_WM_STATE_ABOVE")
	case platform.LevelAlwaysOnBottom:
		states = append(states, "_NET_WM_STATE_BELOW")
	}
	if len(states) > 0 {
		_ = ewmh.WmStateSet(xu, id, states)
	}
	return nil
}

// normalHints builds the ICCCM size hints for the attribute set. Fixed-size
// windows pin min and max to the initial size.
func normalHints(attrs platform.Attributes) *icccm.NormalHints {
	hints := &icccm.NormalHints{}
	if attrs.Position != nil {
		hints.Flags |= icccm.SizeHintPPosition
		hints.X = attrs.Position.X
		hints.Y = attrs.Position.Y
	}
	if attrs.MinInnerSize != nil {
		hints.Flags |= icccm.SizeHintPMinSize
		hints.MinWidth = uint(attrs.MinInnerSize.Width)
		hints.MinHeight = uint(attrs.MinInnerSize.Height)
	}
	if attrs.MaxInnerSize != nil {
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MaxWidth = uint(attrs.MaxInnerSize.Width)
		hints.MaxHeight = uint(attrs.MaxInnerSize.Height)
	}
	if attrs.ResizeIncrements != nil {
		hints.Flags |= icccm.SizeHintPResizeInc
		hints.WidthInc = uint(attrs.ResizeIncrements.Width)
		hints.HeightInc = uint(attrs.ResizeIncrements.Height)
	}
	if !attrs.Resizable && attrs.InnerSize != nil {
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth = uint(attrs.InnerSize.Width)
		hints.MinHeight = uint(attrs.InnerSize.Height)
		hints.MaxWidth = uint(attrs.InnerSize.Width)
		hints.MaxHeight = uint(attrs.InnerSize.Height)
	}
	return hints
}

func (w *Window) ID() platform.WindowID {
	return platform.WindowID(w.xwin.Id)
}

func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
	_ = ewmh.WmNameSet(w.driver.xu, w.xwin.Id, title)
}

func (w *Window) InnerSize() platform.Size {
	geom, err := w.xwin.Geometry()
	if err != nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.lastInner
	}
	return platform.Size{Width: geom.Width(), Height: geom.Height()}
}

func (w *Window) OuterSize() platform.Size {
	geom, err := w.xwin.DecorGeometry()
	if err != nil {
		return w.InnerSize()
	}
	return platform.Size{Width: geom.Width(), Height: geom.Height()}
}

func (w *Window) InnerPosition() platform.Position {
	// Client area position in root coordinates.
	reply, err := xproto.TranslateCoordinates(
		w.driver.xu.Conn(), w.xwin.Id, w.driver.root, 0, 0).Reply()
	if err != nil {
		return platform.Position{}
	}
	return platform.Position{X: int(reply.DstX), Y: int(reply.DstY)}
}

func (w *Window) OuterPosition() platform.Position {
	geom, err := w.xwin.DecorGeometry()
	if err != nil {
		return w.InnerPosition()
	}
	return platform.Position{X: geom.X(), Y: geom.Y()}
}

func (w *Window) SetOuterPosition(pos platform.Position) {
	w.xwin.Move(pos.X, pos.Y)
}

// RequestInnerSize issues the resize; the new size arrives asynchronously as
// a ConfigureNotify, so no size is reported back here.
func (w *Window) RequestInnerSize(size platform.Size) (platform.Size, bool) {
	w.xwin.Resize(size.Width, size.Height)
	return platform.Size{}, false
}

func (w *Window) SetMinInnerSize(size *platform.Size) {
	w.mu.Lock()
	mergeMinSizeHint(&w.hints, size)
	hints := w.hints
	w.mu.Unlock()
	_ = icccm.WmNormalHintsSet(w.driver.xu, w.xwin.Id, &hints)
}

func (w *Window) SetMaxInnerSize(size *platform.Size) {
	w.mu.Lock()
	mergeMaxSizeHint(&w.hints, size)
	hints := w.hints
	w.mu.Unlock()
	_ = icccm.WmNormalHintsSet(w.driver.xu, w.xwin.Id, &hints)
}

// mergeMinSizeHint updates only the minimum-size constraint, leaving the
// other hints in place. A nil size lifts the constraint.
func mergeMinSizeHint(hints *icccm.NormalHints, size *platform.Size) {
	if size == nil {
		hints.Flags &^= icccm.SizeHintPMinSize
		hints.MinWidth, hints.MinHeight = 0, 0
		return
	}
	hints.Flags |= icccm.SizeHintPMinSize
	hints.MinWidth = uint(size.Width)
	hints.MinHeight = uint(size.Height)
}

// mergeMaxSizeHint updates only the maximum-size constraint.
func mergeMaxSizeHint(hints *icccm.NormalHints, size *platform.Size) {
	if size == nil {
		hints.Flags &^= icccm.SizeHintPMaxSize
		hints.MaxWidth, hints.MaxHeight = 0, 0
		return
	}
	hints.Flags |= icccm.SizeHintPMaxSize
	hints.MaxWidth = uint(size.Width)
	hints.MaxHeight = uint(size.Height)
}

func (w *Window) Scale() float64 {
	return w.driver.scale
}

func (w *Window) Focused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

func (w *Window) Focus() {
	_ = ewmh.ActiveWindowReq(w.driver.xu, w.xwin.Id)
}

func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *Window) SetVisible(visible bool) {
	w.mu.Lock()
	w.visible = visible
	w.mu.Unlock()
	if visible {
		w.xwin.Map()
	} else {
		w.xwin.Unmap()
	}
}

func (w *Window) Theme() platform.Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.theme
}

// RequestRedraw asks our own connection for an Expose on this window.
func (w *Window) RequestRedraw() {
	ev := xproto.ExposeEvent{
		Window: w.xwin.Id,
		Count:  0,
	}
	xproto.SendEvent(w.driver.xu.Conn(), false, w.xwin.Id, 0, string(ev.Bytes()))
}

func (w *Window) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	w.mu.Unlock()
	w.xwin.Destroy()
}
