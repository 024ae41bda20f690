package x11

import (
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/sashkit/sash/platform"
)

// connectEventCallbacks wires the xevent callbacks that translate raw X11
// events into platform events. Called on the loop thread right after the
// window is registered.
func (w *Window) connectEventCallbacks() {
	xu := w.driver.xu
	id := w.xwin.Id

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		// Exposures arrive per damaged region; only the final one triggers a
		// redraw.
		if ev.Count == 0 {
			w.driver.deliver(id, platform.RedrawRequested{})
		}
	}).Connect(xu, id)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if xproto.Atom(ev.Type) == w.driver.protocols &&
			xproto.Atom(ev.Data.Data32[0]) == w.driver.wmDelete {
			w.driver.deliver(id, platform.CloseRequested{})
		}
	}).Connect(xu, id)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		size := platform.Size{Width: int(ev.Width), Height: int(ev.Height)}
		w.mu.Lock()
		resized := size != w.lastInner
		w.lastInner = size
		w.mu.Unlock()
		if resized {
			w.driver.deliver(id, platform.Resized{Size: size})
		}
		w.driver.deliver(id, platform.Moved{Position: w.OuterPosition()})
	}).Connect(xu, id)

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		w.driver.forgetWindow(id)
		w.driver.deliver(id, platform.Destroyed{})
		xevent.Detach(xu, id)
	}).Connect(xu, id)

	xevent.FocusInFun(func(_ *xgbutil.XUtil, ev xevent.FocusInEvent) {
		w.mu.Lock()
		w.focused = true
		w.mu.Unlock()
		w.driver.deliver(id, platform.Focused{Focused: true})
	}).Connect(xu, id)

	xevent.FocusOutFun(func(_ *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		w.mu.Lock()
		w.focused = false
		w.mu.Unlock()
		w.driver.deliver(id, platform.Focused{Focused: false})
	}).Connect(xu, id)

	xevent.VisibilityNotifyFun(func(_ *xgbutil.XUtil, ev xevent.VisibilityNotifyEvent) {
		occluded := ev.State == xproto.VisibilityFullyObscured
		w.driver.deliver(id, platform.Occluded{Occluded: occluded})
	}).Connect(xu, id)

	xevent.KeyPressFun(func(_ *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		w.deliverModifiers(ev.State)
		text := keybind.LookupString(xu, ev.State, ev.Detail)
		w.driver.deliver(id, platform.KeyboardInput{
			Key: platform.Key{
				Code:  platform.KeyCode(ev.Detail),
				State: platform.Pressed,
				Text:  text,
			},
		})
		if ch, size := utf8.DecodeRuneInString(text); size == len(text) && size > 0 && ch != utf8.RuneError {
			w.driver.deliver(id, platform.ReceivedCharacter{Char: ch})
		}
	}).Connect(xu, id)

	xevent.KeyReleaseFun(func(_ *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		w.deliverModifiers(ev.State)
		w.driver.deliver(id, platform.KeyboardInput{
			Key: platform.Key{
				Code:  platform.KeyCode(ev.Detail),
				State: platform.Released,
			},
		})
	}).Connect(xu, id)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		w.deliverModifiers(ev.State)
		w.deliverButton(ev.Detail, platform.Pressed)
	}).Connect(xu, id)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		w.deliverModifiers(ev.State)
		// Wheel buttons already produced their scroll on press.
		if ev.Detail < 4 || ev.Detail > 7 {
			w.deliverButton(ev.Detail, platform.Released)
		}
	}).Connect(xu, id)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		w.driver.deliver(id, platform.CursorMoved{
			Position: platform.CursorPosition{X: float64(ev.EventX), Y: float64(ev.EventY)},
		})
	}).Connect(xu, id)

	xevent.EnterNotifyFun(func(_ *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		w.driver.deliver(id, platform.CursorEntered{})
	}).Connect(xu, id)

	xevent.LeaveNotifyFun(func(_ *xgbutil.XUtil, ev xevent.LeaveNotifyEvent) {
		w.driver.deliver(id, platform.CursorLeft{})
	}).Connect(xu, id)
}

// deliverButton maps a core-protocol button to a mouse or wheel event.
// Buttons 4-7 are the scroll wheel in X11's core protocol.
func (w *Window) deliverButton(detail xproto.Button, state platform.ButtonState) {
	id := w.xwin.Id
	switch detail {
	case 1:
		w.driver.deliver(id, platform.MouseInput{State: state, Button: platform.MouseLeft})
	case 2:
		w.driver.deliver(id, platform.MouseInput{State: state, Button: platform.MouseMiddle})
	case 3:
		w.driver.deliver(id, platform.MouseInput{State: state, Button: platform.MouseRight})
	case 4:
		w.driver.deliver(id, platform.MouseWheel{DeltaY: 1, Phase: platform.PhaseMoved})
	case 5:
		w.driver.deliver(id, platform.MouseWheel{DeltaY: -1, Phase: platform.PhaseMoved})
	case 6:
		w.driver.deliver(id, platform.MouseWheel{DeltaX: 1, Phase: platform.PhaseMoved})
	case 7:
		w.driver.deliver(id, platform.MouseWheel{DeltaX: -1, Phase: platform.PhaseMoved})
	case 8:
		w.driver.deliver(id, platform.MouseInput{State: state, Button: platform.MouseBack})
	case 9:
		w.driver.deliver(id, platform.MouseInput{State: state, Button: platform.MouseForward})
	default:
		w.driver.deliver(id, platform.MouseInput{State: state, Button: platform.MouseButton(detail)})
	}
}

// deliverModifiers emits ModifiersChanged when the modifier state in an input
// event differs from the last state this window reported.
func (w *Window) deliverModifiers(state uint16) {
	mods := translateModifiers(state)
	w.mu.Lock()
	changed := mods != w.mods
	w.mods = mods
	w.mu.Unlock()
	if changed {
		w.driver.deliver(w.xwin.Id, platform.ModifiersChanged{Modifiers: mods})
	}
}

func translateModifiers(state uint16) platform.Modifiers {
	var mods platform.Modifiers
	if state&xproto.ModMaskShift != 0 {
		mods |= platform.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		mods |= platform.ModCtrl
	}
	if state&xproto.ModMask1 != 0 {
		mods |= platform.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		mods |= platform.ModSuper
	}
	return mods
}
