// Package x11 implements the platform driver on top of an X11 connection
// using xgb/xgbutil. The xevent loop is the single-threaded platform loop;
// cross-thread wake-ups are delivered as ClientMessage events sent to a
// hidden proxy window.
package x11

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/sashkit/sash/platform"
)

// wakeAtomName tags the ClientMessage used to wake the event loop.
const wakeAtomName = "_SASH_WAKE"

// Options configures the X11 driver.
type Options struct {
	// Logger for the driver's diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Driver owns the X11 connection and its event loop.
type Driver struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	proxy      *xwindow.Window
	wakeAtom   xproto.Atom
	protocols  xproto.Atom
	wmDelete   xproto.Atom
	scale      float64
	theme      platform.Theme

	mu      sync.Mutex
	queue   []any
	windows map[xproto.Window]*Window
	exited  bool
	code    int

	handler platform.Handler
}

// New connects to the X server named by DISPLAY.
func New() (*Driver, error) {
	return NewWithOptions(Options{})
}

// NewWithOptions connects with explicit options.
func NewWithOptions(opts Options) (*Driver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	keybind.Initialize(xu)

	d := &Driver{
		xu:      xu,
		root:    xu.RootWin(),
		logger:  logger,
		scale:   screenScale(xu),
		theme:   themeFromEnvironment(),
		windows: make(map[xproto.Window]*Window),
	}

	d.wakeAtom, err = xprop.Atm(xu, wakeAtomName)
	if err != nil {
		return nil, fmt.Errorf("failed to intern wake atom: %w", err)
	}
	d.protocols, err = xprop.Atm(xu, "WM_PROTOCOLS")
	if err != nil {
		return nil, fmt.Errorf("failed to intern WM_PROTOCOLS: %w", err)
	}
	d.wmDelete, err = xprop.Atm(xu, "WM_DELETE_WINDOW")
	if err != nil {
		return nil, fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}

	if err := d.createProxyWindow(); err != nil {
		return nil, err
	}
	return d, nil
}

// createProxyWindow allocates the hidden 1x1 window that receives wake
// ClientMessages. It is never mapped.
func (d *Driver) createProxyWindow() error {
	win, err := xwindow.Generate(d.xu)
	if err != nil {
		return fmt.Errorf("failed to generate proxy window id: %w", err)
	}
	if err := win.CreateChecked(d.root, -1, -1, 1, 1, xproto.CwEventMask, xproto.EventMaskNoEvent); err != nil {
		return fmt.Errorf("failed to create proxy window: %w", err)
	}
	d.proxy = win
	return nil
}

// Run drives the xevent loop on the calling goroutine.
func (d *Driver) Run(h platform.Handler) int {
	d.handler = h

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if xproto.Atom(ev.Type) == d.wakeAtom {
			d.drainQueue()
		}
	}).Connect(d.xu, d.proxy.Id)

	h.LoopStarted()
	// Wake-ups posted between connection setup and loop start are already
	// queued; service them as soon as the loop spins up.
	d.drainQueue()

	xevent.Main(d.xu)

	d.mu.Lock()
	d.exited = true
	code := d.code
	d.mu.Unlock()
	d.xu.Conn().Close()
	return code
}

// Exit stops the xevent loop. Loop thread only.
func (d *Driver) Exit(code int) {
	d.mu.Lock()
	d.code = code
	d.mu.Unlock()
	xevent.Quit(d.xu)
}

// Post queues msg for the handler and wakes the loop. Safe from any
// goroutine; xgb serializes the connection internally.
func (d *Driver) Post(msg any) error {
	d.mu.Lock()
	if d.exited {
		d.mu.Unlock()
		return platform.ErrLoopClosed
	}
	d.queue = append(d.queue, msg)
	d.mu.Unlock()

	cm, err := xevent.NewClientMessage(32, d.proxy.Id, d.wakeAtom)
	if err != nil {
		return fmt.Errorf("failed to build wake message: %w", err)
	}
	// Event mask 0 delivers the event to the client that created the
	// destination window, i.e. to our own connection.
	xproto.SendEvent(d.xu.Conn(), false, d.proxy.Id, 0, string(cm.Bytes()))
	return nil
}

func (d *Driver) drainQueue() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		msg := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()
		d.handler.Message(msg)
	}
}

// CreateWindow allocates and configures an X11 window. Loop thread only.
func (d *Driver) CreateWindow(attrs platform.Attributes) (platform.Window, error) {
	win, err := newWindow(d, attrs)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.windows[win.xwin.Id] = win
	d.mu.Unlock()
	win.connectEventCallbacks()
	return win, nil
}

func (d *Driver) forgetWindow(id xproto.Window) {
	d.mu.Lock()
	delete(d.windows, id)
	d.mu.Unlock()
}

func (d *Driver) lookup(id xproto.Window) (*Window, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.windows[id]
	return w, ok
}

// deliver forwards a translated event to the runtime. Loop thread only.
func (d *Driver) deliver(id xproto.Window, ev platform.Event) {
	d.handler.WindowEvent(platform.WindowID(id), ev)
}

// screenScale derives a DPI scale factor from the default screen's physical
// size, with 96 dpi as scale 1.0.
func screenScale(xu *xgbutil.XUtil) float64 {
	screen := xu.Screen()
	if screen.WidthInMillimeters == 0 {
		return 1.0
	}
	dpi := float64(screen.WidthInPixels) * 25.4 / float64(screen.WidthInMillimeters)
	if dpi <= 0 {
		return 1.0
	}
	scale := dpi / 96.0
	if scale < 0.5 {
		return 1.0
	}
	return scale
}

// themeFromEnvironment guesses the system theme. X11 has no theme protocol,
// so this follows the GTK convention of a "dark" suffix in the theme name.
func themeFromEnvironment() platform.Theme {
	for _, key := range []string{"SASH_THEME", "GTK_THEME"} {
		if v := strings.ToLower(os.Getenv(key)); strings.Contains(v, "dark") {
			return platform.ThemeDark
		}
	}
	return platform.ThemeLight
}
