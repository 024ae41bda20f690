// Package headless implements an in-process platform driver with no display
// dependency. Windows are plain records, events are injected by the caller,
// and the loop runs deterministically, which makes the driver suitable for
// tests and for display-less deployments exercising the runtime's plumbing.
package headless

import (
	"log/slog"
	"sync"

	"github.com/sashkit/sash/platform"
)

type item struct {
	// Exactly one of msg / ev is meaningful; ev items carry the window id.
	msg any
	id  platform.WindowID
	ev  platform.Event
	// isEvent distinguishes a window event from a posted message.
	isEvent bool
}

// Options configures a Driver.
type Options struct {
	// Monitors reported by the driver. Defaults to a single 1920x1080
	// display at scale 1.0.
	Monitors []platform.Monitor
	// Theme reported by new windows without a preferred theme.
	Theme platform.Theme
	// Logger for the driver's own diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Driver is an in-process platform loop. Post and Deliver are safe from any
// goroutine; Run must be called exactly once.
type Driver struct {
	logger   *slog.Logger
	monitors []platform.Monitor
	theme    platform.Theme

	mu      sync.Mutex
	nextID  platform.WindowID
	windows map[platform.WindowID]*Window
	queue   []item
	wake    chan struct{}
	exiting bool
	closed  bool
	code    int
}

// New returns a driver with default options.
func New() *Driver {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a configured driver.
func NewWithOptions(opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	monitors := opts.Monitors
	if len(monitors) == 0 {
		monitors = []platform.Monitor{{
			Name:   "headless-0",
			Bounds: platform.Rect{Width: 1920, Height: 1080},
			Scale:  1.0,
		}}
	}
	return &Driver{
		logger:   logger,
		monitors: monitors,
		theme:    opts.Theme,
		nextID:   1,
		windows:  make(map[platform.WindowID]*Window),
		wake:     make(chan struct{}, 1),
	}
}

// Run services posted messages and injected events until Exit is called.
func (d *Driver) Run(h platform.Handler) int {
	h.LoopStarted()
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			if d.exiting {
				d.closed = true
				code := d.code
				d.mu.Unlock()
				return code
			}
			d.mu.Unlock()
			<-d.wake
			continue
		}
		next := d.queue[0]
		d.queue = d.queue[1:]
		exiting := d.exiting
		d.mu.Unlock()

		// Exit stops dispatch immediately; queued items are dropped.
		if exiting {
			continue
		}
		if next.isEvent {
			h.WindowEvent(next.id, next.ev)
		} else {
			h.Message(next.msg)
		}
	}
}

// Exit stops the loop with the given code. Safe to call multiple times; the
// first code wins.
func (d *Driver) Exit(code int) {
	d.mu.Lock()
	if !d.exiting {
		d.exiting = true
		d.code = code
	}
	d.mu.Unlock()
	d.signal()
}

// Post injects a message for the handler. It never blocks on loop progress.
func (d *Driver) Post(msg any) error {
	d.mu.Lock()
	if d.exiting || d.closed {
		d.mu.Unlock()
		return platform.ErrLoopClosed
	}
	d.queue = append(d.queue, item{msg: msg})
	d.mu.Unlock()
	d.signal()
	return nil
}

// Deliver injects a window event, as the display server would.
func (d *Driver) Deliver(id platform.WindowID, ev platform.Event) error {
	d.mu.Lock()
	if d.exiting || d.closed {
		d.mu.Unlock()
		return platform.ErrLoopClosed
	}
	d.queue = append(d.queue, item{id: id, ev: ev, isEvent: true})
	d.mu.Unlock()
	d.signal()
	return nil
}

func (d *Driver) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Monitors reports the configured displays.
func (d *Driver) Monitors() ([]platform.Monitor, error) {
	return d.monitors, nil
}

// CreateWindow allocates an in-memory window.
func (d *Driver) CreateWindow(attrs platform.Attributes) (platform.Window, error) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.mu.Unlock()

	size := platform.Size{Width: 800, Height: 600}
	if attrs.InnerSize != nil {
		size = *attrs.InnerSize
	}
	var pos platform.Position
	if attrs.Position != nil {
		pos = *attrs.Position
	}
	theme := d.theme
	if attrs.PreferredTheme != nil {
		theme = *attrs.PreferredTheme
	}

	w := &Window{
		driver:    d,
		id:        id,
		title:     attrs.Title,
		innerSize: size,
		outerSize: size,
		innerPos:  pos,
		outerPos:  pos,
		scale:     1.0,
		visible:   attrs.Visible,
		focused:   attrs.Visible && attrs.Active,
		theme:     theme,
		minSize:   attrs.MinInnerSize,
		maxSize:   attrs.MaxInnerSize,
	}
	d.mu.Lock()
	d.windows[id] = w
	d.mu.Unlock()
	return w, nil
}

// WindowIDs lists windows that exist and have not been destroyed.
func (d *Driver) WindowIDs() []platform.WindowID {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]platform.WindowID, 0, len(d.windows))
	for id := range d.windows {
		ids = append(ids, id)
	}
	return ids
}

// LookupWindow returns a created window by id, for test assertions.
func (d *Driver) LookupWindow(id platform.WindowID) (*Window, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.windows[id]
	return w, ok
}

// Window is an in-memory platform window.
type Window struct {
	driver *Driver
	id     platform.WindowID

	mu        sync.Mutex
	title     string
	innerSize platform.Size
	outerSize platform.Size
	innerPos  platform.Position
	outerPos  platform.Position
	scale     float64
	visible   bool
	focused   bool
	theme     platform.Theme
	minSize   *platform.Size
	maxSize   *platform.Size
	destroyed bool
}

func (w *Window) ID() platform.WindowID { return w.id }

func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
}

func (w *Window) InnerSize() platform.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.innerSize
}

func (w *Window) OuterSize() platform.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outerSize
}

func (w *Window) InnerPosition() platform.Position {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.innerPos
}

func (w *Window) OuterPosition() platform.Position {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outerPos
}

func (w *Window) SetOuterPosition(pos platform.Position) {
	w.mu.Lock()
	w.outerPos = pos
	w.innerPos = pos
	w.mu.Unlock()
}

// RequestInnerSize applies the size synchronously, clamped to the window's
// min/max constraints.
func (w *Window) RequestInnerSize(size platform.Size) (platform.Size, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.minSize != nil {
		if size.Width < w.minSize.Width {
			size.Width = w.minSize.Width
		}
		if size.Height < w.minSize.Height {
			size.Height = w.minSize.Height
		}
	}
	if w.maxSize != nil {
		if size.Width > w.maxSize.Width {
			size.Width = w.maxSize.Width
		}
		if size.Height > w.maxSize.Height {
			size.Height = w.maxSize.Height
		}
	}
	w.innerSize = size
	w.outerSize = size
	return size, true
}

func (w *Window) SetMinInnerSize(size *platform.Size) {
	w.mu.Lock()
	w.minSize = size
	w.mu.Unlock()
}

func (w *Window) SetMaxInnerSize(size *platform.Size) {
	w.mu.Lock()
	w.maxSize = size
	w.mu.Unlock()
}

func (w *Window) Scale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *Window) Focused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

// Focus grabs focus and delivers the matching event.
func (w *Window) Focus() {
	w.mu.Lock()
	w.focused = true
	w.mu.Unlock()
	_ = w.driver.Deliver(w.id, platform.Focused{Focused: true})
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
}

func (w *Window) Theme() platform.Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.theme
}

// RequestRedraw queues a RedrawRequested event for the window.
func (w *Window) RequestRedraw() {
	_ = w.driver.Deliver(w.id, platform.RedrawRequested{})
}

// Destroy removes the window and delivers Destroyed. Idempotent.
func (w *Window) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	w.mu.Unlock()

	w.driver.mu.Lock()
	delete(w.driver.windows, w.id)
	w.driver.mu.Unlock()
	_ = w.driver.Deliver(w.id, platform.Destroyed{})
}

// Destroyed reports whether Destroy has been called, for test assertions.
func (w *Window) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}
