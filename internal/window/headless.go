package window

import (
	"fmt"
	"sync"
	"sync/atomic"

	"overlay-backend/internal/model"
)

// HeadlessBackend 是进程内的模拟后端：没有桌面工具链时（以及测试中）
// 仍然完整维护窗口属性状态，只是不产生真实像素。
type HeadlessBackend struct {
	displays   []model.Display
	nextHandle uintptr
}

func NewHeadlessBackend(displays ...model.Display) *HeadlessBackend {
	if len(displays) == 0 {
		displays = []model.Display{
			{ID: 1, Origin: model.Point{X: 0, Y: 0}, Size: model.Size{Width: 1920, Height: 1080}},
		}
	}
	return &HeadlessBackend{displays: displays}
}

func (b *HeadlessBackend) CreateWindow(opts Options) (Native, error) {
	handle := atomic.AddUintptr(&b.nextHandle, 1)

	win := &headlessWindow{
		handle:    handle,
		width:     opts.Width,
		height:    opts.Height,
		x:         opts.X,
		y:         opts.Y,
		opacity:   1.0,
		focusable: opts.Focusable,
		visible:   opts.Show,
	}
	return win, nil
}

func (b *HeadlessBackend) PrimaryDisplay() model.Display {
	return b.displays[0]
}

func (b *HeadlessBackend) Displays() []model.Display {
	displays := make([]model.Display, len(b.displays))
	copy(displays, b.displays)
	return displays
}

func (b *HeadlessBackend) CaptureScreen(display model.Display) ([]byte, error) {
	return nil, fmt.Errorf("headless backend has no screen to capture")
}

type headlessWindow struct {
	mu        sync.Mutex
	handle    uintptr
	width     int
	height    int
	x         int
	y         int
	opacity   float64
	visible   bool
	focusable bool
	ignore    bool
	onTop     bool
	closed    bool
	onClosed  func()
}

func (w *headlessWindow) Handle() uintptr {
	return w.handle
}

func (w *headlessWindow) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.visible = true
	}
}

func (w *headlessWindow) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
}

func (w *headlessWindow) Focus() {}

func (w *headlessWindow) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.visible = false
	fn := w.onClosed
	w.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (w *headlessWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *headlessWindow) SetOpacity(opacity float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opacity = opacity
}

func (w *headlessWindow) Opacity() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opacity
}

func (w *headlessWindow) SetSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
}

func (w *headlessWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *headlessWindow) SetPosition(x, y int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.x, w.y = x, y
}

func (w *headlessWindow) Position() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.x, w.y
}

func (w *headlessWindow) SetIgnoreMouseEvents(ignore, forward bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignore = ignore
}

func (w *headlessWindow) SetFocusable(focusable bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focusable = focusable
}

func (w *headlessWindow) SetAlwaysOnTop(onTop bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onTop = onTop
}

func (w *headlessWindow) OnClosed(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onClosed = fn
}
