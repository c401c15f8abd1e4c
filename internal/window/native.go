package window

import (
	"overlay-backend/internal/model"
)

// Options 是创建窗口时的一次性属性
type Options struct {
	Width       int
	Height      int
	X           int
	Y           int
	Frameless   bool
	Transparent bool
	AlwaysOnTop bool
	SkipTaskbar bool
	Focusable   bool
	Resizable   bool
	Show        bool
}

// Native 抽象一个操作系统窗口。具体桌面工具链在进程外，
// 协调器只通过这组操作驱动窗口属性。
type Native interface {
	Handle() uintptr
	Show()
	Hide()
	Focus()
	Close()
	Visible() bool
	SetOpacity(opacity float64)
	Opacity() float64
	SetSize(width, height int)
	Size() (int, int)
	SetPosition(x, y int)
	Position() (int, int)
	SetIgnoreMouseEvents(ignore, forward bool)
	SetFocusable(focusable bool)
	SetAlwaysOnTop(onTop bool)
	// OnClosed 注册窗口销毁回调，覆盖式注册
	OnClosed(fn func())
}

// Backend 创建窗口、枚举显示器并截取主显示器画面
type Backend interface {
	CreateWindow(opts Options) (Native, error)
	PrimaryDisplay() model.Display
	Displays() []model.Display
	// CaptureScreen 返回 PNG 编码的整屏画面
	CaptureScreen(display model.Display) ([]byte, error)
}

// Notifier 把协调器事件推回 UI 界面
type Notifier interface {
	Publish(event string, payload interface{})
}
