package window

import (
	"encoding/base64"
	"strings"
	"sync"

	"overlay-backend/internal/capture"
	"overlay-backend/internal/channel"
	"overlay-backend/internal/config"
	"overlay-backend/internal/model"
	"overlay-backend/pkg/logger"
)

// 全局快捷键绑定（固定映射）
const (
	ShortcutClickThrough = "Alt+Shift+O"
	ShortcutStealth      = "Alt+Shift+I"
	ShortcutMoveUp       = "Ctrl+Up"
	ShortcutMoveDown     = "Ctrl+Down"
	ShortcutMoveLeft     = "Ctrl+Left"
	ShortcutMoveRight    = "Ctrl+Right"
)

// 隐身模式下主窗口收拢到的固定尺寸
const (
	stealthWidth  = 600
	stealthHeight = 800
)

// Coordinator 持有两个窗口（主控制窗口与悬浮窗）的全部属性状态。
// 所有变更都经由同一个实例串行化，快捷键路径与显式调用路径
// 汇聚到同一个变更函数上。
type Coordinator struct {
	mu      sync.Mutex
	backend Backend
	gateway *capture.Gateway
	events  Notifier
	cfg     config.WindowConfig

	primary Native
	overlay Native

	overlayContent string
	overlayOpts    model.OverlayOptions

	clickThrough bool
	stealth      bool

	onPrimaryClosed func()
}

func NewCoordinator(backend Backend, gateway *capture.Gateway, events Notifier, cfg config.WindowConfig) *Coordinator {
	return &Coordinator{
		backend:        backend,
		gateway:        gateway,
		events:         events,
		cfg:            cfg,
		overlayContent: "Overlay",
	}
}

// StartPrimary 创建主控制窗口：无边框、透明、置顶、贴左上角、占满工作区高度
func (c *Coordinator) StartPrimary() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	display := c.backend.PrimaryDisplay()

	win, err := c.backend.CreateWindow(Options{
		Width:       c.cfg.PrimaryWidth,
		Height:      display.Size.Height,
		X:           display.Origin.X,
		Y:           display.Origin.Y,
		Frameless:   true,
		Transparent: true,
		AlwaysOnTop: true,
		SkipTaskbar: true,
		Focusable:   true,
		Resizable:   true,
		Show:        true,
	})
	if err != nil {
		return err
	}

	c.primary = win
	win.OnClosed(func() {
		c.mu.Lock()
		c.primary = nil
		fn := c.onPrimaryClosed
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	})

	c.assertCaptureProtectionLocked()
	return nil
}

// SetOnPrimaryClosed 注册主窗口销毁后的退出策略回调
func (c *Coordinator) SetOnPrimaryClosed(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPrimaryClosed = fn
}

// assertCaptureProtectionLocked 在窗口可见时重新施加捕获保护。
// 部分平台在窗口隐藏/显示时会隐式重置该属性，所以每次进入可见
// 状态都要重新设置，而不是只设置一次。
func (c *Coordinator) assertCaptureProtectionLocked() {
	if !c.gateway.Supported() || c.primary == nil || !c.primary.Visible() {
		return
	}
	if !c.gateway.HideFromCapture(c.primary.Handle()) {
		logger.Warn("Failed to hide primary window from screen capture")
	}
}

func (c *Coordinator) relaxCaptureProtectionLocked() {
	if !c.gateway.Supported() || c.primary == nil {
		return
	}
	c.gateway.ShowInCapture(c.primary.Handle())
}

// HandleShow 与 HandleFocus 由桌面后端的事件循环回调
func (c *Coordinator) HandleShow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assertCaptureProtectionLocked()
}

func (c *Coordinator) HandleFocus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assertCaptureProtectionLocked()
}

// ShowOverlay 合并粘性选项后重建悬浮窗。悬浮窗是单例：
// 旧实例先被完整销毁，再创建新实例。
func (c *Coordinator) ShowOverlay(opts model.OverlayOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlayOpts = c.overlayOpts.Merge(opts)
	if err := c.createOverlayLocked(); err != nil {
		return err
	}

	c.events.Publish(channel.EventOverlayUpdateContent, c.overlayContent)
	return nil
}

func (c *Coordinator) createOverlayLocked() error {
	if c.overlay != nil {
		old := c.overlay
		c.overlay = nil
		old.OnClosed(nil)
		old.Close()
	}

	opts := c.overlayOpts

	display := c.backend.PrimaryDisplay()
	if opts.DisplayID != nil {
		for _, d := range c.backend.Displays() {
			if d.ID == *opts.DisplayID {
				display = d
				break
			}
		}
	}

	offset := c.cfg.DefaultOffset
	x := display.Origin.X + offset
	y := display.Origin.Y + offset
	if opts.X != nil {
		x = *opts.X
	}
	if opts.Y != nil {
		y = *opts.Y
	}

	width := c.cfg.OverlayWidth
	if opts.Width != nil {
		width = *opts.Width
	}
	height := c.cfg.OverlayHeight
	if opts.Height != nil {
		height = *opts.Height
	}

	clickThrough := opts.ClickThrough != nil && *opts.ClickThrough

	win, err := c.backend.CreateWindow(Options{
		Width:       width,
		Height:      height,
		X:           x,
		Y:           y,
		Frameless:   true,
		Transparent: true,
		AlwaysOnTop: true,
		SkipTaskbar: true,
		Focusable:   !clickThrough,
		Resizable:   true,
		Show:        true,
	})
	if err != nil {
		return err
	}

	if clickThrough {
		win.SetIgnoreMouseEvents(true, true)
		win.SetAlwaysOnTop(true)
		win.SetFocusable(false)
	}
	if opts.Opacity != nil {
		win.SetOpacity(*opts.Opacity)
	}

	win.OnClosed(func() {
		c.mu.Lock()
		if c.overlay == win {
			c.overlay = nil
		}
		c.mu.Unlock()
	})

	c.overlay = win
	return nil
}

func (c *Coordinator) HideOverlay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.overlay != nil {
		old := c.overlay
		c.overlay = nil
		old.OnClosed(nil)
		old.Close()
	}
}

// UpdateOverlayContent 记录内容并推送给悬浮窗界面
func (c *Coordinator) UpdateOverlayContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlayContent = content
	c.events.Publish(channel.EventOverlayUpdateContent, content)
}

// MoveOverlay 带显示器 ID 时取该显示器原点加偏移，否则按绝对坐标
func (c *Coordinator) MoveOverlay(move model.MovePayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlayOpts.X = move.X
	c.overlayOpts.Y = move.Y
	c.overlayOpts.DisplayID = move.DisplayID

	if c.overlay == nil {
		return
	}

	offset := c.cfg.DefaultOffset
	x := offset
	y := offset
	if move.X != nil {
		x = *move.X
	}
	if move.Y != nil {
		y = *move.Y
	}

	if move.DisplayID != nil {
		for _, d := range c.backend.Displays() {
			if d.ID == *move.DisplayID {
				c.overlay.SetPosition(d.Origin.X+x, d.Origin.Y+y)
				return
			}
		}
	}
	c.overlay.SetPosition(x, y)
}

func (c *Coordinator) SetOverlayOpacity(opacity float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlayOpts.Opacity = &opacity
	if c.overlay != nil {
		c.overlay.SetOpacity(opacity)
	}
}

func (c *Coordinator) SetOverlaySize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlayOpts.Width = &width
	c.overlayOpts.Height = &height
	if c.overlay != nil {
		c.overlay.SetSize(width, height)
	}
}

func (c *Coordinator) SetOverlayClickThrough(clickThrough bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.overlayOpts.ClickThrough = &clickThrough
	if c.overlay != nil {
		c.overlay.SetIgnoreMouseEvents(clickThrough, true)
	}
}

// OverlayState 汇报悬浮窗当前状态，未显式设置过的字段给默认值
func (c *Coordinator) OverlayState() model.OverlayState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := model.OverlayState{
		Visible:   c.overlay != nil && c.overlay.Visible(),
		Content:   c.overlayContent,
		Opacity:   1.0,
		Width:     c.cfg.OverlayWidth,
		Height:    c.cfg.OverlayHeight,
		X:         c.overlayOpts.X,
		Y:         c.overlayOpts.Y,
		DisplayID: c.overlayOpts.DisplayID,
	}
	if c.overlayOpts.Opacity != nil {
		state.Opacity = *c.overlayOpts.Opacity
	}
	if c.overlayOpts.ClickThrough != nil {
		state.ClickThrough = *c.overlayOpts.ClickThrough
	}
	if c.overlayOpts.Width != nil {
		state.Width = *c.overlayOpts.Width
	}
	if c.overlayOpts.Height != nil {
		state.Height = *c.overlayOpts.Height
	}
	return state
}

func (c *Coordinator) SetPrimaryOpacity(opacity float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primary != nil {
		c.primary.SetOpacity(opacity)
	}
}

// SetPrimarySize 把宽度收拢到下限之上再应用，高度不做约束
func (c *Coordinator) SetPrimarySize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPrimarySizeLocked(width, height)
}

func (c *Coordinator) setPrimarySizeLocked(width, height int) {
	if width < c.cfg.PrimaryMinWidth {
		width = c.cfg.PrimaryMinWidth
	}
	if c.primary != nil {
		c.primary.SetSize(width, height)
	}
}

// SetPrimaryClickThrough 显式设置点击穿透。与快捷键切换共用同一个
// 变更加通知函数，保证两条路径不会产生分叉状态。
func (c *Coordinator) SetPrimaryClickThrough(clickThrough bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setClickThroughLocked(clickThrough)
}

// ToggleClickThrough 由全局快捷键触发
func (c *Coordinator) ToggleClickThrough() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setClickThroughLocked(!c.clickThrough)
}

func (c *Coordinator) setClickThroughLocked(clickThrough bool) {
	c.clickThrough = clickThrough
	if c.primary != nil {
		c.primary.SetIgnoreMouseEvents(clickThrough, true)
	}
	// 通知总是携带协调器落定后的状态，而不是调用方想要的状态
	c.events.Publish(channel.EventMainClickThroughToggled, c.clickThrough)
}

func (c *Coordinator) ClickThrough() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clickThrough
}

// ToggleStealth 切换隐身展示模式（界面层的视觉隐藏，与点击穿透无关）
func (c *Coordinator) ToggleStealth() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stealth = !c.stealth
	if c.stealth {
		c.setPrimarySizeLocked(stealthWidth, stealthHeight)
	}
	c.events.Publish(channel.EventMainStealthToggled, c.stealth)
}

func (c *Coordinator) Stealth() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stealth
}

// NudgePrimary 按固定步长平移主窗口，不做屏幕边缘约束
func (c *Coordinator) NudgePrimary(dx, dy int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primary == nil {
		return
	}
	x, y := c.primary.Position()
	c.primary.SetPosition(x+dx*c.cfg.MoveStep, y+dy*c.cfg.MoveStep)
}

// HandleShortcut 把固定快捷键绑定路由到对应的状态变更。
// 未知组合返回 false。
func (c *Coordinator) HandleShortcut(combo string) bool {
	switch {
	case strings.EqualFold(combo, ShortcutClickThrough):
		c.ToggleClickThrough()
	case strings.EqualFold(combo, ShortcutStealth):
		c.ToggleStealth()
	case strings.EqualFold(combo, ShortcutMoveUp):
		c.NudgePrimary(0, -1)
	case strings.EqualFold(combo, ShortcutMoveDown):
		c.NudgePrimary(0, 1)
	case strings.EqualFold(combo, ShortcutMoveLeft):
		c.NudgePrimary(-1, 0)
	case strings.EqualFold(combo, ShortcutMoveRight):
		c.NudgePrimary(1, 0)
	default:
		return false
	}
	return true
}

// Minimize 隐藏主窗口并解除捕获保护：不可见的窗口不需要保护，
// 恢复显示时会重新施加
func (c *Coordinator) Minimize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primary == nil {
		return
	}
	c.primary.Hide()
	c.relaxCaptureProtectionLocked()
}

// RestorePrimary 恢复显示并重新施加捕获保护
func (c *Coordinator) RestorePrimary() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.primary == nil {
		return
	}
	c.primary.Show()
	c.primary.Focus()
	c.assertCaptureProtectionLocked()
}

// CloseApp 关闭主窗口，进程退出策略由上层按平台惯例决定
func (c *Coordinator) CloseApp() {
	c.mu.Lock()
	primary := c.primary
	c.mu.Unlock()

	if primary != nil {
		primary.Close()
	}
}

func (c *Coordinator) HideFromCapture() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gateway.Supported() || c.primary == nil {
		return false
	}
	return c.gateway.HideFromCapture(c.primary.Handle())
}

func (c *Coordinator) ShowInCapture() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gateway.Supported() || c.primary == nil {
		return false
	}
	return c.gateway.ShowInCapture(c.primary.Handle())
}

func (c *Coordinator) CaptureState() model.CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gateway.Supported() || c.primary == nil {
		return model.CaptureState{Supported: false}
	}

	affinity := c.gateway.GetWindowDisplayAffinity(c.primary.Handle())
	if affinity < 0 {
		return model.CaptureState{
			Supported: true,
			Error:     "failed to query window display affinity",
		}
	}
	return model.CaptureState{
		Supported: true,
		Hidden:    affinity == capture.AffinityExcludeFromCapture,
		Affinity:  affinity,
	}
}

// ToggleCaptureProtection 查询当前状态后翻转。窗口处于隐藏状态时的
// 手动切换可能在下次显示时被自动重施覆盖。
func (c *Coordinator) ToggleCaptureProtection() model.ToggleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gateway.Supported() || c.primary == nil {
		return model.ToggleResult{Success: false}
	}

	handle := c.primary.Handle()
	excluded := c.gateway.GetWindowDisplayAffinity(handle) == capture.AffinityExcludeFromCapture

	var ok bool
	if excluded {
		ok = c.gateway.ShowInCapture(handle)
	} else {
		ok = c.gateway.HideFromCapture(handle)
	}

	enabled := excluded
	if ok {
		enabled = !excluded
	}
	return model.ToggleResult{Success: ok, Enabled: enabled}
}

// TakeScreenshot 截取主显示器当前画面，与发起请求的窗口无关
func (c *Coordinator) TakeScreenshot() model.ScreenshotResult {
	c.mu.Lock()
	display := c.backend.PrimaryDisplay()
	c.mu.Unlock()

	png, err := c.backend.CaptureScreen(display)
	if err != nil || len(png) == 0 {
		if err != nil {
			logger.Warnf("Screen capture failed: %v", err)
		}
		return model.ScreenshotResult{Success: false, Error: "Could not capture screenshot."}
	}

	return model.ScreenshotResult{
		Success: true,
		Base64:  base64.StdEncoding.EncodeToString(png),
		Mime:    "image/png",
	}
}

// PrimaryAttributes 汇总主窗口属性快照，供诊断与测试使用
func (c *Coordinator) PrimaryAttributes() model.WindowAttributes {
	c.mu.Lock()
	defer c.mu.Unlock()

	attrs := model.WindowAttributes{
		ClickThrough: c.clickThrough,
	}
	if c.primary == nil {
		return attrs
	}

	attrs.Opacity = c.primary.Opacity()
	attrs.Visible = c.primary.Visible()
	width, height := c.primary.Size()
	attrs.Size = model.Size{Width: width, Height: height}
	x, y := c.primary.Position()
	attrs.Position = model.Point{X: x, Y: y}
	if c.gateway.Supported() {
		attrs.CaptureExcluded = c.gateway.GetWindowDisplayAffinity(c.primary.Handle()) == capture.AffinityExcludeFromCapture
	}
	return attrs
}
