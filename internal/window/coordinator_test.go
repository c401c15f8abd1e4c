package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overlay-backend/internal/capture"
	"overlay-backend/internal/channel"
	"overlay-backend/internal/config"
	"overlay-backend/internal/model"
)

type recordedEvent struct {
	name    string
	payload interface{}
}

type eventRecorder struct {
	events []recordedEvent
}

func (r *eventRecorder) Publish(event string, payload interface{}) {
	r.events = append(r.events, recordedEvent{name: event, payload: payload})
}

func (r *eventRecorder) named(name string) []recordedEvent {
	var matched []recordedEvent
	for _, e := range r.events {
		if e.name == name {
			matched = append(matched, e)
		}
	}
	return matched
}

func testWindowConfig() config.WindowConfig {
	return config.WindowConfig{
		PrimaryWidth:    600,
		PrimaryMinWidth: 420,
		OverlayWidth:    600,
		OverlayHeight:   200,
		MoveStep:        50,
		DefaultOffset:   100,
	}
}

func newTestCoordinator(t *testing.T, displays ...model.Display) (*Coordinator, *eventRecorder) {
	t.Helper()

	events := &eventRecorder{}
	c := NewCoordinator(NewHeadlessBackend(displays...), capture.NewGateway(), events, testWindowConfig())
	require.NoError(t, c.StartPrimary())
	return c, events
}

func TestStartPrimaryFillsWorkAreaHeight(t *testing.T) {
	c, _ := newTestCoordinator(t)

	attrs := c.PrimaryAttributes()
	assert.True(t, attrs.Visible)
	assert.Equal(t, model.Size{Width: 600, Height: 1080}, attrs.Size)
	assert.Equal(t, model.Point{X: 0, Y: 0}, attrs.Position)
}

func TestShowOverlayDefaults(t *testing.T) {
	c, events := newTestCoordinator(t)

	require.NoError(t, c.ShowOverlay(model.OverlayOptions{}))

	state := c.OverlayState()
	assert.True(t, state.Visible)
	assert.Equal(t, "Overlay", state.Content)
	assert.Equal(t, 600, state.Width)
	assert.Equal(t, 200, state.Height)
	assert.Equal(t, 1.0, state.Opacity)
	assert.False(t, state.ClickThrough)

	// 每次显示都把当前内容重新推送给悬浮窗界面
	updates := events.named(channel.EventOverlayUpdateContent)
	require.Len(t, updates, 1)
	assert.Equal(t, "Overlay", updates[0].payload)
}

func TestShowOverlayOptionsAreSticky(t *testing.T) {
	c, _ := newTestCoordinator(t)

	width := 300
	opacity := 0.5
	require.NoError(t, c.ShowOverlay(model.OverlayOptions{Width: &width, Opacity: &opacity}))
	c.HideOverlay()
	assert.False(t, c.OverlayState().Visible)

	// 再次显示时沿用之前显式设置过的字段
	require.NoError(t, c.ShowOverlay(model.OverlayOptions{}))
	state := c.OverlayState()
	assert.True(t, state.Visible)
	assert.Equal(t, 300, state.Width)
	assert.Equal(t, 0.5, state.Opacity)
}

func TestUpdateOverlayContentWhileHidden(t *testing.T) {
	c, events := newTestCoordinator(t)

	c.UpdateOverlayContent("answer text")

	state := c.OverlayState()
	assert.False(t, state.Visible)
	assert.Equal(t, "answer text", state.Content)

	updates := events.named(channel.EventOverlayUpdateContent)
	require.Len(t, updates, 1)
	assert.Equal(t, "answer text", updates[0].payload)
}

func TestMoveOverlayRecordsDisplayTarget(t *testing.T) {
	c, _ := newTestCoordinator(t,
		model.Display{ID: 1, Origin: model.Point{X: 0, Y: 0}, Size: model.Size{Width: 1920, Height: 1080}},
		model.Display{ID: 2, Origin: model.Point{X: 1920, Y: 0}, Size: model.Size{Width: 1920, Height: 1080}},
	)

	require.NoError(t, c.ShowOverlay(model.OverlayOptions{}))

	displayID := int64(2)
	c.MoveOverlay(model.MovePayload{DisplayID: &displayID})

	state := c.OverlayState()
	require.NotNil(t, state.DisplayID)
	assert.Equal(t, int64(2), *state.DisplayID)
}

func TestSetOverlayAttributesWhileHidden(t *testing.T) {
	c, _ := newTestCoordinator(t)

	// 悬浮窗未显示时的设置不报错，下次显示时生效
	c.SetOverlaySize(800, 300)
	c.SetOverlayOpacity(0.7)
	c.SetOverlayClickThrough(true)

	state := c.OverlayState()
	assert.False(t, state.Visible)
	assert.Equal(t, 800, state.Width)
	assert.Equal(t, 300, state.Height)
	assert.Equal(t, 0.7, state.Opacity)
	assert.True(t, state.ClickThrough)
}

func TestSetPrimarySizeClampsWidth(t *testing.T) {
	c, _ := newTestCoordinator(t)

	c.SetPrimarySize(100, 500)

	attrs := c.PrimaryAttributes()
	assert.Equal(t, 420, attrs.Size.Width)
	assert.Equal(t, 500, attrs.Size.Height)
}

func TestClickThroughPathsConverge(t *testing.T) {
	c, events := newTestCoordinator(t)

	c.SetPrimaryClickThrough(true)
	c.ToggleClickThrough()
	c.ToggleClickThrough()

	toggles := events.named(channel.EventMainClickThroughToggled)
	require.Len(t, toggles, 3)
	assert.Equal(t, true, toggles[0].payload)
	assert.Equal(t, false, toggles[1].payload)
	assert.Equal(t, true, toggles[2].payload)

	// 通知携带的状态与协调器落定状态一致
	assert.True(t, c.ClickThrough())
	assert.True(t, c.PrimaryAttributes().ClickThrough)
}

func TestToggleStealthResizesOnEnter(t *testing.T) {
	c, events := newTestCoordinator(t)

	c.ToggleStealth()
	assert.True(t, c.Stealth())
	assert.Equal(t, model.Size{Width: 600, Height: 800}, c.PrimaryAttributes().Size)

	// 退出隐身不恢复尺寸
	c.ToggleStealth()
	assert.False(t, c.Stealth())
	assert.Equal(t, model.Size{Width: 600, Height: 800}, c.PrimaryAttributes().Size)

	toggles := events.named(channel.EventMainStealthToggled)
	require.Len(t, toggles, 2)
	assert.Equal(t, true, toggles[0].payload)
	assert.Equal(t, false, toggles[1].payload)
}

func TestNudgePrimaryStepsUnclamped(t *testing.T) {
	c, _ := newTestCoordinator(t)

	c.NudgePrimary(-1, 0)
	c.NudgePrimary(-1, 0)

	// 允许移出屏幕边缘
	attrs := c.PrimaryAttributes()
	assert.Equal(t, model.Point{X: -100, Y: 0}, attrs.Position)
}

func TestHandleShortcutBindings(t *testing.T) {
	c, _ := newTestCoordinator(t)

	assert.True(t, c.HandleShortcut("Ctrl+Right"))
	assert.True(t, c.HandleShortcut("ctrl+down"))
	assert.Equal(t, model.Point{X: 50, Y: 50}, c.PrimaryAttributes().Position)

	assert.True(t, c.HandleShortcut("Alt+Shift+O"))
	assert.True(t, c.ClickThrough())

	assert.False(t, c.HandleShortcut("Ctrl+Q"))
}

func TestMinimizeAndRestore(t *testing.T) {
	c, _ := newTestCoordinator(t)

	c.Minimize()
	assert.False(t, c.PrimaryAttributes().Visible)

	c.RestorePrimary()
	assert.True(t, c.PrimaryAttributes().Visible)
}

func TestCloseAppInvokesExitPolicy(t *testing.T) {
	c, _ := newTestCoordinator(t)

	closed := make(chan struct{}, 1)
	c.SetOnPrimaryClosed(func() {
		closed <- struct{}{}
	})

	c.CloseApp()

	select {
	case <-closed:
	default:
		t.Fatal("expected primary-closed callback")
	}
	assert.False(t, c.PrimaryAttributes().Visible)
}

func TestCaptureStateUnsupportedPlatform(t *testing.T) {
	if capture.NewGateway().Supported() {
		t.Skip("platform supports capture affinity")
	}

	c, _ := newTestCoordinator(t)

	state := c.CaptureState()
	assert.False(t, state.Supported)

	assert.False(t, c.HideFromCapture())
	assert.False(t, c.ShowInCapture())
	assert.False(t, c.ToggleCaptureProtection().Success)
}

func TestTakeScreenshotHeadless(t *testing.T) {
	c, _ := newTestCoordinator(t)

	result := c.TakeScreenshot()
	assert.False(t, result.Success)
	assert.Equal(t, "Could not capture screenshot.", result.Error)
}
