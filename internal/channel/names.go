package channel

// 控制面消息词汇表。名称是跨进程契约的一部分，精确匹配，不做模糊处理。

// 通知（fire-and-forget，无应答）
const (
	OverlayShow            = "overlay:show"
	OverlayHide            = "overlay:hide"
	OverlayUpdateContent   = "overlay:update-content"
	OverlayMove            = "overlay:move"
	OverlaySetOpacity      = "overlay:set-opacity"
	OverlaySetSize         = "overlay:set-size"
	OverlaySetClickThrough = "overlay:set-click-through"
	MainSetOpacity         = "main:set-opacity"
	MainSetSize            = "main:set-size"
	MainSetClickThrough    = "main:set-click-through"
	MainCloseApp           = "main:close-app"
	MainMinimize           = "main:minimize"
)

// 调用（一次请求，恰好一次应答）
const (
	OverlayGetState       = "overlay:get-state"
	ChatbotSetModel       = "chatbot:set-model"
	ChatbotGetModel       = "chatbot:get-model"
	ChatbotAskMCP         = "chatbot:ask-mcp"
	MainHideFromCapture   = "main:hide-from-capture"
	MainShowInCapture     = "main:show-in-capture"
	MainGetCaptureState   = "main:get-capture-state"
	OverlayTakeScreenshot = "overlay:take-screenshot"
)

// 协调器推送给 UI 的事件
const (
	EventOverlayUpdateContent    = "overlay:update-content"
	EventMainClickThroughToggled = "main:click-through-toggled"
	EventMainStealthToggled      = "main:stealth-toggled"
	EventChatTranscriptUpdated   = "chat:transcript-updated"
)
