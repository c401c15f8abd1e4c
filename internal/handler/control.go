package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"overlay-backend/internal/channel"
	"overlay-backend/internal/model"
	"overlay-backend/internal/utils"
	"overlay-backend/internal/window"
	"overlay-backend/pkg/logger"
)

// surfaceHeader 标识消息来自哪个界面，同一界面内的消息保持 FIFO
const surfaceHeader = "X-Surface"

type ControlHandler struct {
	dispatcher  *channel.Dispatcher
	broadcaster *channel.Broadcaster
	windows     *window.Coordinator
}

func NewControlHandler(dispatcher *channel.Dispatcher, broadcaster *channel.Broadcaster, windows *window.Coordinator) *ControlHandler {
	return &ControlHandler{
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		windows:     windows,
	}
}

func surfaceOf(c *gin.Context) string {
	if surface := c.GetHeader(surfaceHeader); surface != "" {
		return surface
	}
	return "main"
}

// Notify 投递 fire-and-forget 通知，载荷错误在投递后异步记录
func (h *ControlHandler) Notify(c *gin.Context) {
	var msg model.ControlMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dispatcher.Notify(surfaceOf(c), msg.Name, msg.Payload); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivered": true})
}

// Call 投递一次调用并阻塞等待唯一应答
func (h *ControlHandler) Call(c *gin.Context) {
	var msg model.ControlMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.dispatcher.Call(surfaceOf(c), msg.Name, msg.Payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": reply})
}

// Events 把协调器事件以 SSE 流推给订阅界面
func (h *ControlHandler) Events(c *gin.Context) {
	events, cancel := h.broadcaster.Subscribe()
	defer cancel()

	sseWriter := utils.NewSSEWriter(c.Writer)

	for {
		select {
		case event, ok := <-events:
			if !ok {
				sseWriter.Close()
				return
			}

			data, err := json.Marshal(event.Payload)
			if err != nil {
				logger.Errorf("Failed to marshal event %s: %v", event.Name, err)
				continue
			}
			if err := sseWriter.Write(event.Name, string(data)); err != nil {
				logger.Warnf("SSE write failed, dropping subscriber: %v", err)
				return
			}

		case <-c.Request.Context().Done():
			return
		}
	}
}

// Shortcut 接收全局快捷键事件并路由到固定绑定
func (h *ControlHandler) Shortcut(c *gin.Context) {
	var req model.ShortcutPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	handled := h.windows.HandleShortcut(req.Combo)
	c.JSON(http.StatusOK, gin.H{"handled": handled})
}

// ToggleCapture 翻转主窗口的捕获保护状态
func (h *ControlHandler) ToggleCapture(c *gin.Context) {
	c.JSON(http.StatusOK, h.windows.ToggleCaptureProtection())
}
