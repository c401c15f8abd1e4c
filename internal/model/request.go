package model

import "encoding/json"

// 控制面消息载荷（字段命名遵循线上契约，camelCase）

type MovePayload struct {
	X         *int   `json:"x,omitempty"`
	Y         *int   `json:"y,omitempty"`
	DisplayID *int64 `json:"displayId,omitempty"`
}

type SizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type OpacityPayload struct {
	Opacity float64 `json:"opacity"`
}

type ClickThroughPayload struct {
	ClickThrough bool `json:"clickThrough"`
}

type ContentPayload struct {
	Content string `json:"content"`
}

type SetModelPayload struct {
	Model string `json:"model"`
}

type ShortcutPayload struct {
	Combo string `json:"combo" binding:"required"`
}

// ControlMessage 是通知与调用的统一信封
type ControlMessage struct {
	Name    string          `json:"name" binding:"required"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// 会话 REST 请求

type SubmitMessageRequest struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type EditMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type PromptRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type ActivatePromptRequest struct {
	ID string `json:"id"`
}
