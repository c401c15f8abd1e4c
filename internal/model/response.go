package model

// OverlayState 是 overlay:get-state 的应答
type OverlayState struct {
	Visible      bool    `json:"visible"`
	Content      string  `json:"content"`
	Opacity      float64 `json:"opacity"`
	ClickThrough bool    `json:"clickThrough"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	X            *int    `json:"x,omitempty"`
	Y            *int    `json:"y,omitempty"`
	DisplayID    *int64  `json:"displayId,omitempty"`
}

type SetModelResult struct {
	Success bool   `json:"success"`
	Model   string `json:"model"`
	Error   string `json:"error,omitempty"`
}

type ModelResult struct {
	Model string `json:"model"`
}

type AskResult struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer,omitempty"`
	Error   string `json:"error,omitempty"`
}

type CaptureState struct {
	Supported bool   `json:"supported"`
	Hidden    bool   `json:"hidden,omitempty"`
	Affinity  int    `json:"affinity,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ScreenshotResult struct {
	Success bool   `json:"success"`
	Base64  string `json:"base64,omitempty"`
	Mime    string `json:"mime,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ToggleResult struct {
	Success bool `json:"success"`
	Enabled bool `json:"enabled"`
}
